package credential

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shouni/go-utils/envutil"
)

// EnvKeyName は認証情報を保持する環境変数名です。
const EnvKeyName = "GEMINI_API_KEY"

// Gate は利用可能なAPI認証情報の有無を確認し、必要なら対話的に取得する窓口なのだ。
// 状態そのものはホスト環境が持ち、Gate は毎回問い直すだけで値をキャッシュしません。
type Gate interface {
	// IsAvailable は現在選択されている認証情報があるかを返します。副作用はありません。
	IsAvailable(ctx context.Context) bool
	// AcquireInteractively はユーザーに認証情報の入力を促します。
	// フローが閉じた時点で戻るだけで、実際に入力されたかどうかは保証しないのだ。
	// 呼び出し側は戻った後に必ず IsAvailable で再確認してほしいのだ。
	AcquireInteractively(ctx context.Context) error
	// CurrentKey は現在の認証情報をそのまま返します。未設定なら空文字列です。
	CurrentKey() string
}

// EnvGate は環境変数を認証情報ストアとして扱う標準実装です。
// 対話的取得は端末からの読み取りで行い、端末がなければ安全に何もしないのだ。
type EnvGate struct {
	in  io.Reader
	out io.Writer

	// interactive はホスト側に対話フローが存在するかどうかを示すのだ。
	interactive bool
}

// NewEnvGate は標準入出力に束縛された EnvGate を生成します。
func NewEnvGate() *EnvGate {
	return &EnvGate{
		in:          os.Stdin,
		out:         os.Stderr,
		interactive: isTerminal(os.Stdin),
	}
}

// NewEnvGateWithIO はテストや組み込み用に入出力を差し替えられるコンストラクタなのだ。
func NewEnvGateWithIO(in io.Reader, out io.Writer, interactive bool) *EnvGate {
	return &EnvGate{in: in, out: out, interactive: interactive}
}

// IsAvailable は環境変数を毎回読み直して判定します。
// ホスト環境が認証機構を持たない場合でもエラーにはせず false を返すだけなのだ。
func (g *EnvGate) IsAvailable(ctx context.Context) bool {
	return strings.TrimSpace(envutil.GetEnv(EnvKeyName, "")) != ""
}

// AcquireInteractively は端末上でAPIキーの入力を促し、入力値をプロセス環境に反映します。
// 空入力のまま閉じられても成功として戻るのだ（再確認は呼び出し側の責務）。
func (g *EnvGate) AcquireInteractively(ctx context.Context) error {
	if !g.interactive {
		// 対話フローを持たないホストでは静かに諦めるのだ
		slog.Warn("対話的なAPIキー入力が利用できない環境なのだ", "env", EnvKeyName)
		return nil
	}

	fmt.Fprintf(g.out, "Gemini APIキーを入力してほしいのだ（%s）: ", EnvKeyName)

	scanner := bufio.NewScanner(g.in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("APIキーの読み取りに失敗したのだ: %w", err)
		}
		return nil
	}

	key := strings.TrimSpace(scanner.Text())
	if key == "" {
		return nil
	}

	if err := os.Setenv(EnvKeyName, key); err != nil {
		return fmt.Errorf("環境変数 %s の設定に失敗したのだ: %w", EnvKeyName, err)
	}
	slog.Info("APIキーを受け付けたのだ")
	return nil
}

// CurrentKey は現在の認証情報を返します。
func (g *EnvGate) CurrentKey() string {
	return strings.TrimSpace(envutil.GetEnv(EnvKeyName, ""))
}

// isTerminal は標準入力がキャラクタデバイス（端末）かどうかを判定するのだ。
func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
