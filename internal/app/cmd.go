package app

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はWebティア（管理画面・エッジゲート）で起動することを示す。
	CommandServe Command = "serve"
	// CommandAPI はAPIティア（コンテンツAPI・管理データAPI）で起動することを示す。
	CommandAPI Command = "api"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "api":
		return CommandAPI
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
