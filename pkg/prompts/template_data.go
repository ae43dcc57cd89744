package prompts

// 埋め込みテンプレートのファイル名と一致するモード名なのだ。
const (
	ModeExplain = "explain"
	ModeReflect = "reflect"
)

// TemplateData はプロンプトのテンプレートに渡すデータ構造です。
type TemplateData struct {
	Book        string
	Chapter     int
	Translation string
	// Passage は章全体または1節の本文なのだ。
	Passage string
}
