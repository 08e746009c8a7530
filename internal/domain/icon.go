package domain

// TabIcon classifies a repository by its project markers. Exactly one icon
// is assigned per tab; classification is order sensitive and the first
// matching rule wins.
type TabIcon string

const (
	IconAngular TabIcon = "angular"
	IconFolder  TabIcon = "folder" // generic fallback
	IconGit     TabIcon = "git"    // bare version-control marker
	IconGo      TabIcon = "go"
	IconJava    TabIcon = "java"
	IconNode    TabIcon = "node" // generic package manifest
	IconPython  TabIcon = "python"
	IconReact   TabIcon = "react"
	IconRust    TabIcon = "rust"
	IconVue     TabIcon = "vue"
)

// Badge returns the single-glyph form shown in list rows and status bars
func (i TabIcon) Badge() string {
	switch i {
	case IconAngular:
		return "🅰"
	case IconGit:
		return ""
	case IconGo:
		return "🐹"
	case IconJava:
		return "☕"
	case IconNode:
		return "📦"
	case IconPython:
		return "🐍"
	case IconReact:
		return "⚛"
	case IconRust:
		return "🦀"
	case IconVue:
		return "🟩"
	default:
		return "📁"
	}
}
