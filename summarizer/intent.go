package summarizer

import "strings"

type Format string

const (
	FormatBullet        Format = "bullet"
	FormatParagraph     Format = "paragraph"
	FormatChapter       Format = "chapter"
	FormatShort         Format = "short"
	FormatComprehensive Format = "comprehensive"
)

type Focus string

const (
	FocusCharacters Focus = "characters"
	FocusThemes     Focus = "themes"
	FocusPlot       Focus = "plot"
	FocusAnalysis   Focus = "analysis"
	FocusKeyPoints  Focus = "key_points"
	FocusGeneral    Focus = "general"
)

// Intent is the classified (format, focus) pair derived from a free-text
// request. It is recomputed per request and never persisted.
type Intent struct {
	Format Format
	Focus  Focus
}

// Category lists are checked in a fixed priority order and the first
// category with any keyword hit wins. Reordering them changes behavior.
var formatCategories = []struct {
	format   Format
	keywords []string
}{
	{FormatBullet, []string{"bullet", "points", "list", "•", "-", "point-wise"}},
	{FormatParagraph, []string{"paragraph", "detailed", "comprehensive", "full"}},
	{FormatChapter, []string{"chapter", "chapters", "section", "parts"}},
	{FormatShort, []string{"short", "brief", "quick", "concise", "tl;dr", "summary"}},
}

var focusCategories = []struct {
	focus    Focus
	keywords []string
}{
	{FocusCharacters, []string{"character", "person", "protagonist", "antagonist", "cast"}},
	{FocusThemes, []string{"theme", "message", "moral", "lesson", "meaning"}},
	{FocusPlot, []string{"plot", "story", "narrative", "events", "happens"}},
	{FocusAnalysis, []string{"analyze", "analysis", "critical", "review", "critique"}},
	{FocusKeyPoints, []string{"key", "main", "important", "essential", "core"}},
}

// AnalyzeIntent keyword-matches the lower-cased prompt against the ordered
// category lists. No hit defaults to comprehensive/general.
func AnalyzeIntent(prompt string) Intent {
	lower := strings.ToLower(prompt)

	intent := Intent{Format: FormatComprehensive, Focus: FocusGeneral}

	for _, cat := range formatCategories {
		if containsAny(lower, cat.keywords) {
			intent.Format = cat.format
			break
		}
	}
	for _, cat := range focusCategories {
		if containsAny(lower, cat.keywords) {
			intent.Focus = cat.focus
			break
		}
	}
	return intent
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
