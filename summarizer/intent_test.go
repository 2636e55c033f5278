package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeIntent(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		format Format
		focus  Focus
	}{
		{"bullet points", "give me bullet points", FormatBullet, FocusGeneral},
		{"detailed paragraphs", "a detailed overview please", FormatParagraph, FocusGeneral},
		{"chapter wise", "summarize chapter by chapter", FormatChapter, FocusGeneral},
		{"short", "quick tl;dr of this", FormatShort, FocusGeneral},
		{"no keywords", "what does the author say", FormatComprehensive, FocusGeneral},
		{"characters", "tell me about the protagonist", FormatComprehensive, FocusCharacters},
		{"themes", "what is the moral of it", FormatComprehensive, FocusThemes},
		{"plot", "what happens in the narrative", FormatComprehensive, FocusPlot},
		{"analysis", "critical review of the writing", FormatComprehensive, FocusAnalysis},
		{"key points", "the most important takeaways", FormatComprehensive, FocusKeyPoints},
		{"combined", "brief summary of the main themes", FormatShort, FocusThemes},
		{"case insensitive", "BULLET POINTS about the PLOT", FormatBullet, FocusPlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := AnalyzeIntent(tt.prompt)
			assert.Equal(t, tt.format, intent.Format)
			assert.Equal(t, tt.focus, intent.Focus)
		})
	}
}

func TestAnalyzeIntentPriorityOrder(t *testing.T) {
	// "list" (bullet) appears later in the prompt than "full" (paragraph),
	// but bullet is checked first and wins
	intent := AnalyzeIntent("full list of ideas")
	assert.Equal(t, FormatBullet, intent.Format)

	// characters beats themes in the focus priority order
	intent = AnalyzeIntent("the message each character carries")
	assert.Equal(t, FocusCharacters, intent.Focus)
}

func TestBuildInstruction(t *testing.T) {
	ins := BuildInstruction(Intent{Format: FormatBullet, Focus: FocusThemes})
	assert.True(t, strings.HasPrefix(ins, instructionBase))
	assert.Contains(t, ins, "themes")
	assert.Contains(t, ins, "bullet points")

	// pure function: same intent, same instruction
	assert.Equal(t, ins, BuildInstruction(Intent{Format: FormatBullet, Focus: FocusThemes}))

	// zero-value intent falls back to the defaults
	def := BuildInstruction(Intent{})
	assert.Contains(t, def, "comprehensive overview")
	assert.Contains(t, def, "detailed, well-structured summary")
}
