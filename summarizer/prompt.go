package summarizer

import (
	"fmt"
	"strings"

	"docsum/types"

	"github.com/pkoukk/tiktoken-go"
)

const instructionBase = "You are an expert literary analyst and document summarizer. "

var focusInstructions = map[Focus]string{
	FocusCharacters: "Focus on character development, motivations, relationships, and arcs.",
	FocusThemes:     "Identify and analyze the main themes, symbols, and underlying messages.",
	FocusPlot:       "Trace the narrative structure, key events, and plot developments.",
	FocusAnalysis:   "Provide critical analysis, evaluate the writing style, and discuss significance.",
	FocusKeyPoints:  "Extract and highlight the most important ideas and takeaways.",
	FocusGeneral:    "Provide a balanced, comprehensive overview.",
}

var formatInstructions = map[Format]string{
	FormatBullet:        "\n\nFormat your response as clear bullet points using •. Be concise but informative.",
	FormatParagraph:     "\n\nWrite in well-structured paragraphs with clear transitions between ideas.",
	FormatChapter:       "\n\nOrganize your summary by chapters or major sections. For each chapter, provide a brief overview.",
	FormatShort:         "\n\nKeep your response extremely concise - no more than 3-4 sentences.",
	FormatComprehensive: "\n\nProvide a detailed, well-structured summary covering all major aspects.",
}

// BuildInstruction assembles the system instruction from the focus and
// format fragments. Pure function of Intent.
func BuildInstruction(intent Intent) string {
	focus, ok := focusInstructions[intent.Focus]
	if !ok {
		focus = focusInstructions[FocusGeneral]
	}
	format, ok := formatInstructions[intent.Format]
	if !ok {
		format = formatInstructions[FormatComprehensive]
	}
	return instructionBase + focus + format
}

// buildContext concatenates the top-ranked chunks up to maxChunks, hard
// truncating at maxChars. Provider context windows differ, so both caps
// come from the provider.
func buildContext(results []types.RetrievalResult, maxChunks, maxChars int) string {
	if maxChunks > len(results) {
		maxChunks = len(results)
	}
	parts := make([]string, 0, maxChunks)
	for _, r := range results[:maxChunks] {
		parts = append(parts, r.Text)
	}
	context := strings.Join(parts, " ")
	if len(context) > maxChars {
		context = context[:maxChars] + "..."
	}
	return context
}

// buildUserMessage embeds the verbatim user prompt together with the
// retrieved context.
func buildUserMessage(prompt, context string) string {
	return fmt.Sprintf(`Based on the following document excerpt, please respond to this specific request:

USER REQUEST: %s

DOCUMENT EXCERPT:
%s

Your response should directly address the user's request above.`, prompt, context)
}

var tokenEncoder *tiktoken.Tiktoken

// InitTokenCounter loads the tokenizer once at startup. Token counts are
// best-effort accounting for log lines; without the encoder they read zero.
func InitTokenCounter() error {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return err
	}
	tokenEncoder = enc
	return nil
}

func countTokens(text string) int {
	if tokenEncoder == nil {
		return 0
	}
	return len(tokenEncoder.Encode(text, nil, nil))
}
