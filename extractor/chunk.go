package extractor

import (
	"strings"
)

// ChunkText splits cleaned text into overlapping chunks, preserving
// paragraph boundaries where possible. The overlap carried between
// consecutive chunks is the last overlapPercent% of words of the emitted
// chunk, so no word is ever split in half.
func ChunkText(text string, chunkSize, overlapPercent int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	paragraphs := strings.Split(text, "\n\n")

	var current string
	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(current)+len(para) > chunkSize && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))
			current = overlapTail(current, overlapPercent) + " " + para
			continue
		}

		if current != "" {
			current += "\n\n" + para
		} else {
			current = para
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

// overlapTail returns the last overlapPercent% of words of chunk.
func overlapTail(chunk string, overlapPercent int) string {
	words := strings.Fields(chunk)
	if len(words) == 0 {
		return ""
	}
	n := len(words) * overlapPercent / 100
	return strings.Join(words[len(words)-n:], " ")
}
