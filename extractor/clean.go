package extractor

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	minLineLen     = 20
	noiseOverride  = 50 // lines longer than this keep matched boilerplate
	cleaningFloor  = 20 // below this many retained lines, cleaning is abandoned
	specialRatio   = 0.3
	uppercaseRatio = 0.7
)

// noisePatterns match boilerplate that survives raw extraction: page
// numbers, copyright footers, URLs, subscription prompts, e-book metadata.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^page\s+\d+$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`(?i)copyright\s+©`),
	regexp.MustCompile(`(?i)all rights reserved`),
	regexp.MustCompile(`(?i)www\.`),
	regexp.MustCompile(`(?i)http`),
	regexp.MustCompile(`@`),
	regexp.MustCompile(`(?i)newsletter`),
	regexp.MustCompile(`(?i)subscribe`),
	regexp.MustCompile(`(?i)terms of service`),
	regexp.MustCompile(`(?i)privacy policy`),
	regexp.MustCompile(`(?i)ebook`),
	regexp.MustCompile(`(?i)kindle`),
	regexp.MustCompile(`(?i)epub`),
	regexp.MustCompile(`(?i)chapter\s+\d+`),
	regexp.MustCompile(`(?i)prologue`),
	regexp.MustCompile(`(?i)epilogue`),
	regexp.MustCompile(`(?i)appendix`),
	regexp.MustCompile(`(?i)illustration`),
	regexp.MustCompile(`(?i)figure`),
	regexp.MustCompile(`(?i)table`),
}

// CleanText removes repeated headers, footers and other noise line by line.
// If cleaning would retain fewer than cleaningFloor lines the original text
// is returned unchanged: cleaning must never eat the usable content.
func CleanText(text string) string {
	if text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) < minLineLen {
			continue
		}
		if isNoiseLine(line) {
			continue
		}
		if specialCharRatio(line) > specialRatio {
			continue
		}
		if mostlyUppercase(line) {
			continue
		}
		cleaned = append(cleaned, line)
	}

	if len(cleaned) < cleaningFloor {
		return text
	}
	return strings.Join(cleaned, "\n")
}

func isNoiseLine(line string) bool {
	for _, pattern := range noisePatterns {
		if pattern.MatchString(line) {
			// long enough to carry substance alongside the matched pattern
			if len(line) > noiseOverride {
				continue
			}
			return true
		}
	}
	return false
}

func specialCharRatio(line string) float64 {
	special := 0
	for _, c := range line {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && !unicode.IsSpace(c) {
			special++
		}
	}
	return float64(special) / float64(len([]rune(line)))
}

// mostlyUppercase flags running headers: lines where most word tokens are
// fully uppercase and longer than two characters.
func mostlyUppercase(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	upper := 0
	for _, w := range words {
		if len(w) > 2 && w == strings.ToUpper(w) && w != strings.ToLower(w) {
			upper++
		}
	}
	return float64(upper) > float64(len(words))*uppercaseRatio
}
