package speech

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkLimit is the per-request character budget for the TTS
// engines.
const DefaultChunkLimit = 3000

// SplitText breaks text into chunks of at most limit characters,
// preferring paragraph boundaries and falling back to sentence
// boundaries for oversized paragraphs. Narration chunks do not overlap.
func SplitText(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultChunkLimit
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var result []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			result = append(result, current.String())
			current.Reset()
		}
	}

	for _, para := range splitByParagraphs(text) {
		if len(para) > limit {
			flush()
			result = append(result, splitBySentences(para, limit)...)
			continue
		}
		if current.Len() > 0 && current.Len()+2+len(para) > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return result
}

// splitByParagraphs splits on double-newlines.
func splitByParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences breaks a large paragraph into sentence-bounded
// chunks. A single sentence longer than the limit is cut hard.
func splitBySentences(text string, limit int) []string {
	var result []string
	var current strings.Builder

	for _, sent := range splitSentences(text) {
		if len(sent) > limit {
			if current.Len() > 0 {
				result = append(result, current.String())
				current.Reset()
			}
			for len(sent) > limit {
				cut := runeCut(sent, limit)
				result = append(result, sent[:cut])
				sent = sent[cut:]
			}
			if sent != "" {
				current.WriteString(sent)
			}
			continue
		}
		if current.Len() > 0 && current.Len()+1+len(sent) > limit {
			result = append(result, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}

	return result
}

// runeCut returns the largest cut point <= limit that does not split a
// multi-byte rune.
func runeCut(s string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		return limit
	}
	return cut
}

// splitSentences does basic sentence splitting.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}
