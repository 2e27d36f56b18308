package syllabus

import "strings"

// EstimateTokens gives a rough token count. Exact tokenization is not
// required; this only guards prompt size.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	// Roughly 1.33 tokens per word for English text.
	words := len(strings.Fields(text))
	tokens := int(float64(words) * 1.33)
	if tokens < 1 && len(text) > 0 {
		tokens = 1
	}
	return tokens
}

// Truncate cuts text to roughly maxTokens, dropping whole lines from
// the end so the result stays readable. maxTokens <= 0 means no limit.
func Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 || EstimateTokens(text) <= maxTokens {
		return text
	}

	var sb strings.Builder
	used := 0
	for _, line := range strings.Split(text, "\n") {
		t := EstimateTokens(line)
		if used+t > maxTokens {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
		used += t
	}
	if sb.Len() > 0 {
		return sb.String()
	}

	// A single oversized line: hard cut on the character heuristic.
	runes := []rune(text)
	limit := maxTokens * 4
	if limit < len(runes) {
		runes = runes[:limit]
	}
	return string(runes)
}
