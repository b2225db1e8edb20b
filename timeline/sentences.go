package timeline

import "strings"

// SplitSentences cuts chunk text into the ordered sentence sequence the
// constructor walks. A period only terminates a sentence when followed by
// whitespace or end of text, so decimal code suffixes (C78.1) and dotted
// dates (2024.05.01) survive intact.
func SplitSentences(text string) []string {
	sentences := make([]string, 0)
	var builder strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(builder.String())
		if len(sentence) > 0 {
			sentences = append(sentences, sentence)
		}
		builder.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		switch r {
		case '\n':
			flush()
		case '!', '?', '。':
			builder.WriteRune(r)
			flush()
		case '.':
			builder.WriteRune(r)
			if i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n' {
				flush()
			}
		default:
			builder.WriteRune(r)
		}
	}
	flush()
	return sentences
}
