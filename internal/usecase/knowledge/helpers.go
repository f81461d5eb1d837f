package knowledge

import "unicode/utf8"

// estimateContentTokens approximates the token count of entry content.
// The UI only needs a rough size indicator, so the usual ~4 characters per
// token heuristic is enough; an exact tokenizer would tie us to one model.
func estimateContentTokens(content string) int {
	runes := utf8.RuneCountInString(content)
	if runes == 0 {
		return 0
	}

	tokens := runes / 4
	if tokens == 0 {
		tokens = 1
	}
	return tokens
}
