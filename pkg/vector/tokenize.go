package vector

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9']+`)

// Tokenize splits text into lowercase tokens made of ASCII letters, digits and
// apostrophes. Tokens longer than three characters that end in "s" are
// followed by their singular form, so "cats" yields both "cats" and "cat".
func Tokenize(text string) []string {
	matches := tokenPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		token := strings.ToLower(m)
		tokens = append(tokens, token)
		if len(token) > 3 && strings.HasSuffix(token, "s") {
			tokens = append(tokens, token[:len(token)-1])
		}
	}
	return tokens
}
