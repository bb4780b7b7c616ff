package parser

import "regexp"

// A token is a single- or double-quoted span (shortest match) or a run of non-whitespace.
// Alternatives are tried in order at each position, so a quote opens a span only when
// it starts the token.
var tokenPattern = regexp.MustCompile(`'.*?'|".*?"|\S+`)

// Tokenize splits s on whitespace, keeping quoted spans together and stripping
// their enclosing quotes. An empty or blank string yields no tokens.
func Tokenize(s string) []string {
	matches := tokenPattern.FindAllString(s, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, unquote(m))
	}
	return tokens
}

func unquote(token string) string {
	if len(token) < 2 {
		return token
	}
	first, last := token[0], token[len(token)-1]
	if (first == '"' || first == '\'') && first == last {
		return token[1 : len(token)-1]
	}
	return token
}
