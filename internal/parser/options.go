package parser

import (
	"fmt"
	"strings"
)

// OptionParser splits the text after a method into flags and general arguments.
// It holds no state besides the read-only table.
type OptionParser struct {
	table *Table
}

// NewOptionParser creates an option parser backed by table.
func NewOptionParser(table *Table) *OptionParser {
	return &OptionParser{table: table}
}

// Parse tokenizes remainder and partitions the tokens for method.
//
// A token starting with "-" is a flag and must be supported by method; it captures
// every following token up to the next flag. Repeating a flag replaces its earlier
// arguments. Any other token is a general argument.
//
// Parse panics if method has no option table: that is a table construction bug,
// not a user error.
func (p *OptionParser) Parse(method, remainder string) (map[string][]string, []string, error) {
	supported, ok := p.table.options[method]
	if !ok {
		panic(fmt.Sprintf("parser: %v: %s", ErrMissingOptionTable, method))
	}

	tokens := Tokenize(remainder)
	options := make(map[string][]string)
	generalArgs := []string{}

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if !isFlag(token) {
			generalArgs = append(generalArgs, token)
			continue
		}
		if _, ok := supported[token]; !ok {
			return nil, nil, errUnsupportedOption(method, token)
		}

		args := []string{}
		next := i + 1
		for next < len(tokens) && !isFlag(tokens[next]) {
			args = append(args, tokens[next])
			next++
		}
		options[token] = args
		i = next - 1
	}

	return options, generalArgs, nil
}

func isFlag(token string) bool {
	return strings.HasPrefix(token, "-")
}
