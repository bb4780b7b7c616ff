package shell

import (
	"sort"
	"strings"

	"gitsandbox/internal/parser"

	"github.com/abiosoft/readline"
)

var _ readline.AutoCompleter = (*Completer)(nil)

// Completer provides tab completion for the sandbox prompt.
// The first word completes to the keyword, shortcuts and pseudo-commands, the word after
// the keyword to method tokens, and a word starting with "-" to the options of the method.
type Completer struct {
	classifier *parser.Classifier
}

// NewCompleter creates a completer over the classifier's table.
func NewCompleter(classifier *parser.Classifier) *Completer {
	return &Completer{classifier: classifier}
}

// Do implements readline.AutoCompleter.
func (c *Completer) Do(line []rune, pos int) (newLine [][]rune, offset int) {
	if pos > len(line) {
		pos = len(line)
	}
	text := string(line[:pos])

	wordStart := strings.LastIndexAny(text, " \t") + 1
	current := text[wordStart:]
	before := text[:wordStart]

	for _, candidate := range c.candidates(before, current) {
		if strings.HasPrefix(candidate, current) && candidate != current {
			newLine = append(newLine, []rune(strings.TrimPrefix(candidate, current)))
		}
	}
	return newLine, len([]rune(current))
}

func (c *Completer) candidates(before, current string) []string {
	table := c.classifier.Table()
	fields := strings.Fields(before)

	var out []string
	switch {
	case len(fields) == 0:
		out = append(out, parser.Keyword)
		out = append(out, singleWords("", c.names())...)
	case len(fields) == 1 && fields[0] == parser.Keyword && !strings.HasPrefix(current, "-"):
		for _, m := range table.Methods() {
			out = append(out, m.Token)
		}
		out = append(out, singleWords(parser.Keyword+" ", c.names())...)
	case strings.HasPrefix(current, "-"):
		out = c.optionsFor(before)
	}

	sort.Strings(out)
	return dedupe(out)
}

// names lists every pseudo-command name and shortcut alias.
func (c *Completer) names() []string {
	table := c.classifier.Table()
	names := table.PseudoCommands()
	for _, s := range table.Shortcuts() {
		names = append(names, s.Alias)
	}
	return names
}

func (c *Completer) optionsFor(before string) []string {
	fields := strings.Fields(c.classifier.Expand(strings.TrimSpace(before)))
	if len(fields) < 2 || fields[0] != parser.Keyword {
		return nil
	}

	for _, m := range c.classifier.Table().Methods() {
		if m.Token != fields[1] {
			continue
		}
		flags := make([]string, 0, len(m.Options))
		for _, o := range m.Options {
			flags = append(flags, o.Flag)
		}
		return flags
	}
	return nil
}

// singleWords returns the names that are prefix followed by exactly one word, without prefix.
func singleWords(prefix string, names []string) []string {
	var out []string
	for _, n := range names {
		rest, ok := strings.CutPrefix(n, prefix)
		if !ok || rest == "" || strings.ContainsAny(rest, " \t") {
			continue
		}
		out = append(out, rest)
	}
	return out
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
