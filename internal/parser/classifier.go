package parser

import (
	"strings"

	"gitsandbox/internal/logger"

	"github.com/charmbracelet/log"
)

// Notifier receives the refresh request emitted by the refresh pseudo-command.
// It must not block.
type Notifier interface {
	RefreshRequested()
}

// Classifier turns a raw line into a Command, a PseudoResult or a *ParseError.
// It is safe for concurrent use: all of its state is read-only after construction.
type Classifier struct {
	table    *Table
	options  *OptionParser
	notifier Notifier
	log      *log.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithNotifier sets the receiver of refresh requests.
func WithNotifier(n Notifier) ClassifierOption {
	return func(c *Classifier) {
		c.notifier = n
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *log.Logger) ClassifierOption {
	return func(c *Classifier) {
		c.log = l
	}
}

// NewClassifier creates a classifier for table.
func NewClassifier(table *Table, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		table:   table,
		options: NewOptionParser(table),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.NewStyledLogger("Parser")
	}
	return c
}

// Table returns the table the classifier was built with.
func (c *Classifier) Table() *Table {
	return c.table
}

// Classify parses one line. The first applicable rule wins:
// blank line, pseudo-command, then shortcut expansion followed by the git grammar.
func (c *Classifier) Classify(raw string) (Outcome, error) {
	if len(raw) == 0 {
		return &PseudoResult{}, nil
	}

	for _, p := range c.table.pseudo {
		if !p.pattern.MatchString(raw) {
			continue
		}
		if p.action == PseudoRefresh && c.notifier != nil {
			c.notifier.RefreshRequested()
		}
		c.log.Debug("Pseudo-command matched", "input", raw, "command", p.name)
		return &PseudoResult{Message: c.table.pseudoMessage(p)}, nil
	}

	line := c.Expand(raw)
	if line != raw {
		c.log.Debug("Shortcut expanded", "input", raw, "output", line)
	}

	if !strings.HasPrefix(line, Keyword) {
		c.log.Debug("Rejected line", "input", raw, "error", UnsupportedTopLevel)
		return nil, errUnsupportedTopLevel()
	}

	rest := line[len(Keyword):]
	if rest != "" {
		if !isSpaceByte(rest[0]) {
			// "gitk" passes the keyword check but names no method.
			return nil, errUnsupportedMethod(rest)
		}
		rest = rest[1:]
	}

	for _, m := range c.table.methods {
		loc := m.pattern.FindStringIndex(rest)
		if loc == nil || loc[0] != 0 {
			continue
		}
		remainder := rest[loc[1]:]
		if loc[1] > 0 && !isSpaceByte(rest[loc[1]-1]) {
			remainder = strings.TrimPrefix(remainder, " ")
		}
		c.log.Debug("Method resolved", "input", raw, "command", m.name, "remainder", remainder)

		options, generalArgs, err := c.options.Parse(m.name, remainder)
		if err != nil {
			c.log.Debug("Rejected line", "input", raw, "error", err)
			return nil, err
		}
		return &Command{Method: m.name, Options: options, GeneralArgs: generalArgs}, nil
	}

	attempted := ""
	if fields := strings.Fields(rest); len(fields) > 0 {
		attempted = fields[0]
	}
	c.log.Debug("Rejected line", "input", raw, "error", UnsupportedMethod, "attempted", attempted)
	return nil, errUnsupportedMethod(attempted)
}

// Expand applies shortcut expansion. Every shortcut is tried in table order against
// the current line; a match replaces the matched prefix with the canonical prefix and
// a space, keeping the rest of the line verbatim. A later match overwrites an earlier one.
func (c *Classifier) Expand(line string) string {
	for _, s := range c.table.shortcuts {
		loc := s.pattern.FindStringIndex(line)
		if loc == nil || loc[0] != 0 {
			continue
		}
		line = s.expand + " " + line[loc[1]:]
	}
	return line
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
