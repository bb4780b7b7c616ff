package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gitsandbox/internal/parser"

	"gopkg.in/yaml.v3"
)

// Format is an output encoding for classification records.
type Format string

const (
	// FormatText is a human readable line per record.
	FormatText Format = "text"
	// FormatJSON is an indented JSON array of records.
	FormatJSON Format = "json"
	// FormatYAML is a YAML sequence of records.
	FormatYAML Format = "yaml"
)

// Record kinds.
const (
	KindCommand = "command"
	KindPseudo  = "pseudo"
	KindFailure = "failure"
)

// Record is the serializable view of one classified line.
type Record struct {
	Input   string               `json:"input" yaml:"input"`
	Kind    string               `json:"kind" yaml:"kind"`
	Command *parser.Command      `json:"command,omitempty" yaml:"command,omitempty"`
	Pseudo  *parser.PseudoResult `json:"pseudo,omitempty" yaml:"pseudo,omitempty"`
	Failure *parser.ParseError   `json:"failure,omitempty" yaml:"failure,omitempty"`
	Message string               `json:"message,omitempty" yaml:"message,omitempty"`

	// Canonical is the command rendered back in its canonical form. It is only
	// set when an explanation was asked for.
	Canonical string `json:"canonical,omitempty" yaml:"canonical,omitempty"`
}

// NewRecord builds a record from the result of Classifier.Classify.
func NewRecord(input string, outcome parser.Outcome, err error) Record {
	r := Record{Input: input}
	if err != nil {
		r.Kind = KindFailure
		r.Message = FormatFailure(err)
		if pe, ok := parser.AsParseError(err); ok {
			r.Failure = pe
		}
		return r
	}

	switch o := outcome.(type) {
	case *parser.Command:
		r.Kind = KindCommand
		r.Command = o
	case *parser.PseudoResult:
		r.Kind = KindPseudo
		r.Pseudo = o
		r.Message = o.Message
	}
	return r
}

// Encode writes records in the given format. theme only affects FormatText.
func Encode(w io.Writer, format Format, records []Record, theme *Theme) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		if theme == nil {
			theme = PlainTheme()
		}
		for _, r := range records {
			if _, err := fmt.Fprintln(w, Text(r, theme)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Text renders a record as a single styled line.
func Text(r Record, theme *Theme) string {
	switch r.Kind {
	case KindCommand:
		text := CommandText(r.Command, theme)
		if r.Canonical != "" {
			text += "\n  " + theme.Muted.Render(Explain(r.Input, r.Canonical))
		}
		return text
	case KindPseudo:
		return theme.Message.Render(r.Message)
	case KindFailure:
		return theme.Error.Render(r.Message)
	default:
		return ""
	}
}

// CommandText renders a parsed command as "method [args] [flag args...]".
func CommandText(cmd *parser.Command, theme *Theme) string {
	parts := []string{theme.Command.Render(cmd.Method)}
	for _, arg := range cmd.GeneralArgs {
		parts = append(parts, theme.Argument.Render(fmt.Sprintf("%q", arg)))
	}

	flags := make([]string, 0, len(cmd.Options))
	for flag := range cmd.Options {
		flags = append(flags, flag)
	}
	sort.Strings(flags)
	for _, flag := range flags {
		part := theme.Option.Render(flag)
		if args := cmd.Options[flag]; len(args) > 0 {
			quoted := make([]string, len(args))
			for i, a := range args {
				quoted[i] = fmt.Sprintf("%q", a)
			}
			part += theme.Muted.Render("=") + theme.Argument.Render("["+strings.Join(quoted, " ")+"]")
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
