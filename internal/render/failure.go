package render

import (
	"fmt"

	"gitsandbox/internal/parser"
)

// FormatFailure turns a classification error into the message shown to the user.
// It is applied explicitly after a failure is produced.
func FormatFailure(err error) string {
	pe, ok := parser.AsParseError(err)
	if !ok {
		return err.Error()
	}

	switch pe.Kind {
	case parser.UnsupportedTopLevel:
		return "That command is not supported, sorry!"
	case parser.UnsupportedMethod:
		if pe.Attempted == "" {
			return "Which git command? Try 'git help'."
		}
		return fmt.Sprintf("Sorry, this demo does not support that git command: %s", pe.Attempted)
	case parser.UnsupportedOption:
		return fmt.Sprintf("The option %q is not supported by %s", pe.Option, pe.Method)
	default:
		return pe.Error()
	}
}
