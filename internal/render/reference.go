package render

import (
	"fmt"
	"strings"

	"gitsandbox/internal/parser"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// CommandReference documents the table as markdown.
func CommandReference(table *parser.Table) string {
	var b strings.Builder
	b.WriteString("# Supported git commands\n\n")
	b.WriteString("| Command | Options |\n|---|---|\n")
	for _, m := range table.Methods() {
		opts := make([]string, 0, len(m.Options))
		for _, o := range m.Options {
			if o.Support == parser.OptionValidated {
				opts = append(opts, "`"+o.Flag+"`")
			} else {
				opts = append(opts, "`"+o.Flag+"`*")
			}
		}
		if len(opts) == 0 {
			opts = append(opts, "none")
		}
		fmt.Fprintf(&b, "| `git %s` | %s |\n", m.Token, strings.Join(opts, " "))
	}
	b.WriteString("\n\\* accepted without validation\n")

	if shortcuts := table.Shortcuts(); len(shortcuts) > 0 {
		b.WriteString("\n## Shortcuts\n\n")
		for _, s := range shortcuts {
			fmt.Fprintf(&b, "- `%s` expands to `%s`\n", s.Alias, s.Expand)
		}
	}

	if pseudo := table.PseudoCommands(); len(pseudo) > 0 {
		b.WriteString("\n## Sandbox commands\n\n")
		for _, p := range pseudo {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
	}
	return b.String()
}

// Markdown renders markdown for the terminal. Terminals without color support get
// the plain "notty" style.
func Markdown(md string, width int) (string, error) {
	style := glamour.WithAutoStyle()
	if lipgloss.ColorProfile() == termenv.Ascii {
		style = glamour.WithStandardStyle("notty")
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return rendered, nil
}
