// Package render formats classification results for the terminal and for machines.
package render

import (
	"fmt"

	"gitsandbox/internal/data/embedded"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Theme holds the styles used for terminal output.
type Theme struct {
	Name     string
	Prompt   lipgloss.Style
	Command  lipgloss.Style
	Option   lipgloss.Style
	Argument lipgloss.Style
	Message  lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
}

type themeFile struct {
	Name   string                 `yaml:"name"`
	Styles map[string]styleConfig `yaml:"styles"`
}

type styleConfig struct {
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
}

var themeData = map[string][]byte{
	"default": embedded.DefaultThemeData,
	"plain":   embedded.PlainThemeData,
}

// LoadTheme loads one of the embedded themes by name.
func LoadTheme(name string) (*Theme, error) {
	data, ok := themeData[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	return parseTheme(data)
}

// PlainTheme returns a theme without any styling.
func PlainTheme() *Theme {
	return &Theme{Name: "plain"}
}

func parseTheme(data []byte) (*Theme, error) {
	var file themeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return &Theme{
		Name:     file.Name,
		Prompt:   createStyle(file.Styles["prompt"]),
		Command:  createStyle(file.Styles["command"]),
		Option:   createStyle(file.Styles["option"]),
		Argument: createStyle(file.Styles["argument"]),
		Message:  createStyle(file.Styles["message"]),
		Error:    createStyle(file.Styles["error"]),
		Muted:    createStyle(file.Styles["muted"]),
	}, nil
}

func createStyle(config styleConfig) lipgloss.Style {
	style := lipgloss.NewStyle()
	if config.Foreground != "" {
		style = style.Foreground(lipgloss.Color(config.Foreground))
	}
	if config.Background != "" {
		style = style.Background(lipgloss.Color(config.Background))
	}
	if config.Bold {
		style = style.Bold(true)
	}
	if config.Italic {
		style = style.Italic(true)
	}
	if config.Underline {
		style = style.Underline(true)
	}
	return style
}
