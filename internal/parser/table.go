package parser

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"gitsandbox/internal/data/embedded"
	"gitsandbox/internal/version"

	"gopkg.in/yaml.v3"
)

// Keyword is the top-level command every git-like line must start with.
const Keyword = "git"

// OptionSupport records how a supported flag is treated downstream.
// Membership in a method's option set decides acceptance; the value only
// says whether consumers validate the flag's meaning.
type OptionSupport int

const (
	// OptionAccepted flags are accepted without semantic validation.
	OptionAccepted OptionSupport = iota
	// OptionValidated flags are interpreted and validated by consumers.
	OptionValidated
)

func (s OptionSupport) String() string {
	if s == OptionValidated {
		return "validated"
	}
	return "accepted"
}

// UnmarshalYAML accepts "accepted"/"validated" or a boolean, where false means accepted.
func (s *OptionSupport) UnmarshalYAML(value *yaml.Node) error {
	if value.ShortTag() == "!!bool" {
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		*s = OptionAccepted
		if b {
			*s = OptionValidated
		}
		return nil
	}
	if value.ShortTag() == "!!null" {
		*s = OptionAccepted
		return nil
	}

	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}
	switch strings.ToLower(str) {
	case "", "accepted":
		*s = OptionAccepted
	case "validated":
		*s = OptionValidated
	default:
		return fmt.Errorf("unknown option support %q", str)
	}
	return nil
}

// PseudoAction is what a pseudo-command does when its pattern matches.
type PseudoAction string

const (
	// PseudoMessage returns the configured message.
	PseudoMessage PseudoAction = "message"
	// PseudoHelp returns a listing of supported commands and shortcuts.
	PseudoHelp PseudoAction = "help"
	// PseudoVersion returns the version banner.
	PseudoVersion PseudoAction = "version"
	// PseudoRefresh requests a tree refresh and returns the configured message.
	PseudoRefresh PseudoAction = "refresh"
)

// TableDefinition is the declarative form of a command table, as read from YAML.
type TableDefinition struct {
	Pseudo    []PseudoDefinition                  `yaml:"pseudo"`
	Shortcuts []ShortcutDefinition                `yaml:"shortcuts"`
	Methods   []MethodDefinition                  `yaml:"methods"`
	Options   map[string]map[string]OptionSupport `yaml:"options"`
}

// PseudoDefinition declares a pseudo-command. Pattern defaults to Name followed by
// end of line or whitespace.
type PseudoDefinition struct {
	Name    string       `yaml:"name"`
	Pattern string       `yaml:"pattern,omitempty"`
	Action  PseudoAction `yaml:"action"`
	Message string       `yaml:"message,omitempty"`
}

// ShortcutDefinition declares an alias expanding to a canonical "git <method>" prefix.
type ShortcutDefinition struct {
	Alias   string `yaml:"alias"`
	Pattern string `yaml:"pattern,omitempty"`
	Expand  string `yaml:"expand"`
}

// MethodDefinition declares a supported method. Token is the word typed after the
// keyword and defaults to Name.
type MethodDefinition struct {
	Name    string `yaml:"name"`
	Token   string `yaml:"token,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
}

type pseudoCommand struct {
	name    string
	pattern *regexp.Regexp
	action  PseudoAction
	message string
}

type shortcut struct {
	alias   string
	pattern *regexp.Regexp
	expand  string
}

type method struct {
	name    string
	token   string
	pattern *regexp.Regexp
}

// Table is the compiled, read-only set of pseudo-commands, shortcuts, methods and
// supported options. It is built once and shared by every parse.
type Table struct {
	pseudo    []pseudoCommand
	shortcuts []shortcut
	methods   []method
	options   map[string]map[string]OptionSupport
	help      string
}

// MethodInfo describes a supported method for help and completion.
type MethodInfo struct {
	Name    string
	Token   string
	Options []OptionInfo
}

// OptionInfo describes a supported flag.
type OptionInfo struct {
	Flag    string
	Support OptionSupport
}

// ShortcutInfo describes a shortcut alias.
type ShortcutInfo struct {
	Alias  string
	Expand string
}

// wordPattern anchors a literal at the start of the line and requires the end of
// the line or whitespace after it, so "add" never matches "addition".
func wordPattern(literal string) string {
	return `^` + regexp.QuoteMeta(literal) + `($|\s)`
}

func compile(kind, name, expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %v", ErrInvalidTable, kind, name, err)
	}
	return re, nil
}

// NewTable compiles a definition. It fails when a pattern does not compile, when a
// method is declared twice, when an option key does not start with "-", or when a
// method has no option entry (ErrMissingOptionTable).
func NewTable(def TableDefinition) (*Table, error) {
	t := &Table{options: make(map[string]map[string]OptionSupport, len(def.Options))}

	for _, p := range def.Pseudo {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: pseudo-command without name", ErrInvalidTable)
		}
		expr := p.Pattern
		if expr == "" {
			expr = wordPattern(p.Name)
		}
		re, err := compile("pseudo-command", p.Name, expr)
		if err != nil {
			return nil, err
		}
		action := p.Action
		if action == "" {
			action = PseudoMessage
		}
		switch action {
		case PseudoMessage, PseudoHelp, PseudoVersion, PseudoRefresh:
		default:
			return nil, fmt.Errorf("%w: pseudo-command %q has unknown action %q", ErrInvalidTable, p.Name, action)
		}
		t.pseudo = append(t.pseudo, pseudoCommand{name: p.Name, pattern: re, action: action, message: p.Message})
	}

	for _, s := range def.Shortcuts {
		if s.Alias == "" || s.Expand == "" {
			return nil, fmt.Errorf("%w: shortcut needs alias and expansion", ErrInvalidTable)
		}
		expr := s.Pattern
		if expr == "" {
			expr = wordPattern(s.Alias)
		}
		re, err := compile("shortcut", s.Alias, expr)
		if err != nil {
			return nil, err
		}
		t.shortcuts = append(t.shortcuts, shortcut{alias: s.Alias, pattern: re, expand: s.Expand})
	}

	seen := make(map[string]bool, len(def.Methods))
	for _, m := range def.Methods {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: method without name", ErrInvalidTable)
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("%w: method %q declared twice", ErrInvalidTable, m.Name)
		}
		seen[m.Name] = true

		token := m.Token
		if token == "" {
			token = m.Name
		}
		expr := m.Pattern
		if expr == "" {
			expr = wordPattern(token)
		}
		re, err := compile("method", m.Name, expr)
		if err != nil {
			return nil, err
		}
		if _, ok := def.Options[m.Name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingOptionTable, m.Name)
		}
		t.methods = append(t.methods, method{name: m.Name, token: token, pattern: re})
	}

	for name, flags := range def.Options {
		set := make(map[string]OptionSupport, len(flags))
		for flag, support := range flags {
			if !strings.HasPrefix(flag, "-") {
				return nil, fmt.Errorf("%w: option %q of %s must start with '-'", ErrInvalidTable, flag, name)
			}
			set[flag] = support
		}
		t.options[name] = set
	}

	t.help = t.buildHelp()
	return t, nil
}

// LoadTable parses a YAML table definition and compiles it.
func LoadTable(data []byte) (*Table, error) {
	var def TableDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	return NewTable(def)
}

// DefaultTable compiles the embedded command table.
func DefaultTable() (*Table, error) {
	return LoadTable(embedded.CommandTableData)
}

// MustDefaultTable is like DefaultTable but panics if the embedded table is broken.
func MustDefaultTable() *Table {
	t, err := DefaultTable()
	if err != nil {
		panic(fmt.Sprintf("parser: embedded command table: %v", err))
	}
	return t
}

// Support reports whether flag is supported by method, and how.
func (t *Table) Support(methodName, flag string) (OptionSupport, bool) {
	s, ok := t.options[methodName][flag]
	return s, ok
}

// Methods lists supported methods in resolution order with their sorted options.
func (t *Table) Methods() []MethodInfo {
	out := make([]MethodInfo, 0, len(t.methods))
	for _, m := range t.methods {
		flags := t.options[m.name]
		opts := make([]OptionInfo, 0, len(flags))
		for flag, support := range flags {
			opts = append(opts, OptionInfo{Flag: flag, Support: support})
		}
		sort.Slice(opts, func(i, j int) bool { return opts[i].Flag < opts[j].Flag })
		out = append(out, MethodInfo{Name: m.name, Token: m.token, Options: opts})
	}
	return out
}

// Shortcuts lists shortcut aliases in evaluation order.
func (t *Table) Shortcuts() []ShortcutInfo {
	out := make([]ShortcutInfo, 0, len(t.shortcuts))
	for _, s := range t.shortcuts {
		out = append(out, ShortcutInfo{Alias: s.alias, Expand: s.expand})
	}
	return out
}

// PseudoCommands lists pseudo-command names in evaluation order.
func (t *Table) PseudoCommands() []string {
	out := make([]string, 0, len(t.pseudo))
	for _, p := range t.pseudo {
		out = append(out, p.name)
	}
	return out
}

// Help returns the listing produced by the help pseudo-command.
func (t *Table) Help() string {
	return t.help
}

func (t *Table) buildHelp() string {
	var b strings.Builder
	b.WriteString("Supported commands:")
	for _, m := range t.methods {
		b.WriteString("\n  " + Keyword + " " + m.token)
	}
	if len(t.shortcuts) > 0 {
		b.WriteString("\nShortcuts:")
		for _, s := range t.shortcuts {
			fmt.Fprintf(&b, "\n  %s -> %s", s.alias, s.expand)
		}
	}
	return b.String()
}

func (t *Table) pseudoMessage(p pseudoCommand) string {
	switch p.action {
	case PseudoHelp:
		return t.help
	case PseudoVersion:
		if p.message != "" {
			return p.message
		}
		return version.GetFormattedVersion()
	default:
		return p.message
	}
}

func (t *Table) methodToken(name string) string {
	for _, m := range t.methods {
		if m.name == name {
			return m.token
		}
	}
	return name
}

// Render assembles a command back into a line that classifies to an equal command.
// General arguments come first so that no flag can capture them; options follow in
// flag order, each with its arguments.
func (t *Table) Render(cmd *Command) string {
	parts := []string{Keyword, t.methodToken(cmd.Method)}
	for _, arg := range cmd.GeneralArgs {
		parts = append(parts, quote(arg))
	}

	flags := make([]string, 0, len(cmd.Options))
	for flag := range cmd.Options {
		flags = append(flags, flag)
	}
	sort.Strings(flags)
	for _, flag := range flags {
		parts = append(parts, flag)
		for _, arg := range cmd.Options[flag] {
			parts = append(parts, quote(arg))
		}
	}
	return strings.Join(parts, " ")
}

// quote wraps an argument unless it tokenizes back to itself as a single bare token.
// Arguments starting with a quote are wrapped as well: once flags are reordered, a later
// argument could close the quote. An argument holding both quote kinds cannot be wrapped
// and is left bare; the tokenizer only yields one without whitespace.
func quote(arg string) string {
	if arg != "" && !startsWithQuote(arg) && slices.Equal(Tokenize(arg), []string{arg}) {
		return arg
	}
	switch {
	case !strings.Contains(arg, `"`):
		return `"` + arg + `"`
	case !strings.Contains(arg, `'`):
		return `'` + arg + `'`
	default:
		return arg
	}
}

func startsWithQuote(s string) bool {
	return strings.HasPrefix(s, `"`) || strings.HasPrefix(s, `'`)
}
