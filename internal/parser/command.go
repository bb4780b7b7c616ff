// Package parser turns a line typed into the sandbox into a structured git-like command.
// It classifies the line (pseudo-commands, shortcuts, top-level keyword, method) and then
// parses the remainder into supported options and general arguments.
package parser

// Outcome is the successful result of classifying a line.
// It is either a *Command or a *PseudoResult.
type Outcome interface {
	outcome()
}

// Command is a validated git-like command.
// Every key of Options is a flag supported by Method. A flag present with an empty
// slice was given without arguments, which is different from a flag that was not given.
type Command struct {
	Method      string              `json:"method" yaml:"method"`
	Options     map[string][]string `json:"options" yaml:"options"`
	GeneralArgs []string            `json:"generalArgs" yaml:"generalArgs"`
}

func (*Command) outcome() {}

// HasOption reports whether the flag was given on the command line.
func (c *Command) HasOption(flag string) bool {
	_, ok := c.Options[flag]
	return ok
}

// OptionArgs returns the arguments captured after flag, or nil when the flag was not given.
func (c *Command) OptionArgs(flag string) []string {
	return c.Options[flag]
}

// PseudoResult is produced when the line is handled outside the git grammar,
// for example a blank line or a demo command such as "ls".
type PseudoResult struct {
	Message string `json:"message" yaml:"message"`
}

func (*PseudoResult) outcome() {}
