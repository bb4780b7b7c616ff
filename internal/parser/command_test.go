package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Options(t *testing.T) {
	cmd := &Command{
		Method:      "checkout",
		Options:     map[string][]string{"-b": {}},
		GeneralArgs: []string{"main"},
	}

	assert.True(t, cmd.HasOption("-b"))
	assert.Equal(t, []string{}, cmd.OptionArgs("-b"))
	assert.False(t, cmd.HasOption("-f"))
	assert.Nil(t, cmd.OptionArgs("-f"))
}

func TestOutcome_Variants(t *testing.T) {
	outcomes := []Outcome{&Command{Method: "status"}, &PseudoResult{Message: "hi"}}

	var commands, pseudo int
	for _, o := range outcomes {
		switch o.(type) {
		case *Command:
			commands++
		case *PseudoResult:
			pseudo++
		}
	}
	assert.Equal(t, 1, commands)
	assert.Equal(t, 1, pseudo)
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name:     "top level",
			err:      errUnsupportedTopLevel(),
			expected: "unsupported top-level command",
		},
		{
			name:     "method",
			err:      errUnsupportedMethod("fetch"),
			expected: `unsupported git method "fetch"`,
		},
		{
			name:     "option",
			err:      errUnsupportedOption("commit", "-x"),
			expected: `option "-x" is not supported by commit`,
		},
		{
			name:     "zero value",
			err:      &ParseError{},
			expected: "parse failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_IsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("line 3: %w", errUnsupportedOption("branch", "-m"))

	assert.True(t, errors.Is(wrapped, &ParseError{Kind: UnsupportedOption}))
	assert.False(t, errors.Is(wrapped, &ParseError{Kind: UnsupportedMethod}))

	pe, ok := AsParseError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "branch", pe.Method)
	assert.Equal(t, "-m", pe.Option)

	_, ok = AsParseError(errors.New("boom"))
	assert.False(t, ok)
}

func TestFailureKind_String(t *testing.T) {
	assert.Equal(t, "unsupported_top_level", UnsupportedTopLevel.String())
	assert.Equal(t, "unsupported_method", UnsupportedMethod.String())
	assert.Equal(t, "unsupported_option", UnsupportedOption.String())
	assert.Equal(t, "unknown", FailureKind(0).String())
}

func TestSerialization(t *testing.T) {
	data, err := json.Marshal(errUnsupportedMethod("fetch"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"unsupported_method","attempted":"fetch"}`, string(data))

	data, err = json.Marshal(&Command{
		Method:      "commit",
		Options:     map[string][]string{"--amend": {}},
		GeneralArgs: []string{},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"commit","options":{"--amend":[]},"generalArgs":[]}`, string(data))
}
