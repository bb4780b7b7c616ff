package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionParser_Parse(t *testing.T) {
	p := NewOptionParser(MustDefaultTable())

	tests := []struct {
		name         string
		method       string
		remainder    string
		expectedOpts map[string][]string
		expectedArgs []string
	}{
		{
			name:         "empty remainder",
			method:       "status",
			remainder:    "",
			expectedOpts: map[string][]string{},
			expectedArgs: []string{},
		},
		{
			name:         "general arguments only",
			method:       "cherrypick",
			remainder:    "C1 C2 C3",
			expectedOpts: map[string][]string{},
			expectedArgs: []string{"C1", "C2", "C3"},
		},
		{
			name:         "flag without arguments",
			method:       "commit",
			remainder:    "--amend",
			expectedOpts: map[string][]string{"--amend": {}},
			expectedArgs: []string{},
		},
		{
			name:         "flag with quoted argument",
			method:       "commit",
			remainder:    `-m "first commit"`,
			expectedOpts: map[string][]string{"-m": {"first commit"}},
			expectedArgs: []string{},
		},
		{
			name:         "flag captures every following non-flag token",
			method:       "reset",
			remainder:    "--hard HEAD~1 extra",
			expectedOpts: map[string][]string{"--hard": {"HEAD~1", "extra"}},
			expectedArgs: []string{},
		},
		{
			name:         "general argument before flag",
			method:       "merge",
			remainder:    "feature --no-ff",
			expectedOpts: map[string][]string{"--no-ff": {}},
			expectedArgs: []string{"feature"},
		},
		{
			name:         "several flags",
			method:       "branch",
			remainder:    "-d feature -D other stale",
			expectedOpts: map[string][]string{"-d": {"feature"}, "-D": {"other", "stale"}},
			expectedArgs: []string{},
		},
		{
			name:         "repeated flag keeps last occurrence",
			method:       "commit",
			remainder:    "-m first -a -m second",
			expectedOpts: map[string][]string{"-m": {"second"}, "-a": {}},
			expectedArgs: []string{},
		},
		{
			name:         "general arguments around flags",
			method:       "rebase",
			remainder:    "main -i",
			expectedOpts: map[string][]string{"-i": {}},
			expectedArgs: []string{"main"},
		},
		{
			name:         "quoted flag is still a flag",
			method:       "checkout",
			remainder:    `"-b" topic`,
			expectedOpts: map[string][]string{"-b": {"topic"}},
			expectedArgs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, args, err := p.Parse(tt.method, tt.remainder)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedOpts, opts)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestOptionParser_UnsupportedOption(t *testing.T) {
	p := NewOptionParser(MustDefaultTable())

	tests := []struct {
		name      string
		method    string
		remainder string
		option    string
	}{
		{name: "unknown flag", method: "commit", remainder: "-x", option: "-x"},
		{name: "flag of another method", method: "commit", remainder: "-b topic", option: "-b"},
		{name: "method without options", method: "add", remainder: "file.txt --all", option: "--all"},
		{name: "double dash", method: "log", remainder: "-- path", option: "--"},
		{name: "first bad flag wins", method: "commit", remainder: "-m msg -q -z", option: "-q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, args, err := p.Parse(tt.method, tt.remainder)
			require.Error(t, err)
			assert.Nil(t, opts)
			assert.Nil(t, args)

			pe, ok := AsParseError(err)
			require.True(t, ok)
			assert.Equal(t, &ParseError{Kind: UnsupportedOption, Method: tt.method, Option: tt.option}, pe)
		})
	}
}

func TestOptionParser_UnsupportedTrailingFlagForEverySupportedFlag(t *testing.T) {
	table := MustDefaultTable()
	p := NewOptionParser(table)

	for _, m := range table.Methods() {
		for _, opt := range m.Options {
			t.Run(m.Name+" "+opt.Flag, func(t *testing.T) {
				opts, args, err := p.Parse(m.Name, opt.Flag+" x y -g")
				assert.Nil(t, opts)
				assert.Nil(t, args)
				assert.Equal(t, &ParseError{Kind: UnsupportedOption, Method: m.Name, Option: "-g"}, err)
			})
		}
	}
}

func TestOptionParser_NoFlagsYieldsTokens(t *testing.T) {
	table := MustDefaultTable()
	p := NewOptionParser(table)

	remainders := []string{
		"",
		"one",
		`one "two three" four`,
		`'single quoted' plain "double quoted"`,
		"  spaced   out  ",
	}

	for _, m := range table.Methods() {
		for _, r := range remainders {
			opts, args, err := p.Parse(m.Name, r)
			require.NoError(t, err)
			assert.Empty(t, opts)
			assert.Equal(t, Tokenize(r), args, "method %s remainder %q", m.Name, r)
		}
	}
}

func TestOptionParser_UnknownMethodPanics(t *testing.T) {
	p := NewOptionParser(MustDefaultTable())

	assert.PanicsWithValue(t, "parser: method has no option table: fetch", func() {
		_, _, _ = p.Parse("fetch", "origin")
	})
}
