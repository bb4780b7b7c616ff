package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"gitsandbox/internal/events"
	"gitsandbox/internal/parser"
	"gitsandbox/internal/render"

	"github.com/abiosoft/readline"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, opts ...Option) (*Shell, *events.Bus) {
	t.Helper()
	quiet := log.New(io.Discard)
	bus := events.NewBus()
	classifier := parser.NewClassifier(parser.MustDefaultTable(),
		parser.WithNotifier(bus),
		parser.WithLogger(quiet))
	opts = append([]Option{WithLogger(quiet)}, opts...)
	return New(classifier, bus, opts...), bus
}

func TestShell_Evaluate(t *testing.T) {
	s, _ := newTestShell(t)

	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{
			name:     "command",
			line:     "git checkout -b topic",
			expected: `checkout -b=["topic"]`,
		},
		{
			name:     "shortcut",
			line:     "gc --amend",
			expected: "commit --amend",
		},
		{
			name:     "pseudo command",
			line:     "ls",
			expected: "DontWorryAboutFilesInThisDemo.txt",
		},
		{
			name:     "empty line prints nothing",
			line:     "",
			expected: "",
		},
		{
			name:     "unsupported method",
			line:     "git stash",
			expected: "Sorry, this demo does not support that git command: stash",
		},
		{
			name:     "unsupported option",
			line:     "git log --graph",
			expected: `The option "--graph" is not supported by log`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Evaluate(tt.line))
		})
	}
	assert.Equal(t, len(tests), s.History().Len())
}

func TestShell_EvaluateExplain(t *testing.T) {
	s, _ := newTestShell(t, WithExplain(true), WithTheme(render.PlainTheme()))

	out := s.Evaluate("git status")
	assert.Equal(t, "status\n  git status", out)

	out = s.Evaluate("ls")
	assert.Equal(t, "DontWorryAboutFilesInThisDemo.txt", out)

	out = s.Evaluate("gb -d old")
	assert.Contains(t, out, "branch -d=[\"old\"]\n  ")
	assert.Contains(t, out, "{+")
}

func TestShell_History(t *testing.T) {
	s, _ := newTestShell(t)

	s.Evaluate("git add .")
	s.Evaluate("svn info")

	entries := s.History().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "git add .", entries[0].Record.Input)
	assert.Equal(t, render.KindCommand, entries[0].Record.Kind)
	assert.Equal(t, render.KindFailure, entries[1].Record.Kind)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.False(t, entries[1].At.Before(entries[0].At))
}

func TestHistory_FixedClock(t *testing.T) {
	h := NewHistory()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	h.now = func() time.Time { return at }

	e := h.Add(render.Record{Input: "git status", Kind: render.KindCommand})
	assert.Equal(t, at, e.At)

	entries := h.Entries()
	entries[0].Record.Input = "changed"
	assert.Equal(t, "git status", h.Entries()[0].Record.Input)
}

func TestShell_WatchRefresh(t *testing.T) {
	s, bus := newTestShell(t)

	var mu sync.Mutex
	var reports []string
	report := func(v ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		reports = append(reports, v[0].(string))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.WatchRefresh(ctx, report)
		close(done)
	}()

	assert.Equal(t, "Refreshing tree...", s.Evaluate("refresh"))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reports) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), bus.Requested())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchRefresh did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Tree refreshed"}, reports)
}

type scriptedReader struct {
	lines []string
	err   error
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		if r.err != nil {
			return "", r.err
		}
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if line == "^C" {
		return "", readline.ErrInterrupt
	}
	return line, nil
}

type recordingRunner struct {
	calls [][]string
}

func (r *recordingRunner) Process(args ...string) error {
	r.calls = append(r.calls, args)
	if args[0] == "clear" {
		return errors.New("no terminal")
	}
	return nil
}

func TestShell_LoopClassifiesRawLines(t *testing.T) {
	s, _ := newTestShell(t)
	reader := &scriptedReader{lines: []string{
		"git commit -m it's",
		`git commit -m "oops`,
		`git add dir\`,
		"git commit -m <<EOF",
		"^C",
		"",
		"git status  ",
	}}
	runner := &recordingRunner{}

	var out bytes.Buffer
	require.NoError(t, s.loop(reader, runner, &out))

	assert.Equal(t, `commit -m=["it's"]
commit -m=["\"oops"]
add "dir\\"
commit -m=["<<EOF"]
status
`, out.String())
	assert.Empty(t, runner.calls)

	var inputs []string
	for _, e := range s.History().Entries() {
		inputs = append(inputs, e.Record.Input)
	}
	assert.Equal(t, []string{
		"git commit -m it's",
		`git commit -m "oops`,
		`git add dir\`,
		"git commit -m <<EOF",
		"",
		"git status  ",
	}, inputs)
}

func TestShell_LoopBuiltins(t *testing.T) {
	s, _ := newTestShell(t)
	reader := &scriptedReader{lines: []string{"history", "clear", "exit", "git status"}}
	runner := &recordingRunner{}

	var out bytes.Buffer
	require.NoError(t, s.loop(reader, runner, &out))

	assert.Equal(t, [][]string{{"history"}, {"clear"}}, runner.calls)
	assert.Equal(t, "no terminal\n", out.String())
	assert.Zero(t, s.History().Len(), "lines after exit are not read")
}

func TestShell_LoopExitWithArgumentsIsClassified(t *testing.T) {
	s, _ := newTestShell(t)
	reader := &scriptedReader{lines: []string{"exit now"}}

	var out bytes.Buffer
	require.NoError(t, s.loop(reader, &recordingRunner{}, &out))
	assert.Equal(t, "That command is not supported, sorry!\n", out.String())
}

func TestShell_LoopReadError(t *testing.T) {
	s, _ := newTestShell(t)
	reader := &scriptedReader{err: errors.New("tty closed")}

	err := s.loop(reader, &recordingRunner{}, io.Discard)
	assert.EqualError(t, err, "failed to read line: tty closed")
}
