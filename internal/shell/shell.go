// Package shell provides the interactive git sandbox prompt.
// Each submitted line goes through the classifier and the result is printed with the active theme.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"gitsandbox/internal/events"
	"gitsandbox/internal/logger"
	"gitsandbox/internal/parser"
	"gitsandbox/internal/render"
	"gitsandbox/internal/version"

	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"
	"github.com/charmbracelet/log"
)

// Shell ties the classifier, the refresh bus and the history together.
type Shell struct {
	classifier *parser.Classifier
	bus        *events.Bus
	theme      *render.Theme
	history    *History
	explain    bool
	log        *log.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithTheme sets the output theme.
func WithTheme(theme *render.Theme) Option {
	return func(s *Shell) {
		s.theme = theme
	}
}

// WithExplain prints the canonical form of every parsed command under it.
func WithExplain(explain bool) Option {
	return func(s *Shell) {
		s.explain = explain
	}
}

// WithLogger replaces the shell logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Shell) {
		s.log = l
	}
}

// New creates a shell. bus must be the notifier the classifier was built with.
func New(classifier *parser.Classifier, bus *events.Bus, opts ...Option) *Shell {
	s := &Shell{
		classifier: classifier,
		bus:        bus,
		theme:      render.PlainTheme(),
		history:    NewHistory(),
		log:        logger.NewStyledLogger("Shell"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History returns the lines classified so far.
func (s *Shell) History() *History {
	return s.history
}

// Evaluate classifies one line, records it and returns what should be printed.
func (s *Shell) Evaluate(line string) string {
	outcome, err := s.classifier.Classify(line)
	record := render.NewRecord(line, outcome, err)
	if s.explain && record.Command != nil {
		record.Canonical = s.classifier.Table().Render(record.Command)
	}
	s.history.Add(record)

	if err != nil {
		s.log.Debug("Line rejected", "line", line, "error", err)
	}
	return render.Text(record, s.theme)
}

// WatchRefresh reports refresh requests until ctx is done.
func (s *Shell) WatchRefresh(ctx context.Context, report func(...interface{})) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.bus.Refresh():
			s.log.Debug("Refresh received", "total", s.bus.Requested())
			report(s.theme.Muted.Render("Tree refreshed"))
		}
	}
}

// lineReader yields raw prompt lines.
type lineReader interface {
	Readline() (string, error)
}

// commandRunner runs a built-in shell command.
type commandRunner interface {
	Process(args ...string) error
}

var (
	_ lineReader    = (*readline.Instance)(nil)
	_ commandRunner = (*ishell.Shell)(nil)
)

// builtins are the words handed to ishell instead of the classifier.
var builtins = []string{"history", "clear"}

// Run starts the interactive prompt and blocks until the user exits.
// Lines are read directly from readline so the classifier sees them unchanged;
// ishell only runs the built-in commands.
func (s *Shell) Run(ctx context.Context, prompt, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.theme.Prompt.Render(prompt),
		HistoryFile:     historyFile,
		AutoComplete:    NewCompleter(s.classifier),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer rl.Close()

	sh := ishell.NewWithReadline(rl)
	sh.DeleteCmd("help")
	sh.DeleteCmd("exit")
	sh.AddCmd(&ishell.Cmd{
		Name: "history",
		Help: "list the lines classified in this session",
		Func: s.printHistory,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.WatchRefresh(ctx, sh.Println)

	sh.Println(version.GetFormattedVersion())
	sh.Println("Type 'git help' for supported commands or 'exit' to quit.")

	s.log.Info("Shell started")
	err = s.loop(rl, sh, rl.Stdout())
	s.log.Info("Shell stopped", "lines", s.history.Len())
	return err
}

// loop reads lines until exit or end of input. Built-in commands go to ishell,
// everything else is classified as typed.
func (s *Shell) loop(r lineReader, commands commandRunner, out io.Writer) error {
	for {
		line, err := r.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read line: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) > 0 {
			if fields[0] == "exit" && len(fields) == 1 {
				return nil
			}
			if slices.Contains(builtins, fields[0]) {
				if err := commands.Process(fields...); err != nil {
					fmt.Fprintln(out, s.theme.Error.Render(err.Error()))
				}
				continue
			}
		}

		if text := s.Evaluate(line); text != "" {
			fmt.Fprintln(out, text)
		}
	}
}

func (s *Shell) printHistory(c *ishell.Context) {
	for _, e := range s.history.Entries() {
		c.Printf("%s  %s  %-8s %s\n",
			e.ID.String()[:8],
			e.At.Format(time.TimeOnly),
			e.Record.Kind,
			e.Record.Input)
	}
}
