// Package main provides the gitsandbox CLI entry point.
// gitsandbox reads git-like command lines, the way a git teaching sandbox does, and
// classifies them into structured commands, pseudo-command replies or failures.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"gitsandbox/internal/config"
	"gitsandbox/internal/events"
	"gitsandbox/internal/logger"
	"gitsandbox/internal/parser"
	"gitsandbox/internal/render"
	"gitsandbox/internal/shell"
	"gitsandbox/internal/version"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app holds the state shared by all subcommands once configuration is resolved.
type app struct {
	v          *viper.Viper
	configFile string
	envFile    string

	cfg   *config.Config
	table *parser.Table
	theme *render.Theme
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	var explain bool
	rootCmd := &cobra.Command{
		Use:   "gitsandbox",
		Short: "gitsandbox - a git command line sandbox",
		Long: `gitsandbox classifies git-like command lines the way a git teaching sandbox does.
Supported commands become structured method/option/argument records, a few
pseudo-commands reply with a message, and everything else is rejected with a reason.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShell(cmd, explain)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String("log-file", "", "Write logs to file instead of stderr")
	flags.Bool("test-mode", false, "Run in deterministic test mode")
	flags.String("table-file", "", "Load the command table from a YAML file")
	flags.StringP("output", "o", "", "Output format for parse (text|json|yaml)")
	flags.String("theme", "", "Output theme (default|plain)")
	flags.StringVar(&a.configFile, "config", "", "Config file [default: ./gitsandbox.yaml, ~/.config/gitsandbox/gitsandbox.yaml]")
	flags.StringVar(&a.envFile, "env-file", ".env", "Read GITSANDBOX_* defaults from this .env file")
	rootCmd.Flags().BoolVar(&explain, "explain", false, "Show the canonical form of each command")

	bindFlags(a.v, flags, map[string]string{
		"log-level":  config.KeyLogLevel,
		"log-file":   config.KeyLogFile,
		"test-mode":  config.KeyTestMode,
		"table-file": config.KeyTableFile,
		"output":     config.KeyOutput,
		"theme":      config.KeyTheme,
	})

	rootCmd.AddCommand(newShellCmd(a))
	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newCommandsCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", name, err)
			os.Exit(1)
		}
	}
}

// init resolves configuration, configures logging and compiles the command table.
func (a *app) init(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(a.v, a.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile, cfg.TestMode); err != nil {
		return fmt.Errorf("error configuring logger: %w", err)
	}

	table, err := cfg.CommandTable()
	if err != nil {
		return err
	}

	theme, err := render.LoadTheme(cfg.Theme)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.table = table
	a.theme = theme
	logger.Debug("Configuration loaded", "config", a.v.ConfigFileUsed(), "table", cfg.TableFile, "output", cfg.Output)
	return nil
}

func (a *app) classifier(bus *events.Bus) *parser.Classifier {
	return parser.NewClassifier(a.table,
		parser.WithNotifier(bus),
		parser.WithLogger(logger.NewStyledLogger("Parser")))
}

func newShellCmd(a *app) *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start interactive shell mode",
		Long:  `Start the interactive sandbox prompt. Lines are classified as they are entered.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShell(cmd, explain)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "Show the canonical form of each command")
	return cmd
}

func (a *app) runShell(cmd *cobra.Command, explain bool) error {
	logger.Info("Starting gitsandbox", "version", version.Version)

	bus := events.NewBus()
	sh := shell.New(a.classifier(bus), bus,
		shell.WithTheme(a.theme),
		shell.WithExplain(explain))
	return sh.Run(cmd.Context(), a.cfg.Prompt, a.cfg.HistoryFile)
}

func newParseCmd(a *app) *cobra.Command {
	var (
		file    string
		explain bool
		strict  bool
	)
	cmd := &cobra.Command{
		Use:   "parse [line...]",
		Short: "Classify command lines in batch mode",
		Long: `Classify each argument as one command line. Without arguments, lines are read
from --file or standard input. This is useful for scripting and for checking
how a line is understood without entering interactive mode.`,
		Example: `  gitsandbox parse "git commit -m 'first commit'" "gc --amend"
  gitsandbox parse --file lines.txt --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			classifier := a.classifier(events.NewBus())
			records := make([]render.Record, 0, len(lines))
			failed := 0
			for _, line := range lines {
				outcome, err := classifier.Classify(line)
				record := render.NewRecord(line, outcome, err)
				if explain && record.Command != nil {
					record.Canonical = a.table.Render(record.Command)
				}
				if record.Kind == render.KindFailure {
					failed++
				}
				records = append(records, record)
			}

			if err := render.Encode(cmd.OutOrStdout(), render.Format(a.cfg.Output), records, a.theme); err != nil {
				return err
			}
			if strict && failed > 0 {
				return fmt.Errorf("%d of %d lines rejected", failed, len(lines))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read lines from a file ('-' for standard input)")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show how each command differs from its canonical form")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error if any line is rejected")
	return cmd
}

// readLines returns args as lines, or the lines of file (or stdin) when there are no args.
func readLines(args []string, file string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 {
		if file != "" {
			return nil, fmt.Errorf("lines given both as arguments and with --file")
		}
		return args, nil
	}

	in := stdin
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", file, err)
		}
		defer f.Close()
		in = f
	}

	var lines []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}
	return lines, nil
}

func newCommandsCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "Show the supported git commands and options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			md := render.CommandReference(a.table)
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			out, err := render.Markdown(md, 80)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the version of gitsandbox.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetFormattedVersion())
		},
	}
}
