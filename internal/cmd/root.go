package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kundeklager/kundeklager-cli/internal/api"
	"github.com/kundeklager/kundeklager-cli/internal/config"
	"github.com/kundeklager/kundeklager-cli/internal/debug"
	"github.com/kundeklager/kundeklager-cli/internal/dryrun"
	"github.com/kundeklager/kundeklager-cli/internal/iocontext"
	"github.com/kundeklager/kundeklager-cli/internal/outfmt"
)

const (
	envOutput  = "KUNDEKLAGER_OUTPUT"
	envTimeout = "KUNDEKLAGER_TIMEOUT"

	// annotationRequiresAuth marks commands that run only with a logged-in session.
	annotationRequiresAuth = "kundeklager/requires-auth"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output   string
	Color    string
	Debug    bool
	DryRun   bool
	Quiet    bool
	Silent   bool
	JSON     bool
	Query    string
	JQ       string
	Template string
	Timeout  time.Duration
	Compact  bool
	BaseURL  string
	NoCache  bool
	EnvFile  string
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call. Tests depend on
// this reset to get clean state; any code that reads flags outside of a
// command's RunE is reading stale data from the previous Execute() call.
var flags = defaultFlags()

// invocation holds the arguments of the current Execute() call. A login
// redirect resumes exactly this command line.
var invocation []string

func defaultFlags() rootFlags {
	return rootFlags{
		Output:  defaultOutput(),
		Color:   "auto",
		Timeout: defaultTimeout(),
	}
}

func defaultOutput() string {
	value := strings.TrimSpace(os.Getenv(envOutput))
	if value != "" {
		return normalizeOutputFormat(value)
	}
	return "text"
}

func defaultTimeout() time.Duration {
	if value := strings.TrimSpace(os.Getenv(envTimeout)); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return api.DefaultTimeout
}

func normalizeOutputFormat(value string) string {
	value = strings.TrimSpace(value)
	if value == "ndjson" {
		return "jsonl"
	}
	return value
}

// applyEnvDefaults re-reads env-driven defaults after .env files are loaded,
// for every flag the user did not set explicitly.
func applyEnvDefaults(cmd *cobra.Command) {
	if !flagOrAliasChanged(cmd, "output") {
		flags.Output = defaultOutput()
	}
	if !flagOrAliasChanged(cmd, "timeout") {
		flags.Timeout = defaultTimeout()
	}
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// Flags are package state; every run starts from the defaults.
	flags = defaultFlags()
	invocation = append([]string(nil), args...)

	root := newRootCmd()
	root.SetContext(ctx)
	root.SetArgs(args)

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			enhanced := enhanceUnknownError(err, root, targetCmd)
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanced)
		}
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:                "kk",
		Short:              "CLI for the Kundeklager 360 complaint tracker",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // We provide our own did-you-mean via enhanceUnknownError
		PersistentPreRunE:  setupCommand,
	}

	root.PersistentFlags().StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|ndjson (env "+envOutput+")")
	root.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	root.PersistentFlags().StringVar(&flags.Color, "color", flags.Color, "Color output: auto|always|never")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&flags.DryRun, "dry-run", false, "Preview changes without executing")
	root.PersistentFlags().StringVarP(&flags.Query, "query", "q", "", "jq expression to filter JSON output (lower-case field aliases supported)")
	root.PersistentFlags().StringVar(&flags.JQ, "jq", "", "Alias for --query")
	root.PersistentFlags().StringVar(&flags.Template, "template", "", "Go template string (or @path) to render JSON output")
	root.PersistentFlags().BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	root.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	root.PersistentFlags().BoolVar(&flags.Silent, "silent", false, "Suppress non-error output to stderr")
	root.PersistentFlags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m; env "+envTimeout+")")
	root.PersistentFlags().StringVar(&flags.BaseURL, "base-url", "", "Backend base URL (env "+config.EnvBaseURL+")")
	root.PersistentFlags().BoolVar(&flags.NoCache, "no-cache", false, "Bypass the response cache")
	root.PersistentFlags().StringVar(&flags.EnvFile, "env-file", "", "Load KUNDEKLAGER_* settings from a .env file")

	flagAlias(root.PersistentFlags(), "dry-run", "dr")
	flagAlias(root.PersistentFlags(), "output", "out")
	flagAlias(root.PersistentFlags(), "compact-json", "cj")
	flagAlias(root.PersistentFlags(), "color", "clr")
	flagAlias(root.PersistentFlags(), "debug", "dbg")
	flagAlias(root.PersistentFlags(), "template", "tpl")
	flagAlias(root.PersistentFlags(), "timeout", "to")
	flagAlias(root.PersistentFlags(), "base-url", "url")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newComplaintsCmd())
	root.AddCommand(newCommentsCmd())
	root.AddCommand(newCommentCmd())
	root.AddCommand(newCustomersCmd())
	root.AddCommand(newUsersCmd())
	root.AddCommand(newCategoriesCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// setupCommand is the root PersistentPreRunE. It loads .env files, derives
// the output context, and enforces the login gate on protected commands.
func setupCommand(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := config.LoadEnvFiles([]string{config.DefaultEnvFile()}, flags.EnvFile); err != nil {
		return err
	}
	applyEnvDefaults(cmd)

	flags.Output = normalizeOutputFormat(flags.Output)
	if flags.JSON {
		if flagOrAliasChanged(cmd, "output") && flags.Output != "json" {
			return fmt.Errorf("--json conflicts with --output %s", flags.Output)
		}
		flags.Output = "json"
	}
	needsJSON := flags.Query != "" || flags.JQ != "" || flags.Template != ""
	if needsJSON && flags.Output != "json" && flags.Output != "jsonl" {
		if flagOrAliasChanged(cmd, "output") {
			return fmt.Errorf("--jq/--query/--template conflicts with --output %s (use json or jsonl)", flags.Output)
		}
		flags.Output = "json"
	}
	if flags.Timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	switch flags.Color {
	case "auto", "always", "never":
	default:
		return api.NewValidationError("color", flags.Color, []string{"auto", "always", "never"})
	}

	mode, err := outfmt.Parse(flags.Output)
	if err != nil {
		return err
	}
	ctx = outfmt.WithMode(ctx, mode)
	ctx = outfmt.WithCompact(ctx, flags.Compact)

	// Set up IO streams (allow silent/quiet to suppress stderr). Streams
	// injected on the incoming context are kept.
	base := iocontext.GetIO(ctx)
	ioStreams := &iocontext.IO{Out: base.Out, ErrOut: base.ErrOut, In: base.In}
	if flags.Silent || flags.Quiet {
		ioStreams.ErrOut = io.Discard
	}
	if flags.Quiet && mode == outfmt.Text {
		ioStreams.Out = io.Discard
	}
	ctx = iocontext.WithIO(ctx, ioStreams)
	cmd.SetOut(ioStreams.Out)
	cmd.SetErr(ioStreams.ErrOut)

	debug.SetupLogger(ioStreams.ErrOut, flags.Debug)
	ctx = debug.WithDebug(ctx, flags.Debug)
	ctx = dryrun.WithDryRun(ctx, flags.DryRun)

	if jq := getJQQuery(); jq != "" {
		ctx = outfmt.WithQuery(ctx, jq)
	}
	if flags.Template != "" {
		tmpl, err := loadTemplate(flags.Template)
		if err != nil {
			return err
		}
		ctx = outfmt.WithTemplate(ctx, tmpl)
	}

	if requiresAuth(cmd) {
		sess, err := requireSession(cmd)
		if err != nil {
			cmd.SetContext(ctx)
			return reportError(cmd, err)
		}
		ctx = withSession(ctx, sess)
	}

	cmd.SetContext(ctx)
	return nil
}

// requiresAuth reports whether cmd or one of its parents is marked protected.
func requiresAuth(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationRequiresAuth] == "true" {
			return true
		}
	}
	return false
}

func protected(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationRequiresAuth] = "true"
	return cmd
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
// targetCmd is the command Cobra resolved before the error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			parent := root
			if targetCmd != nil {
				parent = targetCmd
			}
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() || c.Name() == "help" {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		if unknown := extractFlag(msg); unknown != "" {
			seen := make(map[string]bool)
			var flagNames []string
			addFlags := func(fs *pflag.FlagSet) {
				fs.VisitAll(func(f *pflag.Flag) {
					if f.Hidden {
						return
					}
					for _, name := range []string{"--" + f.Name, shorthandName(f)} {
						if name != "" && !seen[name] {
							seen[name] = true
							flagNames = append(flagNames, name)
						}
					}
				})
			}
			helpCmd := "kk --help"
			if targetCmd != nil {
				addFlags(targetCmd.Flags())
				addFlags(targetCmd.InheritedFlags())
				helpCmd = targetCmd.CommandPath() + " --help"
			} else {
				addFlags(root.PersistentFlags())
			}
			if suggestion := suggestFlag(unknown, flagNames); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
		}
	}

	return msg
}

func shorthandName(f *pflag.Flag) string {
	if f.Shorthand == "" {
		return ""
	}
	return "-" + f.Shorthand
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo" or "-x") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		// "unknown shorthand flag: 'a' in -a"
		idx = strings.LastIndex(s, " -")
		if idx < 0 {
			return ""
		}
		idx++
	}
	rest := s[idx:]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimRight(rest, ".,;:!?\"'")
	if len(strings.TrimLeft(rest, "-")) == 0 {
		return ""
	}
	return rest
}

func loadTemplate(value string) (string, error) {
	if strings.HasPrefix(value, "@") {
		path := strings.TrimPrefix(value, "@")
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	return value, nil
}
