package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kundeklager/kundeklager-cli/internal/api"
	"github.com/kundeklager/kundeklager-cli/internal/dryrun"
	"github.com/kundeklager/kundeklager-cli/internal/iocontext"
	"github.com/kundeklager/kundeklager-cli/internal/outfmt"
	"github.com/kundeklager/kundeklager-cli/internal/validation"
)

// getJQQuery returns the jq query from --jq or --query flags.
// --jq takes precedence over --query for consistency with gh CLI.
func getJQQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}

// printJSON outputs data in the active machine-readable mode, applying
// --query and --template.
func printJSON(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut).Output(v)
}

// printJSONErr writes a JSON value to stderr.
func printJSONErr(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.WriteJSONMaybeCompact(ioStreams.ErrOut, v, outfmt.IsCompact(cmd.Context()))
}

// isJSON checks if the command context wants JSON output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

// printIfNotQuiet prints to stdout only if not in quiet mode
func printIfNotQuiet(cmd *cobra.Command, format string, args ...any) {
	if !flags.Quiet {
		ioStreams := iocontext.GetIO(cmd.Context())
		_, _ = fmt.Fprintf(ioStreams.Out, format, args...)
	}
}

// printAction reports a completed mutation in text mode, e.g. "Created complaint: OK".
func printAction(cmd *cobra.Command, action, resource string, id any, message string) {
	if flags.Quiet || isJSON(cmd) {
		return
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	line := fmt.Sprintf("%s %s", action, resource)
	if id != nil {
		if value, ok := id.(string); !ok || value != "" {
			line = fmt.Sprintf("%s %v", line, id)
		}
	}
	if message != "" {
		line = fmt.Sprintf("%s: %s", line, message)
	}
	_, _ = fmt.Fprintln(ioStreams.Out, line)
}

// normalizeEnum normalizes and validates a flag value against a list of valid enum values.
// It lowercases and trims the input, then tries exact match followed by unique prefix match.
func normalizeEnum(flagName, input string, valid []string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", api.NewValidationError(flagName, input, valid)
	}

	for _, v := range valid {
		if input == v {
			return v, nil
		}
	}

	var matches []string
	for _, v := range valid {
		if strings.HasPrefix(v, input) {
			matches = append(matches, v)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", api.NewValidationError(flagName, input, valid)
	default:
		return "", fmt.Errorf("ambiguous %s %q: matches %s", flagName, input, strings.Join(matches, ", "))
	}
}

func registerStaticCompletions(cmd *cobra.Command, flagName string, values []string) {
	_ = cmd.RegisterFlagCompletionFunc(flagName, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}

// maybeDryRun prints preview and reports true when --dry-run is active.
func maybeDryRun(cmd *cobra.Command, preview *dryrun.Preview) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	if preview == nil {
		preview = &dryrun.Preview{}
	}
	if isJSON(cmd) {
		return true, printJSON(cmd, map[string]any{
			"dry_run":   true,
			"operation": preview.Operation,
			"method":    preview.Method,
			"endpoint":  preview.Endpoint,
			"body":      preview.Body,
			"warnings":  preview.Warnings,
		})
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	preview.Write(ioStreams.Out)
	return true, nil
}

// aliasBridgeValue wraps a pflag.Value so that Set() on the alias also
// marks the canonical flag as Changed.  This lets aliases satisfy Cobra's
// MarkFlagRequired check transparently.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// flagAlias registers a hidden alias for an existing flag.
// Both flags share the same underlying Value, so setting either one sets both.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f // shallow copy, shares the Value
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	a.Value = &aliasBridgeValue{Value: f.Value, canonical: f}
	ann := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		ann[k] = v
	}
	a.Annotations = ann
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
		return true
	}

	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name && fs.Changed(f.Name) {
				found = true
			}
		})
		return found
	}

	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

const (
	timeLayout = "2006-01-02 15:04"
	dateLayout = outfmt.DateLayout
)

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

// colorEnabled returns true if color output should be used
func colorEnabled() bool {
	switch flags.Color {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		info, err := os.Stdout.Stat()
		if err != nil {
			return false
		}
		return (info.Mode() & os.ModeCharDevice) != 0
	}
}

// colorize wraps text with ANSI color codes if color is enabled
func colorize(text, color string) string {
	if !colorEnabled() || color == "" {
		return text
	}
	return color + text + colorReset
}

func bold(text string) string {
	return colorize(text, colorBold)
}

// severity renders a label in the terminal color for an api severity color.
func severity(label, color string) string {
	switch color {
	case api.ColorError:
		return colorize(label, colorRed)
	case api.ColorWarning:
		return colorize(label, colorYellow)
	case api.ColorSuccess:
		return colorize(label, colorGreen)
	case api.ColorInfo:
		return colorize(label, colorCyan)
	default:
		return label
	}
}

func priorityCell(p api.Priority) string {
	return severity(p.Label(), p.Color())
}

func statusCell(s api.Status) string {
	return severity(s.Label(), s.Color())
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 3 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// parseIDArgs parses positional complaint IDs, accepting "#12" and "1,2,3".
func parseIDArgs(args []string) ([]int, error) {
	var ids []int
	seen := make(map[int]bool)
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := validation.ParsePositiveInt(part, "complaint ID")
			if err != nil {
				return nil, err
			}
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one complaint ID is required")
	}
	return ids, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{e.err, errAlreadyHandled}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// reportError prints err the way the active output mode expects and returns
// it wrapped as already handled.
func reportError(cmd *cobra.Command, err error) error {
	if errors.Is(err, errAlreadyHandled) {
		return err
	}
	if isJSON(cmd) {
		if structured := api.StructuredErrorFromError(err); structured != nil {
			_ = printJSONErr(cmd, map[string]any{"error": structured})
		}
	} else {
		_, _ = fmt.Fprint(iocontext.GetIO(cmd.Context()).ErrOut, HandleError(err))
	}
	return &handledError{err: err, exitCode: ExitCode(err)}
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return reportError(cmd, err)
		}
		return nil
	}
}
