package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kundeklager/kundeklager-cli/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

// checkForUpdate is replaced in tests.
var checkForUpdate = update.CheckForUpdate

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			result := checkForUpdate(cmd.Context(), version)

			if isJSON(cmd) {
				payload := map[string]any{"version": version}
				if result != nil {
					payload["latest_version"] = result.LatestVersion
					payload["update_available"] = result.UpdateAvailable
				}
				return printJSON(cmd, payload)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "kundeklager-cli version %s\n", version)
			if result != nil && result.UpdateAvailable {
				errOut := cmd.ErrOrStderr()
				_, _ = fmt.Fprintf(errOut, "\nUpdate available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
				_, _ = fmt.Fprintf(errOut, "Download: %s\n", result.UpdateURL)
			}
			return nil
		}),
	}
}
