package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kundeklager/kundeklager-cli/internal/cache"
	"github.com/kundeklager/kundeklager-cli/internal/config"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Aliases: []string{"ch"},
		Short:   "Manage the local response cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached responses",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("could not determine cache directory: %w", err)
			}
			if err := cache.ClearDir(dir); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			printIfNotQuiet(cmd, "Cache cleared: %s\n", dir)

			redisURL := strings.TrimSpace(os.Getenv(cache.EnvRedisURL))
			if redisURL == "" {
				return nil
			}
			cfg, err := config.ResolveClientConfig(flags.BaseURL)
			if err != nil {
				return err
			}
			store, err := cache.NewRedisStore(cmd.Context(), redisURL, cache.ScopeFor(cfg.BaseURL, ""))
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear redis cache: %w", err)
			}
			printIfNotQuiet(cmd, "Redis cache cleared\n")
			return nil
		}),
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the cache directory and its entries",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("could not determine cache directory: %w", err)
			}

			entries, err := os.ReadDir(dir)
			if err != nil && !os.IsNotExist(err) {
				return err
			}
			type fileInfo struct {
				Name string `json:"name"`
				Size int64  `json:"size"`
			}
			files := make([]fileInfo, 0, len(entries))
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
					continue
				}
				info, err := e.Info()
				if err != nil {
					continue
				}
				files = append(files, fileInfo{Name: e.Name(), Size: info.Size()})
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"path":     dir,
					"disabled": cache.Disabled(),
					"files":    files,
				})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), dir)
			for _, f := range files {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s (%d bytes)\n", f.Name, f.Size)
			}
			return nil
		}),
	}
}
