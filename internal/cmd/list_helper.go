package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kundeklager/kundeklager-cli/internal/iocontext"
	"github.com/kundeklager/kundeklager-cli/internal/outfmt"
	"github.com/kundeklager/kundeklager-cli/internal/querycache"
)

// ListConfig defines how a list command behaves
type ListConfig[T any] struct {
	Use          string
	Aliases      []string
	Short        string
	Long         string
	Example      string
	Fetch        func(ctx context.Context, client *querycache.Client) ([]T, error)
	Headers      []string
	RowFunc      func(T) []string
	EmptyMessage string
}

// NewListCommand creates a cobra command from ListConfig
func NewListCommand[T any](cfg ListConfig[T]) *cobra.Command {
	return &cobra.Command{
		Use:     cfg.Use,
		Aliases: cfg.Aliases,
		Short:   cfg.Short,
		Long:    cfg.Long,
		Example: cfg.Example,
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, client *querycache.Client) error {
				items, err := cfg.Fetch(ctx, client)
				if err != nil {
					return err
				}
				return renderList(cmd, items, cfg.Headers, cfg.RowFunc, cfg.EmptyMessage)
			})
		}),
	}
}

// renderList prints items as a table in text mode and as {"items": [...]}
// (or one line per item) otherwise.
func renderList[T any](cmd *cobra.Command, items []T, headers []string, row func(T) []string, empty string) error {
	if isJSON(cmd) {
		if items == nil {
			items = []T{}
		}
		return printJSON(cmd, items)
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	f := outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
	if len(items) == 0 {
		if empty != "" {
			f.Empty(empty)
		}
		return nil
	}
	f.StartTable(headers)
	for _, item := range items {
		f.Row(row(item)...)
	}
	return f.EndTable()
}
