package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kundeklager/kundeklager-cli/internal/dryrun"
	"github.com/kundeklager/kundeklager-cli/internal/querycache"
	"github.com/kundeklager/kundeklager-cli/internal/validation"
)

func newCommentsCmd() *cobra.Command {
	cmd := protected(&cobra.Command{
		Use:   "comments",
		Short: "Add comments to complaints",
	})
	cmd.AddCommand(newCommentCreateCmd("create <complaint-id> [text...]", []string{"add", "new"}))
	return cmd
}

// newCommentCmd is the top-level shortcut for "comments create".
func newCommentCmd() *cobra.Command {
	cmd := newCommentCreateCmd("comment <complaint-id> [text...]", []string{"cmt"})
	cmd.Short = "Add a comment to a complaint (shortcut for comments create)"
	return protected(cmd)
}

func newCommentCreateCmd(use string, aliases []string) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   "Add a comment to a complaint",
		Long: `Add a comment to a complaint's thread and show the updated thread.

Text is taken from the trailing arguments or from --text.`,
		Example: strings.TrimSpace(`
  kk comment 12 "Kunden er kontaktet"
  kk comments create 12 --text "Sendt ny vare"
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := validation.ParsePositiveInt(args[0], "complaint ID")
			if err != nil {
				return err
			}

			positional := strings.TrimSpace(strings.Join(args[1:], " "))
			if flagOrAliasChanged(cmd, "text") && positional != "" {
				return fmt.Errorf("provide the comment either as arguments or with --text, not both")
			}
			if !flagOrAliasChanged(cmd, "text") {
				text = positional
			}
			text = strings.TrimSpace(text)
			if err := validation.ValidateText("comment", text, validation.MaxCommentLength); err != nil {
				return err
			}

			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: fmt.Sprintf("comment on complaint %d", id),
				Method:    http.MethodPost,
				Endpoint:  fmt.Sprintf("api/comments/create/%d", id),
				Body:      map[string]any{"comment": text},
			}); ok {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client *querycache.Client) error {
				msg, updated, err := client.AddComment(ctx, id, text)
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(cmd, updated)
				}
				printAction(cmd, "Commented on", "complaint", id, msg)
				if !flags.Quiet {
					writeComplaintDetail(cmd.OutOrStdout(), updated)
				}
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&text, "text", "", "Comment text")
	flagAlias(cmd.Flags(), "text", "content")
	return cmd
}
