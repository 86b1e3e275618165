package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kundeklager/kundeklager-cli/internal/api"
	"github.com/kundeklager/kundeklager-cli/internal/querycache"
)

func newCustomersCmd() *cobra.Command {
	cmd := protected(&cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer", "cu"},
		Short:   "List customers",
	})
	cmd.AddCommand(NewListCommand(ListConfig[api.Customer]{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List customers",
		Fetch: func(ctx context.Context, client *querycache.Client) ([]api.Customer, error) {
			return client.Customers(ctx)
		},
		Headers: []string{"ID", "NAME", "CREATED"},
		RowFunc: func(c api.Customer) []string {
			return []string{itoa(c.ID), c.Name, formatDate(&c.CreatedAt)}
		},
		EmptyMessage: "No customers found",
	}))
	return cmd
}

func newUsersCmd() *cobra.Command {
	cmd := protected(&cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "us"},
		Short:   "List users",
	})
	cmd.AddCommand(NewListCommand(ListConfig[api.User]{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Fetch: func(ctx context.Context, client *querycache.Client) ([]api.User, error) {
			return client.Users(ctx)
		},
		Headers: []string{"ID", "NAME", "EMAIL"},
		RowFunc: func(u api.User) []string {
			return []string{itoa(u.ID), u.Name, u.Email}
		},
		EmptyMessage: "No users found",
	}))
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	cmd := protected(&cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "List complaint categories",
	})
	cmd.AddCommand(NewListCommand(ListConfig[api.Category]{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List complaint categories",
		Fetch: func(ctx context.Context, client *querycache.Client) ([]api.Category, error) {
			return client.Categories(ctx)
		},
		Headers: []string{"ID", "NAME"},
		RowFunc: func(c api.Category) []string {
			return []string{itoa(c.ID), c.Name}
		},
		EmptyMessage: "No categories found",
	}))
	return cmd
}
