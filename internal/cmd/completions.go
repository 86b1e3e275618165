package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kundeklager/kundeklager-cli/internal/api"
	"github.com/kundeklager/kundeklager-cli/internal/config"
	"github.com/kundeklager/kundeklager-cli/internal/querycache"
)

type completionFunc = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

// lookupCompletion completes a flag value from a cached lookup list. Without a
// session, or on any error, it offers nothing and never prompts for login.
func lookupCompletion(need querycache.Need, names func(querycache.Lookups) []string) completionFunc {
	return func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		sess, err := config.LoadSession()
		if err != nil || !sess.IsAuthenticated() {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		client, closeFn, err := newClientFactory().authenticated(withSession(ctx, sess))
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		defer closeFn()

		lookups, err := client.Prefetch(ctx, need)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return matchingPrefix(names(lookups), toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// matchingPrefix keeps the candidates starting with prefix, ignoring case.
func matchingPrefix(candidates []string, prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), prefix) {
			out = append(out, c)
		}
	}
	return out
}

var (
	completeCustomers = lookupCompletion(querycache.Need{Customers: true}, func(l querycache.Lookups) []string {
		return namesOf(l.Customers, func(c api.Customer) string { return c.Name })
	})
	completeUsers = lookupCompletion(querycache.Need{Users: true}, func(l querycache.Lookups) []string {
		return namesOf(l.Users, func(u api.User) string { return u.Email })
	})
	completeCategories = lookupCompletion(querycache.Need{Categories: true}, func(l querycache.Lookups) []string {
		return namesOf(l.Categories, func(c api.Category) string { return c.Name })
	})
)

func namesOf[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if n := name(item); n != "" {
			out = append(out, n)
		}
	}
	return out
}
