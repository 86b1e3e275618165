package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kundeklager/kundeklager-cli/internal/api"
	"github.com/kundeklager/kundeklager-cli/internal/dryrun"
	"github.com/kundeklager/kundeklager-cli/internal/iocontext"
	"github.com/kundeklager/kundeklager-cli/internal/querycache"
	"github.com/kundeklager/kundeklager-cli/internal/resolve"
	"github.com/kundeklager/kundeklager-cli/internal/validation"
)

// descriptionWidth is the description column width in the complaint table.
const descriptionWidth = 50

// now is replaced in tests.
var now = time.Now

func newComplaintsCmd() *cobra.Command {
	cmd := protected(&cobra.Command{
		Use:     "complaints",
		Aliases: []string{"complaint", "c"},
		Short:   "List, view, create and edit complaints",
	})

	cmd.AddCommand(newComplaintsListCmd())
	cmd.AddCommand(newComplaintsGetCmd())
	cmd.AddCommand(newComplaintsCreateCmd())
	cmd.AddCommand(newComplaintsEditCmd())

	return cmd
}

func sortFieldNames() []string {
	names := make([]string, 0, len(api.SortFields))
	for _, f := range api.SortFields {
		names = append(names, string(f))
	}
	return names
}

// positiveID returns ref as an ID when it is a plain positive integer.
func positiveID(ref string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(ref))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func newComplaintsListCmd() *cobra.Command {
	var (
		sortBy      string
		order       string
		toggleOrder bool
		customer    string
		user        string
		search      string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List complaints",
		Long: strings.TrimSpace(`
List complaints, newest modification first by default.

--customer and --user accept an ID or a name; names are matched fuzzily
against the customer and user lists.
`),
		Example: strings.TrimSpace(`
  kk complaints list
  kk complaints list --sort-by created --order asc
  kk complaints list --customer "Acme" --search levering
  kk complaints list --json --query '.items[] | select(.Priority == 0) | .ID'
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			filter := api.DefaultComplaintFilter()

			if cmd.Flags().Changed("sort-by") {
				field, err := normalizeEnum("sort field", sortBy, sortFieldNames())
				if err != nil {
					return err
				}
				filter = filter.WithSortBy(api.SortField(field))
			}
			if cmd.Flags().Changed("order") {
				dir, err := normalizeEnum("sort order", order, []string{string(api.SortAsc), string(api.SortDesc)})
				if err != nil {
					return err
				}
				filter = filter.WithSortOrder(api.SortOrder(dir))
			}
			if toggleOrder {
				filter = filter.ToggleOrder()
			}
			filter = filter.WithSearch(search)

			return withClient(cmd, func(ctx context.Context, client *querycache.Client) error {
				scoped, err := scopeFilter(ctx, client, filter, customer, user)
				if err != nil {
					return err
				}
				complaints, err := client.Complaints(ctx, scoped)
				if err != nil {
					return err
				}
				return renderList(cmd, complaints, complaintHeaders, complaintRow, "No complaints found")
			})
		}),
	}

	cmd.Flags().StringVar(&sortBy, "sort-by", string(api.SortByModifiedAt), "Sort field: modified_at|created_at")
	cmd.Flags().StringVar(&order, "order", string(api.SortDesc), "Sort order: asc|desc")
	cmd.Flags().BoolVar(&toggleOrder, "toggle-order", false, "Reverse the sort order")
	cmd.Flags().StringVar(&customer, "customer", "", "Only complaints for this customer (ID or name)")
	cmd.Flags().StringVar(&user, "user", "", "Only complaints created by this user (ID, email or name)")
	cmd.Flags().StringVar(&search, "search", "", "Free-text search")
	flagAlias(cmd.Flags(), "sort-by", "sort")
	flagAlias(cmd.Flags(), "customer", "cust")
	flagAlias(cmd.Flags(), "search", "s")
	registerStaticCompletions(cmd, "sort-by", sortFieldNames())
	registerStaticCompletions(cmd, "order", []string{string(api.SortAsc), string(api.SortDesc)})
	_ = cmd.RegisterFlagCompletionFunc("customer", completeCustomers)
	_ = cmd.RegisterFlagCompletionFunc("user", completeUsers)

	return cmd
}

// scopeFilter resolves --customer and --user references into filter IDs.
// Plain numeric references are used as-is without fetching lookup lists.
func scopeFilter(ctx context.Context, client *querycache.Client, filter api.ComplaintFilter, customer, user string) (api.ComplaintFilter, error) {
	customer = strings.TrimSpace(customer)
	user = strings.TrimSpace(user)

	need := querycache.Need{}
	if id, ok := positiveID(customer); ok {
		filter = filter.WithCustomer(strconv.Itoa(id))
	} else if customer != "" {
		need.Customers = true
	}
	if id, ok := positiveID(user); ok {
		filter = filter.WithUser(strconv.Itoa(id))
	} else if user != "" {
		need.Users = true
	}
	if !need.Customers && !need.Users {
		return filter, nil
	}

	lookups, err := client.Prefetch(ctx, need)
	if err != nil {
		return filter, err
	}
	if need.Customers {
		c, err := resolve.Customer(customer, lookups.Customers)
		if err != nil {
			return filter, err
		}
		filter = filter.WithCustomer(strconv.Itoa(c.ID))
	}
	if need.Users {
		u, err := resolve.User(user, lookups.Users)
		if err != nil {
			return filter, err
		}
		filter = filter.WithUser(strconv.Itoa(u.ID))
	}
	return filter, nil
}

var complaintHeaders = []string{"ID", "DATE", "CUSTOMER", "CATEGORY", "PRIORITY", "STATUS", "DESCRIPTION"}

func complaintRow(c api.Complaint) []string {
	return []string{
		itoa(c.ID),
		complaintDate(c),
		c.Customer.Name,
		c.Category.Name,
		priorityCell(c.Priority),
		statusCell(c.Status),
		truncate(c.Description, descriptionWidth),
	}
}

// complaintDate prefers the reported complaint date over the creation time.
func complaintDate(c api.Complaint) string {
	if c.ComplaintDate != nil && !c.ComplaintDate.IsZero() {
		return formatDate(c.ComplaintDate)
	}
	return formatDate(&c.CreatedAt)
}

func newComplaintsGetCmd() *cobra.Command {
	var concurrency int64

	cmd := &cobra.Command{
		Use:     "get <id> [id...]",
		Aliases: []string{"show", "view"},
		Short:   "Show complaints with their comments",
		Example: strings.TrimSpace(`
  kk complaints get 12
  kk complaints get 12 13 14 --json
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client *querycache.Client) error {
				if len(ids) == 1 {
					complaint, err := client.Complaint(ctx, ids[0])
					if err != nil {
						return err
					}
					if isJSON(cmd) {
						return printJSON(cmd, complaint)
					}
					writeComplaintDetail(cmd.OutOrStdout(), complaint)
					return nil
				}
				return getMany(ctx, cmd, client, ids, concurrency)
			})
		}),
	}

	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Maximum parallel requests for several IDs")
	return cmd
}

// getMany fetches several complaints in parallel and prints them in argument order.
func getMany(ctx context.Context, cmd *cobra.Command, client *querycache.Client, ids []int, concurrency int64) error {
	ioStreams := iocontext.GetIO(ctx)
	results := runBulkOperation(ctx, ids, concurrency, false, ioStreams.ErrOut,
		func(ctx context.Context, id int) (*api.Complaint, error) {
			return client.Complaint(ctx, id)
		})

	complaints := make([]*api.Complaint, 0, len(results))
	for _, r := range results {
		if r.Success {
			complaints = append(complaints, r.Data.(*api.Complaint))
			continue
		}
		_, _ = fmt.Fprintf(ioStreams.ErrOut, "complaint %d: %v\n", r.ID, r.Error)
	}

	if isJSON(cmd) {
		if err := printJSON(cmd, complaints); err != nil {
			return err
		}
	} else {
		for i, c := range complaints {
			if i > 0 {
				_, _ = fmt.Fprintln(ioStreams.Out)
			}
			writeComplaintDetail(ioStreams.Out, c)
		}
	}

	if _, failed := countResults(results); failed > 0 {
		for _, r := range results {
			if !r.Success {
				return fmt.Errorf("failed to fetch %d of %d complaints: %w", failed, len(results), r.Error)
			}
		}
	}
	return nil
}

func writeComplaintDetail(w io.Writer, c *api.Complaint) {
	_, _ = fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("Complaint #%d", c.ID)))
	_, _ = fmt.Fprintf(w, "  Customer:   %s\n", c.Customer.Name)
	_, _ = fmt.Fprintf(w, "  Category:   %s\n", c.Category.Name)
	_, _ = fmt.Fprintf(w, "  Priority:   %s\n", priorityCell(c.Priority))
	_, _ = fmt.Fprintf(w, "  Status:     %s\n", statusCell(c.Status))
	_, _ = fmt.Fprintf(w, "  Date:       %s\n", complaintDate(*c))
	if c.CreatedBy != nil {
		_, _ = fmt.Fprintf(w, "  Created by: %s\n", c.CreatedBy.Name)
	}
	_, _ = fmt.Fprintf(w, "  Created:    %s\n", formatTimestamp(c.CreatedAt))
	_, _ = fmt.Fprintf(w, "  Modified:   %s\n", formatTimestamp(c.ModifiedAt))
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, c.Description)

	if len(c.Comments) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("Comments (%d)", len(c.Comments))))
	for _, comment := range c.Comments {
		author := "-"
		if comment.CreatedBy != nil && comment.CreatedBy.Name != "" {
			author = comment.CreatedBy.Name
		}
		_, _ = fmt.Fprintf(w, "  [%s] %s: %s\n", formatTimestamp(comment.CreatedAt), author, comment.Comment)
	}
}

func newComplaintsCreateCmd() *cobra.Command {
	var (
		customer    string
		description string
		date        string
		priority    string
		status      string
		category    string
	)

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new", "add"},
		Short:   "Register a new complaint",
		Long: strings.TrimSpace(`
Register a new complaint.

--customer is free text. A case-insensitive match against an existing
customer uses that customer's spelling. --category takes an ID or a name.
`),
		Example: strings.TrimSpace(`
  kk complaints create --customer "Acme AS" --description "Varen kom i stykker"
  kk complaints create --customer "Acme AS" --description "Feil faktura" --priority high --category Faktura --date 2024-03-01
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateName("customer", customer); err != nil {
				return err
			}
			if err := validation.ValidateText("description", description, validation.MaxDescriptionLength); err != nil {
				return err
			}
			when, err := validation.ParseDate(date, now())
			if err != nil {
				return err
			}
			prio, err := api.ParsePriority(priority)
			if err != nil {
				return err
			}
			state, err := api.ParseStatus(status)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client *querycache.Client) error {
				form := api.ComplaintForm{
					CustomerName: strings.TrimSpace(customer),
					Description:  description,
					Date:         when,
					Priority:     prio,
					Status:       state,
					Category:     api.DefaultCategoryID,
				}
				if err := completeForm(ctx, client, &form, category); err != nil {
					return err
				}

				if ok, err := maybeDryRun(cmd, &dryrun.Preview{
					Operation: "create complaint",
					Method:    http.MethodPost,
					Endpoint:  "api/complaints/create",
					Body:      dryrun.BodyOf(form),
				}); ok {
					return err
				}

				msg, err := client.CreateComplaint(ctx, form)
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(cmd, map[string]any{"created": true, "message": msg, "complaint": form})
				}
				printAction(cmd, "Created", "complaint", nil, msg)
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Customer name (required)")
	cmd.Flags().StringVar(&description, "description", "", "What the complaint is about (required)")
	cmd.Flags().StringVar(&date, "date", "", "Complaint date: YYYY-MM-DD, today, yesterday, 3d ago (default now)")
	cmd.Flags().StringVar(&priority, "priority", api.PriorityMedium.Name(), "Priority: "+strings.Join(api.PriorityNames(), "|"))
	cmd.Flags().StringVar(&status, "status", api.StatusNew.Name(), "Status: "+strings.Join(api.StatusNames(), "|"))
	cmd.Flags().StringVar(&category, "category", "", fmt.Sprintf("Category ID or name (default %d)", api.DefaultCategoryID))
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("description")
	flagAlias(cmd.Flags(), "description", "desc")
	flagAlias(cmd.Flags(), "priority", "prio")
	flagAlias(cmd.Flags(), "category", "cat")
	registerStaticCompletions(cmd, "priority", api.PriorityNames())
	registerStaticCompletions(cmd, "status", api.StatusNames())
	_ = cmd.RegisterFlagCompletionFunc("customer", completeCustomers)
	_ = cmd.RegisterFlagCompletionFunc("category", completeCategories)

	return cmd
}

// completeForm canonicalizes the customer name and resolves the category
// reference. A numeric category is used without a lookup.
func completeForm(ctx context.Context, client *querycache.Client, form *api.ComplaintForm, category string) error {
	category = strings.TrimSpace(category)
	need := querycache.Need{Customers: true}
	if category != "" {
		if id, ok := positiveID(category); ok {
			form.Category = id
		} else {
			need.Categories = true
		}
	}

	lookups, err := client.Prefetch(ctx, need)
	if err != nil {
		if need.Categories {
			return err
		}
		slog.Debug("customer lookup failed, keeping name as typed", "error", err)
		return nil
	}

	for _, c := range lookups.Customers {
		if strings.EqualFold(c.Name, form.CustomerName) {
			form.CustomerName = c.Name
			break
		}
	}
	if need.Categories {
		c, err := resolve.Category(category, lookups.Categories)
		if err != nil {
			return err
		}
		form.Category = c.ID
	}
	return nil
}

func newComplaintsEditCmd() *cobra.Command {
	var (
		description string
		priority    string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a complaint's description or priority",
		Example: strings.TrimSpace(`
  kk complaints edit 12 --priority high
  kk complaints edit 12 --description "Oppdatert beskrivelse"
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := validation.ParsePositiveInt(args[0], "complaint ID")
			if err != nil {
				return err
			}
			descChanged := flagOrAliasChanged(cmd, "description")
			prioChanged := flagOrAliasChanged(cmd, "priority")
			if !descChanged && !prioChanged {
				return fmt.Errorf("nothing to change: --description or --priority is required")
			}
			if descChanged {
				if err := validation.ValidateText("description", description, validation.MaxDescriptionLength); err != nil {
					return err
				}
			}
			var prio api.Priority
			if prioChanged {
				if prio, err = api.ParsePriority(priority); err != nil {
					return err
				}
			}

			return withClient(cmd, func(ctx context.Context, client *querycache.Client) error {
				current, err := client.Complaint(ctx, id)
				if err != nil {
					return err
				}
				form := api.ComplaintForm{Description: current.Description, Priority: current.Priority}
				if descChanged {
					form.Description = description
				}
				if prioChanged {
					form.Priority = prio
				}

				if ok, err := maybeDryRun(cmd, &dryrun.Preview{
					Operation: fmt.Sprintf("edit complaint %d", id),
					Method:    http.MethodPut,
					Endpoint:  fmt.Sprintf("api/complaints/edit/%d", id),
					Body: map[string]any{
						"description": form.Description,
						"priority":    int(form.Priority),
					},
				}); ok {
					return err
				}

				msg, updated, err := client.EditComplaint(ctx, id, form)
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(cmd, updated)
				}
				printAction(cmd, "Updated", "complaint", id, msg)
				if !flags.Quiet {
					writeComplaintDetail(cmd.OutOrStdout(), updated)
				}
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority: "+strings.Join(api.PriorityNames(), "|"))
	flagAlias(cmd.Flags(), "description", "desc")
	flagAlias(cmd.Flags(), "priority", "prio")
	registerStaticCompletions(cmd, "priority", api.PriorityNames())

	return cmd
}
