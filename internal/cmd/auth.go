package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kundeklager/kundeklager-cli/internal/api"
	"github.com/kundeklager/kundeklager-cli/internal/config"
	"github.com/kundeklager/kundeklager-cli/internal/iocontext"
	"github.com/kundeklager/kundeklager-cli/internal/session"
	"github.com/kundeklager/kundeklager-cli/internal/validation"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Log in, register and inspect the session",
		Long:    "Log in to the complaint backend. The session token is stored in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthRegisterCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

// readSecret returns value, or one line from stdin when fromStdin is set.
func readSecret(cmd *cobra.Command, value string, fromStdin bool) (string, error) {
	if !fromStdin {
		return value, nil
	}
	if value != "" {
		return "", fmt.Errorf("--password conflicts with --password-stdin")
	}
	return iocontext.GetIO(cmd.Context()).ReadLine()
}

// newAuthLoginCmd creates the auth login command
func newAuthLoginCmd() *cobra.Command {
	var (
		email         string
		password      string
		passwordStdin bool
		redirect      string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Long: strings.TrimSpace(`
Log in to the complaint backend and store the session token in your OS keychain.

Protected commands run without a session print a --redirect value; pass it
here to run the original command right after a successful login.
`),
		Example: strings.TrimSpace(`
  # Log in
  kk auth login --email ola@example.com --password hemmelig

  # Read the password from stdin
  echo "$KK_PASSWORD" | kk auth login --email ola@example.com --password-stdin

  # Log in against another backend and resume a command
  kk auth login --base-url https://klager.example.com --email ola@example.com --password hemmelig --redirect 'complaints list'
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			secret, err := readSecret(cmd, password, passwordStdin)
			if err != nil {
				return err
			}
			email = strings.TrimSpace(email)
			if err := validation.ValidateEmail(email); err != nil {
				return err
			}
			if err := validation.ValidatePassword(secret); err != nil {
				return err
			}

			var resume []string
			if strings.TrimSpace(redirect) != "" {
				resume, err = splitArgs(redirect)
				if err != nil {
					return fmt.Errorf("invalid --redirect: %w", err)
				}
				if len(resume) > 0 && (resume[0] == "auth" || resume[0] == "au") {
					return fmt.Errorf("invalid --redirect: must not be an auth command")
				}
			}

			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			if sess.ReadOnly() {
				return errReadOnlySession()
			}

			factory := newClientFactory()
			client, err := factory.anonymous()
			if err != nil {
				return err
			}
			token, err := client.Login(cmd.Context(), email, secret)
			if err != nil {
				return err
			}
			factory.dropSessionCache(cmd.Context(), client.BaseURL, sess.Token())
			if err := sess.Login(token); err != nil {
				return err
			}
			factory.dropSessionCache(cmd.Context(), client.BaseURL, token)
			if flags.BaseURL != "" {
				if err := config.SaveBaseURL(client.BaseURL); err != nil {
					return fmt.Errorf("failed to save base URL: %w", err)
				}
			}

			if isJSON(cmd) && len(resume) == 0 {
				return printJSON(cmd, map[string]any{
					"authenticated": true,
					"email":         email,
					"base_url":      client.BaseURL,
				})
			}
			printAction(cmd, "Logged in as", email, nil, "")

			if len(resume) > 0 {
				return Execute(cmd.Context(), resume)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().StringVar(&redirect, "redirect", "", "Command to run after login, e.g. 'complaints list'")
	_ = cmd.MarkFlagRequired("email")
	flagAlias(cmd.Flags(), "email", "em")
	flagAlias(cmd.Flags(), "password", "pw")

	return cmd
}

func newAuthRegisterCmd() *cobra.Command {
	var (
		email         string
		firstName     string
		lastName      string
		password      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Example: strings.TrimSpace(`
  kk auth register --email kari@example.com --first-name Kari --last-name Nordmann --password-stdin
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			secret, err := readSecret(cmd, password, passwordStdin)
			if err != nil {
				return err
			}
			req := api.RegisterRequest{
				Email:     strings.TrimSpace(email),
				FirstName: strings.TrimSpace(firstName),
				LastName:  strings.TrimSpace(lastName),
				Password:  secret,
			}
			if err := validation.ValidateEmail(req.Email); err != nil {
				return err
			}
			if err := validation.ValidateName("first name", req.FirstName); err != nil {
				return err
			}
			if err := validation.ValidateName("last name", req.LastName); err != nil {
				return err
			}
			if err := validation.ValidatePassword(req.Password); err != nil {
				return err
			}

			client, err := newClientFactory().anonymous()
			if err != nil {
				return err
			}
			userID, err := client.Register(cmd.Context(), req)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"user_id": userID,
					"email":   req.Email,
					"name":    api.FullName(req.FirstName, req.LastName),
				})
			}
			printAction(cmd, "Registered", "user", userID, "")
			printIfNotQuiet(cmd, "Log in with: kk auth login --email %s\n", req.Email)
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name (required)")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	flagAlias(cmd.Flags(), "first-name", "fn")
	flagAlias(cmd.Flags(), "last-name", "ln")

	return cmd
}

// newAuthStatusCmd creates the auth status command
func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Long:  "Display the session state and backend URL (the token is masked).",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			sess, err := config.LoadSession()
			if err != nil {
				return fmt.Errorf("failed to load session: %w", err)
			}
			cfg, err := config.ResolveClientConfig(flags.BaseURL)
			if err != nil {
				return err
			}
			source := "keychain"
			if sess.ReadOnly() {
				source = "env"
			}

			if isJSON(cmd) {
				payload := map[string]any{
					"authenticated": sess.IsAuthenticated(),
					"state":         string(sess.State()),
					"base_url":      cfg.BaseURL,
				}
				if sess.IsAuthenticated() {
					payload["token"] = maskToken(sess.Token())
					payload["source"] = source
				}
				return printJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			if !sess.IsAuthenticated() {
				_, _ = fmt.Fprintln(out, "Not logged in.")
				_, _ = fmt.Fprintf(out, "  Base URL: %s\n", cfg.BaseURL)
				_, _ = fmt.Fprintln(out, "Run 'kk auth login' to log in.")
				return nil
			}
			_, _ = fmt.Fprintln(out, "Logged in")
			_, _ = fmt.Fprintf(out, "  Base URL: %s\n", cfg.BaseURL)
			_, _ = fmt.Fprintf(out, "  Token: %s\n", maskToken(sess.Token()))
			_, _ = fmt.Fprintf(out, "  Source: %s\n", source)
			return nil
		}),
	}
}

// newAuthLogoutCmd creates the auth logout command
func newAuthLogoutCmd() *cobra.Command {
	var forgetURL bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the session token from the keychain",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			if sess.ReadOnly() {
				return errReadOnlySession()
			}
			wasAuthenticated := sess.IsAuthenticated()
			if wasAuthenticated {
				cfg, err := config.ResolveClientConfig(flags.BaseURL)
				if err != nil {
					return err
				}
				newClientFactory().dropSessionCache(cmd.Context(), cfg.BaseURL, sess.Token())
			}
			if err := sess.Logout(); err != nil {
				return fmt.Errorf("failed to remove session: %w", err)
			}
			if forgetURL {
				if err := config.ForgetBaseURL(); err != nil {
					return fmt.Errorf("failed to remove saved base URL: %w", err)
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"logged_out": wasAuthenticated})
			}
			if !wasAuthenticated {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		}),
	}

	cmd.Flags().BoolVar(&forgetURL, "forget-url", false, "Also remove the base URL saved at login")
	return cmd
}

func errReadOnlySession() error {
	return fmt.Errorf("%w (unset %s first)", session.ErrReadOnly, config.EnvToken)
}

// maskToken masks a token for display, showing only first and last 4 characters
func maskToken(token string) string {
	if len(token) < 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
