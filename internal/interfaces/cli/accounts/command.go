// Package accounts holds the operator commands for managing login accounts.
package accounts

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sortwise/sessiond/internal/application/account/usecases"
	domainAccount "github.com/sortwise/sessiond/internal/domain/account"
	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/interfaces/cli/bootstrap"
)

var (
	env      string
	output   string
	username string
	password string
	role     string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage login accounts",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", bootstrap.FormatTable, "Output format (table, json, yaml)")

	cmd.AddCommand(
		newCreateCommand(),
		&cobra.Command{
			Use:   "enable <account-id>",
			Short: "Allow an account to log in again",
			Args:  cobra.ExactArgs(1),
			RunE:  func(cmd *cobra.Command, args []string) error { return runSetActive(cmd, args[0], true) },
		},
		&cobra.Command{
			Use:   "disable <account-id>",
			Short: "Block an account and end its session",
			Args:  cobra.ExactArgs(1),
			RunE:  func(cmd *cobra.Command, args []string) error { return runSetActive(cmd, args[0], false) },
		},
		&cobra.Command{
			Use:   "grant <account-id> <role>",
			Short: "Give one account an extra permission role",
			Args:  cobra.ExactArgs(2),
			RunE:  runGrant,
		},
	)

	return cmd
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Long:  `Create an account. Without --password the password is read from the terminal.`,
		Args:  cobra.NoArgs,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Login name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	cmd.Flags().StringVarP(&role, "role", "r", string(domainAccount.RoleUser), "Role (user, admin)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

type accountView struct {
	ID       int64  `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Role     string `json:"role" yaml:"role"`
	Active   bool   `json:"active" yaml:"active"`
}

func runCreate(cmd *cobra.Command, args []string) error {
	pw := password
	if pw == "" {
		var err error
		pw, err = readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	c, _, err := bootstrap.OpenContainer(env)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	a, err := c.Accounts().Create(cmd.Context(), usecases.CreateAccountCommand{
		Username: username,
		Password: pw,
		Role:     domainAccount.Role(role),
	})
	if err != nil {
		return err
	}
	return renderAccount(cmd.OutOrStdout(), output, a)
}

func runSetActive(cmd *cobra.Command, rawID string, active bool) error {
	id, err := session.ParseAccountID(rawID)
	if err != nil {
		return err
	}

	c, _, err := bootstrap.OpenContainer(env)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	if err := c.Accounts().SetActive(cmd.Context(), usecases.SetAccountActiveCommand{AccountID: id, Active: active}); err != nil {
		return err
	}

	a, err := c.Accounts().Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("account %d not found", id)
	}
	return renderAccount(cmd.OutOrStdout(), output, a)
}

func runGrant(cmd *cobra.Command, args []string) error {
	id, err := session.ParseAccountID(args[0])
	if err != nil {
		return err
	}
	grantRole := strings.TrimSpace(args[1])
	if grantRole == "" {
		return errors.New("role must not be empty")
	}

	c, log, err := bootstrap.OpenContainer(env)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	a, err := c.Accounts().Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("account %d not found", id)
	}

	if err := c.Enforcer().AddRoleForSubject(domainAccount.Subject(id), grantRole); err != nil {
		return err
	}
	log.Infow("role granted from cli", "account_id", id, "role", grantRole)

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "granted %s to account %d\n", grantRole, id)
	return err
}

func renderAccount(w io.Writer, format string, a *domainAccount.Account) error {
	view := accountView{
		ID:       int64(a.ID),
		Username: a.Username,
		Role:     string(a.Role),
		Active:   a.Active,
	}
	return bootstrap.Render(w, format, view, func(w io.Writer) error {
		status := "active"
		if !view.Active {
			status = "disabled"
		}
		_, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", view.ID, view.Username, view.Role, status)
		return err
	})
}

// readPassword prompts without echo on a terminal and reads one line
// otherwise, so the command also works with piped input.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password must not be empty")
	}
	return line, nil
}
