// Package sessions holds the operator commands for inspecting and revoking
// live sessions.
package sessions

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sortwise/sessiond/internal/application/session/usecases"
	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/interfaces/cli/bootstrap"
	"github.com/sortwise/sessiond/internal/shared/biztime"
)

var (
	env    string
	output string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and revoke sessions",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", bootstrap.FormatTable, "Output format (table, json, yaml)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List accounts that currently hold a session",
			Args:  cobra.NoArgs,
			RunE:  runList,
		},
		&cobra.Command{
			Use:   "count",
			Short: "Print the number of online accounts",
			Args:  cobra.NoArgs,
			RunE:  runCount,
		},
		&cobra.Command{
			Use:   "kick <account-id>",
			Short: "Revoke the current session of an account",
			Args:  cobra.ExactArgs(1),
			RunE:  runKick,
		},
		&cobra.Command{
			Use:   "inspect <token>",
			Short: "Show the session behind a token",
			Args:  cobra.ExactArgs(1),
			RunE:  runInspect,
		},
	)

	return cmd
}

type onlineView struct {
	Count      int     `json:"count" yaml:"count"`
	AccountIDs []int64 `json:"account_ids" yaml:"account_ids"`
}

type kickView struct {
	AccountID int64 `json:"account_id" yaml:"account_id"`
	Kicked    bool  `json:"kicked" yaml:"kicked"`
}

type sessionView struct {
	AccountID int64  `json:"account_id" yaml:"account_id"`
	IssuedAt  string `json:"issued_at" yaml:"issued_at"`
	ExpiresAt string `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	c, _, err := bootstrap.OpenContainer(env)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	ids, err := c.Sessions().ListOnline(cmd.Context())
	if err != nil {
		return err
	}
	return renderOnline(cmd.OutOrStdout(), output, ids)
}

func runCount(cmd *cobra.Command, args []string) error {
	c, _, err := bootstrap.OpenContainer(env)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	n, err := c.Sessions().CountOnline(cmd.Context())
	if err != nil {
		return err
	}
	return bootstrap.Render(cmd.OutOrStdout(), output, map[string]int{"count": n}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, n)
		return err
	})
}

func runKick(cmd *cobra.Command, args []string) error {
	id, err := session.ParseAccountID(args[0])
	if err != nil {
		return err
	}

	c, log, err := bootstrap.OpenContainer(env)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	kicked, err := c.Sessions().ForceLogout(cmd.Context(), usecases.ForceLogoutCommand{TargetID: id})
	if err != nil {
		return err
	}
	log.Infow("force logout from cli", "account_id", id, "kicked", kicked)

	return renderKick(cmd.OutOrStdout(), output, id, kicked)
}

func runInspect(cmd *cobra.Command, args []string) error {
	c, _, err := bootstrap.OpenContainer(env)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	s, err := c.Sessions().Describe(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return renderSession(cmd.OutOrStdout(), output, s)
}

func renderOnline(w io.Writer, format string, ids []session.AccountID) error {
	view := onlineView{Count: len(ids), AccountIDs: make([]int64, 0, len(ids))}
	for _, id := range ids {
		view.AccountIDs = append(view.AccountIDs, int64(id))
	}

	return bootstrap.Render(w, format, view, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ACCOUNT ID")
		for _, id := range view.AccountIDs {
			fmt.Fprintln(tw, id)
		}
		fmt.Fprintf(tw, "\n%d online\n", view.Count)
		return tw.Flush()
	})
}

func renderKick(w io.Writer, format string, id session.AccountID, kicked bool) error {
	view := kickView{AccountID: int64(id), Kicked: kicked}
	return bootstrap.Render(w, format, view, func(w io.Writer) error {
		if kicked {
			_, err := fmt.Fprintf(w, "account %d logged out\n", id)
			return err
		}
		_, err := fmt.Fprintf(w, "account %d had no session\n", id)
		return err
	})
}

func renderSession(w io.Writer, format string, s *session.Session) error {
	view := sessionView{
		AccountID: int64(s.AccountID),
		IssuedAt:  biztime.Format(s.IssuedAt),
	}
	if !s.ExpiresAt.IsZero() {
		view.ExpiresAt = biztime.Format(s.ExpiresAt)
	}

	return bootstrap.Render(w, format, view, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "ACCOUNT ID\t%d\n", view.AccountID)
		fmt.Fprintf(tw, "ISSUED AT\t%s\n", view.IssuedAt)
		if view.ExpiresAt != "" {
			fmt.Fprintf(tw, "EXPIRES AT\t%s\n", view.ExpiresAt)
		}
		return tw.Flush()
	})
}
