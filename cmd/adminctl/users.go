package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func usersCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage console users",
	}
	cmd.AddCommand(usersListCmd(opts))
	return cmd
}

func usersListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List member accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := opts.openSession()
			if err != nil {
				return err
			}
			if !session.Authenticated() {
				return errNotLoggedIn
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			users, err := session.ListUsers(ctx)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println("no members")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tLAST LOGIN")
			for _, u := range users {
				last := "never"
				if u.LastLoginAt != nil {
					last = u.LastLoginAt.Local().Format(time.DateTime)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, last)
			}
			return w.Flush()
		},
	}
}
