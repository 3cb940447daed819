package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in, run `adminctl login`")

func whoamiCmd(opts *globalOptions) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := opts.openSession()
			if err != nil {
				return err
			}
			if !session.Authenticated() {
				return errNotLoggedIn
			}

			if offline {
				user, _ := session.User()
				fmt.Printf("%s <%s> %s\n", user.Name, user.Email, user.Role)
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			user, err := session.Me(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s> %s\n", user.Name, user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Print the cached user without asking the server")

	return cmd
}
