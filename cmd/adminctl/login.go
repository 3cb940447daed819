package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd(opts *globalOptions) *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an administrator",
		Long: `Log in with an administrator account and store the session locally.

Examples:
  adminctl login --email root@example.com
  adminctl login --email root@example.com --password secret`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return errors.New("--email is required")
			}

			secret := password
			if secret == "" {
				fmt.Print("Password: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Print("\n")
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				secret = string(raw)
			}

			session, err := opts.openSession()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			user, err := session.Login(ctx, email, secret)
			if err != nil {
				return err
			}
			fmt.Printf("logged in as %s (%s)\n", user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (supply to avoid prompt)")

	return cmd
}

func logoutCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := opts.openSession()
			if err != nil {
				return err
			}
			if err := session.Logout(); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}
