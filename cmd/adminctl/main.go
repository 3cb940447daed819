package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/taskflow/admin-console/pkg/client"
	"github.com/taskflow/admin-console/pkg/logger"
)

// Version information set at build time.
var version = "dev"

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	apiURL        string
	sessionFile   string
	sessionCookie string
	verbose       bool
}

func main() {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "adminctl",
		Short:         "Command-line client for the admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultAPI := os.Getenv("ADMINCTL_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api", defaultAPI, "API base URL")
	rootCmd.PersistentFlags().StringVar(&opts.sessionFile, "session-file", "", "Session file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&opts.sessionCookie, "session-cookie", client.DefaultSessionCookie, "Session cookie name for servers in cookie transport")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(
		loginCmd(opts),
		logoutCmd(opts),
		whoamiCmd(opts),
		usersCmd(opts),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, client.ErrSessionExpired) {
			fmt.Fprintln(os.Stderr, "error: session expired, run `adminctl login`")
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(1)
	}
}

func (o *globalOptions) logger() zerolog.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, Pretty: true, Output: os.Stderr})
}

// openSession restores the persisted session for the configured API.
func (o *globalOptions) openSession() (*client.Session, error) {
	var (
		store *client.FileStore
		err   error
	)
	if o.sessionFile != "" {
		store = client.NewFileStore(o.sessionFile)
	} else if store, err = client.DefaultFileStore(); err != nil {
		return nil, fmt.Errorf("locate session file: %w", err)
	}

	log := o.logger()
	log.Debug().Str("api", o.apiURL).Str("session_file", store.Path()).Msg("opening session")

	return client.NewSession(o.apiURL, store,
		client.WithSessionCookie(o.sessionCookie),
		client.WithOnLogout(func() {
			log.Debug().Msg("local session cleared")
		}),
	)
}
