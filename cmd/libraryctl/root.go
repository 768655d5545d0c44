package main

import (
	"fmt"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/librisys/library-client/internal/core/state"
	"github.com/librisys/library-client/internal/infrastructure/backend"
	"github.com/librisys/library-client/internal/infrastructure/config"
	"github.com/librisys/library-client/pkg/logger"
)

// app carries the wired store through to every command. It is built once in
// PersistentPreRunE and never reached through a package-level variable.
type app struct {
	store  *state.Store
	client *backend.Client
	log    zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "libraryctl",
		Short:         "Terminal client for the library management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient(cmd.Context())
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

			client, err := backend.New(backend.Config{
				BaseURL: cfg.APIURL,
				Timeout: cfg.Timeout,
			}, log)
			if err != nil {
				return err
			}
			restoreSession(client, log)

			a.client = client
			a.store = state.New(client, log)
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.client != nil {
				saveSession(a.client, a.log)
			}
		},
	}

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newVerifyOTPCmd(a),
		newForgotPasswordCmd(a),
		newResetPasswordCmd(a),
		newUpdatePasswordCmd(a),
		newProfileCmd(a),
		newMeCmd(a),
		newBooksCmd(a),
		newUsersCmd(a),
		newBorrowsCmd(a),
		newBorrowCmd(a),
		newReturnCmd(a),
		newDashboardCmd(a),
	)
	return root
}

// consume prints the slice's message or error and issues the reset the
// store contract requires after either is observed.
func consume(status state.RequestStatus, reset func()) {
	switch {
	case status.Error != "":
		fmt.Println("error:", status.Error)
	case status.Message != "":
		fmt.Println(status.Message)
	}
	reset()
}

// promptPassword reads a masked password from the terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
