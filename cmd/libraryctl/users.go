package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/librisys/library-client/internal/core/ports"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (admin only)",
	}
	cmd.AddCommand(newUsersListCmd(a), newUsersAddAdminCmd(a))
	return cmd
}

func newUsersListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = a.store.Users.FetchAll(cmd.Context())
			view := a.store.Users.Snapshot()
			consume(view.Status, a.store.Users.Reset)
			if len(view.Users) == 0 {
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEMAIL\tROLE\tFINES")
			for _, u := range view.Users {
				fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\n", u.Name, u.Email, u.Role, u.FinesDue)
			}
			return w.Flush()
		},
	}
}

func newUsersAddAdminCmd(a *app) *cobra.Command {
	var name, email, avatarPath string
	cmd := &cobra.Command{
		Use:   "add-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			in := ports.AdminInput{Name: name, Email: email, Password: password}
			if avatarPath != "" {
				f, err := os.Open(avatarPath)
				if err != nil {
					return fmt.Errorf("open avatar: %w", err)
				}
				defer f.Close()
				in.Avatar = f
				in.AvatarName = filepath.Base(avatarPath)
			}
			_ = a.store.Users.AddAdmin(cmd.Context(), in)
			consume(a.store.Users.Snapshot().Status, a.store.Users.Reset)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&avatarPath, "avatar", "", "path to an avatar image (optional)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
