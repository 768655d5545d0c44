package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/librisys/library-client/internal/core/ports"
)

func newLoginCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			_ = a.store.Auth.Login(cmd.Context(), email, password)
			view := a.store.Auth.Snapshot()
			consume(view.Status, a.store.Auth.Reset)
			if view.Authenticated {
				fmt.Printf("Logged in as %s (%s)\n", view.User.Name, view.User.Role)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = a.store.Auth.Logout(cmd.Context())
			consume(a.store.Auth.Snapshot().Status, a.store.Auth.Reset)
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (a verification code follows by email)",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			_ = a.store.Auth.Register(cmd.Context(), ports.RegisterInput{
				Name:     name,
				Email:    email,
				Password: password,
			})
			consume(a.store.Auth.Snapshot().Status, a.store.Auth.Reset)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newVerifyOTPCmd(a *app) *cobra.Command {
	var email, otp string
	cmd := &cobra.Command{
		Use:   "verify-otp",
		Short: "Confirm the registration code and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = a.store.Auth.VerifyOTP(cmd.Context(), email, otp)
			view := a.store.Auth.Snapshot()
			consume(view.Status, a.store.Auth.Reset)
			if view.Authenticated {
				fmt.Printf("Logged in as %s\n", view.User.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&otp, "otp", "", "verification code")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("otp")
	return cmd
}

func newForgotPasswordCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = a.store.Auth.ForgotPassword(cmd.Context(), email)
			consume(a.store.Auth.Snapshot().Status, a.store.Auth.Reset)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCmd(a *app) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Redeem a reset token and set a new password",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("New password: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Confirm password: ")
			if err != nil {
				return err
			}
			_ = a.store.Auth.ResetPassword(cmd.Context(), token, ports.ResetPasswordInput{
				Password:        password,
				ConfirmPassword: confirm,
			})
			consume(a.store.Auth.Snapshot().Status, a.store.Auth.Reset)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "reset token from the email link")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newUpdatePasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update-password",
		Short: "Change the password of the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := promptPassword("Current password: ")
			if err != nil {
				return err
			}
			next, err := promptPassword("New password: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Confirm new password: ")
			if err != nil {
				return err
			}
			_ = a.store.Auth.UpdatePassword(cmd.Context(), ports.UpdatePasswordInput{
				CurrentPassword: current,
				NewPassword:     next,
				ConfirmPassword: confirm,
			})
			consume(a.store.Auth.Snapshot().Status, a.store.Auth.Reset)
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update name and email of the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = a.store.Auth.UpdateCredentials(cmd.Context(), ports.UpdateCredentialsInput{
				Name:  name,
				Email: email,
			})
			consume(a.store.Auth.Snapshot().Status, a.store.Auth.Reset)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newMeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = a.store.Auth.FetchCurrentUser(cmd.Context())
			view := a.store.Auth.Snapshot()
			consume(view.Status, a.store.Auth.Reset)
			if !view.Authenticated {
				return nil
			}
			u := view.User
			fmt.Printf("%s <%s>\n", u.Name, u.Email)
			fmt.Printf("  role: %s\n", u.Role)
			if u.FinesDue > 0 {
				fmt.Printf("  fines due: $%.2f\n", u.FinesDue)
			}
			return nil
		},
	}
}
