package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/finboard/finboard/internal/cli/formatter"
	"github.com/finboard/finboard/pkg/auth"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (username == "" || password == "") && a.IsInteractive() {
				if err := credentialsForm(&username, &password).Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
			}

			s, err := a.deps.AuthService.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			name := username
			if s.Profile != nil {
				name = s.Profile.DisplayName()
			}
			a.println(cmd, "Logged in as %s", formatter.Bold(name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")

	return cmd
}

// credentialsForm asks only for the values not given as flags.
func credentialsForm(username, password *string) *huh.Form {
	var fields []huh.Field
	if *username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(username).
			Validate(required("username")))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(required("password")))
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(false)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.deps.AuthService.Logout(cmd.Context()); err != nil {
				return err
			}
			a.println(cmd, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the profile of the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.deps.AuthService.Profile(cmd.Context())
			if err != nil {
				return err
			}
			kind := "person"
			if profile.IsCompany {
				kind = "company"
			}
			return a.print(cmd, formatter.Result{
				Header: []string{"Id", "Username", "Name", "Email", "Kind"},
				Rows:   [][]string{{profile.Id, profile.Username, profile.DisplayName(), profile.Email, kind}},
				Value:  auth.ProfileToDTO(profile),
			})
		},
	}
}
