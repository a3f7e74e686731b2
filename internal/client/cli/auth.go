package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/spf13/cobra"
)

func (a *App) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in with email and password",
		Long: `Sign in with email and password. An unknown email is registered on
first sign-in. The session is saved to the token file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var email string
			if len(args) == 1 {
				email = args[0]
			} else {
				var err error
				if email, err = getSimpleText(a.in, "Enter email", a.out); err != nil {
					return err
				}
			}

			password, err := getPassword(a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			c, err := a.connect(false)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.config.RequestTimeout)
			defer cancel()

			tokens, err := c.SignIn(ctx, email, password)
			if err != nil {
				return explain(err)
			}
			if err := a.store.Save(tokens); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Signed in as %s\n", email)
			return nil
		},
	}
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

func (a *App) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				u, err := c.Profile(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s <%s>\n", u.Name, u.Email)
				return nil
			})
		},
	}
}
