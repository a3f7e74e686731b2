package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/spf13/cobra"
)

func (a *App) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View or change your profile",
	}

	var (
		name, email, image string
		changePassword     bool
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change name, email, image or password",
		Long: `Change name, email, image or password. Only the flags given are sent.
--password prompts for the current and the new password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd api.ProfileUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				upd.Name = &name
			}
			if flags.Changed("email") {
				upd.Email = &email
			}
			if flags.Changed("image") {
				upd.Image = &image
			}
			if changePassword {
				fmt.Fprintln(a.out, "Current password")
				current, err := getPassword(a.out)
				if err != nil {
					return err
				}
				defer common.WipeByteArray(current)

				fmt.Fprintln(a.out, "New password")
				next, err := getPassword(a.out)
				if err != nil {
					return err
				}
				defer common.WipeByteArray(next)

				upd.CurrentPassword, upd.NewPassword = string(current), string(next)
			}

			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				u, err := c.UpdateProfile(ctx, upd)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s <%s>\n", u.Name, u.Email)
				return nil
			})
		},
	}
	f := set.Flags()
	f.StringVar(&name, "name", "", "display name")
	f.StringVar(&email, "email", "", "email address")
	f.StringVar(&image, "image", "", "profile image URL; empty clears it")
	f.BoolVar(&changePassword, "password", false, "change the password")

	cmd.AddCommand(set)
	return cmd
}

func (a *App) accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your account",
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account with all its todos and categories",
		Long: `Delete your account with all its todos and categories. The password is
asked for as confirmation; accounts created through an external provider
accept an empty one. The saved session is cleared afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := getPassword(a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			err = a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				return c.DeleteAccount(ctx, password)
			})
			if err != nil {
				return err
			}
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Account deleted")
			return nil
		},
	}

	cmd.AddCommand(del)
	return cmd
}
