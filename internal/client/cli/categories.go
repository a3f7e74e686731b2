package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/spf13/cobra"
)

func (a *App) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your categories by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				cats, err := c.ListCategories(ctx)
				if err != nil {
					return err
				}
				if len(cats) == 0 {
					fmt.Fprintln(a.out, "No categories")
					return nil
				}
				w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSLUG\tNAME")
				for _, cat := range cats {
					fmt.Fprintf(w, "%s\t%s\t%s\n", cat.ID, cat.Slug, cat.Name)
				}
				return w.Flush()
			})
		},
	}

	add := &cobra.Command{
		Use:   "add <name> <slug>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				cat, err := c.CreateCategory(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Created category %s (%s)\n", cat.Slug, cat.ID)
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id-or-slug>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				cat, err := c.GetCategory(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s\t%s\t%s\n", cat.ID, cat.Slug, cat.Name)
				return nil
			})
		},
	}

	edit := &cobra.Command{
		Use:   "edit <id> <name> <slug>",
		Short: "Rename a category or change its slug",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				cat, err := c.UpdateCategory(ctx, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Updated category %s (%s)\n", cat.Slug, cat.ID)
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a category that no todo uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.DeleteCategory(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Deleted")
				return nil
			})
		},
	}

	cmd.AddCommand(list, show, add, edit, rm)
	return cmd
}
