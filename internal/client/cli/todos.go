package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/spf13/cobra"
)

func printTodo(w io.Writer, t api.Todo) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %s  (%s)", mark, t.Title, t.ID)
	for _, c := range t.Categories {
		line += " #" + c.Slug
	}
	fmt.Fprintln(w, line)
}

func (a *App) todosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "Manage todos",
	}

	var filter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List todos, open ones first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				todos, err := c.ListTodos(ctx, filter)
				if err != nil {
					return err
				}
				if len(todos) == 0 {
					fmt.Fprintln(a.out, "Nothing to do")
					return nil
				}
				for _, t := range todos {
					printTodo(a.out, t)
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&filter, "category", "", "only todos in this category (id or slug)")

	var categoryIDs []string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				t, err := c.CreateTodo(ctx, strings.Join(args, " "), categoryIDs)
				if err != nil {
					return err
				}
				printTodo(a.out, *t)
				return nil
			})
		},
	}
	add.Flags().StringSliceVar(&categoryIDs, "category", nil, "category id to attach (repeatable)")

	var editCategoryIDs []string
	edit := &cobra.Command{
		Use:   "edit <id> <title>",
		Short: "Change the title of a todo and replace its categories",
		Long: `Change the title of a todo and replace its categories. The todo ends up
in exactly the categories given with --category; without any it has none.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				t, err := c.UpdateTodo(ctx, args[0], strings.Join(args[1:], " "), editCategoryIDs)
				if err != nil {
					return err
				}
				printTodo(a.out, *t)
				return nil
			})
		},
	}
	edit.Flags().StringSliceVar(&editCategoryIDs, "category", nil, "category id to keep or attach (repeatable)")

	cmd.AddCommand(list, add, edit,
		a.toggleCmd("done", "Mark a todo completed", true),
		a.toggleCmd("undo", "Mark a todo open again", false),
		a.deleteTodoCmd())
	return cmd
}

func (a *App) toggleCmd(use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				t, err := c.ToggleTodo(ctx, args[0], completed)
				if err != nil {
					return err
				}
				printTodo(a.out, *t)
				return nil
			})
		},
	}
}

func (a *App) deleteTodoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.DeleteTodo(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Deleted")
				return nil
			})
		},
	}
}
