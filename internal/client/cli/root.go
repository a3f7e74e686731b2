package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/client/config"
	"github.com/dmitrijs2005/todokeeper/internal/client/session"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the todoctl command tree around a.
func NewRootCommand(a *App) *cobra.Command {
	var (
		configPath string
		addr       string
		tokenFile  string
		timeout    time.Duration
	)

	root := &cobra.Command{
		Use:           "todoctl",
		Short:         "Command-line client for the todokeeper server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.ServerEndpointAddr = addr
			}
			if flags.Changed("token-file") {
				cfg.TokenFile = tokenFile
			}
			if flags.Changed("timeout") {
				cfg.RequestTimeout = timeout
			}

			a.config = cfg
			a.store = session.NewStore(cfg.TokenFile)
			a.out = cmd.OutOrStdout()
			a.errOut = cmd.ErrOrStderr()
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to a JSON config file")
	pf.StringVarP(&addr, "addr", "a", "", "address and port of the todokeeper gRPC endpoint")
	pf.StringVar(&tokenFile, "token-file", "", "where the session tokens are stored")
	pf.DurationVarP(&timeout, "timeout", "t", 0, "request timeout")

	root.AddCommand(a.loginCmd(), a.logoutCmd(), a.whoamiCmd(), a.profileCmd(), a.accountCmd(),
		a.avatarCmd(), a.categoriesCmd(), a.todosCmd())
	return root
}

// Execute runs todoctl against the real terminal and exits non-zero on error.
func Execute(ctx context.Context) {
	root := NewRootCommand(NewApp(dialGRPC, os.Stdin))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
