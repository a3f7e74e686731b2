package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/client/config"
	"github.com/dmitrijs2005/todokeeper/internal/client/session"
	"github.com/spf13/cobra"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Dialer opens a client to the server at addr.
type Dialer func(addr string, opts ...client.Option) (client.Client, error)

func dialGRPC(addr string, opts ...client.Option) (client.Client, error) {
	return client.NewGRPCClient(addr, opts...)
}

// App carries what every command needs: the resolved config, the session
// store and a way to reach the server.
type App struct {
	config *config.Config
	store  *session.Store
	dial   Dialer
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func NewApp(dial Dialer, in io.Reader) *App {
	return &App{dial: dial, in: bufio.NewReader(in), out: os.Stdout, errOut: os.Stderr}
}

// connect dials the server. With authenticated set it attaches the saved
// session and persists any tokens rotated during the call.
func (a *App) connect(authenticated bool) (client.Client, error) {
	var opts []client.Option
	if authenticated {
		tokens, err := a.store.Load()
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			client.WithTokens(tokens),
			client.WithTokenSink(func(t api.Tokens) {
				if err := a.store.Save(t); err != nil {
					fmt.Fprintf(a.errOut, "warning: %v\n", err)
				}
			}))
	}
	return a.dial(a.config.ServerEndpointAddr, opts...)
}

// withClient runs fn against an authenticated client under the configured
// request timeout.
func (a *App) withClient(cmd *cobra.Command, fn func(ctx context.Context, c client.Client) error) error {
	c, err := a.connect(true)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), a.config.RequestTimeout)
	defer cancel()

	return explain(fn(ctx, c))
}

func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("%w, run 'todoctl login' again", err)
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Errorf("%w, check --addr", err)
	default:
		return err
	}
}
