package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// apiClient is satisfied by *api.Client; tests substitute a fake.
type apiClient interface {
	SignIn(ctx context.Context, email, password string, opts ...grpc.CallOption) (*api.Tokens, error)
	Refresh(ctx context.Context, refreshToken string, opts ...grpc.CallOption) (*api.Tokens, error)
	Ping(ctx context.Context, opts ...grpc.CallOption) (*api.Status, error)
	Profile(ctx context.Context, opts ...grpc.CallOption) (*api.User, error)
	UpdateProfile(ctx context.Context, upd api.ProfileUpdate, opts ...grpc.CallOption) (*api.User, error)
	DeleteAccount(ctx context.Context, password string, opts ...grpc.CallOption) error
	AvatarUploadURL(ctx context.Context, opts ...grpc.CallOption) (*api.AvatarUpload, error)
	ListCategories(ctx context.Context, opts ...grpc.CallOption) ([]api.Category, error)
	GetCategory(ctx context.Context, identifier string, opts ...grpc.CallOption) (*api.Category, error)
	CreateCategory(ctx context.Context, name, slug string, opts ...grpc.CallOption) (*api.Category, error)
	UpdateCategory(ctx context.Context, id, name, slug string, opts ...grpc.CallOption) (*api.Category, error)
	DeleteCategory(ctx context.Context, id string, opts ...grpc.CallOption) error
	ListTodos(ctx context.Context, category string, opts ...grpc.CallOption) ([]api.Todo, error)
	CreateTodo(ctx context.Context, title string, categoryIDs []string, opts ...grpc.CallOption) (*api.Todo, error)
	UpdateTodo(ctx context.Context, id, title string, categoryIDs []string, opts ...grpc.CallOption) (*api.Todo, error)
	ToggleTodo(ctx context.Context, id string, completed bool, opts ...grpc.CallOption) (*api.Todo, error)
	DeleteTodo(ctx context.Context, id string, opts ...grpc.CallOption) error
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      apiClient

	mu     sync.Mutex
	tokens api.Tokens
	sink   func(api.Tokens)
}

type Option func(*GRPCClient)

// WithTokens seeds the client with a previously saved token pair.
func WithTokens(t api.Tokens) Option {
	return func(c *GRPCClient) { c.tokens = t }
}

// WithTokenSink registers fn to receive every new token pair.
func WithTokenSink(fn func(api.Tokens)) Option {
	return func(c *GRPCClient) { c.sink = fn }
}

func NewGRPCClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	for _, o := range opts {
		o(c)
	}

	conn, err := grpc.NewClient(endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor))
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewClient(conn)
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) currentTokens() api.Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

func (c *GRPCClient) setTokens(t api.Tokens) {
	c.mu.Lock()
	c.tokens = t
	sink := c.sink
	c.mu.Unlock()

	if sink != nil {
		sink(t)
	}
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	tokens := c.currentTokens()
	err := invoker(withAccessToken(ctx, tokens.AccessToken), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if tokens.RefreshToken == "" || method == api.FullMethod(api.MethodRefresh) {
		return err
	}

	fresh, rerr := c.client.Refresh(ctx, tokens.RefreshToken)
	if rerr != nil {
		return rerr
	}
	c.setTokens(*fresh)

	return invoker(withAccessToken(ctx, fresh.AccessToken), method, req, reply, cc, opts...)
}

func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument, codes.AlreadyExists, codes.FailedPrecondition, codes.ResourceExhausted:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.client.Ping(ctx)
	if err != nil {
		return c.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// SignIn exchanges credentials for a token pair and keeps it for
// subsequent calls.
func (c *GRPCClient) SignIn(ctx context.Context, email string, password []byte) (api.Tokens, error) {
	resp, err := c.client.SignIn(ctx, email, string(password))
	if err != nil {
		return api.Tokens{}, c.mapError(err)
	}
	c.setTokens(*resp)
	return *resp, nil
}

func (c *GRPCClient) Profile(ctx context.Context) (*api.User, error) {
	u, err := c.client.Profile(ctx)
	return u, c.mapError(err)
}

func (c *GRPCClient) UpdateProfile(ctx context.Context, upd api.ProfileUpdate) (*api.User, error) {
	u, err := c.client.UpdateProfile(ctx, upd)
	return u, c.mapError(err)
}

// DeleteAccount removes the account and everything it owns. The saved
// tokens are dropped on success.
func (c *GRPCClient) DeleteAccount(ctx context.Context, password []byte) error {
	if err := c.client.DeleteAccount(ctx, string(password)); err != nil {
		return c.mapError(err)
	}
	c.mu.Lock()
	c.tokens = api.Tokens{}
	c.mu.Unlock()
	return nil
}

func (c *GRPCClient) AvatarUploadURL(ctx context.Context) (*api.AvatarUpload, error) {
	up, err := c.client.AvatarUploadURL(ctx)
	return up, c.mapError(err)
}

func (c *GRPCClient) ListCategories(ctx context.Context) ([]api.Category, error) {
	list, err := c.client.ListCategories(ctx)
	return list, c.mapError(err)
}

func (c *GRPCClient) GetCategory(ctx context.Context, identifier string) (*api.Category, error) {
	cat, err := c.client.GetCategory(ctx, identifier)
	return cat, c.mapError(err)
}

func (c *GRPCClient) CreateCategory(ctx context.Context, name, slug string) (*api.Category, error) {
	cat, err := c.client.CreateCategory(ctx, name, slug)
	return cat, c.mapError(err)
}

func (c *GRPCClient) UpdateCategory(ctx context.Context, id, name, slug string) (*api.Category, error) {
	cat, err := c.client.UpdateCategory(ctx, id, name, slug)
	return cat, c.mapError(err)
}

func (c *GRPCClient) DeleteCategory(ctx context.Context, id string) error {
	return c.mapError(c.client.DeleteCategory(ctx, id))
}

func (c *GRPCClient) ListTodos(ctx context.Context, category string) ([]api.Todo, error) {
	list, err := c.client.ListTodos(ctx, category)
	return list, c.mapError(err)
}

func (c *GRPCClient) CreateTodo(ctx context.Context, title string, categoryIDs []string) (*api.Todo, error) {
	t, err := c.client.CreateTodo(ctx, title, categoryIDs)
	return t, c.mapError(err)
}

// UpdateTodo replaces the title and the whole category set of a todo.
func (c *GRPCClient) UpdateTodo(ctx context.Context, id, title string, categoryIDs []string) (*api.Todo, error) {
	t, err := c.client.UpdateTodo(ctx, id, title, categoryIDs)
	return t, c.mapError(err)
}

func (c *GRPCClient) ToggleTodo(ctx context.Context, id string, completed bool) (*api.Todo, error) {
	t, err := c.client.ToggleTodo(ctx, id, completed)
	return t, c.mapError(err)
}

func (c *GRPCClient) DeleteTodo(ctx context.Context, id string) error {
	return c.mapError(c.client.DeleteTodo(ctx, id))
}
