package client

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/api"
)

// Client is the subset of the TodoKeeper API the CLI works with.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	SignIn(ctx context.Context, email string, password []byte) (api.Tokens, error)
	Profile(ctx context.Context) (*api.User, error)
	UpdateProfile(ctx context.Context, upd api.ProfileUpdate) (*api.User, error)
	DeleteAccount(ctx context.Context, password []byte) error
	AvatarUploadURL(ctx context.Context) (*api.AvatarUpload, error)
	ListCategories(ctx context.Context) ([]api.Category, error)
	GetCategory(ctx context.Context, identifier string) (*api.Category, error)
	CreateCategory(ctx context.Context, name, slug string) (*api.Category, error)
	UpdateCategory(ctx context.Context, id, name, slug string) (*api.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListTodos(ctx context.Context, category string) ([]api.Todo, error)
	CreateTodo(ctx context.Context, title string, categoryIDs []string) (*api.Todo, error)
	UpdateTodo(ctx context.Context, id, title string, categoryIDs []string) (*api.Todo, error)
	ToggleTodo(ctx context.Context, id string, completed bool) (*api.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}
