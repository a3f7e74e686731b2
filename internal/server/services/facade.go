package services

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// Facade is the entry point transports use for categories and todos. Each
// method resolves the caller first and fails with common.ErrorUnauthorized,
// before any storage access, when there is no verified user.
type Facade struct {
	identity   auth.Resolver
	categories *CategoryService
	todos      *TodoService
}

func NewFacade(identity auth.Resolver, cs *CategoryService, ts *TodoService) *Facade {
	return &Facade{identity: identity, categories: cs, todos: ts}
}

func (f *Facade) owner(ctx context.Context) (string, error) {
	id, ok := f.identity.CurrentUserID(ctx)
	if !ok {
		return "", common.ErrorUnauthorized
	}
	return id, nil
}

// Todos lists all todos of the caller.
func (f *Facade) Todos(ctx context.Context) ([]*models.Todo, error) {
	owner, err := f.owner(ctx)
	if err != nil {
		return nil, err
	}
	return f.todos.ListForOwner(ctx, owner, "")
}

// TodosInCategory lists the caller's todos linked to the category with the
// given id or slug.
func (f *Facade) TodosInCategory(ctx context.Context, identifier string) ([]*models.Todo, error) {
	owner, err := f.owner(ctx)
	if err != nil {
		return nil, err
	}
	if identifier == "" {
		return nil, common.NewValidationError("category", "category is required")
	}
	return f.todos.ListForOwner(ctx, owner, identifier)
}

func (f *Facade) Categories(ctx context.Context) ([]*models.Category, error) {
	owner, err := f.owner(ctx)
	if err != nil {
		return nil, err
	}
	return f.categories.ListForOwner(ctx, owner)
}

// Category returns nil when the caller has no category with that id or slug.
func (f *Facade) Category(ctx context.Context, identifier string) (*models.Category, error) {
	owner, err := f.owner(ctx)
	if err != nil {
		return nil, err
	}
	return f.categories.FindByIDOrSlug(ctx, identifier, owner)
}

func (f *Facade) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	owner, err := f.owner(ctx)
	if err != nil {
		return nil, err
	}
	return f.categories.Create(ctx, owner, name, slug)
}

func (f *Facade) UpdateCategory(ctx context.Context, categoryID, name, slug string) (*models.Category, error) {
	owner, err := f.owner(ctx)
	if err != nil {
		return nil, err
	}
	return f.categories.Update(ctx, categoryID, owner, name, slug)
}

func (f *Facade) DeleteCategory(ctx context.Context, categoryID string) error {
	owner, err := f.owner(ctx)
	if err != nil {
		return err
	}
	return f.categories.Delete(ctx, categoryID, owner)
}

func (f *Facade) CreateTodo(ctx context.Context, title string, categoryIDs []string) (*models.Todo, error) {
	owner, err := f.owner(ctx)
	if err != nil {
		return nil, err
	}
	return f.todos.Create(ctx, owner, title, categoryIDs)
}

func (f *Facade) UpdateTodo(ctx context.Context, todoID, title string, categoryIDs []string) (*models.Todo, error) {
	owner, err := f.owner(ctx)
	if err != nil {
		return nil, err
	}
	return f.todos.Update(ctx, todoID, owner, title, categoryIDs)
}

func (f *Facade) ToggleTodo(ctx context.Context, todoID string, completed bool) (*models.Todo, error) {
	owner, err := f.owner(ctx)
	if err != nil {
		return nil, err
	}
	return f.todos.ToggleCompletion(ctx, todoID, owner, completed)
}

func (f *Facade) DeleteTodo(ctx context.Context, todoID string) error {
	owner, err := f.owner(ctx)
	if err != nil {
		return err
	}
	return f.todos.Delete(ctx, todoID, owner)
}
