package grpc

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/avatars"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
)

type fakeUsers struct {
	signInResp *services.TokenPair
	signInErr  error

	refreshResp *services.TokenPair
	refreshErr  error

	profile    *models.User
	profileErr error
	gotUpdate  services.ProfileUpdate

	deleteErr   error
	gotUserID   string
	gotPassword string

	upload *avatars.Upload
}

func (f *fakeUsers) SignIn(_ context.Context, email, password string) (*services.TokenPair, error) {
	f.gotPassword = password
	return f.signInResp, f.signInErr
}

func (f *fakeUsers) RefreshToken(context.Context, string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}

func (f *fakeUsers) Profile(_ context.Context, userID string) (*models.User, error) {
	f.gotUserID = userID
	return f.profile, f.profileErr
}

func (f *fakeUsers) UpdateProfile(_ context.Context, userID string, upd services.ProfileUpdate) (*models.User, error) {
	f.gotUserID = userID
	f.gotUpdate = upd
	return f.profile, f.profileErr
}

func (f *fakeUsers) DeleteAccount(_ context.Context, userID, password string) error {
	f.gotUserID = userID
	f.gotPassword = password
	return f.deleteErr
}

func (f *fakeUsers) AvatarUploadURL(_ context.Context, userID string) (*avatars.Upload, error) {
	f.gotUserID = userID
	return f.upload, nil
}

// fakeFacade keeps per-user data in memory and, like the real facade,
// refuses callers without a resolved identity.
type fakeFacade struct {
	categories []*models.Category
	todos      []*models.Todo
	err        error

	gotFilter  string
	gotIDs     []string
	gotOwner   string
	gotToggled bool
}

func (f *fakeFacade) owner(ctx context.Context) error {
	id, ok := auth.ContextResolver{}.CurrentUserID(ctx)
	if !ok {
		return common.ErrorUnauthorized
	}
	f.gotOwner = id
	return f.err
}

func (f *fakeFacade) Todos(ctx context.Context) ([]*models.Todo, error) {
	if err := f.owner(ctx); err != nil {
		return nil, err
	}
	return f.todos, nil
}

func (f *fakeFacade) TodosInCategory(ctx context.Context, identifier string) ([]*models.Todo, error) {
	if err := f.owner(ctx); err != nil {
		return nil, err
	}
	f.gotFilter = identifier
	return f.todos, nil
}

func (f *fakeFacade) Categories(ctx context.Context) ([]*models.Category, error) {
	if err := f.owner(ctx); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func (f *fakeFacade) Category(ctx context.Context, identifier string) (*models.Category, error) {
	if err := f.owner(ctx); err != nil {
		return nil, err
	}
	for _, c := range f.categories {
		if c.ID == identifier || c.Slug == identifier {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeFacade) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	if err := f.owner(ctx); err != nil {
		return nil, err
	}
	c := &models.Category{ID: "c-new", Name: name, Slug: slug}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeFacade) UpdateCategory(ctx context.Context, categoryID, name, slug string) (*models.Category, error) {
	if err := f.owner(ctx); err != nil {
		return nil, err
	}
	return &models.Category{ID: categoryID, Name: name, Slug: slug}, nil
}

func (f *fakeFacade) DeleteCategory(ctx context.Context, categoryID string) error {
	return f.owner(ctx)
}

func (f *fakeFacade) CreateTodo(ctx context.Context, title string, categoryIDs []string) (*models.Todo, error) {
	if err := f.owner(ctx); err != nil {
		return nil, err
	}
	f.gotIDs = categoryIDs
	return &models.Todo{ID: "t-new", Title: title}, nil
}

func (f *fakeFacade) UpdateTodo(ctx context.Context, todoID, title string, categoryIDs []string) (*models.Todo, error) {
	if err := f.owner(ctx); err != nil {
		return nil, err
	}
	f.gotIDs = categoryIDs
	return &models.Todo{ID: todoID, Title: title}, nil
}

func (f *fakeFacade) ToggleTodo(ctx context.Context, todoID string, completed bool) (*models.Todo, error) {
	if err := f.owner(ctx); err != nil {
		return nil, err
	}
	f.gotToggled = completed
	return &models.Todo{ID: todoID, Completed: completed}, nil
}

func (f *fakeFacade) DeleteTodo(ctx context.Context, todoID string) error {
	return f.owner(ctx)
}
