package grpc

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func decode(in *structpb.Struct, v any) error {
	if err := api.Decode(in, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func (s *GRPCServer) encode(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := api.Encode(v)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return out, nil
}

func (s *GRPCServer) currentUser(ctx context.Context) (string, error) {
	id, ok := s.identity.CurrentUserID(ctx)
	if !ok {
		return "", s.toStatus(ctx, common.ErrorUnauthorized)
	}
	return id, nil
}

func (s *GRPCServer) SignIn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.Credentials
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	tokens, err := s.users.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.encode(ctx, toTokens(tokens))
}

func (s *GRPCServer) Refresh(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.RefreshRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.encode(ctx, toTokens(tokens))
}

func (s *GRPCServer) Ping(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.encode(ctx, api.Status{Status: "OK"})
}

func (s *GRPCServer) Profile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Profile(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, toUser(u))
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	var req api.ProfileUpdate
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	u, err := s.users.UpdateProfile(ctx, userID, services.ProfileUpdate{
		Name:            req.Name,
		Email:           req.Email,
		Image:           req.Image,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, toUser(u))
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	var req api.PasswordConfirmation
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	if err := s.users.DeleteAccount(ctx, userID, req.Password); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "account deleted", "user_id", userID)
	return s.encode(ctx, api.Empty{})
}

func (s *GRPCServer) AvatarUploadURL(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	up, err := s.users.AvatarUploadURL(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, api.AvatarUpload{
		Key:       up.Key,
		UploadURL: up.UploadURL,
		ObjectURL: up.ObjectURL,
		ExpiresAt: up.ExpiresAt,
	})
}

func (s *GRPCServer) CreateCategory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.CategoryInput
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	c, err := s.facade.CreateCategory(ctx, req.Name, req.Slug)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, toCategory(c))
}

func (s *GRPCServer) UpdateCategory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.CategoryInput
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	c, err := s.facade.UpdateCategory(ctx, req.ID, req.Name, req.Slug)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, toCategory(c))
}

func (s *GRPCServer) DeleteCategory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.IDRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	if err := s.facade.DeleteCategory(ctx, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, api.Empty{})
}

func (s *GRPCServer) ListCategories(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.facade.Categories(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := api.CategoryList{Categories: make([]api.Category, 0, len(list))}
	for _, c := range list {
		resp.Categories = append(resp.Categories, toCategory(c))
	}
	return s.encode(ctx, resp)
}

func (s *GRPCServer) GetCategory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.CategoryLookup
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	c, err := s.facade.Category(ctx, req.Identifier)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if c == nil {
		return nil, s.toStatus(ctx, common.ErrorNotFound)
	}
	return s.encode(ctx, toCategory(c))
}

func (s *GRPCServer) CreateTodo(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.TodoInput
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	t, err := s.facade.CreateTodo(ctx, req.Title, req.CategoryIDs)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, toTodo(t))
}

func (s *GRPCServer) UpdateTodo(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.TodoInput
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	t, err := s.facade.UpdateTodo(ctx, req.ID, req.Title, req.CategoryIDs)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, toTodo(t))
}

func (s *GRPCServer) ToggleTodo(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.ToggleRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	t, err := s.facade.ToggleTodo(ctx, req.ID, req.Completed)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, toTodo(t))
}

func (s *GRPCServer) DeleteTodo(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.IDRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	if err := s.facade.DeleteTodo(ctx, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, api.Empty{})
}

func (s *GRPCServer) ListTodos(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.TodoFilter
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	var (
		list []*models.Todo
		err  error
	)
	if req.Category == "" {
		list, err = s.facade.Todos(ctx)
	} else {
		list, err = s.facade.TodosInCategory(ctx, req.Category)
	}
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := api.TodoList{Todos: make([]api.Todo, 0, len(list))}
	for _, t := range list {
		resp.Todos = append(resp.Todos, toTodo(t))
	}
	return s.encode(ctx, resp)
}

func toTokens(p *services.TokenPair) api.Tokens {
	return api.Tokens{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

func toUser(u *models.User) api.User {
	return api.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Image:        u.Image,
		Roles:        u.Roles,
		AuthProvider: u.AuthProvider,
		CreatedAt:    u.CreatedAt,
	}
}

func toCategory(c *models.Category) api.Category {
	return api.Category{ID: c.ID, Name: c.Name, Slug: c.Slug, CreatedAt: c.CreatedAt}
}

func toTodo(t *models.Todo) api.Todo {
	out := api.Todo{
		ID:         t.ID,
		Title:      t.Title,
		Completed:  t.Completed,
		CreatedAt:  t.CreatedAt,
		Categories: make([]api.Category, 0, len(t.Categories)),
	}
	for _, c := range t.Categories {
		out.Categories = append(out.Categories, toCategory(c))
	}
	return out
}
