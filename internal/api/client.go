package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is a typed TodoKeeper client over any gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, req any, opts ...grpc.CallOption) (*Resp, error) {
	in, err := Encode(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	var resp Resp
	if err := Decode(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string, opts ...grpc.CallOption) (*Tokens, error) {
	return invoke[Tokens](ctx, c, MethodSignIn, Credentials{Email: email, Password: password}, opts...)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string, opts ...grpc.CallOption) (*Tokens, error) {
	return invoke[Tokens](ctx, c, MethodRefresh, RefreshRequest{RefreshToken: refreshToken}, opts...)
}

func (c *Client) Ping(ctx context.Context, opts ...grpc.CallOption) (*Status, error) {
	return invoke[Status](ctx, c, MethodPing, Empty{}, opts...)
}

func (c *Client) Profile(ctx context.Context, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c, MethodProfile, Empty{}, opts...)
}

func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c, MethodUpdateProfile, upd, opts...)
}

func (c *Client) DeleteAccount(ctx context.Context, password string, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c, MethodDeleteAccount, PasswordConfirmation{Password: password}, opts...)
	return err
}

func (c *Client) AvatarUploadURL(ctx context.Context, opts ...grpc.CallOption) (*AvatarUpload, error) {
	return invoke[AvatarUpload](ctx, c, MethodAvatarUploadURL, Empty{}, opts...)
}

func (c *Client) CreateCategory(ctx context.Context, name, slug string, opts ...grpc.CallOption) (*Category, error) {
	return invoke[Category](ctx, c, MethodCreateCategory, CategoryInput{Name: name, Slug: slug}, opts...)
}

func (c *Client) UpdateCategory(ctx context.Context, id, name, slug string, opts ...grpc.CallOption) (*Category, error) {
	return invoke[Category](ctx, c, MethodUpdateCategory, CategoryInput{ID: id, Name: name, Slug: slug}, opts...)
}

func (c *Client) DeleteCategory(ctx context.Context, id string, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c, MethodDeleteCategory, IDRequest{ID: id}, opts...)
	return err
}

func (c *Client) ListCategories(ctx context.Context, opts ...grpc.CallOption) ([]Category, error) {
	resp, err := invoke[CategoryList](ctx, c, MethodListCategories, Empty{}, opts...)
	if err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// GetCategory looks a category up by id or slug.
func (c *Client) GetCategory(ctx context.Context, identifier string, opts ...grpc.CallOption) (*Category, error) {
	return invoke[Category](ctx, c, MethodGetCategory, CategoryLookup{Identifier: identifier}, opts...)
}

func (c *Client) CreateTodo(ctx context.Context, title string, categoryIDs []string, opts ...grpc.CallOption) (*Todo, error) {
	return invoke[Todo](ctx, c, MethodCreateTodo, TodoInput{Title: title, CategoryIDs: categoryIDs}, opts...)
}

func (c *Client) UpdateTodo(ctx context.Context, id, title string, categoryIDs []string, opts ...grpc.CallOption) (*Todo, error) {
	return invoke[Todo](ctx, c, MethodUpdateTodo, TodoInput{ID: id, Title: title, CategoryIDs: categoryIDs}, opts...)
}

func (c *Client) ToggleTodo(ctx context.Context, id string, completed bool, opts ...grpc.CallOption) (*Todo, error) {
	return invoke[Todo](ctx, c, MethodToggleTodo, ToggleRequest{ID: id, Completed: completed}, opts...)
}

func (c *Client) DeleteTodo(ctx context.Context, id string, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c, MethodDeleteTodo, IDRequest{ID: id}, opts...)
	return err
}

// ListTodos lists todos, optionally only those in the category with the
// given id or slug.
func (c *Client) ListTodos(ctx context.Context, category string, opts ...grpc.CallOption) ([]Todo, error) {
	resp, err := invoke[TodoList](ctx, c, MethodListTodos, TodoFilter{Category: category}, opts...)
	if err != nil {
		return nil, err
	}
	return resp.Todos, nil
}
