package api

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Status struct {
	Status string `json:"status"`
}

type Empty struct{}

type IDRequest struct {
	ID string `json:"id"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	Name         string    `json:"name"`
	Image        string    `json:"image,omitempty"`
	Roles        []string  `json:"roles"`
	AuthProvider string    `json:"auth_provider,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProfileUpdate leaves fields that are absent untouched.
type ProfileUpdate struct {
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Image           *string `json:"image,omitempty"`
	CurrentPassword string  `json:"current_password,omitempty"`
	NewPassword     string  `json:"new_password,omitempty"`
}

type PasswordConfirmation struct {
	Password string `json:"password,omitempty"`
}

type AvatarUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	ObjectURL string    `json:"object_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CategoryInput struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryLookup struct {
	Identifier string `json:"identifier"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryList struct {
	Categories []Category `json:"categories"`
}

type TodoInput struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	CategoryIDs []string `json:"category_ids"`
}

type ToggleRequest struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

type TodoFilter struct {
	Category string `json:"category,omitempty"`
}

type Todo struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Completed  bool       `json:"completed"`
	CreatedAt  time.Time  `json:"created_at"`
	Categories []Category `json:"categories"`
}

type TodoList struct {
	Todos []Todo `json:"todos"`
}

// Encode converts a JSON-tagged payload into a Struct.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return out, nil
}

// Decode fills v from s. A nil s leaves v untouched.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		return nil
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
