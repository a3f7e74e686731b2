// Package session keeps the signed-in token pair on disk between todoctl
// invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/todokeeper/internal/api"
)

var ErrNotLoggedIn = errors.New("not logged in, run 'todoctl login' first")

// Store reads and writes a token pair as JSON at a fixed path. The file is
// created with 0600 permissions.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the saved tokens, or ErrNotLoggedIn when there are none.
func (s *Store) Load() (api.Tokens, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return api.Tokens{}, ErrNotLoggedIn
	}
	if err != nil {
		return api.Tokens{}, fmt.Errorf("read session: %w", err)
	}

	var t api.Tokens
	if err := json.Unmarshal(data, &t); err != nil {
		return api.Tokens{}, fmt.Errorf("parse session %s: %w", s.path, err)
	}
	if t.AccessToken == "" {
		return api.Tokens{}, ErrNotLoggedIn
	}
	return t, nil
}

func (s *Store) Save(t api.Tokens) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the saved tokens. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
