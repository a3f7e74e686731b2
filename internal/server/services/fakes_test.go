package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/categories"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// newTxDB returns a sqlmock database that accepts any number (up to 64) of
// transactions in any order. Repositories are faked, so only Begin, Commit
// and Rollback ever reach it.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 64; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// memStore is an in-memory stand-in for the PostgreSQL schema. calls
// counts every repository call so tests can assert that none happened.
type memStore struct {
	mu    sync.Mutex
	calls int
	clock time.Time

	users      map[string]*models.User
	tokens     map[string]*models.RefreshToken
	categories map[string]*models.Category
	todos      map[string]*models.Todo
	links      map[string]map[string]struct{} // todo id -> category ids

	// skipSlugCheck makes SlugTaken always answer false so the unique
	// constraint has to catch duplicates.
	skipSlugCheck bool
	failWith      error
}

func newMemStore() *memStore {
	return &memStore{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:      map[string]*models.User{},
		tokens:     map[string]*models.RefreshToken{},
		categories: map[string]*models.Category{},
		todos:      map[string]*models.Todo{},
		links:      map[string]map[string]struct{}{},
	}
}

func (m *memStore) enter() error {
	m.mu.Lock()
	m.calls++
	return m.failWith
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var (
	uniqueViolation = &pgconn.PgError{Code: "23505"}
	fkViolation     = &pgconn.PgError{Code: "23503"}
)

// ---- repository manager ----

type fakeRepoManager struct{ s *memStore }

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (f *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return (*memUsers)(f.s) }
func (f *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return (*memTokens)(f.s) }
func (f *fakeRepoManager) Categories(dbx.DBTX) categories.Repository       { return (*memCategories)(f.s) }
func (f *fakeRepoManager) Todos(dbx.DBTX) todos.Repository                 { return (*memTodos)(f.s) }

// ---- users ----

type memUsers memStore

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	for _, other := range s.users {
		if u.Email != "" && other.Email == u.Email {
			return nil, uniqueViolation
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = s.tick()
	s.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) Update(_ context.Context, u *models.User) error {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return common.ErrorNotFound
	}
	for id, other := range s.users {
		if id != u.ID && u.Email != "" && other.Email == u.Email {
			return uniqueViolation
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (r *memUsers) Delete(_ context.Context, id string) error {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(s.users, id)
	for k, t := range s.tokens {
		if t.UserID == id {
			delete(s.tokens, k)
		}
	}
	for k, t := range s.todos {
		if t.UserID == id {
			delete(s.todos, k)
			delete(s.links, k)
		}
	}
	for k, c := range s.categories {
		if c.UserID == id {
			delete(s.categories, k)
		}
	}
	return nil
}

// ---- refresh tokens ----

type memTokens memStore

func (r *memTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	s.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r *memTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTokens) Delete(_ context.Context, token string) error {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok {
		return common.ErrorNotFound
	}
	delete(s.tokens, token)
	return nil
}

// ---- categories ----

type memCategories memStore

func (r *memCategories) Create(_ context.Context, c *models.Category) error {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	for _, other := range s.categories {
		if other.UserID == c.UserID && other.Slug == c.Slug {
			return uniqueViolation
		}
	}
	c.CreatedAt = s.tick()
	cp := *c
	s.categories[c.ID] = &cp
	return nil
}

func (r *memCategories) Update(_ context.Context, c *models.Category) error {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	cur, ok := s.categories[c.ID]
	if !ok || cur.UserID != c.UserID {
		return common.ErrorNotFound
	}
	for id, other := range s.categories {
		if id != c.ID && other.UserID == c.UserID && other.Slug == c.Slug {
			return uniqueViolation
		}
	}
	cur.Name, cur.Slug = c.Name, c.Slug
	c.CreatedAt = cur.CreatedAt
	return nil
}

func (r *memCategories) Delete(_ context.Context, id, userID string) error {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	cur, ok := s.categories[id]
	if !ok || cur.UserID != userID {
		return common.ErrorNotFound
	}
	for _, set := range s.links {
		if _, linked := set[id]; linked {
			return fkViolation
		}
	}
	delete(s.categories, id)
	return nil
}

func (r *memCategories) ListByUser(_ context.Context, userID string) ([]*models.Category, error) {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	return s.ownedCategories(userID, nil), nil
}

func (r *memCategories) FindByIDOrSlug(_ context.Context, identifier, userID string) (*models.Category, error) {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	var found *models.Category
	for _, c := range s.categories {
		if c.UserID == userID && (c.ID == identifier || c.Slug == identifier) {
			if found == nil || c.CreatedAt.Before(found.CreatedAt) {
				found = c
			}
		}
	}
	if found == nil {
		return nil, common.ErrorNotFound
	}
	cp := *found
	return &cp, nil
}

func (r *memCategories) SlugTaken(_ context.Context, userID, slug, excludeID string) (bool, error) {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return false, err
	}
	defer s.mu.Unlock()
	if s.skipSlugCheck {
		return false, nil
	}
	for id, c := range s.categories {
		if c.UserID == userID && c.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCategories) CountOwned(_ context.Context, userID string, ids []string) (int, error) {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return 0, err
	}
	defer s.mu.Unlock()
	n := 0
	for _, id := range ids {
		if c, ok := s.categories[id]; ok && c.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ownedCategories returns userID's categories, restricted to only when it
// is not nil, ordered by name. Caller holds s.mu.
func (s *memStore) ownedCategories(userID string, only map[string]struct{}) []*models.Category {
	out := make([]*models.Category, 0)
	for id, c := range s.categories {
		if c.UserID != userID {
			continue
		}
		if only != nil {
			if _, ok := only[id]; !ok {
				continue
			}
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ---- todos ----

type memTodos memStore

func (r *memTodos) Create(_ context.Context, t *models.Todo) error {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	t.CreatedAt = s.tick()
	t.Completed = false
	cp := *t
	s.todos[t.ID] = &cp
	return nil
}

func (r *memTodos) UpdateTitle(_ context.Context, t *models.Todo) error {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	cur, ok := s.todos[t.ID]
	if !ok || cur.UserID != t.UserID {
		return common.ErrorNotFound
	}
	cur.Title = t.Title
	t.Completed, t.CreatedAt = cur.Completed, cur.CreatedAt
	return nil
}

func (r *memTodos) SetCompleted(_ context.Context, id, userID string, completed bool) (*models.Todo, error) {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	cur, ok := s.todos[id]
	if !ok || cur.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cur.Completed = completed
	cp := *cur
	return &cp, nil
}

func (r *memTodos) Delete(_ context.Context, id, userID string) error {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	cur, ok := s.todos[id]
	if !ok || cur.UserID != userID {
		return common.ErrorNotFound
	}
	delete(s.todos, id)
	delete(s.links, id)
	return nil
}

func (r *memTodos) LinkCategories(_ context.Context, todoID string, ids []string) error {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.categories[id]; !ok {
			return fkViolation
		}
	}
	set, ok := s.links[todoID]
	if !ok {
		set = map[string]struct{}{}
		s.links[todoID] = set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return nil
}

func (r *memTodos) UnlinkAllCategories(_ context.Context, todoID string) error {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	delete(s.links, todoID)
	return nil
}

func (r *memTodos) CountByCategory(_ context.Context, userID, categoryID string) (int, error) {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return 0, err
	}
	defer s.mu.Unlock()
	n := 0
	for todoID, set := range s.links {
		if t, ok := s.todos[todoID]; ok && t.UserID == userID {
			if _, linked := set[categoryID]; linked {
				n++
			}
		}
	}
	return n, nil
}

func (r *memTodos) GetByID(_ context.Context, id, userID string) (*models.Todo, error) {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return s.withCategories(t), nil
}

func (r *memTodos) ListByUser(_ context.Context, userID, filter string) ([]*models.Todo, error) {
	s := (*memStore)(r)
	if err := s.enter(); err != nil {
		defer s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	out := make([]*models.Todo, 0)
	for _, t := range s.todos {
		if t.UserID != userID {
			continue
		}
		full := s.withCategories(t)
		if filter != "" && !hasCategory(full, filter) {
			continue
		}
		out = append(out, full)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func hasCategory(t *models.Todo, identifier string) bool {
	for _, c := range t.Categories {
		if c.ID == identifier || c.Slug == identifier {
			return true
		}
	}
	return false
}

// withCategories copies t and attaches its linked categories. Caller holds s.mu.
func (s *memStore) withCategories(t *models.Todo) *models.Todo {
	cp := *t
	only := s.links[t.ID]
	if only == nil {
		only = map[string]struct{}{}
	}
	cp.Categories = s.ownedCategories(t.UserID, only)
	return &cp
}
