package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/categories"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Todo) error {
	query := `
		INSERT INTO todos (id, title, user_id)
		VALUES ($1, $2, $3)
		RETURNING completed, created_at
	`
	if err := r.db.QueryRowContext(ctx, query, t.ID, t.Title, t.UserID).Scan(&t.Completed, &t.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateTitle(ctx context.Context, t *models.Todo) error {
	query := `
		UPDATE todos SET title = $3
		WHERE id = $1 AND user_id = $2
		RETURNING completed, created_at
	`
	err := r.db.QueryRowContext(ctx, query, t.ID, t.UserID, t.Title).Scan(&t.Completed, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetCompleted(ctx context.Context, id, userID string, completed bool) (*models.Todo, error) {
	query := `
		UPDATE todos SET completed = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, title, completed, user_id, created_at
	`
	var t models.Todo
	err := r.db.QueryRowContext(ctx, query, id, userID, completed).
		Scan(&t.ID, &t.Title, &t.Completed, &t.UserID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) LinkCategories(ctx context.Context, todoID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	insert := psql.Insert("todo_categories").Columns("todo_id", "category_id")
	for _, id := range categoryIDs {
		insert = insert.Values(todoID, id)
	}
	query, args, err := insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UnlinkAllCategories(ctx context.Context, todoID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM todo_categories WHERE todo_id = $1`, todoID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CountByCategory(ctx context.Context, userID, categoryID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM todos t
		JOIN todo_categories tc ON tc.todo_id = t.id
		WHERE t.user_id = $1 AND tc.category_id = $2
	`
	var n int
	if err := r.db.QueryRowContext(ctx, query, userID, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID string) (*models.Todo, error) {
	result, err := r.selectTodos(ctx, userID, todoSelect(userID).Where(sq.Eq{"t.id": id}))
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, common.ErrorNotFound
	}
	return result[0], nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID, categoryFilter string) ([]*models.Todo, error) {
	builder := todoSelect(userID)
	if categoryFilter != "" {
		linked := sq.Select("1").
			From("todo_categories tc").
			Join("categories c ON c.id = tc.category_id").
			Where("tc.todo_id = t.id").
			Where(categories.MatchIDOrSlug("c.id", "c.slug", categoryFilter))
		builder = builder.Where(sq.Expr("EXISTS(?)", linked))
	}
	return r.selectTodos(ctx, userID, builder.OrderBy("t.completed ASC", "t.created_at DESC"))
}

func todoSelect(userID string) sq.SelectBuilder {
	return psql.Select("t.id", "t.title", "t.completed", "t.user_id", "t.created_at").
		From("todos t").
		Where(sq.Eq{"t.user_id": userID})
}

// selectTodos runs builder and attaches the categories of every returned
// todo with one extra query.
func (r *PostgresRepository) selectTodos(ctx context.Context, userID string, builder sq.SelectBuilder) ([]*models.Todo, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select todos: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Todo, 0)
	byID := make(map[string]*models.Todo)
	ids := make([]string, 0)
	for rows.Next() {
		t := &models.Todo{Categories: make([]*models.Category, 0)}
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.UserID, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return result, nil
	}
	if err := r.attachCategories(ctx, userID, ids, byID); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) attachCategories(ctx context.Context, userID string, todoIDs []string, byID map[string]*models.Todo) error {
	query, args, err := psql.Select("tc.todo_id", "c.id", "c.name", "c.slug", "c.user_id", "c.created_at").
		From("todo_categories tc").
		Join("categories c ON c.id = tc.category_id").
		Where(sq.Eq{"c.user_id": userID}).
		Where(sq.Eq{"tc.todo_id": todoIDs}).
		OrderBy("c.name ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to select todo categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			todoID string
			c      models.Category
		)
		if err := rows.Scan(&todoID, &c.ID, &c.Name, &c.Slug, &c.UserID, &c.CreatedAt); err != nil {
			return err
		}
		if t, ok := byID[todoID]; ok {
			t.Categories = append(t.Categories, &c)
		}
	}
	return rows.Err()
}
