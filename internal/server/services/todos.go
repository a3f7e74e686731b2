package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const msgUnknownCategory = "unknown category"

// TodoService manages todos of one owner at a time. Supplied category ids
// must belong to the same owner.
type TodoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager) *TodoService {
	return &TodoService{db: db, repomanager: m}
}

func (s *TodoService) Create(ctx context.Context, ownerID, title string, categoryIDs []string) (*models.Todo, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	title, err := requireField("title", title)
	if err != nil {
		return nil, err
	}
	ids := uniqueIDs(categoryIDs)

	var out *models.Todo
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.verifyCategories(ctx, tx, ownerID, ids); err != nil {
			return err
		}

		repo := s.repomanager.Todos(tx)
		t := &models.Todo{ID: uuid.NewString(), Title: title, UserID: ownerID}
		if err := repo.Create(ctx, t); err != nil {
			return err
		}
		if err := repo.LinkCategories(ctx, t.ID, ids); err != nil {
			return err
		}

		out, err = repo.GetByID(ctx, t.ID, ownerID)
		return err
	})
	if err != nil {
		return nil, todoWriteError(err)
	}
	return out, nil
}

// Update replaces the title and the whole category set of the todo.
func (s *TodoService) Update(ctx context.Context, todoID, ownerID, title string, categoryIDs []string) (*models.Todo, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	title, err := requireField("title", title)
	if err != nil {
		return nil, err
	}
	if !isID(todoID) {
		return nil, common.ErrorNotFound
	}
	ids := uniqueIDs(categoryIDs)

	var out *models.Todo
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.verifyCategories(ctx, tx, ownerID, ids); err != nil {
			return err
		}

		repo := s.repomanager.Todos(tx)
		if err := repo.UpdateTitle(ctx, &models.Todo{ID: todoID, UserID: ownerID, Title: title}); err != nil {
			return err
		}
		if err := repo.UnlinkAllCategories(ctx, todoID); err != nil {
			return err
		}
		if err := repo.LinkCategories(ctx, todoID, ids); err != nil {
			return err
		}

		out, err = repo.GetByID(ctx, todoID, ownerID)
		return err
	})
	if err != nil {
		return nil, todoWriteError(err)
	}
	return out, nil
}

// ToggleCompletion stores completed as given; it does not flip the flag.
func (s *TodoService) ToggleCompletion(ctx context.Context, todoID, ownerID string, completed bool) (*models.Todo, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if !isID(todoID) {
		return nil, common.ErrorNotFound
	}

	repo := s.repomanager.Todos(s.db)
	if _, err := repo.SetCompleted(ctx, todoID, ownerID, completed); err != nil {
		return nil, storageError(err)
	}
	t, err := repo.GetByID(ctx, todoID, ownerID)
	if err != nil {
		return nil, storageError(err)
	}
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, todoID, ownerID string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if !isID(todoID) {
		return common.ErrorNotFound
	}
	if err := s.repomanager.Todos(s.db).Delete(ctx, todoID, ownerID); err != nil {
		return storageError(err)
	}
	return nil
}

// ListForOwner returns the owner's todos, pending first and newest first
// within each group. A non-empty categoryFilter is matched against category
// id or slug.
func (s *TodoService) ListForOwner(ctx context.Context, ownerID, categoryFilter string) ([]*models.Todo, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Todos(s.db).ListByUser(ctx, ownerID, categoryFilter)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *TodoService) verifyCategories(ctx context.Context, tx dbx.DBTX, ownerID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if !isID(id) {
			return common.NewValidationError("category_ids", msgUnknownCategory)
		}
	}
	n, err := s.repomanager.Categories(tx).CountOwned(ctx, ownerID, ids)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return common.NewValidationError("category_ids", msgUnknownCategory)
	}
	return nil
}

func todoWriteError(err error) error {
	// a linked category vanished between verification and insert
	if dbx.IsForeignKeyViolation(err) {
		return common.NewValidationError("category_ids", msgUnknownCategory)
	}
	return storageError(err)
}
