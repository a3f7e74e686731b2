package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	msgDuplicateSlug = "a category with this slug already exists"
	msgHasTodos      = "category has dependent todos"
)

// CategoryService manages categories of one owner at a time. Every check
// and its write run in one transaction, with the (user_id, slug) unique
// constraint as the final arbiter.
type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager) *CategoryService {
	return &CategoryService{db: db, repomanager: m}
}

func (s *CategoryService) Create(ctx context.Context, ownerID, name, slug string) (*models.Category, error) {
	c, err := newCategoryInput(ownerID, name, slug)
	if err != nil {
		return nil, err
	}
	c.ID = uuid.NewString()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Categories(tx)

		taken, err := repo.SlugTaken(ctx, c.UserID, c.Slug, "")
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError(common.ConflictDuplicate, msgDuplicateSlug)
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		return nil, categoryWriteError(err)
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, categoryID, ownerID, name, slug string) (*models.Category, error) {
	c, err := newCategoryInput(ownerID, name, slug)
	if err != nil {
		return nil, err
	}
	if !isID(categoryID) {
		return nil, common.ErrorNotFound
	}
	c.ID = categoryID

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Categories(tx)

		taken, err := repo.SlugTaken(ctx, c.UserID, c.Slug, c.ID)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError(common.ConflictDuplicate, msgDuplicateSlug)
		}
		return repo.Update(ctx, c)
	})
	if err != nil {
		return nil, categoryWriteError(err)
	}
	return c, nil
}

// Delete removes the category unless one of the owner's todos still links it.
func (s *CategoryService) Delete(ctx context.Context, categoryID, ownerID string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if !isID(categoryID) {
		return common.ErrorNotFound
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Todos(tx).CountByCategory(ctx, ownerID, categoryID)
		if err != nil {
			return err
		}
		if n > 0 {
			return common.NewConflictError(common.ConflictDependents, msgHasTodos)
		}
		return s.repomanager.Categories(tx).Delete(ctx, categoryID, ownerID)
	})
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return common.NewConflictError(common.ConflictDependents, msgHasTodos)
		}
		return storageError(err)
	}
	return nil
}

func (s *CategoryService) ListForOwner(ctx context.Context, ownerID string) ([]*models.Category, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Categories(s.db).ListByUser(ctx, ownerID)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

// FindByIDOrSlug returns the owner's first category whose id or slug equals
// identifier, or nil when there is none.
func (s *CategoryService) FindByIDOrSlug(ctx context.Context, identifier, ownerID string) (*models.Category, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if identifier == "" {
		return nil, nil
	}
	c, err := s.repomanager.Categories(s.db).FindByIDOrSlug(ctx, identifier, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, storageError(err)
	}
	return c, nil
}

func newCategoryInput(ownerID, name, slug string) (*models.Category, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	name, err := requireField("name", name)
	if err != nil {
		return nil, err
	}
	slug, err = requireField("slug", slug)
	if err != nil {
		return nil, err
	}
	return &models.Category{Name: name, Slug: slug, UserID: ownerID}, nil
}

func categoryWriteError(err error) error {
	if dbx.IsUniqueViolation(err) {
		return common.NewConflictError(common.ConflictDuplicate, msgDuplicateSlug)
	}
	return storageError(err)
}
