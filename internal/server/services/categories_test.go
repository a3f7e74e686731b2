package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryService(t *testing.T) (*memStore, *CategoryService, *TodoService) {
	t.Helper()
	store := newMemStore()
	db := newTxDB(t)
	rm := &fakeRepoManager{s: store}
	return store, NewCategoryService(db, rm), NewTodoService(db, rm)
}

func requireConflict(t *testing.T, err error, kind common.ConflictKind) {
	t.Helper()
	var ce *common.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, kind, ce.Kind)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, field, ve.Field)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCategoryCreate_SameSlugDifferentOwners(t *testing.T) {
	_, cs, _ := newCategoryService(t)
	ctx := context.Background()

	a, err := cs.Create(ctx, "user-a", "Work", "work")
	require.NoError(t, err)
	b, err := cs.Create(ctx, "user-b", "Work", "work")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "user-b", b.UserID)
	assert.False(t, b.CreatedAt.IsZero())
}

func TestCategoryCreate_DuplicateSlugForOwner(t *testing.T) {
	_, cs, _ := newCategoryService(t)
	ctx := context.Background()

	_, err := cs.Create(ctx, "u1", "Work", "work")
	require.NoError(t, err)

	_, err = cs.Create(ctx, "u1", "Job", "work")
	requireConflict(t, err, common.ConflictDuplicate)

	// slugs compare exactly
	_, err = cs.Create(ctx, "u1", "Work", "Work")
	require.NoError(t, err)
}

func TestCategoryCreate_UniqueConstraintBackstop(t *testing.T) {
	store, cs, _ := newCategoryService(t)
	store.skipSlugCheck = true
	ctx := context.Background()

	_, err := cs.Create(ctx, "u1", "Work", "work")
	require.NoError(t, err)

	_, err = cs.Create(ctx, "u1", "Work again", "work")
	requireConflict(t, err, common.ConflictDuplicate)

	list, err := cs.ListForOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCategoryCreate_Validation(t *testing.T) {
	store, cs, _ := newCategoryService(t)
	ctx := context.Background()

	_, err := cs.Create(ctx, "u1", "", "work")
	requireValidation(t, err, "name")

	_, err = cs.Create(ctx, "u1", "Work", "   ")
	requireValidation(t, err, "slug")

	_, err = cs.Create(ctx, "", "Work", "work")
	requireValidation(t, err, "user_id")

	assert.Zero(t, store.Calls())
}

func TestCategoryCreate_TrimsInput(t *testing.T) {
	_, cs, _ := newCategoryService(t)

	c, err := cs.Create(context.Background(), "u1", "  Work ", " work ")
	require.NoError(t, err)
	assert.Equal(t, "Work", c.Name)
	assert.Equal(t, "work", c.Slug)
}

func TestCategoryUpdate(t *testing.T) {
	_, cs, _ := newCategoryService(t)
	ctx := context.Background()

	work, err := cs.Create(ctx, "u1", "Work", "work")
	require.NoError(t, err)
	_, err = cs.Create(ctx, "u1", "Home", "home")
	require.NoError(t, err)

	// keeping its own slug is not a conflict
	got, err := cs.Update(ctx, work.ID, "u1", "Office", "work")
	require.NoError(t, err)
	assert.Equal(t, "Office", got.Name)
	assert.Equal(t, work.CreatedAt, got.CreatedAt)

	_, err = cs.Update(ctx, work.ID, "u1", "Office", "home")
	requireConflict(t, err, common.ConflictDuplicate)

	_, err = cs.Update(ctx, work.ID, "u1", "", "work")
	requireValidation(t, err, "name")
}

func TestCategoryUpdate_OtherOwnerIsNotFound(t *testing.T) {
	_, cs, _ := newCategoryService(t)
	ctx := context.Background()

	work, err := cs.Create(ctx, "u1", "Work", "work")
	require.NoError(t, err)

	_, err = cs.Update(ctx, work.ID, "u2", "Mine", "mine")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = cs.Update(ctx, uuid.NewString(), "u1", "Mine", "mine")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = cs.Update(ctx, "not-a-uuid", "u1", "Mine", "mine")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	found, err := cs.FindByIDOrSlug(ctx, "work", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Work", found.Name)
}

func TestCategoryDelete_Guard(t *testing.T) {
	_, cs, ts := newCategoryService(t)
	ctx := context.Background()

	empty, err := cs.Create(ctx, "u1", "Empty", "empty")
	require.NoError(t, err)
	used, err := cs.Create(ctx, "u1", "Used", "used")
	require.NoError(t, err)
	_, err = ts.Create(ctx, "u1", "Write report", []string{used.ID})
	require.NoError(t, err)

	require.NoError(t, cs.Delete(ctx, empty.ID, "u1"))

	err = cs.Delete(ctx, used.ID, "u1")
	requireConflict(t, err, common.ConflictDependents)

	still, err := cs.FindByIDOrSlug(ctx, used.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, still)
}

func TestCategoryDelete_ScopedByOwner(t *testing.T) {
	_, cs, _ := newCategoryService(t)
	ctx := context.Background()

	work, err := cs.Create(ctx, "u1", "Work", "work")
	require.NoError(t, err)

	assert.ErrorIs(t, cs.Delete(ctx, work.ID, "u2"), common.ErrorNotFound)
	assert.ErrorIs(t, cs.Delete(ctx, "work", "u1"), common.ErrorNotFound)

	list, err := cs.ListForOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCategoryListForOwner_OrderedAndIsolated(t *testing.T) {
	_, cs, _ := newCategoryService(t)
	ctx := context.Background()

	for _, n := range []string{"Work", "Errands", "Home"} {
		_, err := cs.Create(ctx, "u1", n, n)
		require.NoError(t, err)
	}
	_, err := cs.Create(ctx, "u2", "Alpha", "alpha")
	require.NoError(t, err)

	list, err := cs.ListForOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Errands", "Home", "Work"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestCategoryFindByIDOrSlug(t *testing.T) {
	_, cs, _ := newCategoryService(t)
	ctx := context.Background()

	work, err := cs.Create(ctx, "u1", "Work", "work")
	require.NoError(t, err)

	byID, err := cs.FindByIDOrSlug(ctx, work.ID, "u1")
	require.NoError(t, err)
	bySlug, err := cs.FindByIDOrSlug(ctx, "work", "u1")
	require.NoError(t, err)
	assert.Equal(t, byID, bySlug)

	none, err := cs.FindByIDOrSlug(ctx, "work", "u2")
	require.NoError(t, err)
	assert.Nil(t, none)

	none, err = cs.FindByIDOrSlug(ctx, "", "u1")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCategoryService_StorageErrors(t *testing.T) {
	store, cs, _ := newCategoryService(t)
	store.failWith = errors.New("connection reset")
	ctx := context.Background()

	_, err := cs.Create(ctx, "u1", "Work", "work")
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.ErrorContains(t, err, "connection reset")

	_, err = cs.ListForOwner(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrStorage)

	_, err = cs.FindByIDOrSlug(ctx, "work", "u1")
	assert.ErrorIs(t, err, common.ErrStorage)

	err = cs.Delete(ctx, uuid.NewString(), "u1")
	assert.ErrorIs(t, err, common.ErrStorage)
}
