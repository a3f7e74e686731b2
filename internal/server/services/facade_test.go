package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFacade(t *testing.T) (*memStore, *Facade) {
	t.Helper()
	store, cs, ts := newCategoryService(t)
	return store, NewFacade(auth.ContextResolver{}, cs, ts)
}

func TestFacade_AnonymousIsRejectedWithoutStorageAccess(t *testing.T) {
	store, f := newFacade(t)
	ctx := context.Background()
	id := "7f1c3a52-4d8e-4a53-9a77-4f0d1b2c3e4f"

	calls := map[string]func() error{
		"Todos":           func() error { _, err := f.Todos(ctx); return err },
		"TodosInCategory": func() error { _, err := f.TodosInCategory(ctx, "work"); return err },
		"Categories":      func() error { _, err := f.Categories(ctx); return err },
		"Category":        func() error { _, err := f.Category(ctx, "work"); return err },
		"CreateCategory":  func() error { _, err := f.CreateCategory(ctx, "Work", "work"); return err },
		"UpdateCategory":  func() error { _, err := f.UpdateCategory(ctx, id, "Work", "work"); return err },
		"DeleteCategory":  func() error { return f.DeleteCategory(ctx, id) },
		"CreateTodo":      func() error { _, err := f.CreateTodo(ctx, "task", nil); return err },
		"UpdateTodo":      func() error { _, err := f.UpdateTodo(ctx, id, "task", nil); return err },
		"ToggleTodo":      func() error { _, err := f.ToggleTodo(ctx, id, true); return err },
		"DeleteTodo":      func() error { return f.DeleteTodo(ctx, id) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), common.ErrorUnauthorized)
		})
	}
	assert.Zero(t, store.Calls())
}

func TestFacade_ScopesToResolvedUser(t *testing.T) {
	_, f := newFacade(t)
	alice := auth.WithUserID(context.Background(), "alice")
	bob := auth.WithUserID(context.Background(), "bob")

	work, err := f.CreateCategory(alice, "Work", "work")
	require.NoError(t, err)
	assert.Equal(t, "alice", work.UserID)

	_, err = f.CreateTodo(alice, "Write report", []string{work.ID})
	require.NoError(t, err)

	// bob sees nothing of alice's and may reuse her slug
	todos, err := f.Todos(bob)
	require.NoError(t, err)
	assert.Empty(t, todos)

	c, err := f.Category(bob, "work")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = f.CreateCategory(bob, "Work", "work")
	require.NoError(t, err)

	assert.ErrorIs(t, f.DeleteCategory(bob, work.ID), common.ErrorNotFound)

	inWork, err := f.TodosInCategory(alice, work.ID)
	require.NoError(t, err)
	require.Len(t, inWork, 1)

	toggled, err := f.ToggleTodo(alice, inWork[0].ID, true)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	updated, err := f.UpdateTodo(alice, inWork[0].ID, "Write final report", nil)
	require.NoError(t, err)
	assert.Empty(t, updated.Categories)

	renamed, err := f.UpdateCategory(alice, work.ID, "Office", "office")
	require.NoError(t, err)
	assert.Equal(t, "office", renamed.Slug)

	cats, err := f.Categories(alice)
	require.NoError(t, err)
	require.Len(t, cats, 1)

	require.NoError(t, f.DeleteTodo(alice, inWork[0].ID))
	require.NoError(t, f.DeleteCategory(alice, work.ID))
}

func TestFacade_TodosInCategoryRequiresIdentifier(t *testing.T) {
	_, f := newFacade(t)

	_, err := f.TodosInCategory(auth.WithUserID(context.Background(), "u1"), "")
	requireValidation(t, err, "category")
}
