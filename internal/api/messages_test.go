package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestEncode_UsesWireNames(t *testing.T) {
	s, err := Encode(TodoInput{Title: "Buy milk", CategoryIDs: []string{"c1"}})
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", s.Fields["title"].GetStringValue())
	list := s.Fields["category_ids"].GetListValue().GetValues()
	require.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].GetStringValue())
	_, hasID := s.Fields["id"]
	assert.False(t, hasID)
}

func TestDecode_NestedPayload(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s, err := structpb.NewStruct(map[string]any{
		"todos": []any{
			map[string]any{
				"id":         "t1",
				"title":      "Write report",
				"completed":  true,
				"created_at": created.Format(time.RFC3339),
				"categories": []any{map[string]any{"id": "c1", "name": "Work", "slug": "work"}},
			},
		},
	})
	require.NoError(t, err)

	var out TodoList
	require.NoError(t, Decode(s, &out))
	require.Len(t, out.Todos, 1)
	assert.True(t, out.Todos[0].Completed)
	assert.True(t, out.Todos[0].CreatedAt.Equal(created))
	assert.Equal(t, "work", out.Todos[0].Categories[0].Slug)
}

func TestDecode_NilStruct(t *testing.T) {
	var in Credentials
	require.NoError(t, Decode(nil, &in))
	assert.Empty(t, in.Email)
}

func TestDecode_TypeMismatch(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"completed": "yes"})
	require.NoError(t, err)

	var out ToggleRequest
	assert.Error(t, Decode(s, &out))
}

func TestProfileUpdate_OmitsAbsentFields(t *testing.T) {
	name := "Ann"
	s, err := Encode(ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Len(t, s.Fields, 1)

	var back ProfileUpdate
	require.NoError(t, Decode(s, &back))
	require.NotNil(t, back.Name)
	assert.Equal(t, "Ann", *back.Name)
	assert.Nil(t, back.Email)
}

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/todokeeper.v1.TodoKeeper/Ping", FullMethod(MethodPing))
	assert.Len(t, ServiceDesc.Methods, 17)
}
