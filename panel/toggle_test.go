package panel

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-admin/models"
)

type recordingNotifier struct {
	successes, errors, warnings []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }
func (n *recordingNotifier) Warning(msg string) { n.warnings = append(n.warnings, msg) }

func categoryToggle(update func(context.Context, uuid.UUID, bool) error, refetch func(context.Context) error, n Notifier) Toggle[models.Category] {
	return Toggle[models.Category]{
		Label:   "Category",
		ID:      func(c models.Category) uuid.UUID { return c.ID },
		Flag:    func(c *models.Category) *bool { return &c.IsActive },
		Update:  update,
		Refetch: refetch,
		Notify:  n,
	}
}

func TestToggleTwiceRestoresFlag(t *testing.T) {
	id := uuid.New()
	items := []models.Category{{ID: id, Name: "Books", IsActive: true}}
	var sent []bool
	n := &recordingNotifier{}
	tg := categoryToggle(func(_ context.Context, got uuid.UUID, v bool) error {
		assert.Equal(t, id, got)
		sent = append(sent, v)
		return nil
	}, nil, n)

	require.NoError(t, tg.Flip(context.Background(), items, id))
	assert.False(t, items[0].IsActive)
	require.NoError(t, tg.Flip(context.Background(), items, id))
	assert.True(t, items[0].IsActive)

	assert.Equal(t, []bool{false, true}, sent)
	assert.Equal(t, []string{"Category deactivated", "Category activated"}, n.successes)
}

func TestToggleNotFoundRefetchesAndWarns(t *testing.T) {
	id := uuid.New()
	items := []models.Category{{ID: id, IsActive: true}}
	refetched := 0
	n := &recordingNotifier{}
	tg := categoryToggle(
		func(context.Context, uuid.UUID, bool) error {
			return &APIError{Status: http.StatusNotFound, Detail: "Category not found"}
		},
		func(context.Context) error { refetched++; return nil },
		n,
	)

	err := tg.Flip(context.Background(), items, id)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 1, refetched)
	assert.Equal(t, []string{"Category no longer exists"}, n.warnings)
	assert.Empty(t, n.errors)
}

func TestToggleFailureShowsDetail(t *testing.T) {
	id := uuid.New()
	items := []models.Category{{ID: id, IsActive: false}}
	refetched := 0
	n := &recordingNotifier{}
	tg := categoryToggle(
		func(context.Context, uuid.UUID, bool) error {
			return &APIError{Status: http.StatusBadRequest, Detail: "Cannot activate under an inactive parent"}
		},
		func(context.Context) error { refetched++; return nil },
		n,
	)

	require.Error(t, tg.Flip(context.Background(), items, id))
	assert.Equal(t, 1, refetched)
	assert.Equal(t, []string{"Cannot activate under an inactive parent"}, n.errors)
}

func TestToggleRevertsWhenRefetchFails(t *testing.T) {
	id := uuid.New()
	items := []models.Category{{ID: id, IsActive: true}}
	n := &recordingNotifier{}
	tg := categoryToggle(
		func(context.Context, uuid.UUID, bool) error { return errors.New("connection reset") },
		func(context.Context) error { return errors.New("still down") },
		n,
	)

	require.Error(t, tg.Flip(context.Background(), items, id))
	assert.True(t, items[0].IsActive)
	assert.Equal(t, []string{"Failed to update Category"}, n.errors)
}

func TestToggleUnknownID(t *testing.T) {
	calls := 0
	tg := categoryToggle(func(context.Context, uuid.UUID, bool) error { calls++; return nil }, nil, nil)

	err := tg.Flip(context.Background(), []models.Category{{ID: uuid.New()}}, uuid.New())
	assert.Error(t, err)
	assert.Zero(t, calls)
}
