package panel

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Notifier shows toasts.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Warning(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}
func (nopNotifier) Warning(string) {}

// Toggle flips an is_active style flag on one item of a list.
type Toggle[T any] struct {
	// Label names the entity in toasts, e.g. "Category".
	Label string
	ID    func(T) uuid.UUID
	// Flag points at the flag being flipped.
	Flag func(*T) *bool
	// Update sends the new value to the backend.
	Update func(ctx context.Context, id uuid.UUID, value bool) error
	// Refetch reloads the list after a failed update.
	Refetch func(ctx context.Context) error
	Notify  Notifier
}

// Flip changes the flag locally before calling the backend. When the item is
// gone (404) the list is refetched and a warning shown; any other failure
// refetches and shows an error.
func (t Toggle[T]) Flip(ctx context.Context, items []T, id uuid.UUID) error {
	notify := t.Notify
	if notify == nil {
		notify = nopNotifier{}
	}

	idx := -1
	for i := range items {
		if t.ID(items[i]) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%s %s is not in the list", t.Label, id)
	}

	flag := t.Flag(&items[idx])
	*flag = !*flag
	value := *flag

	err := t.Update(ctx, id, value)
	if err == nil {
		state := "deactivated"
		if value {
			state = "activated"
		}
		notify.Success(fmt.Sprintf("%s %s", t.Label, state))
		return nil
	}

	if t.Refetch != nil {
		if refetchErr := t.Refetch(ctx); refetchErr != nil {
			*flag = !value
		}
	} else {
		*flag = !value
	}
	if IsNotFound(err) {
		notify.Warning(fmt.Sprintf("%s no longer exists", t.Label))
	} else {
		notify.Error(ErrorMessage(err, fmt.Sprintf("Failed to update %s", t.Label)))
	}
	return err
}
