package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/homellm/internal/domain"
)

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, DefaultState(), sess.State)

	updated, err := store.Apply(ctx, sess.ID, FieldChanged{Name: "city", Value: "Austin"})
	require.NoError(t, err)
	assert.Equal(t, "Austin", updated.State.Form.City)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Austin", got.State.Form.City)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.True(t, domain.IsType(err, domain.ErrorTypeNotFound))
	assert.Equal(t, 0, store.Len())
}

func TestStore_MissingSession(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.Apply(ctx, "nope", Reset{})
	assert.True(t, domain.IsType(err, domain.ErrorTypeNotFound))
	assert.True(t, domain.IsType(store.Delete(ctx, "nope"), domain.ErrorTypeNotFound))
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	sess, err := store.Create(ctx)
	require.NoError(t, err)

	_, err = store.Apply(ctx, sess.ID, AttachmentsAdded{Attachments: []domain.Attachment{{Name: "a"}}})
	require.NoError(t, err)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	got.State.Attachments[0].Name = "changed"
	got.State.Form.City = "changed"

	again, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.State.Attachments[0].Name)
	assert.Empty(t, again.State.Form.City)
}

func TestStore_ConcurrentApply(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	sess, err := store.Create(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Apply(ctx, sess.ID, AttachmentsAdded{Attachments: []domain.Attachment{{Name: "x"}}})
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.State.Attachments, 50)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore().Create(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
