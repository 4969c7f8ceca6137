package sessions

import (
	"context"
	"testing"
	"time"

	"bookshelf_tgbot/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestMemorySession_SetGetClear(t *testing.T) {
	store := NewMemorySession(time.Hour)
	ctx := context.Background()

	got, err := store.GetSession(ctx, 1)
	assert.Nil(t, err)
	assert.Equal(t, model.Session{}, got)

	want := model.Session{Action: model.ExpectingAuthor, PendingTitle: "Dune"}
	assert.Nil(t, store.SetSession(ctx, 1, want))

	got, err = store.GetSession(ctx, 1)
	assert.Nil(t, err)
	assert.Equal(t, want, got)

	assert.Nil(t, store.ClearSession(ctx, 1))

	got, err = store.GetSession(ctx, 1)
	assert.Nil(t, err)
	assert.Equal(t, model.Session{}, got)
}

func TestMemorySession_Expires(t *testing.T) {
	store := NewMemorySession(time.Millisecond)
	ctx := context.Background()

	assert.Nil(t, store.SetSession(ctx, 1, model.Session{PendingTitle: "Dune"}))

	time.Sleep(5 * time.Millisecond)

	got, err := store.GetSession(ctx, 1)
	assert.Nil(t, err)
	assert.Equal(t, model.Session{}, got)
}
