package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/dashboard-client/internal/domain/session"
)

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	identity, err := store.Identity(ctx)
	require.NoError(t, err)
	assert.True(t, identity.IsZero())

	require.Error(t, store.SetUserID(ctx, ""))
	require.NoError(t, store.SetUserID(ctx, "7"))
	require.NoError(t, store.SetImagePath(ctx, "/uploads/7.png"))

	id, err := store.GetUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7", id)

	cookies := []session.Cookie{{Name: "session", Value: "abc", Path: "/"}}
	require.NoError(t, store.SetCookies(ctx, cookies))
	cookies[0].Value = "mutated"
	got, err := store.Cookies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []session.Cookie{{Name: "session", Value: "abc", Path: "/"}}, got)

	require.NoError(t, store.Clear(ctx))
	identity, err = store.Identity(ctx)
	require.NoError(t, err)
	assert.True(t, identity.IsZero())
	assert.Empty(t, identity.ImagePath)
	got, err = store.Cookies(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
