package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-economics/internal/config"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

func TestIdentity(t *testing.T) {
	ctx := t.Context()
	a := Identity{}

	require.NoError(t, a.Authorize(ctx, "alice", "alice"))

	err := a.Authorize(ctx, "bob", "alice")
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.Unauthorized))
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	assert.Error(t, a.Authorize(ctx, "", ""))
}

func TestKeyring(t *testing.T) {
	k := NewKeyring(&config.AuthConfig{
		Keys: []config.APIKey{
			{Key: "key-admin", Principal: "admin"},
			{Key: "key-alice", Principal: "alice"},
		},
	})

	p, ok := k.Principal("key-alice")
	assert.True(t, ok)
	assert.Equal(t, "alice", p)

	_, ok = k.Principal("key-unknown")
	assert.False(t, ok)

	_, ok = k.Principal("")
	assert.False(t, ok)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), "alice")
	p, ok := PrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "alice", p)
}
