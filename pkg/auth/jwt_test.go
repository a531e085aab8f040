package auth_test

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/shirtshop/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_RoundTripsIdentity(t *testing.T) {
	want := auth.Identity{UserID: 9, Role: auth.RoleAdmin, Name: "root"}

	token, err := auth.GenerateToken(want)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, want, claims.Identity())
	assert.True(t, claims.Identity().IsAdmin())
}

func TestValidateToken_RejectsTampered(t *testing.T) {
	token, err := auth.GenerateToken(auth.Identity{UserID: 1, Role: auth.RoleUser})
	require.NoError(t, err)

	_, err = auth.ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword(hash, "s3cret-pass"))
	assert.False(t, auth.CheckPassword(hash, "wrong-pass"))
}

func TestFromContext(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	assert.False(t, ok)

	ctx := auth.WithIdentity(context.Background(), auth.Identity{UserID: 3, Role: auth.RoleUser})
	id, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, uint(3), id.UserID)
	assert.False(t, id.IsAdmin())
}
