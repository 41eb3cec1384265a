package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hashed, err := h.Hash(ctx, "Passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd", hashed)

	again, err := h.Hash(ctx, "Passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again, "hashes must be salted")

	assert.NoError(t, h.Compare(ctx, hashed, "Passw0rd"))
	assert.ErrorIs(t, h.Compare(ctx, hashed, "wrong1"), ErrPasswordMismatch)
}

func TestBcryptHasherEmptyHashAlwaysFails(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, 1)
	assert.ErrorIs(t, h.Compare(context.Background(), "", "not-a-real-password"), ErrPasswordMismatch)
}

func TestBcryptHasherHonoursCancellation(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Occupy the only slot so the next call has to wait on ctx.
	require.True(t, h.sem.TryAcquire(1))
	defer h.sem.Release(1)

	_, err := h.Hash(ctx, "Passw0rd")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	h := NewBcryptHasher(100, 0)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
