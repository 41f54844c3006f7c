package securestore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Basic(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "k", "v"))
	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, m.Delete(ctx, "k"))
	require.NoError(t, m.Delete(ctx, "k"))
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 2, m.Reads())
}

func TestMemory_InjectedErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("keychain unavailable")

	m := NewMemory()
	m.GetErr, m.SetErr, m.DeleteErr = boom, boom, boom

	_, _, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.Set(ctx, "k", "v"), boom)
	assert.ErrorIs(t, m.Delete(ctx, "k"), boom)
}
