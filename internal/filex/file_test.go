package filex

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNested(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a", "b", "store.db")

	require.NoError(t, EnsureParentDir(target))

	fi, err := os.Stat(filepath.Join(root, "a", "b"))
	require.NoError(t, err)
	require.True(t, fi.IsDir())
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o700), fi.Mode().Perm())
	}

	require.NoError(t, EnsureParentDir(target), "second call is a no-op")
}

func TestReadOrCreateSecret_CreatesThenReuses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "store.key")

	first, err := ReadOrCreateSecret(path, 32)
	require.NoError(t, err)
	assert.Len(t, first, 32)

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}

	second, err := ReadOrCreateSecret(path, 32)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReadOrCreateSecret_WritesHex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.key")

	secret, err := ReadOrCreateSecret(path, 16)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 32)
	assert.Equal(t, hex.EncodeToString(secret), string(data))
}

func TestReadOrCreateSecret_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.key")
	require.NoError(t, os.WriteFile(path, []byte("not-hex!"), 0o600))

	_, err := ReadOrCreateSecret(path, 32)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode secret")
}
