package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "data", "nested", "gophauth.db")

	require.NoError(t, EnsureParentDir(path))

	fi, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "gophauth.db")

	require.NoError(t, EnsureParentDir(path))
	require.NoError(t, EnsureParentDir(path))
}

func TestEnsureParentDir_SkipsURIsAndMemory(t *testing.T) {
	for _, dsn := range []string{"", ":memory:", "file:gophauth?mode=memory&cache=shared"} {
		require.NoError(t, EnsureParentDir(dsn), dsn)
	}
}

func TestEnsureParentDir_FailsIfFileBlocksPath(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o660))

	err := EnsureParentDir(filepath.Join(blocker, "gophauth.db"))
	require.Error(t, err, "should fail when a file exists where the directory should be")
}
