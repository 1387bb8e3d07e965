package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "audio.csv")
	require.NoError(t, os.WriteFile(src, []byte("x\n1\n"), 0644))

	dst, err := ArchiveFile(src, filepath.Join(root, "success"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "success", "audio.csv"), dst)
	assert.NoFileExists(t, src)
	assert.FileExists(t, dst)
}

func TestArchiveFile_NameCollision(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(root, "failed")
	require.NoError(t, EnsureDir(archive))
	require.NoError(t, os.WriteFile(filepath.Join(archive, "audio.csv"), []byte("old"), 0644))

	src := filepath.Join(root, "audio.csv")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))

	dst, err := ArchiveFile(src, archive)
	require.NoError(t, err)
	assert.NotEqual(t, filepath.Join(archive, "audio.csv"), dst)
	assert.True(t, strings.HasPrefix(filepath.Base(dst), "audio_"))
	assert.Equal(t, ".csv", filepath.Ext(dst))

	old, err := os.ReadFile(filepath.Join(archive, "audio.csv"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

func TestArchiveFile_Disabled(t *testing.T) {
	src := filepath.Join(t.TempDir(), "audio.csv")
	require.NoError(t, os.WriteFile(src, nil, 0644))

	dst, err := ArchiveFile(src, "")
	require.NoError(t, err)
	assert.Equal(t, src, dst)
	assert.FileExists(t, src)
}
