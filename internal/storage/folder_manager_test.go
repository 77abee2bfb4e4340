package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnsureDirectories(t *testing.T) {
	tempDir := t.TempDir()
	uploads := filepath.Join(tempDir, "uploads")
	letters := filepath.Join(tempDir, "offer_letters")
	output := filepath.Join(tempDir, "nested", "updated_excel")

	require.NoError(t, EnsureDirectories(zap.NewNop(), uploads, letters, output, ""))

	assert.DirExists(t, uploads)
	assert.DirExists(t, letters)
	assert.DirExists(t, output)

	// existing directories are fine
	assert.NoError(t, EnsureDirectories(zap.NewNop(), uploads))
}

func TestFolderManager_StagingFolder(t *testing.T) {
	tempDir := t.TempDir()
	logger, _ := zap.NewDevelopment()
	fm := NewFolderManager(tempDir, logger)

	t.Run("creates staging folder for batch", func(t *testing.T) {
		folderPath, err := fm.CreateStagingFolder("6a3847a3-14f5-4c7e-a5d1-26c7fb0bf6ef")

		require.NoError(t, err)
		assert.DirExists(t, folderPath)
		assert.Equal(t, filepath.Join(tempDir, ".staging-6a3847a3-14f5-4c7e-a5d1-26c7fb0bf6ef"), folderPath)
		assert.True(t, IsStagingFolder(filepath.Base(folderPath)))
	})

	t.Run("rejects empty batch id", func(t *testing.T) {
		_, err := fm.CreateStagingFolder("")
		assert.Error(t, err)
	})

	t.Run("traversal characters are removed", func(t *testing.T) {
		path := fm.StagingFolderPath("../../etc")
		assert.Equal(t, filepath.Join(tempDir, ".staging-etc"), path)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		folderPath, err := fm.CreateStagingFolder("batch-1")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(folderPath, "a.pdf"), []byte("x"), 0644))

		require.NoError(t, fm.DeleteStagingFolder("batch-1"))
		assert.NoDirExists(t, folderPath)
		assert.NoError(t, fm.DeleteStagingFolder("batch-1"))
	})
}

func TestFolderManager_Promote(t *testing.T) {
	tempDir := t.TempDir()
	fm := NewFolderManager(tempDir, zap.NewNop())

	staging, err := fm.CreateStagingFolder("batch-2")
	require.NoError(t, err)

	existing := filepath.Join(tempDir, "Jane_Doe_Offer_Letter.pdf")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0644))

	staged := filepath.Join(staging, "0001.pdf")
	require.NoError(t, os.WriteFile(staged, []byte("new"), 0644))

	target, err := fm.Promote(staged, "Jane_Doe_Offer_Letter.pdf")

	require.NoError(t, err)
	assert.Equal(t, existing, target)
	content, _ := os.ReadFile(target)
	assert.Equal(t, "new", string(content))
	assert.NoFileExists(t, staged)
}

func TestFolderManager_SanitizeFolderName(t *testing.T) {
	fm := NewFolderManager(t.TempDir(), zap.NewNop())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "uuid kept", in: "6a3847a3-14f5", want: "6a3847a3-14f5"},
		{name: "separators removed", in: "a/b\\c", want: "abc"},
		{name: "parent references removed", in: "..x..", want: "x"},
		{name: "spaces and symbols removed", in: "batch #1", want: "batch1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fm.SanitizeFolderName(tt.in))
		})
	}
}
