package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// stagingPrefix marks per-batch working folders inside the letters directory
const stagingPrefix = ".staging-"

var unsafeFolderChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// EnsureDirectories creates every directory that does not exist yet
func EnsureDirectories(logger *zap.Logger, dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Directory ready", zap.String("path", dir))
	}
	return nil
}

// FolderManager manages the per-batch staging folders under the letters directory
type FolderManager struct {
	baseDir string
	logger  *zap.Logger
}

// NewFolderManager creates a new FolderManager
func NewFolderManager(baseDir string, logger *zap.Logger) *FolderManager {
	return &FolderManager{
		baseDir: baseDir,
		logger:  logger,
	}
}

// CreateStagingFolder creates {baseDir}/.staging-{batchID}/ and returns its path
func (m *FolderManager) CreateStagingFolder(batchID string) (string, error) {
	if batchID == "" {
		return "", fmt.Errorf("cannot create folder: empty batch ID")
	}

	folderPath := m.StagingFolderPath(batchID)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		m.logger.Error("Failed to create staging folder",
			zap.String("batch_id", batchID),
			zap.String("folder_path", folderPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	m.logger.Debug("Created staging folder",
		zap.String("batch_id", batchID),
		zap.String("folder_path", folderPath))

	return folderPath, nil
}

// StagingFolderPath returns the staging folder of a batch without creating it
func (m *FolderManager) StagingFolderPath(batchID string) string {
	return filepath.Join(m.baseDir, stagingPrefix+m.SanitizeFolderName(batchID))
}

// DeleteStagingFolder removes a staging folder and all contents
func (m *FolderManager) DeleteStagingFolder(batchID string) error {
	folderPath := m.StagingFolderPath(batchID)

	// Folder doesn't exist - idempotent, return success
	if _, err := os.Stat(folderPath); os.IsNotExist(err) {
		return nil
	}

	if err := os.RemoveAll(folderPath); err != nil {
		m.logger.Error("Failed to delete staging folder",
			zap.String("batch_id", batchID),
			zap.String("folder_path", folderPath),
			zap.Error(err))
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	m.logger.Debug("Deleted staging folder",
		zap.String("batch_id", batchID),
		zap.String("folder_path", folderPath))

	return nil
}

// Promote moves a staged file to {baseDir}/{name}, replacing an existing file
func (m *FolderManager) Promote(stagedPath, name string) (string, error) {
	target := filepath.Join(m.baseDir, filepath.Base(name))
	if err := os.Rename(stagedPath, target); err != nil {
		return "", fmt.Errorf("failed to promote %s: %w", name, err)
	}
	return target, nil
}

// IsStagingFolder reports whether a directory entry name belongs to a staging folder
func IsStagingFolder(name string) bool {
	return strings.HasPrefix(name, stagingPrefix)
}

// SanitizeFolderName returns a filesystem-safe version of the name
// Removes path separators and special characters to prevent directory traversal
func (m *FolderManager) SanitizeFolderName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")

	return unsafeFolderChars.ReplaceAllString(name, "")
}
