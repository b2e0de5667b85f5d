package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/schoolsite/internal/pkg/logger"
)

// ImageExtensions are the photo types accepted on upload
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the base directory and returns a LocalStorage rooted at it.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// ValidateImage checks extension and size of an uploaded image
func ValidateImage(fileHeader *multipart.FileHeader, maxBytes int64) error {
	if fileHeader == nil {
		return ErrNoFile
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !ImageExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if maxBytes > 0 && fileHeader.Size > maxBytes {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, fileHeader.Size)
	}
	return nil
}

// SaveFileWithPath saves a file to a subdirectory under a generated name
// that keeps the lower-cased original extension.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath, prefix string) (string, error) {
	if fileHeader == nil {
		return "", ErrNoFile
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir := ls.dir(subPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	uniqueFilename := prefix + uuid.New().String() + ext
	dstPath := filepath.Join(dir, uniqueFilename)

	// O_EXCL so a generated name is never reused
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err = io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to flush file: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", uniqueFilename).Str("dir", subPath).Msg("File saved successfully")
	return uniqueFilename, nil
}

// DeleteFile removes a stored file. Deleting a missing file succeeds.
func (ls *LocalStorage) DeleteFile(subPath, filename string) error {
	physicalPath := ls.GetFullPath(subPath, filename)
	if physicalPath == "" {
		return fmt.Errorf("invalid file name: %q", filename)
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// Exists reports whether a stored file is present
func (ls *LocalStorage) Exists(subPath, filename string) bool {
	p := ls.GetFullPath(subPath, filename)
	if p == "" {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// GetFullPath returns the filesystem path of a stored file. Only the base
// name of filename is used, so it cannot escape the storage directory.
func (ls *LocalStorage) GetFullPath(subPath, filename string) string {
	name := filepath.Base(filename)
	if name == "" || name == "." || name == "/" || name == ".." {
		return ""
	}
	return filepath.Join(ls.dir(subPath), name)
}

func (ls *LocalStorage) dir(subPath string) string {
	if subPath == "" {
		return ls.basePath
	}
	return filepath.Join(ls.basePath, filepath.Clean("/" + subPath))
}
