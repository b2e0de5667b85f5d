package filestorage

import (
	"errors"
	"mime/multipart"
)

// Upload rejections
var (
	ErrNoFile          = errors.New("no file uploaded")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
)

// FileStorage stores uploaded files under named subdirectories.
// Stored files are addressed by subdirectory and generated file name.
type FileStorage interface {
	// SaveFileWithPath writes the upload as <prefix><uuid><ext> into subPath and returns the file name
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath, prefix string) (string, error)

	// DeleteFile removes a stored file; a missing file is not an error
	DeleteFile(subPath, filename string) error

	// Exists reports whether a stored file is present
	Exists(subPath, filename string) bool

	// GetFullPath returns the filesystem path of a stored file
	GetFullPath(subPath, filename string) string
}
