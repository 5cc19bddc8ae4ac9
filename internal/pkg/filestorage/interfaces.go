package filestorage

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
)

// FileStorage defines the interface for file storage operations.
// Stored files are addressed by a slash-separated key relative to the storage root.
type FileStorage interface {
	// SaveFile saves a file at the storage root and returns its key
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// SaveFileWithPath saves a file under a sub path and returns its key
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a stored file; deleting a missing file is not an error
	DeleteFile(key string) error

	// URL returns the public location of a stored file
	URL(key string) string
}

// ErrInvalidUpload is returned for uploads that fail type or size checks
var ErrInvalidUpload = errors.New("invalid upload")

// UploadRules restricts accepted uploads
type UploadRules struct {
	AllowedExtensions []string
	MaxBytes          int64
}

// ReceiptRules accepts payment receipt images and PDFs up to 5 MB
var ReceiptRules = UploadRules{
	AllowedExtensions: []string{".png", ".jpg", ".jpeg", ".webp", ".pdf"},
	MaxBytes:          5 << 20,
}

// Check validates fileHeader against the rules
func (r UploadRules) Check(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return fmt.Errorf("%w: no file", ErrInvalidUpload)
	}
	if r.MaxBytes > 0 && fileHeader.Size > r.MaxBytes {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidUpload, r.MaxBytes)
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, allowed := range r.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: unsupported file type %q", ErrInvalidUpload, ext)
}

// joinKey builds a clean storage key and rejects keys escaping the root
func joinKey(parts ...string) (string, error) {
	key := path.Clean(path.Join(parts...))
	if key == "." || key == "/" || strings.HasPrefix(key, "../") || key == ".." || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return key, nil
}
