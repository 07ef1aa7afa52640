package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gamage-recruiters/platform/internal/pkg/logger"
)

const maxNameAttempts = 100

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string
	now      func() time.Time
}

// NewLocalStorage creates a new LocalStorage rooted at basePath and ensures every
// category directory exists.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	for _, dir := range categories {
		full := filepath.Join(basePath, filepath.FromSlash(dir))
		if err := os.MkdirAll(full, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", full).Msg("Failed to create storage directory")
			return nil, fmt.Errorf("failed to create storage directory %s: %w", full, err)
		}
	}
	logger.Info().Str("path", basePath).Msg("Local storage directories ensured")

	return &LocalStorage{
		basePath: basePath,
		now:      time.Now,
	}, nil
}

// BasePath returns the storage root, used to serve files statically
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Store saves the upload as <field>-<unix millis><ext> in the field's category directory
func (ls *LocalStorage) Store(field Field, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file provided for %s", field)
	}

	dir, ok := field.Category()
	if !ok {
		return "", fmt.Errorf("unknown upload field: %s", field)
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dst, filename, err := ls.create(dir, field, fileHeader.Filename)
	if err != nil {
		return "", err
	}

	if err := writeFile(dst, dst.Name(), file); err != nil {
		return "", err
	}

	logger.Info().Str("field", string(field)).Str("saved_as", filename).Msg("File saved successfully")
	return filename, nil
}

// writeFile copies src into dst and closes it. On any failure the partial file at path is removed.
func writeFile(dst io.WriteCloser, path string, src io.Reader) error {
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		logger.Error().Err(err).Str("path", path).Msg("Failed to copy uploaded file content")
		return fmt.Errorf("failed to save file content: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		logger.Error().Err(err).Str("path", path).Msg("Failed to close uploaded file")
		return fmt.Errorf("failed to save file content: %w", err)
	}
	return nil
}

// Replace stores the new upload first and only removes the previous file once commit
// has succeeded. A failed removal is logged and does not fail the replacement.
func (ls *LocalStorage) Replace(field Field, fileHeader *multipart.FileHeader, previous string, commit CommitFunc) (string, error) {
	filename, err := ls.Store(field, fileHeader)
	if err != nil {
		return "", err
	}

	if commit != nil {
		if err := commit(filename); err != nil {
			if delErr := ls.Delete(field, filename); delErr != nil {
				logger.Warn().Err(delErr).Str("field", string(field)).Str("file", filename).Msg("Failed to remove uncommitted file")
			}
			return "", err
		}
	}

	if previous != "" && previous != filename {
		if err := ls.Delete(field, previous); err != nil {
			logger.Warn().Err(err).Str("field", string(field)).Str("file", previous).Msg("Failed to remove replaced file")
		}
	}

	return filename, nil
}

// Delete removes a file from the storage filesystem.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) Delete(field Field, filename string) error {
	if filename == "" {
		return nil
	}

	physicalPath := ls.Path(field, filename)
	if physicalPath == "" {
		return fmt.Errorf("invalid file reference %q for field %s", filename, field)
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

// Path returns the full filesystem path for a stored filename.
// Only the base name is used, so references cannot escape the category directory.
func (ls *LocalStorage) Path(field Field, filename string) string {
	dir, ok := field.Category()
	if !ok {
		return ""
	}

	name := filepath.Base(filepath.FromSlash(filename))
	if name == "" || name == "." || name == string(filepath.Separator) || name == ".." {
		return ""
	}

	return filepath.Join(ls.basePath, filepath.FromSlash(dir), name)
}

// create opens a new file named after the current millisecond, moving to the next
// millisecond when two uploads of the same field collide.
func (ls *LocalStorage) create(dir string, field Field, original string) (*os.File, string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	millis := ls.now().UnixMilli()

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		filename := fmt.Sprintf("%s-%d%s", field, millis+int64(attempt), ext)
		dstPath := filepath.Join(ls.basePath, filepath.FromSlash(dir), filename)

		dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return dst, filename, nil
		}
		if !os.IsExist(err) {
			logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
			return nil, "", fmt.Errorf("failed to create destination file: %w", err)
		}
	}

	return nil, "", fmt.Errorf("failed to allocate a unique filename for %s", field)
}
