// Package upload stores image files in a local directory with
// collision-safe naming. Stored filenames (not paths) are what content
// rows reference, and the public site serves them back verbatim, so
// names are sanitized aggressively on the way in.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxUploadSize is the maximum allowed file size (10 MB).
	MaxUploadSize = 10 << 20

	// maxSuffixAttempts bounds the numeric collision-suffix loop. Past
	// this, a UUID suffix guarantees termination.
	maxSuffixAttempts = 100
)

// Sentinel errors callers branch on at the request boundary.
var (
	ErrUnsupportedType = errors.New("upload: unsupported file type")
	ErrTooLarge        = errors.New("upload: file exceeds size limit")
)

// allowedExtensions is the accepted set of image extensions (lowercase).
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// allowedContentTypes are the sniffed MIME types matching the extension
// allowlist. A declared .png that sniffs as an executable is rejected.
var allowedContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Store writes uploaded files into a single directory.
type Store struct {
	dir string
}

// NewStore creates an upload store rooted at dir, creating it if absent.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and writes an uploaded file, returning the stored
// filename for persistence. The declared filename decides the extension
// check; the stored name is a sanitized version of it, suffixed on
// collision. The file content must also sniff as an allowed image type.
func (s *Store) Save(r io.Reader, declaredName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(declaredName))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	// Read up to the limit plus one byte to detect oversized files.
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("upload read: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", ErrTooLarge
	}

	// The declared extension must agree with what the bytes look like.
	sniffLen := len(data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	if !allowedContentTypes[http.DetectContentType(data[:sniffLen])] {
		return "", ErrUnsupportedType
	}

	name := sanitizeFilename(declaredName)
	stored, f, err := s.claim(name)
	if err != nil {
		return "", err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(filepath.Join(s.dir, stored))
		return "", fmt.Errorf("upload write: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(filepath.Join(s.dir, stored))
		return "", fmt.Errorf("upload close: %w", err)
	}

	return stored, nil
}

// claim opens a collision-free file under the sanitized name, appending
// numeric suffixes before the extension until a free name is found.
// O_EXCL makes the claim atomic under concurrent uploads. After
// maxSuffixAttempts a UUID suffix ends the search unconditionally.
func (s *Store) claim(name string) (string, *os.File, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 0; ; i++ {
		switch {
		case i == 0:
			// First try the sanitized name as-is.
		case i <= maxSuffixAttempts:
			candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
		default:
			candidate = fmt.Sprintf("%s_%s%s", base, uuid.New().String(), ext)
		}

		f, err := os.OpenFile(filepath.Join(s.dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return candidate, f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, fmt.Errorf("upload create: %w", err)
		}
		if i > maxSuffixAttempts {
			// A fresh UUID collided; something is deeply wrong.
			return "", nil, fmt.Errorf("upload create: %w", err)
		}
	}
}

// Exists reports whether a stored filename references an existing file.
// Used to enforce the image_filename invariant before persisting it.
func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Path resolves a stored filename to its on-disk path, rejecting names
// that escape the upload directory.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("upload: invalid filename %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

// sanitizeFilename reduces a client-supplied filename to a safe basename:
// path components are stripped (both separator styles), anything outside
// [A-Za-z0-9._-] becomes an underscore, and leading dots are removed so
// the result can never be a hidden file or a traversal fragment.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b bytes.Buffer
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	cleaned := strings.TrimLeft(b.String(), ".")
	ext := filepath.Ext(cleaned)
	if strings.TrimSuffix(cleaned, ext) == "" {
		cleaned = "file" + ext
	}
	return cleaned
}
