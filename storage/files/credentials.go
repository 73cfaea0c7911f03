package files

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/kasuku/academia/core/teacher"
)

// allowed credential document extensions, lowercase
var allowedExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// CredentialStore keeps teacher credential documents on the local
// filesystem, namespaced per teacher id so same-named uploads from
// different teachers cannot collide.
type CredentialStore struct {
	root string
}

var _ teacher.FileStore = (*CredentialStore)(nil) // interface compliance check

func NewCredentialStore(root string) (*CredentialStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload directory")
	}
	return &CredentialStore{root: root}, nil
}

// SanitizeFilename strips any path components and unsafe characters from
// an uploaded filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(filepath.Clean(name))
	name = unsafeChars.ReplaceAllString(name, "_")
	return strings.TrimLeft(name, ".")
}

func (cs *CredentialStore) Save(teacherID, filename string, src io.Reader) (string, error) {
	if !allowedExts[strings.ToLower(filepath.Ext(filename))] {
		return "", teacher.ErrUnsupportedFile
	}
	name := SanitizeFilename(filename)
	if name == "" {
		return "", teacher.ErrUnsupportedFile
	}

	dir := filepath.Join(cs.root, teacherID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating teacher directory")
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", errors.Wrap(err, "creating credentials file")
	}
	defer func() { _ = dst.Close() }()

	if _, err = io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, "writing credentials file")
	}
	return name, nil
}

func (cs *CredentialStore) Remove(teacherID, filename string) error {
	name := SanitizeFilename(filename)
	if name == "" {
		return nil
	}
	path := filepath.Join(cs.root, teacherID, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing credentials file")
	}
	// drop the teacher directory when it is now empty
	_ = os.Remove(filepath.Join(cs.root, teacherID))
	return nil
}

// Path returns the on-disk location of a stored file, for serving downloads.
func (cs *CredentialStore) Path(teacherID, filename string) string {
	return filepath.Join(cs.root, teacherID, SanitizeFilename(filename))
}
