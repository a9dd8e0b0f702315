package services

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// ImageStore releases image resources referenced by posts. Upload
// handling itself lives outside this service; posts only carry the
// reference.
type ImageStore interface {
	Remove(ref string) error
}

// DiskImageStore removes image files from a local upload directory.
type DiskImageStore struct {
	dir string
}

// NewDiskImageStore creates a DiskImageStore rooted at dir
func NewDiskImageStore(dir string) *DiskImageStore {
	return &DiskImageStore{dir: dir}
}

// Remove deletes the file backing an image reference. A missing file is
// not an error; the reference may already have been cleaned up.
func (s *DiskImageStore) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
