package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"curator/internal/domain"
)

// DiskStore performs the physical file operations under the storage root.
// Placement goes through a temp file with fsync and an atomic rename so a
// crash never leaves a half-written destination.
type DiskStore struct {
	logger *slog.Logger
}

// NewDiskStore creates a new disk store
func NewDiskStore(logger *slog.Logger) *DiskStore {
	return &DiskStore{logger: logger}
}

// ResolveCollisionFree returns the first free path for name inside dir,
// appending " (1)", " (2)", ... before the extension while the exact
// destination is occupied. This is a filesystem-level check, distinct from
// the naming engine's name-only uniqueness helper.
func (s *DiskStore) ResolveCollisionFree(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	free, err := pathFree(candidate)
	if err != nil {
		return "", err
	}
	if free {
		return candidate, nil
	}

	stem, ext := splitExtension(name)
	for n := 1; ; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		free, err := pathFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
}

// pathFree reports whether nothing occupies the path
func pathFree(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if os.IsNotExist(err) {
		return true, nil
	}
	return false, &domain.IOError{Path: path, Op: "stat", Err: err}
}

// Copy copies src to dst. The destination directory must exist. Written via
// a temp file, fsynced, then renamed into place.
func (s *DiskStore) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.NotFoundError{Message: "source file not found: " + src}
		}
		return &domain.IOError{Path: src, Op: "open", Err: err}
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &domain.IOError{Path: tmp, Op: "create", Err: err}
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return &domain.IOError{Path: dst, Op: "write", Err: err}
	}

	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(tmp)
		return &domain.IOError{Path: dst, Op: "fsync", Err: err}
	}

	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return &domain.IOError{Path: dst, Op: "close", Err: err}
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return &domain.IOError{Path: dst, Op: "rename into place", Err: err}
	}

	return nil
}

// Move renames src to dst, falling back to copy+delete when the rename
// crosses volumes.
func (s *DiskStore) Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	if isCrossDevice(err) {
		s.logger.Debug("cross-device move, falling back to copy+delete",
			"src", src,
			"dst", dst,
		)
		if err := s.Copy(src, dst); err != nil {
			return err
		}
		if err := os.Remove(src); err != nil {
			// The copy exists; report the leftover source rather than
			// undoing the move
			return &domain.IOError{Path: src, Op: "remove after cross-device move", Err: err}
		}
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && os.IsNotExist(linkErr.Err) {
		return &domain.NotFoundError{Message: "source file not found: " + src}
	}
	return &domain.IOError{Path: src, Op: "move", Err: err}
}

// Remove deletes a file. Missing files are not an error.
func (s *DiskStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &domain.IOError{Path: path, Op: "remove", Err: err}
	}
	return nil
}

// Exists reports whether a file occupies the path
func (s *DiskStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// MoveToTrash relocates the file into trashDir, disambiguating on name
// collision inside the trash
func (s *DiskStore) MoveToTrash(path, trashDir string) (string, error) {
	if err := os.MkdirAll(trashDir, 0o755); err != nil {
		return "", &domain.IOError{Path: trashDir, Op: "create trash directory", Err: err}
	}

	dst, err := s.ResolveCollisionFree(trashDir, filepath.Base(path))
	if err != nil {
		return "", err
	}

	if err := s.Move(path, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// isCrossDevice reports whether a rename failed because source and
// destination live on different volumes
func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		if errno, ok := linkErr.Err.(syscall.Errno); ok {
			return errno == syscall.EXDEV
		}
	}
	// Some platforms report EXDEV as a plain string
	return strings.Contains(err.Error(), "cross-device")
}
