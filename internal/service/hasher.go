package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"

	"curator/internal/config"
	"curator/internal/domain"
	"curator/internal/domain/services"
)

// contentHasher implements the ContentHasher interface with streaming
// SHA-256. Chunked reads keep memory bounded regardless of file size and
// give cancellation a checkpoint between chunks.
type contentHasher struct{}

// NewContentHasher creates a new content hasher
func NewContentHasher() services.ContentHasher {
	return &contentHasher{}
}

// Hash computes the hex-encoded SHA-256 digest of the file at path
func (h *contentHasher) Hash(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &domain.NotFoundError{Message: "file not found: " + path}
		}
		return "", &domain.IOError{Path: path, Op: "open for hashing", Err: err}
	}
	defer f.Close()

	digest := sha256.New()
	buf := make([]byte, config.HashChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := f.Read(buf)
		if n > 0 {
			digest.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", &domain.IOError{Path: path, Op: "read for hashing", Err: err}
		}
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}
