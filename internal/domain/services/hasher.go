package services

import (
	"context"
)

// ContentHasher computes the hex-encoded SHA-256 digest of a file's content.
// Implementations stream the file in bounded chunks and honor context
// cancellation between chunks; they never load the whole file into memory.
type ContentHasher interface {
	Hash(ctx context.Context, path string) (string, error)
}
