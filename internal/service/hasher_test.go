package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"curator/internal/domain"
)

func TestHashKnownContent(t *testing.T) {
	hasher := NewContentHasher()
	dir := t.TempDir()

	path := filepath.Join(dir, "hello.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := hasher.Hash(context.Background(), path)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	// sha256("hello world")
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got != want {
		t.Errorf("Hash() = %q, want %q", got, want)
	}
}

func TestHashEmptyFile(t *testing.T) {
	hasher := NewContentHasher()
	dir := t.TempDir()

	path := filepath.Join(dir, "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := hasher.Hash(context.Background(), path)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	// sha256 of the empty string
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got != want {
		t.Errorf("Hash() = %q, want %q", got, want)
	}
}

func TestHashMissingFile(t *testing.T) {
	hasher := NewContentHasher()

	_, err := hasher.Hash(context.Background(), filepath.Join(t.TempDir(), "absent"))
	var nfe *domain.NotFoundError
	if !errors.As(err, &nfe) {
		t.Errorf("Hash() error = %v, want not-found", err)
	}
}

func TestHashCancelledContext(t *testing.T) {
	hasher := NewContentHasher()
	dir := t.TempDir()

	path := filepath.Join(dir, "f.bin")
	if err := os.WriteFile(path, make([]byte, 1024), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hasher.Hash(ctx, path)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Hash() error = %v, want context.Canceled", err)
	}
}
