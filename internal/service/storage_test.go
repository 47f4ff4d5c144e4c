package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"curator/internal/domain"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestResolveCollisionFree(t *testing.T) {
	disk := NewDiskStore(testLogger())
	dir := t.TempDir()

	t.Run("free path returned as-is", func(t *testing.T) {
		got, err := disk.ResolveCollisionFree(dir, "report.pdf")
		if err != nil {
			t.Fatalf("ResolveCollisionFree() error = %v", err)
		}
		if want := filepath.Join(dir, "report.pdf"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("occupied path gets a counter", func(t *testing.T) {
		writeTestFile(t, filepath.Join(dir, "report.pdf"), "a")
		got, err := disk.ResolveCollisionFree(dir, "report.pdf")
		if err != nil {
			t.Fatalf("ResolveCollisionFree() error = %v", err)
		}
		if want := filepath.Join(dir, "report (1).pdf"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("counter increments past taken names", func(t *testing.T) {
		writeTestFile(t, filepath.Join(dir, "report (1).pdf"), "b")
		got, err := disk.ResolveCollisionFree(dir, "report.pdf")
		if err != nil {
			t.Fatalf("ResolveCollisionFree() error = %v", err)
		}
		if want := filepath.Join(dir, "report (2).pdf"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestCopy(t *testing.T) {
	disk := NewDiskStore(testLogger())
	dir := t.TempDir()

	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	writeTestFile(t, src, "payload")

	if err := disk.Copy(src, dst); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	if got := readTestFile(t, dst); got != "payload" {
		t.Errorf("destination content = %q, want %q", got, "payload")
	}
	if got := readTestFile(t, src); got != "payload" {
		t.Errorf("source was modified: %q", got)
	}
	if disk.Exists(dst + ".tmp") {
		t.Error("temp file left behind")
	}
}

func TestCopyMissingSource(t *testing.T) {
	disk := NewDiskStore(testLogger())
	dir := t.TempDir()

	err := disk.Copy(filepath.Join(dir, "absent"), filepath.Join(dir, "dst"))
	var nfe *domain.NotFoundError
	if !errors.As(err, &nfe) {
		t.Errorf("Copy() error = %v, want not-found", err)
	}
}

func TestMove(t *testing.T) {
	disk := NewDiskStore(testLogger())
	dir := t.TempDir()

	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	writeTestFile(t, src, "payload")

	if err := disk.Move(src, dst); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	if got := readTestFile(t, dst); got != "payload" {
		t.Errorf("destination content = %q, want %q", got, "payload")
	}
	if disk.Exists(src) {
		t.Error("source still exists after move")
	}
}

func TestMoveMissingSource(t *testing.T) {
	disk := NewDiskStore(testLogger())
	dir := t.TempDir()

	err := disk.Move(filepath.Join(dir, "absent"), filepath.Join(dir, "dst"))
	var nfe *domain.NotFoundError
	if !errors.As(err, &nfe) {
		t.Errorf("Move() error = %v, want not-found", err)
	}
}

func TestRemove(t *testing.T) {
	disk := NewDiskStore(testLogger())
	dir := t.TempDir()

	path := filepath.Join(dir, "f.txt")
	writeTestFile(t, path, "x")

	if err := disk.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if disk.Exists(path) {
		t.Error("file still exists after remove")
	}

	// Removing a missing file is not an error
	if err := disk.Remove(path); err != nil {
		t.Errorf("Remove() on missing file error = %v", err)
	}
}

func TestDiskStoreMoveToTrash(t *testing.T) {
	disk := NewDiskStore(testLogger())
	dir := t.TempDir()
	trash := filepath.Join(dir, ".trash")

	path := filepath.Join(dir, "doomed.txt")
	writeTestFile(t, path, "x")

	trashed, err := disk.MoveToTrash(path, trash)
	if err != nil {
		t.Fatalf("MoveToTrash() error = %v", err)
	}
	if want := filepath.Join(trash, "doomed.txt"); trashed != want {
		t.Errorf("trashed path = %q, want %q", trashed, want)
	}
	if disk.Exists(path) {
		t.Error("original still exists after trashing")
	}

	// A second file with the same name lands beside the first
	writeTestFile(t, path, "y")
	trashed2, err := disk.MoveToTrash(path, trash)
	if err != nil {
		t.Fatalf("second MoveToTrash() error = %v", err)
	}
	if want := filepath.Join(trash, "doomed (1).txt"); trashed2 != want {
		t.Errorf("trashed path = %q, want %q", trashed2, want)
	}
}
