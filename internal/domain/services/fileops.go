package services

import (
	"context"

	"curator/internal/domain/models"
)

// OpOutcome is the per-item result of a (batch) file operation
type OpOutcome struct {
	FileID  string `json:"file_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
	// NewPath is set by operations that relocate the file
	NewPath string `json:"new_path,omitempty"`
}

// BatchOpResult aggregates per-item outcomes. Success is the logical AND of
// all items.
type BatchOpResult struct {
	Success bool        `json:"success"`
	Items   []OpOutcome `json:"items"`
}

// FileOps exposes higher-level user actions on managed files, composed from
// catalog lookups, OS file primitives and catalog updates.
type FileOps interface {
	// Rename changes the file's display and physical name within its
	// directory. Fails when the target name is already taken there.
	Rename(ctx context.Context, fileID, newName string) (*models.ManagedFile, error)

	// CopyToDirectory copies the physical file into dir, auto-disambiguating
	// on collision. The copy is not cataloged; it is a plain export.
	CopyToDirectory(ctx context.Context, fileID, dir string) (string, error)

	// SaveAs copies the physical file to an explicit destination path
	SaveAs(ctx context.Context, fileID, destPath string) error

	// MoveToTrash removes the catalog row and best-effort moves the
	// physical file into the trash directory. A missing physical file is
	// tolerated with a warning.
	MoveToTrash(ctx context.Context, fileID string) (warning string, err error)

	// BatchMoveToTrash trashes several files, reporting per-item outcomes
	BatchMoveToTrash(ctx context.Context, fileIDs []string) *BatchOpResult

	// BatchCopyToDirectory copies several files into dir
	BatchCopyToDirectory(ctx context.Context, fileIDs []string, dir string) *BatchOpResult
}
