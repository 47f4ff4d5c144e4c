package services

import (
	"context"
	"time"
)

// ImportCategory selects the naming rules, path subtree and extension table
// applied to an import
type ImportCategory string

const (
	ImportDocument    ImportCategory = "document"
	ImportAsset       ImportCategory = "asset"
	ImportExpense     ImportCategory = "expense"
	ImportCompetition ImportCategory = "competition"
	ImportInbox       ImportCategory = "inbox"
)

// ImportRequest carries the source file and the domain context for one
// import. Recognized fields depend on Category; validation rejects requests
// missing the fields their category needs.
type ImportRequest struct {
	SourcePath string         `json:"source_path"`
	Category   ImportCategory `json:"category"`
	// Move removes the source after placement (rename semantics).
	// The default is copy, preserving the original.
	Move bool `json:"move"`
	// PreserveOriginalName skips the naming engine and keeps the sanitized
	// original file name
	PreserveOriginalName bool `json:"preserve_original_name"`

	ProjectID   string `json:"project_id,omitempty"`
	ProjectName string `json:"project_name,omitempty"`

	// Document category
	LogicalDocumentID string  `json:"logical_document_id,omitempty"`
	VersionTag        string  `json:"version_tag,omitempty"`
	IsGeneric         bool    `json:"is_generic,omitempty"`
	MilestoneRef      *string `json:"milestone_ref,omitempty"`

	// Competition category
	CompetitionSeries string `json:"competition_series,omitempty"`
	CompetitionLevel  string `json:"competition_level,omitempty"`

	// Asset category
	AssetType string `json:"asset_type,omitempty"`
	AssetName string `json:"asset_name,omitempty"`

	// Expense category
	ExpenseDescription string `json:"expense_description,omitempty"`
	AmountCents        int64  `json:"amount_cents,omitempty"`

	Notes string `json:"notes,omitempty"`
	// Timestamp drives date segments in generated names. Zero means "now".
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ImportResult reports the outcome of one import
type ImportResult struct {
	Success       bool   `json:"success"`
	ManagedFileID string `json:"managed_file_id,omitempty"`
	// LinkID identifies the created domain record (version, asset or
	// attachment), empty for inbox imports
	LinkID     string   `json:"link_id,omitempty"`
	TargetPath string   `json:"target_path,omitempty"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
}

// ImportPreview is the dry-run result of steps 1-3 of an import: generated
// name, destination, and validation findings. No filesystem mutation, no
// persistence.
type ImportPreview struct {
	Valid      bool     `json:"valid"`
	Name       string   `json:"name"`
	TargetDir  string   `json:"target_dir"`
	TargetPath string   `json:"target_path"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
}

// BatchImportResult aggregates per-item outcomes of a sequential batch.
// Success is the logical AND of all items; earlier successes are never
// rolled back.
type BatchImportResult struct {
	Success bool           `json:"success"`
	Items   []ImportResult `json:"items"`
}

// ImportService composes naming, path generation, physical placement,
// hashing, cataloging and domain linkage into one logical import operation
// with rollback on partial failure.
type ImportService interface {
	// ImportFile runs the full pipeline for one file. Failures after the
	// file has been placed trigger compensating cleanup; no orphaned
	// physical file or dangling catalog row survives a failed import.
	ImportFile(ctx context.Context, req *ImportRequest) (*ImportResult, error)

	// PreviewImport computes the would-be name and destination without
	// touching the filesystem or the database
	PreviewImport(ctx context.Context, req *ImportRequest) (*ImportPreview, error)

	// BatchImport imports sequentially, continuing on per-item errors.
	// Context cancellation stops issuing further items; completed items
	// stay committed.
	BatchImport(ctx context.Context, reqs []*ImportRequest) *BatchImportResult
}
