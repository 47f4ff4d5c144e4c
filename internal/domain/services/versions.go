package services

import (
	"context"

	"curator/internal/domain/models"
)

// CreateDocumentRequest creates a logical document
type CreateDocumentRequest struct {
	ProjectID   *string `json:"project_id,omitempty"`
	Name        string  `json:"name"`
	DocType     string  `json:"doc_type"`
	Description string  `json:"description"`
	DefaultPath *string `json:"default_path,omitempty"`
}

// CreateVersionRequest links an already-cataloged managed file to a logical
// document as a new version
type CreateVersionRequest struct {
	LogicalDocumentID string  `json:"logical_document_id"`
	ManagedFileID     string  `json:"managed_file_id"`
	VersionTag        string  `json:"version_tag"`
	IsGeneric         bool    `json:"is_generic"`
	MilestoneRef      *string `json:"milestone_ref,omitempty"`
	Notes             string  `json:"notes,omitempty"`
}

// VersionLedger enforces the versioning invariants: one managed file feeds at
// most one version, and each logical document has zero or one official
// version among its versions.
type VersionLedger interface {
	// CreateDocument creates a logical document with no versions
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.LogicalDocument, error)

	// GetDocument retrieves a logical document
	GetDocument(ctx context.Context, id string) (*models.LogicalDocument, error)

	// ListDocuments lists all logical documents
	ListDocuments(ctx context.Context) ([]models.LogicalDocument, error)

	// CreateVersion fails with domain.LinkageError when the managed file is
	// already consumed by any domain record, including under concurrent
	// callers.
	CreateVersion(ctx context.Context, req *CreateVersionRequest) (*models.DocumentVersion, error)

	// GetVersion retrieves a version
	GetVersion(ctx context.Context, id string) (*models.DocumentVersion, error)

	// ListVersions lists versions of a logical document, newest first
	ListVersions(ctx context.Context, logicalDocumentID string) ([]models.DocumentVersion, error)

	// DeleteVersion removes a version. When it is the document's official
	// version, the pointer is cleared and the row deleted in one
	// transaction; the pointer never dangles.
	DeleteVersion(ctx context.Context, id string) error

	// SetOfficialVersion marks one of the document's own versions official.
	// A nil versionID clears the pointer.
	SetOfficialVersion(ctx context.Context, docID string, versionID *string) error

	// DuplicateVersion copies the source version's physical file to a
	// collision-free sibling path, catalogs the copy as a new managed file
	// and creates a new version referencing it. The source version and its
	// file are untouched.
	DuplicateVersion(ctx context.Context, sourceVersionID, newTag string) (*models.DocumentVersion, error)
}
