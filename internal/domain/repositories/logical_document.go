package repositories

import (
	"context"

	"curator/internal/domain/models"
)

// LogicalDocumentRepository defines data access operations for logical
// documents and the official-version pointer
type LogicalDocumentRepository interface {
	// Create creates a new logical document
	Create(ctx context.Context, doc *models.LogicalDocument) error

	// GetByID retrieves a logical document by ID
	GetByID(ctx context.Context, id string) (*models.LogicalDocument, error)

	// Update updates name, type, description, default path and status
	Update(ctx context.Context, doc *models.LogicalDocument) error

	// SetOfficialVersion points the document at one of its versions.
	// A nil versionID clears the pointer.
	SetOfficialVersion(ctx context.Context, docID string, versionID *string) error

	// Delete removes the document. Versions must be removed first; the
	// database enforces this with a foreign key.
	Delete(ctx context.Context, id string) error

	// List returns all logical documents ordered by name
	List(ctx context.Context) ([]models.LogicalDocument, error)
}

// DocumentVersionRepository defines data access operations for document
// versions. The one-file-one-record invariant lives in the storage layer as
// the file claim written by Create; its violation surfaces as a linkage
// error.
type DocumentVersionRepository interface {
	// Create inserts a version row. Returns domain.LinkageError when the
	// managed file is already consumed by any domain record.
	Create(ctx context.Context, version *models.DocumentVersion) error

	// GetByID retrieves a version by ID
	GetByID(ctx context.Context, id string) (*models.DocumentVersion, error)

	// GetByManagedFile retrieves the version consuming a managed file,
	// or not-found
	GetByManagedFile(ctx context.Context, managedFileID string) (*models.DocumentVersion, error)

	// ListByDocument lists versions of one logical document, newest first
	ListByDocument(ctx context.Context, logicalDocumentID string) ([]models.DocumentVersion, error)

	// Delete removes a version row
	Delete(ctx context.Context, id string) error
}
