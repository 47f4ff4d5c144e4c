package repositories

import (
	"context"

	"curator/internal/domain/models"
)

// ProjectAssetRepository defines data access operations for project assets.
// Same linkage contract as document versions: the file claim written by the
// insert is the only linkage check, and it spans all record kinds.
type ProjectAssetRepository interface {
	// Create inserts an asset row. Returns domain.LinkageError when the
	// managed file is already consumed by any domain record.
	Create(ctx context.Context, asset *models.ProjectAsset) error

	// GetByID retrieves an asset by ID
	GetByID(ctx context.Context, id string) (*models.ProjectAsset, error)

	// ListByProject lists assets of one project ordered by name
	ListByProject(ctx context.Context, projectID string) ([]models.ProjectAsset, error)

	// Delete removes an asset row
	Delete(ctx context.Context, id string) error
}

// ExpenseAttachmentRepository defines data access operations for expense
// attachments
type ExpenseAttachmentRepository interface {
	// Create inserts an attachment row. Returns domain.LinkageError when
	// the managed file is already consumed by any domain record.
	Create(ctx context.Context, att *models.ExpenseAttachment) error

	// GetByID retrieves an attachment by ID
	GetByID(ctx context.Context, id string) (*models.ExpenseAttachment, error)

	// ListByProject lists attachments of one project, newest first
	ListByProject(ctx context.Context, projectID string) ([]models.ExpenseAttachment, error)

	// Delete removes an attachment row
	Delete(ctx context.Context, id string) error
}
