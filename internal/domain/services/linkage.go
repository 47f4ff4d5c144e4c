package services

import (
	"context"

	"curator/internal/domain/models"
)

// CreateAssetRequest links an already-cataloged managed file to a project as
// an asset
type CreateAssetRequest struct {
	ProjectID     string `json:"project_id"`
	AssetType     string `json:"asset_type"`
	Name          string `json:"name"`
	ManagedFileID string `json:"managed_file_id"`
}

// CreateExpenseRequest links an already-cataloged managed file to a project
// expense
type CreateExpenseRequest struct {
	ProjectID     string `json:"project_id"`
	Description   string `json:"description"`
	AmountCents   int64  `json:"amount_cents"`
	ManagedFileID string `json:"managed_file_id"`
}

// LinkageService manages asset and expense links under the same contract as
// the version ledger: one managed file feeds at most one domain record of
// any kind, enforced by the storage layer's file claim.
type LinkageService interface {
	// CreateAsset fails with domain.LinkageError when the managed file is
	// already consumed by any domain record
	CreateAsset(ctx context.Context, req *CreateAssetRequest) (*models.ProjectAsset, error)

	// GetAsset retrieves an asset
	GetAsset(ctx context.Context, id string) (*models.ProjectAsset, error)

	// ListAssets lists a project's assets
	ListAssets(ctx context.Context, projectID string) ([]models.ProjectAsset, error)

	// DeleteAsset removes the link; the managed file stays cataloged
	DeleteAsset(ctx context.Context, id string) error

	// CreateExpense fails with domain.LinkageError when the managed file is
	// already consumed by any domain record
	CreateExpense(ctx context.Context, req *CreateExpenseRequest) (*models.ExpenseAttachment, error)

	// GetExpense retrieves an expense attachment
	GetExpense(ctx context.Context, id string) (*models.ExpenseAttachment, error)

	// ListExpenses lists a project's expense attachments
	ListExpenses(ctx context.Context, projectID string) ([]models.ExpenseAttachment, error)

	// DeleteExpense removes the link; the managed file stays cataloged
	DeleteExpense(ctx context.Context, id string) error
}
