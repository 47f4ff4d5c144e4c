package repositories

import (
	"context"

	"curator/internal/domain/models"
)

// ManagedFileRepository defines data access operations for the file catalog
type ManagedFileRepository interface {
	// Create inserts a new catalog row. Fails with a conflict error when the
	// physical path is already cataloged.
	Create(ctx context.Context, file *models.ManagedFile) error

	// GetByID retrieves a catalog entry by ID
	GetByID(ctx context.Context, id string) (*models.ManagedFile, error)

	// GetByPath retrieves a catalog entry by its physical path
	GetByPath(ctx context.Context, path string) (*models.ManagedFile, error)

	// ExistsByPath reports whether any catalog entry occupies the path
	ExistsByPath(ctx context.Context, path string) (bool, error)

	// Update mutates name, path, original name, MIME type and size.
	// ID and content hash are immutable through this operation.
	Update(ctx context.Context, file *models.ManagedFile) error

	// UpdateHash replaces the stored content hash after an explicit re-hash
	UpdateHash(ctx context.Context, id, hash string) error

	// Delete removes the catalog row only; physical deletion is the
	// caller's decision. Fails with not-found on unknown ids.
	Delete(ctx context.Context, id string) error

	// List returns a page of the catalog in insertion order
	List(ctx context.Context, offset, limit int) ([]models.ManagedFile, error)

	// ListFiltered applies search/filter/sort/pagination inside the query
	ListFiltered(ctx context.Context, opts *models.ListFilesOptions) (*models.FileListResult, error)

	// SearchByName finds files whose name contains the substring,
	// case-insensitively
	SearchByName(ctx context.Context, substring string) ([]models.ManagedFile, error)

	// Stats returns the catalog row count and total stored bytes
	Stats(ctx context.Context) (*models.CatalogStats, error)
}
