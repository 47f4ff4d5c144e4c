package services

import (
	"context"

	"curator/internal/domain/models"
)

// FileService exposes catalog-level operations on managed files
type FileService interface {
	// GetFile retrieves a catalog entry
	GetFile(ctx context.Context, id string) (*models.ManagedFile, error)

	// ListFiles applies filtering, sorting and pagination in the storage
	// query layer
	ListFiles(ctx context.Context, opts *models.ListFilesOptions) (*models.FileListResult, error)

	// SearchFiles finds files by case-insensitive name substring
	SearchFiles(ctx context.Context, substring string) ([]models.ManagedFile, error)

	// Stats summarizes the catalog
	Stats(ctx context.Context) (*models.CatalogStats, error)

	// CheckIntegrity recomputes the file's hash and compares it to the
	// stored value
	CheckIntegrity(ctx context.Context, id string) (*models.IntegrityReport, error)

	// DeleteFile removes the catalog row; when deletePhysical is set the
	// file on disk is removed too. Linked files cannot be deleted while
	// a domain record consumes them.
	DeleteFile(ctx context.Context, id string, deletePhysical bool) error
}
