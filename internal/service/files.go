package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
	"curator/internal/domain/services"
)

// fileService implements catalog-level operations on managed files
type fileService struct {
	fileRepo repositories.ManagedFileRepository
	hasher   services.ContentHasher
	disk     *DiskStore
	logger   *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repositories.ManagedFileRepository,
	hasher services.ContentHasher,
	disk *DiskStore,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		fileRepo: fileRepo,
		hasher:   hasher,
		disk:     disk,
		logger:   logger,
	}
}

// GetFile retrieves a catalog entry
func (s *fileService) GetFile(ctx context.Context, id string) (*models.ManagedFile, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: file id is required", domain.ErrValidation)
	}
	return s.fileRepo.GetByID(ctx, id)
}

// ListFiles applies filtering, sorting and pagination in the query layer
func (s *fileService) ListFiles(ctx context.Context, opts *models.ListFilesOptions) (*models.FileListResult, error) {
	if opts == nil {
		opts = &models.ListFilesOptions{}
	}
	opts.ApplyDefaults()
	return s.fileRepo.ListFiltered(ctx, opts)
}

// SearchFiles finds files by case-insensitive name substring
func (s *fileService) SearchFiles(ctx context.Context, substring string) ([]models.ManagedFile, error) {
	substring = strings.TrimSpace(substring)
	if substring == "" {
		return nil, fmt.Errorf("%w: search term is required", domain.ErrValidation)
	}
	return s.fileRepo.SearchByName(ctx, substring)
}

// Stats summarizes the catalog
func (s *fileService) Stats(ctx context.Context) (*models.CatalogStats, error) {
	return s.fileRepo.Stats(ctx)
}

// CheckIntegrity recomputes the file's hash and compares it to the stored
// value. Missing and corrupted files are findings, not errors.
func (s *fileService) CheckIntegrity(ctx context.Context, id string) (*models.IntegrityReport, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	report := &models.IntegrityReport{
		FileID: file.ID,
		Path:   file.Path,
	}
	if file.ContentHash != nil {
		report.StoredHash = *file.ContentHash
	}

	computed, err := s.hasher.Hash(ctx, file.Path)
	if err != nil {
		var nfe *domain.NotFoundError
		if errors.As(err, &nfe) {
			report.Status = models.IntegrityMissing
			return report, nil
		}
		return nil, err
	}
	report.ComputedHash = computed

	switch {
	case file.ContentHash == nil:
		report.Status = models.IntegrityUnknown
	case *file.ContentHash == computed:
		report.Status = models.IntegrityOK
	default:
		report.Status = models.IntegrityMismatch
		s.logger.Warn("content hash mismatch",
			"file_id", file.ID,
			"path", file.Path,
		)
	}

	return report, nil
}

// DeleteFile removes the catalog row; the database rejects the delete while
// any version, asset or attachment still consumes the file. The physical
// file is removed only after the row is gone.
func (s *fileService) DeleteFile(ctx context.Context, id string, deletePhysical bool) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return err
	}

	if deletePhysical {
		if err := s.disk.Remove(file.Path); err != nil {
			// The catalog row is already gone. Report the leftover file
			// instead of failing the whole operation.
			s.logger.Error("catalog row deleted but physical file removal failed",
				"file_id", id,
				"path", file.Path,
				"error", err,
			)
			return &domain.IOError{Path: file.Path, Op: "remove file", Err: err}
		}
	}

	s.logger.Info("file deleted",
		"file_id", id,
		"physical", deletePhysical,
	)
	return nil
}
