package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
	"curator/internal/domain/services"
)

// fileOps implements the FileOps facade: user-facing actions composed from a
// catalog lookup, OS file primitives and a catalog update. Path generation
// and collision handling are delegated to the path engine and disk store.
type fileOps struct {
	fileRepo repositories.ManagedFileRepository
	paths    services.PathEngine
	naming   services.NamingEngine
	disk     *DiskStore
	logger   *slog.Logger
}

// NewFileOps creates a new file operations facade
func NewFileOps(
	fileRepo repositories.ManagedFileRepository,
	paths services.PathEngine,
	naming services.NamingEngine,
	disk *DiskStore,
	logger *slog.Logger,
) services.FileOps {
	return &fileOps{
		fileRepo: fileRepo,
		paths:    paths,
		naming:   naming,
		disk:     disk,
		logger:   logger,
	}
}

// Rename changes the file's display and physical name within its directory
func (s *fileOps) Rename(ctx context.Context, fileID, newName string) (*models.ManagedFile, error) {
	newName = SanitizeName(newName)
	if v := s.naming.ValidateName(newName); !v.Valid {
		return nil, fmt.Errorf("%w: invalid name %q", domain.ErrValidation, newName)
	}

	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if newName == file.Name {
		return file, nil
	}

	newPath := filepath.Join(filepath.Dir(file.Path), newName)
	if s.disk.Exists(newPath) {
		return nil, &domain.ConflictError{
			Message:      "a file with that name already exists in the directory",
			ResourceType: "managed_file",
		}
	}

	if err := s.disk.Move(file.Path, newPath); err != nil {
		return nil, err
	}

	oldPath := file.Path
	file.Name = newName
	file.Path = newPath
	if err := s.fileRepo.Update(ctx, file); err != nil {
		// Put the physical file back so disk and catalog stay in step
		if mvErr := s.disk.Move(newPath, oldPath); mvErr != nil {
			s.logger.Error("failed to undo rename after catalog update failure",
				"path", newPath,
				"error", mvErr,
			)
		}
		return nil, err
	}

	s.logger.Info("file renamed",
		"file_id", fileID,
		"old_path", oldPath,
		"new_path", newPath,
	)
	return file, nil
}

// CopyToDirectory copies the physical file into dir as a plain export. The
// copy is not cataloged.
func (s *fileOps) CopyToDirectory(ctx context.Context, fileID, dir string) (string, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}

	if err := s.paths.EnsureDir(dir); err != nil {
		return "", err
	}
	destPath, err := s.disk.ResolveCollisionFree(dir, file.Name)
	if err != nil {
		return "", err
	}
	if err := s.disk.Copy(file.Path, destPath); err != nil {
		return "", err
	}

	s.logger.Info("file copied",
		"file_id", fileID,
		"target", destPath,
	)
	return destPath, nil
}

// SaveAs copies the physical file to an explicit destination path
func (s *fileOps) SaveAs(ctx context.Context, fileID, destPath string) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	if destPath == "" || !filepath.IsAbs(destPath) {
		return fmt.Errorf("%w: destination must be an absolute path", domain.ErrValidation)
	}
	if s.disk.Exists(destPath) {
		return &domain.ConflictError{
			Message:      "destination path already exists",
			ResourceType: "managed_file",
			ResourceID:   fileID,
		}
	}

	if err := s.paths.EnsureDir(filepath.Dir(destPath)); err != nil {
		return err
	}
	return s.disk.Copy(file.Path, destPath)
}

// MoveToTrash removes the catalog row and best-effort moves the physical
// file into the trash directory. The catalog delete happens first so a
// linked file is rejected before anything moves on disk.
func (s *fileOps) MoveToTrash(ctx context.Context, fileID string) (string, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return "", err
	}

	warning := ""
	if !s.disk.Exists(file.Path) {
		warning = "physical file was already gone: " + file.Path
		s.logger.Warn("trashed file was missing on disk",
			"file_id", fileID,
			"path", file.Path,
		)
	} else {
		trashDir := s.paths.TrashPath()
		if err := s.paths.EnsureDir(trashDir); err != nil {
			return "", err
		}
		trashed, err := s.disk.MoveToTrash(file.Path, trashDir)
		if err != nil {
			return "", err
		}
		s.logger.Info("file moved to trash",
			"file_id", fileID,
			"trash_path", trashed,
		)
	}

	return warning, nil
}

// BatchMoveToTrash trashes several files, continuing on per-item errors
func (s *fileOps) BatchMoveToTrash(ctx context.Context, fileIDs []string) *services.BatchOpResult {
	result := &services.BatchOpResult{
		Success: true,
		Items:   []services.OpOutcome{},
	}

	for _, id := range fileIDs {
		outcome := services.OpOutcome{FileID: id}
		warning, err := s.MoveToTrash(ctx, id)
		if err != nil {
			outcome.Error = err.Error()
			result.Success = false
		} else {
			outcome.Success = true
			outcome.Warning = warning
		}
		result.Items = append(result.Items, outcome)
	}

	return result
}

// BatchCopyToDirectory copies several files into dir, continuing on
// per-item errors
func (s *fileOps) BatchCopyToDirectory(ctx context.Context, fileIDs []string, dir string) *services.BatchOpResult {
	result := &services.BatchOpResult{
		Success: true,
		Items:   []services.OpOutcome{},
	}

	for _, id := range fileIDs {
		outcome := services.OpOutcome{FileID: id}
		destPath, err := s.CopyToDirectory(ctx, id, dir)
		if err != nil {
			outcome.Error = err.Error()
			result.Success = false
		} else {
			outcome.Success = true
			outcome.NewPath = destPath
		}
		result.Items = append(result.Items, outcome)
	}

	return result
}
