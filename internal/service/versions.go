package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
	"curator/internal/domain/services"
)

// versionLedger implements the VersionLedger interface. The
// one-file-one-record invariant is not checked here: the repositories map
// the file claim violation to domain.LinkageError, which closes the race
// a read-then-insert check would leave open.
type versionLedger struct {
	docRepo   repositories.LogicalDocumentRepository
	verRepo   repositories.DocumentVersionRepository
	fileRepo  repositories.ManagedFileRepository
	disk      *DiskStore
	hasher    services.ContentHasher
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewVersionLedger creates a new version ledger service
func NewVersionLedger(
	docRepo repositories.LogicalDocumentRepository,
	verRepo repositories.DocumentVersionRepository,
	fileRepo repositories.ManagedFileRepository,
	disk *DiskStore,
	hasher services.ContentHasher,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.VersionLedger {
	return &versionLedger{
		docRepo:   docRepo,
		verRepo:   verRepo,
		fileRepo:  fileRepo,
		disk:      disk,
		hasher:    hasher,
		txManager: txManager,
		logger:    logger,
	}
}

// CreateDocument creates a logical document with no versions
func (s *versionLedger) CreateDocument(ctx context.Context, req *services.CreateDocumentRequest) (*models.LogicalDocument, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.DocType, validation.Required, validation.In(
			string(models.DocTypeChoreographyNotes),
			string(models.DocTypeMusicSheet),
			string(models.DocTypeInvoice),
			string(models.DocTypeContract),
			string(models.DocTypeProgram),
			string(models.DocTypeOther),
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	doc := &models.LogicalDocument{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		Name:        strings.TrimSpace(req.Name),
		DocType:     models.DocumentType(req.DocType),
		Description: req.Description,
		DefaultPath: req.DefaultPath,
		Status:      models.DocStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("logical document created",
		"document_id", doc.ID,
		"doc_type", doc.DocType,
	)
	return doc, nil
}

// GetDocument retrieves a logical document
func (s *versionLedger) GetDocument(ctx context.Context, id string) (*models.LogicalDocument, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrValidation)
	}
	return s.docRepo.GetByID(ctx, id)
}

// ListDocuments lists all logical documents
func (s *versionLedger) ListDocuments(ctx context.Context) ([]models.LogicalDocument, error) {
	return s.docRepo.List(ctx)
}

// CreateVersion links a managed file to a document as a new version. The
// insert itself enforces that the file is not already consumed.
func (s *versionLedger) CreateVersion(ctx context.Context, req *services.CreateVersionRequest) (*models.DocumentVersion, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.LogicalDocumentID, validation.Required),
		validation.Field(&req.ManagedFileID, validation.Required),
		validation.Field(&req.VersionTag, validation.Required, validation.Length(1, 255)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Both lookups produce clean not-found errors before the insert; the
	// foreign keys would catch them anyway but with opaque messages.
	if _, err := s.docRepo.GetByID(ctx, req.LogicalDocumentID); err != nil {
		return nil, err
	}
	if _, err := s.fileRepo.GetByID(ctx, req.ManagedFileID); err != nil {
		return nil, err
	}

	now := time.Now()
	version := &models.DocumentVersion{
		ID:                uuid.NewString(),
		LogicalDocumentID: req.LogicalDocumentID,
		VersionTag:        strings.TrimSpace(req.VersionTag),
		IsGeneric:         req.IsGeneric,
		MilestoneRef:      req.MilestoneRef,
		Notes:             req.Notes,
		ManagedFileID:     req.ManagedFileID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// The claim and the version row are two inserts; one transaction keeps
	// them atomic.
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.verRepo.Create(txCtx, version)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document version created",
		"version_id", version.ID,
		"document_id", version.LogicalDocumentID,
		"managed_file_id", version.ManagedFileID,
	)
	return version, nil
}

// GetVersion retrieves a version
func (s *versionLedger) GetVersion(ctx context.Context, id string) (*models.DocumentVersion, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: version id is required", domain.ErrValidation)
	}
	return s.verRepo.GetByID(ctx, id)
}

// ListVersions lists versions of a logical document, newest first
func (s *versionLedger) ListVersions(ctx context.Context, logicalDocumentID string) ([]models.DocumentVersion, error) {
	if logicalDocumentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrValidation)
	}
	return s.verRepo.ListByDocument(ctx, logicalDocumentID)
}

// DeleteVersion removes a version. Clearing the official pointer and
// deleting the row happen in one transaction so the pointer never dangles.
func (s *versionLedger) DeleteVersion(ctx context.Context, id string) error {
	version, err := s.verRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		doc, err := s.docRepo.GetByID(txCtx, version.LogicalDocumentID)
		if err != nil {
			return err
		}
		if doc.OfficialVersionID != nil && *doc.OfficialVersionID == id {
			if err := s.docRepo.SetOfficialVersion(txCtx, doc.ID, nil); err != nil {
				return err
			}
		}
		return s.verRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("document version deleted",
		"version_id", id,
		"document_id", version.LogicalDocumentID,
	)
	return nil
}

// SetOfficialVersion marks one of the document's own versions official.
// A nil versionID clears the pointer.
func (s *versionLedger) SetOfficialVersion(ctx context.Context, docID string, versionID *string) error {
	if docID == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrValidation)
	}

	if _, err := s.docRepo.GetByID(ctx, docID); err != nil {
		return err
	}

	if versionID != nil {
		version, err := s.verRepo.GetByID(ctx, *versionID)
		if err != nil {
			return err
		}
		if version.LogicalDocumentID != docID {
			return fmt.Errorf("%w: version %s belongs to another document", domain.ErrValidation, *versionID)
		}
	}

	return s.docRepo.SetOfficialVersion(ctx, docID, versionID)
}

// DuplicateVersion copies the source version's physical file to a
// collision-free sibling, catalogs the copy and creates a new version on it.
// A version row can never share its file with another, so duplication always
// means a physical copy.
func (s *versionLedger) DuplicateVersion(ctx context.Context, sourceVersionID, newTag string) (*models.DocumentVersion, error) {
	newTag = strings.TrimSpace(newTag)
	if newTag == "" {
		return nil, fmt.Errorf("%w: version tag is required", domain.ErrValidation)
	}

	source, err := s.verRepo.GetByID(ctx, sourceVersionID)
	if err != nil {
		return nil, err
	}
	sourceFile, err := s.fileRepo.GetByID(ctx, source.ManagedFileID)
	if err != nil {
		return nil, err
	}

	destPath, err := s.disk.ResolveCollisionFree(filepath.Dir(sourceFile.Path), sourceFile.Name)
	if err != nil {
		return nil, err
	}
	if err := s.disk.Copy(sourceFile.Path, destPath); err != nil {
		return nil, err
	}

	version, err := s.catalogCopy(ctx, source, sourceFile, destPath, newTag)
	if err != nil {
		if rmErr := s.disk.Remove(destPath); rmErr != nil {
			s.logger.Error("failed to remove copied file after failed duplication",
				"path", destPath,
				"error", rmErr,
			)
		}
		return nil, err
	}

	s.logger.Info("document version duplicated",
		"source_version_id", sourceVersionID,
		"version_id", version.ID,
		"path", destPath,
	)
	return version, nil
}

// catalogCopy inserts the catalog row for the duplicated file and the new
// version row in one transaction
func (s *versionLedger) catalogCopy(ctx context.Context, source *models.DocumentVersion, sourceFile *models.ManagedFile, destPath, newTag string) (*models.DocumentVersion, error) {
	hash, err := s.hasher.Hash(ctx, destPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(destPath)
	if err != nil {
		return nil, &domain.IOError{Path: destPath, Op: "stat copied file", Err: err}
	}
	size := info.Size()

	now := time.Now()
	file := &models.ManagedFile{
		ID:           uuid.NewString(),
		Name:         filepath.Base(destPath),
		OriginalName: sourceFile.OriginalName,
		Path:         destPath,
		MimeType:     duplicateMimeType(sourceFile, destPath),
		SizeBytes:    &size,
		ContentHash:  &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	version := &models.DocumentVersion{
		ID:                uuid.NewString(),
		LogicalDocumentID: source.LogicalDocumentID,
		VersionTag:        newTag,
		IsGeneric:         source.IsGeneric,
		MilestoneRef:      source.MilestoneRef,
		Notes:             source.Notes,
		ManagedFileID:     file.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.fileRepo.Create(txCtx, file); err != nil {
			return err
		}
		return s.verRepo.Create(txCtx, version)
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

// duplicateMimeType carries the source MIME type over, falling back to the
// extension when the source row had none
func duplicateMimeType(sourceFile *models.ManagedFile, destPath string) *string {
	if sourceFile.MimeType != nil {
		t := *sourceFile.MimeType
		return &t
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(destPath))); t != "" {
		if i := strings.Index(t, ";"); i >= 0 {
			t = strings.TrimSpace(t[:i])
		}
		return &t
	}
	return nil
}
