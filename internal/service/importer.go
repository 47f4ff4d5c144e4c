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
	"curator/internal/registry"
)

// importService implements the ImportService interface. It composes the
// naming engine, path engine, disk store, hasher and repositories into one
// logical import with compensating cleanup: the placed file is the first
// reversible step, and the catalog row plus the domain link share a single
// transaction, so a failure at any point leaves neither an orphaned file nor
// a dangling row.
type importService struct {
	naming    services.NamingEngine
	paths     services.PathEngine
	hasher    services.ContentHasher
	disk      *DiskStore
	registry  *registry.Registry
	fileRepo  repositories.ManagedFileRepository
	docRepo   repositories.LogicalDocumentRepository
	verRepo   repositories.DocumentVersionRepository
	assetRepo repositories.ProjectAssetRepository
	expRepo   repositories.ExpenseAttachmentRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewImportService creates a new import orchestrator
func NewImportService(
	naming services.NamingEngine,
	paths services.PathEngine,
	hasher services.ContentHasher,
	disk *DiskStore,
	reg *registry.Registry,
	fileRepo repositories.ManagedFileRepository,
	docRepo repositories.LogicalDocumentRepository,
	verRepo repositories.DocumentVersionRepository,
	assetRepo repositories.ProjectAssetRepository,
	expRepo repositories.ExpenseAttachmentRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ImportService {
	return &importService{
		naming:    naming,
		paths:     paths,
		hasher:    hasher,
		disk:      disk,
		registry:  reg,
		fileRepo:  fileRepo,
		docRepo:   docRepo,
		verRepo:   verRepo,
		assetRepo: assetRepo,
		expRepo:   expRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// importPlan is the outcome of the pure planning steps: generated name and
// target directory, before any filesystem mutation.
type importPlan struct {
	name     string
	dir      string
	warnings []string
	// doc is resolved for document imports and reused when linking
	doc *models.LogicalDocument
}

// ImportFile runs the full pipeline for one file
func (s *importService) ImportFile(ctx context.Context, req *services.ImportRequest) (*services.ImportResult, error) {
	result := &services.ImportResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	plan, err := s.plan(ctx, req)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}
	result.Warnings = append(result.Warnings, plan.warnings...)

	// Ensure the canonical directory, then resolve a collision-free
	// destination. This is a filesystem-level check, separate from the
	// naming engine's uniqueness helper.
	if err := s.paths.EnsureDir(plan.dir); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}

	destPath, err := s.disk.ResolveCollisionFree(plan.dir, plan.name)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}

	// Place the file. This is the first side effect; everything after it
	// either commits or compensates by undoing the placement.
	if req.Move {
		err = s.disk.Move(req.SourcePath, destPath)
	} else {
		err = s.disk.Copy(req.SourcePath, destPath)
	}
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}

	fileID, linkID, err := s.catalogAndLink(ctx, req, plan, destPath)
	if err != nil {
		s.compensatePlacement(req, destPath)
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}

	result.Success = true
	result.ManagedFileID = fileID
	result.LinkID = linkID
	result.TargetPath = destPath

	s.logger.Info("file imported",
		"category", req.Category,
		"source", req.SourcePath,
		"target", destPath,
		"managed_file_id", fileID,
	)

	return result, nil
}

// catalogAndLink hashes the placed file and inserts the catalog row plus the
// domain link inside one transaction
func (s *importService) catalogAndLink(ctx context.Context, req *services.ImportRequest, plan *importPlan, destPath string) (fileID, linkID string, err error) {
	hash, err := s.hasher.Hash(ctx, destPath)
	if err != nil {
		return "", "", err
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return "", "", &domain.IOError{Path: destPath, Op: "stat placed file", Err: err}
	}
	size := info.Size()

	now := time.Now()
	file := &models.ManagedFile{
		ID:           uuid.NewString(),
		Name:         filepath.Base(destPath),
		OriginalName: filepath.Base(req.SourcePath),
		Path:         destPath,
		MimeType:     mimeTypeFor(destPath),
		SizeBytes:    &size,
		ContentHash:  &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.fileRepo.Create(txCtx, file); err != nil {
			return err
		}

		id, err := s.link(txCtx, req, plan, file.ID)
		if err != nil {
			return err
		}
		linkID = id
		return nil
	})
	if err != nil {
		return "", "", err
	}

	return file.ID, linkID, nil
}

// link creates the domain record consuming the managed file. Inbox and
// competition imports are catalog-only.
func (s *importService) link(ctx context.Context, req *services.ImportRequest, plan *importPlan, fileID string) (string, error) {
	now := time.Now()

	switch req.Category {
	case services.ImportDocument:
		version := &models.DocumentVersion{
			ID:                uuid.NewString(),
			LogicalDocumentID: req.LogicalDocumentID,
			VersionTag:        req.VersionTag,
			IsGeneric:         req.IsGeneric,
			MilestoneRef:      req.MilestoneRef,
			Notes:             req.Notes,
			ManagedFileID:     fileID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.verRepo.Create(ctx, version); err != nil {
			return "", err
		}
		return version.ID, nil

	case services.ImportAsset:
		asset := &models.ProjectAsset{
			ID:            uuid.NewString(),
			ProjectID:     req.ProjectID,
			AssetType:     req.AssetType,
			Name:          req.AssetName,
			ManagedFileID: fileID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.assetRepo.Create(ctx, asset); err != nil {
			return "", err
		}
		return asset.ID, nil

	case services.ImportExpense:
		att := &models.ExpenseAttachment{
			ID:            uuid.NewString(),
			ProjectID:     req.ProjectID,
			Description:   req.ExpenseDescription,
			AmountCents:   req.AmountCents,
			ManagedFileID: fileID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.expRepo.Create(ctx, att); err != nil {
			return "", err
		}
		return att.ID, nil

	default:
		return "", nil
	}
}

// compensatePlacement undoes the physical placement after a downstream
// failure: moved files go back to the source, copies are removed
func (s *importService) compensatePlacement(req *services.ImportRequest, destPath string) {
	var err error
	if req.Move {
		err = s.disk.Move(destPath, req.SourcePath)
	} else {
		err = s.disk.Remove(destPath)
	}
	if err != nil {
		// Nothing more can be done; surface it loudly in the log
		s.logger.Error("failed to undo file placement after failed import",
			"target", destPath,
			"move", req.Move,
			"error", err,
		)
		return
	}

	s.logger.Debug("undid file placement after failed import", "target", destPath)
}

// PreviewImport computes the would-be name and destination without touching
// the filesystem or the database
func (s *importService) PreviewImport(ctx context.Context, req *services.ImportRequest) (*services.ImportPreview, error) {
	preview := &services.ImportPreview{
		Errors:   []string{},
		Warnings: []string{},
	}

	plan, err := s.plan(ctx, req)
	if err != nil {
		preview.Errors = append(preview.Errors, err.Error())
		return preview, nil
	}

	// Collision probing only stats; it never creates anything
	destPath, err := s.disk.ResolveCollisionFree(plan.dir, plan.name)
	if err != nil {
		preview.Errors = append(preview.Errors, err.Error())
		return preview, nil
	}

	preview.Valid = true
	preview.Name = plan.name
	preview.TargetDir = plan.dir
	preview.TargetPath = destPath
	preview.Warnings = append(preview.Warnings, plan.warnings...)
	return preview, nil
}

// BatchImport imports sequentially, continuing on per-item errors. Context
// cancellation stops issuing further items; completed items stay committed.
func (s *importService) BatchImport(ctx context.Context, reqs []*services.ImportRequest) *services.BatchImportResult {
	result := &services.BatchImportResult{
		Success: true,
		Items:   []services.ImportResult{},
	}

	for _, req := range reqs {
		if ctx.Err() != nil {
			s.logger.Warn("batch import cancelled",
				"completed", len(result.Items),
				"total", len(reqs),
			)
			result.Success = false
			break
		}

		item, err := s.ImportFile(ctx, req)
		if err != nil {
			result.Success = false
		}
		result.Items = append(result.Items, *item)
	}

	return result
}

// plan validates the request and runs the pure planning steps: source check,
// extension check, name and directory generation
func (s *importService) plan(ctx context.Context, req *services.ImportRequest) (*importPlan, error) {
	if err := validateImportRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	info, err := os.Stat(req.SourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.NotFoundError{Message: "source file not found: " + req.SourcePath}
		}
		return nil, &domain.IOError{Path: req.SourcePath, Op: "stat source", Err: err}
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: source path is a directory: %s", domain.ErrValidation, req.SourcePath)
	}

	ext := strings.ToLower(filepath.Ext(req.SourcePath))
	if !s.registry.ExtensionAllowed(string(req.Category), ext) {
		return nil, fmt.Errorf("%w: extension %q is not supported for category %s",
			domain.ErrValidation, ext, req.Category)
	}

	plan := &importPlan{warnings: []string{}}

	if req.Category == services.ImportExpense {
		if preferred := s.registry.ExpensePreferredExtension(); preferred != "" && ext != preferred {
			plan.warnings = append(plan.warnings,
				fmt.Sprintf("expenses prefer %s attachments, got %s", preferred, ext))
		}
	}

	if req.Category == services.ImportDocument {
		doc, err := s.docRepo.GetByID(ctx, req.LogicalDocumentID)
		if err != nil {
			return nil, err
		}
		plan.doc = doc
	}

	plan.name = s.planName(req, plan.doc, ext)
	plan.dir = s.planDir(req, plan.doc)

	if v := s.naming.ValidateName(plan.name); !v.Valid {
		return nil, fmt.Errorf("%w: generated name invalid: %s", domain.ErrValidation, strings.Join(v.Errors, "; "))
	}

	return plan, nil
}

// planName picks the canonical file name for the import
func (s *importService) planName(req *services.ImportRequest, doc *models.LogicalDocument, ext string) string {
	if req.PreserveOriginalName {
		name := SanitizeName(filepath.Base(req.SourcePath))
		if name == "" {
			name = "unnamed" + ext
		}
		return name
	}

	switch req.Category {
	case services.ImportDocument:
		var competition *services.CompetitionRef
		if req.CompetitionSeries != "" && req.CompetitionLevel != "" {
			competition = &services.CompetitionRef{
				Series: req.CompetitionSeries,
				Level:  req.CompetitionLevel,
			}
		}
		return s.naming.GenerateVersionName(services.VersionNameParams{
			DocType:     string(doc.DocType),
			VersionTag:  req.VersionTag,
			IsGeneric:   req.IsGeneric,
			Competition: competition,
			ProjectName: req.ProjectName,
			Extension:   ext,
			Timestamp:   req.Timestamp,
		})

	case services.ImportAsset:
		return s.naming.GenerateAssetName(services.AssetNameParams{
			ProjectName: req.ProjectName,
			AssetType:   req.AssetType,
			AssetName:   req.AssetName,
			Extension:   ext,
			Timestamp:   req.Timestamp,
		})

	case services.ImportExpense:
		return s.naming.GenerateExpenseName(services.ExpenseNameParams{
			ProjectName: req.ProjectName,
			Description: req.ExpenseDescription,
			Extension:   ext,
			Timestamp:   req.Timestamp,
		})

	default:
		// Competition materials and inbox drops keep their original name
		name := SanitizeName(filepath.Base(req.SourcePath))
		if name == "" {
			name = "unnamed" + ext
		}
		return name
	}
}

// planDir picks the canonical directory for the import
func (s *importService) planDir(req *services.ImportRequest, doc *models.LogicalDocument) string {
	switch req.Category {
	case services.ImportDocument:
		defaultPath := ""
		if doc.DefaultPath != nil {
			defaultPath = *doc.DefaultPath
		}
		return s.paths.DocumentPath(doc.Name, string(doc.DocType), defaultPath)
	case services.ImportAsset:
		return s.paths.AssetPath(req.ProjectName, req.AssetType)
	case services.ImportExpense:
		return s.paths.ExpensePath(req.ProjectName)
	case services.ImportCompetition:
		return s.paths.CompetitionPath(req.CompetitionSeries, req.CompetitionLevel)
	default:
		return s.paths.InboxPath(req.Timestamp)
	}
}

// validateImportRequest checks the fields each category requires
func validateImportRequest(req *services.ImportRequest) error {
	isCategory := func(cats ...services.ImportCategory) bool {
		for _, c := range cats {
			if req.Category == c {
				return true
			}
		}
		return false
	}

	return validation.ValidateStruct(req,
		validation.Field(&req.SourcePath, validation.Required),
		validation.Field(&req.Category, validation.Required, validation.In(
			services.ImportDocument,
			services.ImportAsset,
			services.ImportExpense,
			services.ImportCompetition,
			services.ImportInbox,
		)),
		validation.Field(&req.LogicalDocumentID,
			validation.Required.When(isCategory(services.ImportDocument)).Error("required for document imports"),
		),
		validation.Field(&req.VersionTag,
			validation.Required.When(isCategory(services.ImportDocument)).Error("required for document imports"),
			validation.Length(0, 255),
		),
		validation.Field(&req.ProjectID,
			validation.Required.When(isCategory(services.ImportAsset, services.ImportExpense)).Error("required for asset and expense imports"),
		),
		validation.Field(&req.ProjectName,
			validation.Required.When(isCategory(services.ImportAsset, services.ImportExpense)).Error("required for asset and expense imports"),
		),
		validation.Field(&req.AssetType,
			validation.Required.When(isCategory(services.ImportAsset)).Error("required for asset imports"),
		),
		validation.Field(&req.AssetName,
			validation.Required.When(isCategory(services.ImportAsset)).Error("required for asset imports"),
		),
		validation.Field(&req.ExpenseDescription,
			validation.Required.When(isCategory(services.ImportExpense)).Error("required for expense imports"),
		),
		validation.Field(&req.CompetitionSeries,
			validation.Required.When(isCategory(services.ImportCompetition)).Error("required for competition imports"),
		),
		validation.Field(&req.CompetitionLevel,
			validation.Required.When(isCategory(services.ImportCompetition)).Error("required for competition imports"),
		),
	)
}

// mimeTypeFor derives the MIME type from the file extension, nil when
// unknown
func mimeTypeFor(path string) *string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if t == "" {
		return nil
	}
	// Strip charset parameters; the catalog stores the bare type
	if i := strings.Index(t, ";"); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return &t
}
