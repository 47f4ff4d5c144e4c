package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
	"curator/internal/domain/services"
)

// linkageService implements the LinkageService interface. Like the version
// ledger it never pre-checks whether a file is consumed; the file claim
// written by the insert is the authority, and it spans versions, assets and
// expense attachments alike.
type linkageService struct {
	assetRepo repositories.ProjectAssetRepository
	expRepo   repositories.ExpenseAttachmentRepository
	fileRepo  repositories.ManagedFileRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewLinkageService creates a new linkage service
func NewLinkageService(
	assetRepo repositories.ProjectAssetRepository,
	expRepo repositories.ExpenseAttachmentRepository,
	fileRepo repositories.ManagedFileRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.LinkageService {
	return &linkageService{
		assetRepo: assetRepo,
		expRepo:   expRepo,
		fileRepo:  fileRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// CreateAsset links a managed file to a project as an asset
func (s *linkageService) CreateAsset(ctx context.Context, req *services.CreateAssetRequest) (*models.ProjectAsset, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.AssetType, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.ManagedFileID, validation.Required),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.fileRepo.GetByID(ctx, req.ManagedFileID); err != nil {
		return nil, err
	}

	now := time.Now()
	asset := &models.ProjectAsset{
		ID:            uuid.NewString(),
		ProjectID:     req.ProjectID,
		AssetType:     req.AssetType,
		Name:          strings.TrimSpace(req.Name),
		ManagedFileID: req.ManagedFileID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.assetRepo.Create(txCtx, asset)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project asset created",
		"asset_id", asset.ID,
		"project_id", asset.ProjectID,
		"managed_file_id", asset.ManagedFileID,
	)
	return asset, nil
}

// GetAsset retrieves an asset
func (s *linkageService) GetAsset(ctx context.Context, id string) (*models.ProjectAsset, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: asset id is required", domain.ErrValidation)
	}
	return s.assetRepo.GetByID(ctx, id)
}

// ListAssets lists a project's assets
func (s *linkageService) ListAssets(ctx context.Context, projectID string) ([]models.ProjectAsset, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", domain.ErrValidation)
	}
	return s.assetRepo.ListByProject(ctx, projectID)
}

// DeleteAsset removes the link and frees the file for future linkage
func (s *linkageService) DeleteAsset(ctx context.Context, id string) error {
	if _, err := s.assetRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.assetRepo.Delete(txCtx, id)
	})
}

// CreateExpense links a managed file to a project expense
func (s *linkageService) CreateExpense(ctx context.Context, req *services.CreateExpenseRequest) (*models.ExpenseAttachment, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Description, validation.Required),
		validation.Field(&req.AmountCents, validation.Min(0)),
		validation.Field(&req.ManagedFileID, validation.Required),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.fileRepo.GetByID(ctx, req.ManagedFileID); err != nil {
		return nil, err
	}

	now := time.Now()
	att := &models.ExpenseAttachment{
		ID:            uuid.NewString(),
		ProjectID:     req.ProjectID,
		Description:   strings.TrimSpace(req.Description),
		AmountCents:   req.AmountCents,
		ManagedFileID: req.ManagedFileID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.expRepo.Create(txCtx, att)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense attachment created",
		"expense_id", att.ID,
		"project_id", att.ProjectID,
		"managed_file_id", att.ManagedFileID,
	)
	return att, nil
}

// GetExpense retrieves an expense attachment
func (s *linkageService) GetExpense(ctx context.Context, id string) (*models.ExpenseAttachment, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: expense id is required", domain.ErrValidation)
	}
	return s.expRepo.GetByID(ctx, id)
}

// ListExpenses lists a project's expense attachments
func (s *linkageService) ListExpenses(ctx context.Context, projectID string) ([]models.ExpenseAttachment, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", domain.ErrValidation)
	}
	return s.expRepo.ListByProject(ctx, projectID)
}

// DeleteExpense removes the link and frees the file for future linkage
func (s *linkageService) DeleteExpense(ctx context.Context, id string) error {
	if _, err := s.expRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.expRepo.Delete(txCtx, id)
	})
}
