package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
)

// setupIntegrationRepos connects to the database named by
// CURATOR_TEST_DATABASE_URL and creates a throwaway prefixed table set.
// The whole test is skipped when the variable is unset or -short is given.
func setupIntegrationRepos(t *testing.T) (*RepositoryConfig, repositories.TransactionManager) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("CURATOR_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CURATOR_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := CreateConnectionPool(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	tables := NewTableNames(fmt.Sprintf("it%d_", time.Now().UnixNano()))

	ddl := []string{
		fmt.Sprintf(`CREATE TABLE %s (
			id            UUID PRIMARY KEY,
			name          VARCHAR(255) NOT NULL,
			original_name VARCHAR(255) NOT NULL,
			path          TEXT NOT NULL UNIQUE,
			mime_type     VARCHAR(127),
			size_bytes    BIGINT,
			content_hash  CHAR(64),
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, tables.ManagedFiles),
		fmt.Sprintf(`CREATE TABLE %s (
			id                  UUID PRIMARY KEY,
			project_id          UUID,
			name                VARCHAR(255) NOT NULL,
			doc_type            VARCHAR(64) NOT NULL,
			description         TEXT NOT NULL DEFAULT '',
			default_path        TEXT,
			status              VARCHAR(32) NOT NULL DEFAULT 'active',
			official_version_id UUID,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, tables.LogicalDocuments),
		fmt.Sprintf(`CREATE TABLE %s (
			managed_file_id UUID PRIMARY KEY REFERENCES %s(id),
			link_type       VARCHAR(16) NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, tables.FileClaims, tables.ManagedFiles),
		fmt.Sprintf(`CREATE TABLE %s (
			id                  UUID PRIMARY KEY,
			logical_document_id UUID NOT NULL REFERENCES %s(id),
			version_tag         VARCHAR(255) NOT NULL,
			is_generic          BOOLEAN NOT NULL DEFAULT FALSE,
			milestone_ref       UUID,
			notes               TEXT NOT NULL DEFAULT '',
			managed_file_id     UUID NOT NULL UNIQUE REFERENCES %s(id),
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, tables.DocumentVersions, tables.LogicalDocuments, tables.ManagedFiles),
		fmt.Sprintf(`CREATE TABLE %s (
			id              UUID PRIMARY KEY,
			project_id      UUID NOT NULL,
			asset_type      VARCHAR(64) NOT NULL,
			name            VARCHAR(255) NOT NULL,
			managed_file_id UUID NOT NULL UNIQUE REFERENCES %s(id),
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, tables.ProjectAssets, tables.ManagedFiles),
		fmt.Sprintf(`CREATE TABLE %s (
			id              UUID PRIMARY KEY,
			project_id      UUID NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			amount_cents    BIGINT NOT NULL DEFAULT 0,
			managed_file_id UUID NOT NULL UNIQUE REFERENCES %s(id),
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, tables.ExpenseAttachments, tables.ManagedFiles),
	}
	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("create tables: %v", err)
		}
	}
	t.Cleanup(func() {
		drop := []string{
			tables.DocumentVersions,
			tables.ProjectAssets,
			tables.ExpenseAttachments,
			tables.FileClaims,
			tables.LogicalDocuments,
			tables.ManagedFiles,
		}
		for _, tbl := range drop {
			if _, err := pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+tbl+" CASCADE"); err != nil {
				t.Logf("drop %s: %v", tbl, err)
			}
		}
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	return cfg, NewTransactionManager(cfg.Pool, logger)
}

func seedManagedFile(t *testing.T, repo repositories.ManagedFileRepository) string {
	t.Helper()
	now := time.Now()
	id := uuid.NewString()
	err := repo.Create(context.Background(), &models.ManagedFile{
		ID:           id,
		Name:         id + ".pdf",
		OriginalName: "receipt.pdf",
		Path:         "/managed/" + id + ".pdf",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("seed managed file: %v", err)
	}
	return id
}

func seedLogicalDocument(t *testing.T, repo repositories.LogicalDocumentRepository) string {
	t.Helper()
	now := time.Now()
	id := uuid.NewString()
	err := repo.Create(context.Background(), &models.LogicalDocument{
		ID:        id,
		Name:      "Doc " + id,
		DocType:   models.DocTypeOther,
		Status:    models.DocStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed logical document: %v", err)
	}
	return id
}

// TestFileClaimExclusivityIntegration exercises the real claim and unique
// constraints: a managed file consumed by any record rejects every other
// linkage attempt, of its own kind or another, until that record is deleted.
func TestFileClaimExclusivityIntegration(t *testing.T) {
	cfg, txManager := setupIntegrationRepos(t)
	ctx := context.Background()

	fileRepo := NewManagedFileRepository(cfg)
	docRepo := NewLogicalDocumentRepository(cfg)
	verRepo := NewDocumentVersionRepository(cfg)
	assetRepo := NewProjectAssetRepository(cfg)
	expRepo := NewExpenseAttachmentRepository(cfg)

	fileID := seedManagedFile(t, fileRepo)
	docID := seedLogicalDocument(t, docRepo)
	projectID := uuid.NewString()
	now := time.Now()

	version := &models.DocumentVersion{
		ID:                uuid.NewString(),
		LogicalDocumentID: docID,
		VersionTag:        "draft 1",
		ManagedFileID:     fileID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err := txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return verRepo.Create(txCtx, version)
	})
	if err != nil {
		t.Fatalf("create version: %v", err)
	}

	t.Run("second version on same file", func(t *testing.T) {
		err := txManager.ExecTx(ctx, func(txCtx context.Context) error {
			return verRepo.Create(txCtx, &models.DocumentVersion{
				ID:                uuid.NewString(),
				LogicalDocumentID: docID,
				VersionTag:        "draft 2",
				ManagedFileID:     fileID,
				CreatedAt:         now,
				UpdatedAt:         now,
			})
		})
		if !errors.Is(err, domain.ErrLinkage) {
			t.Fatalf("error = %v, want linkage conflict", err)
		}
		var linkErr *domain.LinkageError
		if !errors.As(err, &linkErr) || linkErr.ManagedFileID != fileID {
			t.Fatalf("error %v does not identify the consumed file", err)
		}
	})

	t.Run("asset on same file", func(t *testing.T) {
		err := txManager.ExecTx(ctx, func(txCtx context.Context) error {
			return assetRepo.Create(txCtx, &models.ProjectAsset{
				ID:            uuid.NewString(),
				ProjectID:     projectID,
				AssetType:     "music",
				Name:          "Adagio",
				ManagedFileID: fileID,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		})
		if !errors.Is(err, domain.ErrLinkage) {
			t.Fatalf("error = %v, want linkage conflict", err)
		}
	})

	t.Run("expense on same file", func(t *testing.T) {
		err := txManager.ExecTx(ctx, func(txCtx context.Context) error {
			return expRepo.Create(txCtx, &models.ExpenseAttachment{
				ID:            uuid.NewString(),
				ProjectID:     projectID,
				Description:   "costume fabric",
				AmountCents:   12500,
				ManagedFileID: fileID,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		})
		if !errors.Is(err, domain.ErrLinkage) {
			t.Fatalf("error = %v, want linkage conflict", err)
		}
	})

	t.Run("deleting the version frees the file", func(t *testing.T) {
		err := txManager.ExecTx(ctx, func(txCtx context.Context) error {
			return verRepo.Delete(txCtx, version.ID)
		})
		if err != nil {
			t.Fatalf("delete version: %v", err)
		}

		err = txManager.ExecTx(ctx, func(txCtx context.Context) error {
			return assetRepo.Create(txCtx, &models.ProjectAsset{
				ID:            uuid.NewString(),
				ProjectID:     projectID,
				AssetType:     "music",
				Name:          "Adagio",
				ManagedFileID: fileID,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		})
		if err != nil {
			t.Fatalf("asset after version delete: %v", err)
		}
	})

	t.Run("failed insert leaves no claim behind", func(t *testing.T) {
		freshFile := seedManagedFile(t, fileRepo)
		missingDoc := uuid.NewString()

		err := txManager.ExecTx(ctx, func(txCtx context.Context) error {
			return verRepo.Create(txCtx, &models.DocumentVersion{
				ID:                uuid.NewString(),
				LogicalDocumentID: missingDoc,
				VersionTag:        "orphan",
				ManagedFileID:     freshFile,
				CreatedAt:         now,
				UpdatedAt:         now,
			})
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("error = %v, want not found", err)
		}

		err = txManager.ExecTx(ctx, func(txCtx context.Context) error {
			return expRepo.Create(txCtx, &models.ExpenseAttachment{
				ID:            uuid.NewString(),
				ProjectID:     projectID,
				Description:   "venue deposit",
				AmountCents:   50000,
				ManagedFileID: freshFile,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		})
		if err != nil {
			t.Fatalf("expense after rolled-back claim: %v", err)
		}
	})
}
