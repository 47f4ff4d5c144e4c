package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
)

// PostgresDocumentVersionRepository implements the DocumentVersionRepository
// interface. The one-file-one-record invariant is not checked by a prior
// read: the claim insert and the unique index on managed_file_id are atomic
// under concurrent inserts, and their violations are translated to
// domain.LinkageError here. Create and Delete each run two statements and
// rely on the caller's transaction for atomicity.
type PostgresDocumentVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentVersionRepository creates a new document version repository
func NewDocumentVersionRepository(config *RepositoryConfig) repositories.DocumentVersionRepository {
	return &PostgresDocumentVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const documentVersionColumns = "id, logical_document_id, version_tag, is_generic, milestone_ref, notes, managed_file_id, created_at, updated_at"

func scanDocumentVersion(row interface{ Scan(...interface{}) error }, v *models.DocumentVersion) error {
	return row.Scan(
		&v.ID,
		&v.LogicalDocumentID,
		&v.VersionTag,
		&v.IsGeneric,
		&v.MilestoneRef,
		&v.Notes,
		&v.ManagedFileID,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
}

// Create claims the managed file and inserts the version row
func (r *PostgresDocumentVersionRepository) Create(ctx context.Context, version *models.DocumentVersion) error {
	executor := GetExecutor(ctx, r.pool)

	if err := claimManagedFile(ctx, executor, r.tables, version.ManagedFileID, "version"); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, logical_document_id, version_tag, is_generic, milestone_ref, notes, managed_file_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, r.tables.DocumentVersions)

	err := executor.QueryRow(ctx, query,
		version.ID,
		version.LogicalDocumentID,
		version.VersionTag,
		version.IsGeneric,
		version.MilestoneRef,
		version.Notes,
		version.ManagedFileID,
		version.CreatedAt,
		version.UpdatedAt,
	).Scan(&version.CreatedAt, &version.UpdatedAt)

	if err != nil {
		if IsPgDuplicateOn(err, r.tables.DocumentVersions+"_managed_file_id_key") {
			return &domain.LinkageError{
				ManagedFileID: version.ManagedFileID,
				LinkType:      "version",
			}
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "document version already exists",
				ResourceType: "document_version",
				ResourceID:   version.ID,
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("logical document %s or managed file %s: %w",
				version.LogicalDocumentID, version.ManagedFileID, domain.ErrNotFound)
		}
		return fmt.Errorf("create document version: %w", err)
	}

	return nil
}

// GetByID retrieves a version by ID
func (r *PostgresDocumentVersionRepository) GetByID(ctx context.Context, id string) (*models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, documentVersionColumns, r.tables.DocumentVersions)

	var version models.DocumentVersion
	executor := GetExecutor(ctx, r.pool)
	if err := scanDocumentVersion(executor.QueryRow(ctx, query, id), &version); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document version %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document version: %w", err)
	}

	return &version, nil
}

// GetByManagedFile retrieves the version consuming a managed file
func (r *PostgresDocumentVersionRepository) GetByManagedFile(ctx context.Context, managedFileID string) (*models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE managed_file_id = $1
	`, documentVersionColumns, r.tables.DocumentVersions)

	var version models.DocumentVersion
	executor := GetExecutor(ctx, r.pool)
	if err := scanDocumentVersion(executor.QueryRow(ctx, query, managedFileID), &version); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("version for managed file %s: %w", managedFileID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get version by managed file: %w", err)
	}

	return &version, nil
}

// ListByDocument lists versions of one logical document, newest first
func (r *PostgresDocumentVersionRepository) ListByDocument(ctx context.Context, logicalDocumentID string) ([]models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE logical_document_id = $1
		ORDER BY created_at DESC, id DESC
	`, documentVersionColumns, r.tables.DocumentVersions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, logicalDocumentID)
	if err != nil {
		return nil, fmt.Errorf("list document versions: %w", err)
	}
	defer rows.Close()

	versions := []models.DocumentVersion{}
	for rows.Next() {
		var version models.DocumentVersion
		if err := scanDocumentVersion(rows, &version); err != nil {
			return nil, fmt.Errorf("scan document version: %w", err)
		}
		versions = append(versions, version)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document versions: %w", err)
	}

	return versions, nil
}

// Delete removes a version row and frees its file claim
func (r *PostgresDocumentVersionRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
		RETURNING managed_file_id
	`, r.tables.DocumentVersions)

	executor := GetExecutor(ctx, r.pool)
	var managedFileID string
	if err := executor.QueryRow(ctx, query, id).Scan(&managedFileID); err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("document version %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete document version: %w", err)
	}

	return releaseManagedFile(ctx, executor, r.tables, managedFileID)
}
