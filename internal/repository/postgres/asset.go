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

// PostgresProjectAssetRepository implements the ProjectAssetRepository interface
type PostgresProjectAssetRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewProjectAssetRepository creates a new project asset repository
func NewProjectAssetRepository(config *RepositoryConfig) repositories.ProjectAssetRepository {
	return &PostgresProjectAssetRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const projectAssetColumns = "id, project_id, asset_type, name, managed_file_id, created_at, updated_at"

func scanProjectAsset(row interface{ Scan(...interface{}) error }, a *models.ProjectAsset) error {
	return row.Scan(
		&a.ID,
		&a.ProjectID,
		&a.AssetType,
		&a.Name,
		&a.ManagedFileID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

// Create claims the managed file and inserts the asset row. Two statements;
// callers wrap them in a transaction.
func (r *PostgresProjectAssetRepository) Create(ctx context.Context, asset *models.ProjectAsset) error {
	executor := GetExecutor(ctx, r.pool)

	if err := claimManagedFile(ctx, executor, r.tables, asset.ManagedFileID, "asset"); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, asset_type, name, managed_file_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, r.tables.ProjectAssets)

	err := executor.QueryRow(ctx, query,
		asset.ID,
		asset.ProjectID,
		asset.AssetType,
		asset.Name,
		asset.ManagedFileID,
		asset.CreatedAt,
		asset.UpdatedAt,
	).Scan(&asset.CreatedAt, &asset.UpdatedAt)

	if err != nil {
		if IsPgDuplicateOn(err, r.tables.ProjectAssets+"_managed_file_id_key") {
			return &domain.LinkageError{
				ManagedFileID: asset.ManagedFileID,
				LinkType:      "asset",
			}
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "project asset already exists",
				ResourceType: "project_asset",
				ResourceID:   asset.ID,
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("managed file %s: %w", asset.ManagedFileID, domain.ErrNotFound)
		}
		return fmt.Errorf("create project asset: %w", err)
	}

	return nil
}

// GetByID retrieves an asset by ID
func (r *PostgresProjectAssetRepository) GetByID(ctx context.Context, id string) (*models.ProjectAsset, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, projectAssetColumns, r.tables.ProjectAssets)

	var asset models.ProjectAsset
	executor := GetExecutor(ctx, r.pool)
	if err := scanProjectAsset(executor.QueryRow(ctx, query, id), &asset); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("project asset %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project asset: %w", err)
	}

	return &asset, nil
}

// ListByProject lists assets of one project ordered by name
func (r *PostgresProjectAssetRepository) ListByProject(ctx context.Context, projectID string) ([]models.ProjectAsset, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1
		ORDER BY name ASC
	`, projectAssetColumns, r.tables.ProjectAssets)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project assets: %w", err)
	}
	defer rows.Close()

	assets := []models.ProjectAsset{}
	for rows.Next() {
		var asset models.ProjectAsset
		if err := scanProjectAsset(rows, &asset); err != nil {
			return nil, fmt.Errorf("scan project asset: %w", err)
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project assets: %w", err)
	}

	return assets, nil
}

// Delete removes an asset row and frees its file claim
func (r *PostgresProjectAssetRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
		RETURNING managed_file_id
	`, r.tables.ProjectAssets)

	executor := GetExecutor(ctx, r.pool)
	var managedFileID string
	if err := executor.QueryRow(ctx, query, id).Scan(&managedFileID); err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("project asset %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete project asset: %w", err)
	}

	return releaseManagedFile(ctx, executor, r.tables, managedFileID)
}
