package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
)

// PostgresManagedFileRepository implements the ManagedFileRepository interface
type PostgresManagedFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewManagedFileRepository creates a new managed file repository
func NewManagedFileRepository(config *RepositoryConfig) repositories.ManagedFileRepository {
	return &PostgresManagedFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const managedFileColumns = "id, name, original_name, path, mime_type, size_bytes, content_hash, created_at, updated_at"

// scanManagedFile scans one row into a ManagedFile
func scanManagedFile(row interface{ Scan(...interface{}) error }, f *models.ManagedFile) error {
	return row.Scan(
		&f.ID,
		&f.Name,
		&f.OriginalName,
		&f.Path,
		&f.MimeType,
		&f.SizeBytes,
		&f.ContentHash,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
}

// Create inserts a new catalog row
func (r *PostgresManagedFileRepository) Create(ctx context.Context, file *models.ManagedFile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, original_name, path, mime_type, size_bytes, content_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, r.tables.ManagedFiles)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.ID,
		file.Name,
		file.OriginalName,
		file.Path,
		file.MimeType,
		file.SizeBytes,
		file.ContentHash,
		file.CreatedAt,
		file.UpdatedAt,
	).Scan(&file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a managed file already occupies path '%s'", file.Path),
				ResourceType: "managed_file",
			}
		}
		return fmt.Errorf("create managed file: %w", err)
	}

	return nil
}

// GetByID retrieves a catalog entry by ID
func (r *PostgresManagedFileRepository) GetByID(ctx context.Context, id string) (*models.ManagedFile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, managedFileColumns, r.tables.ManagedFiles)

	var file models.ManagedFile
	executor := GetExecutor(ctx, r.pool)
	err := scanManagedFile(executor.QueryRow(ctx, query, id), &file)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("managed file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get managed file: %w", err)
	}

	return &file, nil
}

// GetByPath retrieves a catalog entry by its physical path
func (r *PostgresManagedFileRepository) GetByPath(ctx context.Context, path string) (*models.ManagedFile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE path = $1
	`, managedFileColumns, r.tables.ManagedFiles)

	var file models.ManagedFile
	executor := GetExecutor(ctx, r.pool)
	err := scanManagedFile(executor.QueryRow(ctx, query, path), &file)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("managed file at '%s': %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get managed file by path: %w", err)
	}

	return &file, nil
}

// ExistsByPath reports whether any catalog entry occupies the path
func (r *PostgresManagedFileRepository) ExistsByPath(ctx context.Context, path string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS(SELECT 1 FROM %s WHERE path = $1)
	`, r.tables.ManagedFiles)

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, path).Scan(&exists); err != nil {
		return false, fmt.Errorf("check managed file path: %w", err)
	}

	return exists, nil
}

// Update mutates name, path, original name, MIME type and size
func (r *PostgresManagedFileRepository) Update(ctx context.Context, file *models.ManagedFile) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, original_name = $2, path = $3, mime_type = $4, size_bytes = $5, updated_at = NOW()
		WHERE id = $6
	`, r.tables.ManagedFiles)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		file.Name,
		file.OriginalName,
		file.Path,
		file.MimeType,
		file.SizeBytes,
		file.ID,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a managed file already occupies path '%s'", file.Path),
				ResourceType: "managed_file",
			}
		}
		return fmt.Errorf("update managed file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("managed file %s: %w", file.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdateHash replaces the stored content hash
func (r *PostgresManagedFileRepository) UpdateHash(ctx context.Context, id, hash string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content_hash = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.ManagedFiles)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, hash, id)
	if err != nil {
		return fmt.Errorf("update managed file hash: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("managed file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes the catalog row only
func (r *PostgresManagedFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.ManagedFiles)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return &domain.ConflictError{
				Message:      "file is referenced by a version, asset or expense attachment",
				ResourceType: "managed_file",
				ResourceID:   id,
			}
		}
		return fmt.Errorf("delete managed file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("managed file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List returns a page of the catalog in insertion order
func (r *PostgresManagedFileRepository) List(ctx context.Context, offset, limit int) ([]models.ManagedFile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`, managedFileColumns, r.tables.ManagedFiles)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list managed files: %w", err)
	}
	defer rows.Close()

	var files []models.ManagedFile
	for rows.Next() {
		var file models.ManagedFile
		if err := scanManagedFile(rows, &file); err != nil {
			return nil, fmt.Errorf("scan managed file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate managed files: %w", err)
	}

	// Return empty slice instead of nil
	if files == nil {
		files = []models.ManagedFile{}
	}

	return files, nil
}

// ListFiltered applies search/filter/sort/pagination inside the query.
// Filtering and sorting never happen in memory; the catalog can outgrow RAM.
func (r *PostgresManagedFileRepository) ListFiltered(ctx context.Context, opts *models.ListFilesOptions) (*models.FileListResult, error) {
	opts.ApplyDefaults()

	var conditions []string
	var args []interface{}
	paramIndex := 1

	if opts.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR original_name ILIKE $%d)", paramIndex, paramIndex))
		args = append(args, "%"+opts.Search+"%")
		paramIndex++
	}

	if opts.MimeCategory != "" {
		conditions = append(conditions, fmt.Sprintf(
			"split_part(COALESCE(mime_type, ''), '/', 1) = $%d", paramIndex))
		args = append(args, opts.MimeCategory)
		paramIndex++
	}

	// Project membership spans the three linkage tables: a file belongs to
	// a project when a version of one of the project's documents, a project
	// asset or an expense attachment consumes it.
	if opts.ProjectID != "" {
		conditions = append(conditions, fmt.Sprintf(`(
			EXISTS (
				SELECT 1 FROM %s dv
				JOIN %s ld ON ld.id = dv.logical_document_id
				WHERE dv.managed_file_id = f.id AND ld.project_id = $%d
			)
			OR EXISTS (
				SELECT 1 FROM %s pa
				WHERE pa.managed_file_id = f.id AND pa.project_id = $%d
			)
			OR EXISTS (
				SELECT 1 FROM %s ea
				WHERE ea.managed_file_id = f.id AND ea.project_id = $%d
			)
		)`, r.tables.DocumentVersions, r.tables.LogicalDocuments, paramIndex,
			r.tables.ProjectAssets, paramIndex,
			r.tables.ExpenseAttachments, paramIndex))
		args = append(args, opts.ProjectID)
		paramIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := orderByClause(opts.SortBy, opts.SortDesc)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s f
		%s
		%s
		LIMIT $%d OFFSET $%d
	`, managedFileColumns, r.tables.ManagedFiles, whereClause, orderClause, paramIndex, paramIndex+1)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("list filtered managed files: %w", err)
	}
	defer rows.Close()

	files := []models.ManagedFile{}
	for rows.Next() {
		var file models.ManagedFile
		if err := scanManagedFile(rows, &file); err != nil {
			return nil, fmt.Errorf("scan managed file: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate managed files: %w", err)
	}

	// Unpaginated total for pagination metadata
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s f
		%s
	`, r.tables.ManagedFiles, whereClause)

	var total int
	if err := executor.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count managed files: %w", err)
	}

	return &models.FileListResult{Files: files, Total: total}, nil
}

// orderByClause maps a sort field to a SQL ORDER BY. Fields are a closed
// enum, never user text, so interpolation is safe.
func orderByClause(field models.FileSortField, desc bool) string {
	var column string
	switch field {
	case models.SortByName:
		column = "name"
	case models.SortBySize:
		column = "size_bytes"
	case models.SortByType:
		column = "mime_type"
	default:
		column = "created_at"
	}

	direction := "ASC"
	if desc {
		direction = "DESC"
	}

	// Secondary id ordering keeps pagination stable
	return fmt.Sprintf("ORDER BY %s %s, id ASC", column, direction)
}

// SearchByName finds files by case-insensitive name substring
func (r *PostgresManagedFileRepository) SearchByName(ctx context.Context, substring string) ([]models.ManagedFile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE name ILIKE $1
		ORDER BY name ASC
	`, managedFileColumns, r.tables.ManagedFiles)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, "%"+substring+"%")
	if err != nil {
		return nil, fmt.Errorf("search managed files: %w", err)
	}
	defer rows.Close()

	files := []models.ManagedFile{}
	for rows.Next() {
		var file models.ManagedFile
		if err := scanManagedFile(rows, &file); err != nil {
			return nil, fmt.Errorf("scan managed file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate managed files: %w", err)
	}

	return files, nil
}

// Stats returns the catalog row count and total stored bytes
func (r *PostgresManagedFileRepository) Stats(ctx context.Context) (*models.CatalogStats, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*), COALESCE(SUM(size_bytes), 0)
		FROM %s
	`, r.tables.ManagedFiles)

	var stats models.CatalogStats
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&stats.FileCount, &stats.TotalBytes); err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}

	return &stats, nil
}
