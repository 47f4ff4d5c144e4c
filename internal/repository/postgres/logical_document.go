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

// PostgresLogicalDocumentRepository implements the LogicalDocumentRepository interface
type PostgresLogicalDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewLogicalDocumentRepository creates a new logical document repository
func NewLogicalDocumentRepository(config *RepositoryConfig) repositories.LogicalDocumentRepository {
	return &PostgresLogicalDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const logicalDocumentColumns = "id, project_id, name, doc_type, description, default_path, status, official_version_id, created_at, updated_at"

func scanLogicalDocument(row interface{ Scan(...interface{}) error }, d *models.LogicalDocument) error {
	return row.Scan(
		&d.ID,
		&d.ProjectID,
		&d.Name,
		&d.DocType,
		&d.Description,
		&d.DefaultPath,
		&d.Status,
		&d.OfficialVersionID,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
}

// Create creates a new logical document
func (r *PostgresLogicalDocumentRepository) Create(ctx context.Context, doc *models.LogicalDocument) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, name, doc_type, description, default_path, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, r.tables.LogicalDocuments)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.ID,
		doc.ProjectID,
		doc.Name,
		doc.DocType,
		doc.Description,
		doc.DefaultPath,
		doc.Status,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("logical document '%s' already exists", doc.Name),
				ResourceType: "logical_document",
			}
		}
		return fmt.Errorf("create logical document: %w", err)
	}

	return nil
}

// GetByID retrieves a logical document by ID
func (r *PostgresLogicalDocumentRepository) GetByID(ctx context.Context, id string) (*models.LogicalDocument, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, logicalDocumentColumns, r.tables.LogicalDocuments)

	var doc models.LogicalDocument
	executor := GetExecutor(ctx, r.pool)
	if err := scanLogicalDocument(executor.QueryRow(ctx, query, id), &doc); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("logical document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get logical document: %w", err)
	}

	return &doc, nil
}

// Update updates name, type, description, default path and status
func (r *PostgresLogicalDocumentRepository) Update(ctx context.Context, doc *models.LogicalDocument) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, doc_type = $2, description = $3, default_path = $4, status = $5, updated_at = NOW()
		WHERE id = $6
	`, r.tables.LogicalDocuments)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.Name,
		doc.DocType,
		doc.Description,
		doc.DefaultPath,
		doc.Status,
		doc.ID,
	)
	if err != nil {
		return fmt.Errorf("update logical document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("logical document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// SetOfficialVersion points the document at one of its versions. The foreign
// key guarantees the version row exists; ownership is checked by the caller
// inside the same transaction.
func (r *PostgresLogicalDocumentRepository) SetOfficialVersion(ctx context.Context, docID string, versionID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET official_version_id = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.LogicalDocuments)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, versionID, docID)
	if err != nil {
		return fmt.Errorf("set official version: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("logical document %s: %w", docID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes the document
func (r *PostgresLogicalDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.LogicalDocuments)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete logical document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("logical document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List returns all logical documents ordered by name
func (r *PostgresLogicalDocumentRepository) List(ctx context.Context) ([]models.LogicalDocument, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY name ASC
	`, logicalDocumentColumns, r.tables.LogicalDocuments)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list logical documents: %w", err)
	}
	defer rows.Close()

	docs := []models.LogicalDocument{}
	for rows.Next() {
		var doc models.LogicalDocument
		if err := scanLogicalDocument(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan logical document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logical documents: %w", err)
	}

	return docs, nil
}
