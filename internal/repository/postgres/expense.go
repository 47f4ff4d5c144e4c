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

// PostgresExpenseAttachmentRepository implements the
// ExpenseAttachmentRepository interface
type PostgresExpenseAttachmentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewExpenseAttachmentRepository creates a new expense attachment repository
func NewExpenseAttachmentRepository(config *RepositoryConfig) repositories.ExpenseAttachmentRepository {
	return &PostgresExpenseAttachmentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const expenseAttachmentColumns = "id, project_id, description, amount_cents, managed_file_id, created_at, updated_at"

func scanExpenseAttachment(row interface{ Scan(...interface{}) error }, a *models.ExpenseAttachment) error {
	return row.Scan(
		&a.ID,
		&a.ProjectID,
		&a.Description,
		&a.AmountCents,
		&a.ManagedFileID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

// Create claims the managed file and inserts the attachment row. Two
// statements; callers wrap them in a transaction.
func (r *PostgresExpenseAttachmentRepository) Create(ctx context.Context, att *models.ExpenseAttachment) error {
	executor := GetExecutor(ctx, r.pool)

	if err := claimManagedFile(ctx, executor, r.tables, att.ManagedFileID, "expense"); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, description, amount_cents, managed_file_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, r.tables.ExpenseAttachments)

	err := executor.QueryRow(ctx, query,
		att.ID,
		att.ProjectID,
		att.Description,
		att.AmountCents,
		att.ManagedFileID,
		att.CreatedAt,
		att.UpdatedAt,
	).Scan(&att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		if IsPgDuplicateOn(err, r.tables.ExpenseAttachments+"_managed_file_id_key") {
			return &domain.LinkageError{
				ManagedFileID: att.ManagedFileID,
				LinkType:      "expense",
			}
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "expense attachment already exists",
				ResourceType: "expense_attachment",
				ResourceID:   att.ID,
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("managed file %s: %w", att.ManagedFileID, domain.ErrNotFound)
		}
		return fmt.Errorf("create expense attachment: %w", err)
	}

	return nil
}

// GetByID retrieves an attachment by ID
func (r *PostgresExpenseAttachmentRepository) GetByID(ctx context.Context, id string) (*models.ExpenseAttachment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, expenseAttachmentColumns, r.tables.ExpenseAttachments)

	var att models.ExpenseAttachment
	executor := GetExecutor(ctx, r.pool)
	if err := scanExpenseAttachment(executor.QueryRow(ctx, query, id), &att); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("expense attachment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get expense attachment: %w", err)
	}

	return &att, nil
}

// ListByProject lists attachments of one project, newest first
func (r *PostgresExpenseAttachmentRepository) ListByProject(ctx context.Context, projectID string) ([]models.ExpenseAttachment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC
	`, expenseAttachmentColumns, r.tables.ExpenseAttachments)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list expense attachments: %w", err)
	}
	defer rows.Close()

	attachments := []models.ExpenseAttachment{}
	for rows.Next() {
		var att models.ExpenseAttachment
		if err := scanExpenseAttachment(rows, &att); err != nil {
			return nil, fmt.Errorf("scan expense attachment: %w", err)
		}
		attachments = append(attachments, att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense attachments: %w", err)
	}

	return attachments, nil
}

// Delete removes an attachment row and frees its file claim
func (r *PostgresExpenseAttachmentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
		RETURNING managed_file_id
	`, r.tables.ExpenseAttachments)

	executor := GetExecutor(ctx, r.pool)
	var managedFileID string
	if err := executor.QueryRow(ctx, query, id).Scan(&managedFileID); err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("expense attachment %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete expense attachment: %w", err)
	}

	return releaseManagedFile(ctx, executor, r.tables, managedFileID)
}
