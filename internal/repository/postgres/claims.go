package postgres

import (
	"context"
	"fmt"

	"curator/internal/domain"
	"curator/internal/domain/repositories"
)

// claimManagedFile records that a managed file is consumed by a domain
// record. The claims table holds one row per consumed file regardless of the
// record's kind, so its primary key rejects a file that already backs a
// version, asset or attachment anywhere. Callers run the claim and the row
// insert inside one transaction.
func claimManagedFile(ctx context.Context, executor repositories.DBTX, tables *TableNames, managedFileID, linkType string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (managed_file_id, link_type)
		VALUES ($1, $2)
	`, tables.FileClaims)

	if _, err := executor.Exec(ctx, query, managedFileID, linkType); err != nil {
		if IsPgDuplicateOn(err, tables.FileClaims+"_pkey") {
			return &domain.LinkageError{
				ManagedFileID: managedFileID,
				LinkType:      linkType,
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("managed file %s: %w", managedFileID, domain.ErrNotFound)
		}
		return fmt.Errorf("claim managed file: %w", err)
	}

	return nil
}

// releaseManagedFile frees the claim when its consuming record is deleted
func releaseManagedFile(ctx context.Context, executor repositories.DBTX, tables *TableNames, managedFileID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE managed_file_id = $1
	`, tables.FileClaims)

	if _, err := executor.Exec(ctx, query, managedFileID); err != nil {
		return fmt.Errorf("release managed file claim: %w", err)
	}

	return nil
}
