package models

import (
	"time"
)

// ProjectAsset links a managed file to a project as a reusable asset
// (music track, logo, costume photo). Same linkage contract as
// DocumentVersion: one managed file feeds at most one asset.
type ProjectAsset struct {
	ID            string    `json:"id" db:"id"`
	ProjectID     string    `json:"project_id" db:"project_id"`
	AssetType     string    `json:"asset_type" db:"asset_type"`
	Name          string    `json:"name" db:"name"`
	ManagedFileID string    `json:"managed_file_id" db:"managed_file_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ExpenseAttachment links a managed file (typically a PDF receipt) to a
// project expense.
type ExpenseAttachment struct {
	ID            string    `json:"id" db:"id"`
	ProjectID     string    `json:"project_id" db:"project_id"`
	Description   string    `json:"description" db:"description"`
	AmountCents   int64     `json:"amount_cents" db:"amount_cents"`
	ManagedFileID string    `json:"managed_file_id" db:"managed_file_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
