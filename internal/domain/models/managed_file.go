package models

import (
	"time"
)

// ManagedFile is the catalog entry for one physically stored file under the
// storage root. The physical path is unique across the whole catalog.
type ManagedFile struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	OriginalName string    `json:"original_name" db:"original_name"`
	Path         string    `json:"path" db:"path"`
	MimeType     *string   `json:"mime_type,omitempty" db:"mime_type"`
	SizeBytes    *int64    `json:"size_bytes,omitempty" db:"size_bytes"`
	ContentHash  *string   `json:"content_hash,omitempty" db:"content_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// FileSortField selects the ordering column for rich listings
type FileSortField string

const (
	SortByName FileSortField = "name"
	SortBySize FileSortField = "size"
	SortByType FileSortField = "type"
	SortByDate FileSortField = "date"
)

// ListFilesOptions controls filtering, sorting and pagination of the catalog.
// All of it is applied inside the storage query, never in memory.
type ListFilesOptions struct {
	// Search matches a case-insensitive substring of name or original name
	Search string
	// MimeCategory filters by the major MIME type ("image", "application", ...)
	MimeCategory string
	// ProjectID restricts to files linked to the given project through any
	// of the three linkage tables
	ProjectID string
	SortBy    FileSortField
	SortDesc  bool
	Offset    int
	Limit     int
}

// ApplyDefaults fills zero values with sane defaults
func (o *ListFilesOptions) ApplyDefaults() {
	if o.SortBy == "" {
		o.SortBy = SortByDate
		o.SortDesc = true
	}
	if o.Limit <= 0 || o.Limit > 500 {
		o.Limit = 50
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

// FileListResult is one page of the catalog plus the unpaginated total
type FileListResult struct {
	Files []ManagedFile `json:"files"`
	Total int           `json:"total"`
}

// CatalogStats summarizes the managed file catalog
type CatalogStats struct {
	FileCount  int   `json:"file_count"`
	TotalBytes int64 `json:"total_bytes"`
}

// IntegrityStatus is the outcome of re-hashing a managed file
type IntegrityStatus string

const (
	IntegrityOK       IntegrityStatus = "ok"
	IntegrityMissing  IntegrityStatus = "missing"
	IntegrityMismatch IntegrityStatus = "mismatch"
	// IntegrityUnknown is reported when no hash was stored at import time
	IntegrityUnknown IntegrityStatus = "unknown"
)

// IntegrityReport describes the verification result for one file
type IntegrityReport struct {
	FileID       string          `json:"file_id"`
	Path         string          `json:"path"`
	Status       IntegrityStatus `json:"status"`
	StoredHash   string          `json:"stored_hash,omitempty"`
	ComputedHash string          `json:"computed_hash,omitempty"`
}
