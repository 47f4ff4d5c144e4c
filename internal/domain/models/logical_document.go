package models

import (
	"time"
)

// DocumentType is the enumerated kind of a logical document
type DocumentType string

const (
	DocTypeChoreographyNotes DocumentType = "choreography_notes"
	DocTypeMusicSheet        DocumentType = "music_sheet"
	DocTypeInvoice           DocumentType = "invoice"
	DocTypeContract          DocumentType = "contract"
	DocTypeProgram           DocumentType = "program"
	DocTypeOther             DocumentType = "other"
)

// DocumentStatus tracks the lifecycle of a logical document
type DocumentStatus string

const (
	DocStatusActive   DocumentStatus = "active"
	DocStatusArchived DocumentStatus = "archived"
)

// LogicalDocument is a named, typed conceptual document independent of any
// specific file. Its versions point at managed files; at most one version is
// the official one.
type LogicalDocument struct {
	ID          string         `json:"id" db:"id"`
	ProjectID   *string        `json:"project_id,omitempty" db:"project_id"`
	Name        string         `json:"name" db:"name"`
	DocType     DocumentType   `json:"doc_type" db:"doc_type"`
	Description string         `json:"description" db:"description"`
	DefaultPath *string        `json:"default_path,omitempty" db:"default_path"`
	Status      DocumentStatus `json:"status" db:"status"`
	// OfficialVersionID, when set, references a DocumentVersion that belongs
	// to this document. Cleared atomically when that version is deleted.
	OfficialVersionID *string   `json:"official_version_id,omitempty" db:"official_version_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// DocumentVersion is one concrete file instantiation of a logical document.
// A managed file is referenced by at most one domain record ever, version or
// otherwise; the database enforces this through the file claims table.
type DocumentVersion struct {
	ID                string    `json:"id" db:"id"`
	LogicalDocumentID string    `json:"logical_document_id" db:"logical_document_id"`
	VersionTag        string    `json:"version_tag" db:"version_tag"`
	IsGeneric         bool      `json:"is_generic" db:"is_generic"`
	MilestoneRef      *string   `json:"milestone_ref,omitempty" db:"milestone_ref"`
	Notes             string    `json:"notes" db:"notes"`
	ManagedFileID     string    `json:"managed_file_id" db:"managed_file_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}
