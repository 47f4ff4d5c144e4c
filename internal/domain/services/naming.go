package services

import (
	"time"
)

// CompetitionRef carries the competition context used to derive the target
// segment of a generated name
type CompetitionRef struct {
	Series string
	Level  string
}

// VersionNameParams are the inputs for a document-version file name
type VersionNameParams struct {
	DocType    string
	VersionTag string
	// IsGeneric marks a version not tied to any competition milestone
	IsGeneric   bool
	Competition *CompetitionRef
	ProjectName string
	Extension   string
	// Timestamp drives the date segment. Zero means "now"; callers that
	// care about determinism always supply it.
	Timestamp time.Time
}

// AssetNameParams are the inputs for a project-asset file name
type AssetNameParams struct {
	ProjectName string
	AssetType   string
	AssetName   string
	Extension   string
	Timestamp   time.Time
}

// ExpenseNameParams are the inputs for an expense-attachment file name
type ExpenseNameParams struct {
	ProjectName string
	Description string
	Extension   string
	Timestamp   time.Time
}

// NameValidation is the structured result of ValidateName. Returned instead
// of an error because the same check backs both hard failures and soft UI
// previews.
type NameValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// NamingEngine turns structured naming parameters into sanitized,
// length-bounded file names. Pure string transformation, no I/O.
type NamingEngine interface {
	// GenerateVersionName builds a document-version file name,
	// at most config.MaxVersionNameLength characters
	GenerateVersionName(params VersionNameParams) string

	// GenerateAssetName builds a project-asset file name,
	// at most config.MaxAssetNameLength characters
	GenerateAssetName(params AssetNameParams) string

	// GenerateExpenseName builds an expense-attachment file name,
	// at most config.MaxAssetNameLength characters
	GenerateExpenseName(params ExpenseNameParams) string

	// GenerateUniqueName returns candidate unchanged when it is absent from
	// existing, otherwise appends _1, _2, ... before the extension until no
	// collision remains
	GenerateUniqueName(candidate string, existing []string) string

	// ValidateName checks length, illegal characters and non-emptiness.
	// It never consults the filesystem.
	ValidateName(name string) NameValidation
}
