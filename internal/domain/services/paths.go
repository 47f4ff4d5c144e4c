package services

import (
	"time"
)

// PathValidation is the structured result of ValidatePath
type PathValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// PathEngine produces canonical directory paths under the configured storage
// root, one builder per import category. Builders are pure; only EnsureDir
// touches the filesystem.
type PathEngine interface {
	// Root returns the absolute storage root
	Root() string

	// DocumentPath is the directory for a logical document's versions.
	// defaultPath, when non-empty, overrides the type-derived subtree.
	DocumentPath(docName, docType string, defaultPath string) string

	// AssetPath is the directory for a project asset
	AssetPath(projectName, assetType string) string

	// ExpensePath is the directory for a project's expense attachments
	ExpensePath(projectName string) string

	// CompetitionPath is the directory for competition materials
	CompetitionPath(series, level string) string

	// InboxPath is the date-bucketed directory for unclassified drops
	InboxPath(t time.Time) string

	// SystemPath is the directory for application-internal files
	SystemPath() string

	// TrashPath is the directory trashed files are moved into
	TrashPath() string

	// EnsureDir creates the directory (and parents) if missing. Idempotent
	// under concurrent callers; fails distinctly when a regular file
	// occupies the path.
	EnsureDir(path string) error

	// ValidatePath checks that the path is absolute, inside the storage
	// root and free of illegal characters. Filesystem-independent.
	ValidatePath(path string) PathValidation

	// RelativeDisplayPath strips the storage root prefix for UI display.
	// Inverse of path construction for any path this engine produced.
	RelativeDisplayPath(fullPath string) string
}
