package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"curator/internal/domain"
	"curator/internal/domain/services"
)

// Category subtree names under the storage root
const (
	dirDocuments    = "Documents"
	dirAssets       = "Assets"
	dirExpenses     = "Expenses"
	dirCompetitions = "Competitions"
	dirInbox        = "Inbox"
	dirSystem       = ".system"
	dirTrash        = ".trash"
)

// pathEngine implements the PathEngine interface. All builders are pure;
// only EnsureDir touches the filesystem.
type pathEngine struct {
	root   string
	logger *slog.Logger
}

// NewPathEngine creates a path engine rooted at the given storage root.
// The root is cleaned and made absolute once so display-path stripping is
// the exact inverse of construction.
func NewPathEngine(root string, logger *slog.Logger) (services.PathEngine, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	return &pathEngine{root: abs, logger: logger}, nil
}

// Root returns the absolute storage root
func (e *pathEngine) Root() string {
	return e.root
}

// DocumentPath is Documents/<type or default>/<doc name>
func (e *pathEngine) DocumentPath(docName, docType string, defaultPath string) string {
	if defaultPath != "" {
		return filepath.Join(e.root, dirDocuments, sanitizeSegment(defaultPath), sanitizeSegment(docName))
	}
	return filepath.Join(e.root, dirDocuments, sanitizeSegment(docType), sanitizeSegment(docName))
}

// AssetPath is Assets/<project>/<asset type>
func (e *pathEngine) AssetPath(projectName, assetType string) string {
	return filepath.Join(e.root, dirAssets, sanitizeSegment(projectName), sanitizeSegment(assetType))
}

// ExpensePath is Expenses/<project>
func (e *pathEngine) ExpensePath(projectName string) string {
	return filepath.Join(e.root, dirExpenses, sanitizeSegment(projectName))
}

// CompetitionPath is Competitions/<series>/<level>
func (e *pathEngine) CompetitionPath(series, level string) string {
	return filepath.Join(e.root, dirCompetitions, sanitizeSegment(series), sanitizeSegment(level))
}

// InboxPath buckets unclassified drops by month: Inbox/2026-08
func (e *pathEngine) InboxPath(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return filepath.Join(e.root, dirInbox, t.Format("2006-01"))
}

// SystemPath is the directory for application-internal files
func (e *pathEngine) SystemPath() string {
	return filepath.Join(e.root, dirSystem)
}

// TrashPath is the directory trashed files are moved into
func (e *pathEngine) TrashPath() string {
	return filepath.Join(e.root, dirTrash)
}

// EnsureDir creates the directory and parents if missing. MkdirAll is
// idempotent under concurrent callers; a regular file occupying the path is
// reported distinctly.
func (e *pathEngine) EnsureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%w: a file occupies directory path '%s'", domain.ErrConflict, path)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return &domain.IOError{Path: path, Op: "create directory", Err: err}
	}
	return nil
}

// ValidatePath checks that the path is absolute, inside the storage root and
// free of illegal characters. Filesystem-independent.
func (e *pathEngine) ValidatePath(path string) services.PathValidation {
	var errs []string

	if !filepath.IsAbs(path) {
		errs = append(errs, "path is not absolute")
	}

	cleaned := filepath.Clean(path)
	if cleaned != e.root && !strings.HasPrefix(cleaned, e.root+string(filepath.Separator)) {
		errs = append(errs, fmt.Sprintf("path escapes storage root '%s'", e.root))
	}

	// The engine never emits these; their presence means the path was not
	// produced here
	for _, segment := range strings.Split(cleaned, string(filepath.Separator)) {
		if i := strings.IndexAny(segment, `<>:"|?*`); i >= 0 {
			errs = append(errs, fmt.Sprintf("path segment %q contains illegal character %q", segment, segment[i]))
			break
		}
	}

	return services.PathValidation{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// RelativeDisplayPath strips the storage root prefix for UI display
func (e *pathEngine) RelativeDisplayPath(fullPath string) string {
	cleaned := filepath.Clean(fullPath)
	if cleaned == e.root {
		return ""
	}
	prefix := e.root + string(filepath.Separator)
	if strings.HasPrefix(cleaned, prefix) {
		return filepath.ToSlash(strings.TrimPrefix(cleaned, prefix))
	}
	return filepath.ToSlash(cleaned)
}

// sanitizeSegment makes free text safe as a single directory name
func sanitizeSegment(s string) string {
	clean := SanitizeName(s)
	if clean == "" {
		return "unsorted"
	}
	return clean
}
