package registry

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry serves the embedded naming and extension tables. Tables are
// loaded once at construction and are read-only afterwards, so lookups need
// no locking.
type Registry struct {
	naming     NamingTables
	extensions ExtensionTables
}

// New loads the embedded YAML tables
func New() (*Registry, error) {
	r := &Registry{}

	if err := r.loadFile("naming", &r.naming); err != nil {
		return nil, fmt.Errorf("failed to load naming tables: %w", err)
	}
	if err := r.loadFile("extensions", &r.extensions); err != nil {
		return nil, fmt.Errorf("failed to load extension tables: %w", err)
	}

	if r.naming.GenericMarker == "" || r.naming.DedicatedMarker == "" {
		return nil, fmt.Errorf("naming tables missing generic/dedicated markers")
	}

	return r, nil
}

// loadFile unmarshals one embedded YAML file
func (r *Registry) loadFile(name string, dest interface{}) error {
	filename := fmt.Sprintf("config/%s.yaml", name)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	return nil
}

// Naming returns the abbreviation tables
func (r *Registry) Naming() NamingTables {
	return r.naming
}

// DocTypeAbbrev resolves a document type to its abbreviation, falling back
// to the generic token for unrecognized types
func (r *Registry) DocTypeAbbrev(docType string) string {
	if abbrev, ok := r.naming.DocTypes[normalizeKey(docType)]; ok {
		return abbrev
	}
	return r.naming.FallbackDocType
}

// SeriesAbbrev resolves a competition series name. The second return value
// reports whether the table had an entry.
func (r *Registry) SeriesAbbrev(series string) (string, bool) {
	abbrev, ok := r.naming.Series[normalizeKey(series)]
	return abbrev, ok
}

// LevelAbbrev resolves a competition level name
func (r *Registry) LevelAbbrev(level string) (string, bool) {
	abbrev, ok := r.naming.Levels[normalizeKey(level)]
	return abbrev, ok
}

// AllowedExtensions returns the extension list for a category. Empty means
// unrestricted.
func (r *Registry) AllowedExtensions(category string) []string {
	switch category {
	case "document":
		return r.extensions.Document
	case "asset":
		return r.extensions.Asset
	case "expense":
		return r.extensions.Expense
	case "competition":
		return r.extensions.Competition
	case "inbox":
		return r.extensions.Inbox
	default:
		return nil
	}
}

// ExtensionAllowed reports whether ext (with leading dot, any case) is
// accepted for the category
func (r *Registry) ExtensionAllowed(category, ext string) bool {
	allowed := r.AllowedExtensions(category)
	if len(allowed) == 0 {
		return true
	}
	ext = strings.ToLower(ext)
	for _, a := range allowed {
		if a == ext {
			return true
		}
	}
	return false
}

// ExpensePreferredExtension returns the preferred expense format
func (r *Registry) ExpensePreferredExtension() string {
	return r.extensions.ExpensePreferred
}

// normalizeKey lowercases and trims a lookup key
func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
