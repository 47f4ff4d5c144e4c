package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"curator/internal/config"
	"curator/internal/domain/services"
	"curator/internal/registry"
)

// namingEngine implements the NamingEngine interface. Pure string
// transformation; the abbreviation tables come from the embedded registry.
type namingEngine struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// NewNamingEngine creates a new naming engine
func NewNamingEngine(reg *registry.Registry, logger *slog.Logger) services.NamingEngine {
	return &namingEngine{
		registry: reg,
		logger:   logger,
	}
}

// illegalNameChars are the characters not allowed in generated file names
const illegalNameChars = `<>:"/\|?*`

const segmentDelimiter = "_"

// GenerateVersionName builds a document-version file name:
// TYPE_tag_TARGET_YYYYMMDD.ext, truncated to MaxVersionNameLength with the
// extension preserved.
func (e *namingEngine) GenerateVersionName(params services.VersionNameParams) string {
	segments := []string{
		e.registry.DocTypeAbbrev(params.DocType),
		SanitizeName(params.VersionTag),
		e.targetSegment(params),
		dateSegment(params.Timestamp),
	}

	name := strings.Join(segments, segmentDelimiter) + normalizeExtension(params.Extension)
	return truncatePreservingExtension(name, config.MaxVersionNameLength)
}

// targetSegment resolves the identifier segment: generic marker, competition
// abbreviation (optionally project-prefixed), or the dedicated marker.
func (e *namingEngine) targetSegment(params services.VersionNameParams) string {
	if params.IsGeneric {
		return e.registry.Naming().GenericMarker
	}

	if c := params.Competition; c != nil && c.Series != "" && c.Level != "" {
		series, ok := e.registry.SeriesAbbrev(c.Series)
		if !ok {
			series = abbreviate(c.Series)
		}
		level, ok := e.registry.LevelAbbrev(c.Level)
		if !ok {
			level = abbreviate(c.Level)
		}

		segment := series + "-" + level
		if params.ProjectName != "" {
			segment = abbreviate(params.ProjectName) + "-" + segment
		}
		return segment
	}

	return e.registry.Naming().DedicatedMarker
}

// GenerateAssetName builds a project-asset file name:
// project_TYPE_name_YYYYMMDD.ext, truncated to MaxAssetNameLength.
func (e *namingEngine) GenerateAssetName(params services.AssetNameParams) string {
	segments := []string{
		abbreviate(params.ProjectName),
		strings.ToUpper(SanitizeName(params.AssetType)),
		SanitizeName(params.AssetName),
		dateSegment(params.Timestamp),
	}

	name := strings.Join(segments, segmentDelimiter) + normalizeExtension(params.Extension)
	return truncatePreservingExtension(name, config.MaxAssetNameLength)
}

// GenerateExpenseName builds an expense-attachment file name:
// project_EXP_description_YYYYMMDD.ext, truncated to MaxAssetNameLength.
func (e *namingEngine) GenerateExpenseName(params services.ExpenseNameParams) string {
	segments := []string{
		abbreviate(params.ProjectName),
		"EXP",
		SanitizeName(params.Description),
		dateSegment(params.Timestamp),
	}

	name := strings.Join(segments, segmentDelimiter) + normalizeExtension(params.Extension)
	return truncatePreservingExtension(name, config.MaxAssetNameLength)
}

// GenerateUniqueName appends _1, _2, ... before the extension until the
// candidate is absent from existing. Terminates because existing is finite.
func (e *namingEngine) GenerateUniqueName(candidate string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[name] = struct{}{}
	}

	if _, ok := taken[candidate]; !ok {
		return candidate
	}

	stem, ext := splitExtension(candidate)
	for n := 1; ; n++ {
		next := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if _, ok := taken[next]; !ok {
			return next
		}
	}
}

// ValidateName checks length, illegal characters and non-emptiness.
// It never consults the filesystem.
func (e *namingEngine) ValidateName(name string) services.NameValidation {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "name is empty")
	}
	if len(name) > config.MaxFileNameLength {
		errs = append(errs, fmt.Sprintf("name exceeds %d characters", config.MaxFileNameLength))
	}
	if i := strings.IndexAny(name, illegalNameChars); i >= 0 {
		errs = append(errs, fmt.Sprintf("name contains illegal character %q", name[i]))
	}

	return services.NameValidation{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// SanitizeName strips characters illegal in file names and collapses runs of
// whitespace to a single space
func SanitizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(illegalNameChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// abbreviate sanitizes free text and truncates it to the segment budget.
// Used when no abbreviation table entry exists.
func abbreviate(s string) string {
	clean := strings.ReplaceAll(SanitizeName(s), " ", "")
	// Truncate by runes so multibyte names stay valid UTF-8
	runes := []rune(clean)
	if len(runes) > config.MaxAbbrevSegmentLength {
		return string(runes[:config.MaxAbbrevSegmentLength])
	}
	return clean
}

// dateSegment formats the date part of a generated name. Zero time means
// "now"; callers that care about determinism always pass a timestamp.
func dateSegment(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("20060102")
}

// normalizeExtension lowercases the extension and guarantees a leading dot.
// An empty extension yields no trailing dot.
func normalizeExtension(ext string) string {
	if ext == "" {
		return ""
	}
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// splitExtension splits a name into stem and extension. Dotfiles and names
// without a dot have an empty extension.
func splitExtension(name string) (stem, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

// truncatePreservingExtension shortens the stem so the full name fits in
// maxLen. The extension always survives.
func truncatePreservingExtension(name string, maxLen int) string {
	if len(name) <= maxLen {
		return name
	}

	stem, ext := splitExtension(name)
	budget := maxLen - len(ext)
	if budget < 1 {
		// Pathological extension longer than the whole budget; keep one
		// stem character and let the name exceed maxLen rather than
		// dropping the extension.
		budget = 1
	}
	if len(stem) > budget {
		stem = stem[:budget]
	}
	return stem + ext
}
