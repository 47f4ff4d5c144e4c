package registry

import "testing"

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return r
}

func TestDocTypeAbbrev(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name    string
		docType string
		want    string
	}{
		{"known type", "choreography_notes", "CHOREO"},
		{"case insensitive", "MUSIC_SHEET", "MUSIC"},
		{"trimmed", "  invoice  ", "INV"},
		{"unknown falls back", "setlist", "DOC"},
		{"empty falls back", "", "DOC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.DocTypeAbbrev(tt.docType); got != tt.want {
				t.Errorf("DocTypeAbbrev(%q) = %q, want %q", tt.docType, got, tt.want)
			}
		})
	}
}

func TestSeriesAndLevelAbbrev(t *testing.T) {
	r := newTestRegistry(t)

	if abbrev, ok := r.SeriesAbbrev("National Championship"); !ok || abbrev != "NATL" {
		t.Errorf("SeriesAbbrev = %q, %v; want NATL, true", abbrev, ok)
	}
	if _, ok := r.SeriesAbbrev("City Gala Exhibition"); ok {
		t.Error("unknown series must report no table entry")
	}

	if abbrev, ok := r.LevelAbbrev("pro-am"); !ok || abbrev != "PROAM" {
		t.Errorf("LevelAbbrev = %q, %v; want PROAM, true", abbrev, ok)
	}
	if _, ok := r.LevelAbbrev("grandmaster"); ok {
		t.Error("unknown level must report no table entry")
	}
}

func TestMarkers(t *testing.T) {
	r := newTestRegistry(t)

	if r.Naming().GenericMarker != "GEN" {
		t.Errorf("GenericMarker = %q, want GEN", r.Naming().GenericMarker)
	}
	if r.Naming().DedicatedMarker != "DED" {
		t.Errorf("DedicatedMarker = %q, want DED", r.Naming().DedicatedMarker)
	}
}

func TestExtensionAllowed(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name     string
		category string
		ext      string
		want     bool
	}{
		{"document pdf", "document", ".pdf", true},
		{"document markdown", "document", ".md", true},
		{"document video rejected", "document", ".mp4", false},
		{"uppercase normalized", "document", ".PDF", true},
		{"expense jpeg", "expense", ".jpeg", true},
		{"expense spreadsheet rejected", "expense", ".xlsx", false},
		{"asset unrestricted", "asset", ".mp3", true},
		{"inbox unrestricted", "inbox", ".anything", true},
		{"unknown category unrestricted", "mystery", ".exe", true},
		{"competition zip", "competition", ".zip", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ExtensionAllowed(tt.category, tt.ext); got != tt.want {
				t.Errorf("ExtensionAllowed(%q, %q) = %v, want %v", tt.category, tt.ext, got, tt.want)
			}
		})
	}
}

func TestExpensePreferredExtension(t *testing.T) {
	r := newTestRegistry(t)

	if got := r.ExpensePreferredExtension(); got != ".pdf" {
		t.Errorf("ExpensePreferredExtension() = %q, want .pdf", got)
	}
}
