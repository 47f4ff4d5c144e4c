package service

import (
	"strings"
	"testing"
	"time"

	"curator/internal/config"
	"curator/internal/domain/services"
)

func newTestNamingEngine(t *testing.T) services.NamingEngine {
	t.Helper()
	return NewNamingEngine(testRegistry(t), testLogger())
}

func TestGenerateVersionName(t *testing.T) {
	engine := newTestNamingEngine(t)
	ts := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		params services.VersionNameParams
		want   string
	}{
		{
			name: "generic version",
			params: services.VersionNameParams{
				DocType:    "choreography_notes",
				VersionTag: "draft 2",
				IsGeneric:  true,
				Extension:  ".pdf",
				Timestamp:  ts,
			},
			want: "CHOREO_draft 2_GEN_20260315.pdf",
		},
		{
			name: "competition version with known abbreviations",
			params: services.VersionNameParams{
				DocType:    "music_sheet",
				VersionTag: "final",
				Competition: &services.CompetitionRef{
					Series: "Regional Qualifier",
					Level:  "Novice",
				},
				Extension: ".pdf",
				Timestamp: ts,
			},
			want: "MUSIC_final_RQ-NOV_20260315.pdf",
		},
		{
			name: "competition version with project prefix",
			params: services.VersionNameParams{
				DocType:    "program",
				VersionTag: "v3",
				Competition: &services.CompetitionRef{
					Series: "national championship",
					Level:  "advanced",
				},
				ProjectName: "Firebird",
				Extension:   ".pdf",
				Timestamp:   ts,
			},
			want: "PROG_v3_Firebird-NATL-ADV_20260315.pdf",
		},
		{
			name: "unknown series falls back to abbreviated text",
			params: services.VersionNameParams{
				DocType:    "invoice",
				VersionTag: "q1",
				Competition: &services.CompetitionRef{
					Series: "City Gala Exhibition Night",
					Level:  "novice",
				},
				Extension: ".pdf",
				Timestamp: ts,
			},
			want: "INV_q1_CityGalaExhi-NOV_20260315.pdf",
		},
		{
			name: "multibyte series truncates on rune boundary",
			params: services.VersionNameParams{
				DocType:    "invoice",
				VersionTag: "q1",
				Competition: &services.CompetitionRef{
					Series: "Čarovná Noc Tanečníkov",
					Level:  "novice",
				},
				Extension: ".pdf",
				Timestamp: ts,
			},
			want: "INV_q1_ČarovnáNocTa-NOV_20260315.pdf",
		},
		{
			name: "dedicated version without competition",
			params: services.VersionNameParams{
				DocType:    "contract",
				VersionTag: "signed",
				Extension:  ".pdf",
				Timestamp:  ts,
			},
			want: "CONTRACT_signed_DED_20260315.pdf",
		},
		{
			name: "unknown doc type uses fallback abbreviation",
			params: services.VersionNameParams{
				DocType:    "mystery",
				VersionTag: "x",
				IsGeneric:  true,
				Extension:  ".txt",
				Timestamp:  ts,
			},
			want: "DOC_x_GEN_20260315.txt",
		},
		{
			name: "uppercase extension is normalized",
			params: services.VersionNameParams{
				DocType:    "other",
				VersionTag: "scan",
				IsGeneric:  true,
				Extension:  ".PDF",
				Timestamp:  ts,
			},
			want: "DOC_scan_GEN_20260315.pdf",
		},
		{
			name: "illegal characters stripped from tag",
			params: services.VersionNameParams{
				DocType:    "choreography_notes",
				VersionTag: `act<1>: "lifts"`,
				IsGeneric:  true,
				Extension:  ".md",
				Timestamp:  ts,
			},
			want: "CHOREO_act1 lifts_GEN_20260315.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.GenerateVersionName(tt.params)
			if got != tt.want {
				t.Errorf("GenerateVersionName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateVersionNameLengthBound(t *testing.T) {
	engine := newTestNamingEngine(t)

	got := engine.GenerateVersionName(services.VersionNameParams{
		DocType:    "choreography_notes",
		VersionTag: strings.Repeat("very long tag ", 30),
		IsGeneric:  true,
		Extension:  ".docx",
		Timestamp:  time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	})

	if len(got) > config.MaxVersionNameLength {
		t.Errorf("name length = %d, want <= %d", len(got), config.MaxVersionNameLength)
	}
	if !strings.HasSuffix(got, ".docx") {
		t.Errorf("truncation dropped the extension: %q", got)
	}
	if !strings.HasPrefix(got, "CHOREO_") {
		t.Errorf("truncation dropped the type prefix: %q", got)
	}
}

func TestGenerateAssetName(t *testing.T) {
	engine := newTestNamingEngine(t)
	ts := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)

	got := engine.GenerateAssetName(services.AssetNameParams{
		ProjectName: "Swan Lake",
		AssetType:   "music",
		AssetName:   "act two adagio",
		Extension:   ".mp3",
		Timestamp:   ts,
	})
	want := "SwanLake_MUSIC_act two adagio_20260704.mp3"
	if got != want {
		t.Errorf("GenerateAssetName() = %q, want %q", got, want)
	}

	if len(got) > config.MaxAssetNameLength {
		t.Errorf("name length = %d, want <= %d", len(got), config.MaxAssetNameLength)
	}
}

func TestGenerateExpenseName(t *testing.T) {
	engine := newTestNamingEngine(t)
	ts := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	got := engine.GenerateExpenseName(services.ExpenseNameParams{
		ProjectName: "Firebird",
		Description: "costume fabric",
		Extension:   ".pdf",
		Timestamp:   ts,
	})
	want := "Firebird_EXP_costume fabric_20260228.pdf"
	if got != want {
		t.Errorf("GenerateExpenseName() = %q, want %q", got, want)
	}
}

func TestGenerateExpenseNameLengthBound(t *testing.T) {
	engine := newTestNamingEngine(t)

	got := engine.GenerateExpenseName(services.ExpenseNameParams{
		ProjectName: strings.Repeat("Production", 10),
		Description: strings.Repeat("itemized receipt ", 20),
		Extension:   ".pdf",
		Timestamp:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
	})

	if len(got) > config.MaxAssetNameLength {
		t.Errorf("name length = %d, want <= %d", len(got), config.MaxAssetNameLength)
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Errorf("truncation dropped the extension: %q", got)
	}
}

func TestGenerateUniqueName(t *testing.T) {
	engine := newTestNamingEngine(t)

	tests := []struct {
		name      string
		candidate string
		existing  []string
		want      string
	}{
		{
			name:      "no collision returns candidate unchanged",
			candidate: "report.pdf",
			existing:  []string{"other.pdf"},
			want:      "report.pdf",
		},
		{
			name:      "single collision appends counter before extension",
			candidate: "report.pdf",
			existing:  []string{"report.pdf"},
			want:      "report_1.pdf",
		},
		{
			name:      "counter skips taken suffixes",
			candidate: "report.pdf",
			existing:  []string{"report.pdf", "report_1.pdf", "report_2.pdf"},
			want:      "report_3.pdf",
		},
		{
			name:      "no extension",
			candidate: "notes",
			existing:  []string{"notes"},
			want:      "notes_1",
		},
		{
			name:      "empty existing list",
			candidate: "a.txt",
			existing:  nil,
			want:      "a.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.GenerateUniqueName(tt.candidate, tt.existing)
			if got != tt.want {
				t.Errorf("GenerateUniqueName(%q) = %q, want %q", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	engine := newTestNamingEngine(t)

	tests := []struct {
		name      string
		input     string
		wantValid bool
	}{
		{"valid simple name", "report.pdf", true},
		{"valid with spaces", "final draft 2.docx", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"path separator", "a/b.pdf", false},
		{"windows separator", `a\b.pdf`, false},
		{"colon", "a:b.pdf", false},
		{"question mark", "what?.pdf", false},
		{"too long", strings.Repeat("x", config.MaxFileNameLength+1), false},
		{"exactly max length", strings.Repeat("x", config.MaxFileNameLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ValidateName(tt.input)
			if got.Valid != tt.wantValid {
				t.Errorf("ValidateName(%q).Valid = %v, want %v (errors: %v)",
					tt.input, got.Valid, tt.wantValid, got.Errors)
			}
			if !got.Valid && len(got.Errors) == 0 {
				t.Error("invalid result carries no error messages")
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean name unchanged", "report.pdf", "report.pdf"},
		{"illegal characters stripped", `a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"whitespace collapsed", "a   b\t\tc", "a b c"},
		{"leading and trailing whitespace trimmed", "  hello  ", "hello"},
		{"only illegal characters", `<>:"/\|?*`, ""},
		{"unicode preserved", "Жар-птица.pdf", "Жар-птица.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
