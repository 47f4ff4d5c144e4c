package registry

// NamingTables holds the abbreviation lookup tables used by the naming
// engine. Keys are matched case-insensitively after trimming.
type NamingTables struct {
	// DocTypes maps a document type to its short abbreviation token
	DocTypes map[string]string `yaml:"doc_types" json:"doc_types"`

	// Series maps a competition series name to its abbreviation
	Series map[string]string `yaml:"series" json:"series"`

	// Levels maps a competition level name to its abbreviation
	Levels map[string]string `yaml:"levels" json:"levels"`

	// GenericMarker is the literal segment for generic versions
	GenericMarker string `yaml:"generic_marker" json:"generic_marker"`

	// DedicatedMarker is the literal segment for versions that are neither
	// generic nor competition-bound
	DedicatedMarker string `yaml:"dedicated_marker" json:"dedicated_marker"`

	// FallbackDocType is used when a document type has no table entry
	FallbackDocType string `yaml:"fallback_doc_type" json:"fallback_doc_type"`
}

// ExtensionTables holds the per-category supported file extensions.
// Extensions are lowercase and include the leading dot. An empty list means
// the category accepts any extension.
type ExtensionTables struct {
	Document    []string `yaml:"document" json:"document"`
	Asset       []string `yaml:"asset" json:"asset"`
	Expense     []string `yaml:"expense" json:"expense"`
	Competition []string `yaml:"competition" json:"competition"`
	Inbox       []string `yaml:"inbox" json:"inbox"`

	// ExpensePreferred is the format expenses should arrive in; other
	// allowed extensions produce a warning rather than a rejection
	ExpensePreferred string `yaml:"expense_preferred" json:"expense_preferred"`
}
