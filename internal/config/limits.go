package config

const (
	// MaxFileNameLength is the hard ceiling for any generated or
	// user-supplied file name. Matches common filesystem limits.
	MaxFileNameLength = 255

	// MaxVersionNameLength is the maximum length for generated
	// document-version file names. The stem is truncated to fit;
	// the extension is always preserved.
	MaxVersionNameLength = 100

	// MaxAssetNameLength is the maximum length for generated asset
	// and expense attachment file names.
	MaxAssetNameLength = 80

	// MaxVersionTagLength is the maximum length for version tags.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (tags should be short and descriptive).
	MaxVersionTagLength = 255

	// MaxDocumentNameLength is the maximum length for logical
	// document names.
	MaxDocumentNameLength = 255

	// MaxAbbrevSegmentLength is the character budget for naming
	// segments derived from free text when no abbreviation is found
	// in the registry (competition series, levels, project names).
	MaxAbbrevSegmentLength = 12

	// HashChunkSize is the buffer size used when streaming file
	// content through the hasher. Large enough to keep syscall
	// overhead low without holding big files in memory.
	HashChunkSize = 256 * 1024
)
