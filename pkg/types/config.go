package types

import "time"

// HTTPConfig holds HTTP settings for commands that download journal lists.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" toml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bibcheck/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent" toml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" toml:"max_retries" validate:"gte=0,lte=10"`
}

// CacheConfig controls the on-disk result cache.
type CacheConfig struct {
	// Enabled turns the cache on.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled" toml:"enabled"`

	// Dir is the cache directory (default ~/.cache/bibcheck).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir" toml:"dir"`
}

// StoreConfig locates the SQLite database holding run history and journal
// abbreviations.
type StoreConfig struct {
	// DataDir contains bibcheck.db (default ~/.local/share/bibcheck).
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir" toml:"data_dir"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level" toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" mapstructure:"format" toml:"format" validate:"omitempty,oneof=text json"`
}

// CheckConfig holds every setting of an integrity check run.
type CheckConfig struct {
	// Dialect forces bibtex or biblatex; empty means use the file's declaration.
	Dialect string `json:"dialect,omitempty" yaml:"dialect,omitempty" mapstructure:"dialect" toml:"dialect" validate:"omitempty,oneof=bibtex biblatex"`

	// AllowIntegerEdition accepts purely numeric editions in BibTeX mode.
	AllowIntegerEdition bool `json:"allow_integer_edition" yaml:"allow_integer_edition" mapstructure:"allow_integer_edition" toml:"allow_integer_edition"`

	// StrictBibtexNames rejects author lists in BibTeX mode that write more
	// than one name as "First Last".
	StrictBibtexNames bool `json:"strict_bibtex_names" yaml:"strict_bibtex_names" mapstructure:"strict_bibtex_names" toml:"strict_bibtex_names"`

	// KeyPattern is the default citation-key pattern, e.g. "[auth][year]".
	// A pattern declared in the bibliography file takes precedence.
	KeyPattern string `json:"key_pattern" yaml:"key_pattern" mapstructure:"key_pattern" toml:"key_pattern" validate:"omitempty,keypattern"`

	// KeyPatterns overrides KeyPattern per entry type.
	KeyPatterns map[string]string `json:"key_patterns,omitempty" yaml:"key_patterns,omitempty" mapstructure:"key_patterns" toml:"key_patterns" validate:"dive,keys,required,endkeys,keypattern"`

	// FileDirectories are searched when resolving relative file links.
	FileDirectories []string `json:"file_directories,omitempty" yaml:"file_directories,omitempty" mapstructure:"file_directories" toml:"file_directories"`

	// AbbreviationLists are CSV or YAML journal abbreviation files.
	AbbreviationLists []string `json:"abbreviation_lists,omitempty" yaml:"abbreviation_lists,omitempty" mapstructure:"abbreviation_lists" toml:"abbreviation_lists"`

	// UseStoredAbbreviations also loads the abbreviations imported into the
	// database.
	UseStoredAbbreviations bool `json:"use_stored_abbreviations" yaml:"use_stored_abbreviations" mapstructure:"use_stored_abbreviations" toml:"use_stored_abbreviations"`

	// PredatoryList is a text or YAML file of predatory journal and publisher
	// names.
	PredatoryList string `json:"predatory_list,omitempty" yaml:"predatory_list,omitempty" mapstructure:"predatory_list" toml:"predatory_list"`

	// PredatoryURL is the download source for "predatory update".
	PredatoryURL string `json:"predatory_url,omitempty" yaml:"predatory_url,omitempty" mapstructure:"predatory_url" toml:"predatory_url" validate:"omitempty,url"`

	// Jobs is the number of entries checked in parallel (0 = GOMAXPROCS).
	Jobs int `json:"jobs" yaml:"jobs" mapstructure:"jobs" toml:"jobs" validate:"gte=0,lte=256"`

	// Disabled lists checker ids that are skipped.
	Disabled []string `json:"disabled,omitempty" yaml:"disabled,omitempty" mapstructure:"disabled" toml:"disabled" validate:"dive,required"`

	// Format selects the report renderer.
	Format string `json:"format" yaml:"format" mapstructure:"format" toml:"format" validate:"omitempty,oneof=text json yaml csv"`

	HTTP  HTTPConfig  `json:"http" yaml:"http" mapstructure:"http" toml:"http"`
	Cache CacheConfig `json:"cache" yaml:"cache" mapstructure:"cache" toml:"cache"`
	Store StoreConfig `json:"store" yaml:"store" mapstructure:"store" toml:"store"`
	Log   LogConfig   `json:"log" yaml:"log" mapstructure:"log" toml:"log"`
}
