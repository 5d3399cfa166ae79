package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment overrides, e.g. METBANDS_DATA_DIR.
const EnvPrefix = "METBANDS"

// IDPlaceholder is replaced by the subject ID in FilePattern.
const IDPlaceholder = "{id}"

// Config holds application configuration.
type Config struct {
	// ManifestPath is the CSV or XLSX file listing subject IDs.
	ManifestPath string `json:"manifest_path" envconfig:"MANIFEST" validate:"required"`

	// ManifestColumn names the manifest column holding subject IDs.
	ManifestColumn string `json:"manifest_column" envconfig:"MANIFEST_COLUMN" validate:"required"`

	// DataDir is the directory holding per-subject recordings.
	DataDir string `json:"data_dir" envconfig:"DATA_DIR"`

	// FilePattern maps a subject ID to its recording file name; must contain {id}.
	FilePattern string `json:"file_pattern" envconfig:"FILE_PATTERN" validate:"required,contains={id}"`

	// OutputPath is the report path. Its extension is replaced per format, so
	// result_1.xlsx also yields result_1.csv, result_1.parquet, ...
	OutputPath string `json:"output_path" envconfig:"OUTPUT" validate:"required"`

	// Formats lists report formats to write.
	Formats []string `json:"formats,omitempty" envconfig:"FORMATS" validate:"min=1,dive,oneof=xlsx csv parquet sqlite html"`

	// Locale selects report column headers: zh or en.
	Locale string `json:"locale" envconfig:"LOCALE" validate:"oneof=zh en"`

	// Workers bounds concurrent subjects. 0 means one per CPU.
	Workers int `json:"workers,omitempty" envconfig:"WORKERS" validate:"min=0"`

	LogLevel  string `json:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat string `json:"log_format" envconfig:"LOG_FORMAT" validate:"oneof=json text"`

	// Console prints the final report table to stderr.
	Console *bool `json:"console,omitempty" envconfig:"CONSOLE"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	console := true
	return &Config{
		ManifestPath:   "Metadata1.csv",
		ManifestColumn: "pid",
		DataDir:        ".",
		FilePattern:    IDPlaceholder + ".csv",
		OutputPath:     "result_1.xlsx",
		Formats:        []string{"xlsx"},
		Locale:         "zh",
		LogLevel:       "info",
		LogFormat:      "text",
		Console:        &console,
	}
}

// Load loads configuration from path, then applies METBANDS_* environment
// overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	fileCfg, err := loadFileRaw(path)
	if err != nil {
		return nil, err
	}
	cfg := Merge(DefaultConfig(), fileCfg)

	envCfg := &Config{}
	if err := envconfig.Process(EnvPrefix, envCfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return Merge(cfg, envCfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Non-empty overlay values take precedence; see the Formats rule below.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		ManifestPath:   pick(overlay.ManifestPath, base.ManifestPath),
		ManifestColumn: pick(overlay.ManifestColumn, base.ManifestColumn),
		DataDir:        pick(overlay.DataDir, base.DataDir),
		FilePattern:    pick(overlay.FilePattern, base.FilePattern),
		OutputPath:     pick(overlay.OutputPath, base.OutputPath),
		Locale:         pick(overlay.Locale, base.Locale),
		LogLevel:       pick(overlay.LogLevel, base.LogLevel),
		LogFormat:      pick(overlay.LogFormat, base.LogFormat),
	}

	result.Workers = overlay.Workers
	if result.Workers == 0 {
		result.Workers = base.Workers
	}

	// Pointer booleans: an explicit overlay value wins, including false
	result.Console = base.Console
	if overlay.Console != nil {
		result.Console = overlay.Console
	}

	// Formats: an overlay list replaces the base list rather than extending it,
	// so "--format csv" does not also write the default xlsx.
	if len(overlay.Formats) > 0 {
		result.Formats = normalizeList(overlay.Formats)
	} else {
		result.Formats = normalizeList(base.Formats)
	}

	return result
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ConsoleEnabled reports whether the console table should be printed.
func (c *Config) ConsoleEnabled() bool {
	return c.Console == nil || *c.Console
}

// SubjectFile returns the recording file name for a subject ID.
func (c *Config) SubjectFile(subjectID string) string {
	return strings.ReplaceAll(c.FilePattern, IDPlaceholder, subjectID)
}

func pick(overlay, base string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

// normalizeList lowercases, trims and removes duplicates, preserving order.
func normalizeList(in []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
