package ddlreflect

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// DefaultConfigFile is the configuration file looked up when none is given.
const DefaultConfigFile = "ddlreflect.yaml"

// Config represents the ddlreflect configuration
type Config struct {
	Dialect string        `yaml:"dialect"`
	Reflect ReflectConfig `yaml:"reflect"`
	Output  OutputConfig  `yaml:"output"`
}

// ReflectConfig controls how CREATE TABLE statements are reflected
type ReflectConfig struct {
	// ScanMode is "stop-at-first-index" (default) or "all".
	ScanMode string        `yaml:"scan_mode"`
	Validate bool          `yaml:"validate"`
	Tables   TablePatterns `yaml:"tables"`
}

// TablePatterns represents table inclusion/exclusion patterns
type TablePatterns struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// OutputConfig controls serialization of reflected tables
type OutputConfig struct {
	Format string `yaml:"format"`
	Dir    string `yaml:"dir"`
	Pretty bool   `yaml:"pretty"`
	// SchemaAware places each table below a directory named after its schema.
	SchemaAware bool `yaml:"schema_aware"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	err := loadEnvFiles(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Strict mode rejects unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

var (
	validScanModes = map[string]bool{"": true, "stop-at-first-index": true, "first-index": true, "all": true}
	validFormats   = map[string]bool{"": true, "yaml": true, "json": true, "xml": true}
)

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Dialect != "" {
		if _, err := ParseDialect(config.Dialect); err != nil {
			return fmt.Errorf("%w: invalid dialect '%s': must be one of mysql, mariadb, postgres, sqlite", ErrConfigValidation, config.Dialect)
		}
	}

	if !validScanModes[strings.ToLower(config.Reflect.ScanMode)] {
		return fmt.Errorf("%w: invalid reflect.scan_mode '%s': must be stop-at-first-index or all", ErrConfigValidation, config.Reflect.ScanMode)
	}

	if !validFormats[strings.ToLower(config.Output.Format)] {
		return fmt.Errorf("%w: invalid output.format '%s': must be one of yaml, json, xml", ErrConfigValidation, config.Output.Format)
	}

	for _, pattern := range append(append([]string{}, config.Reflect.Tables.Include...), config.Reflect.Tables.Exclude...) {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: invalid table pattern '%s'", ErrConfigValidation, pattern)
		}
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Dialect: string(DialectMySQL),
		Reflect: ReflectConfig{
			ScanMode: "stop-at-first-index",
			Tables: TablePatterns{
				Include: []string{"*"},
			},
		},
		Output: OutputConfig{
			Format: "yaml",
			Dir:    "./schema",
			Pretty: true,
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.Dialect == "" {
		config.Dialect = defaults.Dialect
	}

	if config.Reflect.ScanMode == "" {
		config.Reflect.ScanMode = defaults.Reflect.ScanMode
	}

	config.Reflect.ScanMode = strings.ToLower(config.Reflect.ScanMode)

	if len(config.Reflect.Tables.Include) == 0 {
		config.Reflect.Tables.Include = defaults.Reflect.Tables.Include
	}

	if config.Output.Format == "" {
		config.Output.Format = defaults.Output.Format
	}

	config.Output.Format = strings.ToLower(config.Output.Format)

	if config.Output.Dir == "" {
		config.Output.Dir = defaults.Output.Dir
	}
}

// IncludesTable reports whether a table passes the include/exclude patterns.
// Both the bare and the schema-qualified name are matched.
func (c *Config) IncludesTable(table *Table) bool {
	names := []string{table.Name, table.QualifiedName()}

	matchAny := func(patterns []string) bool {
		for _, pattern := range patterns {
			for _, name := range names {
				if MatchWildcard(pattern, name) {
					return true
				}
			}
		}

		return false
	}

	include := c.Reflect.Tables.Include
	if len(include) > 0 && !matchAny(include) {
		return false
	}

	return !matchAny(c.Reflect.Tables.Exclude)
}

// MatchWildcard matches text against a pattern containing '*' wildcards.
// Patterns without '*' require an exact match.
func MatchWildcard(pattern, text string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == text
	}

	matched, err := filepath.Match(pattern, text)
	if err != nil {
		return pattern == text
	}

	return matched
}

// loadEnvFiles loads a .env file next to the configuration if it exists
func loadEnvFiles(dir string) error {
	path := filepath.Join(dir, ".env")
	if !fileExists(path) {
		return nil
	}

	err := godotenv.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in string settings
func expandConfigEnvVars(config *Config) {
	config.Dialect = expandEnvVars(config.Dialect)
	config.Reflect.ScanMode = expandEnvVars(config.Reflect.ScanMode)
	config.Output.Format = expandEnvVars(config.Output.Format)
	config.Output.Dir = expandEnvVars(config.Output.Dir)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
