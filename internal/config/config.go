// Package config loads pagefind's run configuration from layered sources:
// built-in defaults, an optional config file, environment variables, and
// command-line flags, in that priority order (flags win).
package config

// Config is the complete configuration for one indexing run.
type Config struct {
	Source           string   `yaml:"source" mapstructure:"source"`
	BundleDirPath    string   `yaml:"bundle_dir_path" mapstructure:"bundle_dir_path"`
	Glob             string   `yaml:"glob" mapstructure:"glob"`
	ExcludeSelectors []string `yaml:"exclude_selectors" mapstructure:"exclude_selectors"`
	ForceLanguage    string   `yaml:"force_language" mapstructure:"force_language"`
	Verbose          bool     `yaml:"verbose" mapstructure:"verbose"`
	Quiet            bool     `yaml:"quiet" mapstructure:"quiet"`
	LogFile          string   `yaml:"logfile" mapstructure:"logfile"`
	Service          bool     `yaml:"service" mapstructure:"service"`
}

// Default returns the built-in defaults, the bottom layer of the
// defaults → file → env → flags stack.
func Default() *Config {
	return &Config{
		Source:           "public",
		BundleDirPath:    "public/pagefind",
		Glob:             "**/*.{html}",
		ExcludeSelectors: nil,
		ForceLanguage:    "",
		Verbose:          false,
		Quiet:            false,
		LogFile:          "",
		Service:          false,
	}
}
