package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the common prefix every environment override shares, e.g.
// PAGEFIND_SOURCE, PAGEFIND_BUNDLE_DIR_PATH.
const envPrefix = "PAGEFIND"

// Loader loads a Config from the file/environment layers and merges in a
// set of flag-provided overrides.
type Loader interface {
	// Load returns the config with defaults, the config file (if present
	// under rootDir), and environment variables applied, flags last.
	Load(flags *viper.Viper) (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader returns a Loader that searches rootDir for a pagefind config
// file.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load merges, from lowest to highest priority: defaults, config file,
// environment variables, and flags already bound onto v (if non-nil).
func (l *loader) Load(flags *viper.Viper) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pagefind")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.rootDir)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	if flags != nil {
		for _, key := range flags.AllKeys() {
			if flags.IsSet(key) {
				v.Set(key, flags.Get(key))
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("source", d.Source)
	v.SetDefault("bundle_dir_path", d.BundleDirPath)
	v.SetDefault("glob", d.Glob)
	v.SetDefault("exclude_selectors", d.ExcludeSelectors)
	v.SetDefault("force_language", d.ForceLanguage)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("quiet", d.Quiet)
	v.SetDefault("logfile", d.LogFile)
	v.SetDefault("service", d.Service)
}

// LoadFromDir is a convenience wrapper for callers with no flag overrides.
func LoadFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load(nil)
}
