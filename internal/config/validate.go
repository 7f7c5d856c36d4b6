package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptySource indicates a missing source directory.
	ErrEmptySource = errors.New("empty source directory")

	// ErrEmptyBundleDirPath indicates a missing bundle output directory.
	ErrEmptyBundleDirPath = errors.New("empty bundle directory path")

	// ErrInvalidGlob indicates a glob pattern that fails to compile.
	ErrInvalidGlob = errors.New("invalid glob pattern")

	// ErrConflictingQuietVerbose indicates both --quiet and --verbose set.
	ErrConflictingQuietVerbose = errors.New("conflicting quiet and verbose flags")
)

// Validate checks that cfg is internally consistent. Per spec.md §7,
// configuration errors are fatal, so callers should treat a non-nil
// return as process-terminating.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Source) == "" {
		errs = append(errs, ErrEmptySource)
	}

	if strings.TrimSpace(cfg.BundleDirPath) == "" {
		errs = append(errs, ErrEmptyBundleDirPath)
	}

	if _, err := glob.Compile(cfg.Glob, '/'); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidGlob, cfg.Glob, err))
	}

	if cfg.Quiet && cfg.Verbose {
		errs = append(errs, ErrConflictingQuietVerbose)
	}

	return errors.Join(errs...)
}
