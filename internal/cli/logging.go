package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/pagefind-go/pagefind/internal/config"
)

// setupLogging points the standard logger at cfg.LogFile when set, and
// otherwise leaves it on stderr. Quiet only affects what the CLI itself
// prints to stdout, not where log.Printf output from deeper packages goes;
// verbose changes neither.
func setupLogging(cfg *config.Config) error {
	log.SetFlags(0)

	if cfg.LogFile == "" {
		return nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("cli: open logfile %s: %w", cfg.LogFile, err)
	}
	log.SetOutput(f)
	return nil
}
