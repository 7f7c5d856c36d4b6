package pipeline

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressReporter receives run milestones. A quiet run uses a
// no-op implementation; an interactive run drives a progress bar.
type ProgressReporter interface {
	OnDiscoveryComplete(fileCount int)
	OnFileProcessed(path string)
	OnWriteBackStart(fileCount int)
	OnComplete(stats Stats, elapsed time.Duration)
}

// CLIProgressReporter prints milestones and a progress bar to standard
// output while a run proceeds, the way the teacher's CLIProgressReporter does for its
// own indexing phases.
type CLIProgressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

// NewCLIProgressReporter returns a reporter; quiet suppresses all output.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (r *CLIProgressReporter) OnDiscoveryComplete(fileCount int) {
	if r.quiet {
		return
	}
	fmt.Printf("Indexing %d files...\n", fileCount)
	r.bar = progressbar.NewOptions(fileCount,
		progressbar.OptionSetDescription("Fossicking"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("pages/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
}

func (r *CLIProgressReporter) OnFileProcessed(_ string) {
	if r.quiet || r.bar == nil {
		return
	}
	r.bar.Add(1)
}

func (r *CLIProgressReporter) OnWriteBackStart(fileCount int) {
	if r.quiet {
		return
	}
	fmt.Printf("Writing %d bundle files...\n", fileCount)
}

func (r *CLIProgressReporter) OnComplete(stats Stats, elapsed time.Duration) {
	if r.quiet {
		return
	}
	fmt.Printf("\n✓ Indexed %d pages across %d languages in %s\n",
		stats.PageCount, stats.LanguageCount, elapsed.Round(time.Millisecond))
}

// NoopProgressReporter discards every milestone.
type NoopProgressReporter struct{}

func (NoopProgressReporter) OnDiscoveryComplete(int) {}
func (NoopProgressReporter) OnFileProcessed(string)  {}
func (NoopProgressReporter) OnWriteBackStart(int)    {}

func (NoopProgressReporter) OnComplete(Stats, time.Duration) {}
