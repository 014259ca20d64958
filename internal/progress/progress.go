// Package progress renders spinners and bars on stderr so stdout stays
// reserved for report output.
package progress

import (
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Tracker is a thin handle over a terminal progress indicator. A nil
// method receiver is not supported; callers that run without a terminal
// simply never construct one.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewSpinner returns an indeterminate spinner for walks whose total is
// unknown up front, such as a repository log.
func NewSpinner(label string) *Tracker {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(16),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(11),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, label: label}
}

// NewTracker returns a determinate bar counting processed files out of
// the given total.
func NewTracker(label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionSetWidth(24),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerHead:    "#",
			SaucerPadding: "-",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	)
	return &Tracker{bar: bar, label: label}
}

// Tick advances the indicator by one unit. Safe for concurrent use.
func (t *Tracker) Tick() {
	t.bar.Add(1)
}

// FinishSuccess removes the indicator without leaving output behind.
func (t *Tracker) FinishSuccess() {
	t.bar.Finish()
	t.bar.Clear()
}

// FinishError removes the indicator and reports the failure on stderr.
func (t *Tracker) FinishError(err error) {
	t.bar.Finish()
	t.bar.Clear()
	color.New(color.FgRed).Fprintf(os.Stderr, "%s failed: %v\n", t.label, err)
}
