// Package progress shows a progress bar while several files are checked.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/klauern/syncinclude/internal/logging"
	"github.com/klauern/syncinclude/internal/ui"
)

// Bar wraps a progressbar that is silently disabled off-terminal.
type Bar struct {
	bar  *progressbar.ProgressBar
	desc string
}

// Options configures the progress bar behavior.
type Options struct {
	// Max is the total number of steps.
	Max int
	// Description is the prefix text shown before the bar.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
}

// New creates a progress bar. The bar is only drawn when colors are
// enabled, Writer is a terminal, there is more than one step, and debug
// logging is off.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	b := &Bar{desc: opts.Description}
	if opts.Max < 2 || !shouldShowProgress(opts.Writer) {
		logging.Debug(fmt.Sprintf("%s started", opts.Description), logging.Count(opts.Max))
		return b
	}

	b.bar = progressbar.NewOptions(
		opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)
	return b
}

// Enabled reports whether the bar is drawn.
func (b *Bar) Enabled() bool {
	return b.bar != nil
}

// Add advances the bar by n steps.
func (b *Bar) Add(n int) error {
	if b.bar == nil {
		return nil
	}
	return b.bar.Add(n)
}

// Finish completes the bar.
func (b *Bar) Finish() error {
	if b.bar == nil {
		logging.Debug(fmt.Sprintf("%s completed", b.desc))
		return nil
	}
	return b.bar.Finish()
}

// shouldShowProgress determines if progress bars should be displayed.
func shouldShowProgress(w io.Writer) bool {
	if !ui.IsColorEnabled() {
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	// #nosec G115 - file descriptors fit in an int
	if !term.IsTerminal(int(f.Fd())) {
		return false
	}

	return !logging.Default().Enabled(context.Background(), logging.LevelDebug)
}
