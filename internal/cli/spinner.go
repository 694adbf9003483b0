package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line status on the log writer. It can be started
// and stopped any number of times; the engine drives it through Progress
// while module stores read package metadata.
type Spinner struct {
	w        io.Writer
	interval time.Duration

	mu      sync.Mutex
	message string
	running bool
	stop    chan struct{}
	stopped chan struct{}
}

// newSpinner returns an idle spinner writing to w. A nil w discards output.
func newSpinner(w io.Writer) *Spinner {
	if w == nil {
		w = io.Discard
	}
	return &Spinner{w: w, interval: 80 * time.Millisecond}
}

// Start sets the status line and starts the animation unless it is already
// running. The animation ends with ctx.
func (s *Spinner) Start(ctx context.Context, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = fmt.Sprintf(format, args...)
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.run(ctx, s.stop, s.stopped)
}

func (s *Spinner) run(ctx context.Context, stop, stopped chan struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

// Stop ends the animation and clears the line. Stopping an idle spinner
// does nothing.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, stopped := s.stop, s.stopped
	width := len(s.message) + 4
	s.mu.Unlock()

	close(stop)
	<-stopped

	s.mu.Lock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", width))
	s.mu.Unlock()
}

// Running reports whether the animation is on.
func (s *Spinner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Progress implements reconcile.Options.Progress.
func (s *Spinner) Progress(module string, done, total int) {
	if done >= total {
		s.Stop()
		return
	}
	s.Start(context.Background(), "Reading metadata for %s (%d/%d)", module, done, total)
}
