package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var (
	brailleFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	asciiFrames   = []string{"|", "/", "-", "\\"}
)

// IsTerminal reports whether w is a terminal, Cygwin ptys included.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Spinner animates a message while a long-running ARM call is in flight.
// It draws nothing unless its writer is a terminal.
type Spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	started bool
}

// NewSpinner returns a spinner drawing on the diagnostics writer.
func NewSpinner(message string) *Spinner {
	return &Spinner{w: diagnostics(), message: message, stop: make(chan struct{})}
}

// Start begins drawing. Calls after the first are ignored.
func (s *Spinner) Start() {
	if s.started {
		return
	}
	s.started = true
	if JSONMode || !IsTerminal(s.w) {
		return
	}
	frames := brailleFrames
	if NoColor() {
		frames = asciiFrames
	}
	s.wg.Add(1)
	go s.spin(frames)
}

func (s *Spinner) spin(frames []string) {
	defer s.wg.Done()
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.stop:
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-tick.C:
			fmt.Fprintf(s.w, "\r%s %s", frames[i%len(frames)], s.message)
		}
	}
}

// Stop clears the line and waits for the animation to exit.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// WithSpinner runs fn under a spinner and logs how it ended.
func WithSpinner(message string, fn func() error) error {
	sp := NewSpinner(message)
	sp.Start()
	err := fn()
	sp.Stop()
	if err != nil {
		Fail(message + " failed")
		return err
	}
	Success(message)
	return nil
}
