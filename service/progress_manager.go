package service

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Spinner implements domain.ActivityIndicator with an indeterminate
// progress bar. It draws nothing when the writer is not a terminal.
type Spinner struct {
	mu          sync.Mutex
	writer      io.Writer
	bar         *progressbar.ProgressBar
	interactive bool
	stop        chan struct{}
	done        chan struct{}
}

// NewSpinner creates a spinner writing to stderr.
func NewSpinner() *Spinner {
	s := &Spinner{}
	s.SetWriter(os.Stderr)
	return s
}

// SetWriter sets the output writer and re-evaluates interactivity.
func (s *Spinner) SetWriter(writer io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writer = writer
	if file, ok := writer.(*os.File); ok {
		s.interactive = term.IsTerminal(int(file.Fd()))
	} else {
		s.interactive = false
	}
}

// Start shows the spinner with a description. Starting a running spinner
// only updates its description.
func (s *Spinner) Start(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.interactive {
		return
	}
	if s.bar != nil {
		s.bar.Describe(description)
		return
	}

	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(s.writer),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.tick(s.bar, s.stop, s.done)
}

// Stop removes the spinner. On failure a short marker is left behind.
func (s *Spinner) Stop(success bool) {
	s.mu.Lock()
	bar, stop, done := s.bar, s.stop, s.done
	s.bar, s.stop, s.done = nil, nil, nil
	writer := s.writer
	s.mu.Unlock()

	if bar == nil {
		return
	}
	close(stop)
	<-done
	_ = bar.Finish()
	if !success {
		fmt.Fprintln(writer, "✗ request failed")
	}
}

func (s *Spinner) tick(bar *progressbar.ProgressBar, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}
