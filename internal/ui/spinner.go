package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/imgajeed76/ivy/internal/ui/styles"
	"golang.org/x/term"
)

// Spinner provides a simple animated spinner for database round trips
type Spinner struct {
	message string
	out     io.Writer
	done    chan struct{}
	stopped chan struct{}
	static  bool
}

// NewSpinner creates a new spinner writing to stdout
func NewSpinner(message string) *Spinner {
	return NewSpinnerTo(os.Stdout, message)
}

// NewSpinnerTo creates a spinner writing to out. Anything that is not a
// terminal gets a single static line instead of frames.
func NewSpinnerTo(out io.Writer, message string) *Spinner {
	static := styles.IsAccessible()
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		static = true
	}
	return &Spinner{
		message: message,
		out:     out,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		static:  static,
	}
}

// Start begins the spinner animation in the background
func (s *Spinner) Start() {
	if s.static {
		fmt.Fprintln(s.out, s.message+"...")
		close(s.stopped)
		return
	}

	go func() {
		defer close(s.stopped)
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		style := lipgloss.NewStyle().Foreground(styles.Accent)
		i := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				// Clear the spinner line
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				frame := style.Render(frames[i%len(frames)])
				fmt.Fprintf(s.out, "\r%s %s", frame, s.message)
				i++
			}
		}
	}()
}

// Stop stops the spinner and waits for the line to be cleared
func (s *Spinner) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
}

// Success stops the spinner and shows a success message
func (s *Spinner) Success(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.SuccessMsg(msg))
}

// Error stops the spinner and shows an error message
func (s *Spinner) Error(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.ErrorMsg(msg))
}
