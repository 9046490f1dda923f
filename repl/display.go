package repl

import (
	"fmt"
	"io"

	"abapsim/shared"
)

const (
	colorReset   = "\033[0m"
	colorPrompt  = "\033[36m"
	colorMuted   = "\033[90m"
	colorSuccess = "\033[32m"
	colorError   = "\033[31m"
	colorWarning = "\033[33m"
)

// DisplayManager renders buffers, results and messages for the REPL
type DisplayManager struct {
	out       io.Writer
	useColors bool
}

// NewDisplayManager creates a display manager writing to out
func NewDisplayManager(out io.Writer, useColors bool) *DisplayManager {
	return &DisplayManager{out: out, useColors: useColors}
}

func (dm *DisplayManager) paint(color, text string) string {
	if !dm.useColors || text == "" {
		return text
	}
	return color + text + colorReset
}

// Prompt returns the primary or continuation prompt for the buffer state
func (dm *DisplayManager) Prompt(buffer *MultiLineBuffer, prompt, continuePrompt string) string {
	if buffer.IsActive() {
		return dm.paint(colorMuted, continuePrompt)
	}
	return dm.paint(colorPrompt, prompt)
}

// ShowResult prints program output, then diagnostics
func (dm *DisplayManager) ShowResult(result shared.RunResult) {
	if result.Output != nil && *result.Output != "" {
		fmt.Fprintln(dm.out, *result.Output)
	}
	for _, e := range result.Errors {
		fmt.Fprintln(dm.out, dm.paint(colorError, e.Error()))
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(dm.out, dm.paint(colorWarning, "warning: "+w.String()))
	}
	if result.Failure != nil {
		fmt.Fprintln(dm.out, dm.paint(colorError, shared.FormatFailure(result.Failure)))
	}
}

// ShowBufferContent lists the buffered lines with their line numbers
func (dm *DisplayManager) ShowBufferContent(buffer *MultiLineBuffer) {
	if !buffer.IsActive() {
		dm.ShowInfo("buffer is empty")
		return
	}
	for i, line := range buffer.GetLines() {
		fmt.Fprintf(dm.out, "%s %s\n", dm.paint(colorMuted, fmt.Sprintf("%3d:", i+1)), line)
	}
}

// ShowWelcome prints the banner
func (dm *DisplayManager) ShowWelcome(version string) {
	fmt.Fprintln(dm.out, dm.paint(colorSuccess, "abapsim "+version+" - ABAP subset interpreter"))
	fmt.Fprintln(dm.out, "Type statements line by line; an empty line runs the buffer. :help lists commands.")
}

// ShowHelp lists the REPL commands
func (dm *DisplayManager) ShowHelp() {
	fmt.Fprint(dm.out, `Commands:
  :run        run the buffered program
  :check      report syntax errors without running
  :show       list the buffered lines
  :undo       drop the last buffered line
  :clear      discard the buffer
  :warnings   toggle runtime warnings
  :help       show this help
  :quit       leave the REPL
An empty line runs the buffer. Ctrl+C clears it, Ctrl+D exits.
`)
}

// ShowError prints an error message
func (dm *DisplayManager) ShowError(message string) {
	fmt.Fprintln(dm.out, dm.paint(colorError, "error: "+message))
}

// ShowInfo prints an informational message
func (dm *DisplayManager) ShowInfo(message string) {
	fmt.Fprintln(dm.out, dm.paint(colorMuted, message))
}

// ShowSuccess prints a confirmation
func (dm *DisplayManager) ShowSuccess(message string) {
	fmt.Fprintln(dm.out, dm.paint(colorSuccess, message))
}
