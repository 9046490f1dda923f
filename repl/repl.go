package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"abapsim/engine"
	"abapsim/errors"
	"abapsim/logging"
	"abapsim/shared"

	"github.com/chzyer/readline"
)

// REPLConfig contains configuration for the REPL
type REPLConfig struct {
	Engine         *engine.ExecutionEngine
	Logger         logging.Logger
	Prompt         string // default "abap> "
	ContinuePrompt string // default "  ... "
	HistoryFile    string
	HistorySize    int // default 1000
	ShowWelcome    bool
	ShowWarnings   bool
	EnableColors   bool
	Version        string
	In             io.Reader // default os.Stdin
	Out            io.Writer // default os.Stdout
}

// REPL reads program lines into a buffer and runs it on demand. Every run
// gets a fresh execution context; nothing carries over between runs.
type REPL struct {
	engine         *engine.ExecutionEngine
	logger         logging.Logger
	prompt         string
	continuePrompt string
	historyFile    string
	historySize    int
	showWelcome    bool
	showWarnings   bool
	version        string
	in             io.Reader
	out            io.Writer
	buffer         *MultiLineBuffer
	display        *DisplayManager
	quitting       bool
}

// NewREPL creates a REPL with the default engine configuration
func NewREPL() *REPL {
	return NewREPLWithConfig(REPLConfig{ShowWelcome: true})
}

// NewREPLWithConfig creates a REPL instance with configuration
func NewREPLWithConfig(config REPLConfig) *REPL {
	if config.Engine == nil {
		config.Engine = engine.NewExecutionEngine()
	}
	if config.Logger == nil {
		config.Logger = logging.NewNopLogger()
	}
	if config.Prompt == "" {
		config.Prompt = "abap> "
	}
	if config.ContinuePrompt == "" {
		config.ContinuePrompt = "  ... "
	}
	if config.HistorySize == 0 {
		config.HistorySize = 1000
	}
	if config.In == nil {
		config.In = os.Stdin
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}
	if config.Version == "" {
		config.Version = "dev"
	}

	return &REPL{
		engine:         config.Engine,
		logger:         config.Logger.WithComponent("repl"),
		prompt:         config.Prompt,
		continuePrompt: config.ContinuePrompt,
		historyFile:    config.HistoryFile,
		historySize:    config.HistorySize,
		showWelcome:    config.ShowWelcome,
		showWarnings:   config.ShowWarnings,
		version:        config.Version,
		in:             config.In,
		out:            config.Out,
		buffer:         NewMultiLineBuffer(),
		display:        NewDisplayManager(config.Out, config.EnableColors),
	}
}

// Buffer exposes the line buffer
func (r *REPL) Buffer() *MultiLineBuffer {
	return r.buffer
}

// isInteractive checks if the input is a terminal
func (r *REPL) isInteractive() bool {
	f, ok := r.in.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Run starts the loop and returns when the user quits or input ends
func (r *REPL) Run(ctx context.Context) error {
	r.quitting = false
	if r.isInteractive() {
		if r.showWelcome {
			r.display.ShowWelcome(r.version)
		}
		return r.runInteractive(ctx)
	}
	return r.runPiped(ctx)
}

// runInteractive reads lines with readline editing, history and completion
func (r *REPL) runInteractive(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          r.prompt,
		HistoryFile:     r.historyFile,
		HistoryLimit:    r.historySize,
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
		AutoComplete:    NewKeywordCompleter(r.engine.Keywords()),
		Stdout:          r.out,
	})
	if err != nil {
		return errors.NewSystemError("READLINE_INIT_FAILED", fmt.Sprintf("failed to initialize readline: %v", err))
	}
	defer func() {
		if err := rl.Close(); err != nil {
			r.logger.Warn("failed to close readline", logging.ErrorField("error", err))
		}
	}()

	for !r.quitting {
		rl.SetPrompt(r.display.Prompt(r.buffer, r.prompt, r.continuePrompt))

		input, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if r.buffer.IsActive() {
				r.buffer.Clear()
				r.display.ShowInfo("buffer cleared")
				continue
			}
			return nil
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.NewSystemError("READ_ERROR", fmt.Sprintf("read error: %v", err))
		}
		r.HandleLine(ctx, input)
	}
	return nil
}

// runPiped feeds every input line through HandleLine and runs whatever is
// still buffered at end of input
func (r *REPL) runPiped(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	for !r.quitting && scanner.Scan() {
		r.HandleLine(ctx, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return errors.NewSystemError("STDIN_READ_ERROR", fmt.Sprintf("error reading input: %v", err))
	}
	if !r.quitting && r.buffer.IsActive() {
		r.runBuffer(ctx)
	}
	return nil
}

// HandleLine processes one input line and reports whether the loop should
// continue. Lines starting with ':' are commands; an empty line runs the
// buffer; anything else is buffered.
func (r *REPL) HandleLine(ctx context.Context, input string) bool {
	line := strings.TrimRight(input, "\r\n")
	trimmed := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(trimmed, ":"):
		r.handleCommand(ctx, trimmed)
	case trimmed == "":
		if r.buffer.IsActive() {
			r.runBuffer(ctx)
		}
	default:
		r.buffer.AddLine(line)
	}
	return !r.quitting
}

func (r *REPL) handleCommand(ctx context.Context, command string) {
	name := strings.Fields(command)[0]
	switch name {
	case ":quit", ":exit", ":q":
		r.quitting = true
	case ":run":
		if !r.buffer.IsActive() {
			r.display.ShowInfo("buffer is empty")
			return
		}
		r.runBuffer(ctx)
	case ":check":
		errs := r.engine.Check(r.buffer.GetContent())
		if len(errs) == 0 {
			r.display.ShowSuccess("no syntax errors")
			return
		}
		r.display.ShowResult(shared.NewCheckResult("", errs))
	case ":show":
		r.display.ShowBufferContent(r.buffer)
	case ":undo":
		if removed := r.buffer.RemoveLastLine(); removed != "" {
			r.display.ShowInfo("removed: " + removed)
		}
	case ":clear":
		r.buffer.Clear()
		r.display.ShowInfo("buffer cleared")
	case ":warnings":
		r.showWarnings = !r.showWarnings
		r.display.ShowInfo(fmt.Sprintf("warnings %s", onOff(r.showWarnings)))
	case ":help":
		r.display.ShowHelp()
	default:
		r.display.ShowError(fmt.Sprintf("unknown command %s (try :help)", name))
	}
}

// runBuffer runs the buffered program. The buffer is kept when syntax
// errors withheld the run so the lines can be corrected.
func (r *REPL) runBuffer(ctx context.Context) {
	res, err := r.engine.Run(ctx, r.buffer.GetContent())
	result := shared.NewRunResult("", res, err, r.showWarnings)
	r.display.ShowResult(result)
	r.logger.Debug("buffer run",
		logging.IntField("lines", r.buffer.GetLineCount()),
		logging.IntField("exit_code", result.ExitCode()))
	if len(result.Errors) == 0 {
		r.buffer.Clear()
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
