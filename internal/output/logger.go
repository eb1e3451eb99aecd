package output

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu     sync.Mutex
	logger *log.Logger
	sink   io.Writer = os.Stderr

	// JSONMode mutes text diagnostics; set by --json.
	JSONMode bool

	// Verbose enables debug lines; set by -v.
	Verbose bool
)

// Init resets the logger for one command invocation.
func Init(verbose, jsonMode bool) {
	mu.Lock()
	defer mu.Unlock()
	Verbose = verbose
	JSONMode = jsonMode
	sink = os.Stderr
	logger = build(sink)
}

// SetOutput sends diagnostics to w instead of stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sink = w
	logger = build(w)
}

func build(w io.Writer) *log.Logger {
	level := log.InfoLevel
	if Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{Level: level})
}

// Logger returns the shared logger for packages that take one by injection.
func Logger() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = build(sink)
	}
	return logger
}

func diagnostics() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return sink
}

func Info(msg string, keyvals ...any) {
	if !JSONMode {
		Logger().Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if !JSONMode {
		Logger().Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if !JSONMode {
		Logger().Error(msg, keyvals...)
	}
}

// Debug only shows with -v.
func Debug(msg string, keyvals ...any) {
	if !JSONMode {
		Logger().Debug(msg, keyvals...)
	}
}

// Success logs msg behind a check mark.
func Success(msg string) { Info(markSuccess.prefix(msg)) }

// Fail logs msg at error level behind a cross.
func Fail(msg string) { Error(markFail.prefix(msg)) }

// Step logs the start of a unit of work.
func Step(msg string) { Info(markStep.prefix(msg)) }
