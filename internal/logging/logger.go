package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/cristianoliveira/condoview/internal/colors"
)

// Logger is the structured logging interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a logger that adds the key-value pairs to every entry.
	With(args ...any) Logger
	// Shutdown closes the underlying file, if any.
	Shutdown() error
}

// jsonLogger is the charmbracelet/log implementation shared by file and
// writer loggers. Children created with With share the closer.
type jsonLogger struct {
	clogger  *clog.Logger
	redactor *redactor
	fields   []any
	closer   io.Closer
	path     string
}

// Init opens a JSON log file in LogDir(cfg.StateDir) after rotating old
// files. A disabled config yields a no-op logger.
func Init(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return noopLogger{}, nil
	}
	logDir, err := LogDir(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("determine log directory: %w", err)
	}
	// keep room for the file created below
	if _, err := rotate(logDir, cfg.MaxFiles-1); err != nil {
		fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
	}
	command := strings.ReplaceAll(cfg.Command, " ", "_")
	if command == "" {
		command = "condoview"
	}
	fname := fmt.Sprintf("%s%s_PID%d_%s.log", filePrefix, time.Now().Format("20060102_150405"), cfg.PID, command)
	path := filepath.Join(logDir, fname)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := newJSONLogger(f, cfg.Level).(*jsonLogger)
	l.clogger = l.clogger.With("pid", cfg.PID, "command", cfg.Command)
	l.closer = f
	l.path = path
	return l, nil
}

// NewWriter returns a JSON logger writing to w. The caller owns w.
func NewWriter(w io.Writer, level string) Logger {
	return newJSONLogger(w, level)
}

func newJSONLogger(w io.Writer, level string) Logger {
	clogger := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           parseLevel(level),
		Formatter:       clog.JSONFormatter,
	})
	return &jsonLogger{clogger: clogger, redactor: newRedactor()}
}

func parseLevel(level string) clog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

func (l *jsonLogger) Debug(msg string, args ...any) { l.log(clog.DebugLevel, msg, args) }
func (l *jsonLogger) Info(msg string, args ...any)  { l.log(clog.InfoLevel, msg, args) }
func (l *jsonLogger) Warn(msg string, args ...any)  { l.log(clog.WarnLevel, msg, args) }
func (l *jsonLogger) Error(msg string, args ...any) { l.log(clog.ErrorLevel, msg, args) }

func (l *jsonLogger) log(level clog.Level, msg string, args []any) {
	all := make([]any, 0, len(l.fields)+len(args))
	all = append(all, l.fields...)
	all = append(all, args...)
	l.clogger.Log(level, scrubBearer(msg), l.redactor.redact(all)...)
}

func (l *jsonLogger) With(args ...any) Logger {
	if len(args)%2 == 1 {
		args = args[:len(args)-1]
	}
	fields := make([]any, 0, len(l.fields)+len(args))
	fields = append(fields, l.fields...)
	fields = append(fields, args...)
	return &jsonLogger{
		clogger:  l.clogger,
		redactor: l.redactor,
		fields:   fields,
		closer:   l.closer,
		path:     l.path,
	}
}

func (l *jsonLogger) Shutdown() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

type noopLogger struct{}

func (n noopLogger) Debug(msg string, args ...any) {}
func (n noopLogger) Info(msg string, args ...any)  {}
func (n noopLogger) Warn(msg string, args ...any)  {}
func (n noopLogger) Error(msg string, args ...any) {}
func (n noopLogger) With(args ...any) Logger       { return n }
func (n noopLogger) Shutdown() error               { return nil }

// Noop returns a logger that discards everything.
func Noop() Logger { return noopLogger{} }

var (
	globalMu     sync.RWMutex
	globalLogger Logger
)

// InitGlobal initializes the process-wide logger from the global
// configuration and mirrors console output into it. Calling it again
// replaces the previous logger.
func InitGlobal() error {
	l, err := Init(FromGlobalConfig())
	if err != nil {
		return err
	}
	globalMu.Lock()
	prev := globalLogger
	globalLogger = l
	globalMu.Unlock()
	if prev != nil {
		prev.Shutdown()
	}
	colors.SetLogger(l)
	if path := CurrentLogFile(); path != "" {
		colors.Debug("Logging to file:", path)
	}
	return nil
}

// GetGlobal returns the global logger, or a no-op logger if not initialized.
func GetGlobal() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return noopLogger{}
	}
	return globalLogger
}

// ShutdownGlobal closes the global logger and detaches it from console output.
func ShutdownGlobal() error {
	globalMu.Lock()
	l := globalLogger
	globalLogger = nil
	globalMu.Unlock()
	colors.SetLogger(nil)
	if l != nil {
		return l.Shutdown()
	}
	return nil
}

// CurrentLogFile returns the active log file path, or "" when logging is off.
func CurrentLogFile() string {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if impl, ok := globalLogger.(*jsonLogger); ok {
		return impl.path
	}
	return ""
}
