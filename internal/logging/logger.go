package logging

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level   string
	LogFile string
	NoColor bool
}

var (
	stderrOnce sync.Once
	stderr     io.Writer
)

// Stderr returns the shared, line-serialized stderr writer. The console log
// and the install countdown both draw through it so their output never
// interleaves mid-line.
func Stderr() io.Writer {
	stderrOnce.Do(func() {
		stderr = newProgressSafeWriter(os.Stderr)
	})
	return stderr
}

// NewLogger creates a new zerolog logger with dual output (console + rotating file)
func NewLogger(cfg Config) *zerolog.Logger {
	// Enable stack trace marshaling
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	consoleWriter := zerolog.ConsoleWriter{
		Out:        Stderr(),
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb",
	}

	writers := []io.Writer{consoleWriter}

	// File logger if path provided
	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    10, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return &logger
}

// Component returns a child logger tagged with the component name
func Component(log *zerolog.Logger, name string) *zerolog.Logger {
	child := log.With().Str("component", name).Logger()
	return &child
}

// parseLevel converts string level to zerolog.Level
func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewTestLogger creates a logger for testing that writes to a buffer
func NewTestLogger(w io.Writer) *zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	return &logger
}

// progressSafeWriter serializes writes. A log line arriving while a
// carriage-return redrawn line (the countdown bar) is open is moved to a
// fresh line first.
type progressSafeWriter struct {
	mu       sync.Mutex
	out      io.Writer
	openLine bool
}

func newProgressSafeWriter(out io.Writer) *progressSafeWriter {
	return &progressSafeWriter{out: out}
}

func (w *progressSafeWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.openLine && len(p) > 0 && p[0] != '\r' {
		if _, err := w.out.Write([]byte("\n")); err != nil {
			return 0, err
		}
		w.openLine = false
	}

	n, err := w.out.Write(p)
	if n > 0 {
		tail := p[bytes.LastIndexByte(p[:n], '\n')+1 : n]
		w.openLine = len(tail) > 0 && bytes.IndexByte(tail, '\r') >= 0
	}
	return n, err
}
