package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const permission = 0o664

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Builder assembles a zerolog logger from a writer or a file path.
type Builder struct {
	writer io.Writer
	path   string
	level  string
	format string
}

// Logger is a built logger plus the file it owns, if any.
type Logger struct {
	zerolog.Logger
	file *os.File
}

func New() *Builder {
	return &Builder{}
}

func (b *Builder) FromPath(path string) *Builder {
	b.path = path
	return b
}

func (b *Builder) FromWriter(w io.Writer) *Builder {
	b.writer = w
	return b
}

func (b *Builder) Level(level string) *Builder {
	b.level = level
	return b
}

func (b *Builder) Format(format string) *Builder {
	b.format = format
	return b
}

// Make opens the log file when a path is set; it takes precedence over the
// writer. Without either, logs go to stderr.
func (b *Builder) Make() (*Logger, error) {
	level := zerolog.InfoLevel
	if strings.TrimSpace(b.level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(b.level))
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		level = parsed
	}

	out := &Logger{}
	var w io.Writer = os.Stderr
	if b.writer != nil {
		w = b.writer
	}
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out.file = f
		w = zerolog.SyncWriter(f)
	}

	switch b.format {
	case "", FormatJSON:
	case FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, NoColor: b.path != ""}
	default:
		if out.file != nil {
			_ = out.file.Close()
		}
		return nil, fmt.Errorf("unknown log format %q", b.format)
	}

	out.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return out, nil
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
