package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/studio.log"

// maxLines bounds the in-memory history shown by the console overlay.
const maxLines = 500

// Logger writes structured logs to a file and keeps a short plain-text history for the console.
type Logger struct {
	mu    sync.Mutex
	lines []string
	file  *os.File
	zl    zerolog.Logger
}

// ParseLevel maps a config level name to a zerolog level. Unknown names mean info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New opens (appending) the log file at path, creating its directory, and sets the global level.
// An empty path logs to the console history only.
func New(level, path string) (*Logger, error) {
	l := &Logger{lines: make([]string, 0)}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:         historyWriter{l},
		TimeFormat:  time.TimeOnly,
		NoColor:     true,
		FormatLevel: formatLevel,
	}}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("logger: create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("logger: open %s: %w", path, err)
		}
		l.file = f
		writers = append(writers, zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true})
	}
	zerolog.SetGlobalLevel(ParseLevel(level))
	l.zl = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	return l, nil
}

// Zerolog returns the structured logger. Components add their own fields with With().
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

// SetLevel changes the minimum level for every logger derived from this one.
func (l *Logger) SetLevel(level string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
}

// Log records a console line regardless of level.
func (l *Logger) Log(line string) {
	l.zl.Log().Msg(line)
}

// Lines returns a copy of the console history, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Close closes the log file. It is safe to call more than once.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Clip shortens line to at most n runes, ending in "..." when cut.
func Clip(line string, n int) string {
	if utf8.RuneCountInString(line) <= n {
		return line
	}
	if n <= 3 {
		return string([]rune(line)[:max(n, 0)])
	}
	return string([]rune(line)[:n-3]) + "..."
}

// formatLevel leaves console echo lines, which carry no level, unmarked.
func formatLevel(i any) string {
	s, ok := i.(string)
	if !ok || s == "" {
		return "   "
	}
	if len(s) > 3 {
		s = s[:3]
	}
	return strings.ToUpper(s)
}

type historyWriter struct{ l *Logger }

func (h historyWriter) Write(p []byte) (int, error) {
	h.l.mu.Lock()
	defer h.l.mu.Unlock()
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		h.l.lines = append(h.l.lines, string(line))
	}
	if over := len(h.l.lines) - maxLines; over > 0 {
		h.l.lines = append(h.l.lines[:0], h.l.lines[over:]...)
	}
	return len(p), nil
}
