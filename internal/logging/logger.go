// Package logging provides leveled, optionally colored logging with an
// optional append-only file sink. Records flow through a logrus engine; the
// console and file sinks are hooks with their own formatters.
package logging

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/backmassage/lorarenamer/internal/config"
	"github.com/backmassage/lorarenamer/internal/term"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	tagKey     = "tag"
)

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	mu     sync.Mutex
	engine *logrus.Logger
	file   *os.File
}

// NewLogger initializes colors from cfg and writes to stdout/stderr. If
// cfg.LogFile is set it is opened for appending; call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return New(cfg, os.Stdout, os.Stderr)
}

// New is NewLogger with explicit console writers. ERROR lines go to errOut,
// everything else to out.
func New(cfg *config.Config, out, errOut io.Writer) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	engine := logrus.New()
	engine.SetOutput(io.Discard)
	engine.SetLevel(logrus.DebugLevel)
	engine.AddHook(&sinkHook{
		out:       out,
		errOut:    errOut,
		formatter: &lineFormatter{color: term.Enabled()},
	})

	l := &Logger{engine: engine}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		engine.AddHook(&sinkHook{out: f, errOut: f, formatter: &lineFormatter{}})
	}
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level logrus.Level, tag, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.engine.WithField(tagKey, tag).Logf(level, format, args...)
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line(logrus.InfoLevel, "INFO", format, args)
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line(logrus.InfoLevel, "SUCCESS", format, args)
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line(logrus.WarnLevel, "WARN", format, args)
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line(logrus.ErrorLevel, "ERROR", format, args)
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.line(logrus.DebugLevel, "DEBUG", format, args)
}

var tagColors = map[string]term.Color{
	"INFO":    term.Blue,
	"SUCCESS": term.Green,
	"WARN":    term.Yellow,
	"ERROR":   term.Red,
	"DEBUG":   term.Cyan,
}

// lineFormatter renders "2006-01-02 15:04:05 [LEVEL] text".
type lineFormatter struct {
	color bool
}

func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	tag, _ := e.Data[tagKey].(string)
	if tag == "" {
		tag = "INFO"
	}
	label := "[" + tag + "]"
	if f.color {
		label = term.Paint(tagColors[tag], label)
	}

	var b bytes.Buffer
	b.WriteString(e.Time.Format(timeLayout))
	b.WriteByte(' ')
	b.WriteString(label)
	b.WriteByte(' ')
	b.WriteString(e.Message)
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// sinkHook writes formatted entries to out, or errOut for error levels.
type sinkHook struct {
	out       io.Writer
	errOut    io.Writer
	formatter logrus.Formatter
}

func (h *sinkHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *sinkHook) Fire(e *logrus.Entry) error {
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	w := h.out
	if e.Level <= logrus.ErrorLevel {
		w = h.errOut
	}
	_, err = w.Write(b)
	return err
}
