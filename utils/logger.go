package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Logger provides structured, leveled logging throughout the application.
// Console output is colorized; when a run log file is attached, the same
// lines are written there without ANSI codes.
type Logger struct {
	file *os.File
}

// NewLogger creates a Logger writing to stdout/stderr only.
func NewLogger() *Logger {
	return &Logger{}
}

// NewRunLogger creates a Logger that additionally writes every line to a
// timestamped log file under dir (scanner_<timestamp>.log).
func NewRunLogger(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("logger: create log dir: %w", err)
	}
	name := fmt.Sprintf("scanner_%s.log", time.Now().Format("20060102_150405"))
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("logger: create log file: %w", err)
	}
	return &Logger{file: f}, nil
}

// Close releases the run log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) emit(out *os.File, color, level, format string, args ...any) {
	ts := l.timestamp()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(out, "[%s] %s%-5s\033[0m %s\n", ts, color, level, msg)
	if l.file != nil {
		fmt.Fprintf(l.file, "[%s] %-5s %s\n", ts, level, msg)
	}
}

func (l *Logger) Info(format string, args ...any) {
	l.emit(os.Stdout, "\033[32m", "INFO", format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.emit(os.Stdout, "\033[33m", "WARN", format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.emit(os.Stderr, "\033[31m", "ERROR", format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.emit(os.Stdout, "\033[36m", "DEBUG", format, args...)
}
