// 指示: miu200521358
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel はログ出力レベルを表す。
type LogLevel int

const (
	// LOG_LEVEL_DEBUG はデバッグレベル。
	LOG_LEVEL_DEBUG LogLevel = iota
	// LOG_LEVEL_INFO は情報レベル。
	LOG_LEVEL_INFO
	// LOG_LEVEL_WARN は警告レベル。
	LOG_LEVEL_WARN
	// LOG_LEVEL_ERROR はエラーレベル。
	LOG_LEVEL_ERROR
)

// slogLevel はslogのレベルへ変換する。
func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LOG_LEVEL_DEBUG:
		return slog.LevelDebug
	case LOG_LEVEL_WARN:
		return slog.LevelWarn
	case LOG_LEVEL_ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLogLevel はレベル名を解析する。不明な名前は情報レベルとする。
func ParseLogLevel(value string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LOG_LEVEL_DEBUG
	case "warn", "warning":
		return LOG_LEVEL_WARN
	case "error":
		return LOG_LEVEL_ERROR
	default:
		return LOG_LEVEL_INFO
	}
}

// Options はロガー生成時の設定を表す。
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// Logger は書式付きメッセージを出力するロガー。
// 出力した行はメッセージバッファにも残す。
type Logger struct {
	slog     *slog.Logger
	levelVar *slog.LevelVar
	buffer   *MessageBuffer
}

// NewLogger は標準設定のロガーを生成する。writer が nil の場合は出力先を破棄しバッファのみに残す。
func NewLogger(writer io.Writer) *Logger {
	logger, _ := New(Options{Writer: writer})
	return logger
}

// New は設定からロガーを生成する。
func New(opts Options) (*Logger, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(ParseLogLevel(opts.Level).slogLevel())

	writer := opts.Writer
	if writer == nil {
		writer = io.Discard
	}
	buffer := NewMessageBuffer(defaultBufferSize)

	var handler slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		handler = newConsoleHandler(writer, levelVar, shouldColorize(writer))
	case "json":
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: levelVar})
	default:
		return nil, fmt.Errorf("ログ形式が不正です: %q", opts.Format)
	}

	return &Logger{
		slog:     slog.New(newBufferHandler(handler, buffer)),
		levelVar: levelVar,
		buffer:   buffer,
	}, nil
}

// SetLevel は出力レベルを設定する。
func (l *Logger) SetLevel(level LogLevel) {
	l.levelVar.Set(level.slogLevel())
}

// IsDebugEnabled はデバッグ出力が有効か判定する。
func (l *Logger) IsDebugEnabled() bool {
	return l.levelVar.Level() <= slog.LevelDebug
}

// With は属性を付与したロガーを返す。バッファとレベルは共有する。
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:     l.slog.With(args...),
		levelVar: l.levelVar,
		buffer:   l.buffer,
	}
}

// Slog は内部のslogロガーを返す。
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// MessageBuffer は出力済みメッセージのバッファを返す。
func (l *Logger) MessageBuffer() *MessageBuffer {
	return l.buffer
}

// Debug はデバッグメッセージを出力する。
func (l *Logger) Debug(format string, params ...any) {
	l.log(slog.LevelDebug, format, params...)
}

// Info は情報メッセージを出力する。
func (l *Logger) Info(format string, params ...any) {
	l.log(slog.LevelInfo, format, params...)
}

// Warn は警告メッセージを出力する。
func (l *Logger) Warn(format string, params ...any) {
	l.log(slog.LevelWarn, format, params...)
}

// Error はエラーメッセージを出力する。
func (l *Logger) Error(format string, params ...any) {
	l.log(slog.LevelError, format, params...)
}

func (l *Logger) log(level slog.Level, format string, params ...any) {
	ctx := context.Background()
	if !l.slog.Enabled(ctx, level) {
		return
	}
	message := format
	if len(params) > 0 {
		message = fmt.Sprintf(format, params...)
	}
	l.slog.Log(ctx, level, message)
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewLogger(os.Stderr)
)

// DefaultLogger はプロセス既定のロガーを返す。
func DefaultLogger() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger はプロセス既定のロガーを差し替える。nil は無視する。
func SetDefaultLogger(logger *Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}
