// 指示: miu200521358
package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\x1b[0m"
	colorGray   = "\x1b[90m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
)

// consoleHandler は「[LEVEL] メッセージ key=value」形式で1行ずつ出力する。
type consoleHandler struct {
	mu       *sync.Mutex
	writer   io.Writer
	level    *slog.LevelVar
	attrs    []slog.Attr
	colorize bool
}

func newConsoleHandler(writer io.Writer, level *slog.LevelVar, colorize bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, writer: writer, level: level, colorize: colorize}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	line := formatLine(record, h.attrs)
	if h.colorize {
		if color := levelColor(record.Level); color != "" {
			line = color + line + colorReset
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, line+"\n")
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// bufferHandler は下位ハンドラへ委譲しつつ、整形済みの行をバッファへ残す。
type bufferHandler struct {
	next   slog.Handler
	buffer *MessageBuffer
	attrs  []slog.Attr
}

func newBufferHandler(next slog.Handler, buffer *MessageBuffer) *bufferHandler {
	return &bufferHandler{next: next, buffer: buffer}
}

func (h *bufferHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *bufferHandler) Handle(ctx context.Context, record slog.Record) error {
	h.buffer.Append(formatLine(record, h.attrs))
	return h.next.Handle(ctx, record)
}

func (h *bufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &bufferHandler{
		next:   h.next.WithAttrs(attrs),
		buffer: h.buffer,
		attrs:  append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *bufferHandler) WithGroup(name string) slog.Handler {
	return &bufferHandler{next: h.next.WithGroup(name), buffer: h.buffer, attrs: h.attrs}
}

func formatLine(record slog.Record, attrs []slog.Attr) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[%s] %s", record.Level.String(), record.Message)
	for _, attr := range attrs {
		fmt.Fprintf(&buf, " %s=%v", attr.Key, attr.Value.Any())
	}
	record.Attrs(func(attr slog.Attr) bool {
		fmt.Fprintf(&buf, " %s=%v", attr.Key, attr.Value.Any())
		return true
	})
	return buf.String()
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level < slog.LevelInfo:
		return colorGray
	}
	return ""
}

// shouldColorize は出力先が端末の場合のみ色付けする。
func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
