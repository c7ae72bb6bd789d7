package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/notes/internal/ui"
)

var severityIcons = map[Severity]string{
	SeverityInfo:    "i",
	SeveritySuccess: "✓",
	SeverityWarning: "!",
	SeverityDanger:  "✗",
}

// WriterSink prints each notification as a styled line when it is shown.
// Removal is silent since printed lines cannot be taken back.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a sink that writes to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Shown prints n with its severity icon and colour.
func (s *WriterSink) Shown(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := severityIcons[n.Severity] + " " + n.Message
	fmt.Fprintln(s.w, ui.RenderLevel(string(n.Severity), line))
}

// Removed does nothing.
func (s *WriterSink) Removed(Notification) {}

// LogSink records notifications to a structured logger. Danger maps to
// error, warning to warn, everything else to info.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink that logs to logger, or slog.Default() if nil.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Shown logs n at the level matching its severity.
func (s *LogSink) Shown(n Notification) {
	level := slog.LevelInfo
	switch n.Severity {
	case SeverityDanger:
		level = slog.LevelError
	case SeverityWarning:
		level = slog.LevelWarn
	}
	s.logger.Log(context.Background(), level, "notification", "id", n.ID, "severity", string(n.Severity), "message", n.Message)
}

// Removed logs the removal at debug level.
func (s *LogSink) Removed(n Notification) {
	s.logger.Debug("notification removed", "id", n.ID)
}
