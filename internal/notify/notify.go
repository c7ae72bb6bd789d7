// Package notify implements the notification surface: transient, stacked,
// levelled messages that remove themselves after a fixed delay.
package notify

import (
	"sync"
	"time"
)

// DefaultDelay is how long a notification stays before removing itself.
const DefaultDelay = 3000 * time.Millisecond

// Severity is the visual level of a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// IsValid checks whether the severity is a known value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityDanger:
		return true
	}
	return false
}

// Notification is one message on the surface.
type Notification struct {
	ID        uint64
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

// Notifier is what callers use to report outcomes to the user.
type Notifier interface {
	Notify(message string, severity Severity) uint64
}

// Sink observes notifications as they appear and disappear.
type Sink interface {
	Shown(n Notification)
	Removed(n Notification)
}

// stopper is the part of *time.Timer the surface needs.
type stopper interface {
	Stop() bool
}

// Surface stacks notifications in creation order. Each one removes itself
// after the configured delay; Dismiss may remove it earlier. It is safe for
// concurrent use because expiry runs on timer goroutines.
type Surface struct {
	delay time.Duration
	sinks []Sink
	now   func() time.Time

	// afterFunc schedules expiry; replaced in tests.
	afterFunc func(d time.Duration, f func()) stopper

	mu     sync.Mutex
	nextID uint64
	active []Notification
	timers map[uint64]stopper
	closed bool
}

// Option configures a Surface.
type Option func(*Surface)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(s *Surface) { s.delay = d }
}

// WithSink registers a sink. Sinks are called outside the surface lock in
// registration order.
func WithSink(sink Sink) Option {
	return func(s *Surface) { s.sinks = append(s.sinks, sink) }
}

// New returns an empty surface.
func New(opts ...Option) *Surface {
	s := &Surface{
		delay:  DefaultDelay,
		now:    time.Now,
		timers: make(map[uint64]stopper),
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify adds a new notification and schedules its removal. Every call adds
// an independent entry; identical messages are not merged. Unknown
// severities are shown as info.
func (s *Surface) Notify(message string, severity Severity) uint64 {
	if !severity.IsValid() {
		severity = SeverityInfo
	}

	s.mu.Lock()
	s.nextID++
	n := Notification{
		ID:        s.nextID,
		Message:   message,
		Severity:  severity,
		CreatedAt: s.now(),
	}
	s.active = append(s.active, n)
	if !s.closed {
		id := n.ID
		s.timers[id] = s.afterFunc(s.delay, func() { s.Dismiss(id) })
	}
	s.mu.Unlock()

	for _, sink := range s.sinks {
		sink.Shown(n)
	}
	return n.ID
}

// Dismiss removes a notification. Removing one that is already gone is a
// no-op and reports false.
func (s *Surface) Dismiss(id uint64) bool {
	s.mu.Lock()
	idx := -1
	for i, n := range s.active {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	n := s.active[idx]
	s.active = append(s.active[:idx:idx], s.active[idx+1:]...)
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	for _, sink := range s.sinks {
		sink.Removed(n)
	}
	return true
}

// Active returns the notifications currently shown, oldest first.
func (s *Surface) Active() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.active))
	copy(out, s.active)
	return out
}

// Close stops all pending expiry timers. Notifications already shown stay
// in Active; new ones are still accepted but no longer expire.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.closed = true
}
