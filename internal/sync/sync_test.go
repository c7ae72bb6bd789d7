package sync

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alfredjeanlab/notes/internal/model"
)

// mockDestination records calls to Write.
type mockDestination struct {
	writes atomic.Int64
	last   atomic.Value // []byte
	err    error
}

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes.Add(1)
	cp := make([]byte, len(data))
	copy(cp, data)
	d.last.Store(cp)
	return d.err
}

// mockPurger counts purge calls.
type mockPurger struct {
	calls atomic.Int64
}

func (p *mockPurger) DeleteExpiredSessions(context.Context, time.Time) (int64, error) {
	p.calls.Add(1)
	return 1, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestSchedulerStartStop(t *testing.T) {
	now := time.Now().UTC()
	src := &staticSource{notes: []*model.Note{
		{ID: 1, Title: "T1", Status: model.StatusPending, UserID: 1, CreatedAt: now},
	}}

	dest := &mockDestination{}
	sched := NewScheduler(src, []Destination{dest}, 50*time.Millisecond, testLogger())
	sched.Start()

	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}

	data, ok := dest.last.Load().([]byte)
	if !ok || len(data) == 0 {
		t.Fatal("expected non-empty data")
	}
	if lines := nonEmptyLines(string(data)); len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	sched := NewScheduler(&staticSource{}, nil, time.Hour, testLogger())
	sched.Stop()
}

func TestSyncOnce_ExportErrorSkipsDestinations(t *testing.T) {
	dest := &mockDestination{}
	sched := NewScheduler(&staticSource{err: errors.New("db down")}, []Destination{dest}, time.Hour, testLogger())
	sched.syncOnce(context.Background())

	if dest.writes.Load() != 0 {
		t.Fatal("destination should not be written when export fails")
	}
}

func TestSyncOnce_FailingDestinationDoesNotBlockOthers(t *testing.T) {
	bad := &mockDestination{err: errors.New("denied")}
	good := &mockDestination{}
	sched := NewScheduler(&staticSource{}, []Destination{bad, good}, time.Hour, testLogger())
	sched.syncOnce(context.Background())

	if bad.writes.Load() != 1 || good.writes.Load() != 1 {
		t.Fatalf("writes = %d/%d, want 1/1", bad.writes.Load(), good.writes.Load())
	}
}

func TestSyncOnce_PurgesSessions(t *testing.T) {
	p := &mockPurger{}
	sched := NewScheduler(&staticSource{}, nil, time.Hour, testLogger()).PurgeSessions(p)
	sched.syncOnce(context.Background())

	if p.calls.Load() != 1 {
		t.Fatalf("purge calls = %d, want 1", p.calls.Load())
	}
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup", "notes.jsonl")
	d := NewFileDestination(path)

	if err := d.Write(context.Background(), []byte("first\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := d.Write(context.Background(), []byte("second\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "second\n" {
		t.Fatalf("content = %q, want %q", got, "second\n")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the export file, found %d entries", len(entries))
	}
	if d.String() != "file://"+path {
		t.Errorf("String() = %q", d.String())
	}
}

func TestS3DestinationString(t *testing.T) {
	d := &S3Destination{bucket: "backups", key: "notes/export.jsonl"}
	if got := d.String(); got != "s3://backups/notes/export.jsonl" {
		t.Errorf("String() = %q", got)
	}
}
