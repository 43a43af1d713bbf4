package retention

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ytd/internal/infrastructure/filesystem"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func writeAged(t *testing.T, dir, name string, age time.Duration) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
}

func TestSweep_DeletesOnlyExpiredArtifacts(t *testing.T) {
	dir := t.TempDir()
	store := filesystem.NewStore(dir)

	writeAged(t, dir, "old_abc123.mp4", 3*time.Hour)
	writeAged(t, dir, "old_abc123_thumbnail.jpg", 3*time.Hour)
	writeAged(t, dir, "fresh_def456.mp4", 10*time.Minute)
	writeAged(t, dir, "boundary_ghi789.mp4", time.Hour)

	sweeper := NewSweeper(store, testLogger(), time.Hour, 2*time.Hour)
	if deleted := sweeper.Sweep(); deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}

	for _, gone := range []string{"old_abc123.mp4", "old_abc123_thumbnail.jpg"} {
		if _, err := os.Stat(filepath.Join(dir, gone)); !os.IsNotExist(err) {
			t.Errorf("%s should have been deleted", gone)
		}
	}
	for _, kept := range []string{"fresh_def456.mp4", "boundary_ghi789.mp4"} {
		if _, err := os.Stat(filepath.Join(dir, kept)); err != nil {
			t.Errorf("%s should have been kept: %v", kept, err)
		}
	}
}

type flakyStore struct {
	names   []string
	removed []string
	failOn  string
}

func (s *flakyStore) ListOlderThan(cutoff time.Time) ([]string, error) {
	return s.names, nil
}

func (s *flakyStore) Remove(name string) error {
	if name == s.failOn {
		return errors.New("permission denied")
	}
	s.removed = append(s.removed, name)
	return nil
}

func TestSweep_ContinuesPastDeletionFailures(t *testing.T) {
	store := &flakyStore{
		names:  []string{"a.mp4", "b.mp4", "c.mp4"},
		failOn: "b.mp4",
	}
	sweeper := NewSweeper(store, testLogger(), time.Hour, 2*time.Hour)

	if deleted := sweeper.Sweep(); deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}
	if len(store.removed) != 2 || store.removed[0] != "a.mp4" || store.removed[1] != "c.mp4" {
		t.Fatalf("removed = %v", store.removed)
	}
}

func TestSweeper_StartStop(t *testing.T) {
	store := &flakyStore{}
	sweeper := NewSweeper(store, testLogger(), 10*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper.Start(ctx)
	sweeper.Start(ctx) // second call is a no-op
	time.Sleep(35 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		sweeper.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Stop did not return")
	}
}
