package journal

import (
	"context"
	"path/filepath"
	"testing"
)

func TestJournalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := New(path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	j.Record(ctx, "sync", "", 42)
	j.Record(ctx, "delete", "cam1/a.jpg", 1)
	j.Record(ctx, "bulk_delete", "", 12)

	entries, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	// Новые первыми
	if entries[0].Op != "bulk_delete" || entries[0].Count != 12 {
		t.Errorf("entries[0] = %+v, want bulk_delete/12", entries[0])
	}
	if entries[2].Op != "sync" || entries[2].Count != 42 {
		t.Errorf("entries[2] = %+v, want sync/42", entries[2])
	}
	if entries[1].Key != "cam1/a.jpg" {
		t.Errorf("entries[1].Key = %q, want cam1/a.jpg", entries[1].Key)
	}
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			t.Errorf("entry %d has zero timestamp", e.ID)
		}
	}
}

func TestJournalRecentLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := New(path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	for i := 0; i < 7; i++ {
		j.Record(ctx, "sync", "", i)
	}

	entries, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("entries = %d, want limit 3", len(entries))
	}
	if entries[0].Count != 6 {
		t.Errorf("entries[0].Count = %d, want newest (6)", entries[0].Count)
	}
}

func TestJournalReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j, err := New(path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	j.Record(ctx, "download", "a.jpg", 1)
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	// Файл переживает перезапуск процесса
	j2, err := New(path)
	if err != nil {
		t.Fatalf("reopen New() error: %v", err)
	}
	defer j2.Close()

	entries, err := j2.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Op != "download" {
		t.Errorf("entries = %+v, want the one download op", entries)
	}
}
