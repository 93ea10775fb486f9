package gallery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ilkoid/kadr/pkg/events"
)

func seededStore(keys ...string) *Store {
	store := NewStore()
	records := make([]ImageRecord, 0, len(keys))
	for _, k := range keys {
		records = append(records, ImageRecord{
			Key: k, Name: k, Size: 1024,
			LastModified: time.Now().Add(-time.Minute),
		})
	}
	store.FinishSync(records, ComputeStats(records, time.Now()))
	return store
}

// drainBulkProgress собирает прогресс-события из шины после завершения операции.
func drainBulkProgress(sub events.Subscriber) []events.BulkProgressData {
	var progress []events.BulkProgressData
	for {
		select {
		case ev := <-sub.Events():
			if data, ok := ev.Data.(events.BulkProgressData); ok {
				progress = append(progress, data)
			}
		default:
			return progress
		}
	}
}

func TestDeleteOne(t *testing.T) {
	gw := &mockGateway{}
	store := seededStore("a.jpg", "b.jpg", "c.jpg")
	m := NewMutator(gw, store, nil, nil, 5, t.TempDir())

	if err := m.DeleteOne(context.Background(), "b.jpg"); err != nil {
		t.Fatalf("DeleteOne() error: %v", err)
	}

	// Оптимистичный патч: запись исчезла сразу, статистика пересчитана
	snap := store.Snapshot()
	if len(snap.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(snap.Records))
	}
	for _, r := range snap.Records {
		if r.Key == "b.jpg" {
			t.Error("b.jpg still in collection after delete")
		}
	}
	if snap.Stats.Total != 2 {
		t.Errorf("stats.Total = %d, want recomputed 2", snap.Stats.Total)
	}
	if len(gw.removed) != 1 || gw.removed[0] != "b.jpg" {
		t.Errorf("gateway removed = %v, want [b.jpg]", gw.removed)
	}
}

func TestDeleteOneFailureKeepsCollection(t *testing.T) {
	gw := &mockGateway{delErr: map[string]error{"a.jpg": errors.New("403")}}
	store := seededStore("a.jpg", "b.jpg")
	m := NewMutator(gw, store, nil, nil, 5, t.TempDir())

	if err := m.DeleteOne(context.Background(), "a.jpg"); err == nil {
		t.Fatal("DeleteOne() expected error")
	}

	// Ошибка transient: коллекция нетронута, фаза не error
	snap := store.Snapshot()
	if len(snap.Records) != 2 {
		t.Errorf("records = %d, want untouched 2", len(snap.Records))
	}
	if snap.Phase != PhaseIdle {
		t.Errorf("phase = %s, want idle", snap.Phase)
	}
}

func TestDeleteOneRefusedDuringBulk(t *testing.T) {
	gw := &mockGateway{}
	store := seededStore("a.jpg")
	m := NewMutator(gw, store, nil, nil, 5, t.TempDir())

	if err := store.BeginBulkDelete(); err != nil {
		t.Fatalf("BeginBulkDelete() error: %v", err)
	}

	if err := m.DeleteOne(context.Background(), "a.jpg"); !errors.Is(err, ErrBulkRunning) {
		t.Errorf("DeleteOne() error = %v, want ErrBulkRunning", err)
	}
	if len(gw.removed) != 0 {
		t.Error("gateway must not be called while bulk delete is running")
	}
}

func TestDeleteAllBatching(t *testing.T) {
	// 12 ключей, пачки по 5: 5 + 5 + 2, прогресс после каждой пачки
	var keys []string
	for i := 0; i < 12; i++ {
		keys = append(keys, fmt.Sprintf("img%02d.jpg", i))
	}

	gw := &mockGateway{}
	store := seededStore(keys...)
	emitter := events.NewChanEmitter(64)
	sub := emitter.Subscribe()
	m := NewMutator(gw, store, emitter, nil, 5, t.TempDir())

	deleted, err := m.DeleteAll(context.Background(), keys)
	if err != nil {
		t.Fatalf("DeleteAll() error: %v", err)
	}
	if deleted != 12 {
		t.Errorf("deleted = %d, want 12", deleted)
	}
	if len(gw.removed) != 12 {
		t.Errorf("gateway removed %d, want 12", len(gw.removed))
	}
	if store.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle after bulk", store.Phase())
	}

	progress := drainBulkProgress(sub)
	want := []int{5, 10, 12}
	if len(progress) != len(want) {
		t.Fatalf("progress events = %d, want %d", len(progress), len(want))
	}
	for i, p := range progress {
		if p.Deleted != want[i] || p.Total != 12 {
			t.Errorf("progress[%d] = %d/%d, want %d/12", i, p.Deleted, p.Total, want[i])
		}
	}
}

func TestDeleteAllHaltsOnFailure(t *testing.T) {
	// Ошибка во второй пачке: первую доводим, к третьей не приступаем
	var keys []string
	for i := 0; i < 12; i++ {
		keys = append(keys, fmt.Sprintf("img%02d.jpg", i))
	}

	gw := &mockGateway{delErr: map[string]error{"img07.jpg": errors.New("500")}}
	store := seededStore(keys...)
	emitter := events.NewChanEmitter(64)
	sub := emitter.Subscribe()
	m := NewMutator(gw, store, emitter, nil, 5, t.TempDir())

	deleted, err := m.DeleteAll(context.Background(), keys)
	if err == nil {
		t.Fatal("DeleteAll() expected error")
	}
	// Пачка 1 целиком + пачка 2 без упавшего ключа
	if deleted != 9 {
		t.Errorf("deleted = %d, want 9 (halt after failed batch)", deleted)
	}
	if len(gw.removed) != 9 {
		t.Errorf("gateway removed %d, want 9 — third batch must not start", len(gw.removed))
	}
	if store.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle even after halt", store.Phase())
	}

	// Финальное событие несёт halted-флаг и частичный счётчик
	var done *events.BulkDoneData
drain:
	for {
		select {
		case ev := <-sub.Events():
			if data, ok := ev.Data.(events.BulkDoneData); ok {
				done = &data
			}
		default:
			break drain
		}
	}
	if done == nil {
		t.Fatal("no EventBulkDone emitted")
	}
	if !done.Halted || done.Deleted != 9 {
		t.Errorf("BulkDone = %+v, want Halted=true Deleted=9", *done)
	}
}

func TestDeleteAllRefusedOutsideIdle(t *testing.T) {
	gw := &mockGateway{}
	store := seededStore("a.jpg")
	m := NewMutator(gw, store, nil, nil, 5, t.TempDir())

	if err := store.BeginSync(); err != nil {
		t.Fatalf("BeginSync() error: %v", err)
	}

	if _, err := m.DeleteAll(context.Background(), []string{"a.jpg"}); !errors.Is(err, ErrNotIdle) {
		t.Errorf("DeleteAll() error = %v, want ErrNotIdle", err)
	}
}

func TestDownload(t *testing.T) {
	gw := &mockGateway{}
	store := seededStore("cam1/a.jpg")
	dir := t.TempDir()
	m := NewMutator(gw, store, nil, nil, 5, dir)

	localPath, err := m.Download(context.Background(), "cam1/a.jpg")
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	if localPath != filepath.Join(dir, "a.jpg") {
		t.Errorf("path = %s, want %s", localPath, filepath.Join(dir, "a.jpg"))
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "image-bytes-cam1/a.jpg" {
		t.Errorf("file content = %q", data)
	}
}
