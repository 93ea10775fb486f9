package gallery

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/ilkoid/kadr/pkg/events"
	"github.com/ilkoid/kadr/pkg/s3storage"
	"github.com/ilkoid/kadr/pkg/utils"
)

// Mutator — обработчики мутаций: удаление (одиночное и массовое) и
// скачивание. Каждая операция сначала идёт в хранилище, потом
// оптимистично патчит локальное состояние.
//
// Подтверждения ("точно удалить?") — забота UI, сюда приходят уже
// подтверждённые намерения.
type Mutator struct {
	gw          s3storage.Gateway
	store       *Store
	emitter     events.Emitter
	journal     OpRecorder
	batchSize   int
	downloadDir string
}

// NewMutator создаёт обработчик мутаций.
// emitter и journal могут быть nil.
func NewMutator(gw s3storage.Gateway, store *Store, emitter events.Emitter, journal OpRecorder, batchSize int, downloadDir string) *Mutator {
	if batchSize <= 0 {
		batchSize = 5
	}
	if downloadDir == "" {
		downloadDir = "."
	}
	return &Mutator{
		gw:          gw,
		store:       store,
		emitter:     emitter,
		journal:     journal,
		batchSize:   batchSize,
		downloadDir: downloadDir,
	}
}

// DeleteOne удаляет один объект и оптимистично патчит коллекцию.
//
// На успехе запись исчезает сразу, статистика пересчитывается по
// пропатченной коллекции — следующего цикла ждать не нужно. На ошибке
// коллекция не трогается; это transient ошибка, НЕ глобальный error state.
func (m *Mutator) DeleteOne(ctx context.Context, key string) error {
	if m.store.Phase() == PhaseBulkDeleting {
		return ErrBulkRunning
	}

	if err := m.gw.Remove(ctx, key); err != nil {
		events.Emit(ctx, m.emitter, events.EventTransientError, events.TransientErrorData{
			Op: "delete", Key: key, Err: err,
		})
		utils.Warn("delete failed", "key", key, "err", err)
		return err
	}

	m.store.RemoveRecord(key)
	events.Emit(ctx, m.emitter, events.EventDeleted, events.DeletedData{Key: key})
	if m.journal != nil {
		m.journal.Record(ctx, "delete", key, 1)
	}
	utils.Info("object deleted", "key", key)
	return nil
}

// DeleteAll массово удаляет переданные ключи пачками по batchSize.
//
// Внутри пачки удаления идут параллельно, пачки — строго по очереди:
// ограниченный фан-аут, чтобы не получить rate limit от хранилища.
// После каждой пачки наружу уходит прогресс (EventBulkProgress).
//
// Консервативная политика при ошибке: доводим текущую пачку, дальше не
// идём, возвращаем сколько реально удалили. Уже удалённое не
// откатывается. Вызывающий обязан после завершения (любого) форсировать
// полный цикл синхронизации — оптимистичный патчинг при массовом
// удалении не используется.
func (m *Mutator) DeleteAll(ctx context.Context, keys []string) (int, error) {
	if err := m.store.BeginBulkDelete(); err != nil {
		return 0, err
	}
	defer m.store.FinishBulkDelete()

	total := len(keys)
	deleted := 0

	for start := 0; start < total; start += m.batchSize {
		end := start + m.batchSize
		if end > total {
			end = total
		}

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			batchOK  int
			firstErr error
		)

		for _, key := range keys[start:end] {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				if err := m.gw.Remove(ctx, key); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("remove %s: %w", key, err)
					}
					mu.Unlock()
					return
				}
				mu.Lock()
				batchOK++
				mu.Unlock()
			}(key)
		}
		wg.Wait()

		deleted += batchOK
		events.Emit(ctx, m.emitter, events.EventBulkProgress, events.BulkProgressData{
			Deleted: deleted, Total: total,
		})

		if firstErr != nil {
			events.Emit(ctx, m.emitter, events.EventBulkDone, events.BulkDoneData{
				Deleted: deleted, Total: total, Halted: true, Err: firstErr,
			})
			if m.journal != nil {
				m.journal.Record(ctx, "bulk_delete", "", deleted)
			}
			utils.Error("bulk delete halted", "deleted", deleted, "total", total, "err", firstErr)
			return deleted, firstErr
		}
	}

	events.Emit(ctx, m.emitter, events.EventBulkDone, events.BulkDoneData{
		Deleted: deleted, Total: total,
	})
	if m.journal != nil {
		m.journal.Record(ctx, "bulk_delete", "", deleted)
	}
	utils.Info("bulk delete finished", "deleted", deleted)
	return deleted, nil
}

// Download скачивает объект в downloadDir и возвращает локальный путь.
//
// Ошибка transient: состояние не мутируется, ретраев нет.
func (m *Mutator) Download(ctx context.Context, key string) (string, error) {
	data, err := m.gw.Download(ctx, key)
	if err != nil {
		events.Emit(ctx, m.emitter, events.EventTransientError, events.TransientErrorData{
			Op: "download", Key: key, Err: err,
		})
		utils.Warn("download failed", "key", key, "err", err)
		return "", err
	}

	localPath := filepath.Join(m.downloadDir, path.Base(key))
	if err := os.WriteFile(localPath, data, 0644); err != nil {
		err = fmt.Errorf("write %s: %w", localPath, err)
		events.Emit(ctx, m.emitter, events.EventTransientError, events.TransientErrorData{
			Op: "download", Key: key, Err: err,
		})
		return "", err
	}

	events.Emit(ctx, m.emitter, events.EventDownloaded, events.DownloadedData{Key: key, Path: localPath})
	if m.journal != nil {
		m.journal.Record(ctx, "download", key, 1)
	}
	utils.Info("object downloaded", "key", key, "path", localPath)
	return localPath, nil
}
