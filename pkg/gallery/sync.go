package gallery

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ilkoid/kadr/pkg/events"
	"github.com/ilkoid/kadr/pkg/s3storage"
	"github.com/ilkoid/kadr/pkg/utils"
)

// OpRecorder — необязательный журнал операций (pkg/journal).
//
// Best effort: ошибки журнала логируются и никогда не роняют операцию,
// поэтому интерфейс ничего не возвращает.
type OpRecorder interface {
	Record(ctx context.Context, op, key string, count int)
}

// Synchronizer гоняет полный цикл list → filter → sign → sort → stats
// и публикует результат в Store.
//
// Запускается на старте, по таймеру UI и по ручному refresh.
// Перекрывающиеся циклы сериализуются через Store (skip-if-busy).
type Synchronizer struct {
	gw        s3storage.Gateway
	store     *Store
	emitter   events.Emitter
	journal   OpRecorder
	signTTL   time.Duration
	signBatch int
}

// NewSynchronizer создаёт синхронизатор.
// emitter и journal могут быть nil (CLI утилитам шина не нужна).
func NewSynchronizer(gw s3storage.Gateway, store *Store, emitter events.Emitter, journal OpRecorder, signTTL time.Duration, signBatch int) *Synchronizer {
	if signBatch <= 0 {
		signBatch = 8
	}
	return &Synchronizer{
		gw:        gw,
		store:     store,
		emitter:   emitter,
		journal:   journal,
		signTTL:   signTTL,
		signBatch: signBatch,
	}
}

// Sync выполняет один цикл синхронизации.
//
// На успехе заменяет коллекцию и статистику целиком и сбрасывает
// ошибку. На фатальной ошибке (листинг или подпись URL) коллекция
// остаётся нетронутой, store уходит в PhaseError.
//
// Если цикл уже идёт или бежит bulk-удаление — возвращает ErrSyncBusy /
// ErrBulkRunning, ничего не меняя (это не фатальная ошибка).
func (s *Synchronizer) Sync(ctx context.Context) (Snapshot, error) {
	if err := s.store.BeginSync(); err != nil {
		return s.store.Snapshot(), err
	}

	events.Emit(ctx, s.emitter, events.EventSyncStarted, nil)
	utils.Debug("sync cycle started")

	records, err := s.collect(ctx)
	if err != nil {
		s.store.FailSync(err)
		events.Emit(ctx, s.emitter, events.EventSyncFailed, events.SyncFailedData{Err: err})
		utils.Error("sync cycle failed", "err", err)
		return s.store.Snapshot(), err
	}

	stats := ComputeStats(records, time.Now())
	s.store.FinishSync(records, stats)

	events.Emit(ctx, s.emitter, events.EventSynced, events.SyncedData{
		Total:    stats.Total,
		LastHour: stats.LastHour,
		Today:    stats.Today,
	})
	if s.journal != nil {
		s.journal.Record(ctx, "sync", "", stats.Total)
	}
	utils.Info("sync cycle finished", "total", stats.Total, "last_hour", stats.LastHour)

	return s.store.Snapshot(), nil
}

// collect — сама работа цикла: листинг, фильтр по расширению,
// подпись URL, сборка записей, канонический порядок newest-first.
func (s *Synchronizer) collect(ctx context.Context) ([]ImageRecord, error) {
	objects, err := s.gw.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	// Фильтр по расширению: не-JPEG объекты невидимы, не ошибки
	jpegs := make([]s3storage.StoredObject, 0, len(objects))
	for _, obj := range objects {
		if IsJPEG(obj.Key) {
			jpegs = append(jpegs, obj)
		}
	}

	// Пустой (или полностью отфильтрованный) листинг — успех с нулями
	if len(jpegs) == 0 {
		return []ImageRecord{}, nil
	}

	urls, err := s.signAll(ctx, jpegs)
	if err != nil {
		return nil, fmt.Errorf("sign urls: %w", err)
	}

	records := make([]ImageRecord, len(jpegs))
	for i, obj := range jpegs {
		records[i] = NewImageRecord(obj.Key, urls[i], obj.Size, obj.LastModified)
	}

	// Канонический порядок до любых пользовательских сортировок
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LastModified.After(records[j].LastModified)
	})

	return records, nil
}

// signAll подписывает URL пачками по signBatch, внутри пачки параллельно.
//
// Любая неудавшаяся подпись валит весь цикл — частичных результатов не
// публикуем. Ограниченный фан-аут вместо одной безразмерной пачки:
// на больших бакетах это упиралось в лимиты endpoint'а.
func (s *Synchronizer) signAll(ctx context.Context, objects []s3storage.StoredObject) ([]string, error) {
	urls := make([]string, len(objects))

	for start := 0; start < len(objects); start += s.signBatch {
		end := start + s.signBatch
		if end > len(objects) {
			end = len(objects)
		}

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			firstErr error
		)

		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				url, err := s.gw.PresignGet(ctx, objects[i].Key, s.signTTL)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("presign %s: %w", objects[i].Key, err)
					}
					mu.Unlock()
					return
				}
				urls[i] = url
			}(i)
		}
		wg.Wait()

		if firstErr != nil {
			return nil, firstErr
		}
	}

	return urls, nil
}
