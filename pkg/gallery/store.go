package gallery

import (
	"errors"
	"sync"
	"time"
)

// Phase — явная машина состояний вместо разбросанных boolean флагов.
//
// Гарантия "не более одного цикла за раз" и "sync не бежит во время
// bulk-удаления" — структурный инвариант переходов, а не конвенция.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseSyncing      Phase = "syncing"
	PhaseBulkDeleting Phase = "bulkDeleting"
	PhaseError        Phase = "error"
)

var (
	// ErrSyncBusy — цикл уже идёт, новый пропускаем (skip-if-busy).
	ErrSyncBusy = errors.New("sync already in progress")

	// ErrBulkRunning — идёт массовое удаление, sync и мутации подавлены.
	ErrBulkRunning = errors.New("bulk delete in progress")

	// ErrNotIdle — bulk-удаление можно начать только из idle.
	ErrNotIdle = errors.New("store is not idle")
)

// Snapshot — read-only срез состояния для потребителей (UI, CLI утилиты).
type Snapshot struct {
	Records  []ImageRecord
	Stats    Stats
	Phase    Phase
	Err      error // Фатальная ошибка последнего цикла, nil вне PhaseError
	SyncedAt time.Time
}

// Store — авторитетная коллекция + статистика.
//
// Single-writer: целиком её заменяет только Synchronizer, точечно патчит
// только Mutator. Читатели получают копии через Snapshot().
//
// Thread-safe через sync.RWMutex, никаких глобальных переменных.
type Store struct {
	mu       sync.RWMutex
	records  []ImageRecord
	stats    Stats
	phase    Phase
	err      error
	syncedAt time.Time
}

// NewStore создаёт пустой store в состоянии idle.
func NewStore() *Store {
	return &Store{
		records: []ImageRecord{},
		phase:   PhaseIdle,
	}
}

// Snapshot возвращает копию текущего состояния.
//
// Срез копируется, чтобы читатель не алиасил внутренние данные.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]ImageRecord, len(s.records))
	copy(records, s.records)

	return Snapshot{
		Records:  records,
		Stats:    s.stats,
		Phase:    s.phase,
		Err:      s.err,
		SyncedAt: s.syncedAt,
	}
}

// Phase возвращает текущую фазу.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// BeginSync переводит store в PhaseSyncing.
//
// Разрешено из idle и error (retry после фатальной ошибки).
// Из syncing — ErrSyncBusy, из bulkDeleting — ErrBulkRunning.
func (s *Store) BeginSync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseIdle, PhaseError:
		s.phase = PhaseSyncing
		return nil
	case PhaseSyncing:
		return ErrSyncBusy
	default:
		return ErrBulkRunning
	}
}

// FinishSync публикует новую коллекцию целиком и сбрасывает ошибку.
//
// Коллекция заменяется wholesale: членство и порядок полностью
// определяются этим циклом.
func (s *Store) FinishSync(records []ImageRecord, stats Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records
	s.stats = stats
	s.phase = PhaseIdle
	s.err = nil
	s.syncedAt = time.Now()
}

// FailSync переводит store в PhaseError, коллекцию не трогает.
//
// Ошибка висит до следующего успешного цикла (retry руками или по таймеру).
func (s *Store) FailSync(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = PhaseError
	s.err = err
}

// BeginBulkDelete переводит store в PhaseBulkDeleting.
// Разрешено только из idle.
func (s *Store) BeginBulkDelete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseIdle {
		return ErrNotIdle
	}
	s.phase = PhaseBulkDeleting
	return nil
}

// FinishBulkDelete возвращает store в idle.
func (s *Store) FinishBulkDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseBulkDeleting {
		s.phase = PhaseIdle
	}
}

// RemoveRecord — оптимистичный патч: убирает запись по ключу и
// пересчитывает статистику по уже пропатченной коллекции, не дожидаясь
// следующего цикла синхронизации.
//
// Возвращает false если ключа в коллекции нет.
func (s *Store) RemoveRecord(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.Key == key {
			s.records = append(s.records[:i], s.records[i+1:]...)
			s.stats = ComputeStats(s.records, time.Now())
			return true
		}
	}
	return false
}
