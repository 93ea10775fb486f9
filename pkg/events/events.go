// Package events предоставляет интерфейсы для реализации Port & Adapter паттерна.
//
// Это Port (интерфейс) для подписки на события синхронизации и мутаций галереи.
// Позволяет подключать любые UI (TUI, CLI) без изменения библиотечной логики.
//
//	Port — это интерфейс (Emitter, Subscriber), определённый в библиотеке.
//	Adapter — это реализация для конкретного UI (pkg/tui для Bubble Tea).
//
// Все реализации интерфейсов должны быть thread-safe.
package events

import (
	"context"
	"time"
)

// EventType представляет тип события галереи.
type EventType string

const (
	// EventSyncStarted отправляется в начале цикла синхронизации.
	EventSyncStarted EventType = "sync_started"

	// EventSynced отправляется после успешной публикации коллекции.
	EventSynced EventType = "synced"

	// EventSyncFailed отправляется при фатальной ошибке листинга или подписи URL.
	EventSyncFailed EventType = "sync_failed"

	// EventDeleted отправляется после успешного удаления одного объекта.
	EventDeleted EventType = "deleted"

	// EventBulkProgress отправляется после каждого batch'а массового удаления.
	EventBulkProgress EventType = "bulk_progress"

	// EventBulkDone отправляется по завершении массового удаления (в т.ч. частичного).
	EventBulkDone EventType = "bulk_done"

	// EventDownloaded отправляется после сохранения объекта на диск.
	EventDownloaded EventType = "downloaded"

	// EventTransientError отправляется при локальной (не фатальной) ошибке:
	// неудачное удаление, скачивание. Коллекцию не трогает.
	EventTransientError EventType = "transient_error"
)

// EventData — sealed interface для данных события.
//
// Только типы из пакета events могут реализовать этот интерфейс,
// что обеспечивает compile-time type safety.
type EventData interface {
	eventData()
}

// SyncedData содержит итог успешного цикла синхронизации.
type SyncedData struct {
	Total    int
	LastHour int
	Today    int
}

func (SyncedData) eventData() {}

// SyncFailedData содержит фатальную ошибку цикла.
type SyncFailedData struct {
	Err error
}

func (SyncFailedData) eventData() {}

// DeletedData содержит ключ удалённого объекта.
type DeletedData struct {
	Key string
}

func (DeletedData) eventData() {}

// BulkProgressData — прогресс массового удаления.
type BulkProgressData struct {
	Deleted int // Сколько уже удалено
	Total   int // Сколько всего в очереди
}

func (BulkProgressData) eventData() {}

// BulkDoneData — итог массового удаления.
//
// Halted = true если удаление остановилось на неудачном batch'е,
// Deleted тогда меньше Total.
type BulkDoneData struct {
	Deleted int
	Total   int
	Halted  bool
	Err     error
}

func (BulkDoneData) eventData() {}

// DownloadedData содержит ключ и локальный путь скачанного объекта.
type DownloadedData struct {
	Key  string
	Path string
}

func (DownloadedData) eventData() {}

// TransientErrorData — локальная ошибка, не меняющая глобальное состояние.
type TransientErrorData struct {
	Op  string // "delete", "download", "bulk_delete"
	Key string
	Err error
}

func (TransientErrorData) eventData() {}

// Event представляет событие галереи.
type Event struct {
	Type      EventType
	Data      EventData
	Timestamp time.Time
}

// Emitter — это Port для отправки событий.
//
// Emitter инвертирует зависимость: библиотека (pkg/gallery) зависит
// от этого интерфейса, а не от конкретного UI.
type Emitter interface {
	// Emit отправляет событие.
	//
	// Если context отменён, операция должна прерваться.
	Emit(ctx context.Context, event Event)
}

// Subscriber позволяет читать события из канала.
type Subscriber interface {
	// Events возвращает read-only канал событий.
	//
	// Канал закрывается при вызове Close().
	Events() <-chan Event

	// Close закрывает канал событий и освобождает ресурсы.
	Close()
}

// Emit — шорткат: собирает Event с текущим временем и отправляет.
// nil emitter безопасен (события просто не отправляются).
func Emit(ctx context.Context, e Emitter, t EventType, data EventData) {
	if e == nil {
		return
	}
	e.Emit(ctx, Event{Type: t, Data: data, Timestamp: time.Now()})
}
