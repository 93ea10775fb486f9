// Package ui реализует Model компонент Bubble Tea TUI.
//
// Содержит структуру дашборда и функцию инициализации.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/kadr/internal/app"
	"github.com/ilkoid/kadr/pkg/events"
	"github.com/ilkoid/kadr/pkg/gallery"
	"github.com/ilkoid/kadr/pkg/tui"
)

// overlay — какой модальный слой сейчас поверх галереи.
type overlay int

const (
	overlayNone overlay = iota
	overlayConfirmDelete
	overlayConfirmBulk
	overlayDetail
	overlayBulkProgress
)

// --- Сообщения (Messages) ---

// syncDoneMsg — итог цикла синхронизации (прилетает асинхронно).
type syncDoneMsg struct {
	snap gallery.Snapshot
	err  error
}

// tickMsg — тик автообновления. gen защищает от протухшего расписания:
// смена интервала инкрементирует поколение, старые тики игнорируются.
type tickMsg struct {
	gen int
}

// deleteDoneMsg — итог одиночного удаления.
type deleteDoneMsg struct {
	key string
	err error
}

// bulkDoneMsg — итог массового удаления (финал, прогресс идёт шиной).
type bulkDoneMsg struct {
	deleted int
	err     error
}

// downloadDoneMsg — итог скачивания.
type downloadDoneMsg struct {
	path string
	err  error
}

// previewMsg — готовое ANSI превью для detail оверлея.
type previewMsg struct {
	key     string
	content string
	err     error
}

// MainModel представляет главную модель UI (Bubble Tea Model).
type MainModel struct {
	state    *app.AppState
	status   *tui.StatusBarManager
	eventSub events.Subscriber

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	// Последний снапшот store + производная проекция
	snapshot gallery.Snapshot
	visible  []gallery.ImageRecord
	sortBy   gallery.SortMode
	filterBy gallery.FilterMode
	cursor   int

	// Автообновление
	intervalSec int
	tickGen     int

	// Оверлеи
	overlay       overlay
	pendingDelete string // Ключ, ждущий подтверждения
	detailKey     string
	detailPreview string

	// Прогресс bulk-удаления
	bulkDeleted int
	bulkTotal   int
}

// InitialModel создает начальное состояние UI.
func InitialModel(state *app.AppState) MainModel {
	status := tui.NewStatusBarManager(tui.DefaultStatusBarConfig())

	m := MainModel{
		state:       state,
		status:      status,
		eventSub:    state.Emitter.Subscribe(),
		sortBy:      gallery.SortNewest,
		filterBy:    gallery.FilterAll,
		intervalSec: state.Config.Gallery.RefreshInterval,
	}
	status.SetCustomExtra(m.statusExtra())
	return m
}

// statusExtra — строка справа в статус-баре.
func (m MainModel) statusExtra() func() string {
	return func() string {
		return "sort: " + string(m.sortBy) +
			" | filter: " + string(m.filterBy) +
			" | ⟳ " + intervalLabel(m.intervalSec)
	}
}

func intervalLabel(seconds int) string {
	if seconds == 0 {
		return "off"
	}
	return (time.Duration(seconds) * time.Second).String()
}

// Init запускается один раз при старте Bubble Tea программы.
//
// Сразу стартует первый цикл синхронизации, тик автообновления
// и чтение событий из шины.
func (m MainModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.status.Spinner().Tick,
		syncCmd(m.state),
		tui.ReceiveEventCmd(m.eventSub),
	}
	if m.intervalSec > 0 {
		cmds = append(cmds, scheduleTick(m.intervalSec, m.tickGen))
	}
	return tea.Batch(cmds...)
}

// reproject пересчитывает видимый срез из снапшота и выбора пользователя.
// Чистая проекция, зовётся на каждое изменение входов.
func (m *MainModel) reproject() {
	m.visible = gallery.Project(m.snapshot.Records, m.sortBy, m.filterBy, time.Now())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.status.SetCustomExtra(m.statusExtra())
}

// current возвращает запись под курсором (ok=false если список пуст).
func (m MainModel) current() (gallery.ImageRecord, bool) {
	if len(m.visible) == 0 || m.cursor >= len(m.visible) {
		return gallery.ImageRecord{}, false
	}
	return m.visible[m.cursor], true
}
