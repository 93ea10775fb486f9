// Логика - обрабатывает нажатия клавиш, тики и результаты команд.

package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/kadr/internal/app"
	"github.com/ilkoid/kadr/pkg/config"
	"github.com/ilkoid/kadr/pkg/events"
	"github.com/ilkoid/kadr/pkg/gallery"
	"github.com/ilkoid/kadr/pkg/tui"
	"github.com/ilkoid/kadr/pkg/utils"
)

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := m.status.UpdateSpinner(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {

	// 1. Изменение размера окна терминала
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 7 // заголовок + плитки статистики
		footerHeight := 3 // статус-бар + help

		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 0 {
			vpHeight = 0
		}

		if !m.ready {
			m.viewport = newListViewport(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}

	// 2. Клавиши
	case tea.KeyMsg:
		return m.handleKey(msg)

	// 3. Тик автообновления
	case tickMsg:
		// Протухшее расписание (интервал меняли) — игнорируем
		if msg.gen != m.tickGen {
			return m, tea.Batch(cmds...)
		}
		cmds = append(cmds, syncCmd(m.state))
		if m.intervalSec > 0 {
			cmds = append(cmds, scheduleTick(m.intervalSec, m.tickGen))
		}
		return m, tea.Batch(cmds...)

	// 4. Итог цикла синхронизации
	case syncDoneMsg:
		m.status.SetProcessing(false)
		if msg.err != nil {
			// Пропуск занятого цикла — не событие, фатальная ошибка
			// уже лежит в снапшоте (PhaseError)
			if errors.Is(msg.err, gallery.ErrSyncBusy) || errors.Is(msg.err, gallery.ErrBulkRunning) {
				return m, tea.Batch(cmds...)
			}
		}
		m.snapshot = msg.snap
		m.reproject()

	// 5. Итог одиночного удаления
	case deleteDoneMsg:
		m.status.SetProcessing(false)
		if msg.err != nil {
			m.status.SetNotice(fmt.Sprintf("delete failed: %s", msg.key))
		} else {
			m.status.SetNotice("")
			// Оптимистичный патч уже в store — забираем снапшот
			m.snapshot = m.state.Store.Snapshot()
			if m.detailKey == msg.key {
				m.detailKey = ""
				m.detailPreview = ""
				if m.overlay == overlayDetail {
					m.overlay = overlayNone
				}
			}
			m.reproject()
		}

	// 6. Финал массового удаления
	case bulkDoneMsg:
		m.overlay = overlayNone
		if msg.err != nil {
			m.status.SetNotice(fmt.Sprintf("bulk delete halted after %d", msg.deleted))
		} else {
			m.status.SetNotice(fmt.Sprintf("deleted %d objects", msg.deleted))
		}
		// Много записей поменялось — оптимистичный патчинг не используем,
		// форсируем полный цикл
		m.status.SetProcessing(true)
		cmds = append(cmds, syncCmd(m.state))

	// 7. Итог скачивания
	case downloadDoneMsg:
		m.status.SetProcessing(false)
		if msg.err != nil {
			m.status.SetNotice("download failed")
		} else {
			m.status.SetNotice("saved: " + msg.path)
		}

	// 8. Превью готово
	case previewMsg:
		if msg.key == m.detailKey {
			if msg.err != nil {
				m.detailPreview = dimStyle.Render("(preview unavailable)")
			} else {
				m.detailPreview = msg.content
			}
		}

	// 9. События из шины галереи
	case tui.EventMsg:
		m.applyEvent(events.Event(msg))
		// Re-arm: без этого чтение шины остановится
		cmds = append(cmds, tui.ReceiveEventCmd(m.eventSub))

	case tui.EventsClosedMsg:
		return m, tea.Quit
	}

	return m, tea.Batch(cmds...)
}

// applyEvent вносит событие шины в модель.
func (m *MainModel) applyEvent(ev events.Event) {
	switch ev.Type {
	case events.EventBulkProgress:
		if data, ok := ev.Data.(events.BulkProgressData); ok {
			m.bulkDeleted = data.Deleted
			m.bulkTotal = data.Total
		}
	case events.EventTransientError:
		if data, ok := ev.Data.(events.TransientErrorData); ok {
			m.status.SetNotice(fmt.Sprintf("%s failed: %s", data.Op, data.Key))
		}
	}
}

// handleKey — клавиши с учётом активного оверлея.
func (m MainModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.overlay {

	case overlayConfirmDelete:
		switch key {
		case "y":
			m.overlay = overlayNone
			m.status.SetProcessing(true)
			return m, deleteCmd(m.state, m.pendingDelete)
		case "n", "esc":
			m.overlay = overlayNone
			m.pendingDelete = ""
		}
		return m, nil

	case overlayConfirmBulk:
		switch key {
		case "y":
			keys := make([]string, len(m.visible))
			for i, r := range m.visible {
				keys[i] = r.Key
			}
			m.overlay = overlayBulkProgress
			m.bulkDeleted = 0
			m.bulkTotal = len(keys)
			return m, bulkDeleteCmd(m.state, keys)
		case "n", "esc":
			m.overlay = overlayNone
		}
		return m, nil

	case overlayDetail:
		if key == "esc" || key == "q" || key == "enter" {
			m.overlay = overlayNone
			m.detailKey = ""
			m.detailPreview = ""
		}
		return m, nil

	case overlayBulkProgress:
		// Блокируем весь ввод пока бежит массовое удаление
		return m, nil
	}

	// Фатальная ошибка: только retry и выход
	if m.snapshot.Phase == gallery.PhaseError {
		switch key {
		case "r":
			m.status.SetProcessing(true)
			return m, syncCmd(m.state)
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case "r":
		// Ручной refresh; store сам откажет если цикл уже бежит
		m.status.SetProcessing(true)
		return m, syncCmd(m.state)

	case "s":
		m.sortBy = gallery.NextSortMode(m.sortBy)
		m.reproject()

	case "f":
		m.filterBy = gallery.NextFilterMode(m.filterBy)
		m.reproject()

	case "1":
		// Плитка "за час": фильтр окна + сброс сортировки
		m.filterBy = gallery.FilterLastHour
		m.sortBy = gallery.SortNewest
		m.reproject()

	case "2":
		m.filterBy = gallery.FilterToday
		m.sortBy = gallery.SortNewest
		m.reproject()

	case "3":
		m.filterBy = gallery.FilterAll
		m.sortBy = gallery.SortNewest
		m.reproject()

	case "i":
		// Смена интервала: старое расписание инвалидируется поколением
		m.intervalSec = config.NextRefreshInterval(m.intervalSec)
		m.tickGen++
		m.status.SetCustomExtra(m.statusExtra())
		utils.Info("refresh interval changed", "seconds", m.intervalSec)
		if m.intervalSec > 0 {
			return m, scheduleTick(m.intervalSec, m.tickGen)
		}

	case "enter":
		if rec, ok := m.current(); ok {
			m.overlay = overlayDetail
			m.detailKey = rec.Key
			m.detailPreview = dimStyle.Render("loading preview...")
			return m, previewCmd(m.state, rec.Key, previewWidth(m.width))
		}

	case "o":
		if rec, ok := m.current(); ok {
			m.status.SetProcessing(true)
			return m, downloadCmd(m.state, rec.Key)
		}

	case "d":
		if rec, ok := m.current(); ok {
			m.overlay = overlayConfirmDelete
			m.pendingDelete = rec.Key
		}

	case "D":
		if len(m.visible) > 0 {
			m.overlay = overlayConfirmBulk
		}
	}

	return m, nil
}

// --- Команды (Commands) ---

func syncCmd(state *app.AppState) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		snap, err := state.Sync.Sync(ctx)
		return syncDoneMsg{snap: snap, err: err}
	}
}

func scheduleTick(seconds int, gen int) tea.Cmd {
	return tea.Tick(time.Duration(seconds)*time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func deleteCmd(state *app.AppState, key string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := state.Mutator.DeleteOne(ctx, key)
		return deleteDoneMsg{key: key, err: err}
	}
}

func bulkDeleteCmd(state *app.AppState, keys []string) tea.Cmd {
	return func() tea.Msg {
		// Щедрый таймаут: пачки идут последовательно
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		deleted, err := state.Mutator.DeleteAll(ctx, keys)
		return bulkDoneMsg{deleted: deleted, err: err}
	}
}

func downloadCmd(state *app.AppState, key string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		path, err := state.Mutator.Download(ctx, key)
		return downloadDoneMsg{path: path, err: err}
	}
}

func previewCmd(state *app.AppState, key string, width int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		data, err := state.Gateway.Download(ctx, key)
		if err != nil {
			return previewMsg{key: key, err: err}
		}
		content, err := utils.AnsiPreview(data, width)
		return previewMsg{key: key, content: content, err: err}
	}
}

func previewWidth(termWidth int) int {
	w := termWidth - 12
	if w < 16 {
		w = 16
	}
	if w > 80 {
		w = 80
	}
	return w
}
