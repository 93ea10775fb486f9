// Package tui — адаптер между pkg/events и Bubble Tea.
//
// Port & Adapter: библиотека (pkg/gallery) шлёт события в events.Emitter,
// UI читает их через этот мост как tea.Msg.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/kadr/pkg/events"
)

// EventMsg оборачивает события галереи в tea.Msg.
type EventMsg events.Event

// EventsClosedMsg приходит когда шина событий закрыта.
type EventsClosedMsg struct{}

// ReceiveEventCmd читает одно событие из подписчика и возвращает его
// как tea.Msg. Update обязан после обработки снова вернуть эту команду,
// иначе чтение остановится (стандартный bubbletea паттерн "re-arm").
func ReceiveEventCmd(sub events.Subscriber) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub.Events()
		if !ok {
			return EventsClosedMsg{}
		}
		return EventMsg(event)
	}
}
