package tui

import (
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusBarManager manages a status bar with spinner, notice line and custom extra info.
//
// Нотис — это transient сообщение (неудачное удаление, скачивание),
// живёт до следующего действия пользователя.
type StatusBarManager struct {
	spinner      spinner.Model
	isProcessing bool
	notice       string
	mu           sync.RWMutex

	cfg StatusBarConfig

	// Extension point: строка справа (сортировка/фильтр/интервал)
	customExtra func() string
}

// StatusBarConfig holds color configuration for the status bar.
type StatusBarConfig struct {
	SpinnerColor    lipgloss.Color // когда идёт работа
	IdleColor       lipgloss.Color // когда всё спокойно
	BackgroundColor lipgloss.Color
	NoticeColor     lipgloss.Color // transient ошибки
	NoticeText      lipgloss.Color
	ExtraText       lipgloss.Color
}

// DefaultStatusBarConfig returns the default color scheme.
func DefaultStatusBarConfig() StatusBarConfig {
	return StatusBarConfig{
		SpinnerColor:    lipgloss.Color("86"),
		IdleColor:       lipgloss.Color("242"),
		BackgroundColor: lipgloss.Color("235"),
		NoticeColor:     lipgloss.Color("196"),
		NoticeText:      lipgloss.Color("15"),
		ExtraText:       lipgloss.Color("252"),
	}
}

// NewStatusBarManager creates a new StatusBarManager with the given configuration.
func NewStatusBarManager(cfg StatusBarConfig) *StatusBarManager {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(cfg.SpinnerColor)

	return &StatusBarManager{
		spinner: s,
		cfg:     cfg,
	}
}

// SetProcessing включает/выключает спиннер.
func (sm *StatusBarManager) SetProcessing(on bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.isProcessing = on
}

// IsProcessing возвращает текущий флаг занятости.
func (sm *StatusBarManager) IsProcessing() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.isProcessing
}

// SetNotice устанавливает transient сообщение ("" — убрать).
func (sm *StatusBarManager) SetNotice(text string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.notice = text
}

// Notice возвращает текущее transient сообщение.
func (sm *StatusBarManager) Notice() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.notice
}

// SetCustomExtra задаёт callback для строки справа.
func (sm *StatusBarManager) SetCustomExtra(fn func() string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.customExtra = fn
}

// UpdateSpinner прокидывает tea.Msg в спиннер (зовётся из Update модели).
func (sm *StatusBarManager) UpdateSpinner(msg tea.Msg) tea.Cmd {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	var cmd tea.Cmd
	if m, ok := msg.(spinner.TickMsg); ok {
		sm.spinner, cmd = sm.spinner.Update(m)
	}
	return cmd
}

// Spinner возвращает модель спиннера (для tea.Batch с Tick).
func (sm *StatusBarManager) Spinner() spinner.Model {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.spinner
}

// Render returns the status bar as a styled string.
func (sm *StatusBarManager) Render() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	var spinnerText string
	if sm.isProcessing {
		spinnerText = sm.spinner.View() + " Working"
	} else {
		spinnerText = "✓ Ready"
	}

	spinnerPart := lipgloss.NewStyle().
		Background(sm.cfg.BackgroundColor).
		Padding(0, 1).
		Foreground(func() lipgloss.Color {
			if sm.isProcessing {
				return sm.cfg.SpinnerColor
			}
			return sm.cfg.IdleColor
		}()).
		Render(spinnerText)

	var noticePart string
	if sm.notice != "" {
		noticePart = lipgloss.NewStyle().
			Background(sm.cfg.NoticeColor).
			Foreground(sm.cfg.NoticeText).
			Bold(true).
			Padding(0, 1).
			Render("! " + sm.notice)
	}

	var extraPart string
	if sm.customExtra != nil {
		extraPart = lipgloss.NewStyle().
			Background(sm.cfg.BackgroundColor).
			Foreground(sm.cfg.ExtraText).
			Padding(0, 1).
			Render(sm.customExtra())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, spinnerPart, noticePart, extraPart)
}
