// Отрисовка дашборда.

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ilkoid/kadr/pkg/gallery"
)

func newListViewport(width, height int) viewport.Model {
	return viewport.New(width, height)
}

// View - отрисовка
func (m MainModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	// Фатальная ошибка: экран ошибки полностью заменяет галерею
	if m.snapshot.Phase == gallery.PhaseError {
		return m.viewError()
	}

	switch m.overlay {
	case overlayConfirmDelete:
		return m.viewConfirmDelete()
	case overlayConfirmBulk:
		return m.viewConfirmBulk()
	case overlayBulkProgress:
		return m.viewBulkProgress()
	case overlayDetail:
		return m.viewDetail()
	}

	header := titleStyle.Render("📷 kadr — bucket snapshot gallery")
	tiles := renderTiles(m.snapshot.Stats, m.filterBy)

	// Список в viewport: контент и смещение пересобираются на каждый рендер
	vp := m.viewport
	vp.SetContent(renderRows(m.visible, m.cursor))
	vp.SetYOffset(listOffset(m.cursor, vp.Height))

	help := helpStyle.Render(
		"↑/↓ move · enter detail · r refresh · s sort · f filter · i interval · o download · d delete · D delete all · q quit")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s",
		header, tiles, vp.View(), m.status.Render(), help)
}

// listOffset держит курсор в видимой части списка.
func listOffset(cursor, height int) int {
	if height <= 0 {
		return 0
	}
	offset := cursor - height/2
	if offset < 0 {
		offset = 0
	}
	return offset
}

// renderTiles — три плитки статистики; активный фильтр подсвечен.
func renderTiles(stats gallery.Stats, active gallery.FilterMode) string {
	tile := func(label string, value int, mode gallery.FilterMode, hotkey string) string {
		style := tileStyle
		if active == mode {
			style = tileActiveStyle
		}
		return style.Render(fmt.Sprintf("%s %s\n%s",
			tileValueStyle.Render(fmt.Sprintf("%d", value)), label,
			dimStyle.Render("["+hotkey+"]")))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		tile("last hour", stats.LastHour, gallery.FilterLastHour, "1"),
		tile("today", stats.Today, gallery.FilterToday, "2"),
		tile("total", stats.Total, gallery.FilterAll, "3"),
	)
}

// renderRows — строки галереи с маркером курсора.
func renderRows(records []gallery.ImageRecord, cursor int) string {
	if len(records) == 0 {
		return dimStyle.Render("\n  No images. Bucket is empty or filter hides everything.")
	}

	var b strings.Builder
	for i, r := range records {
		marker := "  "
		line := fmt.Sprintf("%-40s  %10s  %s",
			r.Name, gallery.FormatSize(r.Size), humanAge(time.Since(r.LastModified)))
		if i == cursor {
			marker = cursorStyle.Render("> ")
			line = cursorStyle.Render(line)
		}
		b.WriteString(marker + line + "\n")
	}
	return b.String()
}

// humanAge форматирует возраст записи коротко: 42s, 5m, 2h, 3d.
func humanAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func (m MainModel) viewError() string {
	msg := "unknown error"
	if m.snapshot.Err != nil {
		msg = m.snapshot.Err.Error()
	}
	body := fmt.Sprintf("%s\n\n%s\n\n%s",
		errorTitleStyle.Render("❌ Sync failed"),
		wordwrap.String(msg, contentWidth(m.width)),
		helpStyle.Render("r retry · q quit"))
	return overlayStyle.Render(body)
}

func (m MainModel) viewConfirmDelete() string {
	body := fmt.Sprintf("Delete %s?\n\n%s",
		m.pendingDelete,
		helpStyle.Render("y yes · n no"))
	return overlayStyle.Render(body)
}

func (m MainModel) viewConfirmBulk() string {
	body := fmt.Sprintf("%s\n\nDelete ALL %d listed images?\nThis cannot be undone.\n\n%s",
		warnStyle.Render("⚠ IRREVERSIBLE"),
		len(m.visible),
		helpStyle.Render("y yes · n no"))
	return overlayStyle.Render(body)
}

func (m MainModel) viewBulkProgress() string {
	// Полноэкранный блокирующий оверлей: ввод не работает пока не кончим
	body := fmt.Sprintf("🗑  Deleting...\n\n%d / %d",
		m.bulkDeleted, m.bulkTotal)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		overlayStyle.Render(body))
}

func (m MainModel) viewDetail() string {
	var rec gallery.ImageRecord
	found := false
	for _, r := range m.snapshot.Records {
		if r.Key == m.detailKey {
			rec = r
			found = true
			break
		}
	}
	if !found {
		return overlayStyle.Render("Record is gone.\n\n" + helpStyle.Render("esc back"))
	}

	w := contentWidth(m.width)
	meta := fmt.Sprintf("%s\n\nkey:  %s\nsize: %s\ntime: %s\n\nurl:\n%s",
		titleStyle.Render(rec.Name),
		rec.Key,
		gallery.FormatSize(rec.Size),
		rec.LastModified.Format("2006-01-02 15:04:05"),
		dimStyle.Render(wordwrap.String(rec.URL, w)))

	return overlayStyle.Render(fmt.Sprintf("%s\n\n%s\n%s",
		meta, m.detailPreview, helpStyle.Render("esc back")))
}

func contentWidth(termWidth int) int {
	w := termWidth - 10
	if w < 20 {
		w = 20
	}
	return w
}
