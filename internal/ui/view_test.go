package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ilkoid/kadr/pkg/gallery"
	"github.com/ilkoid/kadr/pkg/tui"
)

func TestRenderRows(t *testing.T) {
	records := []gallery.ImageRecord{
		{Key: "cam1/a.jpg", Name: "a.jpg", Size: 2048, LastModified: time.Now().Add(-time.Minute)},
		{Key: "cam2/b.jpg", Name: "b.jpg", Size: 512, LastModified: time.Now().Add(-time.Hour)},
	}

	out := renderRows(records, 0)

	assert.Contains(t, out, "a.jpg")
	assert.Contains(t, out, "b.jpg")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "512 B")
	assert.Contains(t, out, ">", "строка под курсором должна нести маркер")
}

func TestRenderRowsEmpty(t *testing.T) {
	out := renderRows(nil, 0)
	assert.Contains(t, out, "No images")
}

func TestRenderTiles(t *testing.T) {
	stats := gallery.Stats{LastHour: 3, Today: 7, Total: 42}

	out := renderTiles(stats, gallery.FilterToday)

	assert.Contains(t, out, "3")
	assert.Contains(t, out, "7")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "last hour")
	assert.Contains(t, out, "today")
	assert.Contains(t, out, "total")
}

func TestHumanAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{42 * time.Second, "42s ago"},
		{5 * time.Minute, "5m ago"},
		{2 * time.Hour, "2h ago"},
		{3 * 24 * time.Hour, "3d ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanAge(tt.d))
	}
}

func TestListOffset(t *testing.T) {
	// Курсор в начале — без смещения
	assert.Equal(t, 0, listOffset(0, 10))
	assert.Equal(t, 0, listOffset(4, 10))
	// Глубже — курсор держится в середине окна
	assert.Equal(t, 15, listOffset(20, 10))
	// Нулевая высота не роняет
	assert.Equal(t, 0, listOffset(20, 0))
}

func TestPreviewWidth(t *testing.T) {
	assert.Equal(t, 16, previewWidth(10), "нижняя граница")
	assert.Equal(t, 48, previewWidth(60))
	assert.Equal(t, 80, previewWidth(500), "верхняя граница")
}

func TestIntervalLabel(t *testing.T) {
	assert.Equal(t, "off", intervalLabel(0))
	assert.Equal(t, "30s", intervalLabel(30))
	assert.Equal(t, "5m0s", intervalLabel(300))
}

func TestStaleTickIgnored(t *testing.T) {
	// Смена интервала инкрементирует поколение: тик из старого
	// расписания не должен запускать синхронизацию.
	m := MainModel{
		status:  tui.NewStatusBarManager(tui.DefaultStatusBarConfig()),
		tickGen: 3,
	}

	_, cmd := m.Update(tickMsg{gen: 2})
	assert.Nil(t, cmd, "протухший тик не должен порождать команд")

	_, cmd = m.Update(tickMsg{gen: 3})
	assert.NotNil(t, cmd, "актуальный тик запускает цикл")
}

func TestViewErrorScreen(t *testing.T) {
	m := MainModel{
		status: tui.NewStatusBarManager(tui.DefaultStatusBarConfig()),
		ready:  true,
		width:  80,
		height: 24,
		snapshot: gallery.Snapshot{
			Phase: gallery.PhaseError,
			Err:   assert.AnError,
		},
	}

	out := m.View()
	assert.Contains(t, out, "Sync failed")
	assert.Contains(t, out, "r retry")
	assert.False(t, strings.Contains(out, "last hour"), "плитки не рисуются на экране ошибки")
}
