// Package gallery — ядро дашборда: коллекция снимков из бакета,
// производная статистика, проекция для отображения и мутации.
//
// Единственный писатель коллекции — Synchronizer (замена целиком) и
// Mutator (точечные оптимистичные удаления). Читателей сколько угодно.
package gallery

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// ImageRecord — один отображаемый объект бакета.
//
// Пересоздаётся заново на каждом цикле синхронизации, никогда не
// персистится. URL живёт своей жизнью: presigned ссылка может протухнуть
// (403) пока запись ещё показывается.
type ImageRecord struct {
	Key          string    // Полный ключ в бакете, стабильная идентичность
	Name         string    // Последний сегмент ключа, для отображения
	URL          string    // Presigned ссылка с фиксированным TTL
	Size         int64     // Байты
	LastModified time.Time // Авторитетный ключ сортировки
}

// NewImageRecord собирает запись из сырых метаданных объекта.
func NewImageRecord(key, url string, size int64, lastModified time.Time) ImageRecord {
	return ImageRecord{
		Key:          key,
		Name:         path.Base(key),
		URL:          url,
		Size:         size,
		LastModified: lastModified,
	}
}

// IsJPEG проверяет расширение ключа (без учёта регистра).
// Всё остальное для галереи невидимо — не ошибка, просто не наше.
func IsJPEG(key string) bool {
	lower := strings.ToLower(key)
	return strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg")
}

// FormatSize форматирует байты в человекочитаемую величину.
// Порог 1024, один знак после запятой: "512 B", "1.5 KiB", "3.2 MiB".
func FormatSize(size int64) string {
	const k = 1024
	switch {
	case size < k:
		return fmt.Sprintf("%d B", size)
	case size < k*k:
		return fmt.Sprintf("%.1f KiB", float64(size)/k)
	default:
		return fmt.Sprintf("%.1f MiB", float64(size)/(k*k))
	}
}
