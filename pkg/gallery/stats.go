package gallery

import "time"

// Stats — производные счётчики по коллекции.
//
// Никогда не мутируются отдельно: только полный пересчёт по текущей
// коллекции (после sync или после оптимистичного удаления).
type Stats struct {
	LastHour int // Записей моложе часа
	Today    int // Записей с локальной полуночи
	Total    int
}

// ComputeStats пересчитывает статистику по коллекции.
//
// "Сегодня" считается от локальной полуночи, не от фиксированного окна
// в 24 часа. now передаётся явно ради детерминированных тестов.
func ComputeStats(records []ImageRecord, now time.Time) Stats {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	s := Stats{Total: len(records)}
	for _, r := range records {
		if now.Sub(r.LastModified) < time.Hour {
			s.LastHour++
		}
		if !r.LastModified.Before(midnight) {
			s.Today++
		}
	}
	return s
}
