package gallery

import (
	"testing"
	"time"
)

func recAt(key string, ts time.Time) ImageRecord {
	return ImageRecord{Key: key, Name: key, LastModified: ts}
}

func TestComputeStats(t *testing.T) {
	// Полдень по локальному времени: границы "час назад" и "полночь"
	// далеко друг от друга, кейсы не пересекаются случайно.
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)

	records := []ImageRecord{
		recAt("fresh.jpg", now.Add(-30*time.Minute)),   // час и сегодня
		recAt("morning.jpg", now.Add(-2*time.Hour)),    // только сегодня
		recAt("yesterday.jpg", now.Add(-25*time.Hour)), // только total
	}

	s := ComputeStats(records, now)
	if s.LastHour != 1 {
		t.Errorf("LastHour = %d, want 1", s.LastHour)
	}
	if s.Today != 2 {
		t.Errorf("Today = %d, want 2", s.Today)
	}
	if s.Total != 3 {
		t.Errorf("Total = %d, want 3", s.Total)
	}
}

func TestComputeStatsMidnightBoundary(t *testing.T) {
	// "Сегодня" — от локальной полуночи, а не окно в 24 часа
	now := time.Date(2026, 8, 31, 0, 30, 0, 0, time.Local)
	midnight := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)

	records := []ImageRecord{
		recAt("at-midnight.jpg", midnight),                      // ровно полночь — сегодня
		recAt("before-midnight.jpg", midnight.Add(-time.Second)), // вчера, хоть и 30 минут назад
	}

	s := ComputeStats(records, now)
	if s.Today != 1 {
		t.Errorf("Today = %d, want 1: before-midnight is yesterday", s.Today)
	}
	// Оба свежее часа
	if s.LastHour != 2 {
		t.Errorf("LastHour = %d, want 2", s.LastHour)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	if s := ComputeStats(nil, time.Now()); s != (Stats{}) {
		t.Errorf("ComputeStats(nil) = %+v, want zeroes", s)
	}
}
