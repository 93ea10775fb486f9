package gallery

import (
	"reflect"
	"testing"
	"time"
)

func keysOf(records []ImageRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Key
	}
	return out
}

func TestProjectSortModes(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	records := []ImageRecord{
		{Key: "b", Name: "banana.jpg", LastModified: now.Add(-2 * time.Hour)},
		{Key: "a", Name: "Apple.jpg", LastModified: now.Add(-1 * time.Hour)},
		{Key: "c", Name: "cherry.jpg", LastModified: now.Add(-3 * time.Hour)},
	}

	tests := []struct {
		name   string
		sortBy SortMode
		want   []string
	}{
		{"newest first", SortNewest, []string{"a", "b", "c"}},
		{"oldest first", SortOldest, []string{"c", "b", "a"}},
		{"by name case-insensitive", SortName, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keysOf(Project(records, tt.sortBy, FilterAll, now))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProjectNameSortDeterministic(t *testing.T) {
	// Один вход — один выход, сколько ни проецируй
	now := time.Now()
	records := []ImageRecord{
		{Key: "1", Name: "zeta.jpg", LastModified: now},
		{Key: "2", Name: "alpha.jpg", LastModified: now},
		{Key: "3", Name: "Alpha-2.jpg", LastModified: now},
		{Key: "4", Name: "beta.jpg", LastModified: now},
	}

	first := keysOf(Project(records, SortName, FilterAll, now))
	for i := 0; i < 5; i++ {
		again := keysOf(Project(records, SortName, FilterAll, now))
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: order %v != %v", i, again, first)
		}
	}
}

func TestProjectFilterThenSort(t *testing.T) {
	// Композиция lastHour + oldest: сначала режем окно, потом сортируем
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	records := []ImageRecord{
		{Key: "m50", LastModified: now.Add(-50 * time.Minute)},
		{Key: "m70", LastModified: now.Add(-70 * time.Minute)}, // за границей часа
		{Key: "m10", LastModified: now.Add(-10 * time.Minute)},
		{Key: "m90", LastModified: now.Add(-90 * time.Minute)}, // за границей часа
		{Key: "m30", LastModified: now.Add(-30 * time.Minute)},
	}

	got := keysOf(Project(records, SortOldest, FilterLastHour, now))
	want := []string{"m50", "m30", "m10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("projection = %v, want %v", got, want)
	}
}

func TestProjectTimeWindows(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	records := []ImageRecord{
		{Key: "hour", LastModified: now.Add(-10 * time.Minute)},
		{Key: "today", LastModified: now.Add(-5 * time.Hour)},
		{Key: "week", LastModified: now.Add(-3 * 24 * time.Hour)},
		{Key: "month", LastModified: now.Add(-20 * 24 * time.Hour)},
		{Key: "old", LastModified: now.Add(-45 * 24 * time.Hour)},
	}

	tests := []struct {
		filter FilterMode
		want   int
	}{
		{FilterAll, 5},
		{FilterLastHour, 1},
		{FilterToday, 2},
		{FilterWeek, 3},
		{FilterMonth, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			if got := len(Project(records, SortNewest, tt.filter, now)); got != tt.want {
				t.Errorf("filter %s: %d records, want %d", tt.filter, got, tt.want)
			}
		})
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	records := []ImageRecord{
		{Key: "b", LastModified: now.Add(-2 * time.Hour)},
		{Key: "a", LastModified: now.Add(-1 * time.Hour)},
	}
	before := keysOf(records)

	Project(records, SortOldest, FilterAll, now)

	if after := keysOf(records); !reflect.DeepEqual(before, after) {
		t.Errorf("input mutated: %v -> %v", before, after)
	}
}

func TestNextSortMode(t *testing.T) {
	tests := []struct {
		in, want SortMode
	}{
		{SortNewest, SortOldest},
		{SortOldest, SortName},
		{SortName, SortNewest},
		{SortMode("junk"), SortNewest},
	}
	for _, tt := range tests {
		if got := NextSortMode(tt.in); got != tt.want {
			t.Errorf("NextSortMode(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNextFilterMode(t *testing.T) {
	tests := []struct {
		in, want FilterMode
	}{
		{FilterAll, FilterLastHour},
		{FilterLastHour, FilterToday},
		{FilterToday, FilterWeek},
		{FilterWeek, FilterMonth},
		{FilterMonth, FilterAll},
		{FilterMode("junk"), FilterAll},
	}
	for _, tt := range tests {
		if got := NextFilterMode(tt.in); got != tt.want {
			t.Errorf("NextFilterMode(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
