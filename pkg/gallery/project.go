package gallery

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode — пользовательская сортировка галереи.
type SortMode string

const (
	SortNewest SortMode = "newest"
	SortOldest SortMode = "oldest"
	SortName   SortMode = "name"
)

// FilterMode — пользовательский фильтр по времени.
type FilterMode string

const (
	FilterAll      FilterMode = "all"
	FilterLastHour FilterMode = "lastHour"
	FilterToday    FilterMode = "today"
	FilterWeek     FilterMode = "week"
	FilterMonth    FilterMode = "month"
)

var sortModes = []SortMode{SortNewest, SortOldest, SortName}
var filterModes = []FilterMode{FilterAll, FilterLastHour, FilterToday, FilterWeek, FilterMonth}

// NextSortMode переключает сортировку по кругу (для клавиши в UI).
func NextSortMode(m SortMode) SortMode {
	for i, v := range sortModes {
		if v == m {
			return sortModes[(i+1)%len(sortModes)]
		}
	}
	return SortNewest
}

// NextFilterMode переключает фильтр по кругу.
func NextFilterMode(m FilterMode) FilterMode {
	for i, v := range filterModes {
		if v == m {
			return filterModes[(i+1)%len(filterModes)]
		}
	}
	return FilterAll
}

// Project — чистая проекция: фильтр, затем сортировка.
//
// Без side effects, детерминирована для данной четвёрки аргументов,
// безопасно звать на каждый рендер. Исходный срез не трогается.
//
// Один снапшот now на весь проход — чтобы граница окна не плыла
// внутри одной проекции.
func Project(records []ImageRecord, sortBy SortMode, filterBy FilterMode, now time.Time) []ImageRecord {
	out := filterRecords(records, filterBy, now)
	sortRecords(out, sortBy)
	return out
}

func filterRecords(records []ImageRecord, filterBy FilterMode, now time.Time) []ImageRecord {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	keep := func(r ImageRecord) bool {
		switch filterBy {
		case FilterLastHour:
			return now.Sub(r.LastModified) < time.Hour
		case FilterToday:
			return !r.LastModified.Before(midnight)
		case FilterWeek:
			return now.Sub(r.LastModified) < 7*24*time.Hour
		case FilterMonth:
			return now.Sub(r.LastModified) < 30*24*time.Hour
		default: // FilterAll и всё неизвестное — identity
			return true
		}
	}

	out := make([]ImageRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func sortRecords(records []ImageRecord, sortBy SortMode) {
	switch sortBy {
	case SortOldest:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].LastModified.Before(records[j].LastModified)
		})
	case SortName:
		// Locale-aware сравнение имён, без учёта регистра
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(records, func(i, j int) bool {
			return c.CompareString(records[i].Name, records[j].Name) < 0
		})
	default: // SortNewest — канонический порядок
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].LastModified.After(records[j].LastModified)
		})
	}
}
