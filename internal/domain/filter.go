package domain

import (
	"slices"
	"sort"
)

// Selection is one year plus a set of categories chosen by the user.
type Selection struct {
	Year       int      `json:"year"`
	Categories []string `json:"categories"`
}

// Years returns the distinct years present in events, newest first.
func Years(events []NormalizedEvent) []int {
	seen := make(map[int]struct{}, 16)
	years := make([]int, 0, 16)
	for _, e := range events {
		if _, ok := seen[e.Year]; ok {
			continue
		}
		seen[e.Year] = struct{}{}
		years = append(years, e.Year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Categories returns the distinct categories present in events in ascending,
// case-sensitive order.
func Categories(events []NormalizedEvent) []string {
	seen := make(map[string]struct{}, 16)
	cats := make([]string, 0, 16)
	for _, e := range events {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		cats = append(cats, e.Category)
	}
	sort.Strings(cats)
	return cats
}

// Filter returns the events from the given year whose category is in
// categories. An empty category set matches nothing. The input is not
// modified.
func Filter(events []NormalizedEvent, year int, categories []string) []NormalizedEvent {
	out := make([]NormalizedEvent, 0)
	if len(categories) == 0 {
		return out
	}
	want := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		want[c] = struct{}{}
	}
	for _, e := range events {
		if e.Year != year {
			continue
		}
		if _, ok := want[e.Category]; ok {
			out = append(out, e)
		}
	}
	return out
}

// DefaultSelection picks the newest year and every known category.
// It returns the zero Selection for an empty table.
func DefaultSelection(events []NormalizedEvent) Selection {
	years := Years(events)
	if len(years) == 0 {
		return Selection{Categories: []string{}}
	}
	return Selection{Year: years[0], Categories: Categories(events)}
}

// normalizeSelection sorts and deduplicates the category set so equal
// selections render identically.
func normalizeSelection(sel Selection) Selection {
	cats := append([]string{}, sel.Categories...)
	sort.Strings(cats)
	return Selection{Year: sel.Year, Categories: slices.Compact(cats)}
}
