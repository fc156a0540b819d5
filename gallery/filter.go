package gallery

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"young-portfolio/model"
)

// Category selector values for FilterState.
const (
	FilterAll         = "all"
	FilterDigital     = string(model.CategoryDigital)
	FilterPhotography = string(model.CategoryPhotography)
)

// FilterState is the session-scoped filter selection. Empty predicate fields
// are no-ops. The zero-ish default comes from DefaultFilterState.
type FilterState struct {
	SelectedCategory string `json:"selectedCategory"`
	SelectedEvent    string `json:"selectedEvent"`
	SearchQuery      string `json:"searchQuery"`
	YearFilter       string `json:"yearFilter"`
}

func DefaultFilterState() FilterState {
	return FilterState{SelectedCategory: FilterAll}
}

// Active reports whether any predicate differs from its default.
func (s FilterState) Active() bool {
	return (s.SelectedCategory != "" && s.SelectedCategory != FilterAll) ||
		s.SelectedEvent != "" ||
		strings.TrimSpace(s.SearchQuery) != "" ||
		s.YearFilter != ""
}

// Fingerprint is a cheap stable serialization used as a cache key component.
func (s FilterState) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%s|%s", s.SelectedCategory, s.SelectedEvent, s.SearchQuery, s.YearFilter)
}

// SortByTimeDesc returns a copy sorted newest first. The sort is stable so
// works sharing a timestamp keep their relative order; works with invalid
// timestamps sort last.
func SortByTimeDesc(items []model.Work) []model.Work {
	out := make([]model.Work, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TimeValid != b.TimeValid {
			return a.TimeValid
		}
		if !a.TimeValid {
			return false
		}
		return a.Time.After(b.Time)
	})
	return out
}

// FilterVisible drops hidden works.
func FilterVisible(items []model.Work) []model.Work {
	out := make([]model.Work, 0, len(items))
	for _, w := range items {
		if w.Visible {
			out = append(out, w)
		}
	}
	return out
}

// FilterByCategory restricts to one category; "all" and "" pass everything.
func FilterByCategory(items []model.Work, category string) []model.Work {
	if category == "" || category == FilterAll {
		return items
	}
	out := make([]model.Work, 0, len(items))
	for _, w := range items {
		if string(w.Category) == category {
			out = append(out, w)
		}
	}
	return out
}

// FilterByEvent restricts to works whose event name matches exactly.
func FilterByEvent(items []model.Work, eventName string) []model.Work {
	if eventName == "" {
		return items
	}
	out := make([]model.Work, 0, len(items))
	for _, w := range items {
		if w.Event != nil && w.Event.Name == eventName {
			out = append(out, w)
		}
	}
	return out
}

// SearchWorks keeps works whose title, description or any tag contains the
// query, case-insensitively. A blank query passes everything.
func SearchWorks(items []model.Work, query string) []model.Work {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]model.Work, 0, len(items))
	for _, w := range items {
		if strings.Contains(strings.ToLower(w.Title), q) ||
			strings.Contains(strings.ToLower(w.Description), q) {
			out = append(out, w)
			continue
		}
		if w.Photo != nil {
			for _, tag := range w.Photo.Tags {
				if strings.Contains(strings.ToLower(tag), q) {
					out = append(out, w)
					break
				}
			}
		}
	}
	return out
}

// FilterByYear keeps works captured in the given four-digit year. Works with
// invalid timestamps never match a year.
func FilterByYear(items []model.Work, year string) []model.Work {
	if year == "" {
		return items
	}
	out := make([]model.Work, 0, len(items))
	for _, w := range items {
		if w.Year() == year {
			out = append(out, w)
		}
	}
	return out
}

// Filter applies the full pipeline in its fixed order: visibility, category,
// event, search, year. The result is always re-sorted newest first.
func Filter(items []model.Work, state FilterState) []model.Work {
	filtered := FilterVisible(items)
	filtered = FilterByCategory(filtered, state.SelectedCategory)
	filtered = FilterByEvent(filtered, state.SelectedEvent)
	filtered = SearchWorks(filtered, state.SearchQuery)
	filtered = FilterByYear(filtered, state.YearFilter)
	return SortByTimeDesc(filtered)
}

// AvailableYears lists the distinct capture years, newest first.
func AvailableYears(items []model.Work) []string {
	seen := map[string]bool{}
	var years []string
	for _, w := range items {
		y := w.Year()
		if y != "" && !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

// EventCount pairs an event name with its member count.
type EventCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var yearInName = regexp.MustCompile(`(\d{4})`)

// AvailableEvents counts the events present in the works matching the
// category selector. Digital results order by embedded year descending (the
// year buckets read like a timeline); everything else orders by name.
func AvailableEvents(items []model.Work, category string) []EventCount {
	counts := map[string]int{}
	var order []string
	for _, w := range FilterByCategory(items, category) {
		if w.Event == nil {
			continue
		}
		if _, ok := counts[w.Event.Name]; !ok {
			order = append(order, w.Event.Name)
		}
		counts[w.Event.Name]++
	}

	events := make([]EventCount, 0, len(order))
	for _, name := range order {
		events = append(events, EventCount{Name: name, Count: counts[name]})
	}

	if category == FilterDigital {
		sort.SliceStable(events, func(i, j int) bool {
			yi, yj := eventYear(events[i].Name), eventYear(events[j].Name)
			if yi != yj {
				return yi > yj
			}
			return events[i].Name < events[j].Name
		})
		return events
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Name < events[j].Name })
	return events
}

func eventYear(name string) int {
	m := yearInName.FindString(name)
	if m == "" {
		return 0
	}
	y, _ := strconv.Atoi(m)
	return y
}

// CategoryStats counts works per category selector.
type CategoryStats struct {
	All         int `json:"all"`
	Digital     int `json:"digital"`
	Photography int `json:"photography"`
}

func CountByCategory(items []model.Work) CategoryStats {
	var s CategoryStats
	for _, w := range items {
		s.All++
		if w.Category == model.CategoryDigital {
			s.Digital++
		} else {
			s.Photography++
		}
	}
	return s
}

// FilterStats summarizes a filter run for the UI.
type FilterStats struct {
	Total      int  `json:"total"`
	Filtered   int  `json:"filtered"`
	IsFiltered bool `json:"isFiltered"`
	Percentage int  `json:"percentage"`
}

func StatsFor(total, filtered int, active bool) FilterStats {
	pct := 0
	if total > 0 {
		pct = int(float64(filtered)/float64(total)*100 + 0.5)
	}
	return FilterStats{Total: total, Filtered: filtered, IsFiltered: active, Percentage: pct}
}
