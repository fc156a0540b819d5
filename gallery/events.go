package gallery

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"young-portfolio/model"
)

// PredefinedEvents maps capture-date keys (YYYY-MM-DD) to known shoots.
// Extend as new shoots happen.
var PredefinedEvents = map[string]model.Event{
	"2024-12-13": {
		Name:        "2024新北耶誕城",
		Description: "新北市耶誕城燈光秀拍攝",
		Location:    "新北市板橋區",
	},
	"2025-01-17": {
		Name:        "春日街拍",
		Description: "城市日常生活紀錄",
		Location:    "台北市",
	},
	"2025-01-25": {
		Name:        "2025 桃園三本柱",
		Description: "桃園地標建築攝影",
		Location:    "桃園市",
	},
}

// InferEvent synthesizes a deterministic year-bucket event for a work that
// carries no explicit event. It always succeeds.
func InferEvent(captureTime time.Time, category model.Category) model.Event {
	year := captureTime.Year()
	if category == model.CategoryDigital {
		return model.Event{
			Name:        fmt.Sprintf("%d年電繪作品", year),
			Description: fmt.Sprintf("%d年創作的電繪作品集", year),
		}
	}
	return model.Event{
		Name:        fmt.Sprintf("%d年攝影作品", year),
		Description: fmt.Sprintf("%d年拍攝的攝影作品集", year),
	}
}

// stripDigits removes digits from an event name so that only the keyword
// core is compared against filenames.
func stripDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if !unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// sortedEventKeys gives the lookup a deterministic scan order.
func sortedEventKeys(table map[string]model.Event) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FindEventByFilename scans the table for an event whose digit-stripped name
// appears in the filename. Returns nil when nothing matches.
func FindEventByFilename(filename string, table map[string]model.Event) *model.Event {
	for _, key := range sortedEventKeys(table) {
		ev := table[key]
		keyword := stripDigits(ev.Name)
		if keyword != "" && strings.Contains(filename, keyword) {
			return &ev
		}
	}
	return nil
}

// FindEventByDate looks up an exact YYYY-MM-DD key. Returns nil on a miss.
func FindEventByDate(dateKey string, table map[string]model.Event) *model.Event {
	if ev, ok := table[dateKey]; ok {
		return &ev
	}
	return nil
}

// FindEvent resolves an event for a work. A filename-embedded keyword is
// stronger evidence than a same-day coincidence, so the filename match wins.
// A nil result is a normal outcome, not an error.
func FindEvent(dateKey, filename string, table map[string]model.Event) *model.Event {
	if ev := FindEventByFilename(filename, table); ev != nil {
		return ev
	}
	return FindEventByDate(dateKey, table)
}

// FindEventByPath checks every path segment for a known event keyword, e.g.
// images/photography/2024新北耶誕城/DSC_001.jpg.
func FindEventByPath(filepath string, table map[string]model.Event) *model.Event {
	for _, part := range strings.Split(filepath, "/") {
		if ev := FindEventByFilename(part, table); ev != nil {
			return ev
		}
	}
	return nil
}
