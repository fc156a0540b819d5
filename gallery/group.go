package gallery

import (
	"fmt"
	"sort"
	"time"

	"young-portfolio/model"
)

// noEventKey is the sentinel bucket for works without any event identity.
// Event names never collide with it or with the digital year-bucket keys
// because user-facing names are validated and the synthetic keys carry the
// "digital-" prefix.
const noEventKey = "no-event"

// EventGroup is a derived, never-persisted view: one event's members in a
// filtered collection, newest first, with a precomputed time range and the
// latest-activity instant used for inter-group ordering.
type EventGroup struct {
	Key       string       `json:"key"`
	Name      string       `json:"eventName,omitempty"`
	Event     *model.Event `json:"eventInfo,omitempty"`
	Items     []model.Work `json:"images"`
	TimeRange string       `json:"timeRange"`
	Latest    time.Time    `json:"-"`
}

// TimeRange renders a group's span: a single formatted date when every valid
// timestamp coincides, otherwise "min - max". Works with invalid timestamps
// do not contribute; a group with none yields "".
func TimeRange(items []model.Work) string {
	var min, max time.Time
	seen := false
	for _, w := range items {
		if !w.TimeValid {
			continue
		}
		if !seen || w.Time.Before(min) {
			min = w.Time
		}
		if !seen || w.Time.After(max) {
			max = w.Time
		}
		seen = true
	}
	if !seen {
		return ""
	}
	if min.Equal(max) {
		return FormatDateFull(min)
	}
	return FormatDateFull(min) + " - " + FormatDateFull(max)
}

// groupKeyFor picks the bucket identity for one work: its event name when
// present, a synthetic year bucket for dated digital works, else the
// no-event sentinel.
func groupKeyFor(w model.Work) (key, name string) {
	if w.Event != nil {
		return w.Event.Name, w.Event.Name
	}
	if w.Category == model.CategoryDigital && w.TimeValid {
		year := w.Time.Year()
		return fmt.Sprintf("digital-%d", year), fmt.Sprintf("%d年電繪作品", year)
	}
	return noEventKey, ""
}

// Group partitions works into event groups. When no work in the collection
// carries event metadata it returns nil, signalling the consumer to render a
// flat, ungrouped view. Groups order by most recent member first, member
// count breaking ties; members order newest first.
func Group(items []model.Work) []EventGroup {
	hasEvents := false
	for _, w := range items {
		if w.Event != nil {
			hasEvents = true
			break
		}
	}
	if !hasEvents {
		return nil
	}

	byKey := map[string]*EventGroup{}
	var order []string
	for _, w := range items {
		key, name := groupKeyFor(w)
		g, ok := byKey[key]
		if !ok {
			g = &EventGroup{Key: key, Name: name, Event: w.Event}
			byKey[key] = g
			order = append(order, key)
		}
		g.Items = append(g.Items, w)
	}

	groups := make([]EventGroup, 0, len(order))
	for _, key := range order {
		g := byKey[key]
		g.Items = SortByTimeDesc(g.Items)
		g.TimeRange = TimeRange(g.Items)
		for _, w := range g.Items {
			if w.TimeValid && w.Time.After(g.Latest) {
				g.Latest = w.Time
			}
		}
		groups = append(groups, *g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if !groups[i].Latest.Equal(groups[j].Latest) {
			return groups[i].Latest.After(groups[j].Latest)
		}
		return len(groups[i].Items) > len(groups[j].Items)
	})
	return groups
}

// GroupedCount sums the members across groups; with completeness it equals
// the visible item count fed into Group.
func GroupedCount(groups []EventGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Items)
	}
	return n
}
