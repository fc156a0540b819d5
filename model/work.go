package model

import (
	"fmt"
	"strings"
	"time"
)

// Category discriminates the two work collections. Each category is stored in
// its own JSON document and carries its own metadata section on a Work.
type Category string

const (
	CategoryDigital     Category = "digital"
	CategoryPhotography Category = "photography"
)

// ParseCategory accepts the canonical category names plus the legacy
// "gallery" spelling the admin surface and the persisted files use for
// digital works.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "digital", "gallery", "":
		return CategoryDigital, nil
	case "photography":
		return CategoryPhotography, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ListFile is the per-category JSON document name under the data directory.
func (c Category) ListFile() string {
	if c == CategoryPhotography {
		return "photographyList.json"
	}
	return "galleryList.json"
}

func (c Category) Valid() bool {
	return c == CategoryDigital || c == CategoryPhotography
}

// DigitalInfo holds the digital-art-only fields.
type DigitalInfo struct {
	Color string
}

// PhotoInfo holds the photography-only fields. EXIF-derived values may be
// absent, in which case they stay at their zero values.
type PhotoInfo struct {
	Tags         []string
	Camera       string
	Model        string
	FocalLength  float64
	Aperture     float64
	ISO          int
	ShutterSpeed float64
}

// Work is one visual artifact. Category discriminates which of the two
// metadata sections is populated; exactly one of Digital/Photo is non-nil.
// The derivation engines treat works as immutable values: every load from
// the store replaces them wholesale.
type Work struct {
	ID          string
	Filename    string
	Title       string
	Description string
	Category    Category
	Time        time.Time
	// TimeValid is false when the stored timestamp did not parse. Such
	// works sort last in time-ordered views but are never dropped.
	TimeValid bool
	RawTime   string
	Event     *Event
	Visible   bool
	Digital   *DigitalInfo
	Photo     *PhotoInfo
}

// WorkID derives the stable identifier: category plus filename without its
// extension. The same filename always yields the same id across reloads.
func WorkID(c Category, filename string) string {
	name := filename
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return string(c) + "-" + name
}

// Year returns the four-digit year of the work's timestamp, or "" when the
// timestamp is invalid.
func (w Work) Year() string {
	if !w.TimeValid {
		return ""
	}
	return fmt.Sprintf("%04d", w.Time.Year())
}

// timeLayouts are the accepted stored time spellings, most common first.
// The canonical form written by this application is "2006 Jan 02".
var timeLayouts = []string{
	"2006 Jan 02",
	"2006 Jan 2",
	"2006-01-02",
	time.RFC3339,
}

// ParseWorkTime parses a stored timestamp. A failed parse is a normal
// outcome: the caller keeps the work and marks its time invalid.
func ParseWorkTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
