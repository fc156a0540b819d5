// Package gallery holds the pure derivation engines of the portfolio:
// formatting and validation helpers, event inference, the collection filter,
// event grouping, smart-tag generation and the derived-view cache. Nothing
// in this package performs I/O; every function is total over well-formed
// inputs and substitutes fallback values for malformed ones.
package gallery

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// FormatDateShort renders MM/DD.
func FormatDateShort(t time.Time) string {
	return fmt.Sprintf("%02d/%02d", int(t.Month()), t.Day())
}

// FormatDateFull renders the canonical stored form, e.g. "2024 Dec 13".
func FormatDateFull(t time.Time) string {
	return t.Format("2006 Jan 02")
}

// FormatDateKey renders the event-table lookup key, e.g. "2024-12-13".
func FormatDateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatShutterSpeed renders whole seconds as "Ns" and sub-second exposures
// as a rounded "1/Ns" fraction. Non-positive speeds render empty.
func FormatShutterSpeed(speed float64) string {
	if speed <= 0 {
		return ""
	}
	if speed >= 1 {
		return strconv.FormatFloat(speed, 'f', -1, 64) + "s"
	}
	return fmt.Sprintf("1/%ds", int(math.Round(1/speed)))
}

// FormatCameraName joins make and model, special-casing Nikon's verbose
// maker string whose models already carry the brand.
func FormatCameraName(camera, model string) string {
	if camera == "NIKON CORPORATION" {
		if model == "" {
			return "Nikon Camera"
		}
		return model
	}
	return strings.TrimSpace(camera + " " + model)
}

func FormatAperture(aperture float64) string {
	return "f/" + strconv.FormatFloat(aperture, 'f', -1, 64)
}

func FormatFocalLength(focalLength float64) string {
	return strconv.FormatFloat(focalLength, 'f', -1, 64) + "mm"
}

func FormatISO(iso int) string {
	return fmt.Sprintf("ISO %d", iso)
}

// FormatFileSize renders a byte count with a binary unit, two decimals max.
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + " " + units[i]
}

// TruncateText shortens text to maxLength runes, ellipsis included.
func TruncateText(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}

// Capitalize uppercases the first rune and lowercases the rest.
func Capitalize(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// Classification buckets for EXIF values. Each table is ordered by its upper
// bound; the final label catches everything above the last bound.

var focalBuckets = []struct {
	upTo  float64
	label string
}{
	{16, "超廣角"},
	{35, "廣角"},
	{70, "標準"},
	{135, "人像"},
	{300, "望遠"},
}

// CategorizeFocalLength maps a focal length in millimeters to a lens-type
// label.
func CategorizeFocalLength(focalLength float64) string {
	if focalLength <= 0 {
		return "標準"
	}
	for _, b := range focalBuckets {
		if focalLength <= b.upTo {
			return b.label
		}
	}
	return "超望遠"
}

// CategorizeAperture maps an f-number to a depth-of-field label.
func CategorizeAperture(aperture float64) string {
	switch {
	case aperture <= 0:
		return "中等光圈"
	case aperture <= 2.8:
		return "大光圈"
	case aperture <= 5.6:
		return "中等光圈"
	default:
		return "小光圈"
	}
}

// CategorizeISO maps an ISO value to a sensitivity label.
func CategorizeISO(iso int) string {
	switch {
	case iso <= 0:
		return "中等ISO"
	case iso <= 200:
		return "低ISO"
	case iso <= 800:
		return "中等ISO"
	case iso <= 3200:
		return "高ISO"
	default:
		return "極高ISO"
	}
}
