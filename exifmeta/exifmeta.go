// Package exifmeta extracts the shooting parameters the photography
// collection records from image EXIF blocks. Absent or unreadable fields
// stay at zero; the caller treats that as "no metadata", never as an error.
package exifmeta

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Meta is the normalized EXIF subset a photography record keeps.
type Meta struct {
	Make         string
	Model        string
	FocalLength  float64
	Aperture     float64
	ISO          int
	ShutterSpeed float64
	CaptureTime  time.Time
	TimeValid    bool
}

// Extract decodes EXIF from r. An image without an EXIF block returns an
// error; the caller falls back to upload-time defaults.
func Extract(r io.Reader) (Meta, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return Meta{}, fmt.Errorf("decode exif: %w", err)
	}

	var m Meta
	if tag, err := x.Get(exif.Make); err == nil {
		m.Make, _ = tag.StringVal()
	}
	if tag, err := x.Get(exif.Model); err == nil {
		m.Model, _ = tag.StringVal()
	}
	if tag, err := x.Get(exif.FocalLength); err == nil {
		m.FocalLength = ratToFloat(tag.Rat2(0))
	}
	if tag, err := x.Get(exif.FNumber); err == nil {
		m.Aperture = ratToFloat(tag.Rat2(0))
	}
	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		m.ISO, _ = tag.Int(0)
	}
	if tag, err := x.Get(exif.ExposureTime); err == nil {
		m.ShutterSpeed = ratToFloat(tag.Rat2(0))
	}

	// DateTime prefers DateTimeOriginal over the modification time.
	// Years at or below 1900 are camera-default garbage.
	if t, err := x.DateTime(); err == nil && t.Year() > 1900 {
		m.CaptureTime = t
		m.TimeValid = true
	}
	return m, nil
}

// ExtractFile is Extract over a path, for the sync command.
func ExtractFile(path string) (Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return Meta{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Extract(f)
}

func ratToFloat(num, den int64, err error) float64 {
	if err != nil || den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
