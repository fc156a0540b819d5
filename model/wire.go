package model

import "strconv"

// Wire shapes for the two persisted JSON documents. The digital document
// predates the photography one and carries neither a category marker nor
// event statistics by default, so the two keep separate record types.

type DigitalRecord struct {
	Filename string `json:"filename"`
	Time     string `json:"time"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Color    string `json:"color"`
	Event    *Event `json:"event,omitempty"`
	Visible  *bool  `json:"visible,omitempty"`
}

type PhotoRecord struct {
	Filename     string   `json:"filename"`
	Time         string   `json:"time"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	Event        *Event   `json:"event,omitempty"`
	Camera       string   `json:"camera,omitempty"`
	Model        string   `json:"model,omitempty"`
	FocalLength  float64  `json:"focalLength,omitempty"`
	Aperture     float64  `json:"aperture,omitempty"`
	ISO          int      `json:"iso,omitempty"`
	ShutterSpeed float64  `json:"shutterSpeed,omitempty"`
	Visible      *bool    `json:"visible,omitempty"`
}

type DigitalDocument struct {
	TotalNumber string          `json:"totalNumber"`
	EventStats  map[string]int  `json:"eventStats,omitempty"`
	Img         []DigitalRecord `json:"Img"`
}

type PhotoDocument struct {
	TotalNumber string         `json:"totalNumber"`
	Category    string         `json:"category"`
	EventStats  map[string]int `json:"eventStats"`
	Img         []PhotoRecord  `json:"Img"`
}

func visibleOf(v *bool) bool {
	return v == nil || *v
}

// DecodeDigital turns a stored digital record into the unified work value.
func DecodeDigital(r DigitalRecord) Work {
	t, ok := ParseWorkTime(r.Time)
	return Work{
		ID:          WorkID(CategoryDigital, r.Filename),
		Filename:    r.Filename,
		Title:       r.Title,
		Description: r.Content,
		Category:    CategoryDigital,
		Time:        t,
		TimeValid:   ok,
		RawTime:     r.Time,
		Event:       r.Event,
		Visible:     visibleOf(r.Visible),
		Digital:     &DigitalInfo{Color: r.Color},
	}
}

// DecodePhoto turns a stored photography record into the unified work value.
func DecodePhoto(r PhotoRecord) Work {
	t, ok := ParseWorkTime(r.Time)
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return Work{
		ID:          WorkID(CategoryPhotography, r.Filename),
		Filename:    r.Filename,
		Title:       r.Title,
		Description: r.Content,
		Category:    CategoryPhotography,
		Time:        t,
		TimeValid:   ok,
		RawTime:     r.Time,
		Event:       r.Event,
		Visible:     visibleOf(r.Visible),
		Photo: &PhotoInfo{
			Tags:         tags,
			Camera:       r.Camera,
			Model:        r.Model,
			FocalLength:  r.FocalLength,
			Aperture:     r.Aperture,
			ISO:          r.ISO,
			ShutterSpeed: r.ShutterSpeed,
		},
	}
}

// EncodeDigital is the inverse of DecodeDigital for store rewrites.
func EncodeDigital(w Work) DigitalRecord {
	rec := DigitalRecord{
		Filename: w.Filename,
		Time:     w.RawTime,
		Title:    w.Title,
		Content:  w.Description,
		Event:    w.Event,
	}
	if w.Digital != nil {
		rec.Color = w.Digital.Color
	}
	if !w.Visible {
		v := false
		rec.Visible = &v
	}
	return rec
}

// EncodePhoto is the inverse of DecodePhoto for store rewrites.
func EncodePhoto(w Work) PhotoRecord {
	rec := PhotoRecord{
		Filename: w.Filename,
		Time:     w.RawTime,
		Title:    w.Title,
		Content:  w.Description,
		Event:    w.Event,
	}
	if w.Photo != nil {
		rec.Tags = w.Photo.Tags
		rec.Camera = w.Photo.Camera
		rec.Model = w.Photo.Model
		rec.FocalLength = w.Photo.FocalLength
		rec.Aperture = w.Photo.Aperture
		rec.ISO = w.Photo.ISO
		rec.ShutterSpeed = w.Photo.ShutterSpeed
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if !w.Visible {
		v := false
		rec.Visible = &v
	}
	return rec
}

// Total renders the stored totalNumber field, which the legacy documents
// keep as a string.
func Total(n int) string {
	return strconv.Itoa(n)
}
