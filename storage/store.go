package storage

import (
	"errors"

	"young-portfolio/model"
)

var (
	ErrWorkNotFound  = errors.New("work record not found")
	ErrEventNotFound = errors.New("event not found")
)

// WorkUpdate is a partial patch; nil fields are left untouched. Tags arrives
// as the admin form's comma-separated string and is split on apply.
type WorkUpdate struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"content,omitempty"`
	Time        *string      `json:"time,omitempty"`
	Color       *string      `json:"color,omitempty"`
	Tags        *string      `json:"tags,omitempty"`
	Event       *model.Event `json:"event,omitempty"`
	Visible     *bool        `json:"visible,omitempty"`
}

// GalleryStore is the persistence boundary for the two work collections.
// Every mutation is a whole-document rewrite; concurrent writers can race,
// which is an accepted limitation of the flat-file design.
type GalleryStore interface {
	// LoadWorks returns the category's works and its event statistics.
	// A missing document reads as an empty collection.
	LoadWorks(cat model.Category) ([]model.Work, map[string]int, error)
	// AppendWorks adds uploaded works and bumps the event statistics for
	// photography uploads.
	AppendWorks(cat model.Category, eventName string, works []model.Work) error
	// UpdateWork patches one record by filename and returns the updated
	// work, or ErrWorkNotFound.
	UpdateWork(cat model.Category, filename string, upd WorkUpdate) (*model.Work, error)
	// DeleteWork removes one record by filename and returns it so the
	// caller can clean up the stored file, or ErrWorkNotFound.
	DeleteWork(cat model.Category, filename string) (*model.Work, error)
	// RenameEvent rewrites the event fields on every work referencing
	// oldName and returns how many it touched, or ErrEventNotFound when
	// none did.
	RenameEvent(cat model.Category, oldName, newName, description, location string) (int, error)
	// ReplaceWorks rewrites a category wholesale; the sync commands use it.
	ReplaceWorks(cat model.Category, works []model.Work, eventStats map[string]int) error
}
