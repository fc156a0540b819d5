package model

import "strings"

// Event is a named grouping context. Name doubles as the grouping key, so it
// must stay unique within a category. There is no independent event table:
// renaming an event rewrites the field on every work referencing it.
type Event struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// NewEvent trims its inputs; description and location default to empty.
func NewEvent(name, description, location string) Event {
	return Event{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Location:    strings.TrimSpace(location),
	}
}
