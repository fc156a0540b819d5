package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"young-portfolio/config"
	"young-portfolio/gallery"
	"young-portfolio/model"
)

// JSONStore persists each category as one flat JSON document under Dir
// (galleryList.json / photographyList.json). Mutations read the whole
// document, change it in memory and write it back.
type JSONStore struct {
	Dir string
	Log *zap.Logger

	// mu serializes writers within this process only; cross-process
	// writers still race on the underlying file.
	mu sync.Mutex
}

func NewJSONStore(dir string, log *zap.Logger) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &JSONStore{Dir: dir, Log: log}, nil
}

func (s *JSONStore) path(cat model.Category) string {
	return filepath.Join(s.Dir, cat.ListFile())
}

// readCategory decodes a category document into unified works. A missing
// file reads as an empty collection so first upload can bootstrap it.
func (s *JSONStore) readCategory(cat model.Category) ([]model.Work, map[string]int, error) {
	raw, err := os.ReadFile(s.path(cat))
	if os.IsNotExist(err) {
		return nil, map[string]int{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", cat.ListFile(), err)
	}

	if cat == model.CategoryPhotography {
		var doc model.PhotoDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, nil, fmt.Errorf("decode %s: %w", cat.ListFile(), err)
		}
		works := make([]model.Work, 0, len(doc.Img))
		for _, rec := range doc.Img {
			works = append(works, model.DecodePhoto(rec))
		}
		stats := doc.EventStats
		if stats == nil {
			stats = map[string]int{}
		}
		return works, stats, nil
	}

	var doc model.DigitalDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", cat.ListFile(), err)
	}
	works := make([]model.Work, 0, len(doc.Img))
	for _, rec := range doc.Img {
		works = append(works, model.DecodeDigital(rec))
	}
	stats := doc.EventStats
	if stats == nil {
		stats = map[string]int{}
	}
	return works, stats, nil
}

func (s *JSONStore) writeCategory(cat model.Category, works []model.Work, stats map[string]int) error {
	var doc any
	if cat == model.CategoryPhotography {
		recs := make([]model.PhotoRecord, 0, len(works))
		for _, w := range works {
			recs = append(recs, model.EncodePhoto(w))
		}
		if stats == nil {
			stats = map[string]int{}
		}
		doc = model.PhotoDocument{
			TotalNumber: model.Total(len(recs)),
			Category:    string(model.CategoryPhotography),
			EventStats:  stats,
			Img:         recs,
		}
	} else {
		recs := make([]model.DigitalRecord, 0, len(works))
		for _, w := range works {
			recs = append(recs, model.EncodeDigital(w))
		}
		doc = model.DigitalDocument{
			TotalNumber: model.Total(len(recs)),
			EventStats:  stats,
			Img:         recs,
		}
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", cat.ListFile(), err)
	}
	if err := os.WriteFile(s.path(cat), raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", cat.ListFile(), err)
	}
	return nil
}

func (s *JSONStore) LoadWorks(cat model.Category) ([]model.Work, map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCategory(cat)
}

func (s *JSONStore) AppendWorks(cat model.Category, eventName string, works []model.Work) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, stats, err := s.readCategory(cat)
	if err != nil {
		return err
	}
	existing = append(existing, works...)
	if cat == model.CategoryPhotography && eventName != "" {
		stats[eventName] += len(works)
	}
	if err := s.writeCategory(cat, existing, stats); err != nil {
		return err
	}
	s.Log.Info("works appended",
		zap.String("category", string(cat)),
		zap.String("event", eventName),
		zap.Int("count", len(works)),
	)
	return nil
}

func (s *JSONStore) UpdateWork(cat model.Category, filename string, upd WorkUpdate) (*model.Work, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	works, stats, err := s.readCategory(cat)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, w := range works {
		if w.Filename == filename {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrWorkNotFound
	}

	w := works[idx]
	if upd.Title != nil {
		w.Title = *upd.Title
	}
	if upd.Description != nil {
		w.Description = *upd.Description
	}
	if upd.Time != nil {
		w.RawTime = *upd.Time
		w.Time, w.TimeValid = model.ParseWorkTime(*upd.Time)
	}
	if upd.Event != nil {
		ev := *upd.Event
		w.Event = &ev
	}
	if upd.Visible != nil {
		w.Visible = *upd.Visible
	}
	if upd.Color != nil && w.Digital != nil {
		w.Digital.Color = *upd.Color
	}
	if upd.Tags != nil && w.Photo != nil {
		var tags []string
		for _, tag := range strings.Split(*upd.Tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		w.Photo.Tags = tags
	}
	works[idx] = w

	if err := s.writeCategory(cat, works, stats); err != nil {
		return nil, err
	}
	s.Log.Info("work updated", zap.String("category", string(cat)), zap.String("filename", filename))
	return &w, nil
}

func (s *JSONStore) DeleteWork(cat model.Category, filename string) (*model.Work, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	works, stats, err := s.readCategory(cat)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, w := range works {
		if w.Filename == filename {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrWorkNotFound
	}

	removed := works[idx]
	works = append(works[:idx], works[idx+1:]...)

	if cat == model.CategoryPhotography && removed.Event != nil {
		name := removed.Event.Name
		if stats[name] > 0 {
			stats[name]--
		}
		if stats[name] <= 0 {
			delete(stats, name)
		}
	}

	if err := s.writeCategory(cat, works, stats); err != nil {
		return nil, err
	}
	s.Log.Info("work deleted", zap.String("category", string(cat)), zap.String("filename", filename))
	return &removed, nil
}

func (s *JSONStore) RenameEvent(cat model.Category, oldName, newName, description, location string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	works, stats, err := s.readCategory(cat)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i, w := range works {
		if w.Event == nil || w.Event.Name != oldName {
			continue
		}
		works[i].Event = &model.Event{
			Name:        newName,
			Description: description,
			Location:    location,
		}
		updated++
	}
	if updated == 0 {
		return 0, ErrEventNotFound
	}

	if n, ok := stats[oldName]; ok {
		delete(stats, oldName)
		stats[newName] += n
	}

	if err := s.writeCategory(cat, works, stats); err != nil {
		return 0, err
	}
	s.Log.Info("event renamed",
		zap.String("category", string(cat)),
		zap.String("from", oldName),
		zap.String("to", newName),
		zap.Int("updated", updated),
	)
	return updated, nil
}

func (s *JSONStore) ReplaceWorks(cat model.Category, works []model.Work, eventStats map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeCategory(cat, works, eventStats)
}

// SaveFilterState round-trips the session filter selection under a fixed
// key next to the category documents.
func (s *JSONStore) SaveFilterState(state gallery.FilterState) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode filter state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, config.FilterStateFile), raw, 0o644); err != nil {
		return fmt.Errorf("write filter state: %w", err)
	}
	return nil
}

// LoadFilterState reads the persisted filter selection, defaulting when the
// key is absent or unreadable.
func (s *JSONStore) LoadFilterState() gallery.FilterState {
	raw, err := os.ReadFile(filepath.Join(s.Dir, config.FilterStateFile))
	if err != nil {
		return gallery.DefaultFilterState()
	}
	var state gallery.FilterState
	if err := json.Unmarshal(raw, &state); err != nil {
		s.Log.Warn("discarding unreadable filter state", zap.Error(err))
		return gallery.DefaultFilterState()
	}
	if state.SelectedCategory == "" {
		state.SelectedCategory = gallery.FilterAll
	}
	return state
}
