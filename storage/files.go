package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"young-portfolio/config"
	"young-portfolio/model"
)

// LocalFileStorage keeps uploaded images on disk under
// <Dir>/<categoryFolder>/<event>/<filename> and generated previews under
// <Dir>/thumbs/ mirroring the same layout.
type LocalFileStorage struct {
	Dir string
	Log *zap.Logger
}

// categoryFolder is the on-disk folder name; the digital collection kept its
// legacy "gallery" folder.
func categoryFolder(cat model.Category) string {
	if cat == model.CategoryPhotography {
		return "photography"
	}
	return "gallery"
}

// RelPath is the stored filename field for an upload: it encodes the
// category folder and event subfolder.
func RelPath(cat model.Category, eventName, filename string) string {
	return categoryFolder(cat) + "/" + eventName + "/" + filename
}

// Save writes an uploaded file and returns its relative path.
func (s *LocalFileStorage) Save(cat model.Category, eventName, filename string, r io.Reader) (string, error) {
	rel := RelPath(cat, eventName, filename)
	abs := filepath.Join(s.Dir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create event dir: %w", err)
	}
	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", rel, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return rel, nil
}

// Abs resolves a stored relative path to the on-disk location.
func (s *LocalFileStorage) Abs(rel string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(rel))
}

func (s *LocalFileStorage) thumbPath(rel string) string {
	return filepath.Join(s.Dir, "thumbs", filepath.FromSlash(rel))
}

// Thumbnail renders a fixed-width preview next to the originals. Failures
// are logged and returned; the full-size image still serves without one.
func (s *LocalFileStorage) Thumbnail(rel string) (string, error) {
	img, err := imaging.Open(s.Abs(rel), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", rel, err)
	}
	thumb := imaging.Resize(img, config.ThumbnailWidth, 0, imaging.Lanczos)

	out := s.thumbPath(rel)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("create thumbs dir: %w", err)
	}
	if err := imaging.Save(thumb, out); err != nil {
		return "", fmt.Errorf("save thumbnail %s: %w", rel, err)
	}
	return out, nil
}

// Remove deletes a stored image and any thumbnail for it. A file that is
// already gone is not an error.
func (s *LocalFileStorage) Remove(rel string) error {
	if err := os.Remove(s.Abs(rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", rel, err)
	}
	if err := os.Remove(s.thumbPath(rel)); err != nil && !os.IsNotExist(err) {
		s.Log.Warn("thumbnail not removed", zap.String("file", rel), zap.Error(err))
	}
	return nil
}
