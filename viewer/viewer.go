// Package viewer models one image-viewer session: the open item list, the
// zoom/pan transform, region-based zoom, and the radial navigator driving
// item selection. A Session is an explicitly constructed object owned by its
// caller; there is no shared module state.
package viewer

import (
	"time"

	"young-portfolio/model"
	"young-portfolio/radial"
)

const (
	minScale = 0.5
	maxScale = 5
	zoomStep = 1.5
	// The navigator minimap shows up once zoomed in past this scale.
	navigatorThreshold = 1.2
	// Selections smaller than this many pixels on either axis are ignored.
	selectionMinSize = 20
	// Region zoom keeps a 20% margin around the selected area.
	selectionPadding       = 0.8
	defaultDragSensitivity = 0.4
)

// Point is a viewer-space coordinate.
type Point struct {
	X, Y float64
}

// Rect is a selection rectangle in container coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Viewport describes the measured layout the zoom math needs: the container,
// the rendered image box inside it, and the image's natural pixel size.
type Viewport struct {
	ContainerWidth  float64
	ContainerHeight float64
	ImageLeft       float64
	ImageTop        float64
	ImageWidth      float64
	ImageHeight     float64
	NaturalWidth    float64
	NaturalHeight   float64
}

// Session is one open viewer over an ordered item list.
type Session struct {
	images []model.Work
	nav    *radial.Engine
	now    func() time.Time

	scale           float64
	translateX      float64
	translateY      float64
	fitToScreen     bool
	dragSensitivity float64
	showNavigator   bool

	selectionMode  bool
	selecting      bool
	selectionStart Point
	selectionEnd   Point
}

// NewSession opens the viewer on images, positioned at the work whose id is
// startID (falling back to the first item).
func NewSession(images []model.Work, startID string) *Session {
	start := 0
	for i, w := range images {
		if w.ID == startID {
			start = i
			break
		}
	}
	s := &Session{
		images:          images,
		nav:             radial.NewEngine(len(images)),
		now:             time.Now,
		scale:           1,
		fitToScreen:     true,
		dragSensitivity: defaultDragSensitivity,
	}
	s.nav.Reset(len(images), start)
	return s
}

// SetClock replaces the time source; tests drive synthetic time through it.
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Session) Nav() *radial.Engine { return s.nav }

func (s *Session) CurrentIndex() int { return s.nav.Current() }

// Current returns the selected work, nil when the list is empty.
func (s *Session) Current() *model.Work {
	idx := s.nav.Current()
	if idx < 0 || idx >= len(s.images) {
		return nil
	}
	return &s.images[idx]
}

func (s *Session) HasPrevious() bool { return s.nav.Current() > 0 }
func (s *Session) HasNext() bool     { return s.nav.Current() < len(s.images)-1 }

// Select starts the radial transition toward idx. Rejected selections
// (out of range, same index, transition in flight) report false.
func (s *Session) Select(idx int) bool {
	return s.nav.Select(idx, s.now())
}

func (s *Session) Previous() bool {
	if !s.HasPrevious() {
		return false
	}
	return s.Select(s.nav.Current() - 1)
}

func (s *Session) Next() bool {
	if !s.HasNext() {
		return false
	}
	return s.Select(s.nav.Current() + 1)
}

// Step advances the navigator animation; the caller invokes it once per
// display refresh while it returns true. Completion resets the zoom
// transform for the newly selected image.
func (s *Session) Step(now time.Time) bool {
	wasAnimating := s.nav.Animating()
	still := s.nav.Step(now)
	if wasAnimating && !still {
		s.ResetTransform()
	}
	return still
}

// Transform accessors.

func (s *Session) Scale() float64                  { return s.scale }
func (s *Session) Translate() (x, y float64)       { return s.translateX, s.translateY }
func (s *Session) FitToScreen() bool               { return s.fitToScreen }
func (s *Session) NavigatorVisible() bool          { return s.showNavigator }
func (s *Session) CanZoomIn() bool                 { return s.scale < maxScale }
func (s *Session) CanZoomOut() bool                { return s.scale > minScale }

func (s *Session) ZoomIn() {
	if !s.CanZoomIn() {
		return
	}
	s.scale = min(s.scale*zoomStep, maxScale)
	s.updateNavigatorVisibility()
}

func (s *Session) ZoomOut() {
	if !s.CanZoomOut() {
		return
	}
	s.scale = max(s.scale/zoomStep, minScale)
	if s.scale <= 1 {
		s.translateX, s.translateY = 0, 0
	}
	s.updateNavigatorVisibility()
}

// Pan shifts the image by a drag delta, scaled down by the drag sensitivity.
func (s *Session) Pan(dx, dy float64) {
	s.translateX += dx * s.dragSensitivity
	s.translateY += dy * s.dragSensitivity
}

func (s *Session) ResetTransform() {
	s.scale = 1
	s.translateX, s.translateY = 0, 0
	s.fitToScreen = true
	s.updateNavigatorVisibility()
}

func (s *Session) ToggleFitToScreen() {
	s.fitToScreen = !s.fitToScreen
	if s.fitToScreen {
		s.ResetTransform()
	}
}

func (s *Session) updateNavigatorVisibility() {
	s.showNavigator = s.scale > navigatorThreshold
}

// Region selection.

func (s *Session) SelectionMode() bool { return s.selectionMode }

func (s *Session) ToggleSelectionMode() {
	s.selectionMode = !s.selectionMode
	if !s.selectionMode {
		s.resetSelection()
	}
}

func (s *Session) resetSelection() {
	s.selecting = false
	s.selectionStart = Point{}
	s.selectionEnd = Point{}
}

func (s *Session) StartSelection(x, y float64) {
	if !s.selectionMode {
		return
	}
	s.selecting = true
	s.selectionStart = Point{X: x, Y: y}
	s.selectionEnd = Point{X: x, Y: y}
}

func (s *Session) UpdateSelection(x, y float64) {
	if !s.selecting {
		return
	}
	s.selectionEnd = Point{X: x, Y: y}
}

// SelectionRect normalizes the drag into an origin-plus-size rectangle.
func (s *Session) SelectionRect() Rect {
	return Rect{
		X:      min(s.selectionStart.X, s.selectionEnd.X),
		Y:      min(s.selectionStart.Y, s.selectionEnd.Y),
		Width:  abs(s.selectionEnd.X - s.selectionStart.X),
		Height: abs(s.selectionEnd.Y - s.selectionStart.Y),
	}
}

// EndSelection finishes the drag and, when the region is large enough,
// zooms to it. Reports whether a zoom happened.
func (s *Session) EndSelection(vp Viewport) bool {
	if !s.selecting {
		return false
	}
	s.selecting = false

	rect := s.SelectionRect()
	if rect.Width < selectionMinSize || rect.Height < selectionMinSize {
		s.resetSelection()
		return false
	}
	s.ZoomToSelection(rect, vp)
	return true
}

// ZoomToSelection scales and translates so the selected region fills the
// container with a margin. The translate is computed against the
// fit-to-screen image size, since the transform is applied from that state.
func (s *Session) ZoomToSelection(rect Rect, vp Viewport) {
	if rect.Width == 0 || rect.Height == 0 {
		return
	}

	containerCenterX := vp.ContainerWidth / 2
	containerCenterY := vp.ContainerHeight / 2

	selectionCenterX := rect.X + rect.Width/2
	selectionCenterY := rect.Y + rect.Height/2

	// Selection center as a 0-1 position on the rendered image.
	relativeX := (selectionCenterX - vp.ImageLeft) / vp.ImageWidth
	relativeY := (selectionCenterY - vp.ImageTop) / vp.ImageHeight

	targetScaleX := vp.ContainerWidth * selectionPadding / rect.Width
	targetScaleY := vp.ContainerHeight * selectionPadding / rect.Height
	finalScale := min(max(min(targetScaleX, targetScaleY), minScale), maxScale)

	containerAspect := vp.ContainerWidth / vp.ContainerHeight
	imageAspect := vp.NaturalWidth / vp.NaturalHeight
	var fitWidth, fitHeight float64
	if imageAspect > containerAspect {
		fitWidth = vp.ContainerWidth
		fitHeight = vp.ContainerWidth / imageAspect
	} else {
		fitWidth = vp.ContainerHeight * imageAspect
		fitHeight = vp.ContainerHeight
	}

	targetPointX := relativeX * fitWidth
	targetPointY := relativeY * fitHeight

	s.translateX = (containerCenterX - targetPointX) / s.dragSensitivity
	s.translateY = (containerCenterY - targetPointY) / s.dragSensitivity
	s.scale = finalScale
	s.fitToScreen = false

	s.resetSelection()
	s.selectionMode = false
	s.updateNavigatorVisibility()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
