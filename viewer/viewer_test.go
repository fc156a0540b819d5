package viewer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"young-portfolio/model"
	"young-portfolio/radial"
)

func sessionWith(n int, startID string) (*Session, *time.Time) {
	images := make([]model.Work, n)
	for i := range images {
		images[i] = model.Work{
			ID:       fmt.Sprintf("photography-DSC_%04d", i),
			Filename: fmt.Sprintf("DSC_%04d.jpg", i),
			Category: model.CategoryPhotography,
			Visible:  true,
		}
	}
	s := NewSession(images, startID)
	now := time.Unix(0, 0)
	s.SetClock(func() time.Time { return now })
	return s, &now
}

func TestNewSessionStart(t *testing.T) {
	s, _ := sessionWith(5, "photography-DSC_0003")
	assert.Equal(t, 3, s.CurrentIndex())
	require.NotNil(t, s.Current())
	assert.Equal(t, "DSC_0003.jpg", s.Current().Filename)

	s, _ = sessionWith(5, "missing-id")
	assert.Equal(t, 0, s.CurrentIndex(), "unknown start id falls back to the first item")

	empty := NewSession(nil, "")
	assert.Nil(t, empty.Current())
}

func TestNavigation(t *testing.T) {
	s, now := sessionWith(3, "")
	assert.False(t, s.HasPrevious())
	assert.True(t, s.HasNext())
	assert.False(t, s.Previous())

	require.True(t, s.Next())
	s.Step(now.Add(radial.Duration))
	assert.Equal(t, 1, s.CurrentIndex())
	assert.True(t, s.HasPrevious())

	require.True(t, s.Next())
	s.Step(now.Add(2 * radial.Duration))
	assert.Equal(t, 2, s.CurrentIndex())
	assert.False(t, s.HasNext())
	assert.False(t, s.Next())
}

func TestSelectionRejectedDuringTransition(t *testing.T) {
	s, _ := sessionWith(5, "")
	require.True(t, s.Select(2))
	assert.False(t, s.Select(4))
}

func TestStepResetsTransformOnCompletion(t *testing.T) {
	s, now := sessionWith(4, "")
	s.ZoomIn()
	s.Pan(50, 30)
	require.NotEqual(t, 1.0, s.Scale())

	require.True(t, s.Select(2))
	assert.True(t, s.Step(now.Add(radial.Duration/2)))
	assert.NotEqual(t, 1.0, s.Scale(), "transform survives while animating")

	assert.False(t, s.Step(now.Add(radial.Duration)))
	assert.Equal(t, 1.0, s.Scale())
	x, y := s.Translate()
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestZoomClamps(t *testing.T) {
	s, _ := sessionWith(1, "")

	for i := 0; i < 10; i++ {
		s.ZoomIn()
	}
	assert.Equal(t, 5.0, s.Scale())
	assert.False(t, s.CanZoomIn())

	for i := 0; i < 10; i++ {
		s.ZoomOut()
	}
	assert.Equal(t, 0.5, s.Scale())
	assert.False(t, s.CanZoomOut())
}

func TestZoomOutResetsTranslateAtBaseScale(t *testing.T) {
	s, _ := sessionWith(1, "")
	s.ZoomIn()
	s.Pan(100, 100)
	x, y := s.Translate()
	require.NotZero(t, x)
	require.NotZero(t, y)

	s.ZoomOut()
	x, y = s.Translate()
	assert.Zero(t, x, "dropping to base scale recenters the image")
	assert.Zero(t, y)
}

func TestNavigatorVisibility(t *testing.T) {
	s, _ := sessionWith(1, "")
	assert.False(t, s.NavigatorVisible())

	s.ZoomIn() // 1.5 > 1.2
	assert.True(t, s.NavigatorVisible())

	s.ResetTransform()
	assert.False(t, s.NavigatorVisible())
}

func TestPanScalesByDragSensitivity(t *testing.T) {
	s, _ := sessionWith(1, "")
	s.Pan(100, -50)
	x, y := s.Translate()
	assert.InDelta(t, 40, x, 1e-9)
	assert.InDelta(t, -20, y, 1e-9)
}

func TestToggleFitToScreen(t *testing.T) {
	s, _ := sessionWith(1, "")
	require.True(t, s.FitToScreen())

	s.ToggleFitToScreen()
	assert.False(t, s.FitToScreen())

	s.ZoomIn()
	s.ToggleFitToScreen()
	assert.True(t, s.FitToScreen())
	assert.Equal(t, 1.0, s.Scale(), "re-fitting resets the transform")
}

func TestSelectionLifecycle(t *testing.T) {
	vp := Viewport{
		ContainerWidth: 1000, ContainerHeight: 800,
		ImageLeft: 100, ImageTop: 50, ImageWidth: 800, ImageHeight: 700,
		NaturalWidth: 4000, NaturalHeight: 3000,
	}

	t.Run("drag outside selection mode is ignored", func(t *testing.T) {
		s, _ := sessionWith(1, "")
		s.StartSelection(10, 10)
		s.UpdateSelection(200, 200)
		assert.False(t, s.EndSelection(vp))
	})

	t.Run("tiny selections are discarded", func(t *testing.T) {
		s, _ := sessionWith(1, "")
		s.ToggleSelectionMode()
		s.StartSelection(100, 100)
		s.UpdateSelection(110, 300)
		assert.False(t, s.EndSelection(vp), "width below the minimum")
		assert.Equal(t, 1.0, s.Scale())
	})

	t.Run("selection zooms and leaves selection mode", func(t *testing.T) {
		s, _ := sessionWith(1, "")
		s.ToggleSelectionMode()
		s.StartSelection(400, 300)
		s.UpdateSelection(600, 500)

		rect := s.SelectionRect()
		assert.Equal(t, Rect{X: 400, Y: 300, Width: 200, Height: 200}, rect)

		require.True(t, s.EndSelection(vp))
		assert.Greater(t, s.Scale(), 1.0)
		assert.False(t, s.FitToScreen())
		assert.False(t, s.SelectionMode())
	})

	t.Run("reverse drag normalizes", func(t *testing.T) {
		s, _ := sessionWith(1, "")
		s.ToggleSelectionMode()
		s.StartSelection(600, 500)
		s.UpdateSelection(400, 300)
		assert.Equal(t, Rect{X: 400, Y: 300, Width: 200, Height: 200}, s.SelectionRect())
	})
}

func TestZoomToSelectionScaleClamp(t *testing.T) {
	s, _ := sessionWith(1, "")
	vp := Viewport{
		ContainerWidth: 1000, ContainerHeight: 800,
		ImageLeft: 0, ImageTop: 0, ImageWidth: 1000, ImageHeight: 800,
		NaturalWidth: 1000, NaturalHeight: 800,
	}
	// A sliver of a selection would imply a scale far past the ceiling.
	s.ZoomToSelection(Rect{X: 480, Y: 380, Width: 25, Height: 25}, vp)
	assert.Equal(t, 5.0, s.Scale())
}

func TestZoomToSelectionCenterTranslate(t *testing.T) {
	s, _ := sessionWith(1, "")
	// Image fills the container exactly; selecting the dead center needs
	// no translation.
	vp := Viewport{
		ContainerWidth: 1000, ContainerHeight: 800,
		ImageLeft: 0, ImageTop: 0, ImageWidth: 1000, ImageHeight: 800,
		NaturalWidth: 1000, NaturalHeight: 800,
	}
	s.ZoomToSelection(Rect{X: 400, Y: 300, Width: 200, Height: 200}, vp)
	x, y := s.Translate()
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
}
