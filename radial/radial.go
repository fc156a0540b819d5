// Package radial computes thumbnail positions for the viewer's radial
// navigator: a window of at most seven items fanned out on an arc below the
// selected image, with an eased transition whenever the selection moves.
//
// The geometry functions are pure; Engine holds the only mutable state and
// is driven by a caller-supplied tick (Step receives the current instant),
// so the animation runs under any scheduler, including tests feeding
// synthetic time.
package radial

import (
	"math"
	"time"
)

// Point is a 2D offset from the navigator center, screen-space (y grows
// downward).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WindowItem maps a collection index to its slot inside the visible window.
type WindowItem struct {
	OriginalIndex int
	DisplayIndex  int
}

const (
	maxVisible = 7
	// baseRadius positions a lone thumbnail straight above the center.
	baseRadius = 140
)

// Duration is the wall-clock length of a selection transition.
const Duration = 400 * time.Millisecond

// VisibleWindow picks which items are shown for a selection. Collections of
// at most seven show everything with displayIndex == originalIndex. Larger
// collections show exactly seven items centered on current where possible;
// near the end the window shifts backward instead of shrinking.
func VisibleWindow(total, current int) []WindowItem {
	if total <= 0 {
		return nil
	}
	if total <= maxVisible {
		items := make([]WindowItem, total)
		for i := range items {
			items[i] = WindowItem{OriginalIndex: i, DisplayIndex: i}
		}
		return items
	}

	half := maxVisible / 2
	start := max(0, current-half)
	end := min(total-1, start+maxVisible-1)
	start = max(0, end-maxVisible+1)

	items := make([]WindowItem, 0, maxVisible)
	for i := start; i <= end; i++ {
		items = append(items, WindowItem{OriginalIndex: i, DisplayIndex: i - start})
	}
	return items
}

// breakpoint scales radius and arc span with the visible item count. The
// final branch cannot be reached through VisibleWindow (capped at seven) but
// mirrors the viewer's zoomed-navigator defaults.
func breakpoint(total int) (radius, angleRange float64) {
	switch {
	case total <= 3:
		return 80, 150
	case total <= 5:
		return 110, 200
	case total <= 7:
		return 140, 240
	default:
		return 160, 220
	}
}

// Position computes a visible item's offset on the arc. displayIndex and
// centerDisplayIndex address slots within the window; total is the visible
// count, not the collection size. The arc is centered on the bottom of the
// circle (startAngle 270° minus half the span) so the fan is left-right
// symmetric, and y is negated for screen space.
func Position(displayIndex, centerDisplayIndex, total int) Point {
	if total == 1 {
		return Point{X: 0, Y: -baseRadius}
	}

	order := (displayIndex - centerDisplayIndex + total) % total
	radius, angleRange := breakpoint(total)

	angleStep := angleRange / float64(max(1, total-1))
	startAngle := 270 - angleRange/2
	angle := startAngle + float64(order)*angleStep
	rad := angle * math.Pi / 180

	return Point{
		X: math.Cos(rad) * radius,
		Y: -math.Sin(rad) * radius,
	}
}

func lerp(a, b, k float64) float64 {
	return a + (b-a)*k
}

func easeOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// windowPositions lays out the window around center in steady state.
func windowPositions(total, center int) map[int]Point {
	window := VisibleWindow(total, center)
	centerDisplay := 0
	for _, item := range window {
		if item.OriginalIndex == center {
			centerDisplay = item.DisplayIndex
			break
		}
	}
	pos := make(map[int]Point, len(window))
	for _, item := range window {
		pos[item.OriginalIndex] = Position(item.DisplayIndex, centerDisplay, len(window))
	}
	return pos
}

// Engine animates the navigator for one viewer session. It is single-writer
// by design: the UI thread calls Select and Step, nothing else touches it.
//
// States: Idle (animating == false) and Animating. Select arms a transition
// and is a guarded no-op while one is in flight or when the index is current
// or out of range; requests are dropped, never queued.
type Engine struct {
	total     int
	current   int
	previous  int
	animating bool
	animStart time.Time
	target    int

	// members is the union of the old and new windows, new-window items
	// first; start and targetPos cover every member.
	members   []int
	start     map[int]Point
	targetPos map[int]Point

	pos map[int]Point
}

// NewEngine lays out a collection of n items with item 0 selected.
func NewEngine(n int) *Engine {
	e := &Engine{}
	e.Reset(n, 0)
	return e
}

// Reset replaces the collection size and selection, dropping any transition.
// Used when the viewer opens on a new item list.
func (e *Engine) Reset(n, current int) {
	if n < 0 {
		n = 0
	}
	if current < 0 || current >= n {
		current = 0
	}
	e.total = n
	e.current = current
	e.previous = current
	e.animating = false
	e.members = nil
	e.start = nil
	e.targetPos = nil
	e.recompute()
}

func (e *Engine) Total() int      { return e.total }
func (e *Engine) Current() int    { return e.current }
func (e *Engine) Previous() int   { return e.previous }
func (e *Engine) Animating() bool { return e.animating }

// Window is the visible window for the committed selection.
func (e *Engine) Window() []WindowItem {
	return VisibleWindow(e.total, e.current)
}

// Positions copies the current position map. During a transition it holds
// every member of either window; otherwise only the visible window.
func (e *Engine) Positions() map[int]Point {
	out := make(map[int]Point, len(e.pos))
	for k, v := range e.pos {
		out[k] = v
	}
	return out
}

// Select arms a transition to idx starting at now. It reports whether a
// transition actually started: selecting the current index, an out-of-range
// index, or anything while animating is a dropped no-op.
func (e *Engine) Select(idx int, now time.Time) bool {
	if e.animating || idx == e.current || idx < 0 || idx >= e.total || e.total <= 1 {
		return false
	}

	e.previous = e.current
	e.target = idx
	e.start = windowPositions(e.total, e.current)
	e.targetPos = windowPositions(e.total, idx)

	// Union membership: items appearing only in the new window start at
	// their destination (no fly-in); items leaving hold their start
	// position until the commit drops them.
	e.members = e.members[:0]
	for orig := range e.targetPos {
		e.members = append(e.members, orig)
	}
	for orig := range e.start {
		if _, ok := e.targetPos[orig]; !ok {
			e.members = append(e.members, orig)
			e.targetPos[orig] = e.start[orig]
		}
	}
	for _, orig := range e.members {
		if _, ok := e.start[orig]; !ok {
			e.start[orig] = e.targetPos[orig]
		}
	}

	e.pos = make(map[int]Point, len(e.members))
	for _, orig := range e.members {
		e.pos[orig] = e.start[orig]
	}

	e.animating = true
	e.animStart = now
	return true
}

// Step advances the transition to the instant now and reports whether the
// engine is still animating afterwards. Progress is wall-clock elapsed over
// the fixed duration, eased quadratically; the position map is rebuilt from
// scratch each call so no stale member survives. Reaching t=1 commits the
// selection and recomputes the steady-state layout for the new center.
func (e *Engine) Step(now time.Time) bool {
	if !e.animating {
		return false
	}

	t := now.Sub(e.animStart).Seconds() / Duration.Seconds()
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	k := easeOutQuad(t)

	pos := make(map[int]Point, len(e.members))
	for _, orig := range e.members {
		s, d := e.start[orig], e.targetPos[orig]
		pos[orig] = Point{X: lerp(s.X, d.X, k), Y: lerp(s.Y, d.Y, k)}
	}
	e.pos = pos

	if t >= 1 {
		e.animating = false
		e.current = e.target
		e.members = nil
		e.start = nil
		e.targetPos = nil
		e.recompute()
		return false
	}
	return true
}

// recompute rebuilds the steady-state position map for the current center.
func (e *Engine) recompute() {
	if e.total == 0 {
		e.pos = map[int]Point{}
		return
	}
	e.pos = windowPositions(e.total, e.current)
}
