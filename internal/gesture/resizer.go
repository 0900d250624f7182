/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture implements the resize/flip and move state machines that
// turn pointer samples into a transform for the current selection.
package gesture

import (
	"errors"
	"math"

	"resizecanvas/internal/vector"
)

// DefaultMinSize is the smallest width or height a box can be resized to.
const DefaultMinSize = 10.0

// ErrGestureActive is returned when a gesture is started while another one
// is still in progress.
var ErrGestureActive = errors.New("gesture already in progress")

// ErrInvalidHandle is returned by Start for a value outside the eight handles.
var ErrInvalidHandle = errors.New("invalid handle")

// State of a state machine.
type State uint8

const (
	Idle State = iota
	Resizing
	Moving
)

func (s State) String() string {
	switch s {
	case Resizing:
		return "resizing"
	case Moving:
		return "moving"
	}
	return "idle"
}

// Resizer tracks the fixed anchor, dimensions, base dimensions and flip
// flags of one box. Dimensions are stored as magnitudes; Flip carries the
// orientation.
//
// Anchor is where the top-left corner of the base box currently lands. On
// an unflipped axis that is the visual minimum edge; on a flipped axis it is
// the visual maximum edge.
type Resizer struct {
	minSize float64

	state  State
	handle Handle      // nominal handle for the whole gesture
	start  vector.Rect // box at Start, never modified during the gesture

	anchor vector.Pt
	dims   vector.Size
	base   vector.Size
	flip   Flip
}

// NewResizer returns an idle resizer framed on box. minSize <= 0 selects
// DefaultMinSize.
func NewResizer(box vector.Rect, minSize float64) *Resizer {
	if minSize <= 0 || math.IsNaN(minSize) {
		minSize = DefaultMinSize
	}
	r := &Resizer{minSize: minSize}
	r.Rebase(box)
	return r
}

// Rebase discards any gesture and describes box at scale 1, unflipped.
// A zero (or NaN) dimension is raised to the minimum size so the scale
// denominator is never zero. A thin but non-empty dimension is kept as is:
// the base must match the geometry it scales.
func (r *Resizer) Rebase(box vector.Rect) {
	r.state = Idle
	r.anchor = box.Min()
	r.dims = vector.Size{W: r.extent(box.W), H: r.extent(box.H)}
	r.base = r.dims
	r.flip = Flip{}
	r.start = vector.Rect{X: r.anchor.X, Y: r.anchor.Y, W: r.dims.W, H: r.dims.H}
}

func (r *Resizer) extent(v float64) float64 {
	v = math.Abs(v)
	if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return r.minSize
	}
	return v
}

// MinSize is the smallest width or height a moved axis can take.
func (r *Resizer) MinSize() float64 { return r.minSize }

// State is the current gesture state.
func (r *Resizer) State() State { return r.state }

// Active reports whether a resize is in progress.
func (r *Resizer) Active() bool { return r.state == Resizing }

// Flipped returns the axes mirrored relative to the base box.
func (r *Resizer) Flipped() Flip { return r.flip }

// Anchor is where the base box's top-left corner currently lands.
func (r *Resizer) Anchor() vector.Pt { return r.anchor }

// Dims returns the unsigned live dimensions.
func (r *Resizer) Dims() vector.Size { return r.dims }

// Base returns the dimensions at the last rebase, the scale denominator.
func (r *Resizer) Base() vector.Size { return r.base }

// Handle returns the grabbed handle and whether a resize is in progress.
func (r *Resizer) Handle() (Handle, bool) { return r.handle, r.state == Resizing }

// EffectiveHandle is the handle the grabbed one currently acts as.
func (r *Resizer) EffectiveHandle() (Handle, bool) {
	if r.state != Resizing {
		return 0, false
	}
	return Effective(r.handle, r.flip), true
}

// Scale returns the signed scale factors relative to the base dimensions.
func (r *Resizer) Scale() vector.Pt {
	sx := r.dims.W / r.base.W
	sy := r.dims.H / r.base.H
	if r.flip.X {
		sx = -sx
	}
	if r.flip.Y {
		sy = -sy
	}
	return vector.Pt{X: sx, Y: sy}
}

// Box returns the visual, normalized bounding box.
func (r *Resizer) Box() vector.Rect {
	x, y := r.anchor.X, r.anchor.Y
	if r.flip.X {
		x -= r.dims.W
	}
	if r.flip.Y {
		y -= r.dims.H
	}
	return vector.Rect{X: x, Y: y, W: r.dims.W, H: r.dims.H}
}

// Transform returns the live transform from the base box to the current box.
func (r *Resizer) Transform() GroupTransform {
	return GroupTransform{
		Scale:   r.Scale(),
		Flipped: r.flip,
		Origin:  r.start.Min(),
		Anchor:  r.anchor,
	}
}

// Start begins a resize with handle h. The drag-start frame is captured
// once and used for every subsequent Move.
func (r *Resizer) Start(h Handle) error {
	if r.state != Idle {
		return ErrGestureActive
	}
	if !h.Valid() {
		return ErrInvalidHandle
	}
	r.state = Resizing
	r.handle = h
	r.start = r.Box()
	r.flip = Flip{}
	r.anchor = r.start.Min()
	return nil
}

// Move updates the box for a pointer sample. It reports false, doing
// nothing, when no resize is in progress.
func (r *Resizer) Move(p vector.Pt) bool {
	if r.state != Resizing || !p.IsFinite() {
		return false
	}
	eff := Effective(r.handle, r.flip)
	frame := r.frame()
	res := Transforms[eff](frame.Size(), p, frame.Min(), r.base)

	ex, ey := eff.sides()
	if ex != sideNone {
		r.anchor.X, r.dims.W, r.flip.X = r.resolve(ex, res.AnchorX, res.Width, r.flip.X)
	}
	if ey != sideNone {
		r.anchor.Y, r.dims.H, r.flip.Y = r.resolve(ey, res.AnchorY, res.Height, r.flip.Y)
	}
	return true
}

// frame is the drag-start box reflected about the fixed edge on every
// flipped axis, so that the effective handle evaluated on it describes the
// same fixed edge as the nominal handle on the start box.
func (r *Resizer) frame() vector.Rect {
	f := r.start
	nx, ny := r.handle.sides()
	if r.flip.X {
		f.X = reflect(nx, f.X, f.W)
	}
	if r.flip.Y {
		f.Y = reflect(ny, f.Y, f.H)
	}
	return f
}

func reflect(nominal side, lo, length float64) float64 {
	if nominal == sideMax {
		return lo - length
	}
	return lo + length
}

// resolve turns one axis of a table result into stored state: the fixed
// edge stays put, the magnitude is clamped before it is stored, and a
// negative size toggles the flip.
func (r *Resizer) resolve(eff side, anchor, size float64, flipped bool) (origin, mag float64, flip bool) {
	fixed := anchor
	if eff == sideMin {
		fixed = anchor + size
	}
	// only a negative size toggles the flip; a pointer exactly on the fixed
	// edge keeps the current orientation
	neg := size < 0
	mag = math.Max(r.minSize, math.Abs(size))

	// the box grows towards +axis from the fixed edge for a max-side handle
	// on its own side, or a min-side handle dragged past the fixed edge
	low, high := fixed-mag, fixed
	if (eff == sideMax) != neg {
		low, high = fixed, fixed+mag
	}
	flip = flipped != neg
	if flip {
		return high, mag, flip
	}
	return low, mag, flip
}

// End finishes the resize and returns its transform. The resizer rebases
// onto the resulting box: flip cleared, base equal to the new dimensions.
// ok is false when no resize was in progress.
func (r *Resizer) End() (t GroupTransform, ok bool) {
	if r.state != Resizing {
		return IdentityAt(r.anchor), false
	}
	t = r.Transform()
	r.Rebase(r.Box())
	return t, true
}

// Cancel aborts a resize and restores the drag-start box.
func (r *Resizer) Cancel() {
	if r.state != Resizing {
		return
	}
	r.Rebase(r.start)
}
