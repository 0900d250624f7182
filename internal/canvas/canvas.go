/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package canvas owns a set of polygons, the current selection and the
// resize/move state machines, and bakes each finished gesture into polygon
// geometry exactly once.
//
// A Canvas is not safe for concurrent use. Multi-threaded hosts confine it to
// one goroutine (see package session).
package canvas

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"resizecanvas/internal/gesture"
	applog "resizecanvas/internal/log"
	"resizecanvas/internal/vector"
)

var (
	// ErrEmptySelection is returned by operations that need selected shapes.
	ErrEmptySelection = errors.New("empty selection")
	// ErrUnknownShape is returned when an id names no polygon on the canvas.
	ErrUnknownShape = errors.New("unknown shape")
)

// Options tune a Canvas. The zero value is usable.
type Options struct {
	MinSize float64      // smallest resize width/height; <= 0 means gesture.DefaultMinSize
	Logger  *slog.Logger // nil means the "canvas" component logger
}

// Canvas is the selection and commit engine.
type Canvas struct {
	seed  []vector.Polygon
	polys []vector.Polygon
	index map[int]int // polygon id -> position in polys

	sel []int       // sorted, unique
	box vector.Rect // bounds of the committed selection geometry

	resize *gesture.Resizer
	move   gesture.Mover

	gestureID string
	commits   int
	log       *slog.Logger
}

// New builds a canvas from seed. Polygon ids must be unique; the seed is kept
// for Reset.
func New(seed []vector.Polygon, opts Options) (*Canvas, error) {
	index := make(map[int]int, len(seed))
	for i, p := range seed {
		if _, dup := index[p.ID]; dup {
			return nil, fmt.Errorf("new canvas: duplicate polygon id %d", p.ID)
		}
		index[p.ID] = i
	}
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("canvas")
	}
	c := &Canvas{
		seed:   slices.Clone(seed),
		polys:  slices.Clone(seed),
		index:  index,
		resize: gesture.NewResizer(vector.Rect{}, opts.MinSize),
		log:    l,
	}
	return c, nil
}

// Polygons returns the committed polygons in drawing order.
func (c *Canvas) Polygons() []vector.Polygon { return slices.Clone(c.polys) }

// Polygon looks up a committed polygon by id.
func (c *Canvas) Polygon(id int) (vector.Polygon, bool) {
	i, ok := c.index[id]
	if !ok {
		return vector.Polygon{}, false
	}
	return c.polys[i], true
}

// Selection returns the selected polygon ids in selection order.
func (c *Canvas) Selection() []int { return slices.Clone(c.sel) }

// MinSize is the smallest width or height a resize produces.
func (c *Canvas) MinSize() float64 { return c.resize.MinSize() }

// Commits counts the gestures committed so far.
func (c *Canvas) Commits() int { return c.commits }

// Box is the live selection box: the committed bounds, or the in-progress
// result while a gesture runs.
func (c *Canvas) Box() vector.Rect {
	switch {
	case c.resize.Active():
		return c.resize.Box()
	case c.move.Active():
		tr := c.move.Translation()
		return vector.Rect{X: c.box.X + tr.X, Y: c.box.Y + tr.Y, W: c.box.W, H: c.box.H}
	}
	return c.box
}

// Select replaces the selection. Any in-flight gesture is discarded, not
// committed, and the gesture frame is rebuilt from the new bounding box.
// Duplicates are ignored; Select(nil) clears the selection.
func (c *Canvas) Select(ids []int) error {
	sel := slices.Clone(ids)
	slices.Sort(sel)
	sel = slices.Compact(sel)
	box := vector.Rect{}
	if len(sel) > 0 {
		for _, id := range sel {
			if _, ok := c.index[id]; !ok {
				return fmt.Errorf("select: %w: %d", ErrUnknownShape, id)
			}
		}
		b, err := vector.BoundsOf(c.pick(sel))
		if err != nil {
			return fmt.Errorf("select %v: %w", sel, err)
		}
		box = b
	}
	if c.discard() {
		c.log.Debug("gesture discarded by selection change")
	}
	c.sel = sel
	c.box = box
	c.resize.Rebase(box)
	c.log.Debug("selection changed", slog.Any("ids", sel), slog.Any("box", box))
	return nil
}

// SelectAt is a click: it selects the topmost polygon under p, or clears the
// selection when p hits nothing.
func (c *Canvas) SelectAt(p vector.Pt) error {
	if id, ok := vector.HitTest(c.polys, p); ok {
		return c.Select([]int{id})
	}
	return c.Select(nil)
}

// SelectInRect is a marquee: it selects every polygon whose bounding box
// intersects r.
func (c *Canvas) SelectInRect(r vector.Rect) error {
	return c.Select(vector.Intersecting(c.polys, r))
}

// ClearSelection is Select(nil).
func (c *Canvas) ClearSelection() { _ = c.Select(nil) }

// IsSelected reports whether id is part of the selection.
func (c *Canvas) IsSelected(id int) bool {
	_, ok := slices.BinarySearch(c.sel, id)
	return ok
}

func (c *Canvas) pick(ids []int) []vector.Polygon {
	out := make([]vector.Polygon, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.polys[c.index[id]])
	}
	return out
}

func (c *Canvas) selected() []vector.Polygon { return c.pick(c.sel) }

// ResizeStart grabs handle h. A pending gesture of any kind is committed
// first; an invalid handle is rejected before that and changes nothing.
func (c *Canvas) ResizeStart(h gesture.Handle) error {
	if !h.Valid() {
		return fmt.Errorf("resize %s: %w", h, gesture.ErrInvalidHandle)
	}
	c.CommitPending()
	if len(c.sel) == 0 {
		return ErrEmptySelection
	}
	if err := c.resize.Start(h); err != nil {
		return fmt.Errorf("resize %s: %w", h, err)
	}
	c.begin("resize", slog.String("handle", h.String()))
	return nil
}

// ResizeMove feeds a pointer sample to the resize. It reports false for a
// stale sample (no resize in progress).
func (c *Canvas) ResizeMove(p vector.Pt) bool { return c.resize.Move(p) }

// ResizeEnd commits the resize. It reports false when none was in progress.
func (c *Canvas) ResizeEnd() bool {
	t, ok := c.resize.End()
	if !ok {
		return false
	}
	c.apply("resize", t)
	return true
}

// MoveStart begins translating the selection from pointer p. A pending
// gesture of any kind is committed first.
func (c *Canvas) MoveStart(p vector.Pt) error {
	c.CommitPending()
	if len(c.sel) == 0 {
		return ErrEmptySelection
	}
	if !p.IsFinite() {
		return fmt.Errorf("move: %w", vector.ErrNonFinite)
	}
	if err := c.move.Start(p, c.box.Min()); err != nil {
		return fmt.Errorf("move: %w", err)
	}
	c.begin("move", slog.Any("from", p))
	return nil
}

// MoveMove feeds a pointer sample to the move. It reports false for a
// stale sample.
func (c *Canvas) MoveMove(p vector.Pt) bool { return c.move.Move(p) }

// MoveEnd commits the translation. It reports false when no move was in
// progress.
func (c *Canvas) MoveEnd() bool {
	t, ok := c.move.End()
	if !ok {
		return false
	}
	c.apply("move", t)
	return true
}

// Cancel aborts an in-flight gesture without touching geometry, e.g. when
// the host loses pointer capture. It reports whether anything was aborted.
func (c *Canvas) Cancel() bool {
	if !c.discard() {
		return false
	}
	c.resize.Rebase(c.box)
	c.log.Debug("gesture cancelled")
	return true
}

// CommitPending commits whichever gesture is in flight. It runs at the start
// of every new gesture and reports whether it committed anything.
func (c *Canvas) CommitPending() bool {
	switch {
	case c.resize.Active():
		return c.ResizeEnd()
	case c.move.Active():
		return c.MoveEnd()
	}
	return false
}

// Commit bakes any pending transform into the selected polygons. With nothing
// pending it is a no-op, so calling it twice never changes geometry twice.
func (c *Canvas) Commit() error {
	if len(c.sel) == 0 {
		return ErrEmptySelection
	}
	c.CommitPending()
	return nil
}

// Reset restores the seed polygons and clears the selection.
func (c *Canvas) Reset() {
	c.discard()
	c.polys = slices.Clone(c.seed)
	c.sel = nil
	c.box = vector.Rect{}
	c.resize.Rebase(c.box)
	c.log.Info("canvas reset", slog.Int("polygons", len(c.polys)))
}

// Transform is the live transform of the current gesture, identity at the
// selection origin when idle.
func (c *Canvas) Transform() gesture.GroupTransform {
	switch {
	case c.resize.Active():
		return c.resize.Transform()
	case c.move.Active():
		return c.move.Transform()
	}
	return gesture.IdentityAt(c.box.Min())
}

// Group returns the selection as polygons local to the committed selection
// box plus the live transform placing them on the surface.
func (c *Canvas) Group() (vector.Group, bool) {
	if len(c.sel) == 0 {
		return vector.Group{}, false
	}
	return vector.Group{
		Box:       c.box,
		Children:  vector.ToLocal(c.selected(), c.box),
		Transform: c.Transform().Local(),
	}, true
}

func (c *Canvas) begin(kind string, attrs ...any) {
	c.gestureID = uuid.NewString()
	applog.WithGesture(c.log, c.gestureID).Debug(kind+" started", attrs...)
}

// discard drops an in-flight gesture and reports whether there was one.
func (c *Canvas) discard() bool {
	active := c.resize.Active() || c.move.Active()
	c.resize.Cancel()
	c.move.Cancel()
	c.gestureID = ""
	return active
}

// apply maps every selected polygon through t, recomputes the selection box
// from the new geometry and rebases the resizer on it: flip cleared, scale 1.
func (c *Canvas) apply(kind string, t gesture.GroupTransform) {
	if !t.IsIdentity() {
		for _, id := range c.sel {
			i := c.index[id]
			c.polys[i] = c.polys[i].Map(t.Apply)
		}
	}
	if box, err := vector.BoundsOf(c.selected()); err == nil {
		c.box = box
	}
	c.resize.Rebase(c.box)
	c.commits++
	applog.WithGesture(c.log, c.gestureID).Info(kind+" committed",
		slog.Any("ids", c.sel),
		slog.Any("scale", t.Scale),
		slog.Any("translation", t.Translation),
		slog.Any("box", c.box))
	c.gestureID = ""
}
