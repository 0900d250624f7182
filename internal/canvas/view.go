/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"math"

	"resizecanvas/internal/gesture"
	"resizecanvas/internal/vector"
)

// HandleView describes one resize handle for the host.
type HandleView struct {
	Handle      gesture.Handle `json:"handle"`
	Pos         vector.Pt      `json:"pos"`
	Cursor      string         `json:"cursor"`
	Corner      bool           `json:"corner"`
	FixedAnchor bool           `json:"fixedAnchor"` // sits on the resizer anchor
	Active      bool           `json:"active"`      // under the pointer of the running resize
}

// View is a copied snapshot of everything a renderer or status readout
// needs. It shares no mutable state with the Canvas.
type View struct {
	Polygons    []vector.Polygon `json:"polygons"` // live preview, drawing order
	Selection   []int            `json:"selection"`
	Box         vector.Rect      `json:"box"`
	Flipped     gesture.Flip     `json:"flipped"`
	Scale       vector.Pt        `json:"scale"`
	Translation vector.Pt        `json:"translation"`
	Anchor      vector.Pt        `json:"anchor"`
	Dims        vector.Size      `json:"dims"`
	Base        vector.Size      `json:"base"`
	State       string           `json:"state"`
	Handles     []HandleView     `json:"handles,omitempty"`
	Commits     int              `json:"commits"`
}

// HasSelection reports whether the snapshot carries a selection box.
func (v View) HasSelection() bool { return len(v.Selection) > 0 }

// Handle returns the view of h, if handles are shown.
func (v View) Handle(h gesture.Handle) (HandleView, bool) {
	for _, hv := range v.Handles {
		if hv.Handle == h {
			return hv, true
		}
	}
	return HandleView{}, false
}

// HandleAt returns the handle whose hit circle of radius r contains p.
// Corners win over edges, matching their larger radius on screen.
func (v View) HandleAt(p vector.Pt, edgeR, cornerR float64) (gesture.Handle, bool) {
	var best gesture.Handle
	found := false
	for _, hv := range v.Handles {
		r := edgeR
		if hv.Corner {
			r = cornerR
		}
		dx, dy := p.X-hv.Pos.X, p.Y-hv.Pos.Y
		if dx*dx+dy*dy > r*r {
			continue
		}
		if !found || (hv.Corner && !best.IsCorner()) {
			best, found = hv.Handle, true
		}
	}
	return best, found
}

// View snapshots the canvas including the live preview of a running gesture.
func (c *Canvas) View() View {
	t := c.Transform()
	v := View{
		Polygons:    c.Polygons(),
		Selection:   c.Selection(),
		Box:         c.Box(),
		Flipped:     c.resize.Flipped(),
		Scale:       t.Scale,
		Translation: t.Translation,
		Anchor:      c.resize.Anchor(),
		Dims:        c.resize.Dims(),
		Base:        c.resize.Base(),
		State:       c.state().String(),
		Commits:     c.commits,
	}
	if len(c.sel) == 0 {
		return v
	}
	if !t.IsIdentity() {
		for i, p := range v.Polygons {
			if c.IsSelected(p.ID) {
				v.Polygons[i] = p.Map(t.Apply)
			}
		}
	}
	if c.move.Active() {
		v.Anchor = v.Anchor.Add(t.Translation)
	}
	eff, resizing := c.resize.EffectiveHandle()
	v.Handles = make([]HandleView, 0, len(gesture.Handles))
	for _, h := range gesture.Handles {
		pos := h.Position(v.Box)
		v.Handles = append(v.Handles, HandleView{
			Handle:      h,
			Pos:         pos,
			Cursor:      h.Cursor(),
			Corner:      h.IsCorner(),
			FixedAnchor: near(pos, v.Anchor),
			Active:      resizing && h == eff,
		})
	}
	return v
}

// near compares handle positions that went through box arithmetic.
func near(a, b vector.Pt) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func (c *Canvas) state() gesture.State {
	switch {
	case c.resize.Active():
		return gesture.Resizing
	case c.move.Active():
		return gesture.Moving
	}
	return gesture.Idle
}
