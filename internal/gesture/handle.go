/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"fmt"
	"strings"

	"resizecanvas/internal/vector"
)

// Handle identifies one of the eight resize affordances on a bounding box.
// The zero value is NoHandle, so an event that omits its handle is rejected
// rather than read as Right.
type Handle int

const (
	NoHandle Handle = iota
	Right
	Bottom
	Left
	Top
	BottomRight
	BottomLeft
	TopRight
	TopLeft
)

// Handles lists every handle in render order.
var Handles = []Handle{Right, Bottom, Left, Top, BottomRight, BottomLeft, TopRight, TopLeft}

var handleNames = [...]string{
	Right:       "right",
	Bottom:      "bottom",
	Left:        "left",
	Top:         "top",
	BottomRight: "bottom-right",
	BottomLeft:  "bottom-left",
	TopRight:    "top-right",
	TopLeft:     "top-left",
}

// Valid reports whether h is one of the eight handles.
func (h Handle) Valid() bool { return h >= Right && h <= TopLeft }

func (h Handle) String() string {
	if !h.Valid() {
		return fmt.Sprintf("handle(%d)", int(h))
	}
	return handleNames[h]
}

// ParseHandle accepts the kebab-case names used by String.
func ParseHandle(s string) (Handle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range handleNames {
		if n != "" && n == s {
			return Handle(i), nil
		}
	}
	return NoHandle, fmt.Errorf("unknown handle %q", s)
}

func (h Handle) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("invalid handle %d", int(h))
	}
	return []byte(h.String()), nil
}

func (h *Handle) UnmarshalText(b []byte) error {
	v, err := ParseHandle(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// side is where a handle sits on one axis.
type side uint8

const (
	sideNone side = iota // axis not affected (edge handles)
	sideMin              // left / top
	sideMax              // right / bottom
)

func (s side) mirror() side {
	switch s {
	case sideMin:
		return sideMax
	case sideMax:
		return sideMin
	}
	return sideNone
}

func (h Handle) sides() (x, y side) {
	switch h {
	case Right:
		return sideMax, sideNone
	case Left:
		return sideMin, sideNone
	case Bottom:
		return sideNone, sideMax
	case Top:
		return sideNone, sideMin
	case BottomRight:
		return sideMax, sideMax
	case BottomLeft:
		return sideMin, sideMax
	case TopRight:
		return sideMax, sideMin
	case TopLeft:
		return sideMin, sideMin
	}
	return sideNone, sideNone
}

func handleFor(x, y side) Handle {
	for _, h := range Handles {
		hx, hy := h.sides()
		if hx == x && hy == y {
			return h
		}
	}
	panic(fmt.Sprintf("gesture: no handle for sides %d/%d", x, y))
}

// IsCorner reports whether the handle resizes both axes.
func (h Handle) IsCorner() bool {
	x, y := h.sides()
	return x != sideNone && y != sideNone
}

// Cursor returns the CSS cursor hint for the handle.
func (h Handle) Cursor() string {
	switch h {
	case Right, Left:
		return "ew-resize"
	case Top, Bottom:
		return "ns-resize"
	case BottomRight, TopLeft:
		return "nwse-resize"
	case BottomLeft, TopRight:
		return "nesw-resize"
	}
	return "default"
}

// Opposite returns the handle across the box centre.
func (h Handle) Opposite() Handle {
	if !h.Valid() {
		return h
	}
	x, y := h.sides()
	return handleFor(x.mirror(), y.mirror())
}

// Flip records which axes are mirrored relative to the gesture base.
type Flip struct {
	X bool `json:"x" yaml:"x"`
	Y bool `json:"y" yaml:"y"`
}

// Effective maps the handle the user grabbed to the one it acts as once the
// box is mirrored: each flipped axis is reflected independently.
func Effective(h Handle, f Flip) Handle {
	if !h.Valid() {
		return h
	}
	x, y := h.sides()
	if f.X {
		x = x.mirror()
	}
	if f.Y {
		y = y.mirror()
	}
	return handleFor(x, y)
}

func coord(s side, lo, length float64) float64 {
	switch s {
	case sideMin:
		return lo
	case sideMax:
		return lo + length
	}
	return lo + length/2
}

// Position returns the canonical handle location on box.
func (h Handle) Position(box vector.Rect) vector.Pt {
	x, y := h.sides()
	return vector.Pt{X: coord(x, box.X, box.W), Y: coord(y, box.Y, box.H)}
}

// Positions returns all eight handle locations for box.
func Positions(box vector.Rect) map[Handle]vector.Pt {
	out := make(map[Handle]vector.Pt, len(Handles))
	for _, h := range Handles {
		out[h] = h.Position(box)
	}
	return out
}
