/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"encoding/json"
	"errors"
	"testing"

	"resizecanvas/internal/vector"
)

func TestEffectiveHandle(t *testing.T) {
	cases := []struct {
		h    Handle
		f    Flip
		want Handle
	}{
		{Right, Flip{}, Right},
		{Right, Flip{X: true}, Left},
		{Right, Flip{Y: true}, Right},
		{Top, Flip{Y: true}, Bottom},
		{Top, Flip{X: true}, Top},
		{Bottom, Flip{X: true, Y: true}, Top},
		{TopLeft, Flip{X: true}, TopRight},
		{TopLeft, Flip{Y: true}, BottomLeft},
		{TopLeft, Flip{X: true, Y: true}, BottomRight},
		{TopRight, Flip{X: true, Y: true}, BottomLeft},
		{BottomLeft, Flip{Y: true}, TopLeft},
		{BottomRight, Flip{X: true}, BottomLeft},
	}
	for _, c := range cases {
		if got := Effective(c.h, c.f); got != c.want {
			t.Fatalf("Effective(%s, %+v) = %s, want %s", c.h, c.f, got, c.want)
		}
	}
	// Reflecting twice is the identity.
	for _, h := range Handles {
		f := Flip{X: true, Y: true}
		if got := Effective(Effective(h, f), f); got != h {
			t.Fatalf("double reflection of %s = %s", h, got)
		}
	}
}

func TestHandleMetadata(t *testing.T) {
	cursors := map[Handle]string{
		Right: "ew-resize", Left: "ew-resize",
		Top: "ns-resize", Bottom: "ns-resize",
		BottomRight: "nwse-resize", TopLeft: "nwse-resize",
		BottomLeft: "nesw-resize", TopRight: "nesw-resize",
	}
	for h, want := range cursors {
		if got := h.Cursor(); got != want {
			t.Fatalf("%s cursor = %q, want %q", h, got, want)
		}
	}
	corners := 0
	for _, h := range Handles {
		if h.IsCorner() {
			corners++
		}
		if h.Opposite().Opposite() != h {
			t.Fatalf("opposite of opposite of %s", h)
		}
		back, err := ParseHandle(h.String())
		if err != nil || back != h {
			t.Fatalf("ParseHandle(%q) = %v, %v", h.String(), back, err)
		}
	}
	if corners != 4 {
		t.Fatalf("expected 4 corner handles, got %d", corners)
	}
	if Right.Opposite() != Left || TopLeft.Opposite() != BottomRight {
		t.Fatalf("unexpected opposites")
	}
	if _, err := ParseHandle("middle"); err == nil {
		t.Fatalf("expected error for unknown handle")
	}
}

func TestHandleJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		H Handle `json:"h"`
	}{BottomLeft})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"h":"bottom-left"}` {
		t.Fatalf("unexpected json %s", b)
	}
	var v struct {
		H Handle `json:"h"`
	}
	if err := json.Unmarshal([]byte(`{"h":"top-right"}`), &v); err != nil || v.H != TopRight {
		t.Fatalf("unmarshal: %v %v", v.H, err)
	}
}

func TestPositions(t *testing.T) {
	box := vector.R(230, 220, 70, 80)
	pos := Positions(box)
	want := map[Handle]vector.Pt{
		Right:       {X: 300, Y: 260},
		Bottom:      {X: 265, Y: 300},
		Left:        {X: 230, Y: 260},
		Top:         {X: 265, Y: 220},
		BottomRight: {X: 300, Y: 300},
		BottomLeft:  {X: 230, Y: 300},
		TopRight:    {X: 300, Y: 220},
		TopLeft:     {X: 230, Y: 220},
	}
	if len(pos) != 8 {
		t.Fatalf("expected 8 positions, got %d", len(pos))
	}
	for h, p := range want {
		if pos[h] != p {
			t.Fatalf("%s at %+v, want %+v", h, pos[h], p)
		}
	}
}

func TestNoHandle(t *testing.T) {
	var h Handle
	if h != NoHandle || h.Valid() {
		t.Fatalf("zero handle must be NoHandle and invalid")
	}
	if _, err := ParseHandle(""); err == nil {
		t.Fatalf("empty name parsed")
	}
	if Effective(h, Flip{X: true}) != NoHandle || h.Opposite() != NoHandle || h.IsCorner() {
		t.Fatalf("NoHandle must map to itself")
	}
	if err := NewResizer(vector.R(0, 0, 20, 20), 0).Start(h); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Start(NoHandle) = %v", err)
	}
	if _, err := h.MarshalText(); err == nil {
		t.Fatalf("NoHandle marshalled")
	}
}
