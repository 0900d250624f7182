/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"testing"

	"resizecanvas/internal/vector"
)

func TestTransformTable(t *testing.T) {
	cur := vector.Size{W: 70, H: 80}
	fixed := vector.Pt{X: 230, Y: 220}
	p := vector.Pt{X: 200, Y: 200}
	cases := []struct {
		h    Handle
		want Result
	}{
		{Right, Result{Width: -30, Height: 80, AnchorX: 230, AnchorY: 220}},
		{Bottom, Result{Width: 70, Height: -20, AnchorX: 230, AnchorY: 220}},
		{Left, Result{Width: 100, Height: 80, AnchorX: 200, AnchorY: 220}},
		{Top, Result{Width: 70, Height: 100, AnchorX: 230, AnchorY: 200}},
		{BottomRight, Result{Width: -30, Height: -20, AnchorX: 230, AnchorY: 220}},
		{BottomLeft, Result{Width: 100, Height: -20, AnchorX: 200, AnchorY: 220}},
		{TopRight, Result{Width: -30, Height: 100, AnchorX: 230, AnchorY: 200}},
		{TopLeft, Result{Width: 100, Height: 100, AnchorX: 200, AnchorY: 200}},
	}
	if len(Transforms) != len(Handles) {
		t.Fatalf("table has %d entries, want %d", len(Transforms), len(Handles))
	}
	for _, c := range cases {
		got := Transforms[c.h](cur, p, fixed, cur)
		if got != c.want {
			t.Fatalf("%s: got %+v, want %+v", c.h, got, c.want)
		}
	}
}

func TestTransformTableEdgeInheritsOtherDimension(t *testing.T) {
	cur := vector.Size{W: 33, H: 44}
	fixed := vector.Pt{}
	p := vector.Pt{X: 500, Y: 500}
	if r := Transforms[Right](cur, p, fixed, cur); r.Height != 44 {
		t.Fatalf("right must keep height, got %+v", r)
	}
	if r := Transforms[Top](cur, p, fixed, cur); r.Width != 33 {
		t.Fatalf("top must keep width, got %+v", r)
	}
}
