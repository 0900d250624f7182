/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"resizecanvas/internal/vector"
)

var seedBox = vector.R(230, 220, 70, 80)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func nearRect(a, b vector.Rect) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.W, b.W) && near(a.H, b.H)
}

func TestResizeRightWithinBounds(t *testing.T) {
	r := NewResizer(seedBox, 0)
	if err := r.Start(Right); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !r.Move(vector.Pt{X: 340, Y: 999}) {
		t.Fatalf("Move ignored while resizing")
	}
	if got := r.Box(); got != vector.R(230, 220, 110, 80) {
		t.Fatalf("box = %+v", got)
	}
	if s := r.Scale(); !near(s.X, 110.0/70.0) || s.Y != 1 {
		t.Fatalf("scale = %+v", s)
	}
	if r.Flipped() != (Flip{}) {
		t.Fatalf("unexpected flip %+v", r.Flipped())
	}
}

func TestResizeRightInversionThenRelease(t *testing.T) {
	r := NewResizer(seedBox, 0)
	_ = r.Start(Right)
	r.Move(vector.Pt{X: 200, Y: 260}) // handle at 300 dragged by -100
	if r.Flipped() != (Flip{X: true}) {
		t.Fatalf("flip mid-drag = %+v, want {true false}", r.Flipped())
	}
	if got := r.Box(); got != vector.R(200, 220, 30, 80) {
		t.Fatalf("mirrored box = %+v", got)
	}
	if a := r.Anchor(); a != (vector.Pt{X: 230, Y: 220}) {
		t.Fatalf("anchor drifted to %+v", a)
	}
	if s := r.Scale(); !near(s.X, -30.0/70.0) {
		t.Fatalf("scale.x = %v", s.X)
	}
	tf, ok := r.End()
	if !ok {
		t.Fatalf("End reported no gesture")
	}
	if !tf.Flipped.X || tf.Scale.X >= 0 {
		t.Fatalf("transform lost the flip: %+v", tf)
	}
	if r.Flipped() != (Flip{}) || r.State() != Idle {
		t.Fatalf("after release flip=%+v state=%s", r.Flipped(), r.State())
	}
	if r.Base() != r.Dims() || r.Scale() != (vector.Pt{X: 1, Y: 1}) {
		t.Fatalf("after release base=%+v dims=%+v scale=%+v", r.Base(), r.Dims(), r.Scale())
	}
	if got := r.Box(); got != vector.R(200, 220, 30, 80) {
		t.Fatalf("box after release = %+v", got)
	}
	// The mirrored point mapping: left edge lands on the fixed edge.
	if p := tf.Apply(vector.Pt{X: 230, Y: 220}); !near(p.X, 230) {
		t.Fatalf("origin maps to %+v", p)
	}
	if p := tf.Apply(vector.Pt{X: 300, Y: 220}); !near(p.X, 200) {
		t.Fatalf("far edge maps to %+v", p)
	}
}

func TestResizeUnflipsWhenCrossingBack(t *testing.T) {
	r := NewResizer(seedBox, 0)
	_ = r.Start(Right)
	r.Move(vector.Pt{X: 200})
	r.Move(vector.Pt{X: 350})
	if r.Flipped().X {
		t.Fatalf("expected flip cleared after crossing back")
	}
	if got := r.Box(); got != vector.R(230, 220, 120, 80) {
		t.Fatalf("box = %+v", got)
	}
}

func TestResizeLeftHandle(t *testing.T) {
	r := NewResizer(seedBox, 0)
	_ = r.Start(Left)
	r.Move(vector.Pt{X: 250})
	if got := r.Box(); got != vector.R(250, 220, 50, 80) {
		t.Fatalf("box = %+v", got)
	}
	r.Move(vector.Pt{X: 320})
	if !r.Flipped().X {
		t.Fatalf("expected X flip after crossing the right edge")
	}
	if got := r.Box(); got != vector.R(300, 220, 20, 80) {
		t.Fatalf("flipped box = %+v", got)
	}
	if eff, _ := r.EffectiveHandle(); eff != Right {
		t.Fatalf("effective handle = %s, want right", eff)
	}
	if h, ok := r.Handle(); !ok || h != Left {
		t.Fatalf("nominal handle changed to %s", h)
	}
}

func TestResizeCornerFlipsAxesIndependently(t *testing.T) {
	r := NewResizer(seedBox, 0)
	_ = r.Start(TopLeft)
	r.Move(vector.Pt{X: 320, Y: 250})
	if r.Flipped() != (Flip{X: true}) {
		t.Fatalf("flip after X crossing = %+v", r.Flipped())
	}
	if got := r.Box(); got != vector.R(300, 250, 20, 50) {
		t.Fatalf("box = %+v", got)
	}
	r.Move(vector.Pt{X: 320, Y: 310})
	if r.Flipped() != (Flip{X: true, Y: true}) {
		t.Fatalf("flip after Y crossing = %+v", r.Flipped())
	}
	if got := r.Box(); got != vector.R(300, 300, 20, 10) {
		t.Fatalf("box = %+v", got)
	}
	r.Move(vector.Pt{X: 240, Y: 310})
	if r.Flipped() != (Flip{Y: true}) {
		t.Fatalf("flip after X crossing back = %+v", r.Flipped())
	}
	if got := r.Box(); got != vector.R(240, 300, 60, 10) {
		t.Fatalf("box = %+v", got)
	}
}

func TestResizeMinimumSize(t *testing.T) {
	r := NewResizer(seedBox, 0)
	_ = r.Start(BottomRight)
	r.Move(vector.Pt{X: 233, Y: 224})
	if got := r.Box(); got != vector.R(230, 220, 10, 10) {
		t.Fatalf("clamped box = %+v", got)
	}
	// Crossing by less than the minimum keeps the fixed edge in place.
	r.Move(vector.Pt{X: 228, Y: 224})
	if got := r.Box(); got != vector.R(220, 220, 10, 10) {
		t.Fatalf("clamped flipped box = %+v", got)
	}
	if a := r.Anchor(); a.X != 230 || a.Y != 220 {
		t.Fatalf("anchor drifted to %+v", a)
	}
}

func TestResizeMinimumSizeProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, h := range Handles {
		r := NewResizer(seedBox, 0)
		_ = r.Start(h)
		for i := 0; i < 500; i++ {
			r.Move(vector.Pt{X: rng.Float64()*600 - 50, Y: rng.Float64()*600 - 50})
			d := r.Dims()
			if d.W < DefaultMinSize || d.H < DefaultMinSize {
				t.Fatalf("%s: dims %+v below minimum", h, d)
			}
			if b := r.Box(); b.W < DefaultMinSize || b.H < DefaultMinSize {
				t.Fatalf("%s: box %+v below minimum", h, b)
			}
		}
	}
}

func TestResizeAnchorInvarianceForEdgeHandles(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, h := range []Handle{Right, Bottom} {
		r := NewResizer(seedBox, 0)
		_ = r.Start(h)
		for i := 0; i < 300; i++ {
			r.Move(vector.Pt{X: rng.Float64() * 500, Y: rng.Float64() * 500})
			if a := r.Anchor(); a != seedBox.Min() {
				t.Fatalf("%s: anchor moved to %+v", h, a)
			}
		}
	}
	// Left/top move the anchor on their own axis only.
	r := NewResizer(seedBox, 0)
	_ = r.Start(Left)
	for i := 0; i < 300; i++ {
		r.Move(vector.Pt{X: rng.Float64() * 500, Y: rng.Float64() * 500})
		if a := r.Anchor(); a.Y != seedBox.Y {
			t.Fatalf("left: anchor.y moved to %v", a.Y)
		}
		if d := r.Dims(); d.H != seedBox.H {
			t.Fatalf("left: height changed to %v", d.H)
		}
		// The right edge is fixed.
		b := r.Box()
		if !near(b.X, 300) && !near(b.X+b.W, 300) {
			t.Fatalf("left: fixed edge lost, box %+v", b)
		}
	}
}

func TestResizeIsPathIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, h := range Handles {
		walk := NewResizer(seedBox, 0)
		_ = walk.Start(h)
		for i := 0; i < 200; i++ {
			p := vector.Pt{X: rng.Float64()*500 + 0.5, Y: rng.Float64()*500 + 0.5}
			walk.Move(p)
			direct := NewResizer(seedBox, 0)
			_ = direct.Start(h)
			direct.Move(p)
			if !nearRect(walk.Box(), direct.Box()) || walk.Flipped() != direct.Flipped() {
				t.Fatalf("%s at %+v: walked %+v %+v, direct %+v %+v",
					h, p, walk.Box(), walk.Flipped(), direct.Box(), direct.Flipped())
			}
		}
	}
}

func TestResizeTransformMapsStartBoxOntoLiveBox(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, h := range Handles {
		r := NewResizer(seedBox, 0)
		_ = r.Start(h)
		r.Move(vector.Pt{X: rng.Float64() * 500, Y: rng.Float64() * 500})
		tf := r.Transform()
		a := tf.Apply(seedBox.Min())
		b := tf.Apply(seedBox.Max())
		got := vector.RectFromPoints(a, b)
		if !nearRect(got, r.Box()) {
			t.Fatalf("%s: transformed start box %+v != live box %+v", h, got, r.Box())
		}
		m := tf.Matrix().Apply(seedBox.Max())
		if !near(m.X, b.X) || !near(m.Y, b.Y) {
			t.Fatalf("%s: Matrix and Apply disagree: %+v vs %+v", h, m, b)
		}
	}
}

func TestResizeStaleEvents(t *testing.T) {
	r := NewResizer(seedBox, 0)
	if r.Move(vector.Pt{X: 1, Y: 1}) {
		t.Fatalf("Move while idle must be ignored")
	}
	if _, ok := r.End(); ok {
		t.Fatalf("End while idle must report no gesture")
	}
	if r.Box() != seedBox {
		t.Fatalf("idle events changed the box: %+v", r.Box())
	}
	if err := r.Start(Handle(42)); !errors.Is(err, ErrInvalidHandle) || r.Active() {
		t.Fatalf("Start(42) = %v, active=%v", err, r.Active())
	}
	_ = r.Start(Right)
	if err := r.Start(Left); !errors.Is(err, ErrGestureActive) {
		t.Fatalf("second Start = %v, want ErrGestureActive", err)
	}
	r.End()
	if r.Move(vector.Pt{X: 1000}) {
		t.Fatalf("Move after End must be ignored")
	}
	if r.Move(vector.Pt{X: math.NaN()}) {
		t.Fatalf("NaN pointer must be ignored")
	}
}

func TestResizeCancelRestoresStart(t *testing.T) {
	r := NewResizer(seedBox, 0)
	_ = r.Start(TopRight)
	r.Move(vector.Pt{X: 100, Y: 400})
	r.Cancel()
	if r.Box() != seedBox || r.Flipped() != (Flip{}) || r.Active() {
		t.Fatalf("cancel left box=%+v flip=%+v active=%v", r.Box(), r.Flipped(), r.Active())
	}
}

func TestRebaseCoercesDegenerateBase(t *testing.T) {
	r := NewResizer(vector.R(5, 5, 0, 40), 10)
	if r.Base().W != 10 || r.Dims().W != 10 {
		t.Fatalf("zero width base not coerced: base=%+v dims=%+v", r.Base(), r.Dims())
	}
	_ = r.Start(Right)
	r.Move(vector.Pt{X: 45})
	s := r.Scale()
	if math.IsNaN(s.X) || math.IsInf(s.X, 0) || !near(s.X, 4) {
		t.Fatalf("scale = %+v", s)
	}
}

func TestMover(t *testing.T) {
	var m Mover
	if m.Move(vector.Pt{X: 5}) {
		t.Fatalf("Move while idle must be ignored")
	}
	if err := m.Start(vector.Pt{X: 10, Y: 10}, seedBox.Min()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Start(vector.Pt{}, seedBox.Min()); !errors.Is(err, ErrGestureActive) {
		t.Fatalf("second Start = %v", err)
	}
	m.Move(vector.Pt{X: 60, Y: 40})
	if m.Translation() != (vector.Pt{X: 50, Y: 30}) {
		t.Fatalf("translation = %+v", m.Translation())
	}
	tf, ok := m.End()
	if !ok {
		t.Fatalf("End reported no gesture")
	}
	if p := tf.Apply(vector.Pt{X: 230, Y: 220}); p != (vector.Pt{X: 280, Y: 250}) {
		t.Fatalf("moved point = %+v", p)
	}
	if m.Active() || m.Translation() != (vector.Pt{}) {
		t.Fatalf("mover not reset after End")
	}
}

func TestGroupTransformIdentity(t *testing.T) {
	id := IdentityAt(vector.Pt{X: 3, Y: 4})
	if !id.IsIdentity() {
		t.Fatalf("IdentityAt not identity: %+v", id)
	}
	p := vector.Pt{X: 17, Y: -2}
	if id.Apply(p) != p || id.Matrix().Apply(p) != p {
		t.Fatalf("identity moved point")
	}
}

func TestRebaseKeepsThinBase(t *testing.T) {
	r := NewResizer(vector.R(100, 100, 4, 50), 10)
	if r.Base().W != 4 || r.Box() != vector.R(100, 100, 4, 50) {
		t.Fatalf("thin box not kept: base=%+v box=%+v", r.Base(), r.Box())
	}
	_ = r.Start(Right)
	if r.Box() != vector.R(100, 100, 4, 50) {
		t.Fatalf("box grew at start: %+v", r.Box())
	}
	r.Move(vector.Pt{X: 140, Y: 125})
	if got := r.Box(); got != vector.R(100, 100, 40, 50) {
		t.Fatalf("live box = %+v", got)
	}
	tf, _ := r.End()
	if !near(tf.Scale.X, 10) || tf.Scale.Y != 1 {
		t.Fatalf("scale = %+v, want {10 1}", tf.Scale)
	}
	if p := tf.Apply(vector.Pt{X: 104, Y: 100}); !near(p.X, 140) {
		t.Fatalf("far edge maps to %+v", p)
	}
}

func TestResizePointerOnFixedEdgeKeepsOrientation(t *testing.T) {
	r := NewResizer(seedBox, 0)
	_ = r.Start(Right)
	r.Move(vector.Pt{X: 230})
	if got := r.Box(); got != vector.R(230, 220, 10, 80) || r.Flipped().X {
		t.Fatalf("unflipped on edge: box=%+v flip=%+v", got, r.Flipped())
	}
	r.Move(vector.Pt{X: 200})
	r.Move(vector.Pt{X: 230})
	if got := r.Box(); got != vector.R(220, 220, 10, 80) || !r.Flipped().X {
		t.Fatalf("flipped on edge: box=%+v flip=%+v", got, r.Flipped())
	}
	if a := r.Anchor(); a.X != 230 {
		t.Fatalf("anchor drifted to %+v", a)
	}
}
