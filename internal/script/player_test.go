/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"
	"strings"
	"testing"

	"resizecanvas/internal/canvas"
	"resizecanvas/internal/gesture"
	applog "resizecanvas/internal/log"
	"resizecanvas/internal/seed"
	"resizecanvas/internal/vector"
)

func freshCanvas(t *testing.T) *canvas.Canvas {
	t.Helper()
	c, err := canvas.New(seed.Default(), canvas.Options{Logger: applog.Discard()})
	if err != nil {
		t.Fatalf("canvas.New: %v", err)
	}
	return c
}

func TestBuiltinScenariosPass(t *testing.T) {
	all, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	for _, s := range all {
		t.Run(s.Name, func(t *testing.T) {
			if err := Play(s, freshCanvas(t)); err != nil {
				t.Fatalf("%s: %v", s.Name, err)
			}
		})
	}
}

func TestPlayReportsFailingExpectation(t *testing.T) {
	s := MustParse(`name: wrong
steps:
  - select: [0, 1, 2]
  - expect: {box: [0, 0, 1, 1]}`)
	err := Play(s, freshCanvas(t))
	var se Error
	if !errors.As(err, &se) || se.Line != 4 || !strings.Contains(se.Message, "box") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPlayReportsDispatchError(t *testing.T) {
	s := MustParse("steps:\n  - resize: {handle: right, by: [1, 0]}")
	err := Play(s, freshCanvas(t))
	if err == nil || !strings.Contains(err.Error(), canvas.ErrEmptySelection.Error()) {
		t.Fatalf("expected empty selection failure, got %v", err)
	}
}

func TestEventsExpandDrag(t *testing.T) {
	c := freshCanvas(t)
	if err := c.Select([]int{0, 1, 2}); err != nil {
		t.Fatal(err)
	}
	st := Step{Op: OpResize, Handle: gesture.Right, By: vector.Pt{X: -100}, Samples: 4}
	evs := Events(st, c.View())
	if len(evs) != 6 {
		t.Fatalf("expected start + 4 moves + end, got %d", len(evs))
	}
	if evs[0].Type != canvas.EventResizeStart || evs[5].Type != canvas.EventResizeEnd {
		t.Fatalf("bad framing: %+v", evs)
	}
	if evs[4].Point != (vector.Pt{X: 200, Y: 260}) {
		t.Fatalf("last sample = %+v", evs[4].Point)
	}
	st.Hold = true
	if evs := Events(st, c.View()); evs[len(evs)-1].Type != canvas.EventResizeMove {
		t.Fatalf("hold must not release")
	}
}
