/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"resizecanvas/internal/canvas"
	applog "resizecanvas/internal/log"
	"resizecanvas/internal/vector"
)

// Target receives replayed events. *canvas.Canvas satisfies it; hosts that
// confine the canvas elsewhere wrap their own dispatch.
type Target interface {
	Dispatch(ev canvas.Event) (bool, error)
	View() canvas.View
}

// Events expands a non-expect step into the canvas events it stands for.
// Resize and move steps need the current view to find the start point.
func Events(st Step, v canvas.View) []canvas.Event {
	switch st.Op {
	case OpSelect:
		return []canvas.Event{{Type: canvas.EventSelect, IDs: st.IDs}}
	case OpClick:
		return []canvas.Event{{Type: canvas.EventSelectAt, Point: st.Point}}
	case OpMarquee:
		return []canvas.Event{{Type: canvas.EventSelectRect, Rect: st.Rect}}
	case OpRelease:
		return []canvas.Event{{Type: canvas.EventResizeEnd}, {Type: canvas.EventMoveEnd}}
	case OpCancel:
		return []canvas.Event{{Type: canvas.EventCancel}}
	case OpCommit:
		return []canvas.Event{{Type: canvas.EventCommit}}
	case OpReset:
		return []canvas.Event{{Type: canvas.EventReset}}
	case OpResize:
		from := v.Box.Center()
		if hv, ok := v.Handle(st.Handle); ok {
			from = hv.Pos
		}
		return drag(st, from, canvas.Event{Type: canvas.EventResizeStart, Handle: st.Handle},
			canvas.EventResizeMove, canvas.EventResizeEnd)
	case OpMove:
		from := v.Box.Center()
		if st.From != nil {
			from = *st.From
		}
		return drag(st, from, canvas.Event{Type: canvas.EventMoveStart, Point: from},
			canvas.EventMoveMove, canvas.EventMoveEnd)
	}
	return nil
}

func drag(st Step, from vector.Pt, start canvas.Event, move, end canvas.EventType) []canvas.Event {
	n := max(st.Samples, 1)
	evs := make([]canvas.Event, 0, n+2)
	evs = append(evs, start)
	for i := 1; i <= n; i++ {
		f := float64(i) / float64(n)
		evs = append(evs, canvas.Event{Type: move, Point: vector.Pt{X: from.X + st.By.X*f, Y: from.Y + st.By.Y*f}})
	}
	if !st.Hold {
		evs = append(evs, canvas.Event{Type: end})
	}
	return evs
}

// Play replays s against t and stops at the first failing step.
func Play(s Script, t Target) error {
	l := applog.WithComponent("script").With(slog.String("script", s.Name))
	for i, st := range s.Steps {
		if st.Op == OpExpect {
			if err := Check(*st.Expect, t.View()); err != nil {
				return Error{Line: st.Line, Message: fmt.Sprintf("step %d: %v", i+1, err)}
			}
			continue
		}
		for _, ev := range Events(st, t.View()) {
			if _, err := t.Dispatch(ev); err != nil {
				return Error{Line: st.Line, Message: fmt.Sprintf("step %d (%s): %v", i+1, ev.Type, err)}
			}
		}
		l.Debug("step played", slog.Int("step", i+1), slog.String("op", string(st.Op)))
	}
	l.Info("script finished", slog.Int("steps", len(s.Steps)))
	return nil
}

// Check compares a view against an expectation.
func Check(ex Expect, v canvas.View) error {
	if ex.Box != nil && !nearRect(*ex.Box, v.Box, ex.Tolerance) {
		return fmt.Errorf("box = %+v, want %+v", v.Box, *ex.Box)
	}
	if ex.Flipped != nil && *ex.Flipped != v.Flipped {
		return fmt.Errorf("flipped = %+v, want %+v", v.Flipped, *ex.Flipped)
	}
	if ex.Selection != nil && !slices.Equal(normalize(*ex.Selection), v.Selection) {
		return fmt.Errorf("selection = %v, want %v", v.Selection, *ex.Selection)
	}
	if ex.State != "" && ex.State != v.State {
		return fmt.Errorf("state = %s, want %s", v.State, ex.State)
	}
	for id, want := range ex.Polygons {
		got, ok := findPolygon(v.Polygons, id)
		if !ok {
			return fmt.Errorf("polygon %d missing", id)
		}
		if got != want {
			return fmt.Errorf("polygon %d = %q, want %q", id, got, want)
		}
	}
	return nil
}

func findPolygon(polys []vector.Polygon, id int) (string, bool) {
	for _, p := range polys {
		if p.ID == id {
			return p.PointsString(), true
		}
	}
	return "", false
}

func normalize(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func nearRect(a, b vector.Rect, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.W-b.W) <= eps && math.Abs(a.H-b.H) <= eps
}
