/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"resizecanvas/internal/canvas"
	"resizecanvas/internal/config"
	applog "resizecanvas/internal/log"
	"resizecanvas/internal/seed"
	"resizecanvas/internal/vector"
)

func newModel(t *testing.T) Model {
	t.Helper()
	c, err := canvas.New(seed.Default(), canvas.Options{Logger: applog.Discard()})
	if err != nil {
		t.Fatalf("canvas.New: %v", err)
	}
	m := New(c, config.Defaults().Canvas)
	m.log = applog.Discard()
	return send(m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func mouse(m Model, action tea.MouseAction, p vector.Pt) Model {
	x, y := m.viewport().toCell(p)
	return send(m, tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

func TestSelectAllKey(t *testing.T) {
	m := send(newModel(t), runes("a"))
	if got := m.cv.Selection(); len(got) != 3 {
		t.Fatalf("selection %v", got)
	}
	out := m.View()
	if !strings.Contains(out, "resizecanvas") || !strings.Contains(out, "◆") {
		t.Fatalf("view lacks header or anchor:\n%s", out)
	}
}

func TestViewportRoundTrip(t *testing.T) {
	vp := newModel(t).viewport()
	for _, p := range []vector.Pt{{X: 0, Y: 0}, {X: 250, Y: 250}, {X: 499, Y: 120}} {
		x, y := vp.toCell(p)
		back, inside := vp.toCanvas(x, y)
		if !inside {
			t.Fatalf("%+v mapped outside the map", p)
		}
		if d := back.Sub(p); d.X*d.X+d.Y*d.Y > vp.cellUnits()*vp.cellUnits() {
			t.Fatalf("%+v came back as %+v", p, back)
		}
	}
	if _, inside := vp.toCanvas(0, 0); inside {
		t.Fatalf("header row must be outside the map")
	}
}

func TestDragHandleResizes(t *testing.T) {
	m := send(newModel(t), runes("a"))
	m = mouse(m, tea.MouseActionPress, vector.Pt{X: 300, Y: 260})
	if m.drag != dragResize {
		t.Fatalf("press on the right handle should start a resize, got %v (%s)", m.drag, m.status)
	}
	m = mouse(m, tea.MouseActionMotion, vector.Pt{X: 340, Y: 260})
	m = mouse(m, tea.MouseActionRelease, vector.Pt{X: 340, Y: 260})
	box := m.cv.Box()
	if box.X != 230 || box.W <= 100 || box.H != 80 {
		t.Fatalf("unexpected box after resize %+v", box)
	}
	if m.cv.Commits() != 1 || m.drag != dragNone {
		t.Fatalf("expected one commit, got %d", m.cv.Commits())
	}
}

func TestDragInsideMoves(t *testing.T) {
	m := send(newModel(t), runes("a"))
	m = mouse(m, tea.MouseActionPress, vector.Pt{X: 265, Y: 260})
	if m.drag != dragMove {
		t.Fatalf("press inside the box should start a move, got %v (%s)", m.drag, m.status)
	}
	m = mouse(m, tea.MouseActionMotion, vector.Pt{X: 335, Y: 260})
	m = mouse(m, tea.MouseActionRelease, vector.Pt{X: 335, Y: 260})
	box := m.cv.Box()
	if box.X < 280 || box.W != 70 || box.H != 80 {
		t.Fatalf("unexpected box after move %+v", box)
	}
}

func TestClickEmptyClears(t *testing.T) {
	m := send(newModel(t), runes("a"))
	m = mouse(m, tea.MouseActionPress, vector.Pt{X: 20, Y: 20})
	m = mouse(m, tea.MouseActionRelease, vector.Pt{X: 20, Y: 20})
	if got := m.cv.Selection(); len(got) != 0 {
		t.Fatalf("selection %v", got)
	}
}

func TestMarqueeSelects(t *testing.T) {
	m := newModel(t)
	m = mouse(m, tea.MouseActionPress, vector.Pt{X: 200, Y: 200})
	m = mouse(m, tea.MouseActionMotion, vector.Pt{X: 250, Y: 240})
	if m.drag != dragMarquee || !strings.Contains(m.View(), "resizecanvas") {
		t.Fatalf("expected marquee drag")
	}
	m = mouse(m, tea.MouseActionRelease, vector.Pt{X: 250, Y: 240})
	if got := m.cv.Selection(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("selection %v", got)
	}
}

func TestNudgeAndNext(t *testing.T) {
	m := send(newModel(t), runes("a"))
	m = send(m, tea.KeyMsg{Type: tea.KeyRight})
	if box := m.cv.Box(); box.X != 235 || box.Y != 220 {
		t.Fatalf("box after nudge %+v", box)
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.cv.Selection(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("tab after full selection should pick 1, got %v", got)
	}
}

func TestEscCancelsThenClears(t *testing.T) {
	m := send(newModel(t), runes("a"))
	m = mouse(m, tea.MouseActionPress, vector.Pt{X: 300, Y: 260})
	m = mouse(m, tea.MouseActionMotion, vector.Pt{X: 400, Y: 260})
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if box := m.cv.Box(); box != vector.R(230, 220, 70, 80) {
		t.Fatalf("cancel should restore the box, got %+v", box)
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.cv.Selection()) != 0 {
		t.Fatalf("second esc should clear the selection")
	}
}

func TestBrailleBuf(t *testing.T) {
	b := newBrailleBuf(2, 1)
	b.setPixel(0, 0)
	b.setPixel(3, 3)
	b.setPixel(-1, 2)
	b.setPixel(9, 9)
	lines := b.toLines()
	if want := string([]rune{0x2801, 0x2880}); lines[0] != want {
		t.Fatalf("got %q want %q", lines[0], want)
	}
	b.mark(1, 0, 'x', "")
	if b.at(1, 0) != 'x' {
		t.Fatalf("glyph should override dots")
	}
}
