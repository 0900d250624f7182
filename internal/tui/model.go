/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tui is a terminal host for the canvas: mouse drags map to the
// resize and move gestures, the surface is drawn in braille.
package tui

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"resizecanvas/internal/canvas"
	"resizecanvas/internal/config"
	"resizecanvas/internal/export"
	applog "resizecanvas/internal/log"
	"resizecanvas/internal/vector"
)

const (
	headerHeight = 1
	footerHeight = 2
	nudgeStep    = 5.0
)

type dragKind uint8

const (
	dragNone dragKind = iota
	dragResize
	dragMove
	dragMarquee
)

// Model is the bubbletea model. The canvas is only touched from Update.
type Model struct {
	cv   *canvas.Canvas
	cfg  config.CanvasConfig
	keys keyMap
	help help.Model
	log  *slog.Logger

	width  int
	height int

	drag        dragKind
	marqueeFrom vector.Pt
	marqueeTo   vector.Pt

	status string
	err    bool
}

// New returns the terminal model driving c.
func New(c *canvas.Canvas, cfg config.CanvasConfig) Model {
	if cfg.Size <= 0 {
		cfg.Size = export.DefaultSize
	}
	return Model{
		cv:     c,
		cfg:    cfg,
		keys:   defaultKeys(),
		help:   help.New(),
		log:    applog.WithComponent("tui"),
		status: "drag a handle to resize, inside the box to move",
	}
}

// Run starts the program on the alternate screen with mouse motion.
func Run(c *canvas.Canvas, cfg config.CanvasConfig) error {
	_, err := tea.NewProgram(New(c, cfg), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

// viewport maps terminal cells to canvas units. Canvas units are square, so
// the surface is fitted into the micro grid keeping its aspect.
type viewport struct {
	oy    int     // first map row
	w, h  int     // map size in cells
	scale float64 // micro pixels per canvas unit
}

func (m Model) viewport() viewport {
	w := max(10, m.width)
	h := max(4, m.height-headerHeight-footerHeight)
	s := math.Min(float64(w*2)/m.cfg.Size, float64(h*4)/m.cfg.Size)
	return viewport{oy: headerHeight, w: w, h: h, scale: s}
}

// toCanvas returns the canvas point under the center of cell (x, y) and
// whether the cell lies on the map.
func (vp viewport) toCanvas(x, y int) (vector.Pt, bool) {
	cy := y - vp.oy
	p := vector.Pt{X: (float64(x*2) + 1) / vp.scale, Y: (float64(cy*4) + 2) / vp.scale}
	return p, x >= 0 && x < vp.w && cy >= 0 && cy < vp.h
}

func (vp viewport) toMicro(p vector.Pt) (int, int) {
	return int(math.Round(p.X * vp.scale)), int(math.Round(p.Y * vp.scale))
}

// toCell is the terminal cell containing p.
func (vp viewport) toCell(p vector.Pt) (int, int) {
	mx, my := vp.toMicro(p)
	return mx / 2, my/4 + vp.oy
}

// cellUnits is the height of one cell in canvas units.
func (vp viewport) cellUnits() float64 { return 4 / vp.scale }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m.key(msg)
	case tea.MouseMsg:
		m.mouse(msg)
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cv.CommitPending()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.SelectAll):
		ids := make([]int, 0)
		for _, p := range m.cv.Polygons() {
			ids = append(ids, p.ID)
		}
		m.report(m.cv.Select(ids), fmt.Sprintf("selected %d shapes", len(ids)))
	case key.Matches(msg, m.keys.Next):
		m.report(m.cv.Select([]int{m.nextID()}), "next shape")
	case key.Matches(msg, m.keys.Cancel):
		m.drag = dragNone
		if m.cv.Cancel() {
			m.report(nil, "gesture cancelled")
		} else {
			m.cv.ClearSelection()
			m.report(nil, "selection cleared")
		}
	case key.Matches(msg, m.keys.Commit):
		m.report(m.cv.Commit(), "committed")
	case key.Matches(msg, m.keys.Reset):
		m.drag = dragNone
		m.cv.Reset()
		m.report(nil, "reset to seed")
	case key.Matches(msg, m.keys.Up):
		m.nudge(0, -nudgeStep)
	case key.Matches(msg, m.keys.Down):
		m.nudge(0, nudgeStep)
	case key.Matches(msg, m.keys.Left):
		m.nudge(-nudgeStep, 0)
	case key.Matches(msg, m.keys.Right):
		m.nudge(nudgeStep, 0)
	}
	return m, nil
}

func (m *Model) mouse(msg tea.MouseMsg) {
	vp := m.viewport()
	p, inside := vp.toCanvas(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return
		}
		m.press(p, vp)
	case tea.MouseActionMotion:
		switch m.drag {
		case dragResize:
			m.cv.ResizeMove(p)
		case dragMove:
			m.cv.MoveMove(p)
		case dragMarquee:
			m.marqueeTo = p
		}
	case tea.MouseActionRelease:
		m.release(p, vp)
	}
}

func (m *Model) press(p vector.Pt, vp viewport) {
	v := m.cv.View()
	if v.HasSelection() {
		edge := math.Max(m.cfg.EdgeHandle, vp.cellUnits())
		corner := math.Max(m.cfg.CornerHandle, vp.cellUnits()*1.2)
		if h, ok := v.HandleAt(p, edge, corner); ok {
			if err := m.cv.ResizeStart(h); err != nil {
				m.report(err, "")
				return
			}
			m.drag = dragResize
			m.report(nil, "resizing from "+h.String())
			return
		}
		if v.Box.Contains(p) {
			if err := m.cv.MoveStart(p); err != nil {
				m.report(err, "")
				return
			}
			m.drag = dragMove
			m.report(nil, "moving")
			return
		}
	}
	m.drag = dragMarquee
	m.marqueeFrom, m.marqueeTo = p, p
}

func (m *Model) release(p vector.Pt, vp viewport) {
	switch m.drag {
	case dragResize:
		m.cv.ResizeMove(p)
		m.cv.ResizeEnd()
		m.report(nil, "resized")
	case dragMove:
		m.cv.MoveMove(p)
		m.cv.MoveEnd()
		m.report(nil, "moved")
	case dragMarquee:
		m.marqueeTo = p
		d := m.marqueeTo.Sub(m.marqueeFrom)
		if math.Hypot(d.X, d.Y) < vp.cellUnits() {
			m.report(m.cv.SelectAt(m.marqueeFrom), fmt.Sprintf("%d selected", len(m.cv.Selection())))
		} else {
			r := vector.RectFromPoints(m.marqueeFrom, m.marqueeTo)
			m.report(m.cv.SelectInRect(r), fmt.Sprintf("%d selected", len(m.cv.Selection())))
		}
	}
	m.drag = dragNone
}

// nudge translates the selection as a complete move gesture.
func (m *Model) nudge(dx, dy float64) {
	if m.drag != dragNone {
		return
	}
	from := m.cv.Box().Center()
	if err := m.cv.MoveStart(from); err != nil {
		m.report(err, "")
		return
	}
	m.cv.MoveMove(from.Add(vector.Pt{X: dx, Y: dy}))
	m.cv.MoveEnd()
	m.report(nil, fmt.Sprintf("nudged %g,%g", dx, dy))
}

// nextID is the id after the first selected one, wrapping around.
func (m Model) nextID() int {
	polys := m.cv.Polygons()
	if len(polys) == 0 {
		return 0
	}
	sel := m.cv.Selection()
	if len(sel) == 0 {
		return polys[0].ID
	}
	i := slices.IndexFunc(polys, func(p vector.Polygon) bool { return p.ID == sel[0] })
	return polys[(i+1)%len(polys)].ID
}

func (m *Model) report(err error, ok string) {
	if err != nil {
		m.status, m.err = err.Error(), true
		m.log.Debug("tui action rejected", slog.Any("err", err))
		return
	}
	m.status, m.err = ok, false
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	vp := m.viewport()
	v := m.cv.View()

	header := titleStyle.Render(" resizecanvas ─ " + v.State + " ")
	header = lipgloss.NewStyle().Width(vp.w).Render(header)

	body := strings.Join(m.render(v, vp), "\n")

	status := dimStyle.Render(" " + export.Status(v) + " ")
	if m.status != "" {
		st := dimStyle
		if m.err {
			st = errStyle
		}
		status += st.Render("│ " + m.status)
	}
	footer := lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keys))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(vp.w).Render(ui)
}

func (m Model) render(v canvas.View, vp viewport) []string {
	br := newBrailleBuf(vp.w, vp.h)
	ring := func(pts []vector.Pt) [][2]int {
		out := make([][2]int, len(pts))
		for i, p := range pts {
			x, y := vp.toMicro(p)
			out[i] = [2]int{x, y}
		}
		return out
	}
	for _, p := range v.Polygons {
		br.pen = p.Style.Fill
		br.fillPolygon(ring(p.Points()))
	}

	rect := func(r vector.Rect, ink string, dash int) {
		br.pen = ink
		c := ring([]vector.Pt{r.Min(), {X: r.X + r.W, Y: r.Y}, r.Max(), {X: r.X, Y: r.Y + r.H}})
		for i := range c {
			a, b := c[i], c[(i+1)%4]
			br.drawLineMicro(a[0], a[1], b[0], b[1], dash)
		}
	}
	if v.HasSelection() {
		rect(v.Box, inkSelection, 2)
		for _, h := range v.Handles {
			cx, cy := vp.toCell(h.Pos)
			g, ink := '▫', inkSelection
			if h.Corner {
				g = '□'
			}
			if h.Active {
				g, ink = '■', inkActive
			}
			br.mark(cx, cy-vp.oy, g, ink)
		}
		ax, ay := vp.toCell(v.Anchor)
		br.mark(ax, ay-vp.oy, '◆', inkAnchor)
	}
	if m.drag == dragMarquee {
		rect(vector.RectFromPoints(m.marqueeFrom, m.marqueeTo), inkMarquee, 1)
	}
	return br.toLines()
}
