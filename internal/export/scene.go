/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders canvas snapshots to SVG, PNG and PDF.
package export

import (
	"fmt"
	"slices"

	"resizecanvas/internal/canvas"
	"resizecanvas/internal/vector"
)

// Surface defaults.
const (
	DefaultSize         = 500.0
	DefaultEdgeHandle   = 6.0
	DefaultCornerHandle = 8.0
	DefaultAnchorRadius = 5.0
)

var (
	selectionColor = vector.Color{R: 0x3b, G: 0x82, B: 0xf6, A: 255}
	anchorColor    = vector.Color{R: 0xef, G: 0x44, B: 0x44, A: 255}
	activeColor    = vector.Color{R: 0xf5, G: 0x9e, B: 0x0b, A: 255}
)

// Options controls what an exporter draws.
//
//nolint:revive // keep fields explicit for clarity
type Options struct {
	Size         float64 // square surface edge in user units
	Scale        float64 // PNG pixels per user unit
	Chrome       bool    // selection box, handles, anchor marker and status line
	EdgeHandle   float64
	CornerHandle float64
	AnchorRadius float64
	Title        string // PDF metadata
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.EdgeHandle <= 0 {
		o.EdgeHandle = DefaultEdgeHandle
	}
	if o.CornerHandle <= 0 {
		o.CornerHandle = DefaultCornerHandle
	}
	if o.AnchorRadius <= 0 {
		o.AnchorRadius = DefaultAnchorRadius
	}
	if o.Title == "" {
		o.Title = "resizecanvas"
	}
	return o
}

// Scene is one frame to render. Group, when present, carries the selected
// polygons in the local frame of the committed box; SVG emits them through
// a single transformed group, the raster exporters flatten it.
type Scene struct {
	View  canvas.View
	Group *vector.Group
}

// SceneOf snapshots c.
func SceneOf(c *canvas.Canvas) Scene {
	s := Scene{View: c.View()}
	if g, ok := c.Group(); ok {
		s.Group = &g
	}
	return s
}

// split returns the unselected polygons in drawing order followed by the
// selected ones in surface coordinates.
func (s Scene) split() (rest, selected []vector.Polygon) {
	for _, p := range s.View.Polygons {
		if slices.Contains(s.View.Selection, p.ID) {
			selected = append(selected, p)
			continue
		}
		rest = append(rest, p)
	}
	if s.Group != nil {
		selected = s.Group.Flatten()
	}
	return rest, selected
}

// Status is the one-line readout drawn under the canvas with Chrome on.
func Status(v canvas.View) string {
	if !v.HasSelection() {
		return fmt.Sprintf("%s  no selection", v.State)
	}
	return fmt.Sprintf("%s  box %g,%g %gx%g  scale %.3g,%.3g  flip x=%t y=%t",
		v.State, round(v.Box.X), round(v.Box.Y), round(v.Box.W), round(v.Box.H),
		v.Scale.X, v.Scale.Y, v.Flipped.X, v.Flipped.Y)
}

func round(v float64) float64 { return vector.FloatRound(v, 2) }

func fillOf(p vector.Polygon) vector.Color {
	return vector.ColorOr(p.Style.Fill, vector.Black)
}

func strokeOf(p vector.Polygon) (vector.Color, float64) {
	w := p.Style.StrokeWidth
	if w <= 0 {
		w = 1
	}
	return vector.ColorOr(p.Style.Stroke, vector.Transparent), w
}

func handleRadius(o Options, h canvas.HandleView) float64 {
	if h.Corner {
		return o.CornerHandle
	}
	return o.EdgeHandle
}
