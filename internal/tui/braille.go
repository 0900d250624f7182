/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// brailleBuf is a 2x4 micro-pixel grid per terminal cell. Every cell
// remembers the ink of the last pixel set in it; glyphs override cells.
type brailleBuf struct {
	w, h  int       // in cells
	m     [][]uint8 // per-cell 8-bit mask
	ink   [][]string
	glyph [][]rune
	pen   string
}

func newBrailleBuf(w, h int) *brailleBuf {
	b := &brailleBuf{w: w, h: h}
	b.m = make([][]uint8, h)
	b.ink = make([][]string, h)
	b.glyph = make([][]rune, h)
	for i := range b.m {
		b.m[i] = make([]uint8, w)
		b.ink[i] = make([]string, w)
		b.glyph[i] = make([]rune, w)
	}
	return b
}

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[rx][ry]
	b.ink[cy][cx] = b.pen
}

// drawLineMicro draws a line on the microgrid using Bresenham. With dash > 0
// only alternating runs of dash pixels are set.
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1, dash int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for i := 0; ; i++ {
		if dash <= 0 || (i/dash)%2 == 0 {
			b.setPixel(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fillPolygon fills a ring with the even-odd rule, one micro scanline at a
// time, then strokes its edges.
func (b *brailleBuf) fillPolygon(ring [][2]int) {
	if len(ring) < 3 {
		return
	}
	minY, maxY := ring[0][1], ring[0][1]
	for _, p := range ring {
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}
	minY, maxY = max(minY, 0), min(maxY, b.h*4-1)
	var xs []int
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for i := range ring {
			a, c := ring[i], ring[(i+1)%len(ring)]
			if a[1] == c[1] {
				continue
			}
			if (y >= a[1] && y < c[1]) || (y >= c[1] && y < a[1]) {
				t := float64(y-a[1]) / float64(c[1]-a[1])
				xs = append(xs, int(float64(a[0])+t*float64(c[0]-a[0])))
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(0, xs[i]); x <= xs[i+1]; x++ {
				b.setPixel(x, y)
			}
		}
	}
	for i := range ring {
		a, c := ring[i], ring[(i+1)%len(ring)]
		b.drawLineMicro(a[0], a[1], c[0], c[1], 0)
	}
}

// mark places a glyph over cell (cx, cy).
func (b *brailleBuf) mark(cx, cy int, r rune, ink string) {
	if cx < 0 || cy < 0 || cx >= b.w || cy >= b.h {
		return
	}
	b.glyph[cy][cx] = r
	b.ink[cy][cx] = ink
}

func (b *brailleBuf) at(cx, cy int) rune {
	if g := b.glyph[cy][cx]; g != 0 {
		return g
	}
	if mask := b.m[cy][cx]; mask != 0 {
		return rune(0x2800 + int(mask))
	}
	return ' '
}

// toLines renders the buffer, styling runs of equal ink.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		run := make([]rune, 0, b.w)
		ink := ""
		flush := func() {
			if len(run) > 0 {
				sb.WriteString(inkStyle(ink).Render(string(run)))
				run = run[:0]
			}
		}
		for x := 0; x < b.w; x++ {
			r := b.at(x, y)
			i := b.ink[y][x]
			if r == ' ' {
				i = ""
			}
			if i != ink {
				flush()
				ink = i
			}
			run = append(run, r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}

var inkStyles = map[string]lipgloss.Style{}

func inkStyle(ink string) lipgloss.Style {
	if s, ok := inkStyles[ink]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	if ink != "" {
		s = s.Foreground(lipgloss.Color(ink))
	}
	inkStyles[ink] = s
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
