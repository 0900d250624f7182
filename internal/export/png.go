/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	xvector "golang.org/x/image/vector"

	"resizecanvas/internal/vector"
)

// Render rasterizes s into a new image of Size*Scale pixels square.
func Render(s Scene, opt Options) *image.RGBA {
	opt = opt.withDefaults()
	px := int(math.Round(opt.Size * opt.Scale))
	img := image.NewRGBA(image.Rect(0, 0, px, px))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	r := raster{img: img, scale: opt.Scale}
	rest, selected := s.split()
	for _, p := range append(rest, selected...) {
		pts := p.Points()
		r.fillPath(pts, toRGBA(fillOf(p)))
		if c, w := strokeOf(p); c.A > 0 {
			r.strokePath(pts, w, true, toRGBA(c))
		}
	}

	if opt.Chrome && s.View.HasSelection() {
		b := s.View.Box
		sc := toRGBA(selectionColor)
		r.dashedRect(b, 4, sc)
		for _, h := range s.View.Handles {
			fill := color.RGBA{255, 255, 255, 255}
			if h.Active {
				fill = toRGBA(activeColor)
			}
			rad := handleRadius(opt, h)
			r.fillPath(circle(h.Pos, rad), fill)
			r.strokePath(circle(h.Pos, rad), 1, true, sc)
		}
		r.fillPath(circle(s.View.Anchor, opt.AnchorRadius), toRGBA(anchorColor))
	}
	if opt.Chrome {
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.RGBA{0x33, 0x33, 0x33, 255}),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(6, px-6),
		}
		d.DrawString(Status(s.View))
	}
	return img
}

// PNG encodes the rendering of s.
func PNG(w io.Writer, s Scene, opt Options) error {
	if err := png.Encode(w, Render(s, opt)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func toRGBA(c vector.Color) color.RGBA {
	// image/color wants premultiplied values
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: c.A,
	}
}

type raster struct {
	img   *image.RGBA
	scale float64
}

func (r raster) fillPath(pts []vector.Pt, col color.RGBA) {
	if len(pts) < 3 || col.A == 0 {
		return
	}
	b := r.img.Bounds()
	z := xvector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(r.f(pts[0].X), r.f(pts[0].Y))
	for _, p := range pts[1:] {
		z.LineTo(r.f(p.X), r.f(p.Y))
	}
	z.ClosePath()
	z.Draw(r.img, b, image.NewUniform(col), image.Point{})
}

// strokePath draws every segment as a quad of width w.
func (r raster) strokePath(pts []vector.Pt, w float64, closed bool, col color.RGBA) {
	n := len(pts)
	if n < 2 {
		return
	}
	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		r.segment(pts[i], pts[(i+1)%n], w, col)
	}
}

func (r raster) segment(a, b vector.Pt, w float64, col color.RGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*w/2, dx/l*w/2
	r.fillPath([]vector.Pt{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}, col)
}

func (r raster) dashedRect(b vector.Rect, dash float64, col color.RGBA) {
	corners := []vector.Pt{b.Min(), {X: b.X + b.W, Y: b.Y}, b.Max(), {X: b.X, Y: b.Y + b.H}}
	for i := range corners {
		a, c := corners[i], corners[(i+1)%4]
		l := math.Hypot(c.X-a.X, c.Y-a.Y)
		for t := 0.0; t < l; t += 2 * dash {
			e := math.Min(t+dash, l)
			r.segment(lerp(a, c, t/l), lerp(a, c, e/l), 1, col)
		}
	}
}

func (r raster) f(v float64) float32 { return float32(v * r.scale) }

func lerp(a, b vector.Pt, t float64) vector.Pt {
	return vector.Pt{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

func circle(c vector.Pt, rad float64) []vector.Pt {
	const n = 24
	pts := make([]vector.Pt, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / n
		pts[i] = vector.Pt{X: c.X + rad*math.Cos(a), Y: c.Y + rad*math.Sin(a)}
	}
	return pts
}
