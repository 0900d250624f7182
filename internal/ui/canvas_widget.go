//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"fyne.io/fyne/v2"
	fcanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"resizecanvas/internal/canvas"
	"resizecanvas/internal/config"
	"resizecanvas/internal/export"
	"resizecanvas/internal/gesture"
	"resizecanvas/internal/vector"
)

type dragKind uint8

const (
	dragNone dragKind = iota
	dragResize
	dragMove
	dragMarquee
)

// minHandlePx keeps handles grabbable when the surface is drawn small.
const minHandlePx = 6

var backdrop = color.RGBA{R: 30, G: 30, B: 34, A: 255}

// CanvasWidget draws the canvas fitted into its bounds and turns taps and
// drags into selection, resize and move gestures.
type CanvasWidget struct {
	widget.BaseWidget

	cv  *canvas.Canvas
	cfg config.CanvasConfig

	drag     dragKind
	dragFrom vector.Pt
	dragTo   vector.Pt
	hover    vector.Pt
	OnChange func(msg string)
}

// NewCanvasWidget wraps c for display at the size and handle radii of cfg.
func NewCanvasWidget(c *canvas.Canvas, cfg config.CanvasConfig) *CanvasWidget {
	if cfg.Size <= 0 {
		cfg.Size = export.DefaultSize
	}
	cw := &CanvasWidget{cv: c, cfg: cfg}
	cw.ExtendBaseWidget(cw)
	return cw
}

// CreateRenderer stacks the rasterized surface and the marquee outline.
func (cw *CanvasWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := fcanvas.NewRectangle(backdrop)
	img := fcanvas.NewRaster(cw.draw)
	marquee := fcanvas.NewRectangle(color.Transparent)
	marquee.StrokeColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	marquee.StrokeWidth = 1
	marquee.Hide()
	return &canvasRenderer{cw: cw, bg: bg, img: img, marquee: marquee, objects: []fyne.CanvasObject{bg, img, marquee}}
}

func (cw *CanvasWidget) MinSize() fyne.Size { return fyne.NewSize(320, 320) }

// fit returns the screen position of the canvas origin and the screen units
// per canvas unit. The square surface is centered in the widget.
func (cw *CanvasWidget) fit() (ox, oy, scale float32) {
	size := cw.Size()
	side := min(size.Width, size.Height)
	scale = side / float32(cw.cfg.Size)
	return (size.Width - side) / 2, (size.Height - side) / 2, scale
}

func (cw *CanvasWidget) toScreen(p vector.Pt) fyne.Position {
	ox, oy, s := cw.fit()
	return fyne.NewPos(ox+float32(p.X)*s, oy+float32(p.Y)*s)
}

func (cw *CanvasWidget) toCanvas(pos fyne.Position) vector.Pt {
	ox, oy, s := cw.fit()
	if s <= 0 {
		return vector.Pt{}
	}
	return vector.Pt{X: float64((pos.X - ox) / s), Y: float64((pos.Y - oy) / s)}
}

// handleAt hit tests the handles with radii no smaller than minHandlePx on screen.
func (cw *CanvasWidget) handleAt(v canvas.View, p vector.Pt) (gesture.Handle, bool) {
	_, _, s := cw.fit()
	floor := minHandlePx / float64(max(s, 1e-3))
	return v.HandleAt(p, math.Max(cw.cfg.EdgeHandle, floor), math.Max(cw.cfg.CornerHandle, floor*1.2))
}

// SelectAll selects every polygon.
func (cw *CanvasWidget) SelectAll() error {
	polys := cw.cv.Polygons()
	ids := make([]int, len(polys))
	for i, p := range polys {
		ids[i] = p.ID
	}
	return cw.cv.Select(ids)
}

// Tapped selects the top-most polygon under the pointer, or clears the selection.
func (cw *CanvasWidget) Tapped(e *fyne.PointEvent) {
	if cw.drag != dragNone {
		return
	}
	cw.changed(cw.cv.SelectAt(cw.toCanvas(e.Position)), "")
}

// Dragged picks the gesture from where the drag began on its first sample.
func (cw *CanvasWidget) Dragged(e *fyne.DragEvent) {
	cur := cw.toCanvas(e.Position)
	if cw.drag == dragNone {
		from := cw.toCanvas(e.Position.Subtract(e.Dragged))
		cw.begin(from)
	}
	switch cw.drag {
	case dragResize:
		cw.cv.ResizeMove(cur)
	case dragMove:
		cw.cv.MoveMove(cur)
	case dragMarquee:
		cw.dragTo = cur
	}
	cw.changed(nil, "")
}

func (cw *CanvasWidget) begin(from vector.Pt) {
	cw.dragFrom, cw.dragTo = from, from
	v := cw.cv.View()
	if v.HasSelection() {
		if h, ok := cw.handleAt(v, from); ok {
			if err := cw.cv.ResizeStart(h); err != nil {
				cw.changed(err, "")
				return
			}
			cw.drag = dragResize
			return
		}
		if v.Box.Contains(from) {
			if err := cw.cv.MoveStart(from); err != nil {
				cw.changed(err, "")
				return
			}
			cw.drag = dragMove
			return
		}
	}
	cw.drag = dragMarquee
}

// DragEnd finishes the gesture; the canvas commits the pending transform.
func (cw *CanvasWidget) DragEnd() {
	kind := cw.drag
	cw.drag = dragNone
	switch kind {
	case dragResize:
		cw.cv.ResizeEnd()
		cw.changed(nil, "resized")
	case dragMove:
		cw.cv.MoveEnd()
		cw.changed(nil, "moved")
	case dragMarquee:
		cw.changed(cw.cv.SelectInRect(vector.RectFromPoints(cw.dragFrom, cw.dragTo)), "")
	}
}

func (cw *CanvasWidget) MouseIn(e *desktop.MouseEvent)    { cw.hover = cw.toCanvas(e.Position) }
func (cw *CanvasWidget) MouseMoved(e *desktop.MouseEvent) { cw.hover = cw.toCanvas(e.Position) }
func (cw *CanvasWidget) MouseOut()                        {}

// Cursor mirrors the handle under the pointer, or the grabbed one during a resize.
func (cw *CanvasWidget) Cursor() desktop.Cursor {
	v := cw.cv.View()
	h, ok := cw.handleAt(v, cw.hover)
	for _, hv := range v.Handles {
		if hv.Active {
			h, ok = hv.Handle, true
		}
	}
	if !ok {
		if cw.drag == dragMove || (v.HasSelection() && v.Box.Contains(cw.hover)) {
			return desktop.PointerCursor
		}
		return desktop.DefaultCursor
	}
	switch h.Cursor() {
	case "ew-resize":
		return desktop.HResizeCursor
	case "ns-resize":
		return desktop.VResizeCursor
	}
	return desktop.CrosshairCursor
}

func (cw *CanvasWidget) changed(err error, msg string) {
	if err != nil {
		msg = err.Error()
	}
	cw.Refresh()
	if cw.OnChange != nil {
		cw.OnChange(msg)
	}
}

// draw renders the scene into a w x h pixel image, the surface centered on
// the backdrop.
func (cw *CanvasWidget) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: backdrop}, image.Point{}, draw.Src)
	side := min(w, h)
	if side <= 0 {
		return out
	}
	opt := export.Options{
		Size:         cw.cfg.Size,
		Scale:        float64(side) / cw.cfg.Size,
		Chrome:       true,
		EdgeHandle:   cw.cfg.EdgeHandle,
		CornerHandle: cw.cfg.CornerHandle,
		AnchorRadius: cw.cfg.AnchorRadius,
	}
	src := export.Render(export.SceneOf(cw.cv), opt)
	at := image.Pt((w-side)/2, (h-side)/2)
	draw.Draw(out, src.Bounds().Add(at), src, image.Point{}, draw.Src)
	return out
}

type canvasRenderer struct {
	cw      *CanvasWidget
	bg      *fcanvas.Rectangle
	img     *fcanvas.Raster
	marquee *fcanvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *canvasRenderer) Destroy()                     {}
func (r *canvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *canvasRenderer) MinSize() fyne.Size           { return r.cw.MinSize() }

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.img.Resize(size)
	r.img.Move(fyne.NewPos(0, 0))
	if r.cw.drag != dragMarquee {
		r.marquee.Hide()
		return
	}
	m := vector.RectFromPoints(r.cw.dragFrom, r.cw.dragTo)
	p0 := r.cw.toScreen(m.Min())
	p1 := r.cw.toScreen(m.Max())
	r.marquee.Move(p0)
	r.marquee.Resize(fyne.NewSize(p1.X-p0.X, p1.Y-p0.Y))
	r.marquee.Show()
}

func (r *canvasRenderer) Refresh() {
	r.Layout(r.cw.Size())
	r.img.Refresh()
	fcanvas.Refresh(r.cw)
}
