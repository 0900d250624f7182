/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"encoding/json"
	"errors"
	"math"
)

// ErrNoGeometry is returned when a bounding box is requested over no points.
var ErrNoGeometry = errors.New("no geometry")

// Polygon is an immutable closed point sequence with opaque style.
// The zero value is an empty polygon. Transforms return new values and never
// touch the receiver's point slice, so older values stay valid for readers.
type Polygon struct {
	ID    int
	Style Style
	pts   []Pt
}

// NewPolygon copies pts into a new polygon.
func NewPolygon(id int, pts []Pt, st Style) Polygon {
	return Polygon{ID: id, Style: st, pts: append([]Pt(nil), pts...)}
}

// ParsePolygon builds a polygon from its textual point form.
func ParsePolygon(id int, points string, st Style) (Polygon, error) {
	pts, err := ParsePoints(points)
	if err != nil {
		return Polygon{}, err
	}
	return Polygon{ID: id, Style: st, pts: pts}, nil
}

// Points returns a copy of the point sequence.
func (p Polygon) Points() []Pt { return append([]Pt(nil), p.pts...) }

// Len is the number of vertices.
func (p Polygon) Len() int { return len(p.pts) }

// PointsString renders the point sequence as "x,y x,y ...".
func (p Polygon) PointsString() string { return StringifyPoints(p.pts) }

// WithPoints returns a copy of p with a new point sequence.
func (p Polygon) WithPoints(pts []Pt) Polygon {
	return Polygon{ID: p.ID, Style: p.Style, pts: append([]Pt(nil), pts...)}
}

// Map returns a copy of p with f applied to every vertex.
func (p Polygon) Map(f func(Pt) Pt) Polygon {
	out := make([]Pt, len(p.pts))
	for i, v := range p.pts {
		out[i] = f(v)
	}
	return Polygon{ID: p.ID, Style: p.Style, pts: out}
}

// Transform applies an affine matrix to every vertex.
func (p Polygon) Transform(m Affine2D) Polygon { return p.Map(m.Apply) }

// Bounds returns the axis-aligned bounds of the polygon.
func (p Polygon) Bounds() (Rect, error) { return boundsOfPoints(p.pts) }

// Contains reports whether pt is inside the polygon (even-odd rule).
func (p Polygon) Contains(pt Pt) bool {
	n := len(p.pts)
	if n < 3 {
		return false
	}
	in := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.pts[i], p.pts[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < x {
				in = !in
			}
		}
	}
	return in
}

// polygonJSON is the wire form: style fields inline, points as text.
type polygonJSON struct {
	ID     int    `json:"id"`
	Points string `json:"points"`
	Style
}

func (p Polygon) MarshalJSON() ([]byte, error) {
	return json.Marshal(polygonJSON{ID: p.ID, Points: p.PointsString(), Style: p.Style})
}

func (p *Polygon) UnmarshalJSON(b []byte) error {
	var w polygonJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	q, err := ParsePolygon(w.ID, w.Points, w.Style)
	if err != nil {
		return err
	}
	*p = q
	return nil
}

func boundsOfPoints(pts []Pt) (Rect, error) {
	if len(pts) == 0 {
		return Rect{}, ErrNoGeometry
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range pts {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, nil
}

// BoundsOf returns the bounding box of every point of every polygon.
// It fails with ErrNoGeometry when there is nothing to measure.
func BoundsOf(polys []Polygon) (Rect, error) {
	var all []Pt
	for _, p := range polys {
		all = append(all, p.pts...)
	}
	return boundsOfPoints(all)
}

// ToLocal expresses polygons relative to the origin of box.
func ToLocal(polys []Polygon, box Rect) []Polygon {
	return shift(polys, Pt{X: -box.X, Y: -box.Y})
}

// FromLocal is the inverse of ToLocal.
func FromLocal(polys []Polygon, box Rect) []Polygon {
	return shift(polys, Pt{X: box.X, Y: box.Y})
}

func shift(polys []Polygon, d Pt) []Polygon {
	out := make([]Polygon, len(polys))
	for i, p := range polys {
		out[i] = p.Map(func(v Pt) Pt { return v.Add(d) })
	}
	return out
}
