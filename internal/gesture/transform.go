/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import "resizecanvas/internal/vector"

// GroupTransform is the net transform of one gesture relative to the
// selection as it stood when the gesture started.
//
// A point p of the base geometry maps to
//
//	Anchor + Translation + (p - Origin) * Scale
//
// where Origin is the base box top-left and Anchor is where that corner
// lands. Negative scale components encode a flip.
type GroupTransform struct {
	Scale       vector.Pt `json:"scale"`
	Translation vector.Pt `json:"translation"`
	Flipped     Flip      `json:"flipped"`
	Origin      vector.Pt `json:"origin"`
	Anchor      vector.Pt `json:"anchor"`
}

// IdentityAt is the no-op transform for a base box with the given origin.
func IdentityAt(origin vector.Pt) GroupTransform {
	return GroupTransform{Scale: vector.Pt{X: 1, Y: 1}, Origin: origin, Anchor: origin}
}

// IsIdentity reports whether applying t leaves geometry unchanged.
func (t GroupTransform) IsIdentity() bool {
	return t.Scale == (vector.Pt{X: 1, Y: 1}) &&
		t.Translation == (vector.Pt{}) &&
		t.Anchor == t.Origin
}

// Matrix returns Translate(Anchor+Translation) * Scale * Translate(-Origin).
func (t GroupTransform) Matrix() vector.Affine2D {
	to := t.Anchor.Add(t.Translation)
	return vector.Translate(to.X, to.Y).
		Mul(vector.Scale(t.Scale.X, t.Scale.Y)).
		Mul(vector.Translate(-t.Origin.X, -t.Origin.Y))
}

// Apply maps a single point through the transform.
func (t GroupTransform) Apply(p vector.Pt) vector.Pt {
	d := p.Sub(t.Origin)
	return vector.Pt{
		X: t.Anchor.X + t.Translation.X + d.X*t.Scale.X,
		Y: t.Anchor.Y + t.Translation.Y + d.Y*t.Scale.Y,
	}
}

// ApplyAll maps every polygon, returning new values.
func (t GroupTransform) ApplyAll(polys []vector.Polygon) []vector.Polygon {
	out := make([]vector.Polygon, len(polys))
	for i, p := range polys {
		out[i] = p.Map(t.Apply)
	}
	return out
}

// Local is the same transform expressed for children stored in the local
// frame of the base box (origin at zero).
func (t GroupTransform) Local() vector.Affine2D {
	to := t.Anchor.Add(t.Translation)
	return vector.Translate(to.X, to.Y).Mul(vector.Scale(t.Scale.X, t.Scale.Y))
}
