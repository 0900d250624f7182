/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Group is a set of polygons stored in the local frame of Box plus a
// transform placing that frame on the surface. Renderers emit it as one
// nested element (e.g. an SVG <g transform=...>).
type Group struct {
	Box       Rect      // frame the children are local to
	Children  []Polygon // local coordinates, origin at Box.Min()
	Transform Affine2D  // local -> surface
}

// NewGroup converts absolutely positioned polygons into a group whose
// transform is a plain translation to the bounding box origin.
func NewGroup(polys []Polygon) (Group, error) {
	box, err := BoundsOf(polys)
	if err != nil {
		return Group{}, err
	}
	return Group{Box: box, Children: ToLocal(polys, box), Transform: Translate(box.X, box.Y)}, nil
}

// Flatten returns the children in surface coordinates.
func (g Group) Flatten() []Polygon {
	out := make([]Polygon, len(g.Children))
	for i, c := range g.Children {
		out[i] = c.Transform(g.Transform)
	}
	return out
}
