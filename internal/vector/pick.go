/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// HitTest returns the ID of the top-most polygon containing p. Later
// polygons in the slice are drawn on top.
func HitTest(polys []Polygon, p Pt) (int, bool) {
	for i := len(polys) - 1; i >= 0; i-- {
		if polys[i].Contains(p) {
			return polys[i].ID, true
		}
	}
	return 0, false
}

// Intersecting returns the IDs of polygons whose bounding box intersects r,
// in slice order. This is the marquee selection test.
func Intersecting(polys []Polygon, r Rect) []int {
	var ids []int
	for _, p := range polys {
		b, err := p.Bounds()
		if err != nil {
			continue
		}
		if b.Intersects(r) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
