/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import "resizecanvas/internal/vector"

// Result is the candidate box produced by a transform function. Width and
// Height are signed: a negative value means the pointer crossed the
// opposite edge.
type Result struct {
	Width, Height    float64
	AnchorX, AnchorY float64
}

// TransformFunc derives a candidate box from the current dimensions, the
// pointer, the fixed anchor and the base dimensions.
type TransformFunc func(current vector.Size, p, fixed vector.Pt, base vector.Size) Result

// Transforms maps every handle to its pure resize function. Edge handles
// recompute one dimension and inherit the other from current; the anchor
// returned is always the edge or corner opposite the dragged one.
var Transforms = map[Handle]TransformFunc{
	Right: func(cur vector.Size, p, f vector.Pt, _ vector.Size) Result {
		return Result{Width: p.X - f.X, Height: cur.H, AnchorX: f.X, AnchorY: f.Y}
	},
	Bottom: func(cur vector.Size, p, f vector.Pt, _ vector.Size) Result {
		return Result{Width: cur.W, Height: p.Y - f.Y, AnchorX: f.X, AnchorY: f.Y}
	},
	Left: func(cur vector.Size, p, f vector.Pt, base vector.Size) Result {
		return Result{Width: f.X + base.W - p.X, Height: cur.H, AnchorX: p.X, AnchorY: f.Y}
	},
	Top: func(cur vector.Size, p, f vector.Pt, base vector.Size) Result {
		return Result{Width: cur.W, Height: f.Y + base.H - p.Y, AnchorX: f.X, AnchorY: p.Y}
	},
	BottomRight: func(_ vector.Size, p, f vector.Pt, _ vector.Size) Result {
		return Result{Width: p.X - f.X, Height: p.Y - f.Y, AnchorX: f.X, AnchorY: f.Y}
	},
	BottomLeft: func(_ vector.Size, p, f vector.Pt, base vector.Size) Result {
		return Result{Width: f.X + base.W - p.X, Height: p.Y - f.Y, AnchorX: p.X, AnchorY: f.Y}
	},
	TopRight: func(_ vector.Size, p, f vector.Pt, base vector.Size) Result {
		return Result{Width: p.X - f.X, Height: f.Y + base.H - p.Y, AnchorX: f.X, AnchorY: p.Y}
	},
	TopLeft: func(_ vector.Size, p, f vector.Pt, base vector.Size) Result {
		return Result{Width: f.X + base.W - p.X, Height: f.Y + base.H - p.Y, AnchorX: p.X, AnchorY: p.Y}
	},
}
