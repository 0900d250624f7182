/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"

	"resizecanvas/internal/gesture"
	"resizecanvas/internal/vector"
)

// Script is a named sequence of gesture steps replayed against a canvas.
//
// The YAML form is a mapping with a "steps" list. Each step is either a bare
// op name (release, cancel, commit, reset) or a single-key mapping:
//
//	select:  [0, 1, 2]
//	click:   [255, 280]
//	marquee: [225, 215, 262, 255]
//	resize:  {handle: right, by: [-100, 0], steps: 4, hold: true}
//	move:    {from: [260, 260], by: [50, 30]}
//	expect:  {box: [230, 220, 70, 80], flipped: {x: true}, selection: [0, 1, 2]}
type Script struct {
	Name        string
	Description string
	Steps       []Step
}

// Op is the kind of a step.
type Op string

const (
	OpSelect  Op = "select"
	OpClick   Op = "click"
	OpMarquee Op = "marquee"
	OpResize  Op = "resize"
	OpMove    Op = "move"
	OpRelease Op = "release"
	OpCancel  Op = "cancel"
	OpCommit  Op = "commit"
	OpReset   Op = "reset"
	OpExpect  Op = "expect"
)

// Step is one parsed script step. Only the fields of its Op are set.
//
// Resize drags Handle from its current position by By; Move drags from From
// (the selection center when unset) by By. Both emit Samples pointer moves
// and release at the end unless Hold is set.
type Step struct {
	Op      Op
	IDs     []int
	Point   vector.Pt
	Rect    vector.Rect
	Handle  gesture.Handle
	From    *vector.Pt
	By      vector.Pt
	Samples int
	Hold    bool
	Expect  *Expect
	Line    int // 1-based line in the source
}

// Expect is an assertion on the canvas view. Nil fields are not checked.
type Expect struct {
	Box       *vector.Rect
	Flipped   *gesture.Flip
	Selection *[]int
	State     string
	Polygons  map[int]string // id -> exact point string
	Tolerance float64        // for Box; default 1e-6
}

// Error represents a parse or replay error with position context.
type Error struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
