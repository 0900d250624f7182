/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"strings"
	"testing"

	"resizecanvas/internal/gesture"
	"resizecanvas/internal/vector"
)

func TestParseStepsAndLines(t *testing.T) {
	input := `name: sample
description: every op once
steps:
  - select: [2, 0]
  - click: [255, 280]
  - marquee: [300, 300, 200, 200]
  - resize: {handle: bottom-left, by: [-10, 15], steps: 3, hold: true}
  - move: {from: [1, 2], by: [3, 4]}
  - release
  - cancel
  - commit:
  - reset
  - expect:
      box: [1, 2, 3, 4]
      flipped: {x: true}
      selection: []
      polygons: {0: "0,0 1,1"}`

	s, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if s.Name != "sample" || s.Description != "every op once" {
		t.Fatalf("header = %q %q", s.Name, s.Description)
	}
	if len(s.Steps) != 10 {
		t.Fatalf("expected 10 steps, got %d", len(s.Steps))
	}
	if s.Steps[0].Op != OpSelect || len(s.Steps[0].IDs) != 2 || s.Steps[0].Line != 4 {
		t.Fatalf("select step = %+v", s.Steps[0])
	}
	if s.Steps[2].Rect != vector.R(200, 200, 100, 100) {
		t.Fatalf("marquee must normalize corners: %+v", s.Steps[2].Rect)
	}
	rs := s.Steps[3]
	if rs.Handle != gesture.BottomLeft || rs.By != (vector.Pt{X: -10, Y: 15}) || rs.Samples != 3 || !rs.Hold {
		t.Fatalf("resize step = %+v", rs)
	}
	mv := s.Steps[4]
	if mv.From == nil || *mv.From != (vector.Pt{X: 1, Y: 2}) || mv.Samples != 1 || mv.Hold {
		t.Fatalf("move step = %+v", mv)
	}
	if s.Steps[7].Op != OpCommit {
		t.Fatalf("null-valued op not accepted: %+v", s.Steps[7])
	}
	ex := s.Steps[9].Expect
	if ex == nil || ex.Box == nil || *ex.Box != vector.R(1, 2, 3, 4) {
		t.Fatalf("expect box = %+v", ex)
	}
	if ex.Flipped == nil || *ex.Flipped != (gesture.Flip{X: true}) {
		t.Fatalf("expect flipped = %+v", ex.Flipped)
	}
	if ex.Selection == nil || len(*ex.Selection) != 0 {
		t.Fatalf("empty selection must be checked, got %v", ex.Selection)
	}
	if ex.Polygons[0] != "0,0 1,1" || ex.Tolerance != 1e-6 {
		t.Fatalf("expect polygons/tolerance = %+v", ex)
	}
}

func TestParseCollectsAllErrors(t *testing.T) {
	input := `name: broken
colour: red
steps:
  - select: nope
  - resize: {handle: middle, by: [1, 1]}
  - move: {by: [1]}
  - move: {handle: left, by: [1, 1]}
  - explode
  - click: [1, 2, 3]
  - reset: now
  - select: [1]`

	s, errs := Parse(input)
	if len(errs) != 8 {
		t.Fatalf("expected 8 errors, got %d: %+v", len(errs), errs)
	}
	if errs[0].Line != 2 || !strings.Contains(errs[0].Message, "colour") {
		t.Fatalf("unknown key error = %+v", errs[0])
	}
	wantLines := []int{4, 5, 6, 7, 8, 9, 10}
	for i, l := range wantLines {
		if errs[i+1].Line != l {
			t.Fatalf("error %d on line %d, want %d: %+v", i+1, errs[i+1].Line, l, errs[i+1])
		}
	}
	if len(s.Steps) != 1 || s.Steps[0].Op != OpSelect {
		t.Fatalf("valid steps must survive: %+v", s.Steps)
	}
	if !strings.HasPrefix(errs[5].Error(), "line 8: ") {
		t.Fatalf("Error() = %q", errs[5].Error())
	}
}

func TestParseRejectsNonScripts(t *testing.T) {
	for name, in := range map[string]string{
		"empty":     "",
		"list":      "- select: [1]",
		"no steps":  "name: x",
		"steps map": "steps: {select: [1]}",
		"bad yaml":  "steps: [",
		"multi-op":  "steps:\n  - {select: [1], reset: }",
	} {
		if _, errs := Parse(in); len(errs) == 0 {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestBuiltinScenariosParse(t *testing.T) {
	all, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	if len(all) < 8 {
		t.Fatalf("expected the bundled scenarios, got %d", len(all))
	}
	if _, ok := Lookup("invert"); !ok {
		t.Fatalf("invert scenario not found")
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatalf("Lookup of unknown scenario succeeded")
	}
}
