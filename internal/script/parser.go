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
	"strings"

	"gopkg.in/yaml.v3"

	"resizecanvas/internal/gesture"
	"resizecanvas/internal/vector"
)

// Parse parses a YAML gesture script. It keeps going after a bad step so that
// every problem is reported at once; the returned Script holds the steps that
// parsed.
func Parse(input string) (Script, []Error) {
	var s Script
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(input), &root); err != nil {
		return s, []Error{{Line: 1, Column: 1, Message: err.Error()}}
	}
	if len(root.Content) == 0 {
		return s, []Error{{Line: 1, Column: 1, Message: "empty script"}}
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return s, []Error{errAt(doc, "script must be a mapping")}
	}

	var errs []Error
	var steps *yaml.Node
	for i := 0; i+1 < len(doc.Content); i += 2 {
		k, v := doc.Content[i], doc.Content[i+1]
		switch k.Value {
		case "name":
			s.Name = strings.TrimSpace(v.Value)
		case "description":
			s.Description = strings.TrimSpace(v.Value)
		case "steps":
			steps = v
		default:
			errs = append(errs, errAt(k, fmt.Sprintf("unknown key %q", k.Value)))
		}
	}
	if steps == nil {
		return s, append(errs, errAt(doc, "missing steps"))
	}
	if steps.Kind != yaml.SequenceNode {
		return s, append(errs, errAt(steps, "steps must be a list"))
	}
	for _, n := range steps.Content {
		st, err := parseStep(n)
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		s.Steps = append(s.Steps, st)
	}
	return s, errs
}

// MustParse is Parse for embedded scripts known to be valid.
func MustParse(input string) Script {
	s, errs := Parse(input)
	if len(errs) > 0 {
		panic(errs[0])
	}
	return s
}

func errAt(n *yaml.Node, msg string) Error {
	return Error{Line: n.Line, Column: n.Column, Message: msg}
}

func parseStep(n *yaml.Node) (Step, *Error) {
	st := Step{Line: n.Line}
	var op string
	var arg *yaml.Node
	switch n.Kind {
	case yaml.ScalarNode:
		op = n.Value
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			e := errAt(n, "step must have exactly one op")
			return st, &e
		}
		op, arg = n.Content[0].Value, n.Content[1]
	default:
		e := errAt(n, "step must be an op name or a single-key mapping")
		return st, &e
	}
	st.Op = Op(strings.ToLower(strings.TrimSpace(op)))

	fail := func(node *yaml.Node, format string, args ...any) (Step, *Error) {
		if node == nil {
			node = n
		}
		e := errAt(node, fmt.Sprintf("%s: ", st.Op)+fmt.Sprintf(format, args...))
		return st, &e
	}

	switch st.Op {
	case OpRelease, OpCancel, OpCommit, OpReset:
		if arg != nil && !(arg.Kind == yaml.ScalarNode && (arg.Tag == "!!null" || arg.Value == "")) {
			return fail(arg, "takes no argument")
		}
	case OpSelect:
		if arg == nil {
			return fail(nil, "missing ids")
		}
		if err := arg.Decode(&st.IDs); err != nil {
			return fail(arg, "ids: %v", err)
		}
	case OpClick:
		p, err := decodePoint(arg)
		if err != nil {
			return fail(arg, "%v", err)
		}
		st.Point = p
	case OpMarquee:
		v, err := decodeFloats(arg, 4)
		if err != nil {
			return fail(arg, "%v", err)
		}
		st.Rect = vector.RectFromPoints(vector.Pt{X: v[0], Y: v[1]}, vector.Pt{X: v[2], Y: v[3]})
	case OpResize, OpMove:
		var d dragArgs
		if arg == nil || arg.Kind != yaml.MappingNode {
			return fail(arg, "expects a mapping")
		}
		if err := arg.Decode(&d); err != nil {
			return fail(arg, "%v", err)
		}
		if len(d.By) != 2 {
			return fail(arg, "by must be [dx, dy]")
		}
		st.By = vector.Pt{X: d.By[0], Y: d.By[1]}
		st.Samples = max(d.Steps, 1)
		st.Hold = d.Hold
		if st.Op == OpResize {
			h, err := gesture.ParseHandle(d.Handle)
			if err != nil {
				return fail(arg, "%v", err)
			}
			st.Handle = h
		} else if d.Handle != "" {
			return fail(arg, "handle is only valid for resize")
		}
		if d.From != nil {
			if len(d.From) != 2 {
				return fail(arg, "from must be [x, y]")
			}
			st.From = &vector.Pt{X: d.From[0], Y: d.From[1]}
		}
	case OpExpect:
		ex, err := decodeExpect(arg)
		if err != nil {
			return fail(arg, "%v", err)
		}
		st.Expect = ex
	default:
		return fail(nil, "unknown op")
	}
	return st, nil
}

type dragArgs struct {
	Handle string    `yaml:"handle"`
	From   []float64 `yaml:"from"`
	By     []float64 `yaml:"by"`
	Steps  int       `yaml:"steps"`
	Hold   bool      `yaml:"hold"`
}

type expectArgs struct {
	Box       []float64      `yaml:"box"`
	Flipped   *gesture.Flip  `yaml:"flipped"`
	Selection *[]int         `yaml:"selection"`
	State     string         `yaml:"state"`
	Polygons  map[int]string `yaml:"polygons"`
	Tolerance float64        `yaml:"tolerance"`
}

func decodeExpect(n *yaml.Node) (*Expect, error) {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expects a mapping")
	}
	var a expectArgs
	if err := n.Decode(&a); err != nil {
		return nil, err
	}
	ex := &Expect{Flipped: a.Flipped, Selection: a.Selection, State: a.State, Polygons: a.Polygons, Tolerance: a.Tolerance}
	if a.Box != nil {
		if len(a.Box) != 4 {
			return nil, fmt.Errorf("box must be [x, y, width, height]")
		}
		ex.Box = &vector.Rect{X: a.Box[0], Y: a.Box[1], W: a.Box[2], H: a.Box[3]}
	}
	if ex.Tolerance <= 0 {
		ex.Tolerance = 1e-6
	}
	return ex, nil
}

func decodePoint(n *yaml.Node) (vector.Pt, error) {
	v, err := decodeFloats(n, 2)
	if err != nil {
		return vector.Pt{}, err
	}
	return vector.Pt{X: v[0], Y: v[1]}, nil
}

func decodeFloats(n *yaml.Node, want int) ([]float64, error) {
	if n == nil {
		return nil, fmt.Errorf("missing %d numbers", want)
	}
	var v []float64
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	if len(v) != want {
		return nil, fmt.Errorf("want %d numbers, got %d", want, len(v))
	}
	return v, nil
}
