/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNonFinite is reported for NaN or infinite coordinates.
var ErrNonFinite = errors.New("coordinate is not finite")

// ParseError describes the first malformed pair in a point sequence.
type ParseError struct {
	Index int    // zero-based pair index
	Token string // offending "x,y" token
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse points: pair %d %q: %v", e.Index, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParsePoints parses the SVG-style "x1,y1 x2,y2 ..." form.
// Pairs may be separated by any whitespace. An empty string yields no points.
func ParsePoints(s string) ([]Pt, error) {
	fields := strings.Fields(s)
	out := make([]Pt, 0, len(fields))
	for i, tok := range fields {
		xs, ys, ok := strings.Cut(tok, ",")
		if !ok {
			return nil, &ParseError{Index: i, Token: tok, Err: errors.New("missing comma")}
		}
		x, err := parseCoord(xs)
		if err != nil {
			return nil, &ParseError{Index: i, Token: tok, Err: err}
		}
		y, err := parseCoord(ys)
		if err != nil {
			return nil, &ParseError{Index: i, Token: tok, Err: err}
		}
		out = append(out, Pt{X: x, Y: y})
	}
	return out, nil
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !isFinite(v) {
		return 0, ErrNonFinite
	}
	return v, nil
}

// StringifyPoints renders points using the shortest exact decimal form.
func StringifyPoints(pts []Pt) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatCoord(p.X))
		b.WriteByte(',')
		b.WriteString(formatCoord(p.Y))
	}
	return b.String()
}

func formatCoord(v float64) string {
	if v == 0 {
		// avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MustParsePoints is ParsePoints for literals known to be valid.
func MustParsePoints(s string) []Pt {
	pts, err := ParsePoints(s)
	if err != nil {
		panic(err)
	}
	return pts
}
