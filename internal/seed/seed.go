/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package seed provides the initial polygons a canvas is built from and
// resets to: a built-in default and YAML (or JSON) seed files validated
// against an embedded JSON Schema.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"resizecanvas/internal/vector"
)

//go:embed seed.schema.json
var schemaJSON []byte

// Schema returns the JSON Schema seed files are validated against.
func Schema() []byte { return append([]byte(nil), schemaJSON...) }

// ErrInvalidSeed is wrapped by every validation failure.
var ErrInvalidSeed = errors.New("invalid seed")

// File is the seed document layout.
type File struct {
	Version  int     `yaml:"version,omitempty"`
	Polygons []Shape `yaml:"polygons"`
}

// Shape is one polygon entry. A missing id defaults to the entry index.
type Shape struct {
	ID          *int    `yaml:"id,omitempty"`
	Points      string  `yaml:"points"`
	Fill        string  `yaml:"fill,omitempty"`
	Stroke      string  `yaml:"stroke,omitempty"`
	StrokeWidth float64 `yaml:"stroke_width,omitempty"`
}

// Triangles are the default seed point strings.
var Triangles = []string{
	"230,220 260,220 245,250",
	"270,230 300,230 285,260",
	"240,270 270,270 255,300",
}

var defaultFills = []string{"#ff6347", "#4682b4", "#9acd32"}

// Default returns the three seed triangles with ids 0, 1 and 2.
func Default() []vector.Polygon {
	out := make([]vector.Polygon, len(Triangles))
	for i, s := range Triangles {
		out[i] = vector.NewPolygon(i, vector.MustParsePoints(s), vector.Style{
			Fill:        defaultFills[i],
			Stroke:      "black",
			StrokeWidth: 1,
		})
	}
	return out
}

// Load reads and parses a seed file.
func Load(path string) ([]vector.Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	polys, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return polys, nil
}

// Parse validates data against the schema and converts it into polygons.
// Point strings must parse completely; a malformed one fails the whole seed
// rather than producing partial geometry.
func Parse(data []byte) ([]vector.Polygon, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	return f.Build()
}

// Build converts the document entries into polygons.
func (f File) Build() ([]vector.Polygon, error) {
	seen := make(map[int]bool, len(f.Polygons))
	out := make([]vector.Polygon, 0, len(f.Polygons))
	for i, s := range f.Polygons {
		id := i
		if s.ID != nil {
			id = *s.ID
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: polygons[%d]: duplicate id %d", ErrInvalidSeed, i, id)
		}
		seen[id] = true
		p, err := vector.ParsePolygon(id, s.Points, vector.Style{Fill: s.Fill, Stroke: s.Stroke, StrokeWidth: s.StrokeWidth})
		if err != nil {
			return nil, fmt.Errorf("polygons[%d]: %w", i, err)
		}
		if p.Len() == 0 {
			return nil, fmt.Errorf("%w: polygons[%d]: %w", ErrInvalidSeed, i, vector.ErrNoGeometry)
		}
		out = append(out, p)
	}
	return out, nil
}

func validate(doc any) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidSeed, strings.Join(msgs, "; "))
}

// Encode writes polygons back into seed file form.
func Encode(polys []vector.Polygon) ([]byte, error) {
	f := File{Version: 1, Polygons: make([]Shape, len(polys))}
	for i, p := range polys {
		id := p.ID
		f.Polygons[i] = Shape{
			ID:          &id,
			Points:      p.PointsString(),
			Fill:        p.Style.Fill,
			Stroke:      p.Style.Stroke,
			StrokeWidth: p.Style.StrokeWidth,
		}
	}
	return yaml.Marshal(f)
}
