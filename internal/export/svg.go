/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"resizecanvas/internal/vector"
)

// SVG writes s as a standalone SVG document. The selection is emitted as one
// <g transform="matrix(...)"> whose children are local to the committed box.
func SVG(w io.Writer, s Scene, opt Options) error {
	opt = opt.withDefaults()
	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n", opt.Size, opt.Size, opt.Size, opt.Size)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", opt.Size, opt.Size)

	rest, selected := s.split()
	for _, p := range rest {
		wf("  %s\n", svgPolygon(p))
	}
	switch {
	case s.Group != nil:
		m := s.Group.Transform
		wf("  <g transform=\"matrix(%g %g %g %g %g %g)\">\n", m.A, m.B, m.C, m.D, m.E, m.F)
		for _, p := range s.Group.Children {
			wf("    %s\n", svgPolygon(p))
		}
		wf("  </g>\n")
	default:
		for _, p := range selected {
			wf("  %s\n", svgPolygon(p))
		}
	}

	if opt.Chrome && s.View.HasSelection() {
		b := s.View.Box
		sc := svgColor(selectionColor)
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-dasharray=\"4\"/>\n", b.X, b.Y, b.W, b.H, sc)
		for _, h := range s.View.Handles {
			fill := "#ffffff"
			if h.Active {
				fill = svgColor(activeColor)
			}
			wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"%s\" stroke=\"%s\" data-handle=\"%s\" style=\"cursor:%s\"/>\n",
				h.Pos.X, h.Pos.Y, handleRadius(opt, h), fill, sc, h.Handle, h.Cursor)
		}
		a := s.View.Anchor
		wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"%s\"/>\n", a.X, a.Y, opt.AnchorRadius, svgColor(anchorColor))
	}
	if opt.Chrome {
		wf("  <text x=\"6\" y=\"%g\" font-family=\"monospace\" font-size=\"11\" fill=\"#333\">%s</text>\n", opt.Size-6, escText(Status(s.View)))
	}
	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgPolygon(p vector.Polygon) string {
	stroke, sw := strokeOf(p)
	var b strings.Builder
	fmt.Fprintf(&b, "<polygon data-id=\"%d\" points=\"%s\" fill=\"%s\"", p.ID, p.PointsString(), svgPaint(fillOf(p)))
	if stroke.A > 0 {
		fmt.Fprintf(&b, " stroke=\"%s\" stroke-width=\"%g\"", svgColor(stroke), sw)
	}
	b.WriteString("/>")
	return b.String()
}

func svgPaint(c vector.Color) string {
	if c.A == 0 {
		return "none"
	}
	return svgColor(c)
}

func svgColor(c vector.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
