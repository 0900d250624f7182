/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"resizecanvas/internal/version"
	"resizecanvas/internal/vector"
)

// PDF writes s as a one-page vector PDF. Units are the canvas units (pt),
// origin top-left like the canvas.
func PDF(w io.Writer, s Scene, opt Options) error {
	opt = opt.withDefaults()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: opt.Size, Ht: opt.Size},
	})
	pdf.SetTitle(opt.Title, true)
	pdf.SetCreator("resizecanvas "+version.String(), true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	rest, selected := s.split()
	for _, p := range append(rest, selected...) {
		pdfPolygon(pdf, p)
	}

	if opt.Chrome && s.View.HasSelection() {
		b := s.View.Box
		setDrawColor(pdf, selectionColor)
		pdf.SetLineWidth(1)
		pdf.SetDashPattern([]float64{4, 4}, 0)
		pdf.Rect(b.X, b.Y, b.W, b.H, "D")
		pdf.SetDashPattern([]float64{}, 0)
		for _, h := range s.View.Handles {
			fill := vector.White
			if h.Active {
				fill = activeColor
			}
			setFillColor(pdf, fill)
			pdf.Circle(h.Pos.X, h.Pos.Y, handleRadius(opt, h), "FD")
		}
		setFillColor(pdf, anchorColor)
		pdf.Circle(s.View.Anchor.X, s.View.Anchor.Y, opt.AnchorRadius, "F")
	}
	if opt.Chrome {
		// built-in Courier keeps text vector without embedding
		pdf.SetFont("Courier", "", 8)
		pdf.SetTextColor(0x33, 0x33, 0x33)
		pdf.Text(6, opt.Size-6, Status(s.View))
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func pdfPolygon(pdf *gofpdf.Fpdf, p vector.Polygon) {
	pts := p.Points()
	if len(pts) < 2 {
		return
	}
	poly := make([]gofpdf.PointType, len(pts))
	for i, pt := range pts {
		poly[i] = gofpdf.PointType{X: pt.X, Y: pt.Y}
	}
	style := ""
	if fill := fillOf(p); fill.A > 0 {
		setFillColor(pdf, fill)
		style += "F"
	}
	if stroke, w := strokeOf(p); stroke.A > 0 {
		setDrawColor(pdf, stroke)
		pdf.SetLineWidth(w)
		style += "D"
	}
	if style == "" {
		return
	}
	pdf.Polygon(poly, style)
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
