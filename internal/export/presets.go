/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is an output file format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// PresetName represents a named bundle of formats.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPNG, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unknown format: %s", s)
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Write renders s in format f.
func Write(w io.Writer, f Format, s Scene, opt Options) error {
	switch f {
	case FormatSVG:
		return SVG(w, s, opt)
	case FormatPNG:
		return PNG(w, s, opt)
	case FormatPDF:
		return PDF(w, s, opt)
	}
	return fmt.Errorf("unknown format: %s", f)
}

// WriteFile renders s to path, creating parent directories.
func WriteFile(path string, f Format, s Scene, opt Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f, err)
	}
	bw := bufio.NewWriter(file)
	if err := Write(bw, f, s, opt); err != nil {
		_ = file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush %s: %w", f, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", f, err)
	}
	return nil
}

// Batch writes one file per preset format into outDir, named
// <base>.<format>, and returns the paths written.
//
// Web exports are clean renderings; print ones carry the selection chrome
// so the sheet documents the gesture state.
func Batch(s Scene, outDir, base string, preset PresetName, opt Options) ([]string, error) {
	if base == "" {
		base = "canvas"
	}
	opt.Chrome = presetChrome(preset)
	var out []string
	for _, f := range presetFormats(preset) {
		path := filepath.Join(outDir, base+"."+string(f))
		if err := WriteFile(path, f, s, opt); err != nil {
			return out, fmt.Errorf("%s %s: %w", preset, f, err)
		}
		out = append(out, path)
	}
	return out, nil
}

// ParsePreset accepts web or print.
func ParsePreset(s string) (PresetName, bool) {
	switch p := PresetName(strings.ToLower(s)); p {
	case PresetWeb, PresetPrint:
		return p, true
	}
	return "", false
}

func presetFormats(p PresetName) []Format {
	switch p {
	case PresetWeb:
		return []Format{FormatSVG, FormatPNG}
	case PresetPrint:
		return []Format{FormatPDF, FormatPNG}
	default:
		return []Format{FormatSVG}
	}
}

func presetChrome(p PresetName) bool {
	return p == PresetPrint
}
