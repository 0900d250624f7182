/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resizecanvas/internal/canvas"
)

// Recorder forwards events to a canvas and keeps a scene after every event
// that changed it. It satisfies script.Target, so a replay becomes a
// sequence of frames.
type Recorder struct {
	C      *canvas.Canvas
	Frames []Scene
	Every  int // keep one frame in Every changed events; <= 1 keeps all
	seen   int
}

// NewRecorder starts with a frame of the initial state.
func NewRecorder(c *canvas.Canvas) *Recorder {
	return &Recorder{C: c, Frames: []Scene{SceneOf(c)}}
}

// Dispatch forwards ev to the canvas and records a frame when it changed.
func (r *Recorder) Dispatch(ev canvas.Event) (bool, error) {
	changed, err := r.C.Dispatch(ev)
	if changed {
		r.seen++
		if r.Every <= 1 || r.seen%r.Every == 0 {
			r.Frames = append(r.Frames, SceneOf(r.C))
		}
	}
	return changed, err
}

func (r *Recorder) View() canvas.View { return r.C.View() }

// WriteCBZ packages frames as PNG images into a CBZ (ZIP) archive with a
// ComicInfo.xml manifest, so any comic reader pages through a gesture.
func WriteCBZ(outPath, title string, frames []Scene, opt Options) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames")
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ".cbz") {
		outPath += ".cbz"
	}
	zw, f, err := createZip(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	pad := len(fmt.Sprint(len(frames)))
	imgBuf := &bytes.Buffer{}
	for i, s := range frames {
		imgBuf.Reset()
		if err := PNG(imgBuf, s, opt); err != nil {
			return err
		}
		name := fmt.Sprintf("%0*d.png", pad, i+1)
		if err := addZipFile(zw, name, imgBuf.Bytes()); err != nil {
			return fmt.Errorf("zip add image: %w", err)
		}
	}

	if title == "" {
		title = "resizecanvas replay"
	}
	if err := addZipFile(zw, "ComicInfo.xml", []byte(comicInfo(title, len(frames)))); err != nil {
		return fmt.Errorf("zip add manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return f.Close()
}

func createZip(outPath string) (*zip.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create cbz: %w", err)
	}
	return zip.NewWriter(f), f, nil
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func comicInfo(title string, pages int) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<ComicInfo xmlns:xsi=\"http://www.w3.org/2001/XMLSchema-instance\">\n")
	fmt.Fprintf(&b, "  <Title>%s</Title>\n", escText(title))
	fmt.Fprintf(&b, "  <PageCount>%d</PageCount>\n", pages)
	b.WriteString("  <ReadingDirection>LeftToRight</ReadingDirection>\n")
	b.WriteString("</ComicInfo>\n")
	return b.String()
}
