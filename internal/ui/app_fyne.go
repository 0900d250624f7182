//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"resizecanvas/internal/canvas"
	"resizecanvas/internal/config"
	"resizecanvas/internal/crash"
	"resizecanvas/internal/export"
	applog "resizecanvas/internal/log"
	"resizecanvas/internal/version"
)

// Run opens the desktop window on c and blocks until it is closed.
func Run(c *canvas.Canvas, cfg config.CanvasConfig) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	defer crash.Recover(func() string { return export.Status(c.View()) })

	fyneApp := app.NewWithID("resizecanvas")
	w := fyneApp.NewWindow("Resize Canvas")
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 720), 400)
	winH := max(prefs.IntWithFallback("window.height", 760), 400)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel(export.Status(c.View()))
	cw := NewCanvasWidget(c, cfg)
	cw.OnChange = func(msg string) {
		line := export.Status(c.View())
		if msg != "" {
			line += "  |  " + msg
		}
		status.SetText(line)
	}

	action := func(label string, fn func() error) func() {
		return func() {
			if err := fn(); err != nil {
				l.Debug("action rejected", slog.String("action", label), slog.Any("err", err))
				cw.OnChange(err.Error())
			} else {
				cw.OnChange(label)
			}
			cw.Refresh()
		}
	}
	selectAll := action("selected all", cw.SelectAll)
	commit := action("committed", c.Commit)
	cancel := action("cancelled", func() error {
		cw.drag = dragNone
		if !c.Cancel() {
			c.ClearSelection()
		}
		return nil
	})
	reset := action("reset to seed", func() error {
		cw.drag = dragNone
		c.Reset()
		return nil
	})

	exportAs := func(f export.Format) func() {
		return func() {
			save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				if uc == nil {
					return
				}
				defer func() { _ = uc.Close() }()
				opt := export.Options{Size: cfg.Size, Chrome: f != export.FormatSVG, Title: "resizecanvas"}
				if err := export.Write(uc, f, export.SceneOf(c), opt); err != nil {
					dialog.ShowError(err, w)
					return
				}
				l.Info("exported", slog.String("format", string(f)), slog.String("path", uc.URI().Path()))
				cw.OnChange("exported to " + uc.URI().Path())
			}, w)
			save.SetFileName("canvas." + string(f))
			save.SetFilter(fstorage.NewExtensionFileFilter([]string{"." + string(f)}))
			save.Show()
		}
	}

	selectAllItem := fyne.NewMenuItem("Select All", selectAll)
	commitItem := fyne.NewMenuItem("Commit", commit)
	cancelItem := fyne.NewMenuItem("Cancel Gesture", cancel)
	resetItem := fyne.NewMenuItem("Reset", reset)
	selectAllItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyA, Modifier: fyne.KeyModifierControl}
	commitItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierControl}
	resetItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}
	for _, it := range []*fyne.MenuItem{selectAllItem, commitItem, resetItem} {
		sc := it.Shortcut
		fn := it.Action
		w.Canvas().AddShortcut(sc, func(fyne.Shortcut) { fn() })
	}
	w.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		if e.Name == fyne.KeyEscape {
			cancel()
		}
	})

	exportMenu := fyne.NewMenu("Export",
		fyne.NewMenuItem("Export SVG…", exportAs(export.FormatSVG)),
		fyne.NewMenuItem("Export PNG…", exportAs(export.FormatPNG)),
		fyne.NewMenuItem("Export PDF…", exportAs(export.FormatPDF)),
	)
	editMenu := fyne.NewMenu("Edit", selectAllItem, commitItem, cancelItem, fyne.NewMenuItemSeparator(), resetItem)
	aboutMenu := fyne.NewMenu("About", fyne.NewMenuItem("About Resize Canvas", func() {
		exe, _ := os.Executable()
		info := fmt.Sprintf("Resize Canvas\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe)
		dialog.ShowInformation("About", info, w)
	}))
	w.SetMainMenu(fyne.NewMainMenu(editMenu, exportMenu, aboutMenu))

	w.SetContent(container.NewBorder(nil, status, nil, nil, cw))
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		c.CommitPending()
		w.Close()
	})

	w.ShowAndRun()
	return nil
}
