/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"resizecanvas/internal/canvas"
	"resizecanvas/internal/config"
	"resizecanvas/internal/crash"
	"resizecanvas/internal/export"
	applog "resizecanvas/internal/log"
	"resizecanvas/internal/remote"
	"resizecanvas/internal/script"
	"resizecanvas/internal/seed"
	"resizecanvas/internal/session"
	"resizecanvas/internal/tui"
	"resizecanvas/internal/ui"
	"resizecanvas/internal/vector"
	"resizecanvas/internal/version"
)

func usage() {
	fmt.Println("Resize Canvas")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  resizecanvas version|-v|--version             Show version")
	fmt.Println("  resizecanvas demo [script]                     Replay the bundled scenarios, or one script file/name")
	fmt.Println("  resizecanvas export <format> <out> [script]    Write svg|png|pdf to <out>, web|print into dir <out>,")
	fmt.Println("                                                 or cbz frames of a replay to <out>")
	fmt.Println("  resizecanvas tui                               Interactive terminal canvas")
	fmt.Println("  resizecanvas ui                                Launch desktop UI (build with -tags fyne)")
	fmt.Println("  resizecanvas serve [addr]                      HTTP + WebSocket host for remote clients")
}

func main() {
	cfg, cfgErr := config.Load()
	args := os.Args
	cmd := ""
	if len(args) > 1 {
		cmd = args[1]
	}
	applog.Init(logOptions(cfg.Logging, cmd == "tui"))
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", cfgErr))
	}

	var cv *canvas.Canvas
	defer crash.Recover(func() string {
		if cv == nil {
			return ""
		}
		return export.Status(cv.View())
	})

	l.Debug("start", slog.Int("args", len(args)))
	switch cmd {
	case "version", "--version", "-v":
		fmt.Println("Resize Canvas")
		fmt.Println(version.String())
		return
	case "demo":
		cv = mustCanvas(l, cfg)
		if err := demo(cv, args[2:]); err != nil {
			fail(l, "demo failed", err)
		}
		return
	case "export":
		if len(args) < 4 {
			fmt.Println("export requires <format> and <out>")
			usage()
			os.Exit(2)
		}
		cv = mustCanvas(l, cfg)
		var sc *script.Script
		if len(args) >= 5 {
			s, err := loadScript(args[4])
			if err != nil {
				fail(l, "load script failed", err)
			}
			sc = &s
		}
		if err := exportCmd(cv, cfg, args[2], args[3], sc); err != nil {
			fail(l, "export failed", err)
		}
		return
	case "tui":
		cv = mustCanvas(l, cfg)
		if err := tui.Run(cv, cfg.Canvas); err != nil {
			fail(l, "tui failed", err)
		}
		return
	case "ui":
		cv = mustCanvas(l, cfg)
		if err := ui.Run(cv, cfg.Canvas); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		return
	case "serve":
		if len(args) >= 3 {
			cfg.Server.Addr = args[2]
		}
		cv = mustCanvas(l, cfg)
		if err := serve(cv, cfg); err != nil {
			fail(l, "serve failed", err)
		}
		return
	}

	usage()
}

func logOptions(c config.LoggingConfig, quiet bool) applog.Options {
	opts := applog.Options{Level: c.Level, Format: c.Format, AddSource: c.Source, File: c.File}
	if quiet {
		// the terminal host owns the screen; keep only the file sink
		opts.Writer = io.Discard
	}
	return opts
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func mustCanvas(l *slog.Logger, cfg config.AppConfig) *canvas.Canvas {
	polys, err := loadSeed(cfg.SeedFile)
	if err != nil {
		fail(l, "load seed failed", err)
	}
	c, err := canvas.New(polys, canvas.Options{MinSize: cfg.Canvas.MinSize})
	if err != nil {
		fail(l, "build canvas failed", err)
	}
	return c
}

func loadSeed(path string) ([]vector.Polygon, error) {
	if strings.TrimSpace(path) == "" {
		return seed.Default(), nil
	}
	return seed.Load(path)
}

// loadScript reads a script file, falling back to a bundled scenario name.
func loadScript(arg string) (script.Script, error) {
	data, err := os.ReadFile(arg)
	if err != nil {
		if s, ok := script.Lookup(arg); ok {
			return s, nil
		}
		return script.Script{}, fmt.Errorf("script %q: %w", arg, err)
	}
	s, errs := script.Parse(string(data))
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return script.Script{}, fmt.Errorf("%s: %s", arg, strings.Join(msgs, "; "))
	}
	return s, nil
}

func demo(cv *canvas.Canvas, args []string) error {
	var all []script.Script
	if len(args) > 0 {
		s, err := loadScript(args[0])
		if err != nil {
			return err
		}
		all = []script.Script{s}
	} else {
		b, err := script.Builtin()
		if err != nil {
			return err
		}
		all = b
	}
	failed := 0
	for _, s := range all {
		cv.Reset()
		if err := script.Play(s, cv); err != nil {
			failed++
			fmt.Printf("FAIL %-16s %v\n", s.Name, err)
			continue
		}
		fmt.Printf("ok   %-16s %s\n", s.Name, export.Status(cv.View()))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(all))
	}
	return nil
}

func exportOptions(cfg config.AppConfig) export.Options {
	return export.Options{
		Size:         cfg.Canvas.Size,
		EdgeHandle:   cfg.Canvas.EdgeHandle,
		CornerHandle: cfg.Canvas.CornerHandle,
		AnchorRadius: cfg.Canvas.AnchorRadius,
		Title:        "resizecanvas",
	}
}

func exportCmd(cv *canvas.Canvas, cfg config.AppConfig, format, out string, sc *script.Script) error {
	opt := exportOptions(cfg)
	if strings.EqualFold(format, "cbz") {
		if sc == nil {
			return errors.New("cbz export needs a script to replay")
		}
		rec := export.NewRecorder(cv)
		if err := script.Play(*sc, rec); err != nil {
			return err
		}
		opt.Chrome = true
		if err := export.WriteCBZ(out, sc.Name, rec.Frames, opt); err != nil {
			return err
		}
		fmt.Printf("Wrote %d frames to %s\n", len(rec.Frames), out)
		return nil
	}
	if sc != nil {
		if err := script.Play(*sc, cv); err != nil {
			return err
		}
	}
	if preset, ok := export.ParsePreset(format); ok {
		paths, err := export.Batch(export.SceneOf(cv), out, "canvas", preset, opt)
		for _, p := range paths {
			fmt.Println("Wrote", p)
		}
		return err
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	opt.Chrome = cv.View().HasSelection()
	if err := export.WriteFile(out, f, export.SceneOf(cv), opt); err != nil {
		return err
	}
	abs, _ := filepath.Abs(out)
	fmt.Println("Wrote", abs)
	return nil
}

func serve(cv *canvas.Canvas, cfg config.AppConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New(cv)
	go func() {
		if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			applog.WithComponent("cli").Error("session stopped", slog.Any("err", err))
		}
	}()

	srv := remote.New(sess, remote.Options{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Export:         exportOptions(cfg),
	})
	fmt.Println("Listening on", cfg.Server.Addr)
	return srv.Run(ctx)
}
