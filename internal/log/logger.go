/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log configures the process-wide slog logger: a compact console
// handler or JSON on stderr, an optional rotating JSON file, and helpers that
// tag records with component, operation and gesture ids.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	lj "gopkg.in/natefinch/lumberjack.v2"

	"resizecanvas/internal/version"
)

// AppName is attached to every record as the "app" attribute.
const AppName = "resizecanvas"

// Rotation limits of the log file.
const (
	fileMaxMB      = 10
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

// Options controls logger initialization. FromEnv reads them from
// RCV_LOG_LEVEL (debug|info|warn|error), RCV_LOG_FORMAT (console|json),
// RCV_LOG_SOURCE (true|false) and RCV_LOG_FILE.
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string // rotated JSON log; empty disables it
	// Writer replaces stderr for console output; tests and the TUI use it
	// to keep log lines off the terminal.
	Writer io.Writer
}

var (
	mu      sync.RWMutex
	current *slog.Logger
)

// L returns the application logger, initializing it from the environment
// on first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init replaces the application logger and slog.Default.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}

	out := opts.Writer
	if out == nil {
		out = os.Stderr
	}
	var sinks []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		sinks = append(sinks, slog.NewJSONHandler(out, hopts))
	} else {
		sinks = append(sinks, newConsoleHandler(out, lvl, opts.AddSource))
	}
	if f := strings.TrimSpace(opts.File); f != "" {
		rot := &lj.Logger{Filename: f, MaxSize: fileMaxMB, MaxBackups: fileMaxBackups, MaxAge: fileMaxAgeDays, Compress: true}
		sinks = append(sinks, slog.NewJSONHandler(rot, hopts))
	}

	var h slog.Handler = fanout(sinks)
	if len(sinks) == 1 {
		h = sinks[0]
	}
	l := slog.New(ctxHandler{next: h}).With(
		slog.String("app", AppName),
		slog.String("ver", version.Version),
		slog.Time("ts_init", time.Now()),
	)

	mu.Lock()
	current = l
	mu.Unlock()
	slog.SetDefault(l)
}

// FromEnv builds Options from RCV_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("RCV_LOG_LEVEL", "info"),
		Format:    getenv("RCV_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("RCV_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("RCV_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// WithComponent returns the application logger tagged with a component.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

// WithGesture tags records belonging to one pointer gesture.
func WithGesture(l *slog.Logger, id string) *slog.Logger { return l.With(slog.String("gesture", id)) }

// Discard returns a logger that drops everything, for tests and embedders
// that own logging.
func Discard() *slog.Logger { return slog.New(discardHandler{}) }

type ctxAttrsKey struct{}

// ContextWith returns a context whose records logged through the *Context
// methods carry attrs as well.
func ContextWith(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev, _ := ctx.Value(ctxAttrsKey{}).([]slog.Attr)
	return context.WithValue(ctx, ctxAttrsKey{}, append(append([]slog.Attr(nil), prev...), attrs...))
}
