/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestConsoleHandlerFormatting(t *testing.T) {
	var buf bytes.Buffer
	h := newConsoleHandler(&buf, slog.LevelWarn, false)
	ctx := context.Background()

	if h.Enabled(ctx, slog.LevelInfo) {
		t.Fatalf("info should not be enabled at warn level")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Fatalf("error should be enabled at warn level")
	}

	hg := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).WithGroup("grp")
	r := slog.NewRecord(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), slog.LevelError, "boom", 0)
	r.AddAttrs(
		slog.Int("n", 42),
		slog.Float64("pi", 3.14),
		slog.Bool("ok", true),
		slog.String("msg", "two words"),
		slog.Group("box", slog.Int("w", 70)),
	)
	if err := hg.Handle(ctx, r); err != nil {
		t.Fatalf("handle: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "03:04:05.000 ERR boom k=v") {
		t.Fatalf("unexpected line start: %q", out)
	}
	for _, s := range []string{"grp.n=42", "grp.pi=3.14", "grp.ok=true", `grp.msg="two words"`, "grp.box.w=70"} {
		if !strings.Contains(out, s) {
			t.Fatalf("output lacks %q: %q", s, out)
		}
	}
	if !strings.HasSuffix(out, "\n") || strings.Count(out, "\n") != 1 {
		t.Fatalf("expected exactly one line: %q", out)
	}
}

func TestLevelTag(t *testing.T) {
	cases := map[slog.Level]string{
		slog.LevelDebug: "DBG", slog.LevelInfo: "INF", slog.LevelWarn: "WRN",
		slog.LevelError: "ERR", slog.LevelError + 4: "ERR", slog.LevelInfo + 1: "INF",
	}
	for l, want := range cases {
		if got := levelTag(l); got != want {
			t.Fatalf("levelTag(%v) = %s, want %s", l, got, want)
		}
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestFanoutSkipsDisabledAndJoinsErrors(t *testing.T) {
	var loud, quiet bytes.Buffer
	f := fanout{
		newConsoleHandler(&loud, slog.LevelDebug, false),
		newConsoleHandler(&quiet, slog.LevelError, false),
	}
	ctx := context.Background()
	if err := f.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(loud.String(), "hello") || quiet.Len() != 0 {
		t.Fatalf("fanout routing wrong: loud=%q quiet=%q", loud.String(), quiet.String())
	}

	bad := fanout{failingHandler{newConsoleHandler(&loud, slog.LevelDebug, false)}}
	if err := bad.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0)); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected joined error, got %v", err)
	}
}
