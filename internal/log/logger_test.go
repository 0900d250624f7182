/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func lastJSONLine(t *testing.T, path string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines in %s", path)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal %q: %v", last, err)
	}
	return m
}

func TestFileSinkCarriesStaticAndContextAttrs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rcv.log")
	Init(Options{Level: "debug", Format: "json", File: path, Writer: io.Discard})
	t.Cleanup(func() { Init(Options{Level: "error", Writer: io.Discard}) })

	l := WithGesture(WithOperation(WithComponent("canvas"), "commit"), "g-123")
	ctx := ContextWith(context.Background(), slog.String("client", "c1"))
	l.InfoContext(ctx, "resize committed", slog.Float64("w", 110))

	m := lastJSONLine(t, path)
	want := map[string]any{
		"app": AppName, "component": "canvas", "op": "commit", "gesture": "g-123",
		"client": "c1", "msg": "resize committed", "w": 110.0,
	}
	for k, v := range want {
		if m[k] != v {
			t.Fatalf("%s = %v, want %v (record %v)", k, m[k], v, m)
		}
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr: %v", m)
	}
}

func TestInitWritesConsoleToWriter(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "console", Writer: &buf})
	t.Cleanup(func() { Init(Options{Level: "error", Writer: io.Discard}) })

	WithComponent("canvas").Debug("hidden")
	WithComponent("canvas").Info("commit", slog.Float64("w", 70))
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record leaked at info level: %q", out)
	}
	for _, s := range []string{"INF commit", "component=canvas", "w=70", "app=" + AppName} {
		if !strings.Contains(out, s) {
			t.Fatalf("console output lacks %q: %q", s, out)
		}
	}
}

func TestJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Format: "JSON", Writer: &buf})
	t.Cleanup(func() { Init(Options{Level: "error", Writer: io.Discard}) })

	L().Info("dropped")
	L().Warn("kept", slog.Int("n", 3))
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("expected a single json record, got %q: %v", buf.String(), err)
	}
	if m["msg"] != "kept" || m["n"] != 3.0 {
		t.Fatalf("unexpected record %v", m)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RCV_LOG_LEVEL", "warn")
	t.Setenv("RCV_LOG_FORMAT", "json")
	t.Setenv("RCV_LOG_SOURCE", "TRUE")
	t.Setenv("RCV_LOG_FILE", "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if v := getenv("RCV_SURELY_UNSET", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback failed: %q", v)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, " WARN ": slog.LevelWarn, "warning": slog.LevelWarn,
		"error": slog.LevelError, "": slog.LevelInfo, "loud": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDiscardLogger(t *testing.T) {
	l := Discard()
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("discard logger must not be enabled")
	}
	l.With("k", "v").WithGroup("g").Error("nothing")
}
