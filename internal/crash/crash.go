/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a fatal panic into a logged error, a crash report file
// and a non-zero exit.
package crash

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "resizecanvas/internal/log"
	"resizecanvas/internal/version"
)

// Process hooks, swapped out by tests.
var (
	exitFn           = os.Exit
	stderr io.Writer = os.Stderr
)

// reportDir is where crash reports go; tests point it at a temp dir.
var reportDir = os.TempDir

// StateFunc describes the application state worth keeping in a crash report,
// for example the current selection and bounding box.
type StateFunc func() string

// Recover captures a panic, logs an error with stacktrace,
// writes an error report file including the output of state (may be nil),
// and exits with code 2.
//
// Usage: defer crash.Recover(state)
func Recover(state StateFunc) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	path, err := writeReport(describe(state), r, stack)
	if err != nil {
		l.Error("crash report not written", slog.Any("err", err), slog.String("path", path))
	}
	_, _ = fmt.Fprintf(stderr, "resizecanvas crashed (%s, %s/%s). Report: %s\n",
		version.String(), runtime.GOOS, runtime.GOARCH, path)
	exitFn(2)
}

// describe runs state, tolerating a second panic inside it.
func describe(state StateFunc) (s string) {
	if state == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<state unavailable: %v>", r)
		}
	}()
	return state()
}

func writeReport(state string, panicVal any, stack []byte) (string, error) {
	now := time.Now()
	path := filepath.Join(reportDir(), "resizecanvas-crash-"+now.Format("20060102-150405.000")+".log")

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "resizecanvas crash report")
	fmt.Fprintf(&buf, "time:    %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&buf, "version: %s\n", version.String())
	fmt.Fprintf(&buf, "os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if state != "" {
		fmt.Fprintf(&buf, "state:   %s\n", state)
	}
	fmt.Fprintf(&buf, "\npanic: %v\n\n%s\n", panicVal, stack)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, fmt.Errorf("write crash report: %w", err)
	}
	return path, nil
}
