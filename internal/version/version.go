/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


// Package version holds build metadata set via -ldflags.
package version

import "runtime/debug"

// Version is overridden at build time:
//
//	go build -ldflags "-X resizecanvas/internal/version.Version=v1.2.0"
var Version = "dev"

// Commit is the VCS revision, filled from build info when not set by ldflags.
var Commit = ""

// String returns the version with a short commit suffix when known.
func String() string {
	c := Commit
	if c == "" {
		c = vcsRevision()
	}
	if len(c) > 7 {
		c = c[:7]
	}
	if c == "" {
		return Version
	}
	return Version + " (" + c + ")"
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
