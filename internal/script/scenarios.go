/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed scenarios/*.yaml
var scenarioFS embed.FS

// Builtin returns the bundled scenarios in file order.
func Builtin() ([]Script, error) {
	names, err := fs.Glob(scenarioFS, "scenarios/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]Script, 0, len(names))
	for _, n := range names {
		b, err := scenarioFS.ReadFile(n)
		if err != nil {
			return nil, err
		}
		s, errs := Parse(string(b))
		if len(errs) > 0 {
			return nil, fmt.Errorf("%s: %w", path.Base(n), errs[0])
		}
		out = append(out, s)
	}
	return out, nil
}

// Lookup finds a bundled scenario by name.
func Lookup(name string) (Script, bool) {
	all, err := Builtin()
	if err != nil {
		return Script{}, false
	}
	for _, s := range all {
		if s.Name == name {
			return s, true
		}
	}
	return Script{}, false
}
