/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import "resizecanvas/internal/vector"

// Mover translates a box by the pointer delta since Start.
type Mover struct {
	state       State
	startPtr    vector.Pt
	origin      vector.Pt // box top-left at Start
	translation vector.Pt
}

// State is the current gesture state.
func (m *Mover) State() State { return m.state }

// Active reports whether a move is in progress.
func (m *Mover) Active() bool { return m.state == Moving }

// Translation is the pointer delta since Start, zero while idle.
func (m *Mover) Translation() vector.Pt { return m.translation }

// Start begins a move at pointer p for a box whose top-left is origin.
func (m *Mover) Start(p, origin vector.Pt) error {
	if m.state != Idle {
		return ErrGestureActive
	}
	m.state = Moving
	m.startPtr = p
	m.origin = origin
	m.translation = vector.Pt{}
	return nil
}

// Move sets the translation to p minus the start pointer. Ignored (false)
// while idle.
func (m *Mover) Move(p vector.Pt) bool {
	if m.state != Moving || !p.IsFinite() {
		return false
	}
	m.translation = p.Sub(m.startPtr)
	return true
}

// Transform is the live move as a GroupTransform.
func (m *Mover) Transform() GroupTransform {
	t := IdentityAt(m.origin)
	t.Translation = m.translation
	return t
}

// End finishes the move and returns its transform.
func (m *Mover) End() (GroupTransform, bool) {
	if m.state != Moving {
		return IdentityAt(m.origin), false
	}
	t := m.Transform()
	m.state = Idle
	m.translation = vector.Pt{}
	return t, true
}

// Cancel drops the move without producing a transform.
func (m *Mover) Cancel() {
	m.state = Idle
	m.translation = vector.Pt{}
}
