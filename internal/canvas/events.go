/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"errors"
	"fmt"

	"resizecanvas/internal/gesture"
	"resizecanvas/internal/vector"
)

// EventType names a Canvas operation in serialized form.
type EventType string

const (
	EventSelect      EventType = "select"
	EventSelectAt    EventType = "select-at"
	EventSelectRect  EventType = "select-rect"
	EventResizeStart EventType = "resize-start"
	EventResizeMove  EventType = "resize-move"
	EventResizeEnd   EventType = "resize-end"
	EventMoveStart   EventType = "move-start"
	EventMoveMove    EventType = "move-move"
	EventMoveEnd     EventType = "move-end"
	EventCancel      EventType = "cancel"
	EventCommit      EventType = "commit"
	EventReset       EventType = "reset"
)

// ErrUnknownEvent is returned by Dispatch for an unrecognized event type.
var ErrUnknownEvent = errors.New("unknown event type")

// Event is the serializable form of one host event. Only the fields the
// type needs are read.
type Event struct {
	Type   EventType      `json:"type" yaml:"type"`
	Handle gesture.Handle `json:"handle,omitempty" yaml:"handle,omitempty"`
	Point  vector.Pt      `json:"point" yaml:"point"`
	IDs    []int          `json:"ids,omitempty" yaml:"ids,omitempty"`
	Rect   vector.Rect    `json:"rect" yaml:"rect"`
}

// Dispatch applies ev. changed reports whether the canvas state may have
// changed; stale pointer events report false with a nil error.
func (c *Canvas) Dispatch(ev Event) (changed bool, err error) {
	switch ev.Type {
	case EventSelect:
		err = c.Select(ev.IDs)
	case EventSelectAt:
		err = c.SelectAt(ev.Point)
	case EventSelectRect:
		err = c.SelectInRect(ev.Rect)
	case EventResizeStart:
		err = c.ResizeStart(ev.Handle)
	case EventResizeMove:
		return c.ResizeMove(ev.Point), nil
	case EventResizeEnd:
		return c.ResizeEnd(), nil
	case EventMoveStart:
		err = c.MoveStart(ev.Point)
	case EventMoveMove:
		return c.MoveMove(ev.Point), nil
	case EventMoveEnd:
		return c.MoveEnd(), nil
	case EventCancel:
		return c.Cancel(), nil
	case EventCommit:
		err = c.Commit()
	case EventReset:
		c.Reset()
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return err == nil, err
}
