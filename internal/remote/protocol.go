/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package remote

import (
	"encoding/json"
	"errors"
	"net/http"

	"resizecanvas/internal/canvas"
	"resizecanvas/internal/gesture"
	"resizecanvas/internal/session"
	"resizecanvas/internal/vector"
)

// Message is the envelope of every WebSocket frame.
type Message struct {
	Type     string          `json:"type"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      uint64          `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Canvas events
	TypeEventSubmit = "event.submit"
	TypeEventAck    = "event.ack"
	TypeEventNack   = "event.nack"
	TypeViewRequest = "view.request"
	TypeViewSync    = "view.sync"
	TypeViewUpdate  = "view.update"

	// Presence
	TypePresenceUpdate = "presence.update"
	TypePresenceLeave  = "presence.leave"
)

type WelcomePayload struct {
	ClientID string      `json:"clientId"`
	View     canvas.View `json:"view"`
}

type AckPayload struct {
	Changed bool        `json:"changed"`
	View    canvas.View `json:"view"`
}

type NackPayload struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// PresencePayload is relayed verbatim to the other clients.
type PresencePayload struct {
	Cursor *vector.Pt `json:"cursor,omitempty"`
	Handle string     `json:"handle,omitempty"`
}

type LeavePayload struct {
	ClientID string `json:"clientId"`
}

// errorCode classifies canvas errors for clients. The HTTP status is the
// one the REST surface answers with.
func errorCode(err error) (string, int) {
	switch {
	case errors.Is(err, canvas.ErrEmptySelection):
		return "empty-selection", http.StatusConflict
	case errors.Is(err, gesture.ErrGestureActive):
		return "gesture-active", http.StatusConflict
	case errors.Is(err, canvas.ErrUnknownShape):
		return "unknown-shape", http.StatusNotFound
	case errors.Is(err, gesture.ErrInvalidHandle):
		return "invalid-handle", http.StatusBadRequest
	case errors.Is(err, vector.ErrNonFinite):
		return "non-finite", http.StatusBadRequest
	case errors.Is(err, canvas.ErrUnknownEvent):
		return "unknown-event", http.StatusBadRequest
	case errors.Is(err, session.ErrClosed):
		return "closed", http.StatusServiceUnavailable
	}
	return "internal", http.StatusInternalServerError
}

func encode(typ string, payload any) (*Message, error) {
	msg := &Message{Type: typ}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = b
	}
	return msg, nil
}
