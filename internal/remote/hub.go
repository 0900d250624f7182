/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package remote

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"resizecanvas/internal/canvas"
	"resizecanvas/internal/session"
)

type relay struct {
	from *Client
	msg  *Message
}

// Hub fans session updates and presence out to the connected clients.
// The client set is owned by Run.
type Hub struct {
	sess       *session.Session
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	relay      chan relay
	done       chan struct{}
	count      atomic.Int32
	log        *slog.Logger
}

// NewHub returns a hub broadcasting the updates of sess.
func NewHub(sess *session.Session, l *slog.Logger) *Hub {
	return &Hub{
		sess:       sess,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		relay:      make(chan relay, 64),
		done:       make(chan struct{}),
		log:        l,
	}
}

// Run serves the hub until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	updates, cancel := h.sess.Subscribe(256)
	defer cancel()
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.count.Store(int32(len(h.clients)))
			h.welcome(ctx, c)
			h.log.Info("client connected", slog.String("client", c.ID), slog.Int("clients", len(h.clients)))

		case c := <-h.unregister:
			if !h.clients[c] {
				continue
			}
			delete(h.clients, c)
			c.close()
			h.count.Store(int32(len(h.clients)))
			if msg, err := encode(TypePresenceLeave, LeavePayload{ClientID: c.ID}); err == nil {
				h.broadcast(msg, nil)
			}
			h.log.Info("client disconnected", slog.String("client", c.ID), slog.Int("clients", len(h.clients)))

		case u, ok := <-updates:
			if !ok {
				return
			}
			msg, err := encode(TypeViewUpdate, u)
			if err != nil {
				h.log.Error("encode update", slog.Any("err", err))
				continue
			}
			msg.Seq = u.Seq
			h.broadcast(msg, nil)

		case r := <-h.relay:
			h.broadcast(r.msg, r.from)

		case <-ctx.Done():
			for c := range h.clients {
				c.close()
				delete(h.clients, c)
			}
			h.count.Store(0)
			return
		}
	}
}

// Clients is the number of connected clients.
func (h *Hub) Clients() int { return int(h.count.Load()) }

// Register adds c; it reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c and closes its send queue.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) welcome(ctx context.Context, c *Client) {
	v, err := h.sess.View(ctx)
	if err != nil {
		h.log.Warn("welcome view", slog.Any("err", err))
	}
	msg, err := encode(TypeWelcome, WelcomePayload{ClientID: c.ID, View: v})
	if err != nil {
		return
	}
	c.Send(msg)
}

func (h *Hub) broadcast(msg *Message, except *Client) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal message", slog.Any("err", err))
		return
	}
	for c := range h.clients {
		if c != except {
			c.sendRaw(data)
		}
	}
}

// handleMessage runs on the client's read goroutine.
func (h *Hub) handleMessage(ctx context.Context, c *Client, msg *Message) {
	switch msg.Type {
	case TypeEventSubmit:
		var ev canvas.Event
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			c.nack(msg.Seq, "invalid", err)
			return
		}
		changed, v, err := h.sess.Dispatch(ctx, ev)
		if err != nil {
			code, _ := errorCode(err)
			c.nack(msg.Seq, code, err)
			return
		}
		if ack, err := encode(TypeEventAck, AckPayload{Changed: changed, View: v}); err == nil {
			ack.Seq = msg.Seq
			c.Send(ack)
		}

	case TypeViewRequest:
		v, err := h.sess.View(ctx)
		if err != nil {
			code, _ := errorCode(err)
			c.nack(msg.Seq, code, err)
			return
		}
		if out, err := encode(TypeViewSync, v); err == nil {
			out.Seq = msg.Seq
			c.Send(out)
		}

	case TypePresenceUpdate:
		var p PresencePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			c.nack(msg.Seq, "invalid", err)
			return
		}
		select {
		case h.relay <- relay{from: c, msg: msg}:
		case <-ctx.Done():
		}

	default:
		if out, err := encode(TypeError, NackPayload{Code: "unknown-type", Error: "unknown message type " + msg.Type}); err == nil {
			c.Send(out)
		}
	}
}
