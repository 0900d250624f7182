/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session confines a canvas to a single goroutine so that
// multi-threaded hosts can drive it with messages. Readers only ever receive
// copied views.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"resizecanvas/internal/canvas"
	applog "resizecanvas/internal/log"
)

// ErrClosed is returned once Run has stopped.
var ErrClosed = errors.New("session closed")

// Update is broadcast to subscribers after every event that changed state.
type Update struct {
	Seq   uint64       `json:"seq"`
	Event canvas.Event `json:"event"`
	View  canvas.View  `json:"view"`
}

type request struct {
	ev     canvas.Event
	isView bool
	fn     func(*canvas.Canvas)
	reply  chan reply
}

type reply struct {
	changed bool
	view    canvas.View
	err     error
}

// Session owns a canvas. All access goes through Run's goroutine.
type Session struct {
	cv    *canvas.Canvas
	reqs  chan request
	done  chan struct{}
	close sync.Once

	mu     sync.RWMutex
	subs   map[int]chan Update
	nextID int

	seq uint64 // only touched by Run
	log *slog.Logger
}

// New wraps c. The caller must not touch c directly afterwards.
func New(c *canvas.Canvas) *Session {
	return &Session{
		cv:   c,
		reqs: make(chan request),
		done: make(chan struct{}),
		subs: make(map[int]chan Update),
		log:  applog.WithComponent("session"),
	}
}

// Run serves requests until ctx is done. It returns ctx.Err().
func (s *Session) Run(ctx context.Context) error {
	defer s.close.Do(func() { close(s.done) })
	s.log.Debug("session started")
	for {
		select {
		case req := <-s.reqs:
			s.handle(req)
		case <-ctx.Done():
			s.log.Debug("session stopped", slog.Any("reason", ctx.Err()))
			return ctx.Err()
		}
	}
}

func (s *Session) handle(req request) {
	switch {
	case req.fn != nil:
		req.fn(s.cv)
		req.reply <- reply{}
		return
	case req.isView:
		req.reply <- reply{view: s.cv.View()}
		return
	}
	changed, err := s.cv.Dispatch(req.ev)
	v := s.cv.View()
	if changed {
		s.seq++
		s.broadcast(Update{Seq: s.seq, Event: req.ev, View: v})
	}
	if err != nil {
		s.log.Debug("event rejected", slog.String("type", string(req.ev.Type)), slog.Any("err", err))
	}
	req.reply <- reply{changed: changed, view: v, err: err}
}

func (s *Session) do(ctx context.Context, req request) (reply, error) {
	req.reply = make(chan reply, 1)
	select {
	case s.reqs <- req:
	case <-s.done:
		return reply{}, ErrClosed
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r, nil
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

// Dispatch applies ev on the session goroutine and returns the resulting view.
func (s *Session) Dispatch(ctx context.Context, ev canvas.Event) (bool, canvas.View, error) {
	r, err := s.do(ctx, request{ev: ev})
	if err != nil {
		return false, canvas.View{}, err
	}
	return r.changed, r.view, r.err
}

// View returns a snapshot of the canvas.
func (s *Session) View(ctx context.Context) (canvas.View, error) {
	r, err := s.do(ctx, request{isView: true})
	return r.view, err
}

// Inspect runs fn on the session goroutine. fn must only read from the
// canvas and must not retain it.
func (s *Session) Inspect(ctx context.Context, fn func(c *canvas.Canvas)) error {
	_, err := s.do(ctx, request{fn: fn})
	return err
}

// Subscribe registers for updates. A subscriber that falls behind by more
// than buf updates misses them; the session never blocks on a reader.
// cancel unregisters and closes the channel.
func (s *Session) Subscribe(buf int) (updates <-chan Update, cancel func()) {
	if buf < 1 {
		buf = 1
	}
	ch := make(chan Update, buf)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers is the number of registered subscribers.
func (s *Session) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Session) broadcast(u Update) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, ch := range s.subs {
		select {
		case ch <- u:
		default:
			s.log.Warn("subscriber buffer full, dropping update", slog.Int("subscriber", id), slog.Uint64("seq", u.Seq))
		}
	}
}

// Target adapts the session to script.Target using ctx for every call.
func (s *Session) Target(ctx context.Context) *Target { return &Target{s: s, ctx: ctx} }

// Target replays events through a session.
type Target struct {
	s   *Session
	ctx context.Context
}

// Dispatch submits ev to the session and waits for its result.
func (t *Target) Dispatch(ev canvas.Event) (bool, error) {
	changed, _, err := t.s.Dispatch(t.ctx, ev)
	return changed, err
}

// View returns the zero view if the session is gone; the following Dispatch
// reports the error.
func (t *Target) View() canvas.View {
	v, _ := t.s.View(t.ctx)
	return v
}
