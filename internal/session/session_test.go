/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"resizecanvas/internal/canvas"
	applog "resizecanvas/internal/log"
	"resizecanvas/internal/script"
	"resizecanvas/internal/seed"
	"resizecanvas/internal/vector"
)

func start(t *testing.T) (*Session, context.CancelFunc) {
	t.Helper()
	c, err := canvas.New(seed.Default(), canvas.Options{Logger: applog.Discard()})
	if err != nil {
		t.Fatalf("canvas.New: %v", err)
	}
	s := New(c)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s, cancel
}

func TestDispatchAndView(t *testing.T) {
	s, _ := start(t)
	ctx := context.Background()
	changed, v, err := s.Dispatch(ctx, canvas.Event{Type: canvas.EventSelect, IDs: []int{0, 1, 2}})
	if err != nil || !changed {
		t.Fatalf("select: changed=%v err=%v", changed, err)
	}
	if v.Box != vector.R(230, 220, 70, 80) {
		t.Fatalf("box %+v", v.Box)
	}
	got, err := s.View(ctx)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if len(got.Selection) != 3 {
		t.Fatalf("selection %v", got.Selection)
	}
}

func TestDispatchReportsCanvasErrors(t *testing.T) {
	s, _ := start(t)
	_, _, err := s.Dispatch(context.Background(), canvas.Event{Type: canvas.EventMoveStart, Point: vector.Pt{X: 1, Y: 1}})
	if !errors.Is(err, canvas.ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
}

func TestInspectRunsOnSession(t *testing.T) {
	s, _ := start(t)
	var n int
	if err := s.Inspect(context.Background(), func(c *canvas.Canvas) { n = len(c.Polygons()) }); err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 polygons, got %d", n)
	}
}

func TestSubscribersReceiveUpdates(t *testing.T) {
	s, _ := start(t)
	ch, cancel := s.Subscribe(8)
	defer cancel()
	ctx := context.Background()
	events := []canvas.Event{
		{Type: canvas.EventSelect, IDs: []int{0}},
		{Type: canvas.EventMoveStart, Point: vector.Pt{X: 285, Y: 240}},
		{Type: canvas.EventMoveMove, Point: vector.Pt{X: 295, Y: 260}},
		{Type: canvas.EventMoveEnd},
	}
	for _, ev := range events {
		if _, _, err := s.Dispatch(ctx, ev); err != nil {
			t.Fatalf("%s: %v", ev.Type, err)
		}
	}
	var last Update
	for i := 0; i < len(events); i++ {
		select {
		case last = <-ch:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for update %d", i)
		}
		if last.Seq != uint64(i+1) {
			t.Fatalf("update %d has seq %d", i, last.Seq)
		}
	}
	if last.Event.Type != canvas.EventMoveEnd || last.View.Polygons[0].PointsString() != "280,250 310,250 295,280" {
		t.Fatalf("unexpected final update %+v", last)
	}
}

func TestStaleEventsAreNotBroadcast(t *testing.T) {
	s, _ := start(t)
	ch, cancel := s.Subscribe(1)
	defer cancel()
	if changed, _, err := s.Dispatch(context.Background(), canvas.Event{Type: canvas.EventResizeMove, Point: vector.Pt{X: 5, Y: 5}}); changed || err != nil {
		t.Fatalf("stale move: changed=%v err=%v", changed, err)
	}
	select {
	case u := <-ch:
		t.Fatalf("unexpected update %+v", u)
	default:
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	s, _ := start(t)
	_, cancel := s.Subscribe(1)
	defer cancel()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		ctx, stop := context.WithTimeout(ctx, time.Second)
		_, _, err := s.Dispatch(ctx, canvas.Event{Type: canvas.EventSelect, IDs: []int{i % 3}})
		stop()
		if err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	s, _ := start(t)
	ch, cancel := s.Subscribe(1)
	if s.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber")
	}
	cancel()
	cancel()
	if s.Subscribers() != 0 {
		t.Fatalf("expected 0 subscribers")
	}
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed")
	}
}

func TestClosedSession(t *testing.T) {
	s, cancel := start(t)
	cancel()
	deadline := time.Now().Add(time.Second)
	for {
		_, err := s.View(context.Background())
		if errors.Is(err, ErrClosed) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestConcurrentClients(t *testing.T) {
	s, _ := start(t)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, _, err := s.Dispatch(ctx, canvas.Event{Type: canvas.EventSelect, IDs: []int{(i + j) % 3}}); err != nil {
					t.Errorf("dispatch: %v", err)
					return
				}
				if _, err := s.View(ctx); err != nil {
					t.Errorf("view: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestTargetPlaysScenarios(t *testing.T) {
	all, err := script.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	for _, sc := range all {
		s, _ := start(t)
		if err := script.Play(sc, s.Target(context.Background())); err != nil {
			t.Fatalf("%s: %v", sc.Name, err)
		}
	}
}
