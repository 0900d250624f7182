/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package remote serves a session over HTTP and WebSocket so browsers and
// scripts can drive the canvas from another process.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"resizecanvas/internal/canvas"
	"resizecanvas/internal/export"
	applog "resizecanvas/internal/log"
	"resizecanvas/internal/script"
	"resizecanvas/internal/seed"
	"resizecanvas/internal/session"
	"resizecanvas/internal/version"
)

const maxBody = 1 << 20

// Options configures a Server.
type Options struct {
	Addr           string
	AllowedOrigins []string // WebSocket origin patterns
	Export         export.Options
	Logger         *slog.Logger
}

// Server exposes a session.
type Server struct {
	sess   *session.Session
	hub    *Hub
	opt    Options
	log    *slog.Logger
	router *mux.Router
}

// New builds the routes. Run starts the hub and the listener.
func New(sess *session.Session, opt Options) *Server {
	l := opt.Logger
	if l == nil {
		l = applog.WithComponent("remote")
	}
	s := &Server{sess: sess, hub: NewHub(sess, l), opt: opt, log: l}

	r := mux.NewRouter()
	r.Use(recoverPanics(l))
	r.Use(logRequests(l))

	r.HandleFunc("/health", s.health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/view", s.getView).Methods("GET")
	api.HandleFunc("/events", s.postEvents).Methods("POST")
	api.HandleFunc("/scene.{format:svg|png|pdf}", s.getScene).Methods("GET")
	api.HandleFunc("/seed", s.getSeed).Methods("GET")
	api.HandleFunc("/scripts", s.listScripts).Methods("GET")
	api.HandleFunc("/scripts", s.playPosted).Methods("POST")
	api.HandleFunc("/scripts/{name}/play", s.playBuiltin).Methods("POST")

	r.HandleFunc("/ws", s.serveWS)
	s.router = r
	return s
}

// Handler is the routed HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the broadcast hub of connected clients.
func (s *Server) Hub() *Hub { return s.hub }

// Run serves on opt.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	srv := &http.Server{
		Addr:         s.opt.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", slog.String("addr", s.opt.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.String(),
		"clients": s.hub.Clients(),
	})
}

func (s *Server) getView(w http.ResponseWriter, r *http.Request) {
	v, err := s.sess.View(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type eventsResult struct {
	Changed bool        `json:"changed"`
	Applied int         `json:"applied"`
	View    canvas.View `json:"view"`
}

// postEvents accepts one event object or an array applied in order. An
// array stops at the first rejected event.
func (s *Server) postEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid", err)
		return
	}
	var events []canvas.Event
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &events)
	} else {
		var ev canvas.Event
		err = json.Unmarshal(trimmed, &ev)
		events = []canvas.Event{ev}
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid", err)
		return
	}

	var res eventsResult
	for i, ev := range events {
		changed, v, err := s.sess.Dispatch(r.Context(), ev)
		if err != nil {
			code, status := errorCode(err)
			writeJSON(w, status, map[string]any{
				"code":    code,
				"error":   err.Error(),
				"index":   i,
				"applied": res.Applied,
			})
			return
		}
		res.Changed = res.Changed || changed
		res.Applied++
		res.View = v
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) getScene(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown-format", err)
		return
	}
	opt := s.opt.Export
	if v := r.URL.Query().Get("chrome"); v != "" {
		opt.Chrome, _ = strconv.ParseBool(v)
	}
	var scene export.Scene
	if err := s.sess.Inspect(r.Context(), func(c *canvas.Canvas) { scene = export.SceneOf(c) }); err != nil {
		s.fail(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, f, scene, opt); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// getSeed returns the committed polygons in seed file form.
func (s *Server) getSeed(w http.ResponseWriter, r *http.Request) {
	var data []byte
	var encErr error
	err := s.sess.Inspect(r.Context(), func(c *canvas.Canvas) { data, encErr = seed.Encode(c.Polygons()) })
	if err == nil {
		err = encErr
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(data)
}

type scriptInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Steps       int    `json:"steps"`
}

func (s *Server) listScripts(w http.ResponseWriter, r *http.Request) {
	all, err := script.Builtin()
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]scriptInfo, len(all))
	for i, sc := range all {
		out[i] = scriptInfo{Name: sc.Name, Description: sc.Description, Steps: len(sc.Steps)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) playBuiltin(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	sc, ok := script.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown-script", fmt.Errorf("no script named %q", name))
		return
	}
	s.play(w, r, sc)
}

// playPosted replays a YAML script from the request body.
func (s *Server) playPosted(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid", err)
		return
	}
	sc, errs := script.Parse(string(body))
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "invalid-script", "errors": errs})
		return
	}
	s.play(w, r, sc)
}

func (s *Server) play(w http.ResponseWriter, r *http.Request, sc script.Script) {
	t := s.sess.Target(r.Context())
	if err := script.Play(sc, t); err != nil {
		var se script.Error
		if errors.As(err, &se) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"code": "script-failed", "error": se.Error(), "line": se.Line})
			return
		}
		s.fail(w, err)
		return
	}
	s.getView(w, r)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.opt.AllowedOrigins,
	})
	if err != nil {
		s.log.Warn("websocket accept", slog.Any("err", err))
		return
	}

	client := NewClient(s.hub, conn, uuid.New().String())
	if !s.hub.Register(client) {
		conn.Close(websocket.StatusGoingAway, "server stopping")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	code, status := errorCode(err)
	if status >= 500 {
		s.log.Error("request failed", slog.Any("err", err))
	}
	writeError(w, status, code, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, map[string]string{"code": code, "error": err.Error()})
}
