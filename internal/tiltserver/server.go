// Package tiltserver lets a phone act as the kaleidoscope's tilt sensor. It
// serves a small page that streams deviceorientation readings back over a
// websocket.
package tiltserver

import (
	"context"
	_ "embed"
	"errors"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iburimskiy/kaleidoscope/internal/field"
)

//go:embed index.html
var page []byte

// Message is what the page sends: either a permission answer or one
// orientation reading in degrees.
type Message struct {
	Permission string   `json:"permission,omitempty"`
	Beta       *float64 `json:"beta,omitempty"`
	Gamma      *float64 `json:"gamma,omitempty"`
}

// Server forwards readings from connected phones to an Input.
type Server struct {
	input    *field.Input
	upgrader websocket.Upgrader
	clients  atomic.Int32
	nextID   atomic.Int32
}

func New(in *field.Input) *Server {
	return &Server{
		input: in,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The page is served from this same server but phones reach it by
			// LAN address, so any origin is accepted.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Clients is the number of phones currently connected.
func (s *Server) Clients() int { return int(s.clients.Load()) }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.servePage)
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("tilt: upgrade failed: %v", err)
		return
	}
	id := s.nextID.Add(1)
	s.clients.Add(1)
	log.Printf("tilt: client %d connected from %s", id, r.RemoteAddr)
	defer func() {
		s.clients.Add(-1)
		conn.Close()
		log.Printf("tilt: client %d disconnected", id)
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("tilt: client %d: %v", id, err)
			}
			return
		}
		s.handle(id, msg)
	}
}

func (s *Server) handle(id int32, msg Message) {
	if msg.Permission != "" {
		o, ok := s.input.Provider.(*field.OrientationProvider)
		if !ok {
			return
		}
		err := o.RequestPermission(func() (bool, error) { return msg.Permission == "granted", nil })
		if errors.Is(err, field.ErrPermissionDenied) {
			log.Printf("tilt: client %d denied motion access", id)
		}
		return
	}
	if msg.Beta == nil || msg.Gamma == nil {
		return
	}
	s.input.Dispatch(field.OrientationEvent(*msg.Beta, *msg.Gamma))
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	log.Printf("tilt: open http://<this-host>%s on your phone", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
