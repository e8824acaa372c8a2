// Package apiserver serves a live preview of a playback session over HTTP:
// transport controls, the latest frame as PNG and a websocket frame stream.
package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"pianoviz/canvas"
	"pianoviz/notes"
	"pianoviz/player"
	"pianoviz/session"
)

// Options configure the preview.
type Options struct {
	Width, Height int
}

// Server renders the session on every player tick and publishes the frames.
type Server struct {
	log    logrus.FieldLogger
	ses    *session.Session
	player *player.Player
	opts   Options
	surf   *canvas.GGSurface

	lock      sync.RWMutex
	frame     []byte // latest frame, PNG
	frameNo   uint64
	listeners []chan<- []byte
}

// New creates a server for ses driven by pl.
func New(ses *session.Session, pl *player.Player, opts Options, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		log:    log,
		ses:    ses,
		player: pl,
		opts:   opts,
		surf:   canvas.NewGGSurface(opts.Width, opts.Height),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mx := chi.NewMux()
	mx.Use(cors)
	mx.Get("/state", s.serveState)
	mx.Get("/frame.png", s.serveFrame)
	mx.Get("/ws", s.serveSocket)
	mx.Post("/play", s.servePlay)
	mx.Post("/reset", s.serveReset)
	mx.Post("/zoom/in", s.serveZoom(s.ses.ZoomIn))
	mx.Post("/zoom/out", s.serveZoom(s.ses.ZoomOut))
	mx.Post("/seek", s.serveSeek)
	mx.NotFound(s.serveNotFound)
	return mx
}

// Reload swaps in a new recording and stops playback.
func (s *Server) Reload(rec notes.Recording) {
	s.ses.Load(rec)
	s.player.SetDuration(s.ses.Duration())
}

// Run renders on every player tick and serves on l until ctx is done.
func (s *Server) Run(ctx context.Context, l net.Listener) error {
	cancel := s.player.RequestTick(s.onTick)
	defer cancel()

	srv := http.Server{
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 2)
	go func() { errc <- s.player.Run(ctx) }()
	go func() { errc <- srv.Serve(l) }()
	s.log.WithField("addr", "http://"+l.Addr().String()+"/").Info("serving preview")

	var err error
	select {
	case <-ctx.Done():
	case err = <-errc:
	}
	srv.Close()
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) onTick(tk player.Tick) {
	view := s.ses.View(tk.Playback, s.opts.Width, s.opts.Height)
	if _, err := s.ses.Tick(session.Input{Time: tk.Time, Delta: tk.Delta, View: view}, s.surf); err != nil {
		if !errors.Is(err, session.ErrClosed) {
			s.log.WithError(err).Debug("tick skipped")
		}
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.surf.Image()); err != nil {
		s.log.WithError(err).Error("encoding frame")
		return
	}
	s.publish(buf.Bytes())
}

// publish stores the frame and hands it to every listener that keeps up.
func (s *Server) publish(frame []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.frame = frame
	s.frameNo++
	for _, l := range s.listeners {
		select {
		case l <- frame:
		default:
		}
	}
}

func (s *Server) addListener(ch chan<- []byte) []byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.listeners = append(s.listeners, ch)
	return s.frame
}

func (s *Server) removeListener(ch chan<- []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for i, l := range s.listeners {
		if l == ch {
			s.listeners[i] = s.listeners[len(s.listeners)-1]
			s.listeners[len(s.listeners)-1] = nil
			s.listeners = s.listeners[:len(s.listeners)-1]
			return
		}
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// State is the JSON body of /state and of every control response.
type State struct {
	Session  session.Info `json:"session"`
	Player   string       `json:"player"`
	Playback float64      `json:"playback"`
	Progress float64      `json:"progress"`
	Frame    uint64       `json:"frame"`
}

func (s *Server) state() State {
	s.lock.RLock()
	n := s.frameNo
	s.lock.RUnlock()
	return State{
		Session:  s.ses.Info(),
		Player:   s.player.State().String(),
		Playback: s.player.PlaybackTime(),
		Progress: s.player.Progress(),
		Frame:    n,
	}
}

func (s *Server) logResponse(r *http.Request, status int, msg string) {
	log := s.log.WithFields(logrus.Fields{"status": status, "url": r.URL.String()})
	if status >= 400 {
		if msg == "" {
			msg = http.StatusText(status)
		}
		log.Error(msg)
	} else {
		log.Debug(msg)
	}
}

func (s *Server) serveJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.serveStatus(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.logResponse(r, http.StatusOK, "")
	hdr := w.Header()
	hdr.Set("Content-Type", "application/json")
	hdr.Set("Content-Length", strconv.Itoa(len(data)))
	hdr.Set("Cache-Control", "no-cache")
	w.Write(data)
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.logResponse(r, status, msg)
	if msg == "" {
		msg = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	w.WriteHeader(status)
	w.Write([]byte(msg + "\n"))
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	s.serveStatus(w, r, http.StatusNotFound, "")
}

func (s *Server) serveState(w http.ResponseWriter, r *http.Request) {
	s.serveJSON(w, r, s.state())
}

func (s *Server) serveFrame(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	frame := s.frame
	s.lock.RUnlock()
	if frame == nil {
		s.serveStatus(w, r, http.StatusServiceUnavailable, "no frame rendered yet")
		return
	}
	s.logResponse(r, http.StatusOK, "")
	hdr := w.Header()
	hdr.Set("Content-Type", "image/png")
	hdr.Set("Content-Length", strconv.Itoa(len(frame)))
	hdr.Set("Cache-Control", "no-cache")
	w.Write(frame)
}

func (s *Server) servePlay(w http.ResponseWriter, r *http.Request) {
	s.player.Play()
	s.serveJSON(w, r, s.state())
}

func (s *Server) serveReset(w http.ResponseWriter, r *http.Request) {
	s.player.Reset()
	s.serveJSON(w, r, s.state())
}

func (s *Server) serveZoom(zoom func() float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoom()
		s.serveJSON(w, r, s.state())
	}
}

func (s *Server) serveSeek(w http.ResponseWriter, r *http.Request) {
	t, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
	if err != nil {
		s.serveStatus(w, r, http.StatusBadRequest, "seek: t must be a number of seconds")
		return
	}
	s.player.Seek(t)
	s.serveJSON(w, r, s.state())
}
