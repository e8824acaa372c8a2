package apiserver

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pianoviz/notes"
	"pianoviz/player"
	"pianoviz/session"
)

func testServer() *Server {
	rec := notes.Recording{
		Name: "take",
		Events: []notes.RawEvent{
			notes.On(60, 100, 0),
			notes.Off(60, 20),
		},
	}
	ses := session.New(rec, session.DefaultOptions(), nil)
	pl := player.New(ses.Duration(), player.Options{FPS: 60, Tail: 3}, nil)
	return New(ses, pl, Options{Width: 176, Height: 100}, nil)
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) State {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var st State
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestControls(t *testing.T) {
	s := testServer()
	h := s.Handler()

	st := decodeState(t, do(t, h, http.MethodGet, "/state"))
	if st.Player != "stopped" || st.Session.Name != "take" || st.Session.Visible != 10 {
		t.Errorf("state = %+v", st)
	}
	if st := decodeState(t, do(t, h, http.MethodPost, "/play")); st.Player != "playing" {
		t.Errorf("play = %+v", st)
	}
	if st := decodeState(t, do(t, h, http.MethodPost, "/play")); st.Player != "paused" {
		t.Errorf("second play = %+v", st)
	}
	if st := decodeState(t, do(t, h, http.MethodPost, "/reset")); st.Player != "stopped" {
		t.Errorf("reset = %+v", st)
	}
	if st := decodeState(t, do(t, h, http.MethodPost, "/zoom/out")); st.Session.Visible != 15 {
		t.Errorf("zoom out = %+v", st.Session)
	}
	if st := decodeState(t, do(t, h, http.MethodPost, "/zoom/in")); st.Session.Visible != 10 {
		t.Errorf("zoom in = %+v", st.Session)
	}
	if st := decodeState(t, do(t, h, http.MethodPost, "/seek?t=4.5")); st.Playback != 4.5 || st.Player != "paused" {
		t.Errorf("seek = %+v", st)
	}
}

func TestBadRequests(t *testing.T) {
	h := testServer().Handler()
	type testcase struct {
		method, target string
		want           int
	}
	for _, tc := range []testcase{
		{http.MethodPost, "/seek?t=soon", http.StatusBadRequest},
		{http.MethodPost, "/seek", http.StatusBadRequest},
		{http.MethodGet, "/play", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nothing", http.StatusNotFound},
		{http.MethodGet, "/frame.png", http.StatusServiceUnavailable},
		{http.MethodOptions, "/state", http.StatusNoContent},
	} {
		w := do(t, h, tc.method, tc.target)
		if w.Code != tc.want {
			t.Errorf("%s %s = %d, want %d", tc.method, tc.target, w.Code, tc.want)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" && tc.want != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: missing CORS header", tc.method, tc.target)
		}
	}
}

func TestFrame(t *testing.T) {
	s := testServer()
	h := s.Handler()
	s.player.Play()
	s.onTick(player.Tick{Time: 0, Delta: 1.0 / 60, Playback: 0.1, Playing: true})

	w := do(t, h, http.MethodGet, "/frame.png")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("frame: %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 176 || b.Dy() != 100 {
		t.Errorf("frame size = %v", b)
	}
	if st := decodeState(t, do(t, h, http.MethodGet, "/state")); st.Frame != 1 || st.Session.Frames != 1 {
		t.Errorf("state = %+v", st)
	}
}

func TestReload(t *testing.T) {
	s := testServer()
	s.player.Play()
	s.Reload(notes.Recording{Name: "next", Events: []notes.RawEvent{notes.On(40, 90, 0), notes.Off(40, 4)}})
	st := s.state()
	if st.Session.Name != "next" || st.Player != "stopped" || s.player.Duration() != 4 {
		t.Errorf("after reload: %+v", st)
	}
}

func TestWebsocketStream(t *testing.T) {
	s := testServer()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	deadline := time.Now().Add(5 * time.Second)
	for {
		s.lock.RLock()
		n := len(s.listeners)
		s.lock.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("listener not registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.onTick(player.Tick{Delta: 1.0 / 60})
	c.SetReadDeadline(time.Now().Add(5 * time.Second))
	mt, data, err := c.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if mt != websocket.BinaryMessage {
		t.Errorf("message type = %d", mt)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("frame is not a png: %v", err)
	}
}
