package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-assistant/internal/protocol"
	"github.com/stemsi/exstem-assistant/internal/response"
	"github.com/stemsi/exstem-assistant/internal/service"
	"github.com/stemsi/exstem-assistant/internal/session"
	"github.com/stemsi/exstem-assistant/internal/stream"
	"github.com/stemsi/exstem-assistant/internal/validator"
)

// testConn implements stream.Conn; reads block until closed.
type testConn struct {
	mu     sync.Mutex
	sent   [][]byte
	closed chan struct{}
	once   sync.Once
}

func newTestConn() *testConn { return &testConn{closed: make(chan struct{})} }

func (c *testConn) ReadMessage() (int, []byte, error) {
	<-c.closed
	return 0, nil, context.Canceled
}

func (c *testConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, data)
	return nil
}

func (c *testConn) SetWriteDeadline(t time.Time) error { return nil }

func (c *testConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *testConn) sentFrames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.sent))
	copy(out, c.sent)
	return out
}

type fixture struct {
	store  *session.Store
	conn   *testConn
	mgr    *stream.Manager
	router *gin.Engine
}

func newFixture(t *testing.T, connect bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Setup()

	log := zerolog.Nop()
	store := session.NewStore(log)

	conn := newTestConn()
	mgr := stream.NewManager(stream.Config{
		URL:            "ws://example.test/stream",
		Role:           "exam",
		ReconnectDelay: time.Minute,
		MaxAttempts:    1,
		LoadingGrace:   time.Minute,
		Dialer: func(ctx context.Context, url string) (stream.Conn, error) {
			return conn, nil
		},
	}, func([]byte) error { return nil }, log)

	if connect {
		mgr.Start(context.Background())
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if mgr.Status().State == stream.StateConnected {
				break
			}
			time.Sleep(time.Millisecond)
		}
		t.Cleanup(mgr.Stop)
	}

	svc := service.NewAssistService(store, mgr, "helper@example.com", log)
	h := NewAssistHandler(svc, log)

	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	r.GET("/api/v1/stream/status", h.GetStreamStatus)
	r.GET("/api/v1/sessions", h.ListSessions)
	r.POST("/api/v1/sessions/:client_id/expand", h.ToggleExpanded)
	r.POST("/api/v1/sessions/:client_id/answers", h.SubmitAnswer)

	return &fixture{store: store, conn: conn, mgr: mgr, router: r}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func seedSession(store *session.Store, clientID string) {
	store.ApplyLiveQuestion(protocol.LiveQuestion{
		ClientID: clientID,
		UserInfo: "Student",
		QIndex:   0,
		Question: "2+2?",
		Answers:  []protocol.AnswerOption{{Text: "3"}, {Text: "4"}},
	})
}

func TestListSessions(t *testing.T) {
	f := newFixture(t, false)
	seedSession(f.store, "c1")

	w := f.do(http.MethodGet, "/api/v1/sessions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []struct {
			ClientID  string `json:"client_id"`
			Timer     string `json:"timer"`
			Questions []struct {
				QIndex int `json:"q_index"`
			} `json:"questions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ClientID != "c1" || len(resp.Data[0].Questions) != 1 {
		t.Errorf("unexpected projection: %s", w.Body.String())
	}
}

func TestToggleExpanded(t *testing.T) {
	f := newFixture(t, false)
	seedSession(f.store, "c1")

	if w := f.do(http.MethodPost, "/api/v1/sessions/c1/expand", ""); w.Code != http.StatusOK {
		t.Errorf("expand = %d", w.Code)
	}
	if sess := f.store.Session("c1"); !sess.Expanded {
		t.Error("expanded flag not set")
	}

	if w := f.do(http.MethodPost, "/api/v1/sessions/ghost/expand", ""); w.Code != http.StatusNotFound {
		t.Errorf("expand unknown = %d, want 404", w.Code)
	}
}

func TestSubmitAnswerWhileDisconnected(t *testing.T) {
	f := newFixture(t, false)
	seedSession(f.store, "c1")

	w := f.do(http.MethodPost, "/api/v1/sessions/c1/answers",
		`{"q_index":0,"question":"2+2?","answer":"4","var_index":1}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), string(response.ErrStreamNotConnected)) {
		t.Errorf("body missing error code: %s", w.Body.String())
	}
}

func TestSubmitAnswerTransmitsWithIdentity(t *testing.T) {
	f := newFixture(t, true)
	seedSession(f.store, "c1")

	w := f.do(http.MethodPost, "/api/v1/sessions/c1/answers",
		`{"q_index":0,"question":"2+2?","answer":"4","var_index":1}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	frames := f.conn.sentFrames()
	// Frame 0 is the role announcement.
	if len(frames) < 2 {
		t.Fatalf("frames sent = %d, want role + answer", len(frames))
	}

	var sub protocol.AnswerSubmission
	if err := json.Unmarshal(frames[1], &sub); err != nil {
		t.Fatal(err)
	}
	if sub.ClientID != "c1" || sub.QIndex != 0 || sub.Answer != "4" || sub.VarIndex != 1 {
		t.Errorf("submission = %+v", sub)
	}
	if sub.AnsweredBy != "helper@example.com" {
		t.Errorf("answeredBy = %q", sub.AnsweredBy)
	}

	// No optimistic update: the store must not reflect the answer until the
	// server echoes it back.
	if got := len(f.store.Session("c1").Questions[0].AnswersList); got != 0 {
		t.Errorf("answersList = %d entries before the echo, want 0", got)
	}
}

func TestSubmitAnswerValidation(t *testing.T) {
	f := newFixture(t, false)
	seedSession(f.store, "c1")

	w := f.do(http.MethodPost, "/api/v1/sessions/c1/answers", `{"question":"2+2?"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", w.Code, w.Body.String())
	}
}

func TestStreamStatusEndpoint(t *testing.T) {
	f := newFixture(t, true)

	w := f.do(http.MethodGet, "/api/v1/stream/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Data stream.Status `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.State != stream.StateConnected {
		t.Errorf("state = %s, want connected", resp.Data.State)
	}
}
