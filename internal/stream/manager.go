package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-assistant/internal/protocol"
)

// State is the user-visible connection state.
type State string

const (
	// StateConnecting covers the initial dial and every retry dial.
	StateConnecting State = "connecting"
	// StateConnected means the socket is open and the role was announced.
	StateConnected State = "connected"
	// StateLoading is entered a grace period after a close, so fast
	// automatic reconnects do not flicker the UI.
	StateLoading State = "loading"
	// StateUnreachable is terminal: the retry budget is exhausted and a
	// human must leave and re-enter the view to start over.
	StateUnreachable State = "unreachable"
)

// Status is the connection state surfaced to the operator UI.
type Status struct {
	State     State  `json:"state"`
	Attempts  int    `json:"attempts"`
	LastError string `json:"last_error,omitempty"`
}

// FrameHandler consumes one inbound text frame. A returned error marks a
// decode failure; the frame is dropped and the error surfaced as a data
// error, nothing more.
type FrameHandler func(raw []byte) error

// Config holds the manager's connection policy.
type Config struct {
	URL            string
	Role           string
	ReconnectDelay time.Duration
	MaxAttempts    int
	LoadingGrace   time.Duration
	Dialer         Dialer // defaults to DefaultDialer
}

// Manager owns the one logical connection to the streaming endpoint:
// connect, role announcement, bounded reconnection and teardown. Frames are
// handed to the FrameHandler strictly one at a time.
type Manager struct {
	cfg    Config
	handle FrameHandler
	log    zerolog.Logger

	mu           sync.Mutex
	conn         Conn
	connected    bool
	stopped      bool
	attempts     int
	state        State
	lastErr      string
	loadingTimer *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

// NewManager creates a Manager. Start must be called to connect.
func NewManager(cfg Config, handle FrameHandler, log zerolog.Logger) *Manager {
	if cfg.Dialer == nil {
		cfg.Dialer = DefaultDialer
	}
	if cfg.Role == "" {
		cfg.Role = protocol.RoleExam
	}
	return &Manager{
		cfg:    cfg,
		handle: handle,
		log:    log.With().Str("component", "stream_manager").Logger(),
		state:  StateConnecting,
		done:   make(chan struct{}),
	}
}

// Start launches the connection loop. It returns immediately.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.run(ctx)
}

// Stop tears the manager down: the socket is closed exactly once and any
// pending reconnection or loading transition is cancelled. No reconnect can
// fire after Stop returns.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.connected = false
	m.cancelLoadingLocked()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	close(m.done)
	if conn != nil {
		conn.Close()
	}
	m.wg.Wait()
	m.log.Info().Msg("Stream manager stopped")
}

// Status returns the current connection status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{State: m.state, Attempts: m.attempts, LastError: m.lastErr}
}

// Send serializes v into one text frame and transmits it. Fails fast with
// ErrNotConnected when the socket is not open; nothing is queued or retried.
func (m *Manager) Send(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected || m.conn == nil {
		return ErrNotConnected
	}
	m.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return m.conn.WriteMessage(websocket.TextMessage, data)
}

// run is the connection loop: dial, announce, read until close, then retry
// after the fixed delay until the budget is exhausted.
func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		if ctx.Err() != nil || m.isStopped() {
			return
		}

		conn, err := m.cfg.Dialer(ctx, m.cfg.URL)
		if err != nil {
			m.recordError(fmt.Sprintf("connect: %v", err))
		} else if m.attach(conn) {
			if err := m.Send(protocol.RoleAnnouncement{Role: m.cfg.Role}); err != nil {
				m.recordError(fmt.Sprintf("announce role: %v", err))
			} else {
				m.log.Info().Str("url", m.cfg.URL).Msg("Stream connected")
				m.readLoop(conn)
			}
			m.detach(conn)
		}

		if m.isStopped() {
			return
		}

		if !m.scheduleRetry() {
			return
		}

		select {
		case <-time.After(m.cfg.ReconnectDelay):
		case <-m.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// readLoop consumes frames until the connection dies. Frames are processed
// sequentially; a decode error drops the frame and carries on.
func (m *Manager) readLoop(conn Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !m.isStopped() && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.recordError(fmt.Sprintf("read: %v", err))
			} else {
				m.log.Debug().Msg("Stream closed")
			}
			return
		}
		if herr := m.handle(raw); herr != nil {
			// Decode failure taxonomy: drop the frame, surface a data
			// error, never escalate.
			m.log.Error().Err(herr).Msg("Dropping undecodable frame")
			m.setDataError("server sent undecodable data")
		}
	}
}

// attach installs a freshly dialed connection. On success the retry counter
// resets and any pending loading transition is cancelled. Returns false when
// the manager was stopped mid-dial; the caller must discard the connection.
func (m *Manager) attach(conn Conn) bool {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		conn.Close()
		return false
	}
	m.conn = conn
	m.connected = true
	m.attempts = 0
	m.state = StateConnected
	m.lastErr = ""
	m.cancelLoadingLocked()
	m.mu.Unlock()
	return true
}

// detach drops the connection if it is still current and closes it.
func (m *Manager) detach(conn Conn) {
	m.mu.Lock()
	if m.conn == conn {
		m.conn = nil
		m.connected = false
	}
	m.mu.Unlock()
	conn.Close()
}

// scheduleRetry accounts one close. Within budget it arms the loading grace
// timer and returns true; beyond it the terminal unreachable state is set.
func (m *Manager) scheduleRetry() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.attempts >= m.cfg.MaxAttempts {
		m.state = StateUnreachable
		m.lastErr = fmt.Sprintf("server unreachable after %d attempts", m.cfg.MaxAttempts)
		m.cancelLoadingLocked()
		m.log.Error().Int("attempts", m.cfg.MaxAttempts).Msg("Reconnect budget exhausted")
		return false
	}

	m.attempts++
	m.state = StateConnecting
	m.armLoadingLocked()
	m.log.Warn().
		Int("attempt", m.attempts).
		Int("max", m.cfg.MaxAttempts).
		Dur("delay", m.cfg.ReconnectDelay).
		Msg("Stream closed, reconnecting")
	return true
}

// armLoadingLocked schedules the delayed loading state. The delay avoids a
// flash of "loading" when the reconnect succeeds quickly.
func (m *Manager) armLoadingLocked() {
	m.cancelLoadingLocked()
	m.loadingTimer = time.AfterFunc(m.cfg.LoadingGrace, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if !m.connected && !m.stopped && m.state != StateUnreachable {
			m.state = StateLoading
		}
	})
}

func (m *Manager) cancelLoadingLocked() {
	if m.loadingTimer != nil {
		m.loadingTimer.Stop()
		m.loadingTimer = nil
	}
}

func (m *Manager) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

func (m *Manager) recordError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = msg
	m.log.Error().Str("error", msg).Msg("Stream error")
}

func (m *Manager) setDataError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = msg
}
