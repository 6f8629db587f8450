package timer

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Mode selects the countdown strategy.
type Mode string

const (
	// ModeLocal advances each session's countdown locally once per second
	// between authoritative server values.
	ModeLocal Mode = "local"
	// ModeServer displays server-pushed values only; nothing ticks locally.
	ModeServer Mode = "server"
)

// Countdown is the live clock surface a local run drives. Implemented by the
// session store: every tick reads and writes current state, never a value
// captured at arm time, so authoritative corrections always win.
type Countdown interface {
	// Tick decrements clientID's remaining time by one second, clamping at
	// zero. ok is false when no session exists for clientID.
	Tick(clientID string) (remaining int, ok bool)
}

// Timers manages per-client countdown runs. At most one run is active per
// clientID at any time.
type Timers interface {
	// Arm starts a countdown run for clientID seeded from the given clock
	// value. A no-op when a run is already active for clientID.
	Arm(clientID, seed string)
	// Correct notes that an authoritative value replaced clientID's clock.
	Correct(clientID, value string)
	// Disarm stops and deregisters clientID's run, if any.
	Disarm(clientID string)
	// Shutdown stops every active run.
	Shutdown()
}

// New returns the Timers implementation for the configured mode.
func New(mode Mode, clock Countdown, interval time.Duration, log zerolog.Logger) Timers {
	if mode == ModeServer {
		return serverTimers{}
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &localTimers{
		clock:    clock,
		interval: interval,
		runs:     make(map[string]*run),
		log:      log.With().Str("component", "timers").Logger(),
	}
}

type run struct {
	stop chan struct{}
}

// localTimers implements the locally-ticking strategy.
type localTimers struct {
	clock    Countdown
	interval time.Duration
	log      zerolog.Logger

	mu   sync.Mutex
	runs map[string]*run
}

func (t *localTimers) Arm(clientID, seed string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, active := t.runs[clientID]; active {
		return
	}

	r := &run{stop: make(chan struct{})}
	t.runs[clientID] = r
	t.log.Debug().Str("client_id", clientID).Str("seed", seed).Msg("Countdown armed")

	go t.loop(clientID, r)
}

// Correct needs no work here: the store already holds the new value and every
// tick reads live state.
func (t *localTimers) Correct(clientID, value string) {
	t.log.Debug().Str("client_id", clientID).Str("timer", value).Msg("Countdown corrected")
}

func (t *localTimers) Disarm(clientID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if r, active := t.runs[clientID]; active {
		close(r.stop)
		delete(t.runs, clientID)
	}
}

func (t *localTimers) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for clientID, r := range t.runs {
		close(r.stop)
		delete(t.runs, clientID)
	}
}

func (t *localTimers) loop(clientID string, r *run) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			remaining, ok := t.clock.Tick(clientID)
			if !ok || remaining <= 0 {
				t.release(clientID, r)
				return
			}
		}
	}
}

// release deregisters a run that stopped itself. The identity check guards
// against removing a newer run armed after this one was disarmed.
func (t *localTimers) release(clientID string, r *run) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if current, active := t.runs[clientID]; active && current == r {
		delete(t.runs, clientID)
	}
}

// serverTimers implements the server-pushed strategy: displayed values come
// exclusively from timerUpdate events, so nothing runs locally.
type serverTimers struct{}

func (serverTimers) Arm(clientID, seed string)      {}
func (serverTimers) Correct(clientID, value string) {}
func (serverTimers) Disarm(clientID string)         {}
func (serverTimers) Shutdown()                      {}
