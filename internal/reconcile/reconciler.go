package reconcile

import (
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-assistant/internal/protocol"
	"github.com/stemsi/exstem-assistant/internal/session"
	"github.com/stemsi/exstem-assistant/internal/timer"
)

// AuditSink receives every processed answer the reconciler applies.
// Implementations must not block.
type AuditSink interface {
	RecordAnswer(ev protocol.ProcessedAnswer)
}

// Reconciler applies normalized stream events to the session store under the
// idempotence and ordering rules, and keeps the timer subsystem in step with
// session lifecycle.
type Reconciler struct {
	store  *session.Store
	timers timer.Timers
	audit  AuditSink // nil when auditing is disabled
	log    zerolog.Logger
}

// New creates a Reconciler. audit may be nil.
func New(store *session.Store, timers timer.Timers, audit AuditSink, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		timers: timers,
		audit:  audit,
		log:    log.With().Str("component", "reconciler").Logger(),
	}
}

// HandleFrame normalizes one raw frame and applies it. The returned error is
// non-nil only for undecodable frames; the frame is dropped either way and
// the store is never left partially mutated.
func (r *Reconciler) HandleFrame(raw []byte) error {
	ev, err := protocol.Normalize(raw)
	if err != nil {
		return err
	}
	r.Apply(ev)
	return nil
}

// Apply dispatches one event to the store. The event set is closed; anything
// unrecognized was already normalized to Unknown and changes nothing.
func (r *Reconciler) Apply(ev protocol.Event) {
	switch ev := ev.(type) {
	case protocol.InitialState:
		r.store.ApplyInitialState(ev)
		for _, exam := range ev.Exams {
			if exam.Timer != "" {
				r.timers.Arm(exam.ClientID, exam.Timer)
			}
		}

	case protocol.ClientDisconnected:
		// Session and its countdown go together; a tick scheduled before
		// this point finds no session and stops itself.
		r.store.ApplyDisconnect(ev.ClientID)
		r.timers.Disarm(ev.ClientID)

	case protocol.TimerUpdate:
		if r.store.ApplyTimerUpdate(ev) {
			r.timers.Correct(ev.ClientID, ev.Timer)
		}

	case protocol.ProcessedAnswer:
		r.store.ApplyProcessedAnswer(ev)
		if r.audit != nil {
			r.audit.RecordAnswer(ev)
		}

	case protocol.LiveQuestion:
		r.store.ApplyLiveQuestion(ev)
		if ev.Timer != "" {
			r.timers.Arm(ev.ClientID, ev.Timer)
		}

	case protocol.Unknown:
		// Deliberate tolerance of unknown and future message shapes.
		r.log.Debug().Msg("Ignoring unrecognized frame shape")
	}
}
