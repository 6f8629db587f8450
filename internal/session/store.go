package session

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-assistant/internal/model"
	"github.com/stemsi/exstem-assistant/internal/protocol"
	"github.com/stemsi/exstem-assistant/internal/timer"
)

// Store is the authoritative in-memory map of live exam sessions. Every
// mutation runs under one lock and applies the whole effect of a single
// event, so readers never observe a partially applied event.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	log      zerolog.Logger
}

// NewStore creates an empty session store.
func NewStore(log zerolog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*model.Session),
		log:      log.With().Str("component", "session_store").Logger(),
	}
}

// ApplyInitialState replays full session snapshots. Sessions are created if
// absent; existing sessions keep their userInfo, timer and expanded state and
// only gain questions they have not seen. Questions de-duplicate by qIndex.
func (s *Store) ApplyInitialState(ev protocol.InitialState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, exam := range ev.Exams {
		sess, exists := s.sessions[exam.ClientID]
		if !exists {
			sess = model.NewSession(exam.ClientID, exam.UserInfo, exam.Timer)
			s.sessions[exam.ClientID] = sess
		}
		for _, q := range exam.Questions {
			sess.AddQuestion(q.ToModel())
		}
	}

	s.log.Debug().Int("exams", len(ev.Exams)).Msg("Initial state applied")
}

// ApplyLiveQuestion inserts a single pushed question, creating the session
// with the event's userInfo if it was unseen. An already-present qIndex is
// never re-inserted. A timer value on the event overwrites the session timer.
func (s *Store) ApplyLiveQuestion(ev protocol.LiveQuestion) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[ev.ClientID]
	if !exists {
		sess = model.NewSession(ev.ClientID, ev.UserInfo, ev.Timer)
		s.sessions[ev.ClientID] = sess
	}

	inserted := sess.AddQuestion(ev.ToModel())
	if ev.Timer != "" {
		sess.Timer = ev.Timer
	}
	return inserted
}

// ApplyProcessedAnswer attaches a responder's echoed answer. Missing sessions
// and questions are synthesized so the answer always has somewhere to live;
// forward progress wins over strict referential integrity.
func (s *Store) ApplyProcessedAnswer(ev protocol.ProcessedAnswer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[ev.ClientID]
	if !exists {
		s.log.Warn().Str("client_id", ev.ClientID).Msg("Answer for unseen session, synthesizing placeholder")
		sess = model.NewSession(ev.ClientID, model.UnknownUser, "")
		s.sessions[ev.ClientID] = sess
	}

	q := sess.Question(ev.QIndex)
	if q == nil {
		q = &model.Question{
			QIndex:   ev.QIndex,
			Question: ev.Question,
			Answers:  []model.AnswerOption{},
		}
		sess.AddQuestion(q)
	}
	q.RecordAnswer(ev.Answer, ev.AnsweredBy)
}

// ApplyTimerUpdate overwrites a session's timer with an authoritative server
// value. Questions are untouched. Returns false when the session is unknown.
func (s *Store) ApplyTimerUpdate(ev protocol.TimerUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[ev.ClientID]
	if !exists {
		return false
	}
	sess.Timer = ev.Timer
	return true
}

// ApplyDisconnect removes a session outright. This is the only path that
// deletes sessions; nothing is garbage-collected by timeout or inference.
func (s *Store) ApplyDisconnect(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[clientID]; !exists {
		return false
	}
	delete(s.sessions, clientID)
	s.log.Info().Str("client_id", clientID).Msg("Session removed")
	return true
}

// ToggleExpanded flips a session's local expanded flag. Returns false when
// the session is unknown.
func (s *Store) ToggleExpanded(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[clientID]
	if !exists {
		return false
	}
	sess.Expanded = !sess.Expanded
	return true
}

// Tick implements timer.Countdown. It re-reads the session's current clock
// value, decrements by one second clamping at zero, and writes it back. A
// deleted session yields ok=false so a stale tick can never resurrect it.
func (s *Store) Tick(clientID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[clientID]
	if !exists {
		return 0, false
	}

	seconds, err := timer.ParseClock(sess.Timer)
	if err != nil {
		sess.Timer = model.DefaultClock
		return 0, true
	}

	seconds--
	if seconds < 0 {
		seconds = 0
	}
	sess.Timer = timer.FormatClock(seconds)
	return seconds, true
}

// Timer returns a session's current clock value.
func (s *Store) Timer(clientID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[clientID]
	if !exists {
		return "", false
	}
	return sess.Timer, true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
