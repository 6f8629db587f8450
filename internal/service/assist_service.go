package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-assistant/internal/model"
	"github.com/stemsi/exstem-assistant/internal/protocol"
	"github.com/stemsi/exstem-assistant/internal/session"
	"github.com/stemsi/exstem-assistant/internal/stream"
)

// ErrSessionNotFound is returned for operations on an unknown clientId.
var ErrSessionNotFound = errors.New("session not found")

// ErrStreamNotConnected is returned when an answer cannot be sent because
// the socket is not open. The answer is lost; the helper retries manually.
var ErrStreamNotConnected = errors.New("stream not connected")

// AssistService mediates between the projection API and the core: it reads
// the session store, toggles local view state and relays answers outbound.
// It never mutates server-owned state directly.
type AssistService struct {
	store      *session.Store
	mgr        *stream.Manager
	answeredBy string
	log        zerolog.Logger
}

// NewAssistService creates an AssistService. answeredBy is the helper's
// stable responder identity.
func NewAssistService(store *session.Store, mgr *stream.Manager, answeredBy string, log zerolog.Logger) *AssistService {
	return &AssistService{
		store:      store,
		mgr:        mgr,
		answeredBy: answeredBy,
		log:        log.With().Str("component", "assist_service").Logger(),
	}
}

// Sessions returns the display-ready projection of every live session.
func (s *AssistService) Sessions() []*model.Session {
	return s.store.Projection()
}

// StreamStatus returns the connection status for the operator UI.
func (s *AssistService) StreamStatus() stream.Status {
	return s.mgr.Status()
}

// ToggleExpanded flips the local expanded flag of one session.
func (s *AssistService) ToggleExpanded(clientID string) error {
	if !s.store.ToggleExpanded(clientID) {
		return ErrSessionNotFound
	}
	return nil
}

// SubmitAnswer relays one helper-selected answer to the server. It is
// fire-and-forget: the local view only reflects the answer once the server's
// processedAnswer echo comes back through the reconciler.
func (s *AssistService) SubmitAnswer(clientID string, req *model.SubmitAnswerRequest) error {
	submission := protocol.AnswerSubmission{
		QIndex:     *req.QIndex,
		Question:   req.Question,
		Answer:     req.Answer,
		VarIndex:   *req.VarIndex,
		ClientID:   clientID,
		AnsweredBy: s.answeredBy,
	}

	if err := s.mgr.Send(submission); err != nil {
		if errors.Is(err, stream.ErrNotConnected) {
			return ErrStreamNotConnected
		}
		return fmt.Errorf("send answer: %w", err)
	}

	s.log.Info().
		Str("client_id", clientID).
		Int("q_index", *req.QIndex).
		Str("answered_by", s.answeredBy).
		Msg("Answer submitted")
	return nil
}
