package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-assistant/internal/model"
	"github.com/stemsi/exstem-assistant/internal/response"
	"github.com/stemsi/exstem-assistant/internal/service"
	"github.com/stemsi/exstem-assistant/internal/validator"
)

// AssistHandler exposes the reconciled exam view and the answer relay to the
// operator frontend.
type AssistHandler struct {
	assistService *service.AssistService
	log           zerolog.Logger
}

// NewAssistHandler creates a new AssistHandler.
func NewAssistHandler(assistService *service.AssistService, log zerolog.Logger) *AssistHandler {
	return &AssistHandler{
		assistService: assistService,
		log:           log.With().Str("component", "assist_handler").Logger(),
	}
}

// GetStreamStatus godoc
// GET /api/v1/stream/status
// Returns the connection state of the exam stream.
func (h *AssistHandler) GetStreamStatus(c *gin.Context) {
	response.Success(c, http.StatusOK, h.assistService.StreamStatus())
}

// ListSessions godoc
// GET /api/v1/sessions
// Returns the display-ready list of live exam sessions.
func (h *AssistHandler) ListSessions(c *gin.Context) {
	response.Success(c, http.StatusOK, h.assistService.Sessions())
}

// ToggleExpanded godoc
// POST /api/v1/sessions/:client_id/expand
// Flips the local expanded flag of one session.
func (h *AssistHandler) ToggleExpanded(c *gin.Context) {
	clientID := c.Param("client_id")

	if err := h.assistService.ToggleExpanded(clientID); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"client_id": clientID})
}

// SubmitAnswer godoc
// POST /api/v1/sessions/:client_id/answers
// Relays a helper-selected answer to the exam stream. The response only
// confirms transmission; the recorded answer appears in the session view
// once the server echoes it back.
func (h *AssistHandler) SubmitAnswer(c *gin.Context) {
	clientID := c.Param("client_id")

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.assistService.SubmitAnswer(clientID, &req); err != nil {
		if errors.Is(err, service.ErrStreamNotConnected) {
			response.Fail(c, http.StatusConflict, response.ErrStreamNotConnected)
			return
		}
		h.log.Error().Err(err).Str("client_id", clientID).Msg("Answer relay failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"status": "sent"})
}
