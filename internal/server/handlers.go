package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sealnote/sealnote/internal/notes"
	"github.com/sealnote/sealnote/internal/summarize"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondData(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, successEnvelope{Success: true, Data: data})
}

func respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, errorEnvelope{Success: false, Error: message})
}

type createNotePayload struct {
	Text      string `json:"text"`
	ExpiresIn string `json:"expiresIn"`
}

type createNoteResponse struct {
	URL       string     `json:"url"`
	Password  string     `json:"password"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (h *httpHandler) handleCreateNote(c *gin.Context) {
	var payload createNotePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "Request body must be valid JSON.")
		return
	}

	result, err := h.notesService.Create(c.Request.Context(), payload.Text, payload.ExpiresIn)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create the note.")
		return
	}

	respondData(c, http.StatusCreated, createNoteResponse{
		URL:       h.baseURL + "/note/" + result.NoteID,
		Password:  result.Password,
		ExpiresAt: result.ExpiresAt,
	})
}

type existsResponse struct {
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (h *httpHandler) handleCheckExists(c *gin.Context) {
	noteID, err := notes.NewNoteID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, messageNotFound)
		return
	}

	result, err := h.notesService.CheckExists(c.Request.Context(), noteID)
	if err != nil {
		h.respondServiceError(c, err, "Failed to check the note.")
		return
	}

	respondData(c, http.StatusOK, existsResponse{ExpiresAt: result.ExpiresAt})
}

type passwordPayload struct {
	Password string `json:"password"`
}

type unlockResponse struct {
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (h *httpHandler) handleUnlockNote(c *gin.Context) {
	noteID, err := notes.NewNoteID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, messageNotFound)
		return
	}

	password, ok := bindPassword(c)
	if !ok {
		return
	}

	result, err := h.notesService.Unlock(c.Request.Context(), noteID, password)
	if err != nil {
		h.respondServiceError(c, err, "Failed to unlock the note.")
		return
	}

	respondData(c, http.StatusOK, unlockResponse{
		Text:      result.Text,
		CreatedAt: result.CreatedAt,
		ExpiresAt: result.ExpiresAt,
	})
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func (h *httpHandler) handleSummarizeNote(c *gin.Context) {
	noteID, err := notes.NewNoteID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, messageNotFound)
		return
	}

	password, ok := bindPassword(c)
	if !ok {
		return
	}

	summary, err := h.notesService.Summarize(c.Request.Context(), noteID, password)
	if err != nil {
		h.respondServiceError(c, err, "Failed to summarize the note.")
		return
	}

	respondData(c, http.StatusOK, summaryResponse{Summary: summary})
}

func bindPassword(c *gin.Context) (string, bool) {
	var payload passwordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "Request body must be valid JSON.")
		return "", false
	}
	password := strings.TrimSpace(payload.Password)
	if password == "" {
		respondError(c, http.StatusBadRequest, "Password is required.")
		return "", false
	}
	return password, true
}

const (
	messageNotFound     = "Note not found. It may have been deleted or the link is incorrect."
	messageExpired      = "This note has expired and is no longer available."
	messageUnauthorized = "Incorrect password. Please try again."
	messageUpstreamBusy = "AI service is busy. Please try again in a moment."
	messageUpstreamBad  = "Could not process this note for summarization."
	messageUpstreamDown = "AI summarization failed. Please try again."
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Anything unclassified surfaces as a generic server error.
func (h *httpHandler) respondServiceError(c *gin.Context, err error, fallback string) {
	var validationErr *notes.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, validationErr.Reason)
	case errors.Is(err, notes.ErrNotFound):
		respondError(c, http.StatusNotFound, messageNotFound)
	case errors.Is(err, notes.ErrExpired):
		respondError(c, http.StatusGone, messageExpired)
	case errors.Is(err, notes.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, messageUnauthorized)
	case errors.Is(err, summarize.ErrUpstreamRateLimited):
		respondError(c, http.StatusServiceUnavailable, messageUpstreamBusy)
	case errors.Is(err, summarize.ErrRejectedInput):
		respondError(c, http.StatusBadGateway, messageUpstreamBad)
	case errors.Is(err, summarize.ErrUnavailable):
		respondError(c, http.StatusBadGateway, messageUpstreamDown)
	default:
		h.logger.Error("request failed",
			zap.String("request_id", c.GetString(requestIDContextKey)),
			zap.Error(err))
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
