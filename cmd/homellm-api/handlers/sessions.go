package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spherical/homellm/internal/analysis"
	"github.com/spherical/homellm/internal/composer"
	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/observability"
	"github.com/spherical/homellm/internal/session"
)

// Analyzer turns an uploaded file into an analysis result.
type Analyzer interface {
	Analyze(ctx context.Context, file domain.UploadedFile) (*domain.AnalysisResult, error)
}

// SessionHandler serves composer sessions.
type SessionHandler struct {
	logger         *observability.Logger
	store          *session.Store
	analyzer       Analyzer
	maxUploadBytes int64
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(logger *observability.Logger, store *session.Store, analyzer Analyzer, maxUploadBytes int64) *SessionHandler {
	return &SessionHandler{
		logger:         logger,
		store:          store,
		analyzer:       analyzer,
		maxUploadBytes: maxUploadBytes,
	}
}

// SessionResponseDTO wraps a session with the status of the last action.
type SessionResponseDTO struct {
	Session *session.Session `json:"session"`
	Status  string           `json:"status,omitempty"`
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Create(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.logger.WithContext(r.Context()).WithSession(sess.ID).Info().Msg("Session created")
	writeJSON(w, http.StatusCreated, SessionResponseDTO{Session: sess})
}

// Get handles GET /sessions/{sessionId}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Get(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponseDTO{Session: sess})
}

// Delete handles DELETE /sessions/{sessionId}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyEvent handles POST /sessions/{sessionId}/events.
func (h *SessionHandler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := session.DecodeEvent(body)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sess, err := h.store.Apply(r.Context(), chi.URLParam(r, "sessionId"), event)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.logger.WithContext(r.Context()).WithSession(sess.ID).Debug().
		Str("event", string(event.Type())).
		Msg("Event applied")
	writeJSON(w, http.StatusOK, SessionResponseDTO{Session: sess, Status: session.StatusMessage(event)})
}

// UploadAnalysis handles POST /sessions/{sessionId}/analysis with a
// multipart "file" field. The session only changes when analysis succeeds.
func (h *SessionHandler) UploadAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "sessionId")

	current, err := h.store.Get(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	file, err := h.readUpload(w, r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// The session's own key, when set, authenticates its remote analysis.
	result, err := h.analyzer.Analyze(analysis.WithAPIKey(ctx, current.State.Form.APIKey), file)
	if err != nil {
		h.logger.WithContext(ctx).WithSession(id).Info().
			Str("file", file.Name).
			Str("error_type", string(domain.TypeOf(err))).
			Msg("Analysis rejected")
		writeDomainError(w, err)
		return
	}

	event := session.AnalysisApplied{Result: result}
	sess, err := h.store.Apply(ctx, id, event)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponseDTO{Session: sess, Status: session.StatusMessage(event)})
}

func (h *SessionHandler) readUpload(w http.ResponseWriter, r *http.Request) (domain.UploadedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.UploadedFile{}, domain.ValidationError(fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes), err)
		}
		return domain.UploadedFile{}, domain.ValidationError("expected a multipart form with a file field", err)
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		return domain.UploadedFile{}, domain.ValidationError("missing file field", err)
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return domain.UploadedFile{}, domain.IOError("failed to read upload", err)
	}

	return domain.UploadedFile{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

// DownloadEmail handles GET /sessions/{sessionId}/email.
func (h *SessionHandler) DownloadEmail(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Get(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if sess.State.GeneratedEmail == "" {
		writeError(w, http.StatusNotFound, "no email has been generated for this session", "")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", composer.DownloadFilename))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, sess.State.GeneratedEmail)
}
