package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/spherical/homellm/internal/composer"
	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/observability"
	"github.com/spherical/homellm/internal/readings"
)

const defaultPasteName = "pasted-readings.txt"

// ComposeHandler serves stateless email composition and reading parsing.
type ComposeHandler struct {
	logger *observability.Logger
	parser domain.ReadingParser
}

// NewComposeHandler creates a new compose handler.
func NewComposeHandler(logger *observability.Logger, parser domain.ReadingParser) *ComposeHandler {
	return &ComposeHandler{logger: logger, parser: parser}
}

// ComposeRequestDTO is the body of POST /compose.
type ComposeRequestDTO struct {
	Form        domain.FormState    `json:"form"`
	Attachments []domain.Attachment `json:"attachments,omitempty"`
}

// EmailDTO is a composed email.
type EmailDTO struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

func newEmailDTO(e composer.Email) EmailDTO {
	return EmailDTO{
		Subject:  e.Subject,
		Body:     e.Body,
		Text:     e.Text(),
		Filename: composer.DownloadFilename,
	}
}

// Compose handles POST /compose.
func (h *ComposeHandler) Compose(w http.ResponseWriter, r *http.Request) {
	var req ComposeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	email := composer.BuildEmail(req.Form, req.Attachments)
	writeJSON(w, http.StatusOK, newEmailDTO(email))
}

// ParseRequestDTO is the body of POST /readings/parse.
type ParseRequestDTO struct {
	FileName string `json:"fileName"`
	Text     string `json:"text"`
}

// ParseResponseDTO is a parsed result with its graded findings and a
// tab-delimited rendering that re-parses to the same readings.
type ParseResponseDTO struct {
	*domain.AnalysisResult
	Findings      []readings.Finding `json:"findings"`
	CanonicalText string             `json:"canonicalText"`
}

// ParseReadings handles POST /readings/parse.
func (h *ComposeHandler) ParseReadings(w http.ResponseWriter, r *http.Request) {
	var req ParseRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	name := strings.TrimSpace(req.FileName)
	if name == "" {
		name = defaultPasteName
	}

	result, err := h.parser.Analyze(req.Text, name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.logger.WithContext(r.Context()).Debug().
		Str("file", name).
		Int("entries", len(result.Entries)).
		Msg("Parsed pasted readings")
	writeJSON(w, http.StatusOK, ParseResponseDTO{
		AnalysisResult: result,
		Findings:       readings.Findings(result),
		CanonicalText:  readings.CanonicalText(result),
	})
}
