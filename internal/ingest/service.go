// Package ingest routes uploaded lab reports to the right analysis path:
// PDFs go to the remote analyzer, everything else is parsed locally.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/observability"
	"github.com/spherical/homellm/internal/pdf"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EventType identifies a batch progress event
type EventType string

const (
	EventStart          EventType = "start"
	EventFileProcessing EventType = "file_processing"
	EventFileComplete   EventType = "file_complete"
	EventError          EventType = "error"
	EventComplete       EventType = "complete"
)

// Event reports batch progress
type Event struct {
	Type      EventType
	FileName  string
	Index     int
	Payload   string
	Timestamp time.Time
}

// Outcome is the result for one file in a batch
type Outcome struct {
	FileName string
	Result   *domain.AnalysisResult
	Err      error
}

// Service routes files to local or remote analysis
type Service struct {
	parser domain.ReadingParser
	remote domain.RemoteAnalyzer
	logger *observability.Logger
}

// NewService creates a new ingest service. remote may be nil, in which case
// PDFs fail with a configuration error.
func NewService(parser domain.ReadingParser, remote domain.RemoteAnalyzer, logger *observability.Logger) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Service{
		parser: parser,
		remote: remote,
		logger: logger.WithOperation("ingest"),
	}
}

// IsRemote reports whether file would be sent to the remote analyzer.
func IsRemote(file domain.UploadedFile) bool {
	return pdf.IsPDF(file.Name, file.MimeType)
}

// Analyze produces an analysis result for one file. Errors are returned
// unchanged so callers can surface them verbatim.
func (s *Service) Analyze(ctx context.Context, file domain.UploadedFile) (*domain.AnalysisResult, error) {
	if IsRemote(file) {
		if s.remote == nil {
			return nil, domain.ConfigError("remote analysis is not configured; PDF reports cannot be parsed locally", nil)
		}
		s.logger.Debug().Str("file", file.Name).Int64("size", file.Size()).Msg("Routing PDF to remote analysis")
		return s.remote.AnalyzeFile(ctx, file)
	}

	s.logger.Debug().Str("file", file.Name).Msg("Parsing file locally")
	return s.parser.Analyze(DecodeText(file.Data), file.Name)
}

// AnalyzeBatch analyzes files in order, reporting progress on eventCh.
// A failed file does not stop the batch.
func (s *Service) AnalyzeBatch(ctx context.Context, files []domain.UploadedFile, eventCh chan<- Event) []Outcome {
	startTime := time.Now()
	s.emitEvent(eventCh, Event{
		Type:      EventStart,
		Payload:   fmt.Sprintf("Analyzing %d file(s)", len(files)),
		Timestamp: time.Now(),
	})

	outcomes := make([]Outcome, 0, len(files))
	failCount := 0
	for i, file := range files {
		select {
		case <-ctx.Done():
			s.emitEvent(eventCh, Event{Type: EventError, Payload: ctx.Err().Error(), Timestamp: time.Now()})
			outcomes = append(outcomes, Outcome{FileName: file.Name, Err: ctx.Err()})
			return outcomes
		default:
		}

		s.emitEvent(eventCh, Event{
			Type:      EventFileProcessing,
			FileName:  file.Name,
			Index:     i,
			Timestamp: time.Now(),
		})

		result, err := s.Analyze(ctx, file)
		outcomes = append(outcomes, Outcome{FileName: file.Name, Result: result, Err: err})
		if err != nil {
			failCount++
			s.emitEvent(eventCh, Event{
				Type:      EventError,
				FileName:  file.Name,
				Index:     i,
				Payload:   domain.UserMessage(err),
				Timestamp: time.Now(),
			})
			continue
		}

		s.emitEvent(eventCh, Event{
			Type:      EventFileComplete,
			FileName:  file.Name,
			Index:     i,
			Payload:   fmt.Sprintf("%d reading(s)", len(result.Entries)),
			Timestamp: time.Now(),
		})
	}

	s.emitEvent(eventCh, Event{
		Type: EventComplete,
		Payload: fmt.Sprintf("Analysis complete: %d/%d files successful in %v",
			len(files)-failCount, len(files), time.Since(startTime).Round(time.Millisecond)),
		Timestamp: time.Now(),
	})
	s.logger.Info().Int("files", len(files)).Int("failed", failCount).Msg("Batch analysis complete")
	return outcomes
}

// emitEvent sends without blocking; a full channel drops the event
func (s *Service) emitEvent(eventCh chan<- Event, event Event) {
	if eventCh == nil {
		return
	}
	select {
	case eventCh <- event:
	default:
		s.logger.Warn().Str("event", string(event.Type)).Msg("Event channel full, dropping event")
	}
}

// DecodeText turns file bytes into a string, dropping a UTF-8 byte order
// mark and replacing invalid sequences.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	text := strings.ToValidUTF8(string(data), "�")
	return strings.ReplaceAll(text, "\r\n", "\n")
}
