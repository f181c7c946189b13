package analysis

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/readings"
)

// ISOTimeLayout matches JavaScript's Date.toISOString output.
const ISOTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Payload field names in priority order.
var (
	entryArrayFields = []string{"entries", "results", "readings", "parameters"}
	tableFields      = []string{"table"}
	rawTextFields    = []string{"rawText", "raw", "csv", "tableText"}

	timeLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// Adapter reshapes remote analysis responses into analysis results.
type Adapter struct {
	parser *readings.Parser
	model  string
	now    func() time.Time
}

// NewAdapter creates a response adapter. model is reported when the response
// names none; now supplies reviewedAt when the response has no timestamp.
func NewAdapter(parser *readings.Parser, model string, now func() time.Time) *Adapter {
	if parser == nil {
		parser = readings.NewParser(readings.ParserConfig{})
	}
	if model == "" {
		model = DefaultModel
	}
	if now == nil {
		now = time.Now
	}
	return &Adapter{parser: parser, model: model, now: now}
}

// Reshape converts a response body into an AnalysisResult. A body with no
// recognizable readings fails with a remote analysis error; readings that
// are all unusable fail with a parse error.
func (a *Adapter) Reshape(body []byte, fileName string) (*domain.AnalysisResult, error) {
	root := decodeBody(body)

	payload, nested := root, false
	if sub, ok := root["analysis"].(map[string]any); ok {
		payload, nested = sub, true
	}

	candidates, rawText, found := locateReadings(payload)
	if !found && nested {
		candidates, rawText, found = locateReadings(root)
	}
	if !found {
		return nil, domain.RemoteAnalysisError("analysis response did not include any readings or table text", nil)
	}

	entries := a.parser.NormalizeAll(candidates)
	if len(entries) == 0 {
		return nil, domain.ParseError("analysis response contained no numeric readings", nil)
	}

	result := domain.NewAnalysisResult(fileName, entries)
	result.Summary = firstString(payload, root, "summary")
	if result.Summary == "" {
		result.Summary = readings.Summarize(result)
	}
	result.Model = firstString(payload, root, "model")
	if result.Model == "" {
		result.Model = a.model
	}
	result.ReviewedAt = a.reviewedAt(firstValue(payload, root, "reviewedAt"))
	result.RawText = rawText
	if result.RawText == "" {
		result.RawText = firstString(payload, root, "rawText")
	}
	return result, nil
}

// decodeBody parses JSON, then the outermost {...} span, and finally wraps
// the text as rawText.
func decodeBody(body []byte) map[string]any {
	text := strings.TrimSpace(string(body))

	if v, ok := decodeJSON(text); ok {
		return v
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		if v, ok := decodeJSON(text[start : end+1]); ok {
			return v
		}
	}
	return map[string]any{"rawText": text}
}

func decodeJSON(text string) (map[string]any, bool) {
	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, false
	}
	switch v := parsed.(type) {
	case map[string]any:
		return v, true
	case []any:
		return map[string]any{"entries": v}, true
	case string:
		return map[string]any{"rawText": v}, true
	}
	return nil, false
}

func locateReadings(payload map[string]any) ([]readings.Candidate, string, bool) {
	for _, key := range entryArrayFields {
		if list, ok := payload[key].([]any); ok {
			candidates := make([]readings.Candidate, 0, len(list))
			for _, item := range list {
				if obj, ok := item.(map[string]any); ok {
					candidates = append(candidates, readings.Candidate(obj))
				}
			}
			return candidates, "", true
		}
	}
	for _, fields := range [][]string{tableFields, rawTextFields} {
		for _, key := range fields {
			if text, ok := payload[key].(string); ok && strings.TrimSpace(text) != "" {
				return readings.CandidatesFromText(text), text, true
			}
		}
	}
	return nil, "", false
}

func (a *Adapter) reviewedAt(v any) string {
	if t, ok := parseTimestamp(v); ok {
		return t.UTC().Format(ISOTimeLayout)
	}
	return a.now().UTC().Format(ISOTimeLayout)
}

// parseTimestamp accepts epoch milliseconds (number or numeric string) and
// ISO-8601 date or date-time strings.
func parseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case float64:
		return time.UnixMilli(int64(t)), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms), true
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func firstValue(payload, root map[string]any, key string) any {
	if v, ok := payload[key]; ok && v != nil {
		return v
	}
	return root[key]
}

func firstString(payload, root map[string]any, key string) string {
	for _, m := range []map[string]any{payload, root} {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
