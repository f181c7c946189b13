package readings

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/spherical/homellm/internal/domain"
)

// ErrNoReadingsMessage describes the input shapes the parser understands.
const ErrNoReadingsMessage = "no numeric readings found; paste CSV rows (Parameter,Value,Unit), a JSON list of {parameter, value, unit} entries, or \"Parameter: value unit\" lines"

// Header cell substrings per column.
var (
	parameterHeaders = []string{"parameter", "contaminant", "analyte", "name"}
	valueHeaders     = []string{"value", "result", "concentration", "reading", "level"}
	unitHeaders      = []string{"unit"}
	statusHeaders    = []string{"status"}
	referenceHeaders = []string{"reference", "limit"}

	hasLetter = regexp.MustCompile(`[A-Za-z]`)
)

// ParserConfig configures a Parser.
type ParserConfig struct {
	// Standards is the threshold table, searched in order. Defaults to DefaultStandards.
	Standards []domain.Threshold
}

// Parser converts raw lab text into readings.
type Parser struct {
	standards []domain.Threshold
}

// NewParser creates a new reading parser.
func NewParser(cfg ParserConfig) *Parser {
	standards := cfg.Standards
	if len(standards) == 0 {
		standards = DefaultStandards()
	}
	return &Parser{standards: standards}
}

// Standards returns the threshold table in match order.
func (p *Parser) Standards() []domain.Threshold {
	return p.standards
}

// FindThreshold looks up the threshold for a parameter name.
func (p *Parser) FindThreshold(name string) *domain.Threshold {
	return FindStandard(p.standards, name)
}

// ParseReadings extracts readings from JSON, delimited or "key: value" text.
func (p *Parser) ParseReadings(raw string) ([]domain.Reading, error) {
	candidates, ok := CandidatesFromJSON(raw)
	if !ok || len(candidates) == 0 {
		candidates = CandidatesFromText(raw)
	}

	entries := p.NormalizeAll(candidates)
	if len(entries) == 0 {
		return nil, domain.ParseError(ErrNoReadingsMessage, nil)
	}
	return entries, nil
}

// Analyze parses raw text and wraps the readings in an AnalysisResult.
func (p *Parser) Analyze(raw, fileName string) (*domain.AnalysisResult, error) {
	entries, err := p.ParseReadings(raw)
	if err != nil {
		return nil, err
	}
	result := domain.NewAnalysisResult(fileName, entries)
	result.Summary = Summarize(result)
	result.RawText = raw
	return result, nil
}

// NormalizeAll normalizes candidates, dropping any that lack a name or number.
// Duplicates are kept.
func (p *Parser) NormalizeAll(candidates []Candidate) []domain.Reading {
	entries := make([]domain.Reading, 0, len(candidates))
	for _, c := range candidates {
		if r, ok := p.Normalize(c); ok {
			entries = append(entries, r)
		}
	}
	return entries
}

// Normalize turns one candidate into a reading.
func (p *Parser) Normalize(c Candidate) (domain.Reading, bool) {
	parameter, ok := extractParameter(c)
	if !ok {
		return domain.Reading{}, false
	}
	value, inferredUnit, ok := extractValue(c)
	if !ok {
		return domain.Reading{}, false
	}
	unit, ok := extractUnit(c)
	if !ok {
		unit = inferredUnit
	}

	static := p.FindThreshold(parameter)
	explicit, _ := extractReference(c)
	reference := mergeReference(explicit, static)

	status, ok := extractStatus(c)
	if !ok {
		status = compare(value, reference)
	}

	return domain.Reading{
		Parameter: parameter,
		Value:     value,
		Unit:      unit,
		Status:    status,
		Reference: reference,
	}, true
}

// mergeReference prefers explicit fields and fills gaps from the static table.
func mergeReference(explicit, static *domain.Threshold) *domain.Threshold {
	if explicit == nil {
		return static
	}
	if static == nil {
		return explicit
	}
	merged := *explicit
	if merged.Label == "" {
		merged.Label = static.Label
	}
	if merged.MCL == nil {
		merged.MCL = static.MCL
	}
	if merged.Unit == "" {
		merged.Unit = static.Unit
	}
	if merged.ThresholdLabel == "" {
		merged.ThresholdLabel = static.ThresholdLabel
	}
	if merged.Summary == "" {
		merged.Summary = static.Summary
	}
	if len(merged.Aliases) == 0 {
		merged.Aliases = static.Aliases
	}
	return &merged
}

func compare(value float64, ref *domain.Threshold) domain.Status {
	if ref == nil || ref.MCL == nil {
		return domain.StatusUnknown
	}
	if value > *ref.MCL {
		return domain.StatusExceeds
	}
	return domain.StatusWithin
}

// CandidatesFromJSON reads a list, a {results: [...]} or {readings: [...]}
// wrapper, or a plain object of parameter/value pairs. ok is false when raw
// is not JSON or has none of these shapes.
func CandidatesFromJSON(raw string) ([]Candidate, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}
	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil, false
	}

	switch v := parsed.(type) {
	case []any:
		return candidatesFromList(v), true
	case map[string]any:
		if list, ok := v["results"].([]any); ok {
			return candidatesFromList(list), true
		}
		if list, ok := v["readings"].([]any); ok {
			return candidatesFromList(list), true
		}
		candidates := make([]Candidate, 0, len(v))
		for _, key := range objectKeys(trimmed) {
			candidates = append(candidates, Candidate{"parameter": key, "value": v[key]})
		}
		return candidates, true
	}
	return nil, false
}

func candidatesFromList(list []any) []Candidate {
	candidates := make([]Candidate, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			candidates = append(candidates, Candidate(obj))
		}
	}
	return candidates
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(raw string) []string {
	dec := json.NewDecoder(strings.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	seen := make(map[string]bool)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
		// Later duplicates overwrite the value but keep the first position.
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// CandidatesFromText reads delimited rows (tab, semicolon or comma, chosen
// from the first line) or, when the first line has no delimiter, one
// "key: value" pair per line.
func CandidatesFromText(raw string) []Candidate {
	lines := nonEmptyLines(raw)
	if len(lines) == 0 {
		return nil
	}

	delim := detectDelimiter(lines[0])
	if delim == "" {
		candidates := make([]Candidate, 0, len(lines))
		for _, line := range lines {
			if c, ok := colonPair(line); ok {
				candidates = append(candidates, c)
			}
		}
		return candidates
	}

	first := splitCells(lines[0], delim)
	cols := defaultColumns(len(first))
	start := 0
	if isHeaderRow(first) {
		cols = headerColumns(first)
		start = 1
	}

	candidates := make([]Candidate, 0, len(lines)-start)
	for _, line := range lines[start:] {
		cells := splitCells(line, delim)
		if len(cells) == 1 {
			if c, ok := colonPair(line); ok {
				candidates = append(candidates, c)
				continue
			}
		}
		c := Candidate{
			"parameter": cell(cells, cols.parameter, 0),
			"value":     cell(cells, cols.value, 1),
			"unit":      cell(cells, cols.unit, 2),
		}
		if cols.status >= 0 {
			c["status"] = cell(cells, cols.status, -1)
		}
		if cols.reference >= 0 {
			c["reference"] = cell(cells, cols.reference, -1)
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// columns holds cell indices; -1 means the column is absent.
type columns struct {
	parameter int
	value     int
	unit      int
	status    int
	reference int
}

func defaultColumns(n int) columns {
	cols := columns{parameter: 0, value: 1, unit: 2, status: -1, reference: -1}
	if n < 2 {
		cols.value = -1
	}
	if n < 3 {
		cols.unit = -1
	}
	return cols
}

func headerColumns(header []string) columns {
	cols := defaultColumns(len(header))
	if i := findHeader(header, parameterHeaders); i >= 0 {
		cols.parameter = i
	}
	if i := findHeader(header, valueHeaders); i >= 0 {
		cols.value = i
	}
	if i := findHeader(header, unitHeaders); i >= 0 {
		cols.unit = i
	}
	cols.status = findHeader(header, statusHeaders)
	cols.reference = findHeader(header, referenceHeaders)
	return cols
}

func findHeader(header []string, needles []string) int {
	for i, h := range header {
		lower := strings.ToLower(h)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return i
			}
		}
	}
	return -1
}

// isHeaderRow treats a first row as a header when it has letters and at
// least one cell names a parameter, value or unit column. Rows such as
// "Lead,0.02,mg/L" stay data.
func isHeaderRow(cells []string) bool {
	if !hasLetter.MatchString(strings.Join(cells, " ")) {
		return false
	}
	for _, names := range [][]string{parameterHeaders, valueHeaders, unitHeaders} {
		if findHeader(cells, names) >= 0 {
			return true
		}
	}
	return false
}

// cell returns cells[idx], or cells[fallback] when idx is unresolved.
func cell(cells []string, idx, fallback int) string {
	if idx < 0 {
		idx = fallback
	}
	if idx >= 0 && idx < len(cells) {
		return cells[idx]
	}
	return ""
}

func detectDelimiter(line string) string {
	for _, d := range []string{"\t", ";", ","} {
		if strings.Contains(line, d) {
			return d
		}
	}
	return ""
}

func splitCells(line, delim string) []string {
	cells := strings.Split(line, delim)
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func colonPair(line string) (Candidate, bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return nil, false
	}
	return Candidate{
		"parameter": strings.TrimSpace(line[:idx]),
		"value":     strings.TrimSpace(line[idx+1:]),
	}, true
}

func nonEmptyLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
