package readings

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spherical/homellm/internal/domain"
)

// Candidate is one loosely shaped reading before normalization.
type Candidate map[string]any

// Field synonyms in priority order.
var (
	parameterFields = []string{"parameter", "name", "contaminant", "analyte", "id"}
	valueFields     = []string{"value", "result", "reading", "concentration", "level", "amount"}
	unitFields      = []string{"unit", "units"}
	statusFields    = []string{"status"}
	referenceFields = []string{"reference"}

	refLabelFields     = []string{"label", "parameter", "name"}
	refLimitFields     = []string{"limit", "mcl", "value", "threshold"}
	refTypeFields      = []string{"thresholdLabel", "type", "standard"}
	refSummaryFields   = []string{"summary", "note", "notes"}
	numericToken       = regexp.MustCompile(`[-+]?\d*\.?\d+(?:[eE][-+]?\d+)?`)
	numericGlyphCutter = strings.NewReplacer(",", "", "<", "", ">", "")
)

// lookup returns the value under key, falling back to a case-insensitive match.
func (c Candidate) lookup(key string) (any, bool) {
	if v, ok := c[key]; ok {
		return v, true
	}
	for k, v := range c {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// first returns the first non-empty value among keys.
func (c Candidate) first(keys []string) (any, bool) {
	for _, key := range keys {
		v, ok := c.lookup(key)
		if !ok || isEmpty(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

// extractParameter returns the trimmed analyte name.
func extractParameter(c Candidate) (string, bool) {
	v, ok := c.first(parameterFields)
	if !ok {
		return "", false
	}
	s := strings.TrimSpace(stringify(v))
	return s, s != ""
}

// extractValue returns the rounded numeric value and any unit text that
// trailed the numeric token. Values too large to round stay unusable.
func extractValue(c Candidate) (float64, string, bool) {
	v, ok := c.first(valueFields)
	if !ok {
		return 0, "", false
	}
	num, rest, ok := coerceNumber(v)
	if !ok {
		return 0, "", false
	}
	rounded := round4(num)
	if !finite(rounded) {
		return 0, "", false
	}
	return rounded, rest, true
}

func extractUnit(c Candidate) (string, bool) {
	v, ok := c.first(unitFields)
	if !ok {
		return "", false
	}
	s := strings.TrimSpace(stringify(v))
	return s, s != ""
}

func extractStatus(c Candidate) (domain.Status, bool) {
	v, ok := c.first(statusFields)
	if !ok {
		return "", false
	}
	s, isString := v.(string)
	if !isString {
		return "", false
	}
	return domain.ParseStatus(s)
}

// extractReference reads an explicit threshold given either as text such as
// "0.015 mg/L", a bare number, or an object with label/limit/unit fields.
func extractReference(c Candidate) (*domain.Threshold, bool) {
	v, ok := c.first(referenceFields)
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case map[string]any:
		return referenceFromObject(Candidate(t))
	case Candidate:
		return referenceFromObject(t)
	default:
		num, rest, ok := coerceNumber(t)
		if !ok {
			return nil, false
		}
		return &domain.Threshold{MCL: mcl(num), Unit: rest}, true
	}
}

func referenceFromObject(obj Candidate) (*domain.Threshold, bool) {
	ref := &domain.Threshold{}
	if v, ok := obj.first(refLabelFields); ok {
		ref.Label = strings.TrimSpace(stringify(v))
	}
	if v, ok := obj.first(refLimitFields); ok {
		if num, rest, ok := coerceNumber(v); ok {
			ref.MCL = mcl(num)
			ref.Unit = rest
		}
	}
	if unit, ok := extractUnit(obj); ok {
		ref.Unit = unit
	}
	if v, ok := obj.first(refTypeFields); ok {
		ref.ThresholdLabel = strings.TrimSpace(stringify(v))
	}
	if v, ok := obj.first(refSummaryFields); ok {
		ref.Summary = strings.TrimSpace(stringify(v))
	}
	if ref.Label == "" && ref.MCL == nil && ref.Unit == "" && ref.ThresholdLabel == "" && ref.Summary == "" {
		return nil, false
	}
	return ref, true
}

// coerceNumber accepts finite numbers directly and otherwise scans text for
// the first numeric token, returning whatever follows it as rest.
func coerceNumber(v any) (float64, string, bool) {
	switch t := v.(type) {
	case float64:
		return t, "", finite(t)
	case float32:
		return float64(t), "", finite(float64(t))
	case int:
		return float64(t), "", true
	case int64:
		return float64(t), "", true
	case string:
		return numberFromText(t)
	}
	return 0, "", false
}

func numberFromText(s string) (float64, string, bool) {
	cleaned := numericGlyphCutter.Replace(s)
	loc := numericToken.FindStringIndex(cleaned)
	if loc == nil {
		return 0, "", false
	}
	num, err := strconv.ParseFloat(cleaned[loc[0]:loc[1]], 64)
	if err != nil || !finite(num) {
		return 0, "", false
	}
	return num, strings.TrimSpace(cleaned[loc[1]:]), true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}
