package readings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spherical/homellm/internal/domain"
)

// Severity grades how far an exceedance sits above its limit.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Ratio multipliers over the limit for medium and high severity.
const (
	mediumRatio = 1.5
	highRatio   = 3.0
)

// SeverityOf grades a reading by value/limit. ok is false for readings
// without a positive numeric limit.
func SeverityOf(r domain.Reading) (Severity, bool) {
	if r.Reference == nil || r.Reference.MCL == nil || *r.Reference.MCL <= 0 {
		return "", false
	}
	ratio := r.Value / *r.Reference.MCL
	switch {
	case ratio >= highRatio:
		return SeverityHigh, true
	case ratio >= mediumRatio:
		return SeverityMedium, true
	default:
		return SeverityLow, true
	}
}

// Recommended actions attached to findings.
const (
	ActionFollowUpTest      = "Request a utility follow-up test and consider installing a certified filter designed to remove the contaminant."
	ActionComplianceInquiry = "Document the exceedance and file a compliance inquiry with the utility or state regulator."
)

// legalLimitLabel marks thresholds that are enforceable rather than advisory.
const legalLimitLabel = "maximum contaminant level"

// Finding is one exceedance with its graded severity and next step.
type Finding struct {
	Parameter string   `json:"parameter"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
	Action    string   `json:"action"`
}

// Findings grades every exceedance in result, highest severity first.
// Exceeding an enforceable limit is always high severity and calls for a
// compliance inquiry; other exceedances are graded by ratio and call for a
// follow-up test.
func Findings(result *domain.AnalysisResult) []Finding {
	if result == nil {
		return nil
	}
	findings := make([]Finding, 0, len(result.Exceedances))
	for _, r := range result.Exceedances {
		findings = append(findings, findingFor(r))
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return severityRank(findings[i].Severity) > severityRank(findings[j].Severity)
	})
	return findings
}

func findingFor(r domain.Reading) Finding {
	f := Finding{
		Parameter: r.Parameter,
		Message:   describeExceedance(r),
		Severity:  SeverityLow,
		Action:    ActionFollowUpTest,
	}
	if sev, ok := SeverityOf(r); ok {
		f.Severity = sev
	}
	if exceedsLegalLimit(r) {
		f.Severity = SeverityHigh
		f.Message += "; exceeds legal limit"
		f.Action = ActionComplianceInquiry
	}
	return f
}

func exceedsLegalLimit(r domain.Reading) bool {
	if r.Reference == nil || r.Reference.MCL == nil {
		return false
	}
	label := strings.ToLower(r.Reference.ThresholdLabel)
	return strings.Contains(label, legalLimitLabel) && r.Value > *r.Reference.MCL
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	}
	return 0
}

// Summarize renders a one-line digest of a result suitable for the
// measurements field of an escalation. Exceedances are listed highest
// severity first, followed by the distinct recommended actions.
func Summarize(result *domain.AnalysisResult) string {
	if result == nil || len(result.Entries) == 0 {
		return ""
	}

	n := len(result.Entries)
	k := len(result.Exceedances)
	noun := "readings"
	if n == 1 {
		noun = "reading"
	}
	if k == 0 {
		return fmt.Sprintf("Parsed %d water-quality %s; none exceed EPA reference thresholds", n, noun)
	}

	verb := "exceed"
	if k == 1 {
		verb = "exceeds"
	}
	findings := Findings(result)
	parts := make([]string, 0, len(findings))
	var actions []string
	seen := make(map[string]bool)
	for _, f := range findings {
		parts = append(parts, fmt.Sprintf("%s (%s severity)", f.Message, f.Severity))
		if !seen[f.Action] {
			seen[f.Action] = true
			actions = append(actions, f.Action)
		}
	}
	return fmt.Sprintf("Parsed %d water-quality %s; %d %s EPA reference thresholds: %s. Recommended actions: %s",
		n, noun, k, verb, strings.Join(parts, "; "), strings.Join(actions, " "))
}

func describeExceedance(r domain.Reading) string {
	measured := strings.TrimSpace(FormatValue(r.Value) + " " + r.Unit)
	if r.Reference == nil || r.Reference.MCL == nil {
		return fmt.Sprintf("%s %s", r.Parameter, measured)
	}

	label := r.Reference.ThresholdLabel
	if label == "" {
		label = "limit"
	}
	limit := strings.TrimSpace(FormatValue(*r.Reference.MCL) + " " + r.Reference.Unit)
	return fmt.Sprintf("%s %s vs %s %s", r.Parameter, measured, label, limit)
}

// CanonicalHeader is the first line of CanonicalText.
const CanonicalHeader = "Parameter\tValue\tUnit\tStatus\tReference"

// CanonicalText writes a result back out as tab-delimited rows with the
// status and reference limit of each reading, so the text re-parses to the
// same parameters, values, units and statuses. Tabs inside fields become
// spaces.
func CanonicalText(result *domain.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(CanonicalHeader)
	b.WriteByte('\n')
	if result == nil {
		return b.String()
	}
	for _, r := range result.Entries {
		reference := ""
		if r.Reference != nil && r.Reference.MCL != nil {
			reference = strings.TrimSpace(FormatValue(*r.Reference.MCL) + " " + r.Reference.Unit)
		}
		fields := []string{r.Parameter, FormatValue(r.Value), r.Unit, string(r.Status), reference}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(stripTab(f))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatValue prints a value with the fewest digits that round-trip.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stripTab(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
