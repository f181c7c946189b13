// Package guidance holds the static regulatory guidance tables used to
// compose escalation emails. The tables are never mutated; every accessor
// returns copies.
package guidance

import "slices"

// Codes referenced outside this package.
const (
	IssueWaterQuality      = "water-quality"
	EscalationProfessional = "professional"
)

// Regulation is a technical guidance document for an issue type.
type Regulation struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// Issue describes one complaint category.
type Issue struct {
	Code           string       `json:"code" yaml:"code"`
	Label          string       `json:"label" yaml:"label"`
	Summary        string       `json:"summary" yaml:"summary"`
	EvidencePoints []string     `json:"evidencePoints" yaml:"evidence_points"`
	Regulations    []Regulation `json:"regulations" yaml:"regulations"`
}

// Recipient describes one addressee category.
type Recipient struct {
	Code             string   `json:"code" yaml:"code"`
	Label            string   `json:"label" yaml:"label"`
	Tone             string   `json:"tone" yaml:"tone"`
	Obligations      []string `json:"obligations" yaml:"obligations"`
	RequestedActions []string `json:"requestedActions" yaml:"requested_actions"`
}

// EscalationStyle is a tone/strategy selector.
type EscalationStyle struct {
	Code     string `json:"code" yaml:"code"`
	Label    string `json:"label" yaml:"label"`
	Guidance string `json:"guidance" yaml:"guidance"`
}

// Urgency maps a severity level to its guidance sentence.
type Urgency struct {
	Code     string `json:"code" yaml:"code"`
	Guidance string `json:"guidance" yaml:"guidance"`
}

// Citation is a statute or regulation reference.
type Citation struct {
	Citation string `json:"citation" yaml:"citation"`
	Summary  string `json:"summary" yaml:"summary"`
}

func (i Issue) clone() Issue {
	i.EvidencePoints = slices.Clone(i.EvidencePoints)
	i.Regulations = slices.Clone(i.Regulations)
	return i
}

func (r Recipient) clone() Recipient {
	r.Obligations = slices.Clone(r.Obligations)
	r.RequestedActions = slices.Clone(r.RequestedActions)
	return r
}

// Issues returns every issue type in display order.
func Issues() []Issue {
	out := make([]Issue, len(issues))
	for i, issue := range issues {
		out[i] = issue.clone()
	}
	return out
}

// LookupIssue returns the issue type for code.
func LookupIssue(code string) (Issue, bool) {
	for _, issue := range issues {
		if issue.Code == code {
			return issue.clone(), true
		}
	}
	return Issue{}, false
}

// Recipients returns every recipient category in display order.
func Recipients() []Recipient {
	out := make([]Recipient, len(recipients))
	for i, r := range recipients {
		out[i] = r.clone()
	}
	return out
}

// LookupRecipient returns the recipient category for code.
func LookupRecipient(code string) (Recipient, bool) {
	for _, r := range recipients {
		if r.Code == code {
			return r.clone(), true
		}
	}
	return Recipient{}, false
}

func EscalationStyles() []EscalationStyle {
	return slices.Clone(escalationStyles)
}

func LookupEscalation(code string) (EscalationStyle, bool) {
	for _, e := range escalationStyles {
		if e.Code == code {
			return e, true
		}
	}
	return EscalationStyle{}, false
}

func Urgencies() []Urgency {
	return slices.Clone(urgencies)
}

// UrgencyGuidance returns the guidance sentence for code, or "" when unknown.
func UrgencyGuidance(code string) string {
	for _, u := range urgencies {
		if u.Code == code {
			return u.Guidance
		}
	}
	return ""
}

// States lists the states with statutory references on file.
func States() []string {
	return slices.Clone(stateNames)
}

// StateRegulations returns the statutes on file for state; nil when none.
func StateRegulations(state string) []Citation {
	if state == "" {
		return nil
	}
	return slices.Clone(stateRegulations[state])
}

// FederalReferences returns the fixed federal citations.
func FederalReferences() []Citation {
	return slices.Clone(federalReferences)
}
