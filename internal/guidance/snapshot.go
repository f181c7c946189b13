package guidance

import "strings"

// Messages shown in place of guidance that cannot be resolved yet.
const (
	IncompleteSelectionMessage = "Update the case selections above to view tailored guidance."
	NoStateMessage             = "Select a state to surface state-level statutes and regulations."
)

// Snapshot is the guidance shown next to the composer for the current
// selections.
type Snapshot struct {
	Ready      bool             `json:"ready"`
	Message    string           `json:"message,omitempty"`
	Issue      *Issue           `json:"issue,omitempty"`
	Recipient  *Recipient       `json:"recipient,omitempty"`
	Escalation *EscalationStyle `json:"escalation,omitempty"`
	Urgency    string           `json:"urgency,omitempty"`
	State      string           `json:"state,omitempty"`
	StateRefs  []Citation       `json:"stateReferences"`
	StateNote  string           `json:"stateNote,omitempty"`
}

// Selection holds the selector codes a snapshot is built from.
type Selection struct {
	Issue      string
	Recipient  string
	Escalation string
	Urgency    string
	State      string
}

// BuildSnapshot resolves the selections against the tables. The snapshot is
// not Ready unless the issue, recipient and escalation codes are all known.
func BuildSnapshot(sel Selection) Snapshot {
	issue, issueOK := LookupIssue(sel.Issue)
	recipient, recipientOK := LookupRecipient(sel.Recipient)
	escalation, escalationOK := LookupEscalation(sel.Escalation)

	if !issueOK || !recipientOK || !escalationOK {
		return Snapshot{Message: IncompleteSelectionMessage, StateRefs: []Citation{}}
	}

	snap := Snapshot{
		Ready:      true,
		Issue:      &issue,
		Recipient:  &recipient,
		Escalation: &escalation,
		Urgency:    UrgencyGuidance(sel.Urgency),
		State:      sel.State,
		StateRefs:  StateRegulations(sel.State),
	}
	if len(snap.StateRefs) == 0 {
		snap.StateRefs = []Citation{}
		snap.StateNote = NoStateMessage
	}
	return snap
}

// Option is a selector code and its display label.
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Options lists the selector choices for each form field.
type Options struct {
	Issues      []Option `json:"issues"`
	Recipients  []Option `json:"recipients"`
	Escalations []Option `json:"escalations"`
	Urgencies   []Option `json:"urgencies"`
	States      []string `json:"states"`
}

// SelectorOptions returns the enumerations that back the form selectors.
func SelectorOptions() Options {
	opts := Options{States: States()}
	for _, i := range issues {
		opts.Issues = append(opts.Issues, Option{Code: i.Code, Label: i.Label})
	}
	for _, r := range recipients {
		opts.Recipients = append(opts.Recipients, Option{Code: r.Code, Label: r.Label})
	}
	for _, e := range escalationStyles {
		opts.Escalations = append(opts.Escalations, Option{Code: e.Code, Label: e.Label})
	}
	for _, u := range urgencies {
		opts.Urgencies = append(opts.Urgencies, Option{Code: u.Code, Label: urgencyLabel(u.Code)})
	}
	return opts
}

// urgencyLabel capitalizes the code for display.
func urgencyLabel(code string) string {
	if code == "" {
		return ""
	}
	return strings.ToUpper(code[:1]) + code[1:]
}
