// Package composer renders escalation emails from form state and the
// guidance tables. Rendering is deterministic and never fails: blank fields
// fall back to placeholders or drop out of the email.
package composer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/guidance"
)

// DownloadFilename is the name offered when the email is saved as text.
const DownloadFilename = "HomeLLM-escalation-email.txt"

// Fallback text for blank or unrecognized fields.
const (
	FallbackSubject   = "Indoor Environmental Concern"
	FallbackGreeting  = "To whom it may concern,"
	FallbackSender    = "our assessment team"
	FallbackIssue     = "an indoor environmental issue"
	FallbackLocation  = "the property"
	FallbackSignature = "Sincerely,\nHomeLLM Advocacy Team"

	ClosingRequest = "Please reply with confirmation of receipt, assigned point of contact, and the proposed timeline for resolution."
)

// Email is a composed subject and body.
type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Text renders the email the way it is copied or downloaded.
func (e Email) Text() string {
	return "Subject: " + e.Subject + "\n\n" + e.Body
}

// draft is the form resolved against the guidance tables.
type draft struct {
	form        domain.FormState
	attachments []domain.Attachment

	issue      *guidance.Issue
	recipient  *guidance.Recipient
	escalation guidance.EscalationStyle
	urgency    string
	stateRefs  []guidance.Citation
}

func newDraft(form domain.FormState, attachments []domain.Attachment) *draft {
	d := &draft{form: form, attachments: attachments}
	if issue, ok := guidance.LookupIssue(form.IssueType); ok {
		d.issue = &issue
	}
	if recipient, ok := guidance.LookupRecipient(form.Recipient); ok {
		d.recipient = &recipient
	}
	escalation, ok := guidance.LookupEscalation(form.EscalationLevel)
	if !ok {
		escalation, _ = guidance.LookupEscalation(guidance.EscalationProfessional)
	}
	d.escalation = escalation
	d.urgency = guidance.UrgencyGuidance(form.UrgencyLevel)
	d.stateRefs = guidance.StateRegulations(strings.TrimSpace(form.State))
	return d
}

// section renders one block of the body; "" drops it.
type section func(d *draft) string

// bodySections is the fixed order of body blocks.
var bodySections = []section{
	greeting,
	introduction,
	escalationGuidance,
	keyFindings,
	regulatoryContext,
	nextSteps,
	closingRequest,
	signature,
	contactBlock,
}

// BuildEmail composes the subject and body for a form and its attachments.
func BuildEmail(form domain.FormState, attachments []domain.Attachment) Email {
	d := newDraft(form, attachments)

	blocks := make([]string, 0, len(bodySections))
	for _, render := range bodySections {
		if block := render(d); strings.TrimSpace(block) != "" {
			blocks = append(blocks, block)
		}
	}
	return Email{Subject: subject(d), Body: strings.Join(blocks, "\n\n")}
}

func subject(d *draft) string {
	parts := []string{FallbackSubject}
	if d.issue != nil {
		parts[0] = d.issue.Label
	}
	if location := trimmed(d.form.Location); location != "" {
		parts = append(parts, "– "+location)
	}
	if city := trimmed(d.form.City); city != "" {
		parts = append(parts, "("+city+")")
	}
	return strings.Join(parts, " ")
}

func greeting(d *draft) string {
	if d.recipient == nil {
		return FallbackGreeting
	}
	return "To the " + d.recipient.Label + ","
}

func introduction(d *draft) string {
	issue := FallbackIssue
	if d.issue != nil {
		issue = strings.ToLower(d.issue.Label)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "I am writing on behalf of %s regarding %s at %s",
		fallback(d.form.SenderName, FallbackSender), issue, fallback(d.form.Location, FallbackLocation))
	// No " in" clause when both city and state are blank.
	if place := joinNonEmpty(", ", d.form.City, d.form.State); place != "" {
		sb.WriteString(" in " + place)
	}
	sb.WriteString(".")
	return sb.String()
}

func escalationGuidance(d *draft) string {
	return d.escalation.Guidance
}

func keyFindings(d *draft) string {
	var lines []string
	add := func(format, value string) {
		if v := trimmed(value); v != "" {
			lines = append(lines, fmt.Sprintf(format, v))
		}
	}
	add("Measured data: %s.", d.form.Measurements)
	add("Supporting evidence: %s.", d.form.Evidence)
	add("Resident impact: %s.", d.form.HealthImpact)
	add("Affected residents/units: %s.", d.form.AffectedResidents)
	add("Property details: %s.", d.form.PropertyAge)
	if len(d.attachments) > 0 {
		names := make([]string, len(d.attachments))
		for i, a := range d.attachments {
			names[i] = a.Name
		}
		lines = append(lines, "Attachments provided: "+strings.Join(names, ", ")+".")
	}
	return bulleted("Key Findings:", lines)
}

func regulatoryContext(d *draft) string {
	var lines []string
	if d.issue != nil && len(d.issue.Regulations) > 0 {
		titles := make([]string, len(d.issue.Regulations))
		for i, r := range d.issue.Regulations {
			titles[i] = r.Title
		}
		lines = append(lines, "Applicable technical guidance includes "+strings.Join(titles, "; ")+".")
	}
	if len(d.stateRefs) > 0 {
		refs := make([]string, len(d.stateRefs))
		for i, r := range d.stateRefs {
			refs[i] = r.Citation + " (" + r.Summary + ")"
		}
		lines = append(lines, "Relevant "+trimmed(d.form.State)+" provisions: "+strings.Join(refs, "; ")+".")
	}
	if local := trimmed(d.form.Regulations); local != "" {
		lines = append(lines, "Local code references provided by residents: "+local+".")
	}
	if d.recipient != nil {
		line := "As noted, your obligations include " + strings.Join(d.recipient.Obligations, " ")
		if d.urgency != "" {
			line += " The current urgency level is " + d.urgency
		}
		lines = append(lines, line)
	}
	if len(d.stateRefs) == 0 {
		fed := guidance.FederalReferences()
		refs := make([]string, len(fed))
		for i, r := range fed {
			refs[i] = r.Citation + " – " + r.Summary
		}
		lines = append(lines, "Federal references to consider: "+strings.Join(refs, "; ")+".")
	}
	return bulleted("Regulatory Context:", lines)
}

func nextSteps(d *draft) string {
	var lines []string
	if d.recipient != nil {
		lines = append(lines, "Requested actions: "+numbered(d.recipient.RequestedActions))
	}
	if v := trimmed(d.form.DesiredOutcome); v != "" {
		lines = append(lines, "Desired outcome from residents: "+v+".")
	}
	if v := trimmed(d.form.PreviousContact); v != "" {
		lines = append(lines, "Previous contact history: "+v+".")
	}
	if len(lines) == 0 {
		return ""
	}
	return "Requested Next Steps:\n" + strings.Join(lines, "\n")
}

func closingRequest(*draft) string {
	return ClosingRequest
}

func signature(d *draft) string {
	if name := trimmed(d.form.SenderName); name != "" {
		return "Sincerely,\n" + name
	}
	return FallbackSignature
}

func contactBlock(d *draft) string {
	return joinNonEmpty("\n", d.form.SenderAddress, d.form.SenderEmail, d.form.SenderPhone)
}

func bulleted(heading string, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(heading)
	for _, line := range lines {
		sb.WriteString("\n• ")
		sb.WriteString(line)
	}
	return sb.String()
}

func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = strconv.Itoa(i+1) + ". " + item
	}
	return strings.Join(lines, "\n")
}

func fallback(value, placeholder string) string {
	if v := trimmed(value); v != "" {
		return v
	}
	return placeholder
}

func joinNonEmpty(sep string, values ...string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if t := trimmed(v); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, sep)
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
