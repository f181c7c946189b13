// Package session holds composer form state and the transitions that
// update it.
package session

import (
	"slices"

	"github.com/spherical/homellm/internal/domain"
)

// State is everything one composer session owns.
type State struct {
	Form           domain.FormState       `json:"form"`
	Attachments    []domain.Attachment    `json:"attachments"`
	Analysis       *domain.AnalysisResult `json:"analysis"`
	GeneratedEmail string                 `json:"generatedEmail"`
}

// DefaultState returns a fresh session state.
func DefaultState() State {
	return State{
		Form:        domain.DefaultFormState(),
		Attachments: []domain.Attachment{},
	}
}

// clone copies the attachment list so transitions never share it.
func (s State) clone() State {
	s.Attachments = slices.Clone(s.Attachments)
	if s.Attachments == nil {
		s.Attachments = []domain.Attachment{}
	}
	return s
}

// formFields maps the JSON name of every form field to its storage.
// Only these names are accepted by FieldChanged.
func formFields(f *domain.FormState) map[string]*string {
	return map[string]*string{
		"issueType":         &f.IssueType,
		"recipient":         &f.Recipient,
		"location":          &f.Location,
		"city":              &f.City,
		"state":             &f.State,
		"evidence":          &f.Evidence,
		"measurements":      &f.Measurements,
		"previousContact":   &f.PreviousContact,
		"healthImpact":      &f.HealthImpact,
		"regulations":       &f.Regulations,
		"desiredOutcome":    &f.DesiredOutcome,
		"escalationLevel":   &f.EscalationLevel,
		"affectedResidents": &f.AffectedResidents,
		"propertyAge":       &f.PropertyAge,
		"urgencyLevel":      &f.UrgencyLevel,
		"senderName":        &f.SenderName,
		"senderEmail":       &f.SenderEmail,
		"senderPhone":       &f.SenderPhone,
		"senderAddress":     &f.SenderAddress,
		"apiKey":            &f.APIKey,
	}
}

// IsFormField reports whether name is a form field.
func IsFormField(name string) bool {
	var f domain.FormState
	_, ok := formFields(&f)[name]
	return ok
}
