package session

import (
	"encoding/json"
	"fmt"

	"github.com/spherical/homellm/internal/domain"
)

// EventType names an event on the wire.
type EventType string

const (
	EventFieldChanged      EventType = "field_changed"
	EventAttachmentsAdded  EventType = "attachments_added"
	EventAttachmentRemoved EventType = "attachment_removed"
	EventAnalysisApplied   EventType = "analysis_applied"
	EventAnalysisCleared   EventType = "analysis_cleared"
	EventReset             EventType = "reset"
	EventEmailGenerated    EventType = "email_generated"
)

// Event is a user action applied to a session.
type Event interface {
	Type() EventType
}

// FieldChanged sets one form field by its JSON name.
type FieldChanged struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AttachmentsAdded appends evidence files.
type AttachmentsAdded struct {
	Attachments []domain.Attachment `json:"attachments"`
}

// AttachmentRemoved removes the attachment at Index.
type AttachmentRemoved struct {
	Index int `json:"index"`
}

// AnalysisApplied replaces the current analysis result.
type AnalysisApplied struct {
	Result *domain.AnalysisResult `json:"result"`
}

type AnalysisCleared struct{}

type Reset struct{}

// EmailGenerated composes the email from the current form.
type EmailGenerated struct{}

func (FieldChanged) Type() EventType      { return EventFieldChanged }
func (AttachmentsAdded) Type() EventType  { return EventAttachmentsAdded }
func (AttachmentRemoved) Type() EventType { return EventAttachmentRemoved }
func (AnalysisApplied) Type() EventType   { return EventAnalysisApplied }
func (AnalysisCleared) Type() EventType   { return EventAnalysisCleared }
func (Reset) Type() EventType             { return EventReset }
func (EmailGenerated) Type() EventType    { return EventEmailGenerated }

// DecodeEvent reads an event from {"type": "...", ...fields}.
func DecodeEvent(data []byte) (Event, error) {
	var envelope struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, domain.ValidationError("invalid event payload", err)
	}

	var event Event
	switch envelope.Type {
	case EventFieldChanged:
		var e FieldChanged
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, domain.ValidationError("invalid field_changed event", err)
		}
		event = e
	case EventAttachmentsAdded:
		var e AttachmentsAdded
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, domain.ValidationError("invalid attachments_added event", err)
		}
		event = e
	case EventAttachmentRemoved:
		var e AttachmentRemoved
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, domain.ValidationError("invalid attachment_removed event", err)
		}
		event = e
	case EventAnalysisApplied:
		var e AnalysisApplied
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, domain.ValidationError("invalid analysis_applied event", err)
		}
		if e.Result == nil {
			return nil, domain.ValidationError("analysis_applied event requires a result", nil)
		}
		event = e
	case EventAnalysisCleared:
		event = AnalysisCleared{}
	case EventReset:
		event = Reset{}
	case EventEmailGenerated:
		event = EmailGenerated{}
	default:
		return nil, domain.ValidationError(fmt.Sprintf("unknown event type %q", envelope.Type), nil)
	}
	return event, nil
}

// StatusMessage is the confirmation shown after an event is applied.
func StatusMessage(e Event) string {
	switch ev := e.(type) {
	case AttachmentsAdded:
		return fmt.Sprintf("%d attachment(s) added.", len(ev.Attachments))
	case AttachmentRemoved:
		return "Attachment removed."
	case AnalysisApplied:
		if ev.Result == nil {
			return ""
		}
		return fmt.Sprintf("Parsed %d reading(s) from %s.", len(ev.Result.Entries), ev.Result.FileName)
	case AnalysisCleared:
		return "Water analysis cleared."
	case Reset:
		return "Form reset. All fields cleared."
	case EmailGenerated:
		return "Email generated successfully. Review and customize before sending."
	}
	return ""
}
