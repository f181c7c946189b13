package session

import (
	"github.com/spherical/homellm/internal/composer"
	"github.com/spherical/homellm/internal/guidance"
)

// Apply returns the state that results from applying e to s. s itself is
// left unchanged. Unknown field names and out-of-range indexes are no-ops.
func Apply(s State, e Event) State {
	next := s.clone()

	switch ev := e.(type) {
	case FieldChanged:
		field, ok := formFields(&next.Form)[ev.Name]
		if !ok {
			return next
		}
		*field = ev.Value
		if ev.Name == "issueType" && ev.Value != guidance.IssueWaterQuality {
			next.Analysis = nil
		}

	case AttachmentsAdded:
		next.Attachments = append(next.Attachments, ev.Attachments...)

	case AttachmentRemoved:
		if ev.Index >= 0 && ev.Index < len(next.Attachments) {
			next.Attachments = append(next.Attachments[:ev.Index], next.Attachments[ev.Index+1:]...)
		}

	case AnalysisApplied:
		if ev.Result == nil {
			return next
		}
		var previous string
		if next.Analysis != nil {
			previous = next.Analysis.Summary
		}
		next.Form.Measurements = foldSummary(next.Form.Measurements, previous, ev.Result.Summary)
		next.Analysis = ev.Result

	case AnalysisCleared:
		next.Analysis = nil

	case Reset:
		return DefaultState()

	case EmailGenerated:
		next.GeneratedEmail = composer.BuildEmail(next.Form, next.Attachments).Text()
	}
	return next
}

// foldSummary writes an analysis summary into the measurements field. A
// field that is blank or still holds the previous summary is replaced;
// anything the user typed is kept and the summary goes on a new line.
func foldSummary(measurements, previous, summary string) string {
	if summary == "" {
		return measurements
	}
	if measurements == "" || (previous != "" && measurements == previous) {
		return summary
	}
	return measurements + "\n" + summary
}
