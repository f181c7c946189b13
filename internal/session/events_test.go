package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/homellm/internal/domain"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected Event
	}{
		{"field changed", `{"type":"field_changed","name":"city","value":"Austin"}`, FieldChanged{Name: "city", Value: "Austin"}},
		{"attachments added", `{"type":"attachments_added","attachments":[{"name":"a.pdf","size":10}]}`, AttachmentsAdded{Attachments: []domain.Attachment{{Name: "a.pdf", Size: 10}}}},
		{"attachment removed", `{"type":"attachment_removed","index":2}`, AttachmentRemoved{Index: 2}},
		{"analysis cleared", `{"type":"analysis_cleared"}`, AnalysisCleared{}},
		{"reset", `{"type":"reset"}`, Reset{}},
		{"email generated", `{"type":"email_generated"}`, EmailGenerated{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := DecodeEvent([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, event)
		})
	}
}

func TestDecodeEvent_AnalysisApplied(t *testing.T) {
	event, err := DecodeEvent([]byte(`{"type":"analysis_applied","result":{"fileName":"lab.csv","entries":[{"parameter":"Lead","value":0.02,"unit":"mg/L","status":"exceeds"}],"summary":"s"}}`))
	require.NoError(t, err)

	applied, ok := event.(AnalysisApplied)
	require.True(t, ok)
	assert.Equal(t, "lab.csv", applied.Result.FileName)
	assert.Len(t, applied.Result.Entries, 1)
}

func TestDecodeEvent_Invalid(t *testing.T) {
	payloads := []string{
		`not json`,
		`{"type":"launch_rockets"}`,
		`{}`,
		`{"type":"analysis_applied"}`,
		`{"type":"attachment_removed","index":"one"}`,
	}

	for _, p := range payloads {
		t.Run(p, func(t *testing.T) {
			_, err := DecodeEvent([]byte(p))
			require.Error(t, err)
			assert.True(t, domain.IsType(err, domain.ErrorTypeValidation))
		})
	}
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "2 attachment(s) added.", StatusMessage(AttachmentsAdded{Attachments: make([]domain.Attachment, 2)}))
	assert.Equal(t, "Form reset. All fields cleared.", StatusMessage(Reset{}))
	assert.Equal(t, "Email generated successfully. Review and customize before sending.", StatusMessage(EmailGenerated{}))
	assert.Equal(t, "Parsed 1 reading(s) from lab.csv.", StatusMessage(AnalysisApplied{Result: analysisWithSummary("")}))
	assert.Equal(t, "", StatusMessage(FieldChanged{Name: "city"}))
}
