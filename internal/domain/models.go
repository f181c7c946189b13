package domain

import "strings"

// Status is the outcome of comparing a reading against its threshold
type Status string

const (
	StatusExceeds Status = "exceeds"
	StatusWithin  Status = "within"
	StatusUnknown Status = "unknown"
)

// ParseStatus accepts only the three known status values, case-insensitively
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusExceeds, StatusWithin, StatusUnknown:
		return st, true
	}
	return "", false
}

// Threshold is a regulatory limit for one water-quality parameter
type Threshold struct {
	Aliases        []string `json:"aliases,omitempty"`
	Label          string   `json:"label"`
	MCL            *float64 `json:"mcl"`
	Unit           string   `json:"unit"`
	ThresholdLabel string   `json:"thresholdLabel"`
	Summary        string   `json:"summary"`
}

// Reading is one normalized lab measurement
type Reading struct {
	Parameter string     `json:"parameter"`
	Value     float64    `json:"value"`
	Unit      string     `json:"unit"`
	Status    Status     `json:"status"`
	Reference *Threshold `json:"reference"`
}

// AnalysisResult aggregates the readings of one parse or remote analysis run
type AnalysisResult struct {
	FileName    string    `json:"fileName"`
	Entries     []Reading `json:"entries"`
	Exceedances []Reading `json:"exceedances"`
	Summary     string    `json:"summary,omitempty"`
	Model       string    `json:"model,omitempty"`
	ReviewedAt  string    `json:"reviewedAt,omitempty"`
	RawText     string    `json:"rawText,omitempty"`
}

// NewAnalysisResult builds a result and derives its exceedances from entries
func NewAnalysisResult(fileName string, entries []Reading) *AnalysisResult {
	exceedances := make([]Reading, 0)
	for _, e := range entries {
		if e.Status == StatusExceeds {
			exceedances = append(exceedances, e)
		}
	}
	return &AnalysisResult{
		FileName:    fileName,
		Entries:     entries,
		Exceedances: exceedances,
	}
}

// Attachment is an evidence file attached to an escalation
type Attachment struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	Size int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// UploadedFile is a file handed to the analysis pipeline
type UploadedFile struct {
	Name     string
	MimeType string
	Data     []byte
}

// Size returns the payload length in bytes
func (f UploadedFile) Size() int64 {
	return int64(len(f.Data))
}

// FormState holds every composer field. Selector fields carry the codes
// of the guidance tables.
type FormState struct {
	IssueType         string `json:"issueType" yaml:"issueType"`
	Recipient         string `json:"recipient" yaml:"recipient"`
	Location          string `json:"location" yaml:"location"`
	City              string `json:"city" yaml:"city"`
	State             string `json:"state" yaml:"state"`
	Evidence          string `json:"evidence" yaml:"evidence"`
	Measurements      string `json:"measurements" yaml:"measurements"`
	PreviousContact   string `json:"previousContact" yaml:"previousContact"`
	HealthImpact      string `json:"healthImpact" yaml:"healthImpact"`
	Regulations       string `json:"regulations" yaml:"regulations"`
	DesiredOutcome    string `json:"desiredOutcome" yaml:"desiredOutcome"`
	EscalationLevel   string `json:"escalationLevel" yaml:"escalationLevel"`
	AffectedResidents string `json:"affectedResidents" yaml:"affectedResidents"`
	PropertyAge       string `json:"propertyAge" yaml:"propertyAge"`
	UrgencyLevel      string `json:"urgencyLevel" yaml:"urgencyLevel"`
	SenderName        string `json:"senderName" yaml:"senderName"`
	SenderEmail       string `json:"senderEmail" yaml:"senderEmail"`
	SenderPhone       string `json:"senderPhone" yaml:"senderPhone"`
	SenderAddress     string `json:"senderAddress" yaml:"senderAddress"`
	APIKey            string `json:"-" yaml:"apiKey,omitempty"`
}

// DefaultFormState returns the form as it looks before any input.
func DefaultFormState() FormState {
	return FormState{
		IssueType:       "air-quality",
		Recipient:       "hoa",
		EscalationLevel: "professional",
		UrgencyLevel:    "medium",
	}
}
