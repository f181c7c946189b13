package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/homellm/internal/domain"
)

var fixedNow = time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

func newTestAdapter() *Adapter {
	return NewAdapter(nil, "", func() time.Time { return fixedNow })
}

func TestAdapter_Reshape_EntryArrays(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"entries", `{"entries":[{"parameter":"Lead","value":0.02,"unit":"mg/L"}]}`},
		{"results", `{"results":[{"parameter":"Lead","value":"0.02 mg/L"}]}`},
		{"readings", `{"readings":[{"analyte":"Lead","result":0.02,"units":"mg/L"}]}`},
		{"parameters", `{"parameters":[{"name":"Lead","concentration":"0.02","unit":"mg/L"}]}`},
		{"nested analysis", `{"analysis":{"entries":[{"parameter":"Lead","value":0.02,"unit":"mg/L"}]}}`},
		{"bare list", `[{"parameter":"Lead","value":0.02,"unit":"mg/L"}]`},
		{"json inside prose", "Here is the analysis:\n{\"entries\":[{\"parameter\":\"Lead\",\"value\":0.02,\"unit\":\"mg/L\"}]}\nThanks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestAdapter().Reshape([]byte(tt.body), "report.pdf")
			require.NoError(t, err)
			require.Len(t, result.Entries, 1)

			e := result.Entries[0]
			assert.Equal(t, "Lead", e.Parameter)
			assert.Equal(t, 0.02, e.Value)
			assert.Equal(t, "mg/L", e.Unit)
			assert.Equal(t, domain.StatusExceeds, e.Status)
			assert.Len(t, result.Exceedances, 1)
			assert.Equal(t, "report.pdf", result.FileName)
			assert.Equal(t, DefaultModel, result.Model)
			assert.Equal(t, "2025-06-01T12:30:00.000Z", result.ReviewedAt)
		})
	}
}

func TestAdapter_Reshape_TextFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"table", `{"table":"Parameter,Value,Unit\nCopper,1.5,mg/L"}`},
		{"rawText", `{"rawText":"Copper: 1.5 mg/L"}`},
		{"raw", `{"analysis":{"raw":"Copper\t1.5\tmg/L"}}`},
		{"csv", `{"csv":"Copper;1.5;mg/L"}`},
		{"tableText", `{"tableText":"Copper,1.5,mg/L"}`},
		{"plain text body", "Copper,1.5,mg/L"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestAdapter().Reshape([]byte(tt.body), "report.pdf")
			require.NoError(t, err)
			require.Len(t, result.Entries, 1)
			assert.Equal(t, "Copper", result.Entries[0].Parameter)
			assert.Equal(t, 1.5, result.Entries[0].Value)
			assert.Equal(t, "mg/L", result.Entries[0].Unit)
			assert.Equal(t, domain.StatusExceeds, result.Entries[0].Status)
			assert.NotEmpty(t, result.RawText)
		})
	}
}

func TestAdapter_Reshape_ArrayBeatsTable(t *testing.T) {
	body := `{"table":"Copper,0.1,mg/L","entries":[{"parameter":"Nitrate","value":12}]}`

	result, err := newTestAdapter().Reshape([]byte(body), "r.pdf")
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "Nitrate", result.Entries[0].Parameter)
}

func TestAdapter_Reshape_ExplicitStatusAndReference(t *testing.T) {
	body := `{"entries":[
		{"parameter":"Chlorine","value":3.9,"unit":"mg/L","status":"Exceeds","reference":"4 mg/L"},
		{"parameter":"Lead","value":0.012,"reference":{"label":"Lead (state)","limit":"0.010 mg/L","thresholdLabel":"State action level"}}
	]}`

	result, err := newTestAdapter().Reshape([]byte(body), "r.pdf")
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	chlorine := result.Entries[0]
	assert.Equal(t, domain.StatusExceeds, chlorine.Status)
	require.NotNil(t, chlorine.Reference)
	assert.Equal(t, 4.0, *chlorine.Reference.MCL)

	lead := result.Entries[1]
	require.NotNil(t, lead.Reference)
	assert.Equal(t, "Lead (state)", lead.Reference.Label)
	assert.Equal(t, 0.01, *lead.Reference.MCL)
	assert.Equal(t, "mg/L", lead.Reference.Unit)
	assert.Equal(t, "State action level", lead.Reference.ThresholdLabel)
	assert.NotEmpty(t, lead.Reference.Summary)
	assert.Equal(t, domain.StatusExceeds, lead.Status)
}

func TestAdapter_Reshape_CarriesMetadata(t *testing.T) {
	body := `{"summary":"Lead is high","analysis":{"model":"vendor-x","reviewedAt":1717245000000,"entries":[{"parameter":"Lead","value":0.02}]}}`

	result, err := newTestAdapter().Reshape([]byte(body), "r.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Lead is high", result.Summary)
	assert.Equal(t, "vendor-x", result.Model)
	assert.Equal(t, "2024-06-01T12:30:00.000Z", result.ReviewedAt)
}

func TestAdapter_Reshape_ReviewedAtFormats(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"iso", `"2024-03-05T08:09:10Z"`, "2024-03-05T08:09:10.000Z"},
		{"iso with offset", `"2024-03-05T10:09:10.5+02:00"`, "2024-03-05T08:09:10.500Z"},
		{"date only", `"2024-03-05"`, "2024-03-05T00:00:00.000Z"},
		{"millis string", `"1709626150000"`, "2024-03-05T08:09:10.000Z"},
		{"garbage uses clock", `"yesterday"`, "2025-06-01T12:30:00.000Z"},
		{"null uses clock", `null`, "2025-06-01T12:30:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"reviewedAt":` + tt.value + `,"entries":[{"parameter":"Lead","value":0.001}]}`
			result, err := newTestAdapter().Reshape([]byte(body), "r.pdf")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.ReviewedAt)
		})
	}
}

func TestAdapter_Reshape_Failures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		errType domain.ErrorType
	}{
		{"no readings field", `{"summary":"all good"}`, domain.ErrorTypeRemoteAnalysis},
		{"empty body", ``, domain.ErrorTypeRemoteAnalysis},
		{"entries without numbers", `{"entries":[{"parameter":"Lead","value":"ND"}]}`, domain.ErrorTypeParse},
		{"empty entries", `{"entries":[]}`, domain.ErrorTypeParse},
		{"table without numbers", `{"table":"Parameter,Value\nLead,ND"}`, domain.ErrorTypeParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestAdapter().Reshape([]byte(tt.body), "r.pdf")
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.errType, domain.TypeOf(err))
		})
	}
}
