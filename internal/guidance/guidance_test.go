package guidance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTables_Codes(t *testing.T) {
	codes := func(n int, code func(int) string) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = code(i)
		}
		return out
	}

	iss := Issues()
	assert.Equal(t,
		[]string{"air-quality", "water-quality", "hvac-ventilation", "lead-asbestos", "utility-access"},
		codes(len(iss), func(i int) string { return iss[i].Code }))

	rec := Recipients()
	assert.Equal(t,
		[]string{"hoa", "property-mgmt", "utility", "local-govt", "state-agency", "federal-agency", "nonprofit"},
		codes(len(rec), func(i int) string { return rec[i].Code }))

	esc := EscalationStyles()
	assert.Equal(t,
		[]string{"initial", "professional", "formal", "legal"},
		codes(len(esc), func(i int) string { return esc[i].Code }))

	urg := Urgencies()
	assert.Equal(t,
		[]string{"low", "medium", "high", "emergency"},
		codes(len(urg), func(i int) string { return urg[i].Code }))
}

func TestLookups(t *testing.T) {
	issue, ok := LookupIssue("water-quality")
	require.True(t, ok)
	assert.Equal(t, "Water Quality / Contamination", issue.Label)
	assert.Len(t, issue.Regulations, 2)

	_, ok = LookupIssue("noise")
	assert.False(t, ok)

	recipient, ok := LookupRecipient("property-mgmt")
	require.True(t, ok)
	assert.Equal(t, "Property Management / Landlord", recipient.Label)
	assert.Len(t, recipient.RequestedActions, 3)

	escalation, ok := LookupEscalation("legal")
	require.True(t, ok)
	assert.Equal(t, "Legal Notice", escalation.Label)

	assert.Contains(t, UrgencyGuidance("high"), "48 hours")
	assert.Equal(t, "", UrgencyGuidance("whenever"))
}

func TestStateRegulations(t *testing.T) {
	assert.Len(t, StateRegulations("California"), 3)
	assert.Len(t, StateRegulations("New York"), 2)
	assert.Len(t, StateRegulations("Texas"), 2)
	assert.Len(t, StateRegulations("Florida"), 2)
	assert.Empty(t, StateRegulations("Ohio"))
	assert.Empty(t, StateRegulations(""))
	assert.Len(t, FederalReferences(), 3)
	assert.Equal(t, []string{"California", "Florida", "New York", "Texas"}, States())
}

func TestAccessorsReturnCopies(t *testing.T) {
	issue, _ := LookupIssue("air-quality")
	issue.EvidencePoints[0] = "changed"
	issue.Regulations[0].Title = "changed"

	fresh, _ := LookupIssue("air-quality")
	assert.NotEqual(t, "changed", fresh.EvidencePoints[0])
	assert.NotEqual(t, "changed", fresh.Regulations[0].Title)

	refs := StateRegulations("Texas")
	refs[0].Citation = "changed"
	assert.Equal(t, "Texas Property Code §92.052", StateRegulations("Texas")[0].Citation)

	fed := FederalReferences()
	fed[0].Summary = "changed"
	assert.NotEqual(t, "changed", FederalReferences()[0].Summary)
}

func TestBuildSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		sel       Selection
		ready     bool
		stateRefs int
	}{
		{"complete with state", Selection{"water-quality", "utility", "formal", "high", "California"}, true, 3},
		{"complete without state", Selection{"air-quality", "hoa", "initial", "low", ""}, true, 0},
		{"unknown state", Selection{"air-quality", "hoa", "initial", "low", "Ohio"}, true, 0},
		{"unknown issue", Selection{"noise", "hoa", "initial", "low", "Texas"}, false, 0},
		{"unknown recipient", Selection{"air-quality", "tenant", "initial", "low", ""}, false, 0},
		{"unknown escalation", Selection{"air-quality", "hoa", "angry", "low", ""}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := BuildSnapshot(tt.sel)
			assert.Equal(t, tt.ready, snap.Ready)
			assert.Len(t, snap.StateRefs, tt.stateRefs)
			if !tt.ready {
				assert.Equal(t, IncompleteSelectionMessage, snap.Message)
				assert.Nil(t, snap.Issue)
				return
			}
			require.NotNil(t, snap.Issue)
			assert.Equal(t, tt.sel.Issue, snap.Issue.Code)
			assert.Equal(t, tt.sel.Recipient, snap.Recipient.Code)
			assert.Equal(t, tt.sel.Escalation, snap.Escalation.Code)
			assert.Equal(t, UrgencyGuidance(tt.sel.Urgency), snap.Urgency)
			if tt.stateRefs == 0 {
				assert.Equal(t, NoStateMessage, snap.StateNote)
			} else {
				assert.Empty(t, snap.StateNote)
			}
		})
	}
}

func TestBuildSnapshot_UnknownUrgencyStillReady(t *testing.T) {
	snap := BuildSnapshot(Selection{Issue: "lead-asbestos", Recipient: "nonprofit", Escalation: "legal", Urgency: "someday"})
	assert.True(t, snap.Ready)
	assert.Empty(t, snap.Urgency)
}

func TestSelectorOptions(t *testing.T) {
	opts := SelectorOptions()
	require.Len(t, opts.Issues, 5)
	assert.Equal(t, Option{Code: "air-quality", Label: "Air Quality / Mold / VOCs"}, opts.Issues[0])
	assert.Len(t, opts.Recipients, 7)
	assert.Len(t, opts.Escalations, 4)
	require.Len(t, opts.Urgencies, 4)
	assert.Equal(t, Option{Code: "emergency", Label: "Emergency"}, opts.Urgencies[3])
	assert.Len(t, opts.States, 4)
}
