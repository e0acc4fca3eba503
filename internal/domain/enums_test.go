package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus_AcceptsStorageAndDisplayForms(t *testing.T) {
	cases := map[string]ProposalStatus{
		"for_approval":    StatusForApproval,
		"For Approval":    StatusForApproval,
		"for-approval":    StatusForApproval,
		"SUBMITTED":       StatusSubmitted,
		"no_decision_yet": StatusNoDecisionYet,
		"No Decision Yet": StatusNoDecisionYet,
	}
	for input, want := range cases {
		got, err := ParseStatus(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestParseStatus_RejectsUnknown(t *testing.T) {
	_, err := ParseStatus("approved")
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestWorkingStatuses_ExcludesNoDecisionYet(t *testing.T) {
	working := WorkingStatuses()
	assert.Len(t, working, 5)
	assert.NotContains(t, working, StatusNoDecisionYet)
	assert.Equal(t, StatusNotStarted, working[0])
	assert.Equal(t, StatusSubmitted, working[4])
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("High")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("ds")
	require.NoError(t, err)
	assert.Equal(t, RoleDS, r)

	_, err = ParseRole("manager")
	assert.Error(t, err)
}

func TestScalarFields_IncludesClassificationAndComment(t *testing.T) {
	p := &Proposal{
		ID:       "prop-1",
		Status:   StatusOngoing,
		Client:   "Acme Corp",
		Solution: "Data Platform",
		Comment:  "follow up Tuesday",
	}
	fields := p.ScalarFields()
	assert.Contains(t, fields, "Acme Corp")
	assert.Contains(t, fields, "Data Platform")
	assert.Contains(t, fields, "follow up Tuesday")
	assert.Contains(t, fields, "Ongoing")
}
