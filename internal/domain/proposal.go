package domain

import (
	"strconv"
	"time"
)

// Proposal is a sales proposal under review. The board only ever mutates
// Status (through the status service) and SubmissionDate (as a transition
// side effect); everything else is set by the external edit form or import.
type Proposal struct {
	ID     string
	Status ProposalStatus

	// Classification attributes used by filtering.
	PIC            string
	BOM            string
	AccountManager string
	Client         string
	Solution       string

	// Descriptive/financial attributes, display-only here.
	FinalAmount    float64
	RevisionNumber int
	Margin         float64
	SubmissionDate *time.Time
	Comment        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScalarFields returns every scalar attribute of the proposal as a string,
// for full-object substring search. The list is built from the struct's
// fields rather than a fixed search schema so new text attributes are
// searchable without touching the filter engine.
func (p *Proposal) ScalarFields() []string {
	fields := []string{
		p.ID,
		string(p.Status),
		p.Status.Label(),
		p.PIC,
		p.BOM,
		p.AccountManager,
		p.Client,
		p.Solution,
		p.Comment,
		formatAmount(p.FinalAmount),
		formatAmount(p.Margin),
	}
	if p.RevisionNumber != 0 {
		fields = append(fields, formatInt(p.RevisionNumber))
	}
	if p.SubmissionDate != nil {
		fields = append(fields, p.SubmissionDate.Format("2006-01-02"))
	}
	return fields
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}
