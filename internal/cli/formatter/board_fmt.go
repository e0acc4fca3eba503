package formatter

import (
	"fmt"
	"strings"

	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/service"
)

// FormatBoard renders the status board as one section per column, in the
// board's canonical column order. Empty columns still render their header
// so the board shape stays stable while filtering.
func FormatBoard(columns []service.BoardColumn) string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(columnHeader(col))
		b.WriteString("\n")
		if len(col.Proposals) == 0 {
			b.WriteString(Dim("  (none)") + "\n")
			continue
		}
		for _, p := range col.Proposals {
			b.WriteString(formatBoardRow(p))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func columnHeader(col service.BoardColumn) string {
	label := fmt.Sprintf("%s (%d)", strings.ToUpper(col.Status.Label()), len(col.Proposals))
	return StatusStyle(col.Status).Bold(true).Render(label) + "\n" +
		StyleDim.Render(strings.Repeat("─", len(label)))
}

func formatBoardRow(p *domain.Proposal) string {
	row := fmt.Sprintf("  %s  %s", Bold(Truncate(p.Client, 32)), TruncID(p.ID))
	if p.Solution != "" {
		row += "  " + StylePurple.Render(Truncate(p.Solution, 24))
	}
	if p.PIC != "" {
		row += "  " + Dim(p.PIC)
	}
	return row
}

// FormatProposal renders the full detail block for one proposal.
func FormatProposal(p *domain.Proposal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n\n", Bold(p.Client), TruncID(p.ID)))
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("STATUS  "), StatusPill(p.Status)))
	writeAttr(&b, "PIC     ", p.PIC)
	writeAttr(&b, "BOM     ", p.BOM)
	writeAttr(&b, "AM      ", p.AccountManager)
	writeAttr(&b, "SOLUTION", p.Solution)
	if p.FinalAmount != 0 {
		b.WriteString(fmt.Sprintf("  %s  %.2f\n", Dim("AMOUNT  "), p.FinalAmount))
	}
	if p.RevisionNumber != 0 {
		b.WriteString(fmt.Sprintf("  %s  %d\n", Dim("REVISION"), p.RevisionNumber))
	}
	if p.SubmissionDate != nil {
		b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("SUBMITTED"), HumanDate(*p.SubmissionDate)))
	}
	if p.Comment != "" {
		b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("COMMENT "), p.Comment))
	}
	return b.String()
}

func writeAttr(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim(label), value))
}

// FormatFilter renders the active filter state, or a note when none is set.
func FormatFilter(filter domain.FilterState) string {
	if filter.IsZero() {
		return Dim("No filter active; showing everything.")
	}
	var b strings.Builder
	b.WriteString(Header("Active Filter") + "\n")
	writeAttr(&b, "SEARCH  ", filter.SearchText)
	writeAttr(&b, "CLIENT  ", filter.Client)
	writeAttr(&b, "AM      ", filter.AccountManager)
	writeAttr(&b, "SOLUTION", filter.Solution)
	writeAttr(&b, "PIC     ", filter.PIC)
	return b.String()
}
