package testutil

import (
	"time"

	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/google/uuid"
)

// Proposal options
type ProposalOption func(*domain.Proposal)

func WithStatus(s domain.ProposalStatus) ProposalOption {
	return func(p *domain.Proposal) {
		p.Status = s
	}
}

func WithClient(client string) ProposalOption {
	return func(p *domain.Proposal) {
		p.Client = client
	}
}

func WithPIC(pic string) ProposalOption {
	return func(p *domain.Proposal) {
		p.PIC = pic
	}
}

func WithSolution(solution string) ProposalOption {
	return func(p *domain.Proposal) {
		p.Solution = solution
	}
}

func WithAccountManager(am string) ProposalOption {
	return func(p *domain.Proposal) {
		p.AccountManager = am
	}
}

func WithSubmissionDate(d time.Time) ProposalOption {
	return func(p *domain.Proposal) {
		p.SubmissionDate = &d
	}
}

func NewTestProposal(client string, opts ...ProposalOption) *domain.Proposal {
	now := time.Now().UTC()
	p := &domain.Proposal{
		ID:             uuid.New().String(),
		Status:         domain.StatusNotStarted,
		PIC:            "Pat Reyes",
		BOM:            "Lee Tan",
		AccountManager: "Sam Cruz",
		Client:         client,
		Solution:       "Managed Services",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.CustomTask)

func WithPriority(p domain.TaskPriority) TaskOption {
	return func(t *domain.CustomTask) {
		t.Priority = p
	}
}

func WithCategory(c string) TaskOption {
	return func(t *domain.CustomTask) {
		t.Category = c
	}
}

func WithSynced(synced bool) TaskOption {
	return func(t *domain.CustomTask) {
		t.Synced = synced
	}
}

func NewTestTask(title string, opts ...TaskOption) *domain.CustomTask {
	now := time.Now().UTC()
	t := &domain.CustomTask{
		ID:        uuid.New().String(),
		Title:     title,
		Priority:  domain.PriorityMedium,
		Synced:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Placement options
type PlacementOption func(*domain.Placement)

func WithCompleted(completed bool) PlacementOption {
	return func(p *domain.Placement) {
		p.Completed = completed
	}
}

func NewTestPlacement(itemID string, itemType domain.PlacementType, weekStart time.Time, dayIndex int, opts ...PlacementOption) *domain.Placement {
	now := time.Now().UTC()
	p := &domain.Placement{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		Type:      itemType,
		WeekStart: weekStart,
		DayIndex:  dayIndex,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
