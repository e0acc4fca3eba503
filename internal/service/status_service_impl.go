package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/ordering"
)

type statusService struct {
	status    backend.StatusAPI
	proposals backend.ProposalAPI
	orders    ordering.OrderStore
	actor     string
	observer  UseCaseObserver
}

// NewStatusService creates the status state machine service. actor is the
// current username, stamped onto history entries.
func NewStatusService(
	status backend.StatusAPI,
	proposals backend.ProposalAPI,
	orders ordering.OrderStore,
	actor string,
	observers ...UseCaseObserver,
) StatusService {
	return &statusService{
		status:    status,
		proposals: proposals,
		orders:    orders,
		actor:     actor,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *statusService) Transition(ctx context.Context, p *domain.Proposal, target domain.ProposalStatus, reason string) error {
	started := time.Now()

	// Reject before any mutation or backend call.
	if !domain.ValidStatuses[target] {
		return &domain.ValidationError{Field: "status", Value: string(target), Reason: "unknown status"}
	}

	prev := p.Status
	p.Status = target

	updated, err := s.status.UpdateStatus(ctx, p.ID, target)
	if err != nil {
		p.Status = prev
		s.observe(ctx, "status.transition", started, err, map[string]any{
			"proposal": p.ID, "from": prev, "to": target,
		})
		return &backend.PersistenceError{Op: "updating proposal status", Err: err}
	}
	if updated != nil {
		p.UpdatedAt = updated.UpdatedAt
	}

	// History is best-effort: a failed log entry never undoes a committed
	// transition.
	histErr := s.status.RecordHistory(ctx, backend.HistoryEntry{
		ProposalID: p.ID,
		NewStatus:  target,
		Actor:      s.actor,
		Reason:     reason,
		At:         time.Now().UTC(),
	})
	s.observe(ctx, "status.transition", started, histErr, map[string]any{
		"proposal": p.ID, "from": prev, "to": target,
	})
	return nil
}

func (s *statusService) ReturnToNoDecision(ctx context.Context, p *domain.Proposal) error {
	return s.Transition(ctx, p, domain.StatusNoDecisionYet, "returned to no decision")
}

func (s *statusService) MoveCard(ctx context.Context, p *domain.Proposal, target domain.ProposalStatus, targetIndex int) error {
	source := p.Status
	if err := s.Transition(ctx, p, target, "moved on board"); err != nil {
		return err
	}

	err := s.orders.Move(ctx,
		ordering.ColumnContainer(source),
		ordering.ColumnContainer(target),
		p.ID, targetIndex)
	if err != nil {
		// The transition is committed; only the display order is suspect.
		// Resynchronize both columns from live data instead of patching.
		if reconcileErr := s.reconcileColumns(ctx, source, target); reconcileErr != nil {
			return fmt.Errorf("moving card order: %w", err)
		}
		return &backend.DesyncWarning{Detail: "column order was rebuilt after a failed reorder"}
	}
	return nil
}

func (s *statusService) reconcileColumns(ctx context.Context, statuses ...domain.ProposalStatus) error {
	proposals, err := s.proposals.ListProposals(ctx)
	if err != nil {
		return fmt.Errorf("listing proposals: %w", err)
	}
	for _, status := range statuses {
		if _, err := s.ReconcileColumn(ctx, status, filterByStatus(proposals, status)); err != nil {
			return err
		}
	}
	return nil
}

func (s *statusService) ReconcileColumn(ctx context.Context, status domain.ProposalStatus, live []*domain.Proposal) ([]*domain.Proposal, error) {
	container := ordering.ColumnContainer(status)
	order, err := s.orders.Load(ctx, container)
	if err != nil {
		return nil, fmt.Errorf("loading column order: %w", err)
	}

	liveIDs := make([]string, len(live))
	byID := make(map[string]*domain.Proposal, len(live))
	for i, p := range live {
		liveIDs[i] = p.ID
		byID[p.ID] = p
	}

	reconciled := ordering.Reconcile(order, liveIDs)
	if !equalIDs(order, reconciled) {
		if err := s.orders.Persist(ctx, container, reconciled); err != nil {
			return nil, fmt.Errorf("repairing column order: %w", err)
		}
	}

	result := make([]*domain.Proposal, 0, len(reconciled))
	for _, id := range reconciled {
		result = append(result, byID[id])
	}
	return result, nil
}

func (s *statusService) Columns(ctx context.Context, filter domain.FilterState) ([]BoardColumn, error) {
	started := time.Now()
	proposals, err := s.proposals.ListProposals(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	proposals = ApplyFilter(proposals, filter)

	columns := make([]BoardColumn, 0, len(domain.AllStatuses()))
	for _, status := range domain.AllStatuses() {
		items, err := s.ReconcileColumn(ctx, status, filterByStatus(proposals, status))
		if err != nil {
			return nil, err
		}
		columns = append(columns, BoardColumn{Status: status, Proposals: items})
	}
	s.observe(ctx, "board.columns", started, nil, map[string]any{"proposals": len(proposals)})
	return columns, nil
}

func (s *statusService) observe(ctx context.Context, name string, started time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: started,
	})
}

// SubmittedNeedsDate reports whether entering Submitted should prompt the
// user for a submission date. It is a UI hint, never a precondition: the
// transition itself must not fail on a missing date.
func SubmittedNeedsDate(p *domain.Proposal, target domain.ProposalStatus) bool {
	return target == domain.StatusSubmitted && p.SubmissionDate == nil
}

func filterByStatus(proposals []*domain.Proposal, status domain.ProposalStatus) []*domain.Proposal {
	var out []*domain.Proposal
	for _, p := range proposals {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
