package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/repository"
)

// Domain keywords used to derive a default solution filter per role.
var roleSolutionKeywords = map[domain.Role][]string{
	domain.RoleDS: {"data", "analytics", "intelligence"},
	domain.RoleSE: {"engineering", "technical"},
}

// MatchesFilter reports whether a proposal passes every non-empty predicate
// of the filter. SearchText matches when it is a case-insensitive substring
// of any scalar field of the proposal; the remaining predicates are exact
// case-insensitive matches on their classification attribute. Predicates
// compose as a pure conjunction, so application is idempotent and
// order-independent.
func MatchesFilter(p *domain.Proposal, filter domain.FilterState) bool {
	if search := strings.ToLower(strings.TrimSpace(filter.SearchText)); search != "" {
		found := false
		for _, field := range p.ScalarFields() {
			if strings.Contains(strings.ToLower(field), search) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return matchesAttr(p.Client, filter.Client) &&
		matchesAttr(p.AccountManager, filter.AccountManager) &&
		matchesAttr(p.Solution, filter.Solution) &&
		matchesAttr(p.PIC, filter.PIC)
}

func matchesAttr(value, predicate string) bool {
	if predicate == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(predicate))
}

// ApplyFilter returns the proposals passing the filter, preserving order.
func ApplyFilter(proposals []*domain.Proposal, filter domain.FilterState) []*domain.Proposal {
	if filter.IsZero() {
		return proposals
	}
	var out []*domain.Proposal
	for _, p := range proposals {
		if MatchesFilter(p, filter) {
			out = append(out, p)
		}
	}
	return out
}

type filterService struct {
	prefs repository.PrefsRepo
}

// NewFilterService creates the filter engine backed by the given
// preference store.
func NewFilterService(prefs repository.PrefsRepo) FilterService {
	return &filterService{prefs: prefs}
}

func (s *filterService) Matches(p *domain.Proposal, filter domain.FilterState) bool {
	return MatchesFilter(p, filter)
}

func (s *filterService) Apply(proposals []*domain.Proposal, filter domain.FilterState) []*domain.Proposal {
	return ApplyFilter(proposals, filter)
}

// DeriveRoleDefault computes role defaults: DS and SE users get their PIC
// defaulted to a PIC value containing their username, and their solution
// defaulted to one containing their domain keywords. Sales and Admin see
// everything by default.
func (s *filterService) DeriveRoleDefault(roles []domain.Role, proposals []*domain.Proposal, username string) domain.FilterState {
	var filter domain.FilterState
	for _, role := range roles {
		keywords, ok := roleSolutionKeywords[role]
		if !ok {
			continue
		}
		if filter.PIC == "" {
			filter.PIC = findPICForUser(proposals, username)
		}
		if filter.Solution == "" {
			filter.Solution = findSolutionByKeywords(proposals, keywords)
		}
	}
	return filter
}

func findPICForUser(proposals []*domain.Proposal, username string) string {
	needle := strings.ToLower(strings.TrimSpace(username))
	if needle == "" {
		return ""
	}
	for _, p := range proposals {
		if p.PIC != "" && strings.Contains(strings.ToLower(p.PIC), needle) {
			return p.PIC
		}
	}
	return ""
}

func findSolutionByKeywords(proposals []*domain.Proposal, keywords []string) string {
	for _, p := range proposals {
		solution := strings.ToLower(p.Solution)
		for _, kw := range keywords {
			if strings.Contains(solution, kw) {
				return p.Solution
			}
		}
	}
	return ""
}

// SessionFilter runs once per session: a stored preference always wins over
// the role-derived default.
func (s *filterService) SessionFilter(ctx context.Context, username string, roles []domain.Role, proposals []*domain.Proposal) (domain.FilterState, error) {
	stored, err := s.prefs.Get(ctx, username)
	if err == nil {
		return stored.Filter, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.FilterState{}, fmt.Errorf("loading filter preference: %w", err)
	}
	return s.DeriveRoleDefault(roles, proposals, username), nil
}

func (s *filterService) SaveFilter(ctx context.Context, username string, filter domain.FilterState, includeWeekends bool) error {
	err := s.prefs.Save(ctx, &repository.Prefs{
		Username:        username,
		Filter:          filter,
		IncludeWeekends: includeWeekends,
	})
	if err != nil {
		return fmt.Errorf("saving filter preference: %w", err)
	}
	return nil
}
