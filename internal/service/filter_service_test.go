package service

import (
	"context"
	"testing"

	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesFilter_SearchTextScansEveryScalarField(t *testing.T) {
	p := testutil.NewTestProposal("Acme Manufacturing",
		testutil.WithPIC("Dana Lim"),
		testutil.WithSolution("Data Platform"),
		testutil.WithAccountManager("Sam Cruz"))
	p.Comment = "Modernize the reporting stack"
	p.FinalAmount = 125000

	cases := map[string]string{
		"client":          "acme",
		"pic":             "dana",
		"solution":        "platform",
		"account manager": "cruz",
		"comment":         "reporting",
		"amount":          "125000",
		"status":          "not started",
	}
	for name, search := range cases {
		t.Run(name, func(t *testing.T) {
			assert.True(t, MatchesFilter(p, domain.FilterState{SearchText: search}))
		})
	}

	assert.False(t, MatchesFilter(p, domain.FilterState{SearchText: "globex"}))
}

func TestMatchesFilter_AttributesAreExactCaseInsensitive(t *testing.T) {
	p := testutil.NewTestProposal("Acme", testutil.WithSolution("Data Platform"))

	assert.True(t, MatchesFilter(p, domain.FilterState{Solution: "data platform"}))
	assert.True(t, MatchesFilter(p, domain.FilterState{Solution: " Data Platform "}))
	assert.False(t, MatchesFilter(p, domain.FilterState{Solution: "Data"}),
		"attribute predicates are exact matches, not substrings")
}

func TestMatchesFilter_PredicatesComposeAsConjunction(t *testing.T) {
	p := testutil.NewTestProposal("Acme",
		testutil.WithPIC("Dana Lim"),
		testutil.WithSolution("Data Platform"))

	both := domain.FilterState{Client: "Acme", Solution: "Data Platform"}
	assert.True(t, MatchesFilter(p, both))

	oneWrong := domain.FilterState{Client: "Acme", Solution: "Managed Services"}
	assert.False(t, MatchesFilter(p, oneWrong), "every non-empty predicate must pass")
}

func TestApplyFilter_IdempotentAndOrderIndependent(t *testing.T) {
	proposals := []*domain.Proposal{
		testutil.NewTestProposal("Acme", testutil.WithSolution("Data Platform")),
		testutil.NewTestProposal("Globex", testutil.WithSolution("Data Platform")),
		testutil.NewTestProposal("Acme", testutil.WithSolution("Managed Services")),
	}
	filter := domain.FilterState{Client: "Acme", Solution: "Data Platform"}

	once := ApplyFilter(proposals, filter)
	twice := ApplyFilter(once, filter)
	assert.Equal(t, once, twice, "applying a filter to its own result is a no-op")
	require.Len(t, once, 1)

	// Conjunction does not depend on predicate evaluation order: filtering
	// by client then solution equals solution then client.
	byClient := ApplyFilter(proposals, domain.FilterState{Client: "Acme"})
	clientThenSolution := ApplyFilter(byClient, domain.FilterState{Solution: "Data Platform"})
	bySolution := ApplyFilter(proposals, domain.FilterState{Solution: "Data Platform"})
	solutionThenClient := ApplyFilter(bySolution, domain.FilterState{Client: "Acme"})
	assert.Equal(t, clientThenSolution, solutionThenClient)
}

func TestApplyFilter_ZeroFilterPassesEverything(t *testing.T) {
	proposals := []*domain.Proposal{
		testutil.NewTestProposal("Acme"),
		testutil.NewTestProposal("Globex"),
	}
	assert.Equal(t, proposals, ApplyFilter(proposals, domain.FilterState{}))
}

func TestDeriveRoleDefault_DataScienceUser(t *testing.T) {
	f := setup(t)
	proposals := []*domain.Proposal{
		testutil.NewTestProposal("Acme", testutil.WithPIC("Sam Cruz"), testutil.WithSolution("Managed Services")),
		testutil.NewTestProposal("Globex", testutil.WithPIC("Dana Lim"), testutil.WithSolution("Advanced Analytics")),
	}

	svc := f.filterService()
	filter := svc.DeriveRoleDefault([]domain.Role{domain.RoleDS}, proposals, "dana")

	assert.Equal(t, "Dana Lim", filter.PIC, "PIC defaults to the value containing the username")
	assert.Equal(t, "Advanced Analytics", filter.Solution, "solution defaults to a data/analytics match")
}

func TestDeriveRoleDefault_SalesEngineerUser(t *testing.T) {
	f := setup(t)
	proposals := []*domain.Proposal{
		testutil.NewTestProposal("Acme", testutil.WithSolution("Technical Consulting")),
	}

	svc := f.filterService()
	filter := svc.DeriveRoleDefault([]domain.Role{domain.RoleSE}, proposals, "nobody-here")

	assert.Empty(t, filter.PIC, "no PIC contains the username")
	assert.Equal(t, "Technical Consulting", filter.Solution)
}

func TestDeriveRoleDefault_SalesAndAdminGetNoDefault(t *testing.T) {
	f := setup(t)
	proposals := []*domain.Proposal{
		testutil.NewTestProposal("Acme", testutil.WithPIC("Dana Lim"), testutil.WithSolution("Advanced Analytics")),
	}

	svc := f.filterService()
	assert.True(t, svc.DeriveRoleDefault([]domain.Role{domain.RoleSales}, proposals, "dana").IsZero())
	assert.True(t, svc.DeriveRoleDefault([]domain.Role{domain.RoleAdmin}, proposals, "dana").IsZero())
}

func TestSessionFilter_StoredPreferenceWinsOverDerivedDefault(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	proposals := []*domain.Proposal{
		testutil.NewTestProposal("Globex", testutil.WithPIC("Dana Lim"), testutil.WithSolution("Advanced Analytics")),
	}

	svc := f.filterService()
	saved := domain.FilterState{Client: "Globex"}
	require.NoError(t, svc.SaveFilter(ctx, "dana", saved, false))

	got, err := svc.SessionFilter(ctx, "dana", []domain.Role{domain.RoleDS}, proposals)
	require.NoError(t, err)
	assert.Equal(t, saved, got, "an explicit preference beats the role default")
}

func TestSessionFilter_FallsBackToRoleDefault(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	proposals := []*domain.Proposal{
		testutil.NewTestProposal("Globex", testutil.WithPIC("Dana Lim"), testutil.WithSolution("Advanced Analytics")),
	}

	svc := f.filterService()
	got, err := svc.SessionFilter(ctx, "dana", []domain.Role{domain.RoleDS}, proposals)
	require.NoError(t, err)
	assert.Equal(t, "Dana Lim", got.PIC)
	assert.Equal(t, "Advanced Analytics", got.Solution)
}
