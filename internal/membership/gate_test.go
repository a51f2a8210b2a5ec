package membership_test

import (
	"context"
	"errors"
	"testing"

	"showdrop/internal/gateway"
	"showdrop/internal/membership"
	"showdrop/internal/testsupport"
)

func TestCheckEmptyRequirementsPasses(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gate := membership.NewGate(gw, nil, nil)

	if !gate.Check(context.Background(), 42) {
		t.Fatal("expected vacuous pass with no requirements")
	}
	if len(gw.MembershipQueries) != 0 {
		t.Fatalf("expected no gateway queries, got %d", len(gw.MembershipQueries))
	}
}

func TestCheckBlankEntriesSkipped(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.SetMember("@a", 42, gateway.StatusMember)
	gate := membership.NewGate(gw, []string{"@a", "", "   "}, nil)

	if !gate.Check(context.Background(), 42) {
		t.Fatal("expected pass when the only real requirement is met")
	}
	if len(gw.MembershipQueries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(gw.MembershipQueries))
	}
}

func TestCheckAllStatusesAccepted(t *testing.T) {
	for _, status := range []gateway.MemberStatus{
		gateway.StatusMember,
		gateway.StatusAdministrator,
		gateway.StatusCreator,
	} {
		gw := testsupport.NewFakeGateway()
		gw.SetMember("@a", 42, status)
		gate := membership.NewGate(gw, []string{"@a"}, nil)
		if !gate.Check(context.Background(), 42) {
			t.Errorf("expected %s to pass", status)
		}
	}
}

func TestCheckNonMemberDeniesAndShortCircuits(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.SetMember("@a", 42, gateway.StatusMember)
	// @b reports none; @c must never be queried.
	gw.SetMember("@c", 42, gateway.StatusMember)
	gate := membership.NewGate(gw, []string{"@a", "@b", "@c"}, nil)

	if gate.Check(context.Background(), 42) {
		t.Fatal("expected denial when one channel is missing")
	}
	if len(gw.MembershipQueries) != 2 {
		t.Fatalf("expected short-circuit after @b, got queries %v", gw.MembershipQueries)
	}
}

func TestCheckGatewayErrorFailsClosed(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.SetMember("@a", 42, gateway.StatusMember)
	gw.FailMembership("@b", errors.New("bot is not a member of the channel"))
	gate := membership.NewGate(gw, []string{"@a", "@b"}, nil)

	if gate.Check(context.Background(), 42) {
		t.Fatal("expected denial on gateway error")
	}
}

func TestCheckLeftAndKickedDeny(t *testing.T) {
	for _, status := range []gateway.MemberStatus{gateway.StatusLeft, gateway.StatusKicked, gateway.StatusRestricted} {
		gw := testsupport.NewFakeGateway()
		gw.SetMember("@a", 42, status)
		gate := membership.NewGate(gw, []string{"@a"}, nil)
		if gate.Check(context.Background(), 42) {
			t.Errorf("expected %s to deny", status)
		}
	}
}

func TestCheckIsRepeatable(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	gw.SetMember("@a", 42, gateway.StatusMember)
	gate := membership.NewGate(gw, []string{"@a"}, nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if !gate.Check(ctx, 42) {
			t.Fatalf("check %d failed", i)
		}
	}
}
