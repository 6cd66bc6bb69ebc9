package lifecycle

import (
	"errors"
	"testing"
)

// Exhaustive expectations for every (current, requested) pair, so table
// edits show up as test diffs rather than silent behavior changes.
func TestValidatePropertyExhaustive(t *testing.T) {
	allowed := map[PropertyStatus]map[PropertyStatus]bool{
		PropertyAvailable:     {PropertyAvailable: true, PropertyUnderContract: true},
		PropertyUnderContract: {PropertyUnderContract: true, PropertyAvailable: true, PropertySold: true, PropertyOffMarket: true},
		PropertySold:          {},
		PropertyOffMarket:     {},
	}
	for _, cur := range AllPropertyStatuses {
		for _, req := range AllPropertyStatuses {
			err := ValidateProperty(cur, req)
			want := allowed[cur][req]
			if want && err != nil {
				t.Errorf("property %s -> %s: unexpected rejection: %v", cur, req, err)
			}
			if !want && err == nil {
				t.Errorf("property %s -> %s: expected rejection", cur, req)
			}
		}
	}
}

func TestValidateLeadExhaustive(t *testing.T) {
	allowed := map[LeadStatus]map[LeadStatus]bool{
		LeadNew:           {LeadNew: true, LeadContacted: true, LeadNotInterested: true},
		LeadContacted:     {LeadContacted: true, LeadInterested: true, LeadNotInterested: true},
		LeadInterested:    {LeadInterested: true, LeadConverted: true, LeadNotInterested: true},
		LeadNotInterested: {},
		LeadConverted:     {},
	}
	for _, cur := range AllLeadStatuses {
		for _, req := range AllLeadStatuses {
			err := ValidateLead(cur, req)
			want := allowed[cur][req]
			if want && err != nil {
				t.Errorf("lead %s -> %s: unexpected rejection: %v", cur, req, err)
			}
			if !want && err == nil {
				t.Errorf("lead %s -> %s: expected rejection", cur, req)
			}
		}
	}
}

func TestValidateDealExhaustive(t *testing.T) {
	allowed := map[DealStatus]map[DealStatus]bool{
		DealPending:  {DealPending: true, DealApproved: true, DealRejected: true},
		DealApproved: {DealApproved: true, DealClosed: true},
		DealRejected: {},
		DealClosed:   {},
	}
	for _, cur := range AllDealStatuses {
		for _, req := range AllDealStatuses {
			err := ValidateDeal(cur, req)
			want := allowed[cur][req]
			if want && err != nil {
				t.Errorf("deal %s -> %s: unexpected rejection: %v", cur, req, err)
			}
			if !want && err == nil {
				t.Errorf("deal %s -> %s: expected rejection", cur, req)
			}
		}
	}
}

func TestValidateTerminalRejectsSelf(t *testing.T) {
	cases := []struct {
		entity  EntityType
		current string
	}{
		{EntityProperty, string(PropertySold)},
		{EntityProperty, string(PropertyOffMarket)},
		{EntityLead, string(LeadConverted)},
		{EntityLead, string(LeadNotInterested)},
		{EntityDeal, string(DealRejected)},
		{EntityDeal, string(DealClosed)},
	}
	for _, tc := range cases {
		if err := Validate(tc.entity, tc.current, tc.current); err == nil {
			t.Errorf("%s %s -> %s: terminal self-transition must be rejected", tc.entity, tc.current, tc.current)
		}
	}
}

// Leads must walk contacted -> interested before converting; a direct
// jump is rejected until product signs off on skip-ahead transitions.
func TestValidateLeadCannotSkipToConverted(t *testing.T) {
	err := ValidateLead(LeadNew, LeadConverted)
	if err == nil {
		t.Fatal("lead new -> converted must be rejected")
	}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("expected *InvalidTransitionError, got %T", err)
	}
	if ite.Entity != EntityLead || ite.Current != "new" || ite.Requested != "converted" {
		t.Fatalf("error fields wrong: %+v", ite)
	}
}

// A lead can be written off straight from new; not_interested does not
// require a contact attempt first.
func TestValidateLeadNewDirectlyNotInterested(t *testing.T) {
	if err := ValidateLead(LeadNew, LeadNotInterested); err != nil {
		t.Fatalf("lead new -> not_interested must be accepted, got %v", err)
	}
}

func TestValidateUnknownStatusRejected(t *testing.T) {
	if err := Validate(EntityDeal, "pending", "archived"); err == nil {
		t.Fatal("unknown requested status must be rejected")
	}
	if err := Validate(EntityType("contract"), "pending", "approved"); err == nil {
		t.Fatal("unknown entity type must be rejected")
	}
}
