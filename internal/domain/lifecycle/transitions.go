package lifecycle

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is the sentinel matched by errors.Is for any
// rejected status change.
var ErrInvalidTransition = errors.New("invalid status transition")

// InvalidTransitionError reports a rejected status change. It is the only
// failure mode of Validate; well-formed inputs never panic.
type InvalidTransitionError struct {
	Entity    EntityType
	Current   string
	Requested string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s status cannot change from %q to %q", e.Entity, e.Current, e.Requested)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// Allowed transitions are explicit edge sets so the tables can be tested
// exhaustively. A status with no outgoing edges is terminal: terminal
// entities reject every request, including their own current status.
var propertyEdges = map[PropertyStatus][]PropertyStatus{
	PropertyAvailable:     {PropertyUnderContract},
	PropertyUnderContract: {PropertyAvailable, PropertySold, PropertyOffMarket},
	PropertySold:          {},
	PropertyOffMarket:     {},
}

var leadEdges = map[LeadStatus][]LeadStatus{
	LeadNew:           {LeadContacted, LeadNotInterested},
	LeadContacted:     {LeadInterested, LeadNotInterested},
	LeadInterested:    {LeadConverted, LeadNotInterested},
	LeadNotInterested: {},
	LeadConverted:     {},
}

var dealEdges = map[DealStatus][]DealStatus{
	DealPending:  {DealApproved, DealRejected},
	DealApproved: {DealClosed},
	DealRejected: {},
	DealClosed:   {},
}

// Terminal reports whether no further transition is permitted.
func (s PropertyStatus) Terminal() bool { edges, ok := propertyEdges[s]; return ok && len(edges) == 0 }
func (s LeadStatus) Terminal() bool     { edges, ok := leadEdges[s]; return ok && len(edges) == 0 }
func (s DealStatus) Terminal() bool     { edges, ok := dealEdges[s]; return ok && len(edges) == 0 }

// Validate decides whether the requested status change is legal for the
// given entity type. The caller persists the new status only on a nil
// result; Validate itself has no side effects.
//
// A same-status request is an accepted no-op from any non-terminal
// status. Terminal statuses reject everything so finished entities are
// never re-processed.
func Validate(entity EntityType, current, requested string) error {
	reject := func() error {
		return &InvalidTransitionError{Entity: entity, Current: current, Requested: requested}
	}
	switch entity {
	case EntityProperty:
		cur, err := ParsePropertyStatus(current)
		if err != nil {
			return reject()
		}
		req, err := ParsePropertyStatus(requested)
		if err != nil {
			return reject()
		}
		if cur.Terminal() {
			return reject()
		}
		if req == cur || contains(propertyEdges[cur], req) {
			return nil
		}
		return reject()
	case EntityLead:
		cur, err := ParseLeadStatus(current)
		if err != nil {
			return reject()
		}
		req, err := ParseLeadStatus(requested)
		if err != nil {
			return reject()
		}
		if cur.Terminal() {
			return reject()
		}
		if req == cur || contains(leadEdges[cur], req) {
			return nil
		}
		return reject()
	case EntityDeal:
		cur, err := ParseDealStatus(current)
		if err != nil {
			return reject()
		}
		req, err := ParseDealStatus(requested)
		if err != nil {
			return reject()
		}
		if cur.Terminal() {
			return reject()
		}
		if req == cur || contains(dealEdges[cur], req) {
			return nil
		}
		return reject()
	default:
		return reject()
	}
}

// ValidateProperty is the typed entry for property transitions.
func ValidateProperty(current, requested PropertyStatus) error {
	return Validate(EntityProperty, string(current), string(requested))
}

// ValidateLead is the typed entry for lead transitions.
func ValidateLead(current, requested LeadStatus) error {
	return Validate(EntityLead, string(current), string(requested))
}

// ValidateDeal is the typed entry for deal transitions.
func ValidateDeal(current, requested DealStatus) error {
	return Validate(EntityDeal, string(current), string(requested))
}

func contains[S ~string](set []S, want S) bool {
	for _, s := range set {
		if s == want {
			return true
		}
	}
	return false
}
