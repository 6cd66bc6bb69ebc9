package lifecycle

import "fmt"

// EntityType identifies which status machine a transition request targets.
type EntityType string

const (
	EntityProperty EntityType = "property"
	EntityLead     EntityType = "lead"
	EntityDeal     EntityType = "deal"
)

type PropertyStatus string

const (
	PropertyAvailable     PropertyStatus = "available"
	PropertyUnderContract PropertyStatus = "under_contract"
	PropertySold          PropertyStatus = "sold"
	PropertyOffMarket     PropertyStatus = "off_market"
)

type LeadStatus string

const (
	LeadNew           LeadStatus = "new"
	LeadContacted     LeadStatus = "contacted"
	LeadInterested    LeadStatus = "interested"
	LeadNotInterested LeadStatus = "not_interested"
	LeadConverted     LeadStatus = "converted"
)

type DealStatus string

const (
	DealPending  DealStatus = "pending"
	DealApproved DealStatus = "approved"
	DealRejected DealStatus = "rejected"
	DealClosed   DealStatus = "closed"
)

// AllPropertyStatuses is the closed enumeration, in display order.
var AllPropertyStatuses = []PropertyStatus{
	PropertyAvailable,
	PropertyUnderContract,
	PropertySold,
	PropertyOffMarket,
}

var AllLeadStatuses = []LeadStatus{
	LeadNew,
	LeadContacted,
	LeadInterested,
	LeadNotInterested,
	LeadConverted,
}

var AllDealStatuses = []DealStatus{
	DealPending,
	DealApproved,
	DealRejected,
	DealClosed,
}

func ParsePropertyStatus(s string) (PropertyStatus, error) {
	for _, known := range AllPropertyStatuses {
		if s == string(known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown property status %q", s)
}

func ParseLeadStatus(s string) (LeadStatus, error) {
	for _, known := range AllLeadStatuses {
		if s == string(known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown lead status %q", s)
}

func ParseDealStatus(s string) (DealStatus, error) {
	for _, known := range AllDealStatuses {
		if s == string(known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown deal status %q", s)
}
