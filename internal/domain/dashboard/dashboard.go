// Package dashboard rolls a consistent snapshot of properties, leads,
// and deals up into the numbers the dashboard renders. Every function is
// a pure read over the snapshot: no mutation, no ordering dependency
// between calls.
package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
	"github.com/dealflowhq/dealflow-backend/internal/types"
)

// Snapshot is a read-only view of the entity collections, taken under a
// single transaction so the counts sum correctly across tables.
type Snapshot struct {
	Properties []*types.Property
	Leads      []*types.Lead
	Deals      []*types.Deal
}

// Distributions maps every enum status, including zero counts, to its
// occurrence count.
type Distributions struct {
	Properties map[lifecycle.PropertyStatus]int `json:"properties"`
	Leads      map[lifecycle.LeadStatus]int     `json:"leads"`
	Deals      map[lifecycle.DealStatus]int     `json:"deals"`
}

func StatusDistributions(s Snapshot) Distributions {
	d := Distributions{
		Properties: make(map[lifecycle.PropertyStatus]int, len(lifecycle.AllPropertyStatuses)),
		Leads:      make(map[lifecycle.LeadStatus]int, len(lifecycle.AllLeadStatuses)),
		Deals:      make(map[lifecycle.DealStatus]int, len(lifecycle.AllDealStatuses)),
	}
	for _, st := range lifecycle.AllPropertyStatuses {
		d.Properties[st] = 0
	}
	for _, st := range lifecycle.AllLeadStatuses {
		d.Leads[st] = 0
	}
	for _, st := range lifecycle.AllDealStatuses {
		d.Deals[st] = 0
	}
	for _, p := range s.Properties {
		d.Properties[p.Status]++
	}
	for _, l := range s.Leads {
		d.Leads[l.Status]++
	}
	for _, dl := range s.Deals {
		d.Deals[dl.Status]++
	}
	return d
}

// MonthRevenue is one calendar-month bucket of closed-deal net profit.
type MonthRevenue struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
}

// MonthlyRevenue sums net profit of closed deals by calendar month of
// their closing date, chronologically over [from, to]. Months with no
// closed deals report zero rather than being absent.
func MonthlyRevenue(s Snapshot, from, to time.Time) []MonthRevenue {
	start := monthStart(from)
	end := monthStart(to)
	if end.Before(start) {
		return nil
	}

	byMonth := make(map[string]decimal.Decimal)
	for _, d := range s.Deals {
		if d.Status != lifecycle.DealClosed || d.ClosingDate == nil || d.NetProfit == nil {
			continue
		}
		key := d.ClosingDate.UTC().Format("2006-01")
		byMonth[key] = byMonth[key].Add(*d.NetProfit)
	}

	var series []MonthRevenue
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		series = append(series, MonthRevenue{Month: key, Revenue: byMonth[key]})
	}
	return series
}

// Activity is one entry of the recent-activity feed.
type Activity struct {
	EntityType lifecycle.EntityType `json:"entity_type"`
	EntityID   uuid.UUID            `json:"entity_id"`
	Summary    string               `json:"summary"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// RecentActivity returns the n most recently updated entities across all
// three types, newest first. Ties on the timestamp break by entity ID so
// the feed is deterministic.
func RecentActivity(s Snapshot, n int) []Activity {
	if n <= 0 {
		return nil
	}
	feed := make([]Activity, 0, len(s.Properties)+len(s.Leads)+len(s.Deals))
	for _, p := range s.Properties {
		feed = append(feed, Activity{
			EntityType: lifecycle.EntityProperty,
			EntityID:   p.ID,
			Summary:    fmt.Sprintf("Property %s, %s is %s", p.Address, p.City, p.Status),
			UpdatedAt:  p.UpdatedAt,
		})
	}
	for _, l := range s.Leads {
		feed = append(feed, Activity{
			EntityType: lifecycle.EntityLead,
			EntityID:   l.ID,
			Summary:    fmt.Sprintf("Lead %s %s is %s", l.FirstName, l.LastName, l.Status),
			UpdatedAt:  l.UpdatedAt,
		})
	}
	for _, d := range s.Deals {
		feed = append(feed, Activity{
			EntityType: lifecycle.EntityDeal,
			EntityID:   d.ID,
			Summary:    fmt.Sprintf("Deal offering %s is %s", d.OfferPrice.StringFixed(2), d.Status),
			UpdatedAt:  d.UpdatedAt,
		})
	}
	sort.Slice(feed, func(i, j int) bool {
		if !feed[i].UpdatedAt.Equal(feed[j].UpdatedAt) {
			return feed[i].UpdatedAt.After(feed[j].UpdatedAt)
		}
		return strings.Compare(feed[i].EntityID.String(), feed[j].EntityID.String()) < 0
	})
	if len(feed) > n {
		feed = feed[:n]
	}
	return feed
}

// Summary is the headline count block of the dashboard.
type Summary struct {
	TotalProperties     int             `json:"total_properties"`
	AvailableProperties int             `json:"available_properties"`
	TotalLeads          int             `json:"total_leads"`
	NewLeads            int             `json:"new_leads"`
	TotalDeals          int             `json:"total_deals"`
	PendingDeals        int             `json:"pending_deals"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	CurrentMonthRevenue decimal.Decimal `json:"current_month_revenue"`
}

// Summarize computes the headline counts. Revenue counts closed deals
// only; the current-month figure buckets by closing date in the calendar
// month of now.
func Summarize(s Snapshot, now time.Time) Summary {
	sum := Summary{
		TotalProperties: len(s.Properties),
		TotalLeads:      len(s.Leads),
		TotalDeals:      len(s.Deals),
	}
	for _, p := range s.Properties {
		if p.Status == lifecycle.PropertyAvailable {
			sum.AvailableProperties++
		}
	}
	for _, l := range s.Leads {
		if l.Status == lifecycle.LeadNew {
			sum.NewLeads++
		}
	}
	month := monthStart(now)
	for _, d := range s.Deals {
		if d.Status == lifecycle.DealPending {
			sum.PendingDeals++
		}
		if d.Status != lifecycle.DealClosed || d.NetProfit == nil {
			continue
		}
		sum.TotalRevenue = sum.TotalRevenue.Add(*d.NetProfit)
		if d.ClosingDate != nil && monthStart(*d.ClosingDate).Equal(month) {
			sum.CurrentMonthRevenue = sum.CurrentMonthRevenue.Add(*d.NetProfit)
		}
	}
	return sum
}

// Dashboard bundles every rollup for one request.
type Dashboard struct {
	Distributions  Distributions  `json:"distributions"`
	MonthlyRevenue []MonthRevenue `json:"monthly_revenue"`
	RecentActivity []Activity     `json:"recent_activity"`
	Summary        Summary        `json:"summary"`
}

// Compute produces the full dashboard over [from, to] as of now, with at
// most activityLimit feed entries.
func Compute(s Snapshot, from, to, now time.Time, activityLimit int) Dashboard {
	return Dashboard{
		Distributions:  StatusDistributions(s),
		MonthlyRevenue: MonthlyRevenue(s, from, to),
		RecentActivity: RecentActivity(s, activityLimit),
		Summary:        Summarize(s, now),
	}
}

// MonthWindow returns the month-anchored [from, to] range covering the
// n calendar months ending in the month of now. Anchoring both bounds to
// the first of the month keeps month-end dates from shortening the
// window (March 31 minus one month would otherwise normalize to March 3).
func MonthWindow(now time.Time, n int) (time.Time, time.Time) {
	end := monthStart(now)
	return end.AddDate(0, -(n - 1), 0), end
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
