package dashboard

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
	"github.com/dealflowhq/dealflow-backend/internal/types"
)

func money(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func closedDeal(net string, closedAt time.Time) *types.Deal {
	return &types.Deal{
		ID:          uuid.New(),
		Status:      lifecycle.DealClosed,
		OfferPrice:  decimal.NewFromInt(150000),
		ClosingDate: &closedAt,
		NetProfit:   money(net),
	}
}

func TestStatusDistributionsIncludesZeroCounts(t *testing.T) {
	s := Snapshot{
		Properties: []*types.Property{
			{ID: uuid.New(), Status: lifecycle.PropertyAvailable},
			{ID: uuid.New(), Status: lifecycle.PropertyAvailable},
			{ID: uuid.New(), Status: lifecycle.PropertySold},
		},
		Leads: []*types.Lead{
			{ID: uuid.New(), Status: lifecycle.LeadNew},
		},
	}
	d := StatusDistributions(s)

	if got := d.Properties[lifecycle.PropertyAvailable]; got != 2 {
		t.Fatalf("available properties = %d, want 2", got)
	}
	if got := d.Properties[lifecycle.PropertySold]; got != 1 {
		t.Fatalf("sold properties = %d, want 1", got)
	}
	for _, st := range lifecycle.AllPropertyStatuses {
		if _, ok := d.Properties[st]; !ok {
			t.Fatalf("property status %s missing from distribution", st)
		}
	}
	for _, st := range lifecycle.AllLeadStatuses {
		if _, ok := d.Leads[st]; !ok {
			t.Fatalf("lead status %s missing from distribution", st)
		}
	}
	for _, st := range lifecycle.AllDealStatuses {
		if count, ok := d.Deals[st]; !ok || count != 0 {
			t.Fatalf("deal status %s = (%d,%v), want explicit zero", st, count, ok)
		}
	}
}

func TestMonthlyRevenueZeroFillsEmptyMonths(t *testing.T) {
	from := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)

	series := MonthlyRevenue(Snapshot{}, from, to)
	if len(series) != 4 {
		t.Fatalf("series length = %d, want 4", len(series))
	}
	wantMonths := []string{"2026-01", "2026-02", "2026-03", "2026-04"}
	for i, m := range wantMonths {
		if series[i].Month != m {
			t.Fatalf("series[%d].Month = %s, want %s", i, series[i].Month, m)
		}
		if !series[i].Revenue.IsZero() {
			t.Fatalf("series[%d].Revenue = %s, want 0", i, series[i].Revenue)
		}
	}
}

func TestMonthWindowMonthEndDatesKeepFullRange(t *testing.T) {
	// March 31 minus one calendar month normalizes to March 3 under raw
	// AddDate; the window must stay anchored to month starts instead.
	now := time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC)
	from, to := MonthWindow(now, 2)

	wantFrom := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !from.Equal(wantFrom) {
		t.Fatalf("from = %s, want %s", from, wantFrom)
	}
	if !to.Equal(wantTo) {
		t.Fatalf("to = %s, want %s", to, wantTo)
	}

	series := MonthlyRevenue(Snapshot{}, from, to)
	if len(series) != 2 {
		t.Fatalf("series length = %d, want 2", len(series))
	}
	if series[0].Month != "2026-02" || series[1].Month != "2026-03" {
		t.Fatalf("months = [%s %s], want [2026-02 2026-03]", series[0].Month, series[1].Month)
	}
}

func TestMonthlyRevenueGroupsByClosingMonth(t *testing.T) {
	jan := time.Date(2026, time.January, 20, 12, 0, 0, 0, time.UTC)
	mar := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	s := Snapshot{Deals: []*types.Deal{
		closedDeal("10000.00", jan),
		closedDeal("2500.50", jan),
		closedDeal("4000.00", mar),
		// Approved but not closed: excluded.
		{ID: uuid.New(), Status: lifecycle.DealApproved, NetProfit: money("999"), ClosingDate: &jan},
		// Closed without a closing date: excluded.
		{ID: uuid.New(), Status: lifecycle.DealClosed, NetProfit: money("999")},
	}}

	series := MonthlyRevenue(s, jan, mar)
	if len(series) != 3 {
		t.Fatalf("series length = %d, want 3", len(series))
	}
	if want := decimal.RequireFromString("12500.50"); !series[0].Revenue.Equal(want) {
		t.Fatalf("january revenue = %s, want %s", series[0].Revenue, want)
	}
	if !series[1].Revenue.IsZero() {
		t.Fatalf("february revenue = %s, want 0", series[1].Revenue)
	}
	if want := decimal.RequireFromString("4000.00"); !series[2].Revenue.Equal(want) {
		t.Fatalf("march revenue = %s, want %s", series[2].Revenue, want)
	}
}

func TestRecentActivityOrderingAndTieBreak(t *testing.T) {
	base := time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)
	older := base.Add(-time.Hour)

	idA := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	idB := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	s := Snapshot{
		Properties: []*types.Property{
			{ID: idB, Address: "12 Oak St", City: "Austin", Status: lifecycle.PropertyAvailable, UpdatedAt: base},
		},
		Leads: []*types.Lead{
			{ID: idA, FirstName: "Dana", LastName: "Reyes", Status: lifecycle.LeadNew, UpdatedAt: base},
		},
		Deals: []*types.Deal{
			{ID: uuid.New(), Status: lifecycle.DealPending, OfferPrice: decimal.NewFromInt(100000), UpdatedAt: older},
		},
	}

	feed := RecentActivity(s, 10)
	if len(feed) != 3 {
		t.Fatalf("feed length = %d, want 3", len(feed))
	}
	// Equal timestamps order by entity ID ascending.
	if feed[0].EntityID != idA || feed[1].EntityID != idB {
		t.Fatalf("tie-break order wrong: got %s then %s", feed[0].EntityID, feed[1].EntityID)
	}
	if feed[2].EntityType != lifecycle.EntityDeal {
		t.Fatalf("oldest entry should be the deal, got %s", feed[2].EntityType)
	}
	if feed[0].Summary == "" || feed[1].Summary == "" {
		t.Fatal("activity entries must carry a summary")
	}

	if got := RecentActivity(s, 2); len(got) != 2 {
		t.Fatalf("limited feed length = %d, want 2", len(got))
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	s := Snapshot{
		Properties: []*types.Property{
			{ID: uuid.New(), Status: lifecycle.PropertyAvailable},
			{ID: uuid.New(), Status: lifecycle.PropertyUnderContract},
		},
		Leads: []*types.Lead{
			{ID: uuid.New(), Status: lifecycle.LeadNew},
			{ID: uuid.New(), Status: lifecycle.LeadContacted},
			{ID: uuid.New(), Status: lifecycle.LeadNew},
		},
		Deals: []*types.Deal{
			{ID: uuid.New(), Status: lifecycle.DealPending, OfferPrice: decimal.NewFromInt(1)},
			closedDeal("10000.00", thisMonth),
			closedDeal("5000.00", lastMonth),
		},
	}

	sum := Summarize(s, now)
	if sum.TotalProperties != 2 || sum.AvailableProperties != 1 {
		t.Fatalf("property counts = %d/%d, want 2/1", sum.TotalProperties, sum.AvailableProperties)
	}
	if sum.TotalLeads != 3 || sum.NewLeads != 2 {
		t.Fatalf("lead counts = %d/%d, want 3/2", sum.TotalLeads, sum.NewLeads)
	}
	if sum.TotalDeals != 3 || sum.PendingDeals != 1 {
		t.Fatalf("deal counts = %d/%d, want 3/1", sum.TotalDeals, sum.PendingDeals)
	}
	if want := decimal.RequireFromString("15000.00"); !sum.TotalRevenue.Equal(want) {
		t.Fatalf("total revenue = %s, want %s", sum.TotalRevenue, want)
	}
	if want := decimal.RequireFromString("10000.00"); !sum.CurrentMonthRevenue.Equal(want) {
		t.Fatalf("current month revenue = %s, want %s", sum.CurrentMonthRevenue, want)
	}
}

func TestComputeBundlesAllRollups(t *testing.T) {
	now := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)
	s := Snapshot{Deals: []*types.Deal{closedDeal("100.00", now)}}

	d := Compute(s, now.AddDate(0, -2, 0), now, now, 5)
	if len(d.MonthlyRevenue) != 3 {
		t.Fatalf("monthly series length = %d, want 3", len(d.MonthlyRevenue))
	}
	if d.Summary.TotalDeals != 1 {
		t.Fatalf("summary total deals = %d, want 1", d.Summary.TotalDeals)
	}
	if len(d.RecentActivity) != 1 {
		t.Fatalf("activity length = %d, want 1", len(d.RecentActivity))
	}
	if len(d.Distributions.Deals) != len(lifecycle.AllDealStatuses) {
		t.Fatalf("deal distribution size = %d, want %d", len(d.Distributions.Deals), len(lifecycle.AllDealStatuses))
	}
}
