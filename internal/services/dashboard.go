package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/clients/redis"
	"github.com/dealflowhq/dealflow-backend/internal/domain/dashboard"
	"github.com/dealflowhq/dealflow-backend/internal/logger"
	"github.com/dealflowhq/dealflow-backend/internal/repos"
)

// DashboardQuery scopes one dashboard computation. Months is the length
// of the revenue window ending in the current month; ActivityLimit caps
// the recent-activity feed.
type DashboardQuery struct {
	Months        int
	ActivityLimit int
}

const (
	defaultDashboardMonths = 6
	defaultActivityLimit   = 10
	maxDashboardMonths     = 36
	maxActivityLimit       = 100
)

type DashboardService interface {
	Get(ctx context.Context, q DashboardQuery) (*dashboard.Dashboard, error)
}

type dashboardService struct {
	db           *gorm.DB
	log          *logger.Logger
	propertyRepo repos.PropertyRepo
	leadRepo     repos.LeadRepo
	dealRepo     repos.DealRepo
	cache        redis.DashboardCache
}

// NewDashboardService builds the dashboard read side. cache may be nil,
// in which case every request computes from the store.
func NewDashboardService(db *gorm.DB, log *logger.Logger, propertyRepo repos.PropertyRepo, leadRepo repos.LeadRepo, dealRepo repos.DealRepo, cache redis.DashboardCache) DashboardService {
	return &dashboardService{
		db:           db,
		log:          log.With("service", "DashboardService"),
		propertyRepo: propertyRepo,
		leadRepo:     leadRepo,
		dealRepo:     dealRepo,
		cache:        cache,
	}
}

func (dss *dashboardService) Get(ctx context.Context, q DashboardQuery) (*dashboard.Dashboard, error) {
	if q.Months <= 0 || q.Months > maxDashboardMonths {
		q.Months = defaultDashboardMonths
	}
	if q.ActivityLimit <= 0 || q.ActivityLimit > maxActivityLimit {
		q.ActivityLimit = defaultActivityLimit
	}

	key := fmt.Sprintf("dashboard:m%d:a%d", q.Months, q.ActivityLimit)
	if dss.cache != nil {
		if raw, ok, err := dss.cache.Get(ctx, key); err != nil {
			dss.log.Warn("Dashboard cache read failed", "error", err)
		} else if ok {
			var cached dashboard.Dashboard
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			dss.log.Warn("Dropping unreadable dashboard cache entry", "key", key)
		}
	}

	snapshot, err := dss.takeSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	from, to := dashboard.MonthWindow(now, q.Months)
	result := dashboard.Compute(*snapshot, from, to, now, q.ActivityLimit)

	if dss.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := dss.cache.Set(ctx, key, raw); err != nil {
				dss.log.Warn("Dashboard cache write failed", "error", err)
			}
		}
	}
	return &result, nil
}

// takeSnapshot loads all three tables in one transaction so the counts
// agree with each other. Postgres gets a repeatable-read read-only
// transaction; sqlite rejects that isolation level, so it runs a plain
// one (a single connection serializes anyway).
func (dss *dashboardService) takeSnapshot(ctx context.Context) (*dashboard.Snapshot, error) {
	var opts *sql.TxOptions
	if dss.db.Dialector.Name() == "postgres" {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}

	var snapshot dashboard.Snapshot
	run := func(tx *gorm.DB) error {
		var err error
		if snapshot.Properties, err = dss.propertyRepo.ListAll(ctx, tx); err != nil {
			return fmt.Errorf("error loading properties: %w", err)
		}
		if snapshot.Leads, err = dss.leadRepo.ListAll(ctx, tx); err != nil {
			return fmt.Errorf("error loading leads: %w", err)
		}
		if snapshot.Deals, err = dss.dealRepo.ListAll(ctx, tx); err != nil {
			return fmt.Errorf("error loading deals: %w", err)
		}
		return nil
	}

	var err error
	if opts != nil {
		err = dss.db.WithContext(ctx).Transaction(run, opts)
	} else {
		err = dss.db.WithContext(ctx).Transaction(run)
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
