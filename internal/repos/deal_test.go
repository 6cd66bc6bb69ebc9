package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
	"github.com/dealflowhq/dealflow-backend/internal/logger"
	"github.com/dealflowhq/dealflow-backend/internal/types"
)

func newTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Property{},
		&types.Lead{},
		&types.Deal{},
	))
	log, err := logger.New("development")
	require.NoError(t, err)
	return db, log
}

func seedDealGraph(t *testing.T, db *gorm.DB, log *logger.Logger) (*types.Property, *types.Lead, *types.User) {
	t.Helper()
	ctx := context.Background()

	agent := &types.User{
		ID:       uuid.New(),
		Email:    "agent@example.com",
		Password: "x",
		FullName: "Test Agent",
		Role:     types.RoleAgent,
		IsActive: true,
	}
	_, err := NewUserRepo(db, log).Create(ctx, nil, []*types.User{agent})
	require.NoError(t, err)

	arv := decimal.RequireFromString("200000")
	purchase := decimal.RequireFromString("140000")
	property := &types.Property{
		ID:            uuid.New(),
		Address:       "12 Elm St",
		City:          "Dayton",
		Status:        lifecycle.PropertyAvailable,
		ARV:           &arv,
		PurchasePrice: &purchase,
		OwnerID:       agent.ID,
		Version:       1,
	}
	_, err = NewPropertyRepo(db, log).Create(ctx, nil, []*types.Property{property})
	require.NoError(t, err)

	lead := &types.Lead{
		ID:        uuid.New(),
		FirstName: "Dana",
		LastName:  "Seller",
		Status:    lifecycle.LeadNew,
		Version:   1,
	}
	_, err = NewLeadRepo(db, log).Create(ctx, nil, []*types.Lead{lead})
	require.NoError(t, err)

	return property, lead, agent
}

func TestDealRepoUpdateGuarded(t *testing.T) {
	db, log := newTestDB(t)
	property, lead, agent := seedDealGraph(t, db, log)
	repo := NewDealRepo(db, log)
	ctx := context.Background()

	deal := &types.Deal{
		ID:         uuid.New(),
		PropertyID: property.ID,
		LeadID:     lead.ID,
		AgentID:    agent.ID,
		Status:     lifecycle.DealPending,
		OfferPrice: decimal.RequireFromString("150000"),
		Version:    1,
	}
	_, err := repo.Create(ctx, nil, []*types.Deal{deal})
	require.NoError(t, err)

	err = repo.UpdateGuarded(ctx, nil, deal.ID, 1, map[string]any{"status": "approved"})
	require.NoError(t, err)

	fresh, err := repo.GetByIDs(ctx, nil, []uuid.UUID{deal.ID})
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	require.Equal(t, lifecycle.DealApproved, fresh[0].Status)
	require.Equal(t, 2, fresh[0].Version)
}

func TestDealRepoUpdateGuardedLeavesCallerMapUntouched(t *testing.T) {
	db, log := newTestDB(t)
	property, lead, agent := seedDealGraph(t, db, log)
	repo := NewDealRepo(db, log)
	ctx := context.Background()

	deal := &types.Deal{
		ID:         uuid.New(),
		PropertyID: property.ID,
		LeadID:     lead.ID,
		AgentID:    agent.ID,
		Status:     lifecycle.DealPending,
		OfferPrice: decimal.RequireFromString("150000"),
		Version:    1,
	}
	_, err := repo.Create(ctx, nil, []*types.Deal{deal})
	require.NoError(t, err)

	updates := map[string]any{"status": "approved"}
	require.NoError(t, repo.UpdateGuarded(ctx, nil, deal.ID, 1, updates))

	// The version bump is internal bookkeeping; callers reusing the map
	// must not see it leak back out.
	require.NotContains(t, updates, "version")
	require.Equal(t, map[string]any{"status": "approved"}, updates)
}

func TestDealRepoUpdateGuardedStaleVersion(t *testing.T) {
	db, log := newTestDB(t)
	property, lead, agent := seedDealGraph(t, db, log)
	repo := NewDealRepo(db, log)
	ctx := context.Background()

	deal := &types.Deal{
		ID:         uuid.New(),
		PropertyID: property.ID,
		LeadID:     lead.ID,
		AgentID:    agent.ID,
		Status:     lifecycle.DealPending,
		OfferPrice: decimal.RequireFromString("150000"),
		Version:    1,
	}
	_, err := repo.Create(ctx, nil, []*types.Deal{deal})
	require.NoError(t, err)

	// First writer wins.
	require.NoError(t, repo.UpdateGuarded(ctx, nil, deal.ID, 1, map[string]any{"status": "approved"}))

	// Second writer still holds version 1 and must be turned away.
	err = repo.UpdateGuarded(ctx, nil, deal.ID, 1, map[string]any{"status": "rejected"})
	require.ErrorIs(t, err, ErrConcurrentModification)

	var cme *ConcurrentModificationError
	require.ErrorAs(t, err, &cme)
	require.Equal(t, "deal", cme.Entity)
	require.Equal(t, deal.ID, cme.ID)

	fresh, err := repo.GetByIDs(ctx, nil, []uuid.UUID{deal.ID})
	require.NoError(t, err)
	require.Equal(t, lifecycle.DealApproved, fresh[0].Status)
	require.Equal(t, 2, fresh[0].Version)
}

func TestDealRepoListByPropertyIDs(t *testing.T) {
	db, log := newTestDB(t)
	property, lead, agent := seedDealGraph(t, db, log)
	repo := NewDealRepo(db, log)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		deal := &types.Deal{
			ID:         uuid.New(),
			PropertyID: property.ID,
			LeadID:     lead.ID,
			AgentID:    agent.ID,
			Status:     lifecycle.DealPending,
			OfferPrice: decimal.RequireFromString("150000"),
			Version:    1,
		}
		_, err := repo.Create(ctx, nil, []*types.Deal{deal})
		require.NoError(t, err)
	}

	deals, err := repo.ListByPropertyIDs(ctx, nil, []uuid.UUID{property.ID})
	require.NoError(t, err)
	require.Len(t, deals, 3)

	none, err := repo.ListByPropertyIDs(ctx, nil, []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	require.Empty(t, none)
}
