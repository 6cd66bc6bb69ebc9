package services

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
	"github.com/dealflowhq/dealflow-backend/internal/repos"
	"github.com/dealflowhq/dealflow-backend/internal/requestdata"
	"github.com/dealflowhq/dealflow-backend/internal/types"
)

type testEnv struct {
	db       *gorm.DB
	log      *logger.Logger
	users    repos.UserRepo
	props    repos.PropertyRepo
	leads    repos.LeadRepo
	deals    repos.DealRepo
	agent    *types.User
	property *types.Property
	lead     *types.Lead
	ctx      context.Context
}

func newTestEnv(t *testing.T) *testEnv {
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

	env := &testEnv{
		db:    db,
		log:   log,
		users: repos.NewUserRepo(db, log),
		props: repos.NewPropertyRepo(db, log),
		leads: repos.NewLeadRepo(db, log),
		deals: repos.NewDealRepo(db, log),
	}

	ctx := context.Background()
	env.agent = &types.User{
		ID:       uuid.New(),
		Email:    "agent@example.com",
		Password: "x",
		FullName: "Test Agent",
		Role:     types.RoleAgent,
		IsActive: true,
	}
	_, err = env.users.Create(ctx, nil, []*types.User{env.agent})
	require.NoError(t, err)

	arv := decimal.RequireFromString("200000")
	purchase := decimal.RequireFromString("140000")
	env.property = &types.Property{
		ID:            uuid.New(),
		Address:       "12 Elm St",
		City:          "Dayton",
		Status:        lifecycle.PropertyAvailable,
		ARV:           &arv,
		PurchasePrice: &purchase,
		OwnerID:       env.agent.ID,
		Version:       1,
	}
	_, err = env.props.Create(ctx, nil, []*types.Property{env.property})
	require.NoError(t, err)

	env.lead = &types.Lead{
		ID:        uuid.New(),
		FirstName: "Dana",
		LastName:  "Seller",
		Status:    lifecycle.LeadNew,
		Version:   1,
	}
	_, err = env.leads.Create(ctx, nil, []*types.Lead{env.lead})
	require.NoError(t, err)

	env.ctx = requestdata.WithRequestData(ctx, &requestdata.RequestData{
		UserID: env.agent.ID,
		Role:   env.agent.Role,
	})
	return env
}

func (e *testEnv) dealService() DealService {
	return NewDealService(e.db, e.log, e.deals, e.props, e.leads)
}

func (e *testEnv) propertyService() PropertyService {
	return NewPropertyService(e.db, e.log, e.props, e.deals)
}

func TestDealCreateDerivesFinancials(t *testing.T) {
	env := newTestEnv(t)
	svc := env.dealService()

	deal, err := svc.Create(env.ctx, &types.Deal{
		PropertyID: env.property.ID,
		LeadID:     env.lead.ID,
		OfferPrice: decimal.RequireFromString("150000"),
	})
	require.NoError(t, err)
	require.Equal(t, lifecycle.DealPending, deal.Status)
	require.Equal(t, env.agent.ID, deal.AgentID)
	require.NotNil(t, deal.WholesaleFee)
	require.NotNil(t, deal.NetProfit)
	require.Equal(t, "20000.00", deal.WholesaleFee.StringFixed(2))
	require.Equal(t, "10000.00", deal.NetProfit.StringFixed(2))
}

func TestDealCreateWithoutARVLeavesFinancialsNil(t *testing.T) {
	env := newTestEnv(t)
	svc := env.dealService()

	propSvc := env.propertyService()
	bare, err := propSvc.Create(env.ctx, &types.Property{
		Address: "9 Oak Ave",
		OwnerID: env.agent.ID,
	})
	require.NoError(t, err)

	deal, err := svc.Create(env.ctx, &types.Deal{
		PropertyID: bare.ID,
		LeadID:     env.lead.ID,
		OfferPrice: decimal.RequireFromString("150000"),
	})
	require.NoError(t, err)
	require.Nil(t, deal.WholesaleFee)
	require.Nil(t, deal.NetProfit)
}

func TestDealCloseMarksPropertySold(t *testing.T) {
	env := newTestEnv(t)
	dealSvc := env.dealService()
	propSvc := env.propertyService()

	deal, err := dealSvc.Create(env.ctx, &types.Deal{
		PropertyID: env.property.ID,
		LeadID:     env.lead.ID,
		OfferPrice: decimal.RequireFromString("150000"),
	})
	require.NoError(t, err)

	deal, err = dealSvc.UpdateStatus(env.ctx, deal.ID, "approved", deal.Version)
	require.NoError(t, err)
	require.Equal(t, lifecycle.DealApproved, deal.Status)

	property, err := propSvc.UpdateStatus(env.ctx, env.property.ID, "under_contract", env.property.Version)
	require.NoError(t, err)
	require.Equal(t, lifecycle.PropertyUnderContract, property.Status)

	deal, err = dealSvc.UpdateStatus(env.ctx, deal.ID, "closed", deal.Version)
	require.NoError(t, err)
	require.Equal(t, lifecycle.DealClosed, deal.Status)
	require.NotNil(t, deal.ClosingDate)

	property, err = propSvc.Get(env.ctx, env.property.ID)
	require.NoError(t, err)
	require.Equal(t, lifecycle.PropertySold, property.Status)
	require.NotNil(t, property.SoldDate)
}

func TestDealCloseRejectedWhenPropertyNotUnderContract(t *testing.T) {
	env := newTestEnv(t)
	dealSvc := env.dealService()

	deal, err := dealSvc.Create(env.ctx, &types.Deal{
		PropertyID: env.property.ID,
		LeadID:     env.lead.ID,
		OfferPrice: decimal.RequireFromString("150000"),
	})
	require.NoError(t, err)

	deal, err = dealSvc.UpdateStatus(env.ctx, deal.ID, "approved", deal.Version)
	require.NoError(t, err)

	// Property is still available, so the close must fail whole and the
	// deal must stay approved.
	_, err = dealSvc.UpdateStatus(env.ctx, deal.ID, "closed", deal.Version)
	require.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	fresh, err := dealSvc.Get(env.ctx, deal.ID)
	require.NoError(t, err)
	require.Equal(t, lifecycle.DealApproved, fresh.Status)
	require.Nil(t, fresh.ClosingDate)
}

func TestDealUpdateStatusStaleVersionConflicts(t *testing.T) {
	env := newTestEnv(t)
	dealSvc := env.dealService()

	deal, err := dealSvc.Create(env.ctx, &types.Deal{
		PropertyID: env.property.ID,
		LeadID:     env.lead.ID,
		OfferPrice: decimal.RequireFromString("150000"),
	})
	require.NoError(t, err)

	_, err = dealSvc.UpdateStatus(env.ctx, deal.ID, "approved", deal.Version)
	require.NoError(t, err)

	_, err = dealSvc.UpdateStatus(env.ctx, deal.ID, "rejected", deal.Version)
	require.ErrorIs(t, err, repos.ErrConcurrentModification)
}

func TestDealOfferChangeRederivesFinancials(t *testing.T) {
	env := newTestEnv(t)
	dealSvc := env.dealService()

	deal, err := dealSvc.Create(env.ctx, &types.Deal{
		PropertyID: env.property.ID,
		LeadID:     env.lead.ID,
		OfferPrice: decimal.RequireFromString("150000"),
	})
	require.NoError(t, err)

	newOffer := decimal.RequireFromString("145000")
	deal, err = dealSvc.Update(env.ctx, deal.ID, deal.Version, DealUpdate{OfferPrice: &newOffer})
	require.NoError(t, err)

	// Fee only depends on ARV; net profit absorbs the offer change.
	require.Equal(t, "20000.00", deal.WholesaleFee.StringFixed(2))
	require.Equal(t, "15000.00", deal.NetProfit.StringFixed(2))
}

func TestPropertyARVChangeRederivesLinkedDeals(t *testing.T) {
	env := newTestEnv(t)
	dealSvc := env.dealService()
	propSvc := env.propertyService()

	deal, err := dealSvc.Create(env.ctx, &types.Deal{
		PropertyID: env.property.ID,
		LeadID:     env.lead.ID,
		OfferPrice: decimal.RequireFromString("150000"),
	})
	require.NoError(t, err)

	newARV := decimal.RequireFromString("250000")
	_, err = propSvc.Update(env.ctx, env.property.ID, env.property.Version, PropertyUpdate{ARV: &newARV})
	require.NoError(t, err)

	fresh, err := dealSvc.Get(env.ctx, deal.ID)
	require.NoError(t, err)
	require.Equal(t, "25000.00", fresh.WholesaleFee.StringFixed(2))
	require.Equal(t, "15000.00", fresh.NetProfit.StringFixed(2))
}
