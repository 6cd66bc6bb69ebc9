package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/domain/finance"
	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
	"github.com/dealflowhq/dealflow-backend/internal/logger"
	"github.com/dealflowhq/dealflow-backend/internal/repos"
	"github.com/dealflowhq/dealflow-backend/internal/requestdata"
	"github.com/dealflowhq/dealflow-backend/internal/types"
)

// DealUpdate carries the writable fields of a deal. Nil means unchanged.
// Property, lead and agent references are fixed at creation; wholesale
// fee and net profit are derived and never accepted as input.
type DealUpdate struct {
	OfferPrice  *decimal.Decimal
	ClosingDate *time.Time
	Notes       *string
}

type DealService interface {
	Create(ctx context.Context, deal *types.Deal) (*types.Deal, error)
	Get(ctx context.Context, dealID uuid.UUID) (*types.Deal, error)
	List(ctx context.Context, filter repos.DealFilter) ([]*types.Deal, error)
	Update(ctx context.Context, dealID uuid.UUID, expectedVersion int, in DealUpdate) (*types.Deal, error)
	UpdateStatus(ctx context.Context, dealID uuid.UUID, requested string, expectedVersion int) (*types.Deal, error)
	Delete(ctx context.Context, dealID uuid.UUID) error
}

type dealService struct {
	db           *gorm.DB
	log          *logger.Logger
	dealRepo     repos.DealRepo
	propertyRepo repos.PropertyRepo
	leadRepo     repos.LeadRepo
}

func NewDealService(db *gorm.DB, log *logger.Logger, dealRepo repos.DealRepo, propertyRepo repos.PropertyRepo, leadRepo repos.LeadRepo) DealService {
	return &dealService{
		db:           db,
		log:          log.With("service", "DealService"),
		dealRepo:     dealRepo,
		propertyRepo: propertyRepo,
		leadRepo:     leadRepo,
	}
}

// Create records a deal against an existing property and lead. The
// agent is taken from the authenticated caller. Financials are derived
// immediately; incomplete property inputs leave them nil rather than
// failing the create.
func (ds *dealService) Create(ctx context.Context, deal *types.Deal) (*types.Deal, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no authenticated caller in context")
	}
	if deal.OfferPrice.IsNegative() {
		return nil, fmt.Errorf("offer price must not be negative")
	}

	var result *types.Deal
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		properties, err := ds.propertyRepo.GetByIDs(ctx, tx, []uuid.UUID{deal.PropertyID})
		if err != nil {
			return fmt.Errorf("error verifying property: %w", err)
		}
		if len(properties) == 0 {
			return fmt.Errorf("property %s does not exist", deal.PropertyID)
		}
		leads, err := ds.leadRepo.GetByIDs(ctx, tx, []uuid.UUID{deal.LeadID})
		if err != nil {
			return fmt.Errorf("error verifying lead: %w", err)
		}
		if len(leads) == 0 {
			return fmt.Errorf("lead %s does not exist", deal.LeadID)
		}
		property := properties[0]

		deal.ID = uuid.New()
		deal.AgentID = rd.UserID
		deal.Status = lifecycle.DealPending
		deal.Version = 1

		fin, derr := finance.DeriveDealFinancials(deal.OfferPrice, property.ARV, property.PurchasePrice)
		if derr != nil {
			ds.log.Debug("Deal created with incomplete financials",
				"deal_id", deal.ID, "reason", derr)
		}
		deal.WholesaleFee = fin.WholesaleFee
		deal.NetProfit = fin.NetProfit

		created, err := ds.dealRepo.Create(ctx, tx, []*types.Deal{deal})
		if err != nil {
			return fmt.Errorf("failed to create deal: %w", err)
		}
		result = created[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ds *dealService) Get(ctx context.Context, dealID uuid.UUID) (*types.Deal, error) {
	found, err := ds.dealRepo.GetByIDs(ctx, nil, []uuid.UUID{dealID})
	if err != nil {
		return nil, fmt.Errorf("error fetching deal: %w", err)
	}
	if len(found) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return found[0], nil
}

func (ds *dealService) List(ctx context.Context, filter repos.DealFilter) ([]*types.Deal, error) {
	return ds.dealRepo.List(ctx, nil, filter)
}

// Update writes the supplied fields under the version guard. An offer
// price change rederives the financials from the linked property inside
// the same transaction.
func (ds *dealService) Update(ctx context.Context, dealID uuid.UUID, expectedVersion int, in DealUpdate) (*types.Deal, error) {
	updates := map[string]any{}
	if in.OfferPrice != nil {
		if in.OfferPrice.IsNegative() {
			return nil, fmt.Errorf("offer price must not be negative")
		}
		updates["offer_price"] = *in.OfferPrice
	}
	if in.ClosingDate != nil {
		updates["closing_date"] = *in.ClosingDate
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if len(updates) == 0 {
		return ds.Get(ctx, dealID)
	}

	var result *types.Deal
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := ds.dealRepo.GetByIDs(ctx, tx, []uuid.UUID{dealID})
		if err != nil {
			return fmt.Errorf("error fetching deal: %w", err)
		}
		if len(found) == 0 {
			return gorm.ErrRecordNotFound
		}
		deal := found[0]

		if in.OfferPrice != nil {
			properties, err := ds.propertyRepo.GetByIDs(ctx, tx, []uuid.UUID{deal.PropertyID})
			if err != nil {
				return fmt.Errorf("error fetching property for recompute: %w", err)
			}
			if len(properties) == 0 {
				return fmt.Errorf("property %s does not exist", deal.PropertyID)
			}
			property := properties[0]
			fin, derr := finance.DeriveDealFinancials(*in.OfferPrice, property.ARV, property.PurchasePrice)
			if derr != nil {
				ds.log.Debug("Deal financials incomplete after offer change",
					"deal_id", deal.ID, "reason", derr)
			}
			updates["wholesale_fee"] = fin.WholesaleFee
			updates["net_profit"] = fin.NetProfit
		}

		if err := ds.dealRepo.UpdateGuarded(ctx, tx, dealID, expectedVersion, updates); err != nil {
			return err
		}

		fresh, err := ds.dealRepo.GetByIDs(ctx, tx, []uuid.UUID{dealID})
		if err != nil {
			return err
		}
		result = fresh[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus moves the deal through its lifecycle. Closing a deal
// also marks the linked property sold in the same transaction: if the
// property cannot legally move to sold, the close is rejected whole.
func (ds *dealService) UpdateStatus(ctx context.Context, dealID uuid.UUID, requested string, expectedVersion int) (*types.Deal, error) {
	var result *types.Deal
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := ds.dealRepo.GetByIDs(ctx, tx, []uuid.UUID{dealID})
		if err != nil {
			return fmt.Errorf("error fetching deal: %w", err)
		}
		if len(found) == 0 {
			return gorm.ErrRecordNotFound
		}
		deal := found[0]

		if err := lifecycle.Validate(lifecycle.EntityDeal, string(deal.Status), requested); err != nil {
			return err
		}

		updates := map[string]any{"status": requested}

		closing := requested == string(lifecycle.DealClosed) && deal.Status != lifecycle.DealClosed
		if closing {
			if deal.ClosingDate == nil {
				updates["closing_date"] = time.Now()
			}
			if err := ds.markPropertySold(ctx, tx, deal.PropertyID); err != nil {
				return err
			}
		}

		if err := ds.dealRepo.UpdateGuarded(ctx, tx, dealID, expectedVersion, updates); err != nil {
			return err
		}

		fresh, err := ds.dealRepo.GetByIDs(ctx, tx, []uuid.UUID{dealID})
		if err != nil {
			return err
		}
		result = fresh[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ds *dealService) markPropertySold(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) error {
	properties, err := ds.propertyRepo.GetByIDs(ctx, tx, []uuid.UUID{propertyID})
	if err != nil {
		return fmt.Errorf("error fetching property for close: %w", err)
	}
	if len(properties) == 0 {
		return fmt.Errorf("property %s does not exist", propertyID)
	}
	property := properties[0]
	if property.Status == lifecycle.PropertySold {
		return nil
	}
	if err := lifecycle.Validate(lifecycle.EntityProperty, string(property.Status), string(lifecycle.PropertySold)); err != nil {
		var ite *lifecycle.InvalidTransitionError
		if errors.As(err, &ite) {
			return fmt.Errorf("cannot close deal: %w", err)
		}
		return err
	}
	updates := map[string]any{"status": string(lifecycle.PropertySold)}
	if property.SoldDate == nil {
		updates["sold_date"] = time.Now()
	}
	return ds.propertyRepo.UpdateGuarded(ctx, tx, propertyID, property.Version, updates)
}

func (ds *dealService) Delete(ctx context.Context, dealID uuid.UUID) error {
	return ds.dealRepo.Delete(ctx, nil, dealID)
}
