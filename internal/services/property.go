package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/domain/finance"
	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
	"github.com/dealflowhq/dealflow-backend/internal/logger"
	"github.com/dealflowhq/dealflow-backend/internal/repos"
	"github.com/dealflowhq/dealflow-backend/internal/types"
)

// PropertyUpdate carries the writable fields of a property. Nil means
// unchanged. Status is not here: status changes go through UpdateStatus
// so they always pass the transition validator.
type PropertyUpdate struct {
	Address      *string
	City         *string
	State        *string
	ZipCode      *string
	PropertyType *string
	SquareFeet   *float64
	Bedrooms     *int
	Bathrooms    *float64
	YearBuilt    *int

	ARV           *decimal.Decimal
	PurchasePrice *decimal.Decimal
	RepairCost    *decimal.Decimal
	HoldingCost   *decimal.Decimal
	SellingPrice  *decimal.Decimal

	Description *string
	Notes       *string
}

type PropertyService interface {
	Create(ctx context.Context, property *types.Property) (*types.Property, error)
	Get(ctx context.Context, propertyID uuid.UUID) (*types.Property, error)
	List(ctx context.Context, filter repos.PropertyFilter) ([]*types.Property, error)
	Update(ctx context.Context, propertyID uuid.UUID, expectedVersion int, in PropertyUpdate) (*types.Property, error)
	UpdateStatus(ctx context.Context, propertyID uuid.UUID, requested string, expectedVersion int) (*types.Property, error)
	Delete(ctx context.Context, propertyID uuid.UUID) error
}

type propertyService struct {
	db           *gorm.DB
	log          *logger.Logger
	propertyRepo repos.PropertyRepo
	dealRepo     repos.DealRepo
}

func NewPropertyService(db *gorm.DB, log *logger.Logger, propertyRepo repos.PropertyRepo, dealRepo repos.DealRepo) PropertyService {
	return &propertyService{
		db:           db,
		log:          log.With("service", "PropertyService"),
		propertyRepo: propertyRepo,
		dealRepo:     dealRepo,
	}
}

func (ps *propertyService) Create(ctx context.Context, property *types.Property) (*types.Property, error) {
	if property.Address == "" {
		return nil, fmt.Errorf("an address is required")
	}
	if property.OwnerID == uuid.Nil {
		return nil, fmt.Errorf("an owner is required")
	}
	property.ID = uuid.New()
	property.Status = lifecycle.PropertyAvailable
	property.ListDate = time.Now()
	property.Version = 1
	created, err := ps.propertyRepo.Create(ctx, nil, []*types.Property{property})
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return created[0], nil
}

func (ps *propertyService) Get(ctx context.Context, propertyID uuid.UUID) (*types.Property, error) {
	found, err := ps.propertyRepo.GetByIDs(ctx, nil, []uuid.UUID{propertyID})
	if err != nil {
		return nil, fmt.Errorf("error fetching property: %w", err)
	}
	if len(found) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return found[0], nil
}

func (ps *propertyService) List(ctx context.Context, filter repos.PropertyFilter) ([]*types.Property, error) {
	return ps.propertyRepo.List(ctx, nil, filter)
}

// Update writes the supplied fields under the version guard. When the
// ARV or purchase price changes, every deal on the property has its
// derived financials recomputed inside the same transaction so they are
// never stale.
func (ps *propertyService) Update(ctx context.Context, propertyID uuid.UUID, expectedVersion int, in PropertyUpdate) (*types.Property, error) {
	updates := map[string]any{}
	setStr := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	setStr("address", in.Address)
	setStr("city", in.City)
	setStr("state", in.State)
	setStr("zip_code", in.ZipCode)
	setStr("property_type", in.PropertyType)
	setStr("description", in.Description)
	setStr("notes", in.Notes)
	if in.SquareFeet != nil {
		updates["square_feet"] = *in.SquareFeet
	}
	if in.Bedrooms != nil {
		updates["bedrooms"] = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		updates["bathrooms"] = *in.Bathrooms
	}
	if in.YearBuilt != nil {
		updates["year_built"] = *in.YearBuilt
	}
	if in.ARV != nil {
		updates["arv"] = *in.ARV
	}
	if in.PurchasePrice != nil {
		updates["purchase_price"] = *in.PurchasePrice
	}
	if in.RepairCost != nil {
		updates["repair_cost"] = *in.RepairCost
	}
	if in.HoldingCost != nil {
		updates["holding_cost"] = *in.HoldingCost
	}
	if in.SellingPrice != nil {
		updates["selling_price"] = *in.SellingPrice
	}
	if len(updates) == 0 {
		return ps.Get(ctx, propertyID)
	}

	financialInputChanged := in.ARV != nil || in.PurchasePrice != nil

	var result *types.Property
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := ps.propertyRepo.GetByIDs(ctx, tx, []uuid.UUID{propertyID})
		if err != nil {
			return fmt.Errorf("error fetching property: %w", err)
		}
		if len(found) == 0 {
			return gorm.ErrRecordNotFound
		}
		property := found[0]

		if err := ps.propertyRepo.UpdateGuarded(ctx, tx, propertyID, expectedVersion, updates); err != nil {
			return err
		}

		if financialInputChanged {
			arv := property.ARV
			purchase := property.PurchasePrice
			if in.ARV != nil {
				arv = in.ARV
			}
			if in.PurchasePrice != nil {
				purchase = in.PurchasePrice
			}
			if err := ps.rederiveDeals(ctx, tx, propertyID, arv, purchase); err != nil {
				return err
			}
		}

		fresh, err := ps.propertyRepo.GetByIDs(ctx, tx, []uuid.UUID{propertyID})
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

func (ps *propertyService) rederiveDeals(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, arv, purchase *decimal.Decimal) error {
	deals, err := ps.dealRepo.ListByPropertyIDs(ctx, tx, []uuid.UUID{propertyID})
	if err != nil {
		return fmt.Errorf("error listing deals for recompute: %w", err)
	}
	for _, deal := range deals {
		fin, derr := finance.DeriveDealFinancials(deal.OfferPrice, arv, purchase)
		if derr != nil {
			ps.log.Debug("Deal financials incomplete after property update",
				"deal_id", deal.ID, "reason", derr)
		}
		if err := ps.dealRepo.UpdateGuarded(ctx, tx, deal.ID, deal.Version, map[string]any{
			"wholesale_fee": fin.WholesaleFee,
			"net_profit":    fin.NetProfit,
		}); err != nil {
			return fmt.Errorf("error recomputing deal %s: %w", deal.ID, err)
		}
	}
	return nil
}

func (ps *propertyService) UpdateStatus(ctx context.Context, propertyID uuid.UUID, requested string, expectedVersion int) (*types.Property, error) {
	var result *types.Property
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := ps.propertyRepo.GetByIDs(ctx, tx, []uuid.UUID{propertyID})
		if err != nil {
			return fmt.Errorf("error fetching property: %w", err)
		}
		if len(found) == 0 {
			return gorm.ErrRecordNotFound
		}
		property := found[0]

		if err := lifecycle.Validate(lifecycle.EntityProperty, string(property.Status), requested); err != nil {
			return err
		}

		updates := map[string]any{"status": requested}
		if requested == string(lifecycle.PropertySold) && property.SoldDate == nil {
			updates["sold_date"] = time.Now()
		}
		if err := ps.propertyRepo.UpdateGuarded(ctx, tx, propertyID, expectedVersion, updates); err != nil {
			return err
		}

		fresh, err := ps.propertyRepo.GetByIDs(ctx, tx, []uuid.UUID{propertyID})
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

func (ps *propertyService) Delete(ctx context.Context, propertyID uuid.UUID) error {
	return ps.propertyRepo.Delete(ctx, nil, propertyID)
}
