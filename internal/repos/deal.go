package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
	"github.com/dealflowhq/dealflow-backend/internal/logger"
	"github.com/dealflowhq/dealflow-backend/internal/types"
)

type DealFilter struct {
	Status     *lifecycle.DealStatus
	AgentID    *uuid.UUID
	PropertyID *uuid.UUID
	LeadID     *uuid.UUID
	Offset     int
	Limit      int
}

type DealRepo interface {
	Create(ctx context.Context, tx *gorm.DB, deals []*types.Deal) ([]*types.Deal, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, dealIDs []uuid.UUID) ([]*types.Deal, error)
	List(ctx context.Context, tx *gorm.DB, filter DealFilter) ([]*types.Deal, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Deal, error)
	// ListByPropertyIDs feeds financial recomputation when a property's
	// ARV or purchase price changes.
	ListByPropertyIDs(ctx context.Context, tx *gorm.DB, propertyIDs []uuid.UUID) ([]*types.Deal, error)
	UpdateGuarded(ctx context.Context, tx *gorm.DB, dealID uuid.UUID, expectedVersion int, updates map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, dealID uuid.UUID) error
}

type dealRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDealRepo(db *gorm.DB, baseLog *logger.Logger) DealRepo {
	return &dealRepo{db: db, log: baseLog.With("repo", "DealRepo")}
}

func (dr *dealRepo) Create(ctx context.Context, tx *gorm.DB, deals []*types.Deal) ([]*types.Deal, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if len(deals) == 0 {
		return []*types.Deal{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

func (dr *dealRepo) GetByIDs(ctx context.Context, tx *gorm.DB, dealIDs []uuid.UUID) ([]*types.Deal, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var results []*types.Deal
	if len(dealIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", dealIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *dealRepo) List(ctx context.Context, tx *gorm.DB, filter DealFilter) ([]*types.Deal, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Deal{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AgentID != nil {
		query = query.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.LeadID != nil {
		query = query.Where("lead_id = ?", *filter.LeadID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	var results []*types.Deal
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *dealRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Deal, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var results []*types.Deal
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *dealRepo) ListByPropertyIDs(ctx context.Context, tx *gorm.DB, propertyIDs []uuid.UUID) ([]*types.Deal, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var results []*types.Deal
	if len(propertyIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("property_id IN ?", propertyIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *dealRepo) UpdateGuarded(ctx context.Context, tx *gorm.DB, dealID uuid.UUID, expectedVersion int, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	// Copy before injecting the version bump so the caller's map stays clean.
	set := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		set[k] = v
	}
	set["version"] = gorm.Expr("version + 1")
	res := transaction.WithContext(ctx).
		Model(&types.Deal{}).
		Where("id = ? AND version = ?", dealID, expectedVersion).
		Updates(set)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ConcurrentModificationError{Entity: "deal", ID: dealID, ExpectedVersion: expectedVersion}
	}
	return nil
}

func (dr *dealRepo) Delete(ctx context.Context, tx *gorm.DB, dealID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", dealID).
		Delete(&types.Deal{}).Error
}
