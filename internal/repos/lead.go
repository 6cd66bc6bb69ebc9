package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
	"github.com/dealflowhq/dealflow-backend/internal/logger"
	"github.com/dealflowhq/dealflow-backend/internal/types"
)

type LeadFilter struct {
	Search       string
	Status       *lifecycle.LeadStatus
	AssignedToID *uuid.UUID
	Offset       int
	Limit        int
}

type LeadRepo interface {
	Create(ctx context.Context, tx *gorm.DB, leads []*types.Lead) ([]*types.Lead, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, leadIDs []uuid.UUID) ([]*types.Lead, error)
	List(ctx context.Context, tx *gorm.DB, filter LeadFilter) ([]*types.Lead, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Lead, error)
	UpdateGuarded(ctx context.Context, tx *gorm.DB, leadID uuid.UUID, expectedVersion int, updates map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, leadID uuid.UUID) error
}

type leadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLeadRepo(db *gorm.DB, baseLog *logger.Logger) LeadRepo {
	return &leadRepo{db: db, log: baseLog.With("repo", "LeadRepo")}
}

func (lr *leadRepo) Create(ctx context.Context, tx *gorm.DB, leads []*types.Lead) ([]*types.Lead, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if len(leads) == 0 {
		return []*types.Lead{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (lr *leadRepo) GetByIDs(ctx context.Context, tx *gorm.DB, leadIDs []uuid.UUID) ([]*types.Lead, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var results []*types.Lead
	if len(leadIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", leadIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (lr *leadRepo) List(ctx context.Context, tx *gorm.DB, filter LeadFilter) ([]*types.Lead, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Lead{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR address LIKE ? OR city LIKE ?",
			like, like, like, like, like,
		)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	var results []*types.Lead
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (lr *leadRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Lead, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var results []*types.Lead
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (lr *leadRepo) UpdateGuarded(ctx context.Context, tx *gorm.DB, leadID uuid.UUID, expectedVersion int, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	// Copy before injecting the version bump so the caller's map stays clean.
	set := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		set[k] = v
	}
	set["version"] = gorm.Expr("version + 1")
	res := transaction.WithContext(ctx).
		Model(&types.Lead{}).
		Where("id = ? AND version = ?", leadID, expectedVersion).
		Updates(set)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ConcurrentModificationError{Entity: "lead", ID: leadID, ExpectedVersion: expectedVersion}
	}
	return nil
}

func (lr *leadRepo) Delete(ctx context.Context, tx *gorm.DB, leadID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", leadID).
		Delete(&types.Lead{}).Error
}
