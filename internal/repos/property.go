package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
	"github.com/dealflowhq/dealflow-backend/internal/logger"
	"github.com/dealflowhq/dealflow-backend/internal/types"
)

// PropertyFilter narrows List the way the API exposes property search.
type PropertyFilter struct {
	Search  string
	Status  *lifecycle.PropertyStatus
	City    string
	State   string
	OwnerID *uuid.UUID
	Offset  int
	Limit   int
}

type PropertyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, properties []*types.Property) ([]*types.Property, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, propertyIDs []uuid.UUID) ([]*types.Property, error)
	List(ctx context.Context, tx *gorm.DB, filter PropertyFilter) ([]*types.Property, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Property, error)
	// UpdateGuarded applies updates only when the stored version still
	// matches expectedVersion, bumping the version on success. A stale
	// read surfaces as ConcurrentModificationError.
	UpdateGuarded(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, expectedVersion int, updates map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) error
}

type propertyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPropertyRepo(db *gorm.DB, baseLog *logger.Logger) PropertyRepo {
	return &propertyRepo{db: db, log: baseLog.With("repo", "PropertyRepo")}
}

func (pr *propertyRepo) Create(ctx context.Context, tx *gorm.DB, properties []*types.Property) ([]*types.Property, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(properties) == 0 {
		return []*types.Property{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (pr *propertyRepo) GetByIDs(ctx context.Context, tx *gorm.DB, propertyIDs []uuid.UUID) ([]*types.Property, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Property
	if len(propertyIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", propertyIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *propertyRepo) List(ctx context.Context, tx *gorm.DB, filter PropertyFilter) ([]*types.Property, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Property{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("address LIKE ? OR city LIKE ? OR state LIKE ?", like, like, like)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	var results []*types.Property
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *propertyRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Property, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Property
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *propertyRepo) UpdateGuarded(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, expectedVersion int, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	// Copy before injecting the version bump so the caller's map stays clean.
	set := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		set[k] = v
	}
	set["version"] = gorm.Expr("version + 1")
	res := transaction.WithContext(ctx).
		Model(&types.Property{}).
		Where("id = ? AND version = ?", propertyID, expectedVersion).
		Updates(set)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ConcurrentModificationError{Entity: "property", ID: propertyID, ExpectedVersion: expectedVersion}
	}
	return nil
}

func (pr *propertyRepo) Delete(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", propertyID).
		Delete(&types.Property{}).Error
}
