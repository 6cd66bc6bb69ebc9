package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
	"github.com/dealflowhq/dealflow-backend/internal/logger"
	"github.com/dealflowhq/dealflow-backend/internal/repos"
	"github.com/dealflowhq/dealflow-backend/internal/types"
	"github.com/dealflowhq/dealflow-backend/internal/utils"
)

// LeadUpdate carries the writable fields of a lead. Nil means unchanged.
// Status changes go through UpdateStatus so they always pass the
// transition validator.
type LeadUpdate struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Phone            *string
	Address          *string
	City             *string
	State            *string
	ZipCode          *string
	PropertyType     *string
	EstimatedValue   *decimal.Decimal
	ReasonForSelling *string
	Timeline         *string
	AssignedToID     *uuid.UUID
	NextFollowUp     *time.Time
	Notes            *string
}

type LeadService interface {
	Create(ctx context.Context, lead *types.Lead) (*types.Lead, error)
	Get(ctx context.Context, leadID uuid.UUID) (*types.Lead, error)
	List(ctx context.Context, filter repos.LeadFilter) ([]*types.Lead, error)
	Update(ctx context.Context, leadID uuid.UUID, expectedVersion int, in LeadUpdate) (*types.Lead, error)
	UpdateStatus(ctx context.Context, leadID uuid.UUID, requested string, expectedVersion int) (*types.Lead, error)
	Delete(ctx context.Context, leadID uuid.UUID) error
}

type leadService struct {
	db       *gorm.DB
	log      *logger.Logger
	leadRepo repos.LeadRepo
	userRepo repos.UserRepo
}

func NewLeadService(db *gorm.DB, log *logger.Logger, leadRepo repos.LeadRepo, userRepo repos.UserRepo) LeadService {
	return &leadService{
		db:       db,
		log:      log.With("service", "LeadService"),
		leadRepo: leadRepo,
		userRepo: userRepo,
	}
}

func (ls *leadService) Create(ctx context.Context, lead *types.Lead) (*types.Lead, error) {
	if lead.FirstName == "" || lead.LastName == "" {
		return nil, fmt.Errorf("a first and last name are required")
	}
	lead.Email = utils.NormalizeString(lead.Email)
	if lead.AssignedToID != nil {
		found, err := ls.userRepo.GetByIDs(ctx, nil, []uuid.UUID{*lead.AssignedToID})
		if err != nil {
			return nil, fmt.Errorf("error verifying assignee: %w", err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("assignee %s does not exist", *lead.AssignedToID)
		}
	}
	lead.ID = uuid.New()
	lead.Status = lifecycle.LeadNew
	lead.Version = 1
	created, err := ls.leadRepo.Create(ctx, nil, []*types.Lead{lead})
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}
	return created[0], nil
}

func (ls *leadService) Get(ctx context.Context, leadID uuid.UUID) (*types.Lead, error) {
	found, err := ls.leadRepo.GetByIDs(ctx, nil, []uuid.UUID{leadID})
	if err != nil {
		return nil, fmt.Errorf("error fetching lead: %w", err)
	}
	if len(found) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return found[0], nil
}

func (ls *leadService) List(ctx context.Context, filter repos.LeadFilter) ([]*types.Lead, error) {
	return ls.leadRepo.List(ctx, nil, filter)
}

func (ls *leadService) Update(ctx context.Context, leadID uuid.UUID, expectedVersion int, in LeadUpdate) (*types.Lead, error) {
	updates := map[string]any{}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.Email != nil {
		updates["email"] = utils.NormalizeString(*in.Email)
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.City != nil {
		updates["city"] = *in.City
	}
	if in.State != nil {
		updates["state"] = *in.State
	}
	if in.ZipCode != nil {
		updates["zip_code"] = *in.ZipCode
	}
	if in.PropertyType != nil {
		updates["property_type"] = *in.PropertyType
	}
	if in.EstimatedValue != nil {
		updates["estimated_value"] = *in.EstimatedValue
	}
	if in.ReasonForSelling != nil {
		updates["reason_for_selling"] = *in.ReasonForSelling
	}
	if in.Timeline != nil {
		updates["timeline"] = *in.Timeline
	}
	if in.AssignedToID != nil {
		found, err := ls.userRepo.GetByIDs(ctx, nil, []uuid.UUID{*in.AssignedToID})
		if err != nil {
			return nil, fmt.Errorf("error verifying assignee: %w", err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("assignee %s does not exist", *in.AssignedToID)
		}
		updates["assigned_to_id"] = *in.AssignedToID
	}
	if in.NextFollowUp != nil {
		updates["next_follow_up"] = *in.NextFollowUp
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if len(updates) == 0 {
		return ls.Get(ctx, leadID)
	}
	if err := ls.leadRepo.UpdateGuarded(ctx, nil, leadID, expectedVersion, updates); err != nil {
		return nil, err
	}
	return ls.Get(ctx, leadID)
}

func (ls *leadService) UpdateStatus(ctx context.Context, leadID uuid.UUID, requested string, expectedVersion int) (*types.Lead, error) {
	var result *types.Lead
	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := ls.leadRepo.GetByIDs(ctx, tx, []uuid.UUID{leadID})
		if err != nil {
			return fmt.Errorf("error fetching lead: %w", err)
		}
		if len(found) == 0 {
			return gorm.ErrRecordNotFound
		}
		lead := found[0]

		if err := lifecycle.Validate(lifecycle.EntityLead, string(lead.Status), requested); err != nil {
			return err
		}

		if err := ls.leadRepo.UpdateGuarded(ctx, tx, leadID, expectedVersion, map[string]any{"status": requested}); err != nil {
			return err
		}

		fresh, err := ls.leadRepo.GetByIDs(ctx, tx, []uuid.UUID{leadID})
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

func (ls *leadService) Delete(ctx context.Context, leadID uuid.UUID) error {
	return ls.leadRepo.Delete(ctx, nil, leadID)
}
