package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
)

type Lead struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName  string    `gorm:"not null;column:last_name" json:"last_name"`
	Email     string    `gorm:"index;column:email" json:"email,omitempty"`
	Phone     string    `gorm:"column:phone" json:"phone,omitempty"`
	Address   string    `gorm:"column:address" json:"address,omitempty"`
	City      string    `gorm:"column:city" json:"city,omitempty"`
	State     string    `gorm:"column:state" json:"state,omitempty"`
	ZipCode   string    `gorm:"column:zip_code" json:"zip_code,omitempty"`

	PropertyType     string           `gorm:"column:property_type" json:"property_type,omitempty"`
	EstimatedValue   *decimal.Decimal `gorm:"type:numeric;column:estimated_value" json:"estimated_value,omitempty"`
	ReasonForSelling string           `gorm:"column:reason_for_selling" json:"reason_for_selling,omitempty"`
	Timeline         string           `gorm:"column:timeline" json:"timeline,omitempty"`

	Status       lifecycle.LeadStatus `gorm:"not null;default:new;index;column:status" json:"status"`
	AssignedToID *uuid.UUID           `gorm:"type:uuid;index;column:assigned_to_id" json:"assigned_to_id,omitempty"`
	AssignedTo   *User                `gorm:"foreignKey:AssignedToID;references:ID" json:"assigned_to,omitempty"`

	Notes        string     `gorm:"type:text;column:notes" json:"notes,omitempty"`
	NextFollowUp *time.Time `gorm:"column:next_follow_up" json:"next_follow_up,omitempty"`

	Version   int       `gorm:"not null;default:1;column:version" json:"version"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Lead) TableName() string {
	return "lead"
}
