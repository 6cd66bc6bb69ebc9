package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
)

type Deal struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Property and lead references are set at creation and never change.
	PropertyID uuid.UUID `gorm:"type:uuid;index;not null;column:property_id" json:"property_id"`
	Property   *Property `gorm:"foreignKey:PropertyID;references:ID" json:"property,omitempty"`
	LeadID     uuid.UUID `gorm:"type:uuid;index;not null;column:lead_id" json:"lead_id"`
	Lead       *Lead     `gorm:"foreignKey:LeadID;references:ID" json:"lead,omitempty"`
	AgentID    uuid.UUID `gorm:"type:uuid;index;not null;column:agent_id" json:"agent_id"`
	Agent      *User     `gorm:"foreignKey:AgentID;references:ID" json:"agent,omitempty"`

	Status      lifecycle.DealStatus `gorm:"not null;default:pending;index;column:status" json:"status"`
	OfferPrice  decimal.Decimal      `gorm:"type:numeric;not null;column:offer_price" json:"offer_price"`
	ClosingDate *time.Time           `gorm:"index;column:closing_date" json:"closing_date,omitempty"`

	// Derived by the financial deriver from offer price plus the linked
	// property's ARV and purchase price. Never writable through the API;
	// nil when the inputs are incomplete.
	WholesaleFee *decimal.Decimal `gorm:"type:numeric;column:wholesale_fee" json:"wholesale_fee,omitempty"`
	NetProfit    *decimal.Decimal `gorm:"type:numeric;column:net_profit" json:"net_profit,omitempty"`

	Notes string `gorm:"type:text;column:notes" json:"notes,omitempty"`

	Version   int       `gorm:"not null;default:1;column:version" json:"version"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Deal) TableName() string {
	return "deal"
}
