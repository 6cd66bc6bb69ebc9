package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
)

type Property struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Address      string    `gorm:"index;not null;column:address" json:"address"`
	City         string    `gorm:"column:city" json:"city"`
	State        string    `gorm:"column:state" json:"state"`
	ZipCode      string    `gorm:"column:zip_code" json:"zip_code"`
	PropertyType string    `gorm:"column:property_type" json:"property_type"`
	SquareFeet   *float64  `gorm:"column:square_feet" json:"square_feet,omitempty"`
	Bedrooms     *int      `gorm:"column:bedrooms" json:"bedrooms,omitempty"`
	Bathrooms    *float64  `gorm:"column:bathrooms" json:"bathrooms,omitempty"`
	YearBuilt    *int      `gorm:"column:year_built" json:"year_built,omitempty"`

	// Financials feeding deal derivation. Nil means unknown, which is
	// not the same thing as zero.
	ARV           *decimal.Decimal `gorm:"type:numeric;column:arv" json:"arv,omitempty"`
	PurchasePrice *decimal.Decimal `gorm:"type:numeric;column:purchase_price" json:"purchase_price,omitempty"`
	RepairCost    *decimal.Decimal `gorm:"type:numeric;column:repair_cost" json:"repair_cost,omitempty"`
	HoldingCost   *decimal.Decimal `gorm:"type:numeric;column:holding_cost" json:"holding_cost,omitempty"`
	SellingPrice  *decimal.Decimal `gorm:"type:numeric;column:selling_price" json:"selling_price,omitempty"`

	Status   lifecycle.PropertyStatus `gorm:"not null;default:available;index;column:status" json:"status"`
	ListDate time.Time                `gorm:"column:list_date" json:"list_date"`
	SoldDate *time.Time               `gorm:"column:sold_date" json:"sold_date,omitempty"`

	OwnerID uuid.UUID `gorm:"type:uuid;index;not null;column:owner_id" json:"owner_id"`
	Owner   *User     `gorm:"foreignKey:OwnerID;references:ID" json:"owner,omitempty"`

	Description string `gorm:"type:text;column:description" json:"description,omitempty"`
	Notes       string `gorm:"type:text;column:notes" json:"notes,omitempty"`

	// Version guards status and financial writes against lost updates.
	Version   int       `gorm:"not null;default:1;column:version" json:"version"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Property) TableName() string {
	return "property"
}
