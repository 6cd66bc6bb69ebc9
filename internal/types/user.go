package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserRole is fixed at creation; role changes are an administrative
// operation handled outside the request path.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleAgent    UserRole = "agent"
	RoleInvestor UserRole = "investor"
)

var AllUserRoles = []UserRole{RoleAdmin, RoleAgent, RoleInvestor}

func ParseUserRole(s string) (UserRole, error) {
	for _, known := range AllUserRoles {
		if s == string(known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown user role %q", s)
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	FullName  string    `gorm:"not null;column:full_name" json:"full_name"`
	Role      UserRole  `gorm:"not null;default:agent;column:role" json:"role"`
	Phone     string    `gorm:"column:phone" json:"phone,omitempty"`
	IsActive  bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
