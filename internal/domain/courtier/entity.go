package courtier

import (
	"strings"
	"time"
)

// TypeCourtier is the only record type stored in the courtiers table.
const TypeCourtier = "courtier"

// Role is a courtier's position inside their cabinet.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleAssociate Role = "associate"
	RoleEmployee  Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleAssociate, RoleEmployee:
		return true
	}
	return false
}

// ParseRole normalises s into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Courtier is a broker's profile. ID is the subject issued by the
// authentication provider.
type Courtier struct {
	ID        string `json:"id" gorm:"type:varchar(64);primaryKey"`
	Type      string `json:"type" gorm:"type:varchar(16);not null;default:courtier;index"`
	Email     string `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName string `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName  string `json:"last_name" gorm:"type:varchar(100);not null"`
	Phone     string `json:"phone,omitempty" gorm:"type:varchar(32)"`

	CabinetID *string `json:"cabinet_id,omitempty" gorm:"type:varchar(36);index"`
	Role      *Role   `json:"role,omitempty" gorm:"type:varchar(16)"`

	Availability Availability `json:"availability" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Courtier) TableName() string { return "courtiers" }

// FullName returns "First Last", falling back to the email.
func (c *Courtier) FullName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Email
	}
	return name
}

// HasRole reports whether the courtier currently holds role.
func (c *Courtier) HasRole(role Role) bool {
	return c.Role != nil && *c.Role == role
}

// InCabinet reports whether the courtier is a member of cabinetID.
func (c *Courtier) InCabinet(cabinetID string) bool {
	return c.CabinetID != nil && *c.CabinetID == cabinetID
}

// HasCabinet reports whether the courtier belongs to any cabinet.
func (c *Courtier) HasCabinet() bool {
	return c.CabinetID != nil && *c.CabinetID != ""
}
