package cabinet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"brokerdesk/internal/domain/courtier"
)

// Cabinet is a brokerage firm. Exactly one member is its admin.
type Cabinet struct {
	ID      string `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name    string `json:"name" gorm:"type:varchar(200);not null"`
	Address string `json:"address,omitempty" gorm:"type:varchar(255)"`
	Phone   string `json:"phone,omitempty" gorm:"type:varchar(32)"`
	Email   string `json:"email,omitempty" gorm:"type:varchar(255)"`
	AdminID string `json:"admin_id" gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Cabinet) TableName() string { return "cabinets" }

func (c *Cabinet) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// WithMembers is the read model returned to members.
type WithMembers struct {
	Cabinet
	Members []courtier.Courtier `json:"members"`
}
