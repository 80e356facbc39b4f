package client

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind tells who owns a client profile.
type Kind string

const (
	// KindAccountHolder registered independently and owns their profile.
	KindAccountHolder Kind = "account_holder"
	// KindBrokerManaged was created by a broker and has no login.
	KindBrokerManaged Kind = "broker_managed"
)

func (k Kind) Valid() bool {
	switch k {
	case KindAccountHolder, KindBrokerManaged:
		return true
	}
	return false
}

// Profile is a person a broker works with.
type Profile struct {
	ID   string `json:"id" gorm:"type:varchar(36);primaryKey"`
	Kind Kind   `json:"kind" gorm:"type:varchar(20);not null;index:idx_clients_kind_email,priority:1"`

	Email      string `json:"email" gorm:"type:varchar(255);not null;index:idx_clients_kind_email,priority:2"`
	FirstName  string `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName   string `json:"last_name" gorm:"type:varchar(100);not null"`
	Phone      string `json:"phone,omitempty" gorm:"type:varchar(32)"`
	Address    string `json:"address,omitempty" gorm:"type:varchar(255)"`
	City       string `json:"city,omitempty" gorm:"type:varchar(100)"`
	PostalCode string `json:"postal_code,omitempty" gorm:"type:varchar(16)"`
	Notes      string `json:"notes,omitempty" gorm:"type:text"`

	// EmailVerified is set when the auth provider vouched for Email. Only
	// verified account holders are matched by email.
	EmailVerified bool `json:"email_verified" gorm:"not null;default:false"`

	// UserID is the auth subject, set for account holders only.
	UserID *string `json:"user_id,omitempty" gorm:"type:varchar(64);uniqueIndex"`
	// CreatedBy is the broker who created a broker-managed profile.
	CreatedBy *string `json:"created_by,omitempty" gorm:"type:varchar(64)"`

	AppointmentCount int `json:"appointment_count" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "clients" }

func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// FullName returns "First Last".
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *Profile) IsAccountHolder() bool {
	return p.Kind == KindAccountHolder
}

// NormalizeEmail is the comparison form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
