package relation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Relation links one broker to one client. The unique index on
// (broker_id, client_id) allows at most one row per pair.
type Relation struct {
	ID       string `json:"id" gorm:"type:varchar(36);primaryKey"`
	BrokerID string `json:"broker_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_relation_broker_client,priority:1;index:idx_relation_broker_listing,priority:1"`
	ClientID string `json:"client_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_relation_broker_client,priority:2"`
	Status   Status `json:"status" gorm:"type:varchar(16);not null;default:active;index:idx_relation_broker_listing,priority:2"`

	AppointmentCount    int       `json:"appointment_count" gorm:"not null;default:0"`
	StartDate           time.Time `json:"start_date" gorm:"not null"`
	LastAppointmentDate time.Time `json:"last_appointment_date" gorm:"not null"`
	NextAppointmentDate time.Time `json:"next_appointment_date" gorm:"not null"`

	// Snapshot of the client as this broker sees it.
	ClientName string  `json:"client_name" gorm:"type:varchar(200);not null"`
	BrokerName string  `json:"broker_name" gorm:"type:varchar(200)"`
	Email      *string `json:"email,omitempty" gorm:"type:varchar(255)"`
	Phone      *string `json:"phone,omitempty" gorm:"type:varchar(32)"`
	Address    *string `json:"address,omitempty" gorm:"type:varchar(255)"`
	Notes      *string `json:"notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index:idx_relation_broker_listing,priority:3"`
}

func (Relation) TableName() string { return "broker_client_relations" }

func (r *Relation) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Relation) IsActive() bool { return r.Status == StatusActive }
