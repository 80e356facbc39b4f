package roster

import (
	"time"

	"brokerdesk/internal/domain/client"
	"brokerdesk/internal/domain/relation"
)

// Outcome tells how AddClient found the client.
type Outcome string

const (
	// OutcomeCreated means a new broker-managed profile was created.
	OutcomeCreated Outcome = "created"
	// OutcomeAttachedAccount means the email belongs to an account holder.
	OutcomeAttachedAccount Outcome = "attached_account"
	// OutcomeAttachedExisting means an existing broker-managed profile was reused.
	OutcomeAttachedExisting Outcome = "attached_existing"
)

// AddClientInput is the broker's add-client form.
type AddClientInput struct {
	Email      string `json:"email" validate:"required,max=255"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"omitempty,max=32"`
	Address    string `json:"address" validate:"omitempty,max=255"`
	City       string `json:"city" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=16"`
	Notes      string `json:"notes" validate:"omitempty,max=4000"`

	// ConfirmNew lets the flow go on when the identity lookup failed. The
	// client is then created as new.
	ConfirmNew bool `json:"confirm_new"`
}

type AddClientResult struct {
	Client   *client.Profile    `json:"client"`
	Relation *relation.Relation `json:"relation"`
	Outcome  Outcome            `json:"outcome"`
}

// ClientView is a client as seen by one broker.
type ClientView struct {
	Client   *client.Profile    `json:"client"`
	Relation *relation.Relation `json:"relation"`
}

type EngagementRequest struct {
	At time.Time `json:"at"`
}
