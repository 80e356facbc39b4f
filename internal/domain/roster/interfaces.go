package roster

import (
	"context"

	"brokerdesk/internal/domain/client"
	"brokerdesk/internal/domain/courtier"
	"brokerdesk/internal/domain/relation"
)

// CourtierReader loads the acting broker.
type CourtierReader interface {
	Get(ctx context.Context, id string) (*courtier.Courtier, error)
}

// IdentityResolver maps an email to an existing client.
type IdentityResolver interface {
	Resolve(ctx context.Context, email string) (client.Resolution, error)
}

// ClientRecords reads and writes client profiles.
type ClientRecords interface {
	Create(ctx context.Context, brokerID string, in client.CreateInput) (*client.Profile, error)
	Update(ctx context.Context, clientID string, in client.UpdateInput) (*client.Profile, error)
	GetByID(ctx context.Context, clientID string) (*client.Profile, error)
	IncrementAppointments(ctx context.Context, clientID string) error
}

// Relations manages broker-client relations.
type Relations interface {
	Upsert(ctx context.Context, in relation.UpsertInput) (*relation.Relation, error)
	FindByPair(ctx context.Context, brokerID, clientID string) (*relation.Relation, error)
	UpdateSnapshot(ctx context.Context, relationID string, in relation.SnapshotInput) (*relation.Relation, error)
}

// Transactor runs fn with client records and relations that commit or roll
// back together.
type Transactor interface {
	InTx(ctx context.Context, fn func(clients ClientRecords, relations Relations) error) error
}
