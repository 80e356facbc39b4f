package roster

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"brokerdesk/internal/domain/client"
	"brokerdesk/internal/domain/relation"
)

// Service runs the broker's client roster flows: resolve the identity, reuse
// or create the profile, then record the relation.
type Service struct {
	courtiers CourtierReader
	resolver  IdentityResolver
	clients   ClientRecords
	relations Relations
	tx        Transactor
	log       *zap.Logger
}

// NewService wires the flows. A nil tx runs multi-write flows on clients and
// relations directly, without a shared transaction.
func NewService(courtiers CourtierReader, resolver IdentityResolver, clients ClientRecords, relations Relations, tx Transactor, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if tx == nil {
		tx = direct{clients: clients, relations: relations}
	}
	return &Service{
		courtiers: courtiers,
		resolver:  resolver,
		clients:   clients,
		relations: relations,
		tx:        tx,
		log:       log,
	}
}

// AddClient attaches a client to the broker's roster. An existing account
// holder or broker-managed profile with the same email is reused; otherwise
// a broker-managed profile is created. Every call counts as an engagement.
func (s *Service) AddClient(ctx context.Context, brokerID string, in AddClientInput) (*AddClientResult, error) {
	broker, err := s.courtiers.Get(ctx, brokerID)
	if err != nil {
		return nil, err
	}
	if !client.ValidEmail(in.Email) {
		return nil, client.ErrInvalidEmail
	}

	res, err := s.resolver.Resolve(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, client.ErrLookupFailed) || !in.ConfirmNew {
			return nil, err
		}
		s.log.Warn("client lookup failed, creating as new on broker confirmation",
			zap.String("broker_id", brokerID), zap.Error(err))
		res = client.Resolution{}
	}

	var (
		profile *client.Profile
		outcome Outcome
	)
	switch {
	case !res.Found:
		profile, err = s.clients.Create(ctx, brokerID, client.CreateInput{
			Email:      in.Email,
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			Phone:      in.Phone,
			Address:    in.Address,
			City:       in.City,
			PostalCode: in.PostalCode,
		})
		if err != nil {
			return nil, err
		}
		outcome = OutcomeCreated
	case res.Kind == client.KindAccountHolder:
		profile, outcome = res.Profile, OutcomeAttachedAccount
	case res.Kind == client.KindBrokerManaged:
		profile, outcome = res.Profile, OutcomeAttachedExisting
	default:
		return nil, client.ErrUnknownKind
	}

	rel, err := s.relations.Upsert(ctx, upsertFor(broker.ID, broker.FullName(), profile, in.Notes, time.Time{}))
	if err != nil {
		return nil, err
	}

	s.log.Info("client added to roster",
		zap.String("broker_id", broker.ID),
		zap.String("client_id", profile.ID),
		zap.String("outcome", string(outcome)))
	return &AddClientResult{Client: profile, Relation: rel, Outcome: outcome}, nil
}

// GetClient returns a client the broker has a relation with.
func (s *Service) GetClient(ctx context.Context, brokerID, clientID string) (*ClientView, error) {
	rel, err := s.relations.FindByPair(ctx, brokerID, clientID)
	if err != nil {
		return nil, err
	}
	profile, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &ClientView{Client: profile, Relation: rel}, nil
}

// EditClient edits a client from the broker's roster. Account holders own
// their profile, so the broker can only change the notes kept on the
// relation.
func (s *Service) EditClient(ctx context.Context, brokerID, clientID string, in client.UpdateInput) (*ClientView, error) {
	rel, err := s.relations.FindByPair(ctx, brokerID, clientID)
	if err != nil {
		return nil, err
	}
	profile, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	snapshot := relation.SnapshotInput{}
	if in.Notes != nil {
		snapshot.Notes = *in.Notes
	}

	switch profile.Kind {
	case client.KindAccountHolder:
		if in.TouchesIdentity() {
			return nil, client.ErrAccountHolderReadOnly
		}
	case client.KindBrokerManaged:
		fields := in
		fields.Notes = nil
		if fields.TouchesIdentity() {
			profile, err = s.clients.Update(ctx, clientID, fields)
			if err != nil {
				return nil, err
			}
		}
		snapshot.ClientName = profile.FullName()
		snapshot.Email = profile.Email
		snapshot.Phone = profile.Phone
		snapshot.Address = formatAddress(profile)
	default:
		return nil, client.ErrUnknownKind
	}

	rel, err = s.relations.UpdateSnapshot(ctx, rel.ID, snapshot)
	if err != nil {
		return nil, err
	}
	return &ClientView{Client: profile, Relation: rel}, nil
}

// RecordEngagement counts one engagement (such as a confirmed appointment)
// of the broker with an existing client. The relation and profile counters
// move together or not at all.
func (s *Service) RecordEngagement(ctx context.Context, brokerID, clientID string, at time.Time) (*relation.Relation, error) {
	broker, err := s.courtiers.Get(ctx, brokerID)
	if err != nil {
		return nil, err
	}
	profile, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	var rel *relation.Relation
	err = s.tx.InTx(ctx, func(clients ClientRecords, relations Relations) error {
		var err error
		rel, err = relations.Upsert(ctx, upsertFor(broker.ID, broker.FullName(), profile, "", at))
		if err != nil {
			return err
		}
		return clients.IncrementAppointments(ctx, profile.ID)
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

// upsertFor builds the relation snapshot from the stored profile.
func upsertFor(brokerID, brokerName string, p *client.Profile, notes string, at time.Time) relation.UpsertInput {
	return relation.UpsertInput{
		BrokerID:     brokerID,
		ClientID:     p.ID,
		ClientName:   p.FullName(),
		BrokerName:   brokerName,
		EngagementAt: at,
		Email:        p.Email,
		Phone:        p.Phone,
		Address:      formatAddress(p),
		Notes:        notes,
	}
}

// formatAddress renders "street, postal code city".
func formatAddress(p *client.Profile) string {
	locality := strings.TrimSpace(p.PostalCode + " " + p.City)
	switch {
	case p.Address == "":
		return locality
	case locality == "":
		return p.Address
	}
	return p.Address + ", " + locality
}
