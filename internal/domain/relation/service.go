package relation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Options tunes a Service. Zero values fall back to the package defaults.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	// Now is the clock used for timestamps and defaulted engagement dates.
	Now func() time.Time
}

// Service manages the lifecycle of broker-client relations.
type Service struct {
	repo        *Repository
	log         *zap.Logger
	now         func() time.Time
	defaultSize int
	maxSize     int
}

func NewService(repo *Repository, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		repo:        repo,
		log:         log,
		now:         opts.Now,
		defaultSize: opts.DefaultPageSize,
		maxSize:     opts.MaxPageSize,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.maxSize <= 0 {
		s.maxSize = MaxPageSize
	}
	if s.defaultSize <= 0 || s.defaultSize > s.maxSize {
		s.defaultSize = min(DefaultPageSize, s.maxSize)
	}
	return s
}

// Upsert records an engagement. The first engagement of a pair creates the
// relation with a counter of 1. Later ones increment the counter, move the
// appointment dates, reactivate an inactive relation and refresh the
// snapshot. The returned relation reflects the stored state.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (*Relation, error) {
	in.BrokerID = strings.TrimSpace(in.BrokerID)
	in.ClientID = strings.TrimSpace(in.ClientID)
	in.ClientName = strings.TrimSpace(in.ClientName)
	switch {
	case in.BrokerID == "":
		return nil, ErrMissingBroker
	case in.ClientID == "":
		return nil, ErrMissingClient
	case in.ClientName == "":
		return nil, ErrMissingName
	}
	if in.EngagementAt.IsZero() {
		in.EngagementAt = s.now()
	}
	in.EngagementAt = in.EngagementAt.UTC()

	var out *Relation
	err := s.repo.WithTx(ctx, func(tx *Repository) error {
		existing, err := tx.FindByPairForUpdate(ctx, in.BrokerID, in.ClientID)
		switch {
		case errors.Is(err, ErrRelationNotFound):
			rel := s.newRelation(in)
			err = tx.CreateInSavepoint(ctx, rel)
			if !errors.Is(err, ErrPairTaken) {
				out = rel
				return err
			}
			// Another writer inserted the pair between our read and insert.
			// Its row is committed, so this engagement updates it.
			s.log.Info("relation insert lost race, updating existing row",
				zap.String("broker_id", in.BrokerID),
				zap.String("client_id", in.ClientID))
			if existing, err = tx.FindByPairForUpdate(ctx, in.BrokerID, in.ClientID); err != nil {
				return err
			}
		case err != nil:
			return err
		}

		out, err = tx.Update(ctx, existing.ID, s.engagementUpdates(in))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) newRelation(in UpsertInput) *Relation {
	now := s.now().UTC()
	return &Relation{
		BrokerID:            in.BrokerID,
		ClientID:            in.ClientID,
		Status:              StatusActive,
		AppointmentCount:    1,
		StartDate:           in.EngagementAt,
		LastAppointmentDate: in.EngagementAt,
		NextAppointmentDate: in.EngagementAt,
		ClientName:          in.ClientName,
		BrokerName:          strings.TrimSpace(in.BrokerName),
		Email:               optional(in.Email),
		Phone:               optional(in.Phone),
		Address:             optional(in.Address),
		Notes:               optional(in.Notes),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func (s *Service) engagementUpdates(in UpsertInput) map[string]interface{} {
	updates := map[string]interface{}{
		"appointment_count":     gorm.Expr("appointment_count + ?", 1),
		"last_appointment_date": in.EngagementAt,
		"next_appointment_date": in.EngagementAt,
		"status":                string(StatusActive),
		"client_name":           in.ClientName,
		"updated_at":            s.now().UTC(),
	}
	snapshotUpdates(updates, SnapshotInput{
		BrokerName: in.BrokerName,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		Notes:      in.Notes,
	})
	return updates
}

// ListByBroker pages through a broker's active relations, most recently
// updated first. pageCursor is the NextCursor of the previous page, or empty
// for the first page.
func (s *Service) ListByBroker(ctx context.Context, brokerID string, pageSize int, pageCursor string) (*Page, error) {
	if strings.TrimSpace(brokerID) == "" {
		return nil, ErrMissingBroker
	}
	if pageSize <= 0 {
		pageSize = s.defaultSize
	}
	if pageSize > s.maxSize {
		pageSize = s.maxSize
	}

	var after *cursor
	if pageCursor != "" {
		c, err := decodeCursor(pageCursor, brokerID)
		if err != nil {
			return nil, err
		}
		after = c
	}

	rels, err := s.repo.ListActive(ctx, brokerID, after, pageSize+1)
	if err != nil {
		return nil, err
	}

	page := &Page{Relations: rels}
	if len(rels) > pageSize {
		page.Relations = rels[:pageSize]
		last := page.Relations[pageSize-1]
		page.NextCursor = encodeCursor(cursor{BrokerID: brokerID, UpdatedAt: last.UpdatedAt, ID: last.ID})
	}
	if page.Relations == nil {
		page.Relations = []Relation{}
	}
	return page, nil
}

// Deactivate marks a relation inactive. The row and its history are kept and
// the next engagement reactivates it.
func (s *Service) Deactivate(ctx context.Context, relationID string) (*Relation, error) {
	return s.repo.Update(ctx, relationID, map[string]interface{}{
		"status":     string(StatusInactive),
		"updated_at": s.now().UTC(),
	})
}

func (s *Service) Get(ctx context.Context, relationID string) (*Relation, error) {
	return s.repo.GetByID(ctx, relationID)
}

// GetOwned returns the relation only when it belongs to brokerID. A relation
// of another broker is reported as not found.
func (s *Service) GetOwned(ctx context.Context, brokerID, relationID string) (*Relation, error) {
	rel, err := s.repo.GetByID(ctx, relationID)
	if err != nil {
		return nil, err
	}
	if rel.BrokerID != brokerID {
		return nil, ErrRelationNotFound
	}
	return rel, nil
}

func (s *Service) FindByPair(ctx context.Context, brokerID, clientID string) (*Relation, error) {
	return s.repo.FindByPair(ctx, brokerID, clientID)
}

// UpdateSnapshot refreshes the contact copy without counting an engagement.
func (s *Service) UpdateSnapshot(ctx context.Context, relationID string, in SnapshotInput) (*Relation, error) {
	updates := map[string]interface{}{"updated_at": s.now().UTC()}
	if name := strings.TrimSpace(in.ClientName); name != "" {
		updates["client_name"] = name
	}
	snapshotUpdates(updates, in)
	return s.repo.Update(ctx, relationID, updates)
}

// snapshotUpdates adds every non-empty optional snapshot field.
func snapshotUpdates(updates map[string]interface{}, in SnapshotInput) {
	set := func(column, value string) {
		if v := strings.TrimSpace(value); v != "" {
			updates[column] = v
		}
	}
	set("broker_name", in.BrokerName)
	set("email", in.Email)
	set("phone", in.Phone)
	set("address", in.Address)
	set("notes", in.Notes)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
