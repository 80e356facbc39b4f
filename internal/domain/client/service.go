package client

import (
	"context"
	"errors"
	"strings"
)

// Service manages client profile records.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new broker-managed profile. It does not check for an
// existing profile with the same email; callers resolve first.
func (s *Service) Create(ctx context.Context, brokerID string, in CreateInput) (*Profile, error) {
	p := &Profile{
		Kind:       KindBrokerManaged,
		Email:      NormalizeEmail(in.Email),
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Phone:      strings.TrimSpace(in.Phone),
		Address:    strings.TrimSpace(in.Address),
		City:       strings.TrimSpace(in.City),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Notes:      strings.TrimSpace(in.Notes),
		CreatedBy:  &brokerID,
	}
	if err := checkIdentity(p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update overwrites the given fields of a broker-managed profile. Any broker
// may do so; concurrent edits are last-writer-wins.
func (s *Service) Update(ctx context.Context, clientID string, in UpdateInput) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	switch p.Kind {
	case KindBrokerManaged:
	case KindAccountHolder:
		return nil, ErrAccountHolderReadOnly
	default:
		return nil, ErrUnknownKind
	}

	updates, err := updateMap(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, clientID, updates)
}

func (s *Service) GetByID(ctx context.Context, clientID string) (*Profile, error) {
	return s.repo.GetByID(ctx, clientID)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// IncrementAppointments bumps the profile-wide engagement counter.
func (s *Service) IncrementAppointments(ctx context.Context, clientID string) error {
	return s.repo.IncrementAppointments(ctx, clientID)
}

// RegisterAccount creates or claims the caller's account-holder profile.
//
// verifiedEmail is the address the auth provider vouched for. Only when it
// matches the registered email is a broker-managed profile with that email
// converted in place, so the relations brokers already hold keep pointing at
// the same client id. The broker's notes are not handed over. An unverified
// registration gets its own profile that lookups do not match.
func (s *Service) RegisterAccount(ctx context.Context, userID, verifiedEmail string, in RegisterInput) (*Profile, error) {
	email := NormalizeEmail(in.Email)
	fields := &Profile{
		Email:      email,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Phone:      strings.TrimSpace(in.Phone),
		Address:    strings.TrimSpace(in.Address),
		City:       strings.TrimSpace(in.City),
		PostalCode: strings.TrimSpace(in.PostalCode),
	}
	if err := checkIdentity(fields); err != nil {
		return nil, err
	}
	verified := emailMatches(verifiedEmail, email)

	var out *Profile
	err := s.repo.WithTx(ctx, func(tx *Repository) error {
		holder, err := tx.FindByEmail(ctx, KindAccountHolder, email)
		switch {
		case err == nil && (holder.UserID == nil || *holder.UserID != userID):
			return ErrEmailTaken
		case err != nil && !errors.Is(err, ErrClientNotFound):
			return err
		}

		updates := map[string]interface{}{
			"email":          fields.Email,
			"first_name":     fields.FirstName,
			"last_name":      fields.LastName,
			"phone":          fields.Phone,
			"address":        fields.Address,
			"city":           fields.City,
			"postal_code":    fields.PostalCode,
			"email_verified": verified,
		}

		mine, err := tx.GetByUserID(ctx, userID)
		if err == nil {
			out, err = tx.Update(ctx, mine.ID, updates)
			return err
		}
		if !errors.Is(err, ErrClientNotFound) {
			return err
		}

		if verified {
			managed, err := tx.FindByEmail(ctx, KindBrokerManaged, email)
			if err == nil {
				updates["kind"] = string(KindAccountHolder)
				updates["user_id"] = userID
				updates["notes"] = ""
				out, err = tx.Update(ctx, managed.ID, updates)
				return err
			}
			if !errors.Is(err, ErrClientNotFound) {
				return err
			}
		}

		fields.Kind = KindAccountHolder
		fields.UserID = &userID
		fields.EmailVerified = verified
		if err := tx.Create(ctx, fields); err != nil {
			return err
		}
		out = fields
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSelf lets an account holder edit their own profile. A new email
// stays verified only if the auth provider vouched for it.
func (s *Service) UpdateSelf(ctx context.Context, userID, verifiedEmail string, in UpdateInput) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	updates, err := updateMap(in)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && NormalizeEmail(*in.Email) != p.Email {
		verified := emailMatches(verifiedEmail, *in.Email)
		updates["email_verified"] = verified
		if verified {
			other, err := s.repo.FindByEmail(ctx, KindAccountHolder, *in.Email)
			if err == nil && other.ID != p.ID {
				return nil, ErrEmailTaken
			}
			if err != nil && !errors.Is(err, ErrClientNotFound) {
				return nil, err
			}
		}
	}
	return s.repo.Update(ctx, p.ID, updates)
}

func emailMatches(verifiedEmail, email string) bool {
	v := NormalizeEmail(verifiedEmail)
	return v != "" && v == NormalizeEmail(email)
}

func checkIdentity(p *Profile) error {
	if p.FirstName == "" || p.LastName == "" {
		return ErrMissingName
	}
	if !ValidEmail(p.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func updateMap(in UpdateInput) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if !ValidEmail(email) {
			return nil, ErrInvalidEmail
		}
		updates["email"] = email
	}
	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if name == "" {
			return nil, ErrMissingName
		}
		updates["first_name"] = name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		if name == "" {
			return nil, ErrMissingName
		}
		updates["last_name"] = name
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		updates["address"] = strings.TrimSpace(*in.Address)
	}
	if in.City != nil {
		updates["city"] = strings.TrimSpace(*in.City)
	}
	if in.PostalCode != nil {
		updates["postal_code"] = strings.TrimSpace(*in.PostalCode)
	}
	if in.Notes != nil {
		updates["notes"] = strings.TrimSpace(*in.Notes)
	}
	return updates, nil
}
