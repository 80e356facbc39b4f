package courtier

import (
	"context"
	"errors"
	"strings"
)

// Service handles courtier profile logic.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Register creates the caller's courtier profile. Calling it again for the
// same user returns the existing profile unchanged. Only "admin" (the
// capability to found a cabinet) or no role may be requested here.
func (s *Service) Register(ctx context.Context, userID string, in RegisterInput) (*Courtier, error) {
	existing, err := s.repo.GetByID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrCourtierNotFound) {
		return nil, err
	}

	c := &Courtier{
		ID:           userID,
		Type:         TypeCourtier,
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Availability: DefaultAvailability(),
	}

	if strings.TrimSpace(in.Role) != "" {
		role, ok := ParseRole(in.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		if role != RoleAdmin {
			return nil, ErrRoleNotSelfService
		}
		c.Role = &role
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Courtier, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByEmail resolves an invitee among courtier records.
func (s *Service) FindByEmail(ctx context.Context, email string) (*Courtier, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) ListByCabinet(ctx context.Context, cabinetID string) ([]Courtier, error) {
	return s.repo.ListByCabinet(ctx, cabinetID)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateInput) (*Courtier, error) {
	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	return s.repo.Update(ctx, id, updates)
}

// UpdateAvailability replaces the weekly schedule after validating it.
func (s *Service) UpdateAvailability(ctx context.Context, id string, a Availability) (*Courtier, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdateAvailability(ctx, id, a)
}
