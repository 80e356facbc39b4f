package cabinet

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"brokerdesk/internal/domain/courtier"
)

// Service enforces cabinet membership rules. Every check reads the stored
// courtier rows, never the caller's token.
type Service struct {
	repo *Repository
	log  *zap.Logger
}

func NewService(repo *Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// Create founds a cabinet administered by the requester, who must hold the
// admin role and belong to no cabinet yet.
func (s *Service) Create(ctx context.Context, in CreateInput, requesterID string) (*Cabinet, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	var out *Cabinet
	err := s.repo.WithTx(ctx, func(tx *Repository) error {
		requester, err := tx.Courtiers().GetByIDForUpdate(ctx, requesterID)
		if err != nil {
			return err
		}
		if !requester.HasRole(courtier.RoleAdmin) {
			return ErrNotAuthorized
		}
		if requester.HasCabinet() {
			return ErrAlreadyInAnotherCabinet
		}

		cab := &Cabinet{
			Name:    name,
			Address: strings.TrimSpace(in.Address),
			Phone:   strings.TrimSpace(in.Phone),
			Email:   strings.ToLower(strings.TrimSpace(in.Email)),
			AdminID: requester.ID,
		}
		if err := tx.Create(ctx, cab); err != nil {
			return err
		}
		if _, err := tx.Courtiers().SetMembership(ctx, requester.ID, cab.ID, courtier.RoleAdmin); err != nil {
			return err
		}
		out = cab
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddMember puts a courtier in the cabinet with a non-admin role. Adding an
// existing member again changes their role.
func (s *Service) AddMember(ctx context.Context, cabinetID, courtierID string, role courtier.Role) (*courtier.Courtier, error) {
	if role == courtier.RoleAdmin {
		return nil, ErrAdminRoleViaTransfer
	}
	if !role.Valid() {
		return nil, courtier.ErrInvalidRole
	}

	var out *courtier.Courtier
	err := s.repo.WithTx(ctx, func(tx *Repository) error {
		cab, err := tx.GetForUpdate(ctx, cabinetID)
		if err != nil {
			return err
		}
		target, err := tx.Courtiers().GetByIDForUpdate(ctx, courtierID)
		if err != nil {
			return err
		}
		if target.HasCabinet() && !target.InCabinet(cab.ID) {
			return ErrAlreadyInAnotherCabinet
		}
		if cab.AdminID == target.ID {
			return ErrIsCabinetAdmin
		}

		out, err = tx.Courtiers().SetMembership(ctx, target.ID, cab.ID, role)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveMember detaches a courtier from whatever cabinet it belongs to. The
// admin cannot be removed. A courtier without a cabinet is returned as is.
func (s *Service) RemoveMember(ctx context.Context, courtierID string) (*courtier.Courtier, error) {
	var out *courtier.Courtier
	err := s.repo.WithTx(ctx, func(tx *Repository) error {
		target, err := tx.Courtiers().GetByIDForUpdate(ctx, courtierID)
		if err != nil {
			return err
		}
		if !target.HasCabinet() {
			out = target
			return nil
		}

		cab, err := tx.GetForUpdate(ctx, *target.CabinetID)
		switch {
		case err == nil && cab.AdminID == target.ID:
			return ErrIsCabinetAdmin
		case err != nil && !errors.Is(err, ErrCabinetNotFound):
			return err
		}

		out, err = tx.Courtiers().ClearMembership(ctx, target.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TransferAdmin hands the cabinet to another member. The previous admin
// stays in the cabinet as a manager.
func (s *Service) TransferAdmin(ctx context.Context, cabinetID, newAdminID string) (*Cabinet, error) {
	var out *Cabinet
	err := s.repo.WithTx(ctx, func(tx *Repository) error {
		cab, err := tx.GetForUpdate(ctx, cabinetID)
		if err != nil {
			return err
		}
		next, err := tx.Courtiers().GetByIDForUpdate(ctx, newAdminID)
		if err != nil {
			return err
		}
		if !next.InCabinet(cab.ID) {
			return ErrNotAMember
		}
		if cab.AdminID == next.ID {
			out = cab
			return nil
		}

		prev, err := tx.Courtiers().GetByIDForUpdate(ctx, cab.AdminID)
		switch {
		case err == nil && prev.InCabinet(cab.ID):
			if _, err := tx.Courtiers().SetMembership(ctx, prev.ID, cab.ID, courtier.RoleManager); err != nil {
				return err
			}
		case err != nil && !errors.Is(err, courtier.ErrCourtierNotFound):
			return err
		}

		if _, err := tx.Courtiers().SetMembership(ctx, next.ID, cab.ID, courtier.RoleAdmin); err != nil {
			return err
		}
		out, err = tx.Update(ctx, cab.ID, map[string]interface{}{"admin_id": next.ID})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete detaches every member and removes the cabinet in one transaction.
func (s *Service) Delete(ctx context.Context, cabinetID string) error {
	var detached int64
	err := s.repo.WithTx(ctx, func(tx *Repository) error {
		if _, err := tx.GetForUpdate(ctx, cabinetID); err != nil {
			return err
		}
		n, err := tx.Courtiers().ClearCabinet(ctx, cabinetID)
		if err != nil {
			return err
		}
		detached = n
		return tx.Delete(ctx, cabinetID)
	})
	if err != nil {
		return err
	}

	s.log.Info("cabinet deleted",
		zap.String("cabinet_id", cabinetID),
		zap.Int64("members_detached", detached))
	return nil
}

// RepairMemberships detaches courtiers left pointing at a deleted cabinet.
func (s *Service) RepairMemberships(ctx context.Context) (int64, error) {
	n, err := s.repo.DetachOrphans(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Warn("detached courtiers from missing cabinets", zap.Int64("count", n))
	}
	return n, nil
}

// FindByEmail resolves an invitee among courtiers.
func (s *Service) FindByEmail(ctx context.Context, email string) (*courtier.Courtier, error) {
	return s.repo.Courtiers().GetByEmail(ctx, email)
}

func (s *Service) Get(ctx context.Context, cabinetID string) (*Cabinet, error) {
	return s.repo.GetByID(ctx, cabinetID)
}

func (s *Service) ListMembers(ctx context.Context, cabinetID string) ([]courtier.Courtier, error) {
	return s.repo.Courtiers().ListByCabinet(ctx, cabinetID)
}

// GetForMember returns the cabinet and its roster to one of its members.
func (s *Service) GetForMember(ctx context.Context, cabinetID, courtierID string) (*WithMembers, error) {
	if _, err := s.requireMember(ctx, cabinetID, courtierID, ErrNotCabinetMember); err != nil {
		return nil, err
	}
	cab, err := s.repo.GetByID(ctx, cabinetID)
	if err != nil {
		return nil, err
	}
	members, err := s.ListMembers(ctx, cabinetID)
	if err != nil {
		return nil, err
	}
	return &WithMembers{Cabinet: *cab, Members: members}, nil
}

// RequireMember fails with ErrNotAMember unless the courtier belongs to the
// cabinet.
func (s *Service) RequireMember(ctx context.Context, cabinetID, courtierID string) (*courtier.Courtier, error) {
	return s.requireMember(ctx, cabinetID, courtierID, ErrNotAMember)
}

func (s *Service) requireMember(ctx context.Context, cabinetID, courtierID string, notMember error) (*courtier.Courtier, error) {
	c, err := s.repo.Courtiers().GetByID(ctx, courtierID)
	if err != nil {
		return nil, err
	}
	if !c.InCabinet(cabinetID) {
		return nil, notMember
	}
	return c, nil
}

// RequireAdmin fails with ErrNotAuthorized unless courtierID is the stored
// admin of the cabinet.
func (s *Service) RequireAdmin(ctx context.Context, cabinetID, courtierID string) error {
	cab, err := s.repo.GetByID(ctx, cabinetID)
	if err != nil {
		return err
	}
	if cab.AdminID != courtierID {
		return ErrNotAuthorized
	}
	return nil
}

func (s *Service) Update(ctx context.Context, cabinetID string, in UpdateInput) (*Cabinet, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrMissingName
		}
		updates["name"] = name
	}
	if in.Address != nil {
		updates["address"] = strings.TrimSpace(*in.Address)
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	return s.repo.Update(ctx, cabinetID, updates)
}
