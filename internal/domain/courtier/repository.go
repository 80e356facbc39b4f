package courtier

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brokerdesk/internal/pkg/apperr"
)

// Repository handles persistence for courtier profiles.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NormalizeEmail is the comparison form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Repository) Create(ctx context.Context, c *Courtier) error {
	c.Email = NormalizeEmail(c.Email)
	if c.Type == "" {
		c.Type = TypeCourtier
	}
	err := r.db.WithContext(ctx).Create(c).Error
	if apperr.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	return apperr.Store(err)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Courtier, error) {
	var c Courtier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourtierNotFound
	}
	if err != nil {
		return nil, apperr.Store(err)
	}
	return &c, nil
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id string) (*Courtier, error) {
	var c Courtier
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourtierNotFound
	}
	if err != nil {
		return nil, apperr.Store(err)
	}
	return &c, nil
}

// GetByEmail only matches records of type courtier.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Courtier, error) {
	var c Courtier
	err := r.db.WithContext(ctx).
		Where("email = ? AND type = ?", NormalizeEmail(email), TypeCourtier).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourtierNotFound
	}
	if err != nil {
		return nil, apperr.Store(err)
	}
	return &c, nil
}

// ListByCabinet returns the members of a cabinet ordered by last name.
func (r *Repository) ListByCabinet(ctx context.Context, cabinetID string) ([]Courtier, error) {
	var members []Courtier
	err := r.db.WithContext(ctx).
		Where("cabinet_id = ?", cabinetID).
		Order("last_name ASC, first_name ASC, id ASC").
		Find(&members).Error
	return members, apperr.Store(err)
}

// Update applies a partial update and returns the stored row.
func (r *Repository) Update(ctx context.Context, id string, updates map[string]interface{}) (*Courtier, error) {
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&Courtier{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, apperr.Store(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrCourtierNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// UpdateAvailability stores a new schedule. The column is JSON serialised, so
// it goes through a struct update rather than a map.
func (r *Repository) UpdateAvailability(ctx context.Context, id string, a Availability) (*Courtier, error) {
	result := r.db.WithContext(ctx).
		Model(&Courtier{}).
		Where("id = ?", id).
		Select("availability", "updated_at").
		Updates(&Courtier{Availability: a, UpdatedAt: time.Now().UTC()})
	if result.Error != nil {
		return nil, apperr.Store(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrCourtierNotFound
	}
	return r.GetByID(ctx, id)
}

// SetMembership links a courtier to a cabinet with the given role.
func (r *Repository) SetMembership(ctx context.Context, id, cabinetID string, role Role) (*Courtier, error) {
	return r.Update(ctx, id, map[string]interface{}{
		"cabinet_id": cabinetID,
		"role":       string(role),
	})
}

// ClearMembership detaches a courtier from its cabinet and drops its role.
func (r *Repository) ClearMembership(ctx context.Context, id string) (*Courtier, error) {
	return r.Update(ctx, id, map[string]interface{}{
		"cabinet_id": nil,
		"role":       nil,
	})
}

// ClearCabinet detaches every member of a cabinet and returns how many rows
// changed.
func (r *Repository) ClearCabinet(ctx context.Context, cabinetID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Courtier{}).
		Where("cabinet_id = ?", cabinetID).
		Updates(map[string]interface{}{
			"cabinet_id": nil,
			"role":       nil,
		})
	return result.RowsAffected, apperr.Store(result.Error)
}
