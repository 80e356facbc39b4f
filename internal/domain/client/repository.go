package client

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"brokerdesk/internal/pkg/apperr"
)

// Repository handles persistence for client profiles.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx runs fn against a repository bound to a single transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Create(ctx context.Context, p *Profile) error {
	p.Email = NormalizeEmail(p.Email)
	return apperr.Store(r.db.WithContext(ctx).Create(p).Error)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return found(&p, err)
}

func (r *Repository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	return found(&p, err)
}

// FindByEmail returns the most recently updated profile of the given kind
// with this email. Email comparison is case-insensitive. Account holders
// whose email is not verified never match.
func (r *Repository) FindByEmail(ctx context.Context, kind Kind, email string) (*Profile, error) {
	var p Profile
	q := r.db.WithContext(ctx).Where("kind = ? AND email = ?", kind, NormalizeEmail(email))
	if kind == KindAccountHolder {
		q = q.Where("email_verified = ?", true)
	}
	err := q.Order("updated_at DESC, id DESC").First(&p).Error
	return found(&p, err)
}

// Update applies a partial update and returns the stored row.
func (r *Repository) Update(ctx context.Context, id string, updates map[string]interface{}) (*Profile, error) {
	if email, ok := updates["email"].(string); ok {
		updates["email"] = NormalizeEmail(email)
	}
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&Profile{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			if apperr.IsUniqueViolation(result.Error) {
				return nil, ErrEmailTaken
			}
			return nil, apperr.Store(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrClientNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// IncrementAppointments bumps the profile-wide engagement counter.
func (r *Repository) IncrementAppointments(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&Profile{}).
		Where("id = ?", id).
		UpdateColumn("appointment_count", gorm.Expr("appointment_count + ?", 1))
	if result.Error != nil {
		return apperr.Store(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}

func found(p *Profile, err error) (*Profile, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, apperr.Store(err)
	}
	return p, nil
}
