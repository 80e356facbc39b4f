package cabinet

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brokerdesk/internal/domain/courtier"
	"brokerdesk/internal/pkg/apperr"
)

// Repository handles persistence for cabinets. Membership lives on the
// courtier rows, reached through Courtiers so both share a transaction.
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

// Courtiers returns a courtier repository on the same connection or
// transaction.
func (r *Repository) Courtiers() *courtier.Repository {
	return courtier.NewRepository(r.db)
}

func (r *Repository) Create(ctx context.Context, c *Cabinet) error {
	return apperr.Store(r.db.WithContext(ctx).Create(c).Error)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Cabinet, error) {
	var c Cabinet
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return found(&c, err)
}

// GetForUpdate locks the cabinet row until the transaction ends.
func (r *Repository) GetForUpdate(ctx context.Context, id string) (*Cabinet, error) {
	var c Cabinet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&c).Error
	return found(&c, err)
}

func (r *Repository) Update(ctx context.Context, id string, updates map[string]interface{}) (*Cabinet, error) {
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&Cabinet{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, apperr.Store(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrCabinetNotFound
		}
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Cabinet{})
	if result.Error != nil {
		return apperr.Store(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCabinetNotFound
	}
	return nil
}

// DetachOrphans clears cabinet_id and role on courtiers whose cabinet no
// longer exists.
func (r *Repository) DetachOrphans(ctx context.Context) (int64, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&courtier.Courtier{}).
		Where("cabinet_id IS NOT NULL AND cabinet_id NOT IN (?)", db.Model(&Cabinet{}).Select("id")).
		Updates(map[string]interface{}{
			"cabinet_id": nil,
			"role":       nil,
		})
	return result.RowsAffected, apperr.Store(result.Error)
}

func found(c *Cabinet, err error) (*Cabinet, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCabinetNotFound
	}
	if err != nil {
		return nil, apperr.Store(err)
	}
	return c, nil
}
