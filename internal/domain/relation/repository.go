package relation

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brokerdesk/internal/pkg/apperr"
)

// Repository handles persistence for broker-client relations.
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

// Create inserts rel. A second row for the same pair fails with ErrPairTaken.
func (r *Repository) Create(ctx context.Context, rel *Relation) error {
	err := r.db.WithContext(ctx).Create(rel).Error
	if apperr.IsUniqueViolation(err) {
		return ErrPairTaken
	}
	return apperr.Store(err)
}

// CreateInSavepoint inserts rel inside a nested transaction. On a duplicate
// pair only the nested part rolls back, so an enclosing transaction can go on
// and read the winning row.
func (r *Repository) CreateInSavepoint(ctx context.Context, rel *Relation) error {
	return r.WithTx(ctx, func(sp *Repository) error {
		return sp.Create(ctx, rel)
	})
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Relation, error) {
	var rel Relation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rel).Error
	return found(&rel, err)
}

func (r *Repository) FindByPair(ctx context.Context, brokerID, clientID string) (*Relation, error) {
	var rel Relation
	err := r.db.WithContext(ctx).
		Where("broker_id = ? AND client_id = ?", brokerID, clientID).
		First(&rel).Error
	return found(&rel, err)
}

// FindByPairForUpdate locks the pair's row until the transaction ends. SQLite
// has no row locks and relies on its single writer instead.
func (r *Repository) FindByPairForUpdate(ctx context.Context, brokerID, clientID string) (*Relation, error) {
	var rel Relation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("broker_id = ? AND client_id = ?", brokerID, clientID).
		First(&rel).Error
	return found(&rel, err)
}

// Update applies a partial update and returns the stored row.
func (r *Repository) Update(ctx context.Context, id string, updates map[string]interface{}) (*Relation, error) {
	result := r.db.WithContext(ctx).
		Model(&Relation{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, apperr.Store(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRelationNotFound
	}
	return r.GetByID(ctx, id)
}

// ListActive returns up to limit active relations of a broker, most recently
// updated first, strictly after the given position when one is set.
func (r *Repository) ListActive(ctx context.Context, brokerID string, after *cursor, limit int) ([]Relation, error) {
	q := r.db.WithContext(ctx).
		Where("broker_id = ? AND status = ?", brokerID, StatusActive)
	if after != nil {
		q = q.Where("(updated_at < ? OR (updated_at = ? AND id < ?))", after.UpdatedAt, after.UpdatedAt, after.ID)
	}

	var rels []Relation
	err := q.Order("updated_at DESC, id DESC").Limit(limit).Find(&rels).Error
	return rels, apperr.Store(err)
}

func found(rel *Relation, err error) (*Relation, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRelationNotFound
	}
	if err != nil {
		return nil, apperr.Store(err)
	}
	return rel, nil
}
