package roster

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"brokerdesk/internal/domain/client"
	"brokerdesk/internal/domain/relation"
)

// StoreTx binds the client and relation services to one gorm transaction.
type StoreTx struct {
	db   *gorm.DB
	log  *zap.Logger
	opts relation.Options
}

func NewStoreTx(db *gorm.DB, log *zap.Logger, opts relation.Options) *StoreTx {
	if log == nil {
		log = zap.NewNop()
	}
	return &StoreTx{db: db, log: log, opts: opts}
}

func (t *StoreTx) InTx(ctx context.Context, fn func(clients ClientRecords, relations Relations) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(
			client.NewService(client.NewRepository(tx)),
			relation.NewService(relation.NewRepository(tx), t.log, t.opts),
		)
	})
}

// direct runs fn on the service's own collaborators without a transaction.
type direct struct {
	clients   ClientRecords
	relations Relations
}

func (d direct) InTx(_ context.Context, fn func(clients ClientRecords, relations Relations) error) error {
	return fn(d.clients, d.relations)
}
