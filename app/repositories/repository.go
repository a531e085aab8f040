// Package repositories holds the gorm data access for the storefront. Every
// repository is bound to a *gorm.DB that is either the connection pool or an
// open transaction; Repository.WithTx hands out a full set bound to one tx.
package repositories

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB        *gorm.DB
	Users     UserRepo
	Products  ProductRepo
	Orders    OrderRepo
	Addresses AddressRepo
}

func build(db *gorm.DB) *Repository {
	return &Repository{
		DB:        db,
		Users:     NewUserRepo(db),
		Products:  NewProductRepo(db),
		Orders:    NewOrderRepo(db),
		Addresses: NewAddressRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return build(db) }

// WithContext returns a set whose queries carry ctx.
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return build(r.DB.WithContext(ctx))
}

// WithTx runs fn in one transaction. Inside fn only tx may be used: with a
// single-connection pool, touching r would block on the connection tx holds.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(build(tx))
	})
}
