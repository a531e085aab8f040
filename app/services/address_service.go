package services

import (
	"context"

	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/app/repositories"
	"github.com/shashiranjanraj/shirtshop/pkg/auth"
)

type AddressService struct {
	tx txRunner
}

func NewAddressService(repo *repositories.Repository) *AddressService {
	return &AddressService{tx: newTxRunner(repo)}
}

// Get returns the caller's address, or nil when none has been saved.
func (s *AddressService) Get(ctx context.Context, id auth.Identity) (*models.Address, error) {
	var addr *models.Address
	err := s.tx.read(ctx, "address_get", func(repo *repositories.Repository) error {
		var err error
		addr, err = repo.Addresses.FindByUser(id.UserID)
		return err
	})
	return addr, err
}

// Save creates or replaces the caller's address.
func (s *AddressService) Save(ctx context.Context, id auth.Identity, in models.Address) (*models.Address, error) {
	in.ID = 0
	in.UserID = id.UserID

	var saved *models.Address
	err := s.tx.run(ctx, "address_save", func(tx *repositories.Repository) error {
		a := in
		if err := tx.Addresses.Upsert(&a); err != nil {
			return err
		}
		var err error
		saved, err = tx.Addresses.FindByUser(id.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
