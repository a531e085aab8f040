package repositories

import (
	"errors"

	"github.com/shashiranjanraj/shirtshop/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddressRepo interface {
	// FindByUser returns nil, nil when the user has no address.
	FindByUser(userID uint) (*models.Address, error)
	// Upsert inserts the user's address or overwrites the existing one.
	Upsert(a *models.Address) error
}

type addressRepo struct{ db *gorm.DB }

func NewAddressRepo(db *gorm.DB) AddressRepo { return &addressRepo{db: db} }

func (r *addressRepo) FindByUser(userID uint) (*models.Address, error) {
	var a models.Address
	err := r.db.Where("user_id = ?", userID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *addressRepo) Upsert(a *models.Address) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "house_number", "street", "city", "province", "zip_code", "phone", "updated_at",
		}),
	}).Create(a).Error
}
