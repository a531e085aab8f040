package repositories

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/config"
	"github.com/shashiranjanraj/shirtshop/pkg/cache"
	"github.com/shashiranjanraj/shirtshop/pkg/orm"
	"gorm.io/gorm"
)

// VisibleCatalogKey caches the storefront listing.
const VisibleCatalogKey = "catalog:visible"

type ProductRepo interface {
	// Visible lists products shown on the storefront, read through the cache.
	Visible() ([]models.Product, error)
	// All lists every non-deleted product including hidden ones.
	All() ([]models.Product, error)
	// FindByID returns nil, nil for unknown or deleted products.
	FindByID(id uint) (*models.Product, error)
	Create(p *models.Product) error
	Save(p *models.Product) error
	// Delete soft-deletes; reports false when nothing matched.
	Delete(id uint) (bool, error)
	ForgetVisible() error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func (r *productRepo) Visible() ([]models.Product, error) {
	var list []models.Product
	err := orm.On(r.db).
		Model(&models.Product{}).
		Where("visible = ?", true).
		Order("id ASC").
		Cache(VisibleCatalogKey, config.CatalogCacheTTL(), &list)
	return list, err
}

func (r *productRepo) All() ([]models.Product, error) {
	var list []models.Product
	err := orm.On(r.db).Model(&models.Product{}).Order("id ASC").Get(&list)
	return list, err
}

func (r *productRepo) FindByID(id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

func (r *productRepo) Save(p *models.Product) error {
	return r.db.Save(p).Error
}

func (r *productRepo) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Product{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) ForgetVisible() error {
	ctx := r.db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return cache.Del(ctx, VisibleCatalogKey)
}
