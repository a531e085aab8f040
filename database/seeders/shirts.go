package seeders

import (
	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	Register("shirts", SeedShirts)
}

var starterCatalog = []models.Product{
	{Name: "Classic White Tee", Sizes: []string{"S", "M", "L", "XL"}, Price: decimal.RequireFromString("249.00"), Visible: true},
	{Name: "Heather Grey Crew", Sizes: []string{"S", "M", "L"}, Price: decimal.RequireFromString("299.00"), Visible: true},
	{Name: "Navy Oxford", Sizes: []string{"M", "L", "XL"}, Price: decimal.RequireFromString("590.00"), Visible: true},
	{Name: "Black Pocket Tee", Sizes: []string{"S", "M", "L", "XL", "XXL"}, Price: decimal.RequireFromString("279.00"), Visible: true},
}

// SeedShirts inserts the starter catalog when the products table is empty.
func SeedShirts(db *gorm.DB) error {
	var n int64
	if err := db.Unscoped().Model(&models.Product{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	shirts := make([]models.Product, len(starterCatalog))
	copy(shirts, starterCatalog)
	return db.Create(&shirts).Error
}
