package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a shirt in the catalog. Deleting a product soft-deletes it so
// order history keeps its name and image.
type Product struct {
	gorm.Model
	Name    string          `gorm:"size:255;not null;index" json:"name"`
	Sizes   []string        `gorm:"serializer:json;type:text;not null" json:"sizes"`
	Price   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image   string          `gorm:"size:512" json:"image"`
	Visible bool            `gorm:"not null;index" json:"visible"`
}

// HasSize reports whether size is one of the product's declared sizes.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
