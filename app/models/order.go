package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a cart while its status is pending and a placed order after
// checkout. A user has at most one pending order; the pending-order index
// created by the migrations enforces it.
type Order struct {
	ID             uint        `gorm:"primaryKey"`
	UserID         uint        `gorm:"not null;index"`
	Status         OrderStatus `gorm:"size:32;not null;index"`
	TrackingNumber *string     `gorm:"size:128"`
	CreatedAt      time.Time   `gorm:"index"`
	UpdatedAt      time.Time

	User  User        `gorm:"foreignKey:UserID"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// Total is Σ price×quantity over the loaded items. It is never stored.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// OrderItem is one (product, size) line. Price is the product price at the
// moment the line was first added.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"not null;uniqueIndex:ux_order_items_line,priority:1"`
	ProductID uint            `gorm:"not null;uniqueIndex:ux_order_items_line,priority:2;index"`
	Size      string          `gorm:"size:32;not null;uniqueIndex:ux_order_items_line,priority:3"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity  int             `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product Product `gorm:"foreignKey:ProductID"`
}

func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
