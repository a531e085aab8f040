// Package resources defines the JSON shapes the API returns. Money is
// rendered as a fixed two-decimal string.
package resources

import (
	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/pkg/resource"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func Product(p models.Product) resource.Map {
	return resource.Map{
		"id":      p.ID,
		"name":    p.Name,
		"sizes":   p.Sizes,
		"price":   money(p.Price),
		"image":   p.Image,
		"visible": p.Visible,
	}
}

// Item is one cart or order line. productName and image come from the
// product as it is now; price and size are the line's own snapshot.
func Item(it models.OrderItem) resource.Map {
	return resource.Map{
		"id":          it.ID,
		"productId":   it.ProductID,
		"productName": it.Product.Name,
		"image":       it.Product.Image,
		"size":        it.Size,
		"price":       money(it.Price),
		"quantity":    it.Quantity,
		"subtotal":    money(it.Subtotal()),
	}
}

// Cart wraps the pending order's lines with their total.
func Cart(items []models.OrderItem) resource.Map {
	return resource.Map{
		"items": resource.Collection(items, Item),
		"total": money(models.Order{Items: items}.Total()),
	}
}

func Order(o models.Order) resource.Map {
	return resource.Map{
		"id":             o.ID,
		"status":         o.Status,
		"createdAt":      o.CreatedAt,
		"trackingNumber": o.TrackingNumber,
		"items":          resource.Collection(o.Items, Item),
		"total":          money(o.Total()),
	}
}

// AdminOrder is Order plus the owner.
func AdminOrder(o models.Order) resource.Map {
	m := Order(o)
	m["user"] = resource.Map{
		"id":       o.User.ID,
		"username": o.User.Username,
	}
	return m
}

func User(u models.User) resource.Map {
	return resource.Map{
		"id":       u.ID,
		"username": u.Username,
		"role":     u.Role,
	}
}

// Address is a saved shipping address.
func Address(a models.Address) resource.Map {
	return resource.Map{
		"id":          a.ID,
		"userId":      a.UserID,
		"fullName":    a.FullName,
		"houseNumber": a.HouseNumber,
		"street":      a.Street,
		"city":        a.City,
		"province":    a.Province,
		"zipCode":     a.ZipCode,
		"phone":       a.Phone,
		"updatedAt":   a.UpdatedAt,
	}
}
