package models

import "time"

// Address is a user's single shipping address.
type Address struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"userId"`
	FullName    string    `gorm:"size:255;not null" json:"fullName"`
	HouseNumber string    `gorm:"size:64;not null" json:"houseNumber"`
	Street      string    `gorm:"size:255;not null" json:"street"`
	City        string    `gorm:"size:128;not null" json:"city"`
	Province    string    `gorm:"size:128;not null" json:"province"`
	ZipCode     string    `gorm:"size:16;not null" json:"zipCode"`
	Phone       string    `gorm:"size:32;not null" json:"phone"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
