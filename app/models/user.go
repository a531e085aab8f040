package models

import (
	"time"

	"github.com/shashiranjanraj/shirtshop/pkg/auth"
)

// User is an account. Role is assigned administratively (seeder or DB),
// never through an endpoint.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      auth.Role `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Identity() auth.Identity {
	return auth.Identity{UserID: u.ID, Role: u.Role, Name: u.Username}
}
