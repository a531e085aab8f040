package services_test

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/app/repositories"
	_ "github.com/shashiranjanraj/shirtshop/database/migrations"
	"github.com/shashiranjanraj/shirtshop/pkg/auth"
	"github.com/shashiranjanraj/shirtshop/pkg/database"
	"github.com/shashiranjanraj/shirtshop/pkg/event"
	"github.com/shashiranjanraj/shirtshop/pkg/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	repo *repositories.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	event.Flush()
	t.Cleanup(event.Flush)

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	require.NoError(t, migration.New(db, io.Discard).Run())

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &fixture{db: db, repo: repositories.New(db)}
}

func (f *fixture) user(t *testing.T, name string) auth.Identity {
	t.Helper()
	u := models.User{Username: name, Password: "x", Role: auth.RoleUser}
	require.NoError(t, f.db.Create(&u).Error)
	return u.Identity()
}

func (f *fixture) admin(t *testing.T) auth.Identity {
	t.Helper()
	u := models.User{Username: "admin", Password: "x", Role: auth.RoleAdmin}
	require.NoError(t, f.db.Create(&u).Error)
	return u.Identity()
}

func (f *fixture) product(t *testing.T, name, price string, sizes ...string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Sizes: sizes, Price: decimal.RequireFromString(price), Visible: true}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) countOrders(t *testing.T, userID uint, status models.OrderStatus) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Order{}).
		Where("user_id = ? AND status = ?", userID, status).Count(&n).Error)
	return n
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
