package seeders_test

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/config"
	_ "github.com/shashiranjanraj/shirtshop/database/migrations"
	"github.com/shashiranjanraj/shirtshop/database/seeders"
	"github.com/shashiranjanraj/shirtshop/pkg/auth"
	"github.com/shashiranjanraj/shirtshop/pkg/database"
	"github.com/shashiranjanraj/shirtshop/pkg/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAll_IsIdempotent(t *testing.T) {
	config.Set("ADMIN_USERNAME", "root")
	config.Set("ADMIN_PASSWORD", "supersecret")

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	require.NoError(t, migration.New(db, io.Discard).Run())

	require.NoError(t, seeders.RunAll(db, io.Discard))
	require.NoError(t, seeders.RunAll(db, io.Discard))

	var admins []models.User
	require.NoError(t, db.Where("username = ?", "root").Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, auth.RoleAdmin, admins[0].Role)
	assert.True(t, auth.CheckPassword(admins[0].Password, "supersecret"))

	var shirts []models.Product
	require.NoError(t, db.Find(&shirts).Error)
	assert.Len(t, shirts, 4)
	for _, s := range shirts {
		assert.True(t, s.Visible)
		assert.NotEmpty(t, s.Sizes)
	}
}

func TestSeedAdmin_NeverPromotesExistingUser(t *testing.T) {
	config.Set("ADMIN_USERNAME", "admin")
	config.Set("ADMIN_PASSWORD", "")
	t.Cleanup(func() { config.Set("ADMIN_USERNAME", "root") })

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	require.NoError(t, migration.New(db, io.Discard).Run())

	squatter := models.User{Username: "admin", Password: "x", Role: auth.RoleUser}
	require.NoError(t, db.Create(&squatter).Error)

	require.NoError(t, seeders.RunAll(db, io.Discard))

	var after models.User
	require.NoError(t, db.First(&after, squatter.ID).Error)
	assert.Equal(t, auth.RoleUser, after.Role)

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", auth.RoleAdmin).Count(&admins).Error)
	assert.Zero(t, admins)
}
