package migrations_test

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/shirtshop/app/models"
	_ "github.com/shashiranjanraj/shirtshop/database/migrations"
	"github.com/shashiranjanraj/shirtshop/pkg/database"
	"github.com/shashiranjanraj/shirtshop/pkg/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_UpDownAndPendingIndex(t *testing.T) {
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)

	runner := migration.New(db, io.Discard)
	require.NoError(t, runner.Run())

	for _, table := range []string{"users", "products", "orders", "order_items", "addresses", "failed_jobs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	user := models.User{Username: "alice", Password: "x", Role: "user"}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, db.Create(&models.Order{UserID: user.ID, Status: models.StatusPending}).Error)
	err = db.Create(&models.Order{UserID: user.ID, Status: models.StatusPending}).Error
	assert.True(t, database.IsDuplicateKey(err), "second pending order must be rejected: %v", err)

	// placed orders are not constrained
	require.NoError(t, db.Create(&models.Order{UserID: user.ID, Status: models.StatusWaitingShipment}).Error)
	require.NoError(t, db.Create(&models.Order{UserID: user.ID, Status: models.StatusShipped}).Error)

	require.NoError(t, runner.Rollback())
	assert.False(t, db.Migrator().HasTable("orders"))
	assert.False(t, db.Migrator().HasTable("users"))

	require.NoError(t, runner.Run(), "migrations must re-apply after rollback")
}
