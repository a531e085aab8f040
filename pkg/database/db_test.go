package database_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/shirtshop/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sku struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex;size:32"`
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open("oracle", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestIsDuplicateKey_SQLite(t *testing.T) {
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "dup.db"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&sku{}))

	require.NoError(t, db.Create(&sku{Code: "TEE-M"}).Error)
	err = db.Create(&sku{Code: "TEE-M"}).Error
	require.Error(t, err)

	assert.True(t, database.IsDuplicateKey(err))
	assert.True(t, database.IsRetryable(err))
}

func TestIsRetryable_Messages(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"ERROR: deadlock detected (SQLSTATE 40P01)", true},
		{"ERROR: could not serialize access due to concurrent update", true},
		{"Error 1205: Lock wait timeout exceeded; try restarting transaction", true},
		{"database is locked", true},
		{"dial tcp 127.0.0.1:5432: connect: connection refused", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, database.IsRetryable(errors.New(tc.msg)), tc.msg)
	}
	assert.False(t, database.IsRetryable(nil))
}
