package services_test

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressService_UpsertKeepsOneRow(t *testing.T) {
	f := newFixture(t)
	svc := services.NewAddressService(f.repo)
	alice := f.user(t, "alice")
	ctx := context.Background()

	none, err := svc.Get(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, none)

	first, err := svc.Save(ctx, alice, models.Address{
		FullName: "Alice A", HouseNumber: "12", Street: "Main", City: "Bangkok",
		Province: "Bangkok", ZipCode: "10110", Phone: "0800000000",
	})
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, first.UserID)

	second, err := svc.Save(ctx, alice, models.Address{
		UserID:   9999, // ignored, the caller owns the address
		FullName: "Alice B", HouseNumber: "99", Street: "Side", City: "Chiang Mai",
		Province: "Chiang Mai", ZipCode: "50000", Phone: "0811111111",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Alice B", second.FullName)
	assert.Equal(t, alice.UserID, second.UserID)

	var n int64
	require.NoError(t, f.db.Model(&models.Address{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
