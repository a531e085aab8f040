package services_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shashiranjanraj/shirtshop/app/services"
	"github.com/shashiranjanraj/shirtshop/pkg/apperr"
	"github.com/shashiranjanraj/shirtshop/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_AdminCRUD(t *testing.T) {
	f := newFixture(t)
	svc := services.NewCatalogService(f.repo, nil)
	admin := f.admin(t)
	alice := f.user(t, "alice")
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, services.ProductInput{Name: "x", Sizes: []string{"M"}, Price: dec("1")})
	assert.True(t, apperr.IsForbidden(err))

	p, err := svc.Create(ctx, admin, services.ProductInput{
		Name: "  Linen Shirt ", Sizes: []string{" S", "M "}, Price: dec("450.499"), Visible: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Linen Shirt", p.Name)
	assert.Equal(t, []string{"S", "M"}, p.Sizes)
	assert.True(t, p.Price.Equal(dec("450.50")))

	hidden, err := svc.Create(ctx, admin, services.ProductInput{Name: "Draft", Sizes: []string{"M"}, Price: dec("10")})
	require.NoError(t, err)

	list, err := svc.List(ctx, alice, true)
	require.NoError(t, err)
	assert.Len(t, list, 1, "hidden shirts are admin-only")

	list, err = svc.List(ctx, admin, true)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.Get(ctx, alice, hidden.ID)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	updated, err := svc.Update(ctx, admin, p.ID, services.ProductInput{
		Name: "Linen Shirt", Sizes: []string{"L"}, Price: dec("500"), Visible: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"L"}, updated.Sizes)

	require.NoError(t, svc.Delete(ctx, admin, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, admin, p.ID), services.ErrProductNotFound)

	list, err = svc.List(ctx, alice, false)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCatalog_RejectsBadInput(t *testing.T) {
	f := newFixture(t)
	svc := services.NewCatalogService(f.repo, nil)
	admin := f.admin(t)
	ctx := context.Background()

	cases := map[string]services.ProductInput{
		"negative price": {Name: "a", Sizes: []string{"M"}, Price: dec("-1")},
		"comma in size":  {Name: "a", Sizes: []string{"M,L"}, Price: dec("1")},
		"no sizes":       {Name: "a", Price: dec("1")},
		"duplicate size": {Name: "a", Sizes: []string{"M", "M"}, Price: dec("1")},
		"blank name":     {Name: " ", Sizes: []string{"M"}, Price: dec("1")},
	}
	for name, in := range cases {
		_, err := svc.Create(ctx, admin, in)
		assert.True(t, apperr.IsValidation(err), name)
	}
}

func TestCatalog_UploadImage(t *testing.T) {
	f := newFixture(t)
	root := t.TempDir()
	disk := storage.NewLocalDisk(root, "http://cdn.test/storage")
	svc := services.NewCatalogService(f.repo, disk)
	admin := f.admin(t)
	p := f.product(t, "P1", "100", "M")
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, admin, p.ID, "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, services.ErrUnsupportedImage)

	updated, err := svc.UploadImage(ctx, admin, p.ID, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(updated.Image, "http://cdn.test/storage/shirts/"), updated.Image)

	rel := strings.TrimPrefix(updated.Image, "http://cdn.test/storage/")
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = svc.UploadImage(ctx, admin, 9999, "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}
