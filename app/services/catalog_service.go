package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/app/repositories"
	"github.com/shashiranjanraj/shirtshop/pkg/apperr"
	"github.com/shashiranjanraj/shirtshop/pkg/auth"
	"github.com/shashiranjanraj/shirtshop/pkg/logger"
	"github.com/shashiranjanraj/shirtshop/pkg/storage"
	"github.com/shopspring/decimal"
)

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name    string
	Sizes   []string
	Price   decimal.Decimal
	Image   string
	Visible bool
}

// CatalogService manages shirts. Reads are public; writes are admin-only.
// Edits overwrite the product in place; order lines keep their own price
// and size.
type CatalogService struct {
	tx   txRunner
	disk storage.Disk
}

// NewCatalogService returns a service storing uploaded images on disk. A nil
// disk disables uploads.
func NewCatalogService(repo *repositories.Repository, disk storage.Disk) *CatalogService {
	return &CatalogService{tx: newTxRunner(repo), disk: disk}
}

// List returns the storefront catalog. Admins may ask for hidden shirts too.
func (s *CatalogService) List(ctx context.Context, id auth.Identity, includeHidden bool) ([]models.Product, error) {
	var list []models.Product
	err := s.tx.read(ctx, "catalog_list", func(repo *repositories.Repository) error {
		var err error
		if includeHidden && id.IsAdmin() {
			list, err = repo.Products.All()
		} else {
			list, err = repo.Products.Visible()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Product{}
	}
	return list, nil
}

// Get returns one shirt. Hidden shirts are only visible to admins.
func (s *CatalogService) Get(ctx context.Context, id auth.Identity, productID uint) (*models.Product, error) {
	var p *models.Product
	err := s.tx.read(ctx, "catalog_get", func(repo *repositories.Repository) error {
		var err error
		p, err = repo.Products.FindByID(productID)
		if err == nil && (p == nil || (!p.Visible && !id.IsAdmin())) {
			return ErrProductNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, id auth.Identity, in ProductInput) (*models.Product, error) {
	if !id.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if err := normalize(&in); err != nil {
		return nil, err
	}

	p := &models.Product{Name: in.Name, Sizes: in.Sizes, Price: in.Price, Image: in.Image, Visible: in.Visible}
	err := s.tx.run(ctx, "catalog_create", func(tx *repositories.Repository) error {
		return tx.Products.Create(p)
	})
	if err != nil {
		return nil, err
	}

	s.forget(ctx)
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, id auth.Identity, productID uint, in ProductInput) (*models.Product, error) {
	if !id.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if err := normalize(&in); err != nil {
		return nil, err
	}

	var p *models.Product
	err := s.tx.run(ctx, "catalog_update", func(tx *repositories.Repository) error {
		var err error
		p, err = tx.Products.FindByID(productID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}

		p.Name, p.Sizes, p.Price, p.Visible = in.Name, in.Sizes, in.Price, in.Visible
		if in.Image != "" {
			p.Image = in.Image
		}
		return tx.Products.Save(p)
	})
	if err != nil {
		return nil, err
	}

	s.forget(ctx)
	return p, nil
}

// Delete hides the shirt from the catalog for good. Placed orders keep
// showing it.
func (s *CatalogService) Delete(ctx context.Context, id auth.Identity, productID uint) error {
	if !id.IsAdmin() {
		return ErrAdminOnly
	}

	err := s.tx.run(ctx, "catalog_delete", func(tx *repositories.Repository) error {
		ok, err := tx.Products.Delete(productID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.forget(ctx)
	return nil
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadImage stores r as the shirt's image and points the shirt at it.
func (s *CatalogService) UploadImage(ctx context.Context, id auth.Identity, productID uint, contentType string, r io.Reader) (*models.Product, error) {
	if !id.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if s.disk == nil {
		return nil, ErrStorageUnavailable
	}
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, ErrUnsupportedImage
	}

	if _, err := s.Get(ctx, id, productID); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("shirts/%d/%s%s", productID, uuid.NewString(), ext)
	if err := s.disk.Put(ctx, path, r, contentType); err != nil {
		return nil, apperr.Internal(fmt.Errorf("store image: %w", err))
	}

	var p *models.Product
	err := s.tx.run(ctx, "catalog_image", func(tx *repositories.Repository) error {
		var err error
		p, err = tx.Products.FindByID(productID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}
		p.Image = s.disk.URL(path)
		return tx.Products.Save(p)
	})
	if err != nil {
		if delErr := s.disk.Delete(context.WithoutCancel(ctx), path); delErr != nil {
			logger.WithCtx(ctx).Warn("orphaned image", "path", path, "error", delErr)
		}
		return nil, err
	}

	s.forget(ctx)
	return p, nil
}

func (s *CatalogService) forget(ctx context.Context) {
	if err := s.tx.repo.WithContext(ctx).Products.ForgetVisible(); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}

// normalize trims the input and rejects prices below zero and size labels
// that are empty, duplicated or contain a comma.
func normalize(in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Image = strings.TrimSpace(in.Image)
	if in.Name == "" {
		return apperr.Validation("name is required")
	}
	if in.Price.IsNegative() {
		return ErrInvalidPrice
	}
	in.Price = in.Price.Round(2)

	seen := make(map[string]bool, len(in.Sizes))
	sizes := make([]string, 0, len(in.Sizes))
	for _, raw := range in.Sizes {
		size := strings.TrimSpace(raw)
		if size == "" || strings.Contains(size, ",") || seen[size] {
			return ErrInvalidSizes
		}
		seen[size] = true
		sizes = append(sizes, size)
	}
	if len(sizes) == 0 {
		return ErrInvalidSizes
	}
	in.Sizes = sizes
	return nil
}
