package wishlist

import (
	"context"
	"errors"

	"github.com/angelmondragon/wishlist-backend/internal/catalog"
	product "github.com/angelmondragon/wishlist-backend/internal/products"
	"github.com/angelmondragon/wishlist-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wishlist-backend/pkg/errors"
	"github.com/angelmondragon/wishlist-backend/pkg/logger"
	"github.com/angelmondragon/wishlist-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
}

type itemStore interface {
	Create(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.WishlistItem, error)
	FindForUser(ctx context.Context, id, userID uuid.UUID) (*models.WishlistItem, error)
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type catalogFetcher interface {
	Fetch(ctx context.Context, id uuid.UUID) (*catalog.Product, bool)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Items    itemStore
	Products productStore
	Catalog  catalogFetcher
	Logger   *logger.Logger
}

// Service exposes business rules for wishlist management.
type Service interface {
	AddItem(ctx context.Context, requesterID, targetUserID, productID uuid.UUID) (*ItemDTO, error)
	ListItems(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[ItemDTO], error)
	GetItem(ctx context.Context, userID, itemID uuid.UUID) (*ItemDetailDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type service struct {
	items    itemStore
	products productStore
	catalog  catalogFetcher
	logg     *logger.Logger
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog client is required")
	}
	return &service{
		items:    params.Items,
		products: params.Products,
		catalog:  params.Catalog,
		logg:     params.Logger,
	}, nil
}

// AddItem links productID to targetUserID's wishlist on behalf of requesterID.
// Identity is checked before any lookup so a mismatch never reaches the catalog or the stores.
// A product fetched from the catalog is committed before the association; if the association
// then fails the product stays stored.
func (s *service) AddItem(ctx context.Context, requesterID, targetUserID, productID uuid.UUID) (*ItemDTO, error) {
	if requesterID == uuid.Nil || requesterID != targetUserID {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "wishlist items can only be created for yourself")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
	}

	resolved, err := s.resolveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.Create(ctx, &models.WishlistItem{
		UserID:    targetUserID,
		ProductID: resolved.ID,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateItem) {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicate, "product is already in the wishlist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wishlist item")
	}

	dto := newItemDTO(*item)
	return &dto, nil
}

// resolveProduct prefers the local copy and otherwise materializes the catalog entry.
func (s *service) resolveProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	local, err := s.products.FindByID(ctx, productID)
	switch {
	case err == nil:
		return local, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	fetched, ok := s.catalog.Fetch(ctx, productID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
	}

	created, err := s.products.Create(ctx, &models.Product{
		ID:          productID,
		Price:       fetched.Price,
		Image:       fetched.Image,
		Brand:       fetched.Brand,
		Title:       fetched.Title,
		ReviewScore: fetched.ReviewScore,
	})
	if err == nil {
		s.logMaterialized(ctx, productID)
		return created, nil
	}
	if !errors.Is(err, product.ErrProductExists) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "materialize product")
	}

	// a concurrent request stored it first
	existing, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return existing, nil
}

func (s *service) logMaterialized(ctx context.Context, productID uuid.UUID) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", productID.String()), "product materialized from catalog")
}

// ListItems returns the caller's own items, newest first.
func (s *service) ListItems(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[ItemDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[ItemDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.items.ListByUser(ctx, userID, cursor, params.Limit)
	if err != nil {
		return pagination.Page[ItemDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist items")
	}

	dtos := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, newItemDTO(row))
	}
	return pagination.Trim(dtos, params.Limit, func(d ItemDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: d.CreatedAt, ID: d.ID}
	}), nil
}

// GetItem returns an item owned by userID; items of other users read as missing.
func (s *service) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*ItemDetailDTO, error) {
	item, err := s.items.FindForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist item")
	}
	return newItemDetailDTO(item), nil
}

// RemoveItem deletes an item owned by userID; items of other users read as missing.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	deleted, err := s.items.DeleteForUser(ctx, itemID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete wishlist item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}
	return nil
}
