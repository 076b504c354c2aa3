package wishlist

import (
	"context"
	"errors"

	"github.com/angelmondragon/wishlist-backend/pkg/db"
	"github.com/angelmondragon/wishlist-backend/pkg/db/models"
	"github.com/angelmondragon/wishlist-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateItem is returned when the (user, product) pair already exists.
var ErrDuplicateItem = errors.New("wishlist item already exists")

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts an association. The unique (user_id, product_id) index arbitrates races.
func (r *Repository) Create(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	if item == nil || item.UserID == uuid.Nil || item.ProductID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}
	if err := r.db.WithContext(ctx).Omit("User", "Product").Create(item).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, ErrDuplicateItem
		}
		return nil, err
	}
	return item, nil
}

// ListByUser returns up to limit+1 items owned by userID, newest first, strictly after cursor.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.WishlistItem, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit))

	if cursor != nil {
		at := cursor.CreatedAt.UTC()
		query = query.Where("((created_at < ?) OR (created_at = ? AND id < ?))", at, at, cursor.ID)
	}

	var items []models.WishlistItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindForUser loads an item with its product and owner, scoped to userID.
func (r *Repository) FindForUser(ctx context.Context, id, userID uuid.UUID) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("User").
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteForUser removes an item only when userID owns it.
func (r *Repository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.WishlistItem{})
	return res.RowsAffected > 0, res.Error
}
