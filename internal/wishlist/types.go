package wishlist

import (
	"time"

	product "github.com/angelmondragon/wishlist-backend/internal/products"
	"github.com/angelmondragon/wishlist-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ItemDTO is the flat wishlist entry returned by create and list.
type ItemDTO struct {
	ID        uuid.UUID `json:"id"`
	Client    uuid.UUID `json:"client"`
	Product   uuid.UUID `json:"product"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummaryDTO is the owner representation nested in item details.
type UserSummaryDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ItemDetailDTO nests the product and owner.
type ItemDetailDTO struct {
	ID        uuid.UUID           `json:"id"`
	Client    UserSummaryDTO      `json:"client"`
	Product   *product.ProductDTO `json:"product"`
	CreatedAt time.Time           `json:"created_at"`
}

func newItemDTO(item models.WishlistItem) ItemDTO {
	return ItemDTO{
		ID:        item.ID,
		Client:    item.UserID,
		Product:   item.ProductID,
		CreatedAt: item.CreatedAt,
	}
}

func newItemDetailDTO(item *models.WishlistItem) *ItemDetailDTO {
	dto := &ItemDetailDTO{
		ID:        item.ID,
		Client:    UserSummaryDTO{ID: item.UserID},
		Product:   product.NewProductDTO(item.Product),
		CreatedAt: item.CreatedAt,
	}
	if item.User != nil {
		dto.Client.Name = item.User.Name
		dto.Client.Email = item.User.Email
	}
	return dto
}
