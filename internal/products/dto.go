package product

import (
	"github.com/angelmondragon/wishlist-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ProductDTO is the public product representation.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Brand       string    `json:"brand"`
	Title       string    `json:"title"`
	ReviewScore *float64  `json:"review_score"`
}

// NewProductDTO maps a product row to its DTO.
func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Price:       p.Price,
		Image:       p.Image,
		Brand:       p.Brand,
		Title:       p.Title,
		ReviewScore: p.ReviewScore,
	}
}

// CreateProductInput holds the validated payload for seeding a product.
type CreateProductInput struct {
	ID          uuid.UUID
	Price       float64
	Image       string
	Brand       string
	Title       string
	ReviewScore *float64
}
