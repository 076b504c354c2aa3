package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the local copy of a catalog product. IDs come from the catalog.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Price       float64   `gorm:"not null"`
	Image       string    `gorm:"not null"`
	Brand       string    `gorm:"not null"`
	Title       string    `gorm:"not null"`
	ReviewScore *float64  `gorm:"column:review_score"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}
