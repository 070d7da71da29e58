package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog entity. Field bounds are enforced by the product
// service before any row is written; the store never truncates.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images"`
	ImageIDs    []string  `json:"imageIds"`
	Category    string    `json:"category"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
	Stock       int       `json:"stock"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const (
	// MaxNameLen bounds the product name in characters.
	MaxNameLen = 100
	// MaxDescriptionLen bounds the product description in characters.
	MaxDescriptionLen = 500
)
