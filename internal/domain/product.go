package domain

import "time"

// Catalog entry. Price is in whole rupiah.
type Product struct {
	ID          string
	Name        string
	Price       int
	Unit        string
	Description string
	Image       string
	Stock       int
	Category    string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
