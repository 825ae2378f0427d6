package model

import "time"

// Gift represents a distributable item type. Deactivating a gift removes it
// from selection lists but past ledger entries stay valid.
type Gift struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"` // unique, stable
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store represents a physical store a holder is affiliated with
type Store struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
