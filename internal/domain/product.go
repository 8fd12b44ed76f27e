package domain

import "time"

// Product is a catalog entry. Queues never reference its live price; they snapshot it.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}
