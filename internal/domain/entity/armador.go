package entity

import "time"

// Armador es un tercero que realiza trabajos de armado por encargo.
type Armador struct {
	ID        string
	Name      string
	Phone     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
