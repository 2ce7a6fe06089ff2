package model

import (
	"fmt"

	"github.com/google/uuid"
)

type Contract struct {
	ID             int64     `json:"id"`
	ContractorID   uuid.UUID `json:"contractor_id"`
	ContractorName string    `json:"contractor_name"`
	FromStation    string    `json:"from_station"`
	ToStation      string    `json:"to_station"`
}

// Route formats the contract route the way route selectors spell it.
func (c Contract) Route() string {
	return FormatRoute(c.FromStation, c.ToStation)
}

func FormatRoute(from, to string) string {
	return fmt.Sprintf("%s -> %s", from, to)
}

type Contractor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
