package models

type Branch struct {
	ID      int     `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Address *string `json:"address" db:"address"`
	Details *string `json:"details" db:"details"`
}
