package model

import "time"

type Sewadar struct {
	ID          string    `json:"id"`
	BadgeNo     string    `json:"badge_no"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Department  string    `json:"department"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SewadarQuery struct {
	Department string
	Search     string
	Page       int
	Limit      int
}
