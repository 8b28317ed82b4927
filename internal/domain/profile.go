package domain

import "time"

// Profile is a user's public record and EcoCoin wallet.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Location  *string   `db:"location" json:"location,omitempty"`
	EcoCoins  int64     `db:"eco_coins" json:"eco_coins"`
	Badges    []string  `db:"badges" json:"badges"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Rank is the result of the get_user_rank procedure.
type Rank struct {
	Rank       int64 `json:"rank"`
	TotalUsers int64 `json:"total_users"`
}
