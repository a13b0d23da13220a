package domain

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	TgID         int64     `db:"tg_id" json:"tg_id"`
	Username     string    `db:"username" json:"username"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Wchibi       int64     `db:"wchibi" json:"wchibi"`
	Gems         int64     `db:"gems" json:"gems"`
	Level        int       `db:"level" json:"level"`
	Experience   int64     `db:"experience" json:"experience"`
	CurrentStage int       `db:"current_stage" json:"current_stage"`
	TotalWins    int       `db:"total_wins" json:"total_wins"`
	LastOnline   time.Time `db:"last_online" json:"last_online"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// LeaderboardEntry is a single row of the wCHIBI ranking.
type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	Wchibi       int64  `json:"wchibi"`
	Level        int    `json:"level"`
	CurrentStage int    `json:"current_stage"`
	TotalWins    int    `json:"total_wins"`
}
