package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type BattleMode string

const (
	BattlePvP BattleMode = "pvp"
	BattlePvE BattleMode = "pve"
)

type BattleOutcome string

const (
	OutcomeWin  BattleOutcome = "win"
	OutcomeLoss BattleOutcome = "loss"
	OutcomeDraw BattleOutcome = "draw"
)

// BattleRecord is written once when a battle is settled.
type BattleRecord struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"user_id"`
	ChibletID   *int64          `db:"chiblet_id" json:"chiblet_id,omitempty"`
	Mode        BattleMode      `db:"mode" json:"mode"`
	OpponentRef string          `db:"opponent_ref" json:"opponent_ref"`
	Outcome     BattleOutcome   `db:"outcome" json:"outcome"`
	Trace       json.RawMessage `db:"trace" json:"trace,omitempty"`
	ExpGained   int64           `db:"exp_gained" json:"exp_gained"`
	Currency    int64           `db:"currency" json:"currency"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
