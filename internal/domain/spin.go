package domain

import "time"

// WheelSlot is one weighted entry of the reward wheel.
type WheelSlot struct {
	ID     int    `json:"id" yaml:"id"`
	Reward Reward `json:"reward" yaml:"reward"`
	Weight int    `json:"weight" yaml:"weight"`
}

type SpinRecord struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	SlotID    int       `db:"slot_id" json:"slot_id"`
	Reward    Reward    `db:"reward" json:"reward"`
	ChibletID *int64    `db:"chiblet_id" json:"chiblet_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
