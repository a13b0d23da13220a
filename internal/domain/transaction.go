package domain

import "time"

// Ledger entry types.
const (
	TxStageReward = "stage_reward"
	TxPvPReward   = "pvp_reward"
	TxIdleReward  = "idle_reward"
	TxSpinReward  = "spin_reward"
	TxTaskReward  = "task_reward"
	TxFusionCost  = "fusion_cost"
)

type Transaction struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
