package domain

import "time"

type TaskType string

const (
	TaskTwitterFollow  TaskType = "twitter_follow"
	TaskTwitterLike    TaskType = "twitter_like"
	TaskTwitterRetweet TaskType = "twitter_retweet"
	TaskTwitterComment TaskType = "twitter_comment"
	TaskDailyLogin     TaskType = "daily_login"
	TaskTelegramJoin   TaskType = "telegram_join"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskCompleted TaskStatus = "COMPLETED"
	TaskClaimed   TaskStatus = "CLAIMED"
)

type RewardType string

const (
	RewardWchibi  RewardType = "wchibi"
	RewardChiblet RewardType = "chiblet"
)

// Reward is either a wCHIBI amount or a random chiblet of the given rarity.
type Reward struct {
	Type   RewardType `json:"type" yaml:"type"`
	Amount int64      `json:"amount,omitempty" yaml:"amount,omitempty"`
	Rarity Rarity     `json:"rarity,omitempty" yaml:"rarity,omitempty"`
}

type Task struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Type        TaskType  `db:"type" json:"type"`
	Reward      Reward    `db:"reward" json:"reward"`
	URL         string    `db:"url" json:"url,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type TaskCompletion struct {
	UserID      int64      `db:"user_id" json:"user_id"`
	TaskID      int64      `db:"task_id" json:"task_id"`
	Status      TaskStatus `db:"status" json:"status"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	ClaimedAt   *time.Time `db:"claimed_at" json:"claimed_at,omitempty"`
}

// UserTask is a task together with the caller's progress on it.
type UserTask struct {
	Task
	Status TaskStatus `json:"status"`
}
