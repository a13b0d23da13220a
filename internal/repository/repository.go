package repository

import (
	"context"
	"time"

	"chiblets_lite/internal/domain"
)

// TxManager runs fn in one unit of work. Stores called with the ctx passed
// to fn join that unit of work.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetByIDForUpdate locks the user row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.User, error)
	GetByTgID(ctx context.Context, tgID int64) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	// Rank returns the 1-based wCHIBI rank of the user and the player count.
	Rank(ctx context.Context, userID int64) (int, int, error)
}

type SpeciesStore interface {
	List(ctx context.Context) ([]domain.Species, error)
	ListByRarity(ctx context.Context, r domain.Rarity) ([]domain.Species, error)
	Get(ctx context.Context, id int64) (*domain.Species, error)
	Upsert(ctx context.Context, sp *domain.Species) error
}

type ChibletStore interface {
	Get(ctx context.Context, id int64) (*domain.Chiblet, error)
	// GetForUpdate locks the rows in ascending id order. Missing ids are
	// reported as ErrNotFound.
	GetForUpdate(ctx context.Context, ids ...int64) ([]domain.Chiblet, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Chiblet, error)
	ActiveTeam(ctx context.Context, userID int64, forUpdate bool) ([]domain.Chiblet, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Create(ctx context.Context, ch *domain.Chiblet) error
	Update(ctx context.Context, ch *domain.Chiblet) error
	Delete(ctx context.Context, ids ...int64) error
	// FindOpponents lists battle-ready chiblets of other users within the
	// level range.
	FindOpponents(ctx context.Context, userID int64, minLevel, maxLevel, limit int) ([]domain.Chiblet, error)
}

type TaskStore interface {
	ListActive(ctx context.Context) ([]domain.Task, error)
	Get(ctx context.Context, id int64) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	ListForUser(ctx context.Context, userID int64) ([]domain.UserTask, error)
	Completion(ctx context.Context, userID, taskID int64, forUpdate bool) (*domain.TaskCompletion, error)
	// SaveCompletion upserts c. A claimed completion is final and is left
	// untouched.
	SaveCompletion(ctx context.Context, c *domain.TaskCompletion) error
}

type SpinStore interface {
	CountSince(ctx context.Context, userID int64, since time.Time) (int, error)
	Create(ctx context.Context, rec *domain.SpinRecord) error
}

type BattleStore interface {
	Create(ctx context.Context, b *domain.BattleRecord) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.BattleRecord, error)
}

type TransactionStore interface {
	Create(ctx context.Context, t *domain.Transaction) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
}

// Store bundles every collaborator the services need.
type Store struct {
	Tx           TxManager
	Users        UserStore
	Species      SpeciesStore
	Chiblets     ChibletStore
	Tasks        TaskStore
	Spins        SpinStore
	Battles      BattleStore
	Transactions TransactionStore
}
