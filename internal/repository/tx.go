package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// conn returns the transaction carried by ctx, or the pool.
func conn(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

var _ TxManager = (*PgxTxManager)(nil)

type PgxTxManager struct {
	db *pgxpool.Pool
}

func NewTxManager(db *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{db: db}
}

// RunInTx commits when fn returns nil. A nested call joins the outer
// transaction.
func (m *PgxTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(withTx(ctx, tx)); err != nil {
		return err
	}
	return mapErr(tx.Commit(ctx))
}

// NewStore wires every Postgres store on one pool.
func NewStore(db *pgxpool.Pool) Store {
	return Store{
		Tx:           NewTxManager(db),
		Users:        NewUserRepository(db),
		Species:      NewSpeciesRepository(db),
		Chiblets:     NewChibletRepository(db),
		Tasks:        NewTaskRepository(db),
		Spins:        NewSpinRepository(db),
		Battles:      NewBattleRepository(db),
		Transactions: NewTransactionRepository(db),
	}
}
