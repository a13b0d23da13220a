package repository

import (
	"context"
	"encoding/json"

	"chiblets_lite/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a ledger row, inside the caller's transaction when ctx
// carries one.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	metaJSON, err := json.Marshal(tx.Meta)
	if err != nil || tx.Meta == nil {
		metaJSON = []byte("{}")
	}

	return mapErr(conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO transactions (user_id, type, amount, meta)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		tx.UserID, tx.Type, tx.Amount, metaJSON,
	).Scan(&tx.ID, &tx.CreatedAt))
}

// ListByUser returns the most recent ledger rows of a user.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT id, user_id, type, amount, meta, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var res []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var meta []byte
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &meta, &t.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &t.Meta)
		}
		res = append(res, t)
	}
	return res, mapErr(rows.Err())
}
