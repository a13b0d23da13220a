package repository

import (
	"context"

	"chiblets_lite/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BattleRepository struct {
	db *pgxpool.Pool
}

func NewBattleRepository(db *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{db: db}
}

func (r *BattleRepository) Create(ctx context.Context, b *domain.BattleRecord) error {
	trace := []byte(b.Trace)
	if len(trace) == 0 {
		trace = nil
	}
	_, err := conn(ctx, r.db).Exec(ctx,
		`INSERT INTO battles (id, user_id, chiblet_id, mode, opponent_ref, outcome, trace, exp_gained, currency, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID,
		b.UserID,
		b.ChibletID,
		b.Mode,
		b.OpponentRef,
		b.Outcome,
		trace,
		b.ExpGained,
		b.Currency,
		b.CreatedAt,
	)
	return mapErr(err)
}

func (r *BattleRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.BattleRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT id, user_id, chiblet_id, mode, opponent_ref, outcome, COALESCE(trace, 'null'::jsonb),
			exp_gained, currency, created_at
		 FROM battles
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var res []domain.BattleRecord
	for rows.Next() {
		var b domain.BattleRecord
		var trace []byte
		if err := rows.Scan(&b.ID, &b.UserID, &b.ChibletID, &b.Mode, &b.OpponentRef, &b.Outcome, &trace,
			&b.ExpGained, &b.Currency, &b.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		b.Trace = trace
		res = append(res, b)
	}
	return res, mapErr(rows.Err())
}
