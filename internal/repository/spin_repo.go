package repository

import (
	"context"
	"encoding/json"
	"time"

	"chiblets_lite/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SpinRepository struct {
	db *pgxpool.Pool
}

func NewSpinRepository(db *pgxpool.Pool) *SpinRepository {
	return &SpinRepository{db: db}
}

func (r *SpinRepository) CountSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT COUNT(*) FROM spins WHERE user_id = $1 AND created_at >= $2`, userID, since).Scan(&n)
	return n, mapErr(err)
}

func (r *SpinRepository) Create(ctx context.Context, rec *domain.SpinRecord) error {
	reward, err := json.Marshal(rec.Reward)
	if err != nil {
		return err
	}
	return mapErr(conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO spins (user_id, slot_id, reward, chiblet_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		rec.UserID, rec.SlotID, reward, rec.ChibletID, rec.CreatedAt,
	).Scan(&rec.ID))
}
