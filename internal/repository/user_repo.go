package repository

import (
	"context"

	"chiblets_lite/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, tg_id, COALESCE(username, ''), COALESCE(first_name, ''), wchibi, gems,
	level, experience, current_stage, total_wins, last_online, created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.TgID,
		&u.Username,
		&u.FirstName,
		&u.Wchibi,
		&u.Gems,
		&u.Level,
		&u.Experience,
		&u.CurrentStage,
		&u.TotalWins,
		&u.LastOnline,
		&u.CreatedAt,
	); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
}

func (r *UserRepository) GetByTgID(ctx context.Context, tgID int64) (*domain.User, error) {
	return scanUser(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE tg_id = $1`, tgID))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO users (tg_id, username, first_name, wchibi, gems, level, experience, current_stage, last_online)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		u.TgID,
		u.Username,
		u.FirstName,
		u.Wchibi,
		u.Gems,
		u.Level,
		u.Experience,
		u.CurrentStage,
		u.LastOnline,
	).Scan(&u.ID, &u.CreatedAt)
	return mapErr(err)
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE users
		 SET username = $2, first_name = $3, wchibi = $4, gems = $5, level = $6,
		     experience = $7, current_stage = $8, total_wins = $9, last_online = $10
		 WHERE id = $1`,
		u.ID,
		u.Username,
		u.FirstName,
		u.Wchibi,
		u.Gems,
		u.Level,
		u.Experience,
		u.CurrentStage,
		u.TotalWins,
		u.LastOnline,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Top returns users ordered by wCHIBI, ties broken by id.
func (r *UserRepository) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT id, COALESCE(username, ''), COALESCE(first_name, ''), wchibi, level, current_stage, total_wins
		 FROM users
		 ORDER BY wchibi DESC, id ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var res []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.FirstName, &e.Wchibi, &e.Level, &e.CurrentStage, &e.TotalWins); err != nil {
			return nil, mapErr(err)
		}
		e.Rank = len(res) + 1
		res = append(res, e)
	}
	return res, mapErr(rows.Err())
}

func (r *UserRepository) Rank(ctx context.Context, userID int64) (int, int, error) {
	var rank, total int
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM users o WHERE o.wchibi > u.wchibi) + 1,
			(SELECT COUNT(*) FROM users)
		 FROM users u WHERE u.id = $1`, userID,
	).Scan(&rank, &total)
	if err != nil {
		return 0, 0, mapErr(err)
	}
	return rank, total, nil
}
