package repository

import (
	"context"
	"sort"

	"chiblets_lite/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const chibletSelect = `SELECT c.id, c.user_id, c.species_id, s.name, s.rarity, c.level, c.experience,
	c.hp, c.max_hp, c.attack, c.defense, c.energy, c.energy_updated_at, c.is_active,
	c.custom_name, c.created_at
	FROM chiblets c JOIN species s ON s.id = c.species_id`

type ChibletRepository struct {
	db *pgxpool.Pool
}

func NewChibletRepository(db *pgxpool.Pool) *ChibletRepository {
	return &ChibletRepository{db: db}
}

func scanChiblet(row pgx.Row) (domain.Chiblet, error) {
	var c domain.Chiblet
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.SpeciesID,
		&c.SpeciesName,
		&c.Rarity,
		&c.Level,
		&c.Experience,
		&c.HP,
		&c.MaxHP,
		&c.Attack,
		&c.Defense,
		&c.Energy,
		&c.EnergyUpdatedAt,
		&c.IsActive,
		&c.CustomName,
		&c.CreatedAt,
	)
	return c, err
}

func (r *ChibletRepository) list(ctx context.Context, sql string, args ...any) ([]domain.Chiblet, error) {
	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var res []domain.Chiblet
	for rows.Next() {
		c, err := scanChiblet(rows)
		if err != nil {
			return nil, mapErr(err)
		}
		res = append(res, c)
	}
	return res, mapErr(rows.Err())
}

func (r *ChibletRepository) Get(ctx context.Context, id int64) (*domain.Chiblet, error) {
	c, err := scanChiblet(conn(ctx, r.db).QueryRow(ctx, chibletSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *ChibletRepository) GetForUpdate(ctx context.Context, ids ...int64) ([]domain.Chiblet, error) {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	res, err := r.list(ctx, chibletSelect+` WHERE c.id = ANY($1) ORDER BY c.id FOR UPDATE OF c`, sorted)
	if err != nil {
		return nil, err
	}
	if len(res) != len(uniq(sorted)) {
		return nil, ErrNotFound
	}
	return res, nil
}

func uniq(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (r *ChibletRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Chiblet, error) {
	return r.list(ctx, chibletSelect+` WHERE c.user_id = $1 ORDER BY c.is_active DESC, c.level DESC, c.id`, userID)
}

func (r *ChibletRepository) ActiveTeam(ctx context.Context, userID int64, forUpdate bool) ([]domain.Chiblet, error) {
	sql := chibletSelect + ` WHERE c.user_id = $1 AND c.is_active ORDER BY c.id`
	if forUpdate {
		sql += ` FOR UPDATE OF c`
	}
	return r.list(ctx, sql, userID)
}

func (r *ChibletRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM chiblets WHERE user_id = $1`, userID).Scan(&n)
	return n, mapErr(err)
}

func (r *ChibletRepository) Create(ctx context.Context, c *domain.Chiblet) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO chiblets
			(user_id, species_id, level, experience, hp, max_hp, attack, defense, energy, energy_updated_at, is_active, custom_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at`,
		c.UserID,
		c.SpeciesID,
		c.Level,
		c.Experience,
		c.HP,
		c.MaxHP,
		c.Attack,
		c.Defense,
		c.Energy,
		c.EnergyUpdatedAt,
		c.IsActive,
		c.CustomName,
	).Scan(&c.ID, &c.CreatedAt)
	return mapErr(err)
}

func (r *ChibletRepository) Update(ctx context.Context, c *domain.Chiblet) error {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE chiblets
		 SET level = $2, experience = $3, hp = $4, max_hp = $5, attack = $6, defense = $7,
		     energy = $8, energy_updated_at = $9, is_active = $10, custom_name = $11
		 WHERE id = $1`,
		c.ID,
		c.Level,
		c.Experience,
		c.HP,
		c.MaxHP,
		c.Attack,
		c.Defense,
		c.Energy,
		c.EnergyUpdatedAt,
		c.IsActive,
		c.CustomName,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ChibletRepository) Delete(ctx context.Context, ids ...int64) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM chiblets WHERE id = ANY($1)`, ids)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() != int64(len(uniq(ids))) {
		return ErrNotFound
	}
	return nil
}

func (r *ChibletRepository) FindOpponents(ctx context.Context, userID int64, minLevel, maxLevel, limit int) ([]domain.Chiblet, error) {
	return r.list(ctx, chibletSelect+`
		WHERE c.user_id <> $1 AND c.level BETWEEN $2 AND $3 AND c.energy > 0 AND c.hp > 0
		ORDER BY c.id
		LIMIT $4`, userID, minLevel, maxLevel, limit)
}
