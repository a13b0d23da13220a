package repository

import (
	"context"

	"chiblets_lite/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const speciesColumns = `id, name, type, rarity, base_hp, base_attack, base_defense, sprite, description`

type SpeciesRepository struct {
	db *pgxpool.Pool
}

func NewSpeciesRepository(db *pgxpool.Pool) *SpeciesRepository {
	return &SpeciesRepository{db: db}
}

func scanSpecies(row pgx.Row) (domain.Species, error) {
	var s domain.Species
	err := row.Scan(&s.ID, &s.Name, &s.Type, &s.Rarity, &s.BaseHP, &s.BaseAttack, &s.BaseDefense, &s.Sprite, &s.Description)
	return s, err
}

func (r *SpeciesRepository) list(ctx context.Context, sql string, args ...any) ([]domain.Species, error) {
	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var res []domain.Species
	for rows.Next() {
		s, err := scanSpecies(rows)
		if err != nil {
			return nil, mapErr(err)
		}
		res = append(res, s)
	}
	return res, mapErr(rows.Err())
}

func (r *SpeciesRepository) List(ctx context.Context) ([]domain.Species, error) {
	return r.list(ctx, `SELECT `+speciesColumns+` FROM species ORDER BY id`)
}

func (r *SpeciesRepository) ListByRarity(ctx context.Context, rarity domain.Rarity) ([]domain.Species, error) {
	return r.list(ctx, `SELECT `+speciesColumns+` FROM species WHERE rarity = $1 ORDER BY id`, rarity)
}

func (r *SpeciesRepository) Get(ctx context.Context, id int64) (*domain.Species, error) {
	s, err := scanSpecies(conn(ctx, r.db).QueryRow(ctx, `SELECT `+speciesColumns+` FROM species WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

// Upsert inserts or refreshes a species by name.
func (r *SpeciesRepository) Upsert(ctx context.Context, sp *domain.Species) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO species (name, type, rarity, base_hp, base_attack, base_defense, sprite, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (name) DO UPDATE SET
			type = EXCLUDED.type, rarity = EXCLUDED.rarity,
			base_hp = EXCLUDED.base_hp, base_attack = EXCLUDED.base_attack, base_defense = EXCLUDED.base_defense,
			sprite = EXCLUDED.sprite, description = EXCLUDED.description
		 RETURNING id`,
		sp.Name, sp.Type, sp.Rarity, sp.BaseHP, sp.BaseAttack, sp.BaseDefense, sp.Sprite, sp.Description,
	).Scan(&sp.ID)
	return mapErr(err)
}
