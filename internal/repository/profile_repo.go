package repository

import (
	"context"

	"ecogrow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `id::text, full_name, location, eco_coins, badges, created_at, updated_at`

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE id = $1`,
		id,
	)
	p, err := scanProfile(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	if p.Badges == nil {
		p.Badges = []string{}
	}
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO profiles (id, full_name, location, eco_coins, badges)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		p.ID, p.FullName, p.Location, p.EcoCoins, p.Badges,
	).Scan(&p.CreatedAt, &p.UpdatedAt))
}

func (r *ProfileRepository) Update(ctx context.Context, id, fullName string, location *string) (*domain.Profile, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE profiles
		 SET full_name = $2, location = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING `+profileColumns,
		id, fullName, location,
	)
	p, err := scanProfile(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

// SetCoins writes an absolute balance computed by the caller.
func (r *ProfileRepository) SetCoins(ctx context.Context, id string, coins int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET eco_coins = $2, updated_at = now() WHERE id = $1`,
		id, coins,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) IncrementCoins(ctx context.Context, id string, amount int64) error {
	_, err := r.db.Exec(ctx, `SELECT increment_eco_coins($1, $2)`, id, amount)
	return err
}

func (r *ProfileRepository) GetRank(ctx context.Context, id string) (*domain.Rank, error) {
	var rank domain.Rank
	err := r.db.QueryRow(ctx,
		`SELECT rank, total_users FROM get_user_rank($1)`, id,
	).Scan(&rank.Rank, &rank.TotalUsers)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rank, nil
}

// ListByCoins returns every profile for the leaderboard, richest first and
// earliest sign-up first among ties.
func (r *ProfileRepository) ListByCoins(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 ORDER BY eco_coins DESC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func (r *ProfileRepository) ListNewest(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Location,
		&p.EcoCoins,
		&p.Badges,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if p.Badges == nil {
		p.Badges = []string{}
	}
	return &p, nil
}

func scanProfiles(rows pgx.Rows) ([]domain.Profile, error) {
	res := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *p)
	}
	return res, rows.Err()
}
