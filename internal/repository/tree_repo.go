package repository

import (
	"context"

	"ecogrow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TreeRepository struct {
	db *pgxpool.Pool
}

func NewTreeRepository(db *pgxpool.Pool) *TreeRepository {
	return &TreeRepository{db: db}
}

// Create inserts the tree and fills in the server-side timestamps.
func (r *TreeRepository) Create(ctx context.Context, t *domain.Tree) error {
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO trees (id, user_id, tree_name, growth_level, humidity, soil_condition, total_scans)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		t.ID, t.UserID, t.TreeName, t.GrowthLevel, t.Humidity, string(t.SoilCondition), t.TotalScans,
	).Scan(&t.CreatedAt, &t.UpdatedAt))
}

func (r *TreeRepository) ListByUser(ctx context.Context, userID string) ([]domain.Tree, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id::text, user_id::text, tree_name, growth_level, humidity, soil_condition,
		        total_scans, created_at, updated_at
		 FROM trees
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrees(rows)
}

func scanTrees(rows pgx.Rows) ([]domain.Tree, error) {
	trees := []domain.Tree{}
	for rows.Next() {
		var t domain.Tree
		var soil string
		if err := rows.Scan(&t.ID, &t.UserID, &t.TreeName, &t.GrowthLevel, &t.Humidity, &soil,
			&t.TotalScans, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.SoilCondition = domain.SoilCondition(soil)
		trees = append(trees, t)
	}
	return trees, rows.Err()
}
