package repository

import (
	"context"

	"ecogrow/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoleRepository struct {
	db *pgxpool.Pool
}

func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) HasRole(ctx context.Context, userID string, role domain.Role) (bool, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_roles WHERE user_id = $1 AND role = $2`,
		userID, string(role),
	).Scan(&n)
	if err != nil {
		return false, err
	}
	if n > 1 {
		return false, ErrMultipleRows
	}
	return n == 1, nil
}

// Grant inserts a grant row; a concurrent duplicate surfaces as ErrDuplicate.
func (r *RoleRepository) Grant(ctx context.Context, userID string, role domain.Role) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_roles (id, user_id, role) VALUES ($1, $2, $3)`,
		uuid.NewString(), userID, string(role),
	)
	return mapErr(err)
}

// Revoke deletes matching grants. Deleting nothing is not an error.
func (r *RoleRepository) Revoke(ctx context.Context, userID string, role domain.Role) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role = $2`,
		userID, string(role),
	)
	return err
}

func (r *RoleRepository) ListUserIDs(ctx context.Context, role domain.Role) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id::text FROM user_roles WHERE role = $1`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
