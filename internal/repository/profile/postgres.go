package profile

import (
	"context"
	"errors"
	"io"
	"log"

	"farmpos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	const q = `
SELECT user_id, email, role, created_at
FROM profiles
WHERE user_id = $1
`
	var p domain.Profile
	err := r.pool.QueryRow(ctx, q, userID).Scan(&p.UserID, &p.Email, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("profile repo: get user_id=%s error=%v", userID, err)
		return nil, err
	}
	return &p, nil
}

// Upsert mirrors an externally-issued identity into the local profiles
// table. Role defaults to customer and is never downgraded here; role
// management belongs to an admin surface.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	role := p.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	const q = `
INSERT INTO profiles (user_id, email, role)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET email = EXCLUDED.email
RETURNING user_id, email, role, created_at
`
	var res domain.Profile
	err := r.pool.QueryRow(ctx, q, p.UserID, p.Email, role).Scan(&res.UserID, &res.Email, &res.Role, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("profile repo: upsert user_id=%s error=%v", p.UserID, err)
		return nil, err
	}
	return &res, nil
}
