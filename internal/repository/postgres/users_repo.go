package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thisisamish/cashcard-api/internal/models"
)

type usersRepo struct{ pool *pgxpool.Pool }

// isUniqueViolation reports whether err is a SQLSTATE 23505 from the
// driver (username or email already taken).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *usersRepo) Create(ctx context.Context, username, email, passwordHash, role string) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users(id, username, email, password_hash, role)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, username, email, password_hash, role, created_at, updated_at`,
		uuid.NewString(), username, email, passwordHash, role,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return models.User{}, models.ErrDuplicate
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.get(ctx, `WHERE id=$1`, id)
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return r.get(ctx, `WHERE username=$1`, username)
}

func (r *usersRepo) get(ctx context.Context, where string, arg any) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, role, created_at, updated_at FROM users `+where,
		arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, email, password_hash, role, created_at, updated_at
		   FROM users
		  ORDER BY created_at DESC
		  LIMIT 100`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
