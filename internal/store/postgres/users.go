package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Orka-kun/Users-API/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersStore struct {
	pool *pgxpool.Pool
}

func NewUsersStore(pool *pgxpool.Pool) *UsersStore {
	return &UsersStore{pool: pool}
}

func (s *UsersStore) CreateUser(ctx context.Context, id, name, email, passwordHash string) (domain.User, error) {
	const q = `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, status, created_at, updated_at, last_login_at
	`

	var (
		u           domain.User
		idUUID      pgtype.UUID
		lastLoginTS pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, q, id, name, email, passwordHash).Scan(
		&idUUID,
		&u.Name,
		&u.Email,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLoginTS,
	)
	if err != nil {
		return domain.User{}, mapUserWriteError(err)
	}

	u.ID = uuidOrEmpty(idUUID)
	u.LastLoginAt = timestamptzPtr(lastLoginTS)
	return u, nil
}

func (s *UsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	const q = `
		SELECT id, name, email, status, created_at, updated_at, last_login_at
		FROM users
		WHERE id = $1
	`

	var (
		u           domain.User
		idUUID      pgtype.UUID
		lastLoginTS pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&idUUID,
		&u.Name,
		&u.Email,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLoginTS,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}

	u.ID = uuidOrEmpty(idUUID)
	u.LastLoginAt = timestamptzPtr(lastLoginTS)
	return u, nil
}

func (s *UsersStore) GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error) {
	const q = `
		SELECT id, name, email, password_hash, status, created_at, updated_at, last_login_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`

	var (
		u           domain.UserWithPassword
		idUUID      pgtype.UUID
		lastLoginTS pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, q, email).Scan(
		&idUUID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLoginTS,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		}
		return domain.UserWithPassword{}, fmt.Errorf("get user by email: %w", err)
	}

	u.ID = uuidOrEmpty(idUUID)
	u.LastLoginAt = timestamptzPtr(lastLoginTS)
	return u, nil
}

// ListUsers returns every account, most recently authenticated first.
// Accounts that never logged in sort last.
func (s *UsersStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	const q = `
		SELECT id, name, email, status, created_at, updated_at, last_login_at
		FROM users
		ORDER BY last_login_at DESC NULLS LAST, created_at DESC
	`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var (
			u           domain.User
			idUUID      pgtype.UUID
			lastLoginTS pgtype.Timestamptz
		)
		if err := rows.Scan(&idUUID, &u.Name, &u.Email, &u.Status, &u.CreatedAt, &u.UpdatedAt, &lastLoginTS); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.ID = uuidOrEmpty(idUUID)
		u.LastLoginAt = timestamptzPtr(lastLoginTS)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return out, nil
}

func (s *UsersStore) SetLastLogin(ctx context.Context, userID string, when time.Time) error {
	const q = `
		UPDATE users
		SET last_login_at = $2, updated_at = now()
		WHERE id = $1
	`
	_, err := s.pool.Exec(ctx, q, userID, when)
	if err != nil {
		return fmt.Errorf("set last login: %w", err)
	}
	return nil
}

// SetUsersStatus updates the whole id set in one statement; ids that match
// no row are skipped by the database, not reported.
func (s *UsersStore) SetUsersStatus(ctx context.Context, ids []string, status domain.UserStatus) error {
	const q = `
		UPDATE users
		SET status = $2, updated_at = now()
		WHERE id = ANY($1)
	`
	_, err := s.pool.Exec(ctx, q, ids, status)
	if err != nil {
		return fmt.Errorf("set users status: %w", err)
	}
	return nil
}

// DeleteUsers hard-deletes the whole id set in one statement. Emails of
// deleted rows become available for registration again.
func (s *UsersStore) DeleteUsers(ctx context.Context, ids []string) error {
	const q = `
		DELETE FROM users
		WHERE id = ANY($1)
	`
	_, err := s.pool.Exec(ctx, q, ids)
	if err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	return nil
}

func mapUserWriteError(err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		if pgerr.ConstraintName == "users_email_uq" {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("unique violation (%s): %w", pgerr.ConstraintName, err)
	}
	return fmt.Errorf("create user: %w", err)
}
