package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/a1-en/E-Shoe-Store/internal/domain/user"
	apperrors "github.com/a1-en/E-Shoe-Store/pkg/errors"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const createUserQuery = `
INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.Pool.Exec(ctx, createUserQuery,
		toPgUUID(u.ID),
		u.Username,
		u.Email,
		u.PasswordHash,
		pgtype.Timestamptz{Time: u.CreatedAt, Valid: true},
		pgtype.Timestamptz{Time: u.UpdatedAt, Valid: true},
	)
	if err != nil {
		if isPgUniqueViolation(err) {
			if strings.Contains(constraintName(err), "username") {
				return apperrors.ErrUsernameTaken
			}
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

const getUserQuery = `
SELECT id, username, email, password_hash, created_at, updated_at, last_login_at
FROM users`

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	row := r.db.Pool.QueryRow(ctx, getUserQuery+" WHERE id = $1", toPgUUID(id))
	u, err := r.scanUser(row)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by ID")
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.db.Pool.QueryRow(ctx, getUserQuery+" WHERE email = $1", email)
	u, err := r.scanUser(row)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by email")
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email,
	).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check user existence by email")
	}
	return exists, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username,
	).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check user existence by username")
	}
	return exists, nil
}

const updateUserQuery = `
UPDATE users
SET username = $2, email = $3, password_hash = $4, updated_at = $5
WHERE id = $1`

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	_, err := r.db.Pool.Exec(ctx, updateUserQuery,
		toPgUUID(u.ID),
		u.Username,
		u.Email,
		u.PasswordHash,
		pgtype.Timestamptz{Time: u.UpdatedAt, Valid: true},
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user")
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Pool.Exec(ctx,
		"UPDATE users SET last_login_at = now() WHERE id = $1", toPgUUID(id),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update last login")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row rowScanner) (*user.User, error) {
	var (
		id          pgtype.UUID
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
		lastLoginAt pgtype.Timestamptz
		u           user.User
	)

	err := row.Scan(&id, &u.Username, &u.Email, &u.PasswordHash, &createdAt, &updatedAt, &lastLoginAt)
	if err != nil {
		return nil, err
	}

	u.ID = fromPgUUID(id)
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	if lastLoginAt.Valid {
		t := lastLoginAt.Time
		u.LastLoginAt = &t
	}

	return &u, nil
}
