// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/database/schema"
	"github.com/taibuivan/vidora/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// selectUser is shared by every lookup so the scan order never drifts.
const selectUser = `
		SELECT id, username, email, passwordhash, displayname, avatarurl, coverimageurl,
		       COALESCE(refreshtoken, ''), createdat, updatedat
		FROM users.account`

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

/*
Create persists a new user record into the users.account table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on a duplicate username or email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, displayname, avatarurl, coverimageurl, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.AvatarURL,
		user.CoverImageURL,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if conflict := createConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// createConflict names the colliding field of a unique violation on insert, or returns nil.
func createConflict(err error) *apperr.AppError {
	if !dberr.IsUniqueViolation(err) {
		return nil
	}

	var conflict *apperr.AppError
	switch dberr.ConstraintName(err) {
	case schema.UserAccount.UsernameKey:
		conflict = apperr.Conflict("Username is already taken")
	case schema.UserAccount.EmailKey:
		conflict = apperr.Conflict("Email is already registered")
	default:
		conflict = apperr.Conflict("Username or email is already registered")
	}
	conflict.Cause = err
	return conflict
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string (canonical form)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	user, err := scanUser(repository.pool.QueryRow(context, selectUser+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}
	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string (canonical form)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	user, err := scanUser(repository.pool.QueryRow(context, selectUser+` WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}
	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	user, err := scanUser(repository.pool.QueryRow(context, selectUser+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}
	return user, nil
}

/*
UpdatePassword replaces the password hash and drops the outstanding refresh token.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, refreshtoken = NULL, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// # Session Record

/*
SetRefreshToken overwrites the stored refresh token fingerprint.

Description: Used on login. Whatever was stored before is invalidated.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) SetRefreshToken(context context.Context, userID, tokenHash string) error {
	const query = `UPDATE users.account SET refreshtoken = $2 WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, tokenHash)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_refresh_token_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

/*
SwapRefreshToken atomically replaces the stored fingerprint if it still equals currentHash.

Description: A single conditional UPDATE; PostgreSQL's row lock serializes
concurrent callers so at most one of them sees a non-zero row count.

Parameters:
  - context: context.Context
  - userID: string
  - currentHash: string
  - nextHash: string

Returns:
  - bool: true when the swap happened
  - error: execution errors
*/
func (repository *PostgresUserRepository) SwapRefreshToken(context context.Context, userID, currentHash, nextHash string) (bool, error) {
	const query = `
		UPDATE users.account
		SET refreshtoken = $3
		WHERE id = $1 AND refreshtoken = $2`

	tag, err := repository.pool.Exec(context, query, userID, currentHash, nextHash)
	if err != nil {
		return false, fmt.Errorf("postgres_user_repo_swap_refresh_token_failed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

/*
ClearRefreshToken removes the stored fingerprint.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: execution errors
*/
func (repository *PostgresUserRepository) ClearRefreshToken(context context.Context, userID string) error {
	const query = `UPDATE users.account SET refreshtoken = NULL WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_user_repo_clear_refresh_token_failed: %w", err)
	}
	return nil
}
