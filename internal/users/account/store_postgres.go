// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/database/schema"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/internal/users/auth"
)

// # Repository Implementation

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL account repository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// selectAccount reads the public profile columns only.
var selectAccount = fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s, %s FROM %s`,
	schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
	schema.UserAccount.DisplayName, schema.UserAccount.AvatarURL, schema.UserAccount.CoverImageURL,
	schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	schema.UserAccount.Table,
)

func scanAccount(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.DisplayName,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (repository *PostgresAccountRepository) findBy(context context.Context, column, value, action string) (*auth.User, error) {
	query := selectAccount + fmt.Sprintf(" WHERE %s = $1", column)

	user, err := scanAccount(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
}

/*
FindByID retrieves a user record from the users.account table.

Returns:
  - *auth.User: Profile columns only (no password hash, no refresh fingerprint)
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	return repository.findBy(context, schema.UserAccount.ID, id, "find_account_by_id")
}

func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username, "find_account_by_username")
}

func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*auth.User, error) {
	return repository.findBy(context, schema.UserAccount.Email, email, "find_account_by_email")
}

/*
UpdateProfile syncs the display name and email, refreshing updatedat.

Returns:
  - error: apperr.Conflict on a duplicate email
*/
func (repository *PostgresAccountRepository) UpdateProfile(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.DisplayName, schema.UserAccount.Email, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query, user.ID, user.DisplayName, user.Email).Scan(&user.UpdatedAt)
	if dberr.IsUniqueViolation(err) {
		conflict := apperr.Conflict("Email is already registered")
		conflict.Cause = err
		return conflict
	}
	return dberr.Wrap(err, "update_account_profile")
}

// UpdateImages syncs the avatar and cover image keys.
func (repository *PostgresAccountRepository) UpdateImages(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.AvatarURL, schema.UserAccount.CoverImageURL, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query, user.ID, user.AvatarURL, user.CoverImageURL).Scan(&user.UpdatedAt)
	return dberr.Wrap(err, "update_account_images")
}
