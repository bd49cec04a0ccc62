// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/platform/database/schema"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// PostgresRepository implements [Repository] on social.comment.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL comment repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListByVideo(context context.Context, videoID string, limit, offset int) ([]*Comment, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.SocialComment.Table, schema.SocialComment.VideoID,
	)

	var total int
	if err := repository.db.QueryRow(context, countQuery, videoID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_comments")
	}

	query := fmt.Sprintf(`
		SELECT %s, a.%s, a.%s, a.%s
		FROM %s c
		JOIN %s a ON a.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s DESC, c.%s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.Qualify("c", schema.SocialComment.Columns()),
		schema.UserAccount.Username, schema.UserAccount.DisplayName, schema.UserAccount.AvatarURL,
		schema.SocialComment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialComment.OwnerID,
		schema.SocialComment.VideoID,
		schema.SocialComment.CreatedAt, schema.SocialComment.ID,
	)

	rows, err := repository.db.Query(context, query, videoID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0, limit)
	for rows.Next() {
		c := &Comment{Author: &Author{}}
		if err := rows.Scan(
			&c.ID, &c.VideoID, &c.OwnerID, &c.Body, &c.CreatedAt, &c.UpdatedAt,
			&c.Author.Username, &c.Author.DisplayName, &c.Author.AvatarURL,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}

	return comments, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.SocialComment.ID, schema.SocialComment.VideoID, schema.SocialComment.OwnerID,
		schema.SocialComment.Body, schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
		schema.SocialComment.Table, schema.SocialComment.ID,
	)

	c := &Comment{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&c.ID, &c.VideoID, &c.OwnerID, &c.Body, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_comment")
	}
	return c, nil
}

func (repository *PostgresRepository) FindOwner(context context.Context, id string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.SocialComment.OwnerID, schema.SocialComment.Table, schema.SocialComment.ID,
	)

	var ownerID string
	if err := repository.db.QueryRow(context, query, id).Scan(&ownerID); err != nil {
		return "", dberr.Wrap(err, "find_comment_owner")
	}
	return ownerID, nil
}

func (repository *PostgresRepository) Create(context context.Context, c *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $5)
	`,
		schema.SocialComment.Table, schema.SocialComment.ID, schema.SocialComment.VideoID,
		schema.SocialComment.OwnerID, schema.SocialComment.Body,
		schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
	)

	if c.ID == "" {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now

	_, err := repository.db.Exec(context, query, c.ID, c.VideoID, c.OwnerID, c.Body, now)
	return dberr.Wrap(err, "create_comment")
}

func (repository *PostgresRepository) Update(context context.Context, c *Comment) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s, %s, %s
	`,
		schema.SocialComment.Table,
		schema.SocialComment.Body, schema.SocialComment.UpdatedAt,
		schema.SocialComment.ID, schema.SocialComment.OwnerID,
		schema.SocialComment.VideoID, schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, c.ID, c.OwnerID, c.Body).Scan(&c.VideoID, &c.CreatedAt, &c.UpdatedAt)
	return dberr.Wrap(err, "update_comment")
}

func (repository *PostgresRepository) Delete(context context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialComment.Table, schema.SocialComment.ID, schema.SocialComment.OwnerID,
	)

	cmd, err := repository.db.Exec(context, query, id, ownerID)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
