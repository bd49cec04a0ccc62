// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/platform/database/schema"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/pkg/query"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// PostgresRepository implements [Repository] on media.video.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL video repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// sortColumns maps public sort keys onto columns.
var sortColumns = map[string]string{
	SortCreatedAt: schema.MediaVideo.CreatedAt,
	SortTitle:     schema.MediaVideo.Title,
	SortViews:     schema.MediaVideo.Views,
}

// selectVideo joins the owner summary onto every read.
var selectVideo = fmt.Sprintf(`
		SELECT %s, a.%s, a.%s, a.%s
		FROM %s v
		JOIN %s a ON a.%s = v.%s`,
	schema.Qualify("v", schema.MediaVideo.Columns()),
	schema.UserAccount.Username, schema.UserAccount.DisplayName, schema.UserAccount.AvatarURL,
	schema.MediaVideo.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.MediaVideo.OwnerID,
)

func scanVideo(row pgx.Row) (*Video, error) {
	v := &Video{Owner: &Channel{}}
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.VideoKey, &v.ThumbnailKey, &v.Title, &v.Description,
		&v.DurationSec, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
		&v.Owner.Username, &v.Owner.DisplayName, &v.Owner.AvatarURL,
	)
	v.Owner.ID = v.OwnerID
	return v, err
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Video, int, error) {
	var (
		where []string
		args  []any
	)

	if !f.IncludeDrafts {
		where = append(where, fmt.Sprintf("v.%s = TRUE", schema.MediaVideo.IsPublished))
	}

	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		where = append(where, fmt.Sprintf("v.%s = $%d", schema.MediaVideo.OwnerID, len(args)))
	}

	if f.Query != "" {
		args = append(args, "%"+query.EscapeLike(f.Query)+"%")
		where = append(where, fmt.Sprintf("v.%s ILIKE $%d", schema.MediaVideo.Title, len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s v%s`, schema.MediaVideo.Table, clause)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_videos")
	}

	column, ok := sortColumns[f.Sort.Field]
	if !ok {
		column = schema.MediaVideo.CreatedAt
	}

	// The id tiebreaker keeps pages stable when the sort column repeats
	listQuery := selectVideo + clause + fmt.Sprintf(
		" ORDER BY v.%s %s, v.%s %s LIMIT $%s OFFSET $%s",
		column, f.Sort.Direction(), schema.MediaVideo.ID, f.Sort.Direction(),
		itos(len(args)+1), itos(len(args)+2),
	)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_videos")
	}
	defer rows.Close()

	videos := make([]*Video, 0, limit)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_video")
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_videos")
	}

	return videos, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Video, error) {
	query := selectVideo + fmt.Sprintf(" WHERE v.%s = $1", schema.MediaVideo.ID)

	v, err := scanVideo(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_video")
	}
	return v, nil
}

func (repository *PostgresRepository) FindOwner(context context.Context, id string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.MediaVideo.OwnerID, schema.MediaVideo.Table, schema.MediaVideo.ID,
	)

	var ownerID string
	if err := repository.db.QueryRow(context, query, id).Scan(&ownerID); err != nil {
		return "", dberr.Wrap(err, "find_video_owner")
	}
	return ownerID, nil
}

func (repository *PostgresRepository) Create(context context.Context, v *Video) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $9)
	`,
		schema.MediaVideo.Table, schema.MediaVideo.ID, schema.MediaVideo.OwnerID,
		schema.MediaVideo.VideoKey, schema.MediaVideo.ThumbKey, schema.MediaVideo.Title,
		schema.MediaVideo.Description, schema.MediaVideo.DurationSec, schema.MediaVideo.Views,
		schema.MediaVideo.IsPublished, schema.MediaVideo.CreatedAt, schema.MediaVideo.UpdatedAt,
	)

	if v.ID == "" {
		v.ID = uuid.New()
	}
	now := time.Now()
	v.CreatedAt, v.UpdatedAt = now, now

	_, err := repository.db.Exec(context, query,
		v.ID, v.OwnerID, v.VideoKey, v.ThumbnailKey, v.Title, v.Description, v.DurationSec,
		v.IsPublished, now,
	)
	return dberr.Wrap(err, "create_video")
}

func (repository *PostgresRepository) Update(context context.Context, v *Video) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		schema.MediaVideo.Table,
		schema.MediaVideo.Title, schema.MediaVideo.Description, schema.MediaVideo.ThumbKey,
		schema.MediaVideo.UpdatedAt,
		schema.MediaVideo.ID, schema.MediaVideo.OwnerID,
		schema.MediaVideo.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		v.ID, v.OwnerID, v.Title, v.Description, v.ThumbnailKey,
	).Scan(&v.UpdatedAt)
	return dberr.Wrap(err, "update_video")
}

func (repository *PostgresRepository) SetPublished(context context.Context, id, ownerID string, published bool) (*Video, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = NOW()
		WHERE %s = $1 AND %s = $2
	`,
		schema.MediaVideo.Table,
		schema.MediaVideo.IsPublished, schema.MediaVideo.UpdatedAt,
		schema.MediaVideo.ID, schema.MediaVideo.OwnerID,
	)

	cmd, err := repository.db.Exec(context, query, id, ownerID, published)
	if err != nil {
		return nil, dberr.Wrap(err, "set_video_published")
	}
	if cmd.RowsAffected() == 0 {
		return nil, dberr.ErrNotFound
	}

	return repository.FindByID(context, id)
}

func (repository *PostgresRepository) Delete(context context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.MediaVideo.Table, schema.MediaVideo.ID, schema.MediaVideo.OwnerID,
	)

	cmd, err := repository.db.Exec(context, query, id, ownerID)
	if err != nil {
		return dberr.Wrap(err, "delete_video")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) IncrementViews(context context.Context, id string) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1 RETURNING %s`,
		schema.MediaVideo.Table, schema.MediaVideo.Views, schema.MediaVideo.Views,
		schema.MediaVideo.ID, schema.MediaVideo.Views,
	)

	var views int64
	if err := repository.db.QueryRow(context, query, id).Scan(&views); err != nil {
		return 0, dberr.Wrap(err, "increment_video_views")
	}
	return views, nil
}

func itos(i int) string {
	return strconv.Itoa(i)
}
