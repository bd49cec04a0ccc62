// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/platform/database/schema"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// PostgresRepository implements [Repository] on social.subscription.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL subscription repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Find(context context.Context, subscriberID, channelID string) (*Subscription, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialSubscription.ID, schema.SocialSubscription.SubscriberID,
		schema.SocialSubscription.ChannelID, schema.SocialSubscription.CreatedAt,
		schema.SocialSubscription.Table,
		schema.SocialSubscription.SubscriberID, schema.SocialSubscription.ChannelID,
	)

	s := &Subscription{}
	err := repository.db.QueryRow(context, query, subscriberID, channelID).Scan(
		&s.ID, &s.SubscriberID, &s.ChannelID, &s.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_subscription")
	}
	return s, nil
}

func (repository *PostgresRepository) FindOwner(context context.Context, id string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.SocialSubscription.SubscriberID, schema.SocialSubscription.Table, schema.SocialSubscription.ID,
	)

	var subscriberID string
	if err := repository.db.QueryRow(context, query, id).Scan(&subscriberID); err != nil {
		return "", dberr.Wrap(err, "find_subscription_owner")
	}
	return subscriberID, nil
}

func (repository *PostgresRepository) Create(context context.Context, s *Subscription) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.SocialSubscription.Table,
		schema.SocialSubscription.ID, schema.SocialSubscription.SubscriberID,
		schema.SocialSubscription.ChannelID, schema.SocialSubscription.CreatedAt,
	)

	if s.ID == "" {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()

	_, err := repository.db.Exec(context, query, s.ID, s.SubscriberID, s.ChannelID, s.CreatedAt)
	return dberr.Wrap(err, "create_subscription")
}

func (repository *PostgresRepository) Delete(context context.Context, id, subscriberID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialSubscription.Table, schema.SocialSubscription.ID, schema.SocialSubscription.SubscriberID,
	)

	cmd, err := repository.db.Exec(context, query, id, subscriberID)
	if err != nil {
		return dberr.Wrap(err, "delete_subscription")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) ListSubscribers(context context.Context, channelID string, limit, offset int) ([]*Member, int, error) {
	// Subscribers are the accounts on the subscriber side of rows for this channel
	return repository.listMembers(context,
		schema.SocialSubscription.ChannelID, schema.SocialSubscription.SubscriberID,
		channelID, limit, offset, "list_subscribers",
	)
}

func (repository *PostgresRepository) ListChannels(context context.Context, subscriberID string, limit, offset int) ([]*Member, int, error) {
	return repository.listMembers(context,
		schema.SocialSubscription.SubscriberID, schema.SocialSubscription.ChannelID,
		subscriberID, limit, offset, "list_subscribed_channels",
	)
}

// listMembers filters rows on filterColumn and joins the account referenced by memberColumn.
func (repository *PostgresRepository) listMembers(context context.Context, filterColumn, memberColumn, id string, limit, offset int, action string) ([]*Member, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, schema.SocialSubscription.Table, filterColumn)

	var total int
	if err := repository.db.QueryRow(context, countQuery, id).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}

	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, s.%s
		FROM %s s
		JOIN %s a ON a.%s = s.%s
		WHERE s.%s = $1
		ORDER BY s.%s DESC, s.%s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.DisplayName,
		schema.UserAccount.AvatarURL, schema.SocialSubscription.CreatedAt,
		schema.SocialSubscription.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, memberColumn,
		filterColumn,
		schema.SocialSubscription.CreatedAt, schema.SocialSubscription.ID,
	)

	rows, err := repository.db.Query(context, query, id, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	defer rows.Close()

	members := make([]*Member, 0, limit)
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ID, &m.Username, &m.DisplayName, &m.AvatarURL, &m.SubscribedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_member")
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}

	return members, total, nil
}

func (repository *PostgresRepository) CountSubscribers(context context.Context, channelID string) (int, error) {
	return repository.count(context, schema.SocialSubscription.ChannelID, channelID, "count_subscribers")
}

func (repository *PostgresRepository) CountChannels(context context.Context, subscriberID string) (int, error) {
	return repository.count(context, schema.SocialSubscription.SubscriberID, subscriberID, "count_subscribed_channels")
}

func (repository *PostgresRepository) count(context context.Context, column, id, action string) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, schema.SocialSubscription.Table, column)

	var total int
	if err := repository.db.QueryRow(context, query, id).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, action)
	}
	return total, nil
}
