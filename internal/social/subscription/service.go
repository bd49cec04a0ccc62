// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/authz"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// Service orchestrates subscriptions between users and channels.
type Service struct {
	repo    Repository
	users   UserLookup
	counter *SubscriberCounter
	logger  *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, users UserLookup, counter *SubscriberCounter, logger *slog.Logger) *Service {
	return &Service{repo: repo, users: users, counter: counter, logger: logger}
}

/*
Toggle subscribes the caller to a channel, or unsubscribes if already subscribed.

Parameters:
  - context: context.Context
  - identity: *sec.AccessClaims
  - channelID: string (UUID of the channel's account)

Returns:
  - *ToggleResult: New state and fresh subscriber count
  - error: VALIDATION_ERROR for self-subscription, NOT_FOUND for an unknown channel
*/
func (service *Service) Toggle(context context.Context, identity *sec.AccessClaims, channelID string) (*ToggleResult, error) {
	if identity == nil {
		return nil, apperr.MissingCredential()
	}

	if err := service.requireChannel(context, channelID); err != nil {
		return nil, err
	}

	if channelID == identity.UserID {
		return nil, validate.RequiredError(FieldChannelID, "You cannot subscribe to your own channel")
	}

	existing, err := service.repo.Find(context, identity.UserID, channelID)
	switch {
	case err == nil:
		if err := service.unsubscribe(context, identity, existing); err != nil {
			return nil, err
		}
	case apperr.HasCode(err, apperr.CodeNotFound):
		if err := service.subscribe(context, identity, channelID); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	service.counter.Invalidate(context, channelID)

	count, err := service.counter.Count(context, channelID)
	if err != nil {
		return nil, err
	}

	return &ToggleResult{Subscribed: existing == nil, Subscribers: count}, nil
}

func (service *Service) subscribe(context context.Context, identity *sec.AccessClaims, channelID string) error {
	subscription := &Subscription{SubscriberID: identity.UserID, ChannelID: channelID}

	err := service.repo.Create(context, subscription)

	// A concurrent toggle already created the row; the end state is the same
	if apperr.HasCode(err, apperr.CodeConflict) {
		return nil
	}
	if err != nil {
		return err
	}

	service.logger.Info("channel_subscribed",
		slog.String("subscriber_id", identity.UserID),
		slog.String("channel_id", channelID),
	)
	return nil
}

func (service *Service) unsubscribe(context context.Context, identity *sec.AccessClaims, existing *Subscription) error {
	ownerID, err := service.repo.FindOwner(context, existing.ID)
	if err != nil {
		return err
	}

	if err := authz.AuthorizeOwnerMutation(identity, ownerID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, existing.ID, identity.UserID); err != nil {
		return err
	}

	service.logger.Info("channel_unsubscribed",
		slog.String("subscriber_id", identity.UserID),
		slog.String("channel_id", existing.ChannelID),
	)
	return nil
}

// Subscribers lists the accounts subscribed to a channel.
func (service *Service) Subscribers(context context.Context, channelID string, limit, offset int) ([]*Member, int, error) {
	if err := service.requireChannel(context, channelID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListSubscribers(context, channelID, limit, offset)
}

// Channels lists the channels a user subscribes to.
func (service *Service) Channels(context context.Context, subscriberID string, limit, offset int) ([]*Member, int, error) {
	if err := service.requireChannel(context, subscriberID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListChannels(context, subscriberID, limit, offset)
}

/*
Stats computes the counters shown on a channel profile.

Parameters:
  - context: context.Context
  - channelID: string
  - viewerID: string (empty for anonymous viewers)

Returns:
  - *ChannelStats
  - error: Storage failures
*/
func (service *Service) Stats(context context.Context, channelID, viewerID string) (*ChannelStats, error) {
	subscribers, err := service.counter.Count(context, channelID)
	if err != nil {
		return nil, err
	}

	subscribedTo, err := service.repo.CountChannels(context, channelID)
	if err != nil {
		return nil, err
	}

	stats := &ChannelStats{Subscribers: subscribers, SubscribedTo: subscribedTo}

	if viewerID != "" && viewerID != channelID {
		_, err := service.repo.Find(context, viewerID, channelID)
		switch {
		case err == nil:
			stats.IsSubscribed = true
		case !apperr.HasCode(err, apperr.CodeNotFound):
			return nil, err
		}
	}

	return stats, nil
}

func (service *Service) requireChannel(context context.Context, channelID string) error {
	if !uuid.Valid(channelID) {
		return apperr.NotFound("Channel")
	}

	if _, err := service.users.FindByID(context, channelID); err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return apperr.NotFound("Channel")
		}
		return err
	}
	return nil
}
