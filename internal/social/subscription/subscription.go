// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package subscription links users to the channels they follow.

A channel is simply a user account. The subscriber side of the relation is
the owner: only the subscriber may remove a subscription.

# Architecture

  - Entities: Subscription, Member (user summary), ChannelStats.
  - Storage: social.subscription, unique on (subscriberid, channelid).
  - Cache: per-channel subscriber counts in Redis, filled through singleflight.
*/
package subscription

import (
	"context"
	"time"

	"github.com/taibuivan/vidora/internal/users/auth"
)

// # Domain Entities

// Subscription is one user following one channel.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriber_id"`
	ChannelID    string    `json:"channel_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Member is a user on either side of a subscription list.
type Member struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// ChannelStats summarises a channel for its public profile.
type ChannelStats struct {
	Subscribers  int  `json:"subscribers_count"`
	SubscribedTo int  `json:"subscribed_to_count"`
	IsSubscribed bool `json:"is_subscribed"`
}

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	Subscribed  bool `json:"subscribed"`
	Subscribers int  `json:"subscribers_count"`
}

// # Contracts

// UserLookup resolves channel accounts. The auth user repository satisfies it.
type UserLookup interface {
	FindByID(context context.Context, id string) (*auth.User, error)
}

// Repository defines the persistence contract for subscriptions.
type Repository interface {
	// Find returns the subscription of subscriberID to channelID, or NOT_FOUND.
	Find(context context.Context, subscriberID, channelID string) (*Subscription, error)

	// FindOwner returns the subscriber of a subscription.
	FindOwner(context context.Context, id string) (string, error)

	Create(context context.Context, subscription *Subscription) error
	Delete(context context.Context, id, subscriberID string) error

	ListSubscribers(context context.Context, channelID string, limit, offset int) ([]*Member, int, error)
	ListChannels(context context.Context, subscriberID string, limit, offset int) ([]*Member, int, error)

	CountSubscribers(context context.Context, channelID string) (int, error)
	CountChannels(context context.Context, subscriberID string) (int, error)
}

// Field names for validation
const (
	FieldChannelID = "channel_id"
)
