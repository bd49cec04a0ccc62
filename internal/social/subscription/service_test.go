// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/internal/social/subscription"
	"github.com/taibuivan/vidora/internal/users/auth"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// # In-memory Fakes

type memoryUsers map[string]*auth.User

func (m memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := m[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

type memorySubscriptions struct {
	mu    sync.Mutex
	rows  map[string]subscription.Subscription
	users memoryUsers
}

func (m *memorySubscriptions) Find(_ context.Context, subscriberID, channelID string) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.SubscriberID == subscriberID && s.ChannelID == channelID {
			found := s
			return &found, nil
		}
	}
	return nil, apperr.NotFound("Subscription")
}

func (m *memorySubscriptions) FindOwner(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return "", apperr.NotFound("Subscription")
	}
	return s.SubscriberID, nil
}

func (m *memorySubscriptions) Create(_ context.Context, s *subscription.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.SubscriberID == s.SubscriberID && existing.ChannelID == s.ChannelID {
			return apperr.Conflict("Resource already exists")
		}
	}
	s.ID, s.CreatedAt = uuid.New(), time.Now()
	m.rows[s.ID] = *s
	return nil
}

func (m *memorySubscriptions) Delete(_ context.Context, id, subscriberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok || s.SubscriberID != subscriberID {
		return apperr.NotFound("Subscription")
	}
	delete(m.rows, id)
	return nil
}

func (m *memorySubscriptions) members(match func(subscription.Subscription) (string, bool)) []*subscription.Member {
	m.mu.Lock()
	defer m.mu.Unlock()
	var members []*subscription.Member
	for _, s := range m.rows {
		if id, ok := match(s); ok {
			user := m.users[id]
			members = append(members, &subscription.Member{ID: id, Username: user.Username, SubscribedAt: s.CreatedAt})
		}
	}
	return members
}

func (m *memorySubscriptions) ListSubscribers(_ context.Context, channelID string, _, _ int) ([]*subscription.Member, int, error) {
	members := m.members(func(s subscription.Subscription) (string, bool) {
		return s.SubscriberID, s.ChannelID == channelID
	})
	return members, len(members), nil
}

func (m *memorySubscriptions) ListChannels(_ context.Context, subscriberID string, _, _ int) ([]*subscription.Member, int, error) {
	members := m.members(func(s subscription.Subscription) (string, bool) {
		return s.ChannelID, s.SubscriberID == subscriberID
	})
	return members, len(members), nil
}

func (m *memorySubscriptions) CountSubscribers(ctx context.Context, channelID string) (int, error) {
	_, total, err := m.ListSubscribers(ctx, channelID, 0, 0)
	return total, err
}

func (m *memorySubscriptions) CountChannels(ctx context.Context, subscriberID string) (int, error) {
	_, total, err := m.ListChannels(ctx, subscriberID, 0, 0)
	return total, err
}

// memoryCache is a CountCache without expiry.
type memoryCache struct {
	mu     sync.Mutex
	values map[string]int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]int{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value int, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

// # Fixtures

type fixture struct {
	repo    *memorySubscriptions
	cache   *memoryCache
	service *subscription.Service
	alice   *sec.AccessClaims
	bob     *sec.AccessClaims
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	alice := &sec.AccessClaims{UserID: uuid.New(), Username: "alice"}
	bob := &sec.AccessClaims{UserID: uuid.New(), Username: "bob"}
	users := memoryUsers{
		alice.UserID: {ID: alice.UserID, Username: "alice"},
		bob.UserID:   {ID: bob.UserID, Username: "bob"},
	}

	repo := &memorySubscriptions{rows: map[string]subscription.Subscription{}, users: users}
	cache := newMemoryCache()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	counter := subscription.NewSubscriberCounter(repo, cache, logger)

	return &fixture{
		repo:    repo,
		cache:   cache,
		service: subscription.NewService(repo, users, counter, logger),
		alice:   alice,
		bob:     bob,
	}
}

/*
TestToggle_SubscribeAndUnsubscribe verifies the toggle and the cached count stay in step.
*/
func TestToggle_SubscribeAndUnsubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Toggle(ctx, f.bob, f.alice.UserID)
	require.NoError(t, err)
	assert.True(t, result.Subscribed)
	assert.Equal(t, 1, result.Subscribers)

	stats, err := f.service.Stats(ctx, f.alice.UserID, f.bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Subscribers)
	assert.True(t, stats.IsSubscribed)

	result, err = f.service.Toggle(ctx, f.bob, f.alice.UserID)
	require.NoError(t, err)
	assert.False(t, result.Subscribed)
	assert.Equal(t, 0, result.Subscribers)

	stats, err = f.service.Stats(ctx, f.alice.UserID, f.bob.UserID)
	require.NoError(t, err)
	assert.False(t, stats.IsSubscribed)

	bobStats, err := f.service.Stats(ctx, f.bob.UserID, "")
	require.NoError(t, err)
	assert.Equal(t, 0, bobStats.SubscribedTo)
}

/*
TestToggle_Rejections covers self-subscription and unknown channels.
*/
func TestToggle_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Toggle(ctx, f.alice, f.alice.UserID)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = f.service.Toggle(ctx, f.alice, uuid.New())
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = f.service.Toggle(ctx, f.alice, "nope")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = f.service.Toggle(ctx, nil, f.bob.UserID)
	assert.True(t, apperr.HasCode(err, apperr.CodeMissingCredential))
}

/*
TestLists verifies both directions of the relation.
*/
func TestLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Toggle(ctx, f.bob, f.alice.UserID)
	require.NoError(t, err)

	subscribers, total, err := f.service.Subscribers(ctx, f.alice.UserID, 20, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "bob", subscribers[0].Username)

	channels, total, err := f.service.Channels(ctx, f.bob.UserID, 20, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "alice", channels[0].Username)
}

// # Counter

// slowSource counts calls and blocks until released.
type slowSource struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *slowSource) CountSubscribers(_ context.Context, _ string) (int, error) {
	s.calls.Add(1)
	<-s.release
	return 7, nil
}

/*
TestSubscriberCounter_CollapsesMisses verifies concurrent misses share one query.
*/
func TestSubscriberCounter_CollapsesMisses(t *testing.T) {
	source := &slowSource{release: make(chan struct{})}
	cache := newMemoryCache()
	counter := subscription.NewSubscriberCounter(source, cache, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	const workers = 8
	var wg sync.WaitGroup
	results := make([]int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := counter.Count(context.Background(), "channel-1")
			assert.NoError(t, err)
			results[i] = n
		}(i)
	}

	// Let every worker reach the in-flight call before the query returns
	require.Eventually(t, func() bool { return source.calls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(source.release)
	wg.Wait()

	assert.Equal(t, int32(1), source.calls.Load())
	for _, n := range results {
		assert.Equal(t, 7, n)
	}

	cached, ok, err := cache.Get(context.Background(), "social:subscribers:channel-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, cached)

	// Served from cache: no further queries
	n, err := counter.Count(context.Background(), "channel-1")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, int32(1), source.calls.Load())
}

// gatedSource reports its caller's context error once released.
type gatedSource struct {
	entered chan struct{}
	release chan struct{}
}

func (s *gatedSource) CountSubscribers(ctx context.Context, _ string) (int, error) {
	close(s.entered)
	<-s.release
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return 3, nil
}

/*
TestSubscriberCounter_SharedQueryOutlivesCaller verifies that cancelling the
request that started a shared query does not fail it.
*/
func TestSubscriberCounter_SharedQueryOutlivesCaller(t *testing.T) {
	source := &gatedSource{entered: make(chan struct{}), release: make(chan struct{})}
	counter := subscription.NewSubscriberCounter(source, newMemoryCache(), slog.New(slog.NewJSONHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	type outcome struct {
		n   int
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		n, err := counter.Count(ctx, "channel-2")
		done <- outcome{n, err}
	}()

	<-source.entered
	cancel()
	close(source.release)

	result := <-done
	require.NoError(t, result.err)
	assert.Equal(t, 3, result.n)
}
