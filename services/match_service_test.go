package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ember_server/apperr"
	"ember_server/models"
)

// memoryMatchStore is an in-memory SwipeStore + MatchStore with the same
// semantics as the postgres implementation.
type memoryMatchStore struct {
	swipes  map[string]bool
	matches map[string]models.Match
}

func newMemoryMatchStore() *memoryMatchStore {
	return &memoryMatchStore{
		swipes:  make(map[string]bool),
		matches: make(map[string]models.Match),
	}
}

func pairKey(a, b string) string { return a + "\x00" + b }

func (s *memoryMatchStore) RecordSwipe(_ context.Context, swipe models.Swipe) (bool, error) {
	key := pairKey(swipe.Swiper, swipe.Swiped)
	if _, ok := s.swipes[key]; ok {
		return false, apperr.ErrDuplicateSwipe
	}
	s.swipes[key] = swipe.Status

	if !swipe.Status {
		return false, nil
	}
	if mirror, ok := s.swipes[pairKey(swipe.Swiped, swipe.Swiper)]; !ok || !mirror {
		return false, nil
	}

	lo, hi := swipe.Swiper, swipe.Swiped
	if hi < lo {
		lo, hi = hi, lo
	}
	if _, ok := s.matches[pairKey(lo, hi)]; ok {
		return false, nil
	}
	s.matches[pairKey(lo, hi)] = models.Match{Username1: lo, Username2: hi}
	return true, nil
}

func (s *memoryMatchStore) ListAvailable(_ context.Context, username string) ([]models.User, error) {
	return nil, nil
}

func (s *memoryMatchStore) ListMatches(_ context.Context, username string) ([]models.Match, error) {
	var result []models.Match
	for _, m := range s.matches {
		if m.Username1 == username || m.Username2 == username {
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *memoryMatchStore) DeleteMatch(_ context.Context, username, other string) error {
	for _, key := range []string{pairKey(username, other), pairKey(other, username)} {
		if _, ok := s.matches[key]; ok {
			delete(s.matches, key)
			return nil
		}
	}
	return fmt.Errorf("match %s/%s: %w", username, other, apperr.ErrNotFound)
}

type recordingNotifier struct {
	calls [][2]string
}

func (n *recordingNotifier) NotifyMatch(a, b string) {
	n.calls = append(n.calls, [2]string{a, b})
}

func newTestMatchService() (*MatchService, *memoryMatchStore, *recordingNotifier) {
	store := newMemoryMatchStore()
	notifier := &recordingNotifier{}
	log := logrus.New()
	return NewMatchService(store, store, notifier, log), store, notifier
}

func TestRecordSwipeRejectsSelfSwipe(t *testing.T) {
	ms, _, _ := newTestMatchService()

	_, err := ms.RecordSwipe(context.Background(), "alice", "alice", true)
	assert.ErrorIs(t, err, apperr.ErrSelfSwipe)
}

func TestReciprocalSwipesCreateOneMatch(t *testing.T) {
	ms, store, notifier := newTestMatchService()
	ctx := context.Background()

	matched, err := ms.RecordSwipe(ctx, "alice", "bob", true)
	require.NoError(t, err)
	assert.False(t, matched)

	aliceMatches, err := ms.ListMatches(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, aliceMatches)

	matched, err = ms.RecordSwipe(ctx, "bob", "alice", true)
	require.NoError(t, err)
	assert.True(t, matched)

	aliceMatches, err = ms.ListMatches(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []models.UserMatch{{Name: "bob"}}, aliceMatches)

	bobMatches, err := ms.ListMatches(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []models.UserMatch{{Name: "alice"}}, bobMatches)

	// Stored canonically, exactly once.
	require.Len(t, store.matches, 1)
	m := store.matches[pairKey("alice", "bob")]
	assert.Equal(t, "alice", m.Username1)
	assert.Equal(t, "bob", m.Username2)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, [2]string{"bob", "alice"}, notifier.calls[0])
}

func TestNotInterestedSwipeNeverMatches(t *testing.T) {
	ms, store, _ := newTestMatchService()
	ctx := context.Background()

	_, err := ms.RecordSwipe(ctx, "alice", "bob", false)
	require.NoError(t, err)

	matched, err := ms.RecordSwipe(ctx, "bob", "alice", true)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Empty(t, store.matches)
}

func TestDuplicateSwipeSurfaces(t *testing.T) {
	ms, _, _ := newTestMatchService()
	ctx := context.Background()

	_, err := ms.RecordSwipe(ctx, "alice", "bob", true)
	require.NoError(t, err)

	_, err = ms.RecordSwipe(ctx, "alice", "bob", false)
	assert.ErrorIs(t, err, apperr.ErrDuplicateSwipe)
}

func TestDeleteMatchIgnoresArgumentOrder(t *testing.T) {
	ms, _, _ := newTestMatchService()
	ctx := context.Background()

	_, err := ms.RecordSwipe(ctx, "alice", "bob", true)
	require.NoError(t, err)
	_, err = ms.RecordSwipe(ctx, "bob", "alice", true)
	require.NoError(t, err)

	// bob is not the canonical first slot; deletion must still work.
	require.NoError(t, ms.DeleteMatch(ctx, "bob", "alice"))

	matches, err := ms.ListMatches(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, matches)

	err = ms.DeleteMatch(ctx, "bob", "alice")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecordSwipeWithoutNotifier(t *testing.T) {
	store := newMemoryMatchStore()
	ms := NewMatchService(store, store, nil, logrus.New())
	ctx := context.Background()

	_, err := ms.RecordSwipe(ctx, "alice", "bob", true)
	require.NoError(t, err)
	matched, err := ms.RecordSwipe(ctx, "bob", "alice", true)
	require.NoError(t, err)
	assert.True(t, matched)
}
