package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"ember_server/apperr"
	"ember_server/models"
	"ember_server/storage"
)

// MatchNotifier pushes a realtime event to both participants of a fresh
// match. Implementations must not block; delivery is best-effort.
type MatchNotifier interface {
	NotifyMatch(a, b string)
}

// MatchService turns one-directional swipe decisions into symmetric match
// records.
type MatchService struct {
	Swipes   storage.SwipeStore
	Matches  storage.MatchStore
	Notifier MatchNotifier
	Log      *logrus.Logger
}

// NewMatchService creates a new MatchService instance. The notifier may
// be nil when realtime events are disabled.
func NewMatchService(swipes storage.SwipeStore, matches storage.MatchStore, notifier MatchNotifier, log *logrus.Logger) *MatchService {
	return &MatchService{Swipes: swipes, Matches: matches, Notifier: notifier, Log: log}
}

// RecordSwipe records the swipe fact and reports whether it completed a
// reciprocal match. The swipe is the primary effect: once the store has
// it, notification failures can only be logged, never surfaced.
func (ms *MatchService) RecordSwipe(ctx context.Context, swiper, swiped string, status bool) (bool, error) {
	if swiper == swiped {
		return false, apperr.ErrSelfSwipe
	}

	matched, err := ms.Swipes.RecordSwipe(ctx, models.Swipe{Swiper: swiper, Swiped: swiped, Status: status})
	if err != nil {
		return false, err
	}

	if matched {
		ms.Log.WithFields(logrus.Fields{
			"swiper": swiper,
			"swiped": swiped,
		}).Info("reciprocal match created")

		if ms.Notifier != nil {
			ms.Notifier.NotifyMatch(swiper, swiped)
		}
	}
	return matched, nil
}

// ListMatches returns the other participant of every match the user is in.
func (ms *MatchService) ListMatches(ctx context.Context, username string) ([]models.UserMatch, error) {
	matches, err := ms.Matches.ListMatches(ctx, username)
	if err != nil {
		return nil, err
	}

	result := make([]models.UserMatch, 0, len(matches))
	for _, m := range matches {
		result = append(result, models.UserMatch{Name: m.Other(username)})
	}
	return result, nil
}

// ListAvailable returns the public view of every candidate the user can
// still swipe on: everyone with a location set whom the user has not
// swiped on yet, excluding the user themselves.
func (ms *MatchService) ListAvailable(ctx context.Context, username string) ([]models.PublicUser, error) {
	users, err := ms.Swipes.ListAvailable(ctx, username)
	if err != nil {
		return nil, err
	}

	result := make([]models.PublicUser, 0, len(users))
	for i := range users {
		result = append(result, users[i].Public())
	}
	return result, nil
}

// DeleteMatch removes the match with the other user, whichever side of
// the canonical pair either of them is on.
func (ms *MatchService) DeleteMatch(ctx context.Context, username, other string) error {
	return ms.Matches.DeleteMatch(ctx, username, other)
}
