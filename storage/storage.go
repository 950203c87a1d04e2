// Package storage defines the persistence interfaces consumed by the
// services. Implementations live in subpackages: postgres for the
// relational stores, rediscache for the byte cache, blob for picture
// storage.
package storage

import (
	"context"

	"ember_server/models"
)

// UserStore is the persistent table of accounts keyed by username.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateLocation(ctx context.Context, username string, lat, long float64) error
	UpdateBio(ctx context.Context, username, bio string) error
	UpdateProfilePic(ctx context.Context, username, path string) error
}

// SwipeStore records swipe decisions and derives matches.
type SwipeStore interface {
	// RecordSwipe inserts the swipe fact and, for an interested swipe,
	// checks the mirror swipe and materializes the canonical match row in
	// the same transaction. It reports whether a new match was created.
	RecordSwipe(ctx context.Context, swipe models.Swipe) (matched bool, err error)

	// ListAvailable returns every user the given user has not swiped on
	// yet, excluding the user themselves and users without coordinates.
	ListAvailable(ctx context.Context, username string) ([]models.User, error)
}

// MatchStore reads and deletes materialized match rows.
type MatchStore interface {
	ListMatches(ctx context.Context, username string) ([]models.Match, error)
	DeleteMatch(ctx context.Context, username, other string) error
}

// ByteCache is a fast key-value cache over raw bytes. Get returns
// apperr.ErrNotFound on a miss. Entries live until explicitly deleted.
type ByteCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// BlobStore holds uploaded picture bytes. Put stores the blob for a
// username, overwriting any prior version, and returns the stored path;
// Get reads a blob back by that path.
type BlobStore interface {
	Put(ctx context.Context, username string, data []byte) (path string, err error)
	Get(ctx context.Context, path string) ([]byte, error)
}
