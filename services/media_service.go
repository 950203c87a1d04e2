package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"ember_server/apperr"
	"ember_server/storage"
)

// MediaService serves profile pictures through a cache-aside layer: the
// cache is probed first, populated lazily from the blob store on a miss,
// and invalidated on upload. Cache maintenance failures are never fatal;
// the blob store stays the source of truth.
type MediaService struct {
	Users storage.UserStore
	Blobs storage.BlobStore
	Cache storage.ByteCache
	Log   *logrus.Logger
}

// NewMediaService creates a new MediaService instance.
func NewMediaService(users storage.UserStore, blobs storage.BlobStore, cache storage.ByteCache, log *logrus.Logger) *MediaService {
	return &MediaService{Users: users, Blobs: blobs, Cache: cache, Log: log}
}

// GetProfilePicture returns the current picture bytes for the user.
func (ms *MediaService) GetProfilePicture(ctx context.Context, username string) ([]byte, error) {
	user, err := ms.Users.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.ProfilePic == nil {
		return nil, fmt.Errorf("no profile picture for %q: %w", username, apperr.ErrNotFound)
	}

	if data, err := ms.Cache.Get(ctx, username); err == nil {
		return data, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		// A broken cache degrades to a miss.
		ms.Log.WithError(err).WithField("username", username).Warn("cache probe failed")
	}

	data, err := ms.Blobs.Get(ctx, *user.ProfilePic)
	if err != nil {
		return nil, err
	}

	if err := ms.Cache.Set(ctx, username, data); err != nil {
		ms.Log.WithError(err).WithField("username", username).Warn("cache populate failed")
	}
	return data, nil
}

// UploadProfilePicture stores the new picture, points the user record at
// it and invalidates the cache entry so the next read repopulates from
// the new blob.
func (ms *MediaService) UploadProfilePicture(ctx context.Context, username string, data []byte) error {
	path, err := ms.Blobs.Put(ctx, username, data)
	if err != nil {
		return err
	}

	if err := ms.Users.UpdateProfilePic(ctx, username, path); err != nil {
		return err
	}

	if err := ms.Cache.Del(ctx, username); err != nil {
		// A stale entry until the next upload beats failing the upload.
		ms.Log.WithError(err).WithField("username", username).Warn("cache invalidation failed")
	}
	return nil
}
