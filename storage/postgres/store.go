// Package postgres implements the user, swipe and match stores on
// PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"ember_server/apperr"
	"ember_server/models"
	"ember_server/storage"
)

// Store implements the storage interfaces backed by PostgreSQL. Every
// operation acquires a pooled connection under a bounded wait; the wait
// timeout is the only cancellation point, a query that has started runs
// to completion.
type Store struct {
	db             *sql.DB
	acquireTimeout time.Duration
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.SwipeStore = (*Store)(nil)
var _ storage.MatchStore = (*Store)(nil)

// Open creates the database handle with a bounded connection pool.
func Open(dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	return db, nil
}

// New creates a Store using the provided database handle.
func New(db *sql.DB, acquireTimeout time.Duration) *Store {
	return &Store{db: db, acquireTimeout: acquireTimeout}
}

// acquire checks a connection out of the pool, waiting at most the
// configured timeout. Exhaustion or an unreachable store surfaces as
// apperr.ErrStoreUnavailable.
func (s *Store) acquire(ctx context.Context) (*sql.Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, s.acquireTimeout)
	defer cancel()

	conn, err := s.db.Conn(acquireCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
	}
	return conn, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return models.User{}, err
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
	`, user.Username, user.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, username string) (models.User, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return models.User{}, err
	}
	defer conn.Close()

	row := conn.QueryRowContext(ctx, `
		SELECT username, password, lat, long, bio, profile_pic
		FROM users
		WHERE username = $1
	`, username)

	var user models.User
	if err := row.Scan(&user.Username, &user.Password, &user.Lat, &user.Long, &user.Bio, &user.ProfilePic); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %q: %w", username, apperr.ErrNotFound)
		}
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
		SELECT username, password, lat, long, bio, profile_pic
		FROM users
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (s *Store) UpdateLocation(ctx context.Context, username string, lat, long float64) error {
	return s.updateUser(ctx, `
		UPDATE users SET lat = $2, long = $3 WHERE username = $1
	`, username, lat, long)
}

func (s *Store) UpdateBio(ctx context.Context, username, bio string) error {
	return s.updateUser(ctx, `
		UPDATE users SET bio = $2 WHERE username = $1
	`, username, bio)
}

func (s *Store) UpdateProfilePic(ctx context.Context, username, path string) error {
	return s.updateUser(ctx, `
		UPDATE users SET profile_pic = $2 WHERE username = $1
	`, username, path)
}

func (s *Store) updateUser(ctx context.Context, query string, args ...interface{}) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	result, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// --- SwipeStore -------------------------------------------------------------

// RecordSwipe runs the swipe insert, mirror check and match insert in one
// serializable transaction, so two concurrent reciprocal swipes cannot
// both miss each other's trigger. The match insert is ON CONFLICT DO
// NOTHING: an already-existing match never fails the swipe.
func (s *Store) RecordSwipe(ctx context.Context, swipe models.Swipe) (bool, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return false, fmt.Errorf("begin swipe tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO swipes (swiper, swiped, status)
		VALUES ($1, $2, $3)
	`, swipe.Swiper, swipe.Swiped, swipe.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("%s -> %s: %w", swipe.Swiper, swipe.Swiped, apperr.ErrDuplicateSwipe)
		}
		return false, fmt.Errorf("insert swipe: %w", err)
	}

	// Only an interested swipe can complete a match.
	if !swipe.Status {
		return false, commit(tx)
	}

	var mirror bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM swipes WHERE swiper = $1 AND swiped = $2 AND status
		)
	`, swipe.Swiped, swipe.Swiper).Scan(&mirror)
	if err != nil {
		return false, fmt.Errorf("check mirror swipe: %w", err)
	}
	if !mirror {
		return false, commit(tx)
	}

	lo, hi := canonicalPair(swipe.Swiper, swipe.Swiped)
	result, err := tx.ExecContext(ctx, `
		INSERT INTO matches (username1, username2)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, lo, hi)
	if err != nil {
		return false, fmt.Errorf("insert match: %w", err)
	}
	created, _ := result.RowsAffected()

	if err := commit(tx); err != nil {
		return false, err
	}
	return created > 0, nil
}

func (s *Store) ListAvailable(ctx context.Context, username string) ([]models.User, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
		SELECT username, password, lat, long, bio, profile_pic
		FROM users
		WHERE username <> $1
		  AND lat IS NOT NULL
		  AND long IS NOT NULL
		  AND NOT EXISTS (
			SELECT 1 FROM swipes
			WHERE swiper = $1 AND swiped = users.username
		  )
	`, username)
	if err != nil {
		return nil, fmt.Errorf("list available: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// --- MatchStore -------------------------------------------------------------

func (s *Store) ListMatches(ctx context.Context, username string) ([]models.Match, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
		SELECT username1, username2
		FROM matches
		WHERE username1 = $1 OR username2 = $1
	`, username)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var result []models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.Username1, &m.Username2); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// DeleteMatch removes the row for the unordered pair. The caller does not
// know which side is canonical, so both orderings are matched.
func (s *Store) DeleteMatch(ctx context.Context, username, other string) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	result, err := conn.ExecContext(ctx, `
		DELETE FROM matches
		WHERE (username1 = $1 AND username2 = $2)
		   OR (username1 = $2 AND username2 = $1)
	`, username, other)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("match %s/%s: %w", username, other, apperr.ErrNotFound)
	}
	return nil
}

func canonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

func commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit swipe tx: %w", err)
	}
	return nil
}

func scanUsers(rows *sql.Rows) ([]models.User, error) {
	var result []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.Username, &user.Password, &user.Lat, &user.Long, &user.Bio, &user.ProfilePic); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
