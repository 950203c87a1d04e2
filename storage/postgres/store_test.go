package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ember_server/apperr"
	"ember_server/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, time.Second), mock
}

func TestRecordSwipeCreatesCanonicalMatch(t *testing.T) {
	store, mock := newMockStore(t)

	// bob swipes on alice: the match row must still be (alice, bob).
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO swipes").
		WithArgs("bob", "alice", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice", "bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO matches").
		WithArgs("alice", "bob").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	matched, err := store.RecordSwipe(context.Background(), models.Swipe{Swiper: "bob", Swiped: "alice", Status: true})
	require.NoError(t, err)
	assert.True(t, matched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSwipeNoMirror(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO swipes").
		WithArgs("alice", "bob", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("bob", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectCommit()

	matched, err := store.RecordSwipe(context.Background(), models.Swipe{Swiper: "alice", Swiped: "bob", Status: true})
	require.NoError(t, err)
	assert.False(t, matched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSwipeNotInterestedSkipsMirrorCheck(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO swipes").
		WithArgs("alice", "bob", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	matched, err := store.RecordSwipe(context.Background(), models.Swipe{Swiper: "alice", Swiped: "bob", Status: false})
	require.NoError(t, err)
	assert.False(t, matched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSwipeDuplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO swipes").
		WithArgs("alice", "bob", true).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := store.RecordSwipe(context.Background(), models.Swipe{Swiper: "alice", Swiped: "bob", Status: true})
	assert.ErrorIs(t, err, apperr.ErrDuplicateSwipe)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSwipeExistingMatchIsNotRecreated(t *testing.T) {
	store, mock := newMockStore(t)

	// ON CONFLICT DO NOTHING reports zero affected rows; the swipe still
	// commits and no duplicate match row appears.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO swipes").
		WithArgs("bob", "alice", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice", "bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO matches").
		WithArgs("alice", "bob").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	matched, err := store.RecordSwipe(context.Background(), models.Swipe{Swiper: "bob", Swiped: "alice", Status: true})
	require.NoError(t, err)
	assert.False(t, matched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT username, password, lat, long, bio, profile_pic").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password", "lat", "long", "bio", "profile_pic"}))

	_, err := store.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListAvailableFiltersSwipedAndUnlocated(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"username", "password", "lat", "long", "bio", "profile_pic"}).
		AddRow("carol", "hash", 1.5, 2.5, nil, nil)
	mock.ExpectQuery("NOT EXISTS").
		WithArgs("alice").
		WillReturnRows(rows)

	users, err := store.ListAvailable(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "carol", users[0].Username)
	require.NotNil(t, users[0].Lat)
	assert.Equal(t, 1.5, *users[0].Lat)
}

func TestDeleteMatchChecksBothOrderings(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM matches").
		WithArgs("bob", "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.DeleteMatch(context.Background(), "bob", "alice")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMatchNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM matches").
		WithArgs("alice", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteMatch(context.Background(), "alice", "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateLocationUnknownUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE users SET lat").
		WithArgs("ghost", 1.0, 2.0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateLocation(context.Background(), "ghost", 1.0, 2.0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("plain")))
}

func TestCanonicalPair(t *testing.T) {
	lo, hi := canonicalPair("bob", "alice")
	assert.Equal(t, "alice", lo)
	assert.Equal(t, "bob", hi)

	lo, hi = canonicalPair("alice", "bob")
	assert.Equal(t, "alice", lo)
	assert.Equal(t, "bob", hi)
}
