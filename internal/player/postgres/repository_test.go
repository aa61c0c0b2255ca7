// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derelict-game/derelict/internal/player"
	"github.com/derelict-game/derelict/internal/player/postgres"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock pool")
	t.Cleanup(mock.Close)
	return mock
}

func TestRepository_Get(t *testing.T) {
	mock := newMock(t)
	id := ulid.Make()
	created := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "nickname", "room_id", "created_at"}).
		AddRow(id.String(), "Guest", "secondary-control-room", created)
	mock.ExpectQuery(`SELECT id, nickname, room_id, created_at FROM players`).
		WithArgs(id.String()).
		WillReturnRows(rows)

	repo := postgres.NewRepository(mock)
	p, err := repo.Get(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, p.ID)
	assert.Equal(t, "Guest", p.Nickname)
	assert.Equal(t, "secondary-control-room", p.RoomID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get_NotFound(t *testing.T) {
	mock := newMock(t)
	id := ulid.Make()

	mock.ExpectQuery(`SELECT id, nickname, room_id, created_at FROM players`).
		WithArgs(id.String()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "nickname", "room_id", "created_at"}))

	repo := postgres.NewRepository(mock)
	_, err := repo.Get(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, player.ErrNotFound)
}

func TestRepository_SetRoom(t *testing.T) {
	mock := newMock(t)
	id := ulid.Make()

	mock.ExpectExec(`UPDATE players SET room_id`).
		WithArgs(id.String(), "hallway").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := postgres.NewRepository(mock)
	require.NoError(t, repo.SetRoom(context.Background(), id, "hallway"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetRoom_MissingPlayer(t *testing.T) {
	mock := newMock(t)
	id := ulid.Make()

	mock.ExpectExec(`UPDATE players SET room_id`).
		WithArgs(id.String(), "hallway").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := postgres.NewRepository(mock)
	err := repo.SetRoom(context.Background(), id, "hallway")
	require.Error(t, err)
	assert.ErrorIs(t, err, player.ErrNotFound)
}

func TestRepository_GrantItem_Idempotent(t *testing.T) {
	mock := newMock(t)
	id := ulid.Make()

	// Second insert hits ON CONFLICT DO NOTHING and affects zero rows;
	// both calls succeed.
	mock.ExpectExec(`INSERT INTO inventory`).
		WithArgs(id.String(), "key").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO inventory`).
		WithArgs(id.String(), "key").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	repo := postgres.NewRepository(mock)
	require.NoError(t, repo.GrantItem(context.Background(), id, "key"))
	require.NoError(t, repo.GrantItem(context.Background(), id, "key"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_HasItem(t *testing.T) {
	mock := newMock(t)
	id := ulid.Make()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(id.String(), "key").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	repo := postgres.NewRepository(mock)
	has, err := repo.HasItem(context.Background(), id, "key")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRepository_AppendLog_PreservesOrder(t *testing.T) {
	mock := newMock(t)
	id := ulid.Make()

	mock.ExpectExec(`INSERT INTO story_log`).
		WithArgs(id.String(), "The key turns with a click.", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO story_log`).
		WithArgs(id.String(), "You step into the hallway.", "description").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := postgres.NewRepository(mock)
	err := repo.AppendLog(context.Background(), id, []player.Fragment{
		{Body: "The key turns with a click."},
		{Body: "You step into the hallway.", Category: player.CategoryDescription},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Log(t *testing.T) {
	mock := newMock(t)
	id := ulid.Make()

	rows := pgxmock.NewRows([]string{"seq", "body", "category"}).
		AddRow(int64(1), "Welcome aboard.", "info").
		AddRow(int64(2), "A blast door blocks the way.", "")
	mock.ExpectQuery(`SELECT seq, body, category FROM story_log`).
		WithArgs(id.String()).
		WillReturnRows(rows)

	repo := postgres.NewRepository(mock)
	entries, err := repo.Log(context.Background(), id)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, player.CategoryInfo, entries[0].Category)
	assert.Equal(t, player.CategoryNone, entries[1].Category)
	assert.Equal(t, int64(1), entries[0].Seq)
}

func TestRepository_ClearLog(t *testing.T) {
	mock := newMock(t)
	id := ulid.Make()

	mock.ExpectExec(`DELETE FROM story_log`).
		WithArgs(id.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 42))

	repo := postgres.NewRepository(mock)
	require.NoError(t, repo.ClearLog(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_CommitsOnSuccess(t *testing.T) {
	mock := newMock(t)
	id := ulid.Make()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO inventory`).
		WithArgs(id.String(), "key").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	repo := postgres.NewRepository(mock)
	tx := postgres.NewTransactor(mock)

	err := tx.InTransaction(context.Background(), func(ctx context.Context) error {
		return repo.GrantItem(ctx, id, "key")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx := postgres.NewTransactor(mock)
	wantErr := errors.New("effect failed")
	err := tx.InTransaction(context.Background(), func(_ context.Context) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Lookup_NotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT player_id FROM sessions`).
		WithArgs("no-such-token").
		WillReturnRows(pgxmock.NewRows([]string{"player_id"}))

	sessions := postgres.NewSessionRepository(mock)
	_, err := sessions.Lookup(context.Background(), "no-such-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, player.ErrNotFound)
}

func TestSessionRepository_Bind(t *testing.T) {
	mock := newMock(t)
	id := ulid.Make()

	mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs("tok-1", id.String()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	sessions := postgres.NewSessionRepository(mock)
	require.NoError(t, sessions.Bind(context.Background(), "tok-1", id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
