package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/timetable"
)

func TestLockRepositoryCreate(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewLockRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_locks")).
		WithArgs(sqlmock.AnyArg(), "ds-1", "Assembly", "*", sqlmock.AnyArg(), 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	lock := &models.LockRecord{DatasetID: "ds-1", Name: "Assembly", Rooms: "*", Groups: pq.StringArray{timetable.AllGroups}, Day: 1, Periods: pq.Int64Array{1}}
	require.NoError(t, repo.Create(context.Background(), lock))
	assert.NotEmpty(t, lock.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockRepositoryListByDataset(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewLockRepository(db)

	rows := sqlmock.NewRows([]string{"id", "dataset_id", "name", "rooms", "groups", "day", "periods", "created_at"}).
		AddRow("l-1", "ds-1", "Club", "G1-2", "{G1,G2}", 4, "{8,9}", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_locks WHERE dataset_id = $1 ORDER BY created_at, id")).
		WithArgs("ds-1").
		WillReturnRows(rows)

	locks, err := repo.ListByDataset(context.Background(), "ds-1")
	require.NoError(t, err)
	require.Len(t, locks, 1)
	expanded := locks[0].Locks()
	require.Len(t, expanded, 2)
	assert.Equal(t, timetable.Slot{Day: timetable.Thursday, Period: 9}, expanded[1].Slot())
	assert.Equal(t, []string{"G1", "G2"}, expanded[0].Groups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockRepositoryDeleteNotFound(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewLockRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_locks WHERE dataset_id = $1 AND id = $2")).
		WithArgs("ds-1", "l-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "ds-1", "l-9"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
