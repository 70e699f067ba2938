package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/models"
)

func TestBuildingRepositoryUpsertAndList(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewBuildingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_buildings")).
		WithArgs("ds-1", "A", 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT dataset_id, letter, number FROM timetable_buildings WHERE dataset_id = $1")).
		WithArgs("ds-1").
		WillReturnRows(sqlmock.NewRows([]string{"dataset_id", "letter", "number"}).AddRow("ds-1", "A", 1))

	require.NoError(t, repo.Upsert(context.Background(), nil, []models.BuildingRecord{{DatasetID: "ds-1", Letter: "A", Number: 1}}))
	records, err := repo.ListByDataset(context.Background(), "ds-1")
	require.NoError(t, err)
	assert.Equal(t, 1, models.BuildingMap(records)["A"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
