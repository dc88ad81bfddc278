package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	assert.NoError(t, Check(context.Background(), db))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = Check(context.Background(), db)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")

	assert.NoError(t, mock.ExpectationsWereMet())
}
