package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurePings(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectPing()

	require.NoError(t, configure(context.Background(), conn, DefaultPool()))
	assert.Equal(t, 5, conn.Stats().MaxOpenConnections)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigureReportsPingFailure(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = configure(context.Background(), conn, Pool{MaxOpen: 1, MaxIdle: 1})
	assert.ErrorContains(t, err, "verify postgres connection")
	assert.NoError(t, mock.ExpectationsWereMet())
}
