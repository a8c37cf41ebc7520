package database_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/database"
)

const connStr = "postgres://postgres@localhost:5432/tally?sslmode=disable"

func TestOpen_AppliesPool(t *testing.T) {
	db, err := database.Open(connStr, database.Pool{MaxOpenConns: 7, MaxIdleConns: 2, ConnMaxLifetime: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
}

func TestOpen_InvalidPool(t *testing.T) {
	type testCase struct {
		name string
		pool database.Pool
	}

	tests := []testCase{
		{name: "NoOpenConns", pool: database.Pool{MaxOpenConns: 0}},
		{name: "IdleAboveOpen", pool: database.Pool{MaxOpenConns: 2, MaxIdleConns: 3}},
		{name: "NegativeIdle", pool: database.Pool{MaxOpenConns: 2, MaxIdleConns: -1}},
		{name: "NegativeLifetime", pool: database.Pool{MaxOpenConns: 2, ConnMaxLifetime: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := database.Open(connStr, tt.pool)
			assert.Error(t, err)
		})
	}
}
