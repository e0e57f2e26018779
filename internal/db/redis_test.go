package db_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/alignment-service/internal/db"
)

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := db.NewRedisClient(context.Background(), "http://not-redis")
	assert.ErrorContains(t, err, "redis: parse url")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, "redis://"+addr)
	assert.Nil(t, rdb)
	assert.ErrorContains(t, err, "redis: ping "+addr)
}
