package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyDSN(t *testing.T) {
	db, err := Connect(context.Background(), "   ")
	require.Error(t, err)
	require.Nil(t, db)
}

func TestConnectDSN_EmptyFallsBack(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, cleanup := ConnectDSN(context.Background(), "", logger)
	require.Nil(t, db)
	require.NotNil(t, cleanup)
	cleanup()
}
