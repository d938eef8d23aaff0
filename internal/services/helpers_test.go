package services

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/config"
	"github.com/staffrevenue/revenue-manager/internal/database"
	"github.com/staffrevenue/revenue-manager/internal/metrics"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()

	store, err := database.Open(config.DatabaseConfig{
		Path: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testMetrics() *metrics.LedgerMetrics {
	return metrics.NewLedgerMetrics(prometheus.NewRegistry())
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
