package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/config"
	"github.com/staffrevenue/revenue-manager/internal/database"
	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/staffrevenue/revenue-manager/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// seedGiftCard issues a card in the database file and closes it again
func seedGiftCard(t *testing.T, path string, amount int64) int64 {
	t.Helper()

	store, err := database.Open(config.DatabaseConfig{Path: path})
	require.NoError(t, err)
	defer store.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc, err := services.NewGiftCardService(store, nil, logger)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), models.CreateGiftCardInput{
		CustomerName: "Thao",
		AmountCents:  amount,
	})
	require.NoError(t, err)
	return created.ID
}

func TestRun_Usage(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	code, _, stderr := runCLI("-database-path", dbPath)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: ledgerctl")

	code, _, stderr = runCLI("-database-path", dbPath, "refund")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "refund"`)
}

func TestRun_Income(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	code, stdout, _ := runCLI("-database-path", dbPath, "income", "-from", "2024-01-01", "-to", "2024-01-31")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "gross")
	assert.NotContains(t, stdout, "total")

	code, _, stderr := runCLI("-database-path", dbPath, "income", "-from", "2024-02-01", "-to", "2024-01-01")
	assert.Equal(t, 3, code)
	assert.Contains(t, stderr, "income:")
}

func TestRun_GiftCards(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	id := seedGiftCard(t, dbPath, 5000)

	code, stdout, _ := runCLI("-database-path", dbPath, "giftcards", "-search", "thao")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Thao")
	assert.Contains(t, stdout, "50.00")

	code, _, stderr := runCLI("-database-path", dbPath, "giftcards", "-status", "lost")
	assert.Equal(t, 3, code)
	assert.Contains(t, stderr, "unknown gift card status")

	idArg := func() string { return strconv.FormatInt(id, 10) }

	code, stdout, _ = runCLI("-database-path", dbPath, "giftcard-use", "-id", idArg(), "-amount", "1250")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "37.50 remaining")

	code, _, stderr = runCLI("-database-path", dbPath, "giftcard-use", "-id", idArg(), "-amount", "9999")
	assert.Equal(t, 3, code)
	assert.Contains(t, stderr, "insufficient balance")

	code, stdout, _ = runCLI("-database-path", dbPath, "giftcard-use", "-id", idArg(), "-amount", "3750")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "fully redeemed")

	code, _, stderr = runCLI("-database-path", dbPath, "giftcard-use", "-id", idArg(), "-amount", "1")
	assert.Equal(t, 3, code)
	assert.Contains(t, stderr, "not found")
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{10000, "100.00"},
		{-27500, "-275.00"},
		{-1, "-0.01"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCents(tt.cents))
	}
}
