package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haidang/fintrack-backend/internal/domain"
)

func TestBuildListQuery_NoFilters(t *testing.T) {
	query, args := buildListQuery(domain.TransactionFilter{})

	assert.Contains(t, query, "WHERE deleted_at IS NULL")
	assert.Contains(t, query, "ORDER BY date DESC")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)
}

// The wallet filter matches either side of a transfer with one bound arg
func TestBuildListQuery_WalletMatchesEitherSide(t *testing.T) {
	walletID := uuid.New()

	query, args := buildListQuery(domain.TransactionFilter{WalletID: &walletID})

	assert.Contains(t, query, "(wallet_id = $1 OR to_wallet_id = $1)")
	require.Len(t, args, 1)
	assert.Equal(t, walletID, args[0])
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	walletID := uuid.New()
	categoryID := uuid.New()
	txType := domain.TransactionTypeExpense
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	query, args := buildListQuery(domain.TransactionFilter{
		WalletID:   &walletID,
		Type:       &txType,
		CategoryID: &categoryID,
		DateFrom:   &from,
		DateTo:     &to,
		Limit:      100,
	})

	assert.Contains(t, query, "(wallet_id = $1 OR to_wallet_id = $1)")
	assert.Contains(t, query, "type = $2")
	assert.Contains(t, query, "category_id = $3")
	assert.Contains(t, query, "date >= $4")
	assert.Contains(t, query, "date <= $5")
	assert.Contains(t, query, "LIMIT $6")

	require.Len(t, args, 6)
	assert.Equal(t, walletID, args[0])
	assert.Equal(t, "expense", args[1])
	assert.Equal(t, categoryID, args[2])
	assert.Equal(t, from, args[3])
	assert.Equal(t, to, args[4])
	assert.Equal(t, 100, args[5])
}

func TestBuildListQuery_LimitOnly(t *testing.T) {
	query, args := buildListQuery(domain.TransactionFilter{Limit: 25})

	assert.Contains(t, query, "LIMIT $1")
	require.Len(t, args, 1)
	assert.Equal(t, 25, args[0])
}
