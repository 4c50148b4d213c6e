package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igorfd2009/cookitie-pix/internal/model"
)

func TestMemoryStore_LoadEmpty(t *testing.T) {
	s := NewMemoryStore()

	records, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryStore_SaveThenLoad(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := map[string]model.PaymentRecord{
		"pix_1": {
			TransactionID: "pix_1",
			Payload:       "000201...6304ABCD",
			Amount:        decimal.RequireFromString("8.50"),
			Status:        model.StatusPending,
			ExpiresAt:     time.Now().Add(30 * time.Minute),
			CreatedAt:     time.Now(),
		},
	}
	require.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "pix_1", out["pix_1"].TransactionID)
	assert.True(t, out["pix_1"].Amount.Equal(decimal.RequireFromString("8.50")))
}

func TestMemoryStore_SaveReplacesWholeSnapshot(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, map[string]model.PaymentRecord{
		"pix_1": {TransactionID: "pix_1"},
		"pix_2": {TransactionID: "pix_2"},
	}))
	require.NoError(t, s.Save(ctx, map[string]model.PaymentRecord{
		"pix_3": {TransactionID: "pix_3"},
	}))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	_, ok := out["pix_3"]
	assert.True(t, ok)
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, map[string]model.PaymentRecord{
		"pix_1": {TransactionID: "pix_1", Status: model.StatusPending},
	}))

	first, err := s.Load(ctx)
	require.NoError(t, err)
	rec := first["pix_1"]
	rec.Status = model.StatusPaid
	first["pix_1"] = rec

	second, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, second["pix_1"].Status)
}
