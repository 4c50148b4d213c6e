package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igorfd2009/cookitie-pix/internal/dto"
	"github.com/igorfd2009/cookitie-pix/internal/model"
	"github.com/igorfd2009/cookitie-pix/internal/pix"
	"github.com/igorfd2009/cookitie-pix/internal/qrcode"
	"github.com/igorfd2009/cookitie-pix/internal/storage"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testService(t *testing.T) (*PaymentService, *storage.MemoryStore, *clock) {
	t.Helper()

	store := storage.NewMemoryStore()
	profile := pix.MerchantProfile{
		PixKey:           "+5511998008397",
		MerchantName:     "Cookitie JEPP",
		MerchantCity:     "Sao Paulo",
		MerchantCategory: "5812",
		CurrencyCode:     "986",
		CountryCode:      "BR",
	}
	// Unreachable QR endpoint: every create exercises the SVG fallback.
	qr := qrcode.NewGenerator("http://127.0.0.1:1", 240, 50*time.Millisecond)

	svc, err := NewPaymentService(context.Background(), store, profile, qr, DefaultExpiry)
	require.NoError(t, err)

	clk := &clock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	return svc.WithClock(clk.Now), store, clk
}

func createReq() *dto.CreatePaymentRequest {
	return &dto.CreatePaymentRequest{
		Amount:      8.50,
		Description: "Brigadeiro Gourmet",
		OrderID:     "order_123",
		Customer: dto.CustomerPayload{
			Name:  "Ana Souza",
			Email: "ana@example.com",
			Phone: "+5511999990000",
		},
	}
}

func TestCreatePayment(t *testing.T) {
	svc, _, clk := testService(t)
	ctx := context.Background()

	resp, err := svc.CreatePayment(ctx, createReq())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.TransactionID, "pix_"))
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 8.50, resp.Amount)
	assert.Equal(t, clk.Now().Add(30*time.Minute), resp.ExpiresAt)
	assert.True(t, strings.HasPrefix(resp.PixCode, "000201010212"))
	assert.Contains(t, resp.PixCode, "54048.50")
	assert.True(t, strings.HasPrefix(resp.QRCodeBase64, "data:image/"))
	assert.Contains(t, resp.QRCodeURL, "size=240x240")

	res := pix.Validate(resp.PixCode)
	assert.True(t, res.Valid, "generated code should self-validate, errors: %v", res.Errors)
}

func TestCreatePayment_CustomExpiry(t *testing.T) {
	svc, _, clk := testService(t)

	req := createReq()
	req.ExpiresInMinutes = 5
	resp, err := svc.CreatePayment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(5*time.Minute), resp.ExpiresAt)
}

func TestCreatePayment_UniqueIDs(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		resp, err := svc.CreatePayment(ctx, createReq())
		require.NoError(t, err)
		assert.False(t, seen[resp.TransactionID], "duplicate id %s", resp.TransactionID)
		seen[resp.TransactionID] = true
	}
}

func TestGetPayment_Unknown(t *testing.T) {
	svc, _, _ := testService(t)
	assert.Nil(t, svc.GetPayment(context.Background(), "pix_missing"))
}

func TestGetPayment_LazyExpiry(t *testing.T) {
	svc, store, clk := testService(t)
	ctx := context.Background()

	resp, err := svc.CreatePayment(ctx, createReq())
	require.NoError(t, err)

	clk.Advance(31 * time.Minute)

	// Nothing has read the record yet: storage still says pending.
	stored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored[resp.TransactionID].Status)

	rec := svc.GetPayment(ctx, resp.TransactionID)
	require.NotNil(t, rec)
	assert.Equal(t, model.StatusExpired, rec.Status)

	// The read persisted the transition.
	stored, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, stored[resp.TransactionID].Status)
}

func TestGetPayment_NotExpiredAtBoundary(t *testing.T) {
	svc, _, clk := testService(t)
	ctx := context.Background()

	resp, err := svc.CreatePayment(ctx, createReq())
	require.NoError(t, err)

	// Exactly at ExpiresAt the record is still pending; expiry needs
	// now > expiresAt.
	clk.Advance(30 * time.Minute)
	rec := svc.GetPayment(ctx, resp.TransactionID)
	require.NotNil(t, rec)
	assert.Equal(t, model.StatusPending, rec.Status)
}

func TestConfirmPayment(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	resp, err := svc.CreatePayment(ctx, createReq())
	require.NoError(t, err)

	rec, ok := svc.ConfirmPayment(ctx, resp.TransactionID)
	require.True(t, ok)
	assert.Equal(t, model.StatusPaid, rec.Status)
	require.NotNil(t, rec.PaidAt)
}

func TestConfirmPayment_UnknownAndTerminal(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, ok := svc.ConfirmPayment(ctx, "pix_missing")
	assert.False(t, ok)

	resp, err := svc.CreatePayment(ctx, createReq())
	require.NoError(t, err)

	_, ok = svc.CancelPayment(ctx, resp.TransactionID)
	require.True(t, ok)

	// Terminal statuses are immutable.
	rec, ok := svc.ConfirmPayment(ctx, resp.TransactionID)
	assert.False(t, ok)
	assert.Equal(t, model.StatusCancelled, rec.Status)

	rec, ok = svc.CancelPayment(ctx, resp.TransactionID)
	assert.False(t, ok)
	assert.Equal(t, model.StatusCancelled, rec.Status)
}

func TestConfirmPayment_ExpiredWindow(t *testing.T) {
	svc, _, clk := testService(t)
	ctx := context.Background()

	resp, err := svc.CreatePayment(ctx, createReq())
	require.NoError(t, err)

	clk.Advance(time.Hour)

	rec, ok := svc.ConfirmPayment(ctx, resp.TransactionID)
	assert.False(t, ok, "confirming past the window must not mark paid")
	assert.Equal(t, model.StatusExpired, rec.Status)
}

func TestListPayments_NewestFirst(t *testing.T) {
	svc, _, clk := testService(t)
	ctx := context.Background()

	first, err := svc.CreatePayment(ctx, createReq())
	require.NoError(t, err)
	clk.Advance(time.Minute)
	second, err := svc.CreatePayment(ctx, createReq())
	require.NoError(t, err)

	list := svc.ListPayments(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, second.TransactionID, list[0].TransactionID)
	assert.Equal(t, first.TransactionID, list[1].TransactionID)
}

func TestStats(t *testing.T) {
	svc, _, clk := testService(t)
	ctx := context.Background()

	paid, err := svc.CreatePayment(ctx, createReq())
	require.NoError(t, err)
	_, ok := svc.ConfirmPayment(ctx, paid.TransactionID)
	require.True(t, ok)

	cancelled, err := svc.CreatePayment(ctx, createReq())
	require.NoError(t, err)
	_, ok = svc.CancelPayment(ctx, cancelled.TransactionID)
	require.True(t, ok)

	req := createReq()
	req.ExpiresInMinutes = 1
	_, err = svc.CreatePayment(ctx, req)
	require.NoError(t, err)
	clk.Advance(2 * time.Minute)

	_, err = svc.CreatePayment(ctx, createReq())
	require.NoError(t, err)

	stats := svc.Stats(ctx)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Paid)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 8.50, stats.TotalPaid)
	assert.InDelta(t, 0.25, stats.ConversionRate, 1e-9)
}

func TestRegistry_RestoredFromStore(t *testing.T) {
	svc, store, clk := testService(t)
	ctx := context.Background()

	resp, err := svc.CreatePayment(ctx, createReq())
	require.NoError(t, err)

	// A fresh service over the same store sees the record.
	restored, err := NewPaymentService(ctx, store, pix.MerchantProfile{
		PixKey: "+5511998008397", MerchantName: "Cookitie JEPP", MerchantCity: "Sao Paulo",
		MerchantCategory: "5812", CurrencyCode: "986", CountryCode: "BR",
	}, qrcode.NewGenerator("http://127.0.0.1:1", 240, 50*time.Millisecond), DefaultExpiry)
	require.NoError(t, err)
	restored.WithClock(clk.Now)

	rec := restored.GetPayment(ctx, resp.TransactionID)
	require.NotNil(t, rec)
	assert.Equal(t, model.StatusPending, rec.Status)
	assert.Equal(t, resp.PixCode, rec.Payload)
}

func TestCreatePayment_ZeroAmountOpenCode(t *testing.T) {
	svc, _, _ := testService(t)

	req := createReq()
	req.Amount = 0
	resp, err := svc.CreatePayment(context.Background(), req)
	require.NoError(t, err)

	res := pix.Validate(resp.PixCode)
	require.True(t, res.Valid)
	_, hasAmount := res.Fields["54"]
	assert.False(t, hasAmount, "open-amount code must omit tag 54")
}
