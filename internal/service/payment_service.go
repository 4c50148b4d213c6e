package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/igorfd2009/cookitie-pix/internal/dto"
	"github.com/igorfd2009/cookitie-pix/internal/model"
	"github.com/igorfd2009/cookitie-pix/internal/pix"
	"github.com/igorfd2009/cookitie-pix/internal/qrcode"
	"github.com/igorfd2009/cookitie-pix/internal/storage"
)

const DefaultExpiry = 30 * time.Minute

// PaymentService is the payment registry: it encodes charges, tracks their
// pending → paid/expired/cancelled lifecycle and persists the whole
// collection through the store on every mutation. Expiry is lazy: a record
// flips to expired the first time anything reads it past its deadline, never
// via a background timer.
type PaymentService struct {
	mu      sync.Mutex
	store   storage.Store
	records map[string]model.PaymentRecord
	profile pix.MerchantProfile
	qr      *qrcode.Generator
	expiry  time.Duration
	now     func() time.Time
}

func NewPaymentService(ctx context.Context, store storage.Store, profile pix.MerchantProfile, qr *qrcode.Generator, expiry time.Duration) (*PaymentService, error) {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}

	records, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore payment registry: %w", err)
	}

	return &PaymentService{
		store:   store,
		records: records,
		profile: profile,
		qr:      qr,
		expiry:  expiry,
		now:     time.Now,
	}, nil
}

// WithClock replaces the time source. Test hook.
func (s *PaymentService) WithClock(now func() time.Time) *PaymentService {
	s.now = now
	return s
}

func (s *PaymentService) CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error) {
	amount := decimal.NewFromFloat(req.Amount).Round(2)

	payload, err := pix.Encode(s.profile, pix.Charge{
		Amount:      amount,
		Description: req.Description,
		OrderID:     req.OrderID,
	})
	if err != nil {
		return nil, fmt.Errorf("encode payment: %w", err)
	}

	// Round-trip self-check. Truncation happens before encoding, so a
	// failure here means the codec itself is broken and the payload must
	// not reach a customer.
	if res := pix.Validate(payload); !res.Valid {
		return nil, fmt.Errorf("generated payload failed validation: %s", strings.Join(res.Errors, "; "))
	}

	now := s.now()
	expiry := s.expiry
	if req.ExpiresInMinutes > 0 {
		expiry = time.Duration(req.ExpiresInMinutes) * time.Minute
	}

	rec := model.PaymentRecord{
		TransactionID: newTransactionID(now),
		Payload:       payload,
		Amount:        amount,
		Description:   req.Description,
		OrderID:       req.OrderID,
		Customer: model.Customer{
			Name:     req.Customer.Name,
			Email:    req.Customer.Email,
			Phone:    req.Customer.Phone,
			Document: req.Customer.Document,
		},
		Status:    model.StatusPending,
		ExpiresAt: now.Add(expiry),
		CreatedAt: now,
	}

	img := s.qr.Generate(ctx, payload)

	s.mu.Lock()
	s.records[rec.TransactionID] = rec
	s.persist(ctx)
	s.mu.Unlock()

	log.Info().
		Str("transaction_id", rec.TransactionID).
		Str("order_id", rec.OrderID).
		Str("amount", amount.StringFixed(2)).
		Msg("payment created")

	return &dto.CreatePaymentResponse{
		Success:       true,
		TransactionID: rec.TransactionID,
		PixCode:       payload,
		QRCodeBase64:  img.DataURI,
		QRCodeURL:     img.RemoteURL,
		Amount:        amount.InexactFloat64(),
		ExpiresAt:     rec.ExpiresAt,
		Status:        string(rec.Status),
	}, nil
}

// GetPayment returns nil for an unknown id. The lazy-expiry check runs
// before the record is handed back.
func (s *PaymentService) GetPayment(ctx context.Context, transactionID string) *model.PaymentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[transactionID]
	if !ok {
		return nil
	}

	if rec.Expired(s.now()) {
		rec.Status = model.StatusExpired
		s.records[transactionID] = rec
		s.persist(ctx)
	}
	return &rec
}

// ConfirmPayment moves a pending record to paid. Unknown or already-terminal
// ids return ok=false and mutate nothing.
func (s *PaymentService) ConfirmPayment(ctx context.Context, transactionID string) (*model.PaymentRecord, bool) {
	return s.transition(ctx, transactionID, model.StatusPaid)
}

// CancelPayment moves a pending record to cancelled with the same
// unknown/terminal semantics as ConfirmPayment.
func (s *PaymentService) CancelPayment(ctx context.Context, transactionID string) (*model.PaymentRecord, bool) {
	return s.transition(ctx, transactionID, model.StatusCancelled)
}

func (s *PaymentService) transition(ctx context.Context, transactionID string, to model.PaymentStatus) (*model.PaymentRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[transactionID]
	if !ok {
		return nil, false
	}

	now := s.now()
	if rec.Expired(now) {
		rec.Status = model.StatusExpired
		s.records[transactionID] = rec
		s.persist(ctx)
		return &rec, false
	}
	if rec.Status.Terminal() {
		return &rec, false
	}

	rec.Status = to
	switch to {
	case model.StatusPaid:
		rec.PaidAt = &now
	case model.StatusCancelled:
		rec.CancelledAt = &now
	}
	s.records[transactionID] = rec
	s.persist(ctx)

	log.Info().
		Str("transaction_id", transactionID).
		Str("status", string(to)).
		Msg("payment status updated")

	return &rec, true
}

// ListPayments applies the lazy-expiry check across the registry and returns
// records newest first.
func (s *PaymentService) ListPayments(ctx context.Context) []model.PaymentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	changed := false
	out := make([]model.PaymentRecord, 0, len(s.records))
	for id, rec := range s.records {
		if rec.Expired(now) {
			rec.Status = model.StatusExpired
			s.records[id] = rec
			changed = true
		}
		out = append(out, rec)
	}
	if changed {
		s.persist(ctx)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

type Stats struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	Paid           int     `json:"paid"`
	Expired        int     `json:"expired"`
	Cancelled      int     `json:"cancelled"`
	TotalPaid      float64 `json:"total_paid"`
	ConversionRate float64 `json:"conversion_rate"`
}

func (s *PaymentService) Stats(ctx context.Context) Stats {
	var stats Stats
	totalPaid := decimal.Zero

	for _, rec := range s.ListPayments(ctx) {
		stats.Total++
		switch rec.Status {
		case model.StatusPending:
			stats.Pending++
		case model.StatusPaid:
			stats.Paid++
			totalPaid = totalPaid.Add(rec.Amount)
		case model.StatusExpired:
			stats.Expired++
		case model.StatusCancelled:
			stats.Cancelled++
		}
	}

	stats.TotalPaid = totalPaid.InexactFloat64()
	if stats.Total > 0 {
		stats.ConversionRate = float64(stats.Paid) / float64(stats.Total)
	}
	return stats
}

// persist rewrites the whole snapshot. Callers hold the mutex. A storage
// failure keeps the in-memory registry authoritative rather than failing the
// customer-facing call.
func (s *PaymentService) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.records); err != nil {
		log.Error().Err(err).Msg("failed to persist payment registry")
	}
}

// Transaction ids are best-effort unique: creation timestamp plus a random
// suffix, readable enough to grep in logs.
func newTransactionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("pix_%d_%s", now.UnixMilli(), suffix)
}
