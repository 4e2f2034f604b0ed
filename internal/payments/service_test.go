package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubPaymentRepo struct {
	payments map[uuid.UUID]*models.Payment
	challans map[uuid.UUID]*models.Challan
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{
		payments: map[uuid.UUID]*models.Payment{},
		challans: map[uuid.UUID]*models.Challan{},
	}
}

func (s *stubPaymentRepo) CreatePayment(_ context.Context, payment *models.Payment) error {
	copied := *payment
	s.payments[payment.ID] = &copied
	return nil
}

func (s *stubPaymentRepo) FindPaymentByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, ok := s.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *payment
	return &copied, nil
}

func (s *stubPaymentRepo) ListPayments(_ context.Context, filter PaymentFilter) ([]models.Payment, error) {
	var out []models.Payment
	for _, payment := range s.payments {
		if filter.DocumentID != nil && (payment.DocumentID == nil || *payment.DocumentID != *filter.DocumentID) {
			continue
		}
		if filter.Status != nil && payment.Status != *filter.Status {
			continue
		}
		out = append(out, *payment)
	}
	return out, nil
}

func (s *stubPaymentRepo) UpdatePayment(_ context.Context, payment *models.Payment) error {
	copied := *payment
	s.payments[payment.ID] = &copied
	return nil
}

func (s *stubPaymentRepo) SumReceivedForDocument(_ context.Context, documentID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, payment := range s.payments {
		if payment.DocumentID == nil || *payment.DocumentID != documentID {
			continue
		}
		if payment.Status != enums.PaymentStatusReceived {
			continue
		}
		total = total.Add(payment.Amount)
	}
	return total, nil
}

func (s *stubPaymentRepo) CreateChallan(_ context.Context, challan *models.Challan) error {
	for _, existing := range s.challans {
		if existing.ChallanNumber == challan.ChallanNumber {
			return errors.New("UNIQUE constraint failed: challans.challan_number")
		}
	}
	copied := *challan
	s.challans[challan.ID] = &copied
	return nil
}

func (s *stubPaymentRepo) FindChallanByID(_ context.Context, id uuid.UUID) (*models.Challan, error) {
	challan, ok := s.challans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *challan
	return &copied, nil
}

func (s *stubPaymentRepo) ListChallans(_ context.Context, filter ChallanFilter) ([]models.Challan, error) {
	var out []models.Challan
	for _, challan := range s.challans {
		if filter.Status != nil && challan.Status != *filter.Status {
			continue
		}
		out = append(out, *challan)
	}
	return out, nil
}

func (s *stubPaymentRepo) UpdateChallan(_ context.Context, challan *models.Challan) error {
	copied := *challan
	s.challans[challan.ID] = &copied
	return nil
}

func newPaymentsService(t *testing.T, repo *stubPaymentRepo) Service {
	t.Helper()
	svc, err := NewService(repo, nil)
	require.NoError(t, err)
	return svc
}

func TestRecordPaymentStartsPending(t *testing.T) {
	repo := newStubPaymentRepo()
	svc := newPaymentsService(t, repo)

	docID := uuid.New()
	payment, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		DocumentID: &docID,
		Amount:     decimal.RequireFromString("1500.50"),
		Mode:       enums.PaymentModeUPI,
	})
	require.NoError(t, err)
	require.Equal(t, enums.PaymentStatusPending, payment.Status)
	require.Nil(t, payment.PaidAt)
	require.Equal(t, "1500.5", payment.Amount.String())
}

func TestRecordPaymentRejectsBadInput(t *testing.T) {
	svc := newPaymentsService(t, newStubPaymentRepo())

	_, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		Amount: decimal.Zero,
		Mode:   enums.PaymentModeCash,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.RecordPayment(context.Background(), RecordPaymentInput{
		Amount: decimal.NewFromInt(100),
		Mode:   enums.PaymentMode("barter"),
	})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdatePaymentStatusStampsPaidAt(t *testing.T) {
	repo := newStubPaymentRepo()
	svc := newPaymentsService(t, repo)

	payment, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		Amount: decimal.NewFromInt(200),
		Mode:   enums.PaymentModeCash,
	})
	require.NoError(t, err)

	received, err := svc.UpdatePaymentStatus(context.Background(), payment.ID, enums.PaymentStatusReceived, nil)
	require.NoError(t, err)
	require.Equal(t, enums.PaymentStatusReceived, received.Status)
	require.NotNil(t, received.PaidAt)
	firstPaidAt := *received.PaidAt

	// Refund keeps the original receipt timestamp.
	refunded, err := svc.UpdatePaymentStatus(context.Background(), payment.ID, enums.PaymentStatusRefunded, nil)
	require.NoError(t, err)
	require.Equal(t, enums.PaymentStatusRefunded, refunded.Status)
	require.True(t, firstPaidAt.Equal(*refunded.PaidAt))

	// Refunded is terminal.
	_, err = svc.UpdatePaymentStatus(context.Background(), payment.ID, enums.PaymentStatusPending, nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdatePaymentStatusRejectsSkippingPending(t *testing.T) {
	repo := newStubPaymentRepo()
	svc := newPaymentsService(t, repo)

	payment, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		Amount: decimal.NewFromInt(75),
		Mode:   enums.PaymentModeCheque,
	})
	require.NoError(t, err)

	_, err = svc.UpdatePaymentStatus(context.Background(), payment.ID, enums.PaymentStatusRefunded, nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestTotalReceivedForDocumentSumsExactly(t *testing.T) {
	repo := newStubPaymentRepo()
	svc := newPaymentsService(t, repo)

	docID := uuid.New()
	amounts := []string{"1000.10", "250.25", "0.65"}
	for _, raw := range amounts {
		payment, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
			DocumentID: &docID,
			Amount:     decimal.RequireFromString(raw),
			Mode:       enums.PaymentModeBankTransfer,
		})
		require.NoError(t, err)
		_, err = svc.UpdatePaymentStatus(context.Background(), payment.ID, enums.PaymentStatusReceived, nil)
		require.NoError(t, err)
	}

	// A pending payment must not count toward the total.
	_, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		DocumentID: &docID,
		Amount:     decimal.NewFromInt(9999),
		Mode:       enums.PaymentModeCash,
	})
	require.NoError(t, err)

	total, err := svc.TotalReceivedForDocument(context.Background(), docID)
	require.NoError(t, err)
	require.Equal(t, "1251.00", total.StringFixed(2))
}

func TestIssueChallanRejectsDuplicateNumber(t *testing.T) {
	repo := newStubPaymentRepo()
	svc := newPaymentsService(t, repo)

	input := IssueChallanInput{
		ChallanNumber: "CHN-2026-000415",
		Department:    "Stamps and Registration",
		Amount:        decimal.NewFromInt(5400),
		IssuedAt:      time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
	}
	challan, err := svc.IssueChallan(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, enums.ChallanStatusIssued, challan.Status)

	_, err = svc.IssueChallan(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestChallanLifecycleStampsTimestamps(t *testing.T) {
	repo := newStubPaymentRepo()
	svc := newPaymentsService(t, repo)

	challan, err := svc.IssueChallan(context.Background(), IssueChallanInput{
		ChallanNumber: "CHN-2026-000777",
		Department:    "Stamps and Registration",
		Amount:        decimal.NewFromInt(1200),
	})
	require.NoError(t, err)
	require.False(t, challan.IssuedAt.IsZero())

	// Verification is only reachable through deposit.
	_, err = svc.UpdateChallanStatus(context.Background(), challan.ID, enums.ChallanStatusVerified, nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	deposited, err := svc.UpdateChallanStatus(context.Background(), challan.ID, enums.ChallanStatusDeposited, nil)
	require.NoError(t, err)
	require.NotNil(t, deposited.DepositedAt)
	require.Nil(t, deposited.VerifiedAt)

	verified, err := svc.UpdateChallanStatus(context.Background(), challan.ID, enums.ChallanStatusVerified, nil)
	require.NoError(t, err)
	require.NotNil(t, verified.VerifiedAt)

	// Cancellation is only allowed straight after issue.
	_, err = svc.UpdateChallanStatus(context.Background(), challan.ID, enums.ChallanStatusCancelled, nil)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestChallanCancelOnlyFromIssued(t *testing.T) {
	repo := newStubPaymentRepo()
	svc := newPaymentsService(t, repo)

	challan, err := svc.IssueChallan(context.Background(), IssueChallanInput{
		ChallanNumber: "CHN-2026-000778",
		Department:    "Stamps and Registration",
		Amount:        decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	cancelled, err := svc.UpdateChallanStatus(context.Background(), challan.ID, enums.ChallanStatusCancelled, nil)
	require.NoError(t, err)
	require.Equal(t, enums.ChallanStatusCancelled, cancelled.Status)

	_, err = svc.UpdateChallanStatus(context.Background(), challan.ID, enums.ChallanStatusDeposited, nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}
