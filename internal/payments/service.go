package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/db"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type paymentRepository interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	FindPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, error)
	UpdatePayment(ctx context.Context, payment *models.Payment) error
	SumReceivedForDocument(ctx context.Context, documentID uuid.UUID) (decimal.Decimal, error)
	CreateChallan(ctx context.Context, challan *models.Challan) error
	FindChallanByID(ctx context.Context, id uuid.UUID) (*models.Challan, error)
	ListChallans(ctx context.Context, filter ChallanFilter) ([]models.Challan, error)
	UpdateChallan(ctx context.Context, challan *models.Challan) error
}

type activityRecorder interface {
	Record(ctx context.Context, actorID *uuid.UUID, entityType, entityID string, action enums.ActivityAction, detail string)
}

// Service exposes payment and challan operations.
type Service interface {
	RecordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentDTO, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*PaymentDTO, error)
	ListPayments(ctx context.Context, filter PaymentFilter) ([]PaymentDTO, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, next enums.PaymentStatus, actorID *uuid.UUID) (*PaymentDTO, error)
	TotalReceivedForDocument(ctx context.Context, documentID uuid.UUID) (decimal.Decimal, error)

	IssueChallan(ctx context.Context, input IssueChallanInput) (*ChallanDTO, error)
	GetChallan(ctx context.Context, id uuid.UUID) (*ChallanDTO, error)
	ListChallans(ctx context.Context, filter ChallanFilter) ([]ChallanDTO, error)
	UpdateChallanStatus(ctx context.Context, id uuid.UUID, next enums.ChallanStatus, actorID *uuid.UUID) (*ChallanDTO, error)
}

type service struct {
	repo     paymentRepository
	activity activityRecorder
	now      func() time.Time
}

// NewService constructs the payments service. The activity recorder is
// optional; passing nil disables audit entries.
func NewService(repo paymentRepository, activity activityRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	return &service{
		repo:     repo,
		activity: activity,
		now:      time.Now,
	}, nil
}

func (s *service) RecordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentDTO, error) {
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	if !input.Mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment mode %q", input.Mode))
	}

	payment := &models.Payment{
		ID:         uuid.New(),
		DocumentID: input.DocumentID,
		CustomerID: input.CustomerID,
		Amount:     input.Amount,
		Mode:       input.Mode,
		Status:     enums.PaymentStatusPending,
		Reference:  input.Reference,
		Notes:      input.Notes,
		ReceivedBy: input.ReceivedBy,
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
	}

	s.record(ctx, input.ReceivedBy, "payment", payment.ID, enums.ActivityActionCreated,
		fmt.Sprintf("payment of %s recorded via %s", payment.Amount.StringFixed(2), payment.Mode))
	return PaymentFromModel(payment), nil
}

func (s *service) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentDTO, error) {
	payment, err := s.loadPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	return PaymentFromModel(payment), nil
}

func (s *service) ListPayments(ctx context.Context, filter PaymentFilter) ([]PaymentDTO, error) {
	rows, err := s.repo.ListPayments(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	out := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *PaymentFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, next enums.PaymentStatus, actorID *uuid.UUID) (*PaymentDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment status %q", next))
	}

	payment, err := s.loadPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status == next {
		return PaymentFromModel(payment), nil
	}
	if !payment.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move payment from %s to %s", payment.Status, next))
	}

	previous := payment.Status
	payment.Status = next
	if next == enums.PaymentStatusReceived && payment.PaidAt == nil {
		now := s.now()
		payment.PaidAt = &now
	}
	if err := s.repo.UpdatePayment(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
	}

	s.record(ctx, actorID, "payment", payment.ID, enums.ActivityActionStatusChanged,
		fmt.Sprintf("payment moved from %s to %s", previous, next))
	return PaymentFromModel(payment), nil
}

func (s *service) TotalReceivedForDocument(ctx context.Context, documentID uuid.UUID) (decimal.Decimal, error) {
	total, err := s.repo.SumReceivedForDocument(ctx, documentID)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum payments")
	}
	return total, nil
}

func (s *service) IssueChallan(ctx context.Context, input IssueChallanInput) (*ChallanDTO, error) {
	number := strings.TrimSpace(input.ChallanNumber)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "challan number is required")
	}
	if strings.TrimSpace(input.Department) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "department is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "challan amount must be positive")
	}

	issuedAt := input.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = s.now()
	}
	challan := &models.Challan{
		ID:            uuid.New(),
		ChallanNumber: number,
		DocumentID:    input.DocumentID,
		Department:    strings.TrimSpace(input.Department),
		Amount:        input.Amount,
		Status:        enums.ChallanStatusIssued,
		IssuedAt:      issuedAt,
		Notes:         input.Notes,
	}
	if err := s.repo.CreateChallan(ctx, challan); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("challan %s already recorded", number))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create challan")
	}

	s.record(ctx, nil, "challan", challan.ID, enums.ActivityActionCreated,
		fmt.Sprintf("challan %s issued for %s", challan.ChallanNumber, challan.Amount.StringFixed(2)))
	return ChallanFromModel(challan), nil
}

func (s *service) GetChallan(ctx context.Context, id uuid.UUID) (*ChallanDTO, error) {
	challan, err := s.loadChallan(ctx, id)
	if err != nil {
		return nil, err
	}
	return ChallanFromModel(challan), nil
}

func (s *service) ListChallans(ctx context.Context, filter ChallanFilter) ([]ChallanDTO, error) {
	rows, err := s.repo.ListChallans(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list challans")
	}
	out := make([]ChallanDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ChallanFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) UpdateChallanStatus(ctx context.Context, id uuid.UUID, next enums.ChallanStatus, actorID *uuid.UUID) (*ChallanDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown challan status %q", next))
	}

	challan, err := s.loadChallan(ctx, id)
	if err != nil {
		return nil, err
	}
	if challan.Status == next {
		return ChallanFromModel(challan), nil
	}
	if !challan.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move challan from %s to %s", challan.Status, next))
	}

	previous := challan.Status
	challan.Status = next
	now := s.now()
	switch next {
	case enums.ChallanStatusDeposited:
		if challan.DepositedAt == nil {
			challan.DepositedAt = &now
		}
	case enums.ChallanStatusVerified:
		if challan.VerifiedAt == nil {
			challan.VerifiedAt = &now
		}
	}
	if err := s.repo.UpdateChallan(ctx, challan); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update challan")
	}

	s.record(ctx, actorID, "challan", challan.ID, enums.ActivityActionStatusChanged,
		fmt.Sprintf("challan %s moved from %s to %s", challan.ChallanNumber, previous, next))
	return ChallanFromModel(challan), nil
}

func (s *service) loadPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, err := s.repo.FindPaymentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	return payment, nil
}

func (s *service) loadChallan(ctx context.Context, id uuid.UUID) (*models.Challan, error) {
	challan, err := s.repo.FindChallanByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "challan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load challan")
	}
	return challan, nil
}

func (s *service) record(ctx context.Context, actorID *uuid.UUID, entityType string, entityID uuid.UUID, action enums.ActivityAction, detail string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, actorID, entityType, entityID.String(), action, detail)
}
