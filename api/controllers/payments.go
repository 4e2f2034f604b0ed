package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/docudeskhq/docudesk-backend/api/responses"
	"github.com/docudeskhq/docudesk-backend/api/validators"
	"github.com/docudeskhq/docudesk-backend/internal/payments"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/docudeskhq/docudesk-backend/pkg/logger"
)

type paymentCreateRequest struct {
	DocumentID *string         `json:"document_id"`
	CustomerID *string         `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	Mode       string          `json:"mode" validate:"required"`
	Reference  *string         `json:"reference"`
	Notes      string          `json:"notes"`
}

type paymentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type challanCreateRequest struct {
	ChallanNumber string          `json:"challan_number" validate:"required"`
	DocumentID    *string         `json:"document_id"`
	Department    string          `json:"department" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	IssuedAt      *time.Time      `json:"issued_at"`
	Notes         string          `json:"notes"`
}

type challanStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PaymentCreate records an incoming payment against a document or customer.
func PaymentCreate(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var body paymentCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		documentID, err := parseOptionalUUIDField(body.DocumentID, "document_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := parseOptionalUUIDField(body.CustomerID, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.RecordPayment(r.Context(), payments.RecordPaymentInput{
			DocumentID: documentID,
			CustomerID: customerID,
			Amount:     body.Amount,
			Mode:       enums.PaymentMode(body.Mode),
			Reference:  body.Reference,
			Notes:      body.Notes,
			ReceivedBy: actorRef(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

func PaymentDetail(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		id, err := parseIDParam(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.GetPayment(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, payment)
	}
}

func PaymentList(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		filter := payments.PaymentFilter{}
		var err error
		if filter.DocumentID, err = validators.ParseQueryUUID(r, "document_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.CustomerID, err = validators.ParseQueryUUID(r, "customer_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.PaymentStatus(raw)
			filter.Status = &status
		}

		list, err := svc.ListPayments(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func PaymentUpdateStatus(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		id, err := parseIDParam(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paymentStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.UpdatePaymentStatus(r.Context(), id, enums.PaymentStatus(body.Status), actorRef(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, payment)
	}
}

// DocumentPaymentTotal sums received payments for one document.
func DocumentPaymentTotal(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		id, err := parseIDParam(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		total, err := svc.TotalReceivedForDocument(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"document_id": id, "total_received": total})
	}
}

// ChallanCreate records a government challan receipt.
func ChallanCreate(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var body challanCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		documentID, err := parseOptionalUUIDField(body.DocumentID, "document_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := payments.IssueChallanInput{
			ChallanNumber: body.ChallanNumber,
			DocumentID:    documentID,
			Department:    body.Department,
			Amount:        body.Amount,
			Notes:         body.Notes,
		}
		if body.IssuedAt != nil {
			input.IssuedAt = *body.IssuedAt
		}

		challan, err := svc.IssueChallan(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, challan)
	}
}

func ChallanDetail(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		id, err := parseIDParam(r, "challanId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		challan, err := svc.GetChallan(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, challan)
	}
}

func ChallanList(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		filter := payments.ChallanFilter{}
		var err error
		if filter.DocumentID, err = validators.ParseQueryUUID(r, "document_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.ChallanStatus(raw)
			filter.Status = &status
		}

		list, err := svc.ListChallans(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func ChallanUpdateStatus(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		id, err := parseIDParam(r, "challanId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body challanStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		challan, err := svc.UpdateChallanStatus(r.Context(), id, enums.ChallanStatus(body.Status), actorRef(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, challan)
	}
}
