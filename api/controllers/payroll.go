package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/docudeskhq/docudesk-backend/api/responses"
	"github.com/docudeskhq/docudesk-backend/api/validators"
	"github.com/docudeskhq/docudesk-backend/internal/payroll"
	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/docudeskhq/docudesk-backend/pkg/logger"
)

type salaryConfigRequest struct {
	UserID        string                   `json:"user_id" validate:"required"`
	BaseSalary    decimal.Decimal          `json:"base_salary" validate:"required"`
	Allowances    dbtypes.PayComponentList `json:"allowances"`
	Deductions    dbtypes.PayComponentList `json:"deductions"`
	OvertimeRate  decimal.Decimal          `json:"overtime_rate"`
	EffectiveFrom string                   `json:"effective_from"`
}

type payrollGenerateRequest struct {
	Month   int                        `json:"month" validate:"required,min=1,max=12"`
	Year    int                        `json:"year" validate:"required,min=2000"`
	Bonuses map[string]decimal.Decimal `json:"bonuses"`
}

type salaryStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SalaryConfigUpsert replaces the active salary configuration for one user.
func SalaryConfigUpsert(svc payroll.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payroll service unavailable"))
			return
		}

		var body salaryConfigRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuid.Parse(strings.TrimSpace(body.UserID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid user_id"))
			return
		}

		cfg, err := svc.UpsertConfig(r.Context(), payroll.UpsertConfigInput{
			UserID:        userID,
			BaseSalary:    body.BaseSalary,
			Allowances:    body.Allowances,
			Deductions:    body.Deductions,
			OvertimeRate:  body.OvertimeRate,
			EffectiveFrom: body.EffectiveFrom,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cfg)
	}
}

func SalaryConfigDetail(svc payroll.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payroll service unavailable"))
			return
		}

		userID, err := parseIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cfg, err := svc.GetActiveConfig(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cfg)
	}
}

// PayrollGenerate runs salary generation for one month across all active
// configurations. Already-generated users are skipped.
func PayrollGenerate(svc payroll.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payroll service unavailable"))
			return
		}

		var body payrollGenerateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bonuses := make(map[uuid.UUID]decimal.Decimal, len(body.Bonuses))
		for raw, amount := range body.Bonuses {
			userID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid bonus user id").WithDetails(map[string]any{"user_id": raw}))
				return
			}
			bonuses[userID] = amount
		}

		result, err := svc.Generate(r.Context(), payroll.GenerateInput{
			Month:       body.Month,
			Year:        body.Year,
			Bonuses:     bonuses,
			GeneratedBy: actorRef(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func SalaryRecordDetail(svc payroll.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payroll service unavailable"))
			return
		}

		id, err := parseIDParam(r, "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetRecord(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

func SalaryRecordList(svc payroll.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payroll service unavailable"))
			return
		}

		filter := payroll.RecordFilter{}
		var err error
		if filter.UserID, err = validators.ParseQueryUUID(r, "user_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("month")); raw != "" {
			month, err := validators.ParseQueryInt(r, "month", 0, 1, 12)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.Month = &month
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
			year, err := validators.ParseQueryInt(r, "year", 0, 2000, 2200)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.Year = &year
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.SalaryStatus(raw)
			filter.Status = &status
		}

		list, err := svc.ListRecords(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func SalaryRecordUpdateStatus(svc payroll.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payroll service unavailable"))
			return
		}

		id, err := parseIDParam(r, "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body salaryStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateRecordStatus(r.Context(), id, enums.SalaryStatus(body.Status), actorRef(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}
