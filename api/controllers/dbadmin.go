package controllers

import (
	"net/http"

	"github.com/docudeskhq/docudesk-backend/api/responses"
	"github.com/docudeskhq/docudesk-backend/api/validators"
	"github.com/docudeskhq/docudesk-backend/internal/dbadmin"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/docudeskhq/docudesk-backend/pkg/logger"
)

// DBQuery executes one raw SQL statement. Routing restricts this endpoint to
// the main admin.
func DBQuery(svc dbadmin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "database gateway unavailable"))
			return
		}

		var body dbadmin.QueryInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Query(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// DBTestConnection probes either the configured database (empty body) or the
// connection described by the submitted fields.
func DBTestConnection(svc dbadmin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "database gateway unavailable"))
			return
		}

		var body dbadmin.TestConnectionInput
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := svc.TestConnection(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
