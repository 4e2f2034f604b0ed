package controllers

import (
	"net/http"
	"strings"

	"github.com/docudeskhq/docudesk-backend/api/responses"
	"github.com/docudeskhq/docudesk-backend/api/validators"
	"github.com/docudeskhq/docudesk-backend/internal/activity"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/docudeskhq/docudesk-backend/pkg/logger"
)

// ActivityList returns the audit trail, newest first.
func ActivityList(recorder *activity.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if recorder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activity recorder unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := activity.ListFilter{
			EntityType: strings.TrimSpace(r.URL.Query().Get("entity_type")),
			EntityID:   strings.TrimSpace(r.URL.Query().Get("entity_id")),
			Limit:      limit,
		}
		if filter.ActorID, err = validators.ParseQueryUUID(r, "actor_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := recorder.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}
