package controllers

import (
	"net/http"
	"strings"

	"github.com/docudeskhq/docudesk-backend/api/responses"
	"github.com/docudeskhq/docudesk-backend/api/validators"
	"github.com/docudeskhq/docudesk-backend/internal/documents"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/docudeskhq/docudesk-backend/pkg/logger"
	"github.com/docudeskhq/docudesk-backend/pkg/pagination"
	"github.com/google/uuid"
)

type documentCreateRequest struct {
	Type            string   `json:"type" validate:"required"`
	CustomerName    string   `json:"customer_name" validate:"required"`
	CustomerPhone   string   `json:"customer_phone" validate:"required"`
	CustomerEmail   *string  `json:"customer_email" validate:"omitempty,email"`
	BuilderName     string   `json:"builder_name"`
	PropertyDetails string   `json:"property_details"`
	AssignedTo      *string  `json:"assigned_to"`
	Notes           string   `json:"notes"`
	Tags            []string `json:"tags"`
}

type documentUpdateRequest struct {
	PropertyDetails *string   `json:"property_details"`
	AssignedTo      *string   `json:"assigned_to"`
	ClearAssignee   bool      `json:"clear_assignee"`
	Notes           *string   `json:"notes"`
	Tags            *[]string `json:"tags"`
}

type documentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type documentFileRequest struct {
	FileName    string `json:"file_name" validate:"required"`
	SizeBytes   int64  `json:"size_bytes" validate:"min=0"`
	ContentType string `json:"content_type"`
	StorageKey  string `json:"storage_key" validate:"required"`
}

func parseOptionalUUIDField(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field).WithDetails(map[string]any{"field": field})
	}
	return &id, nil
}

// DocumentCreate registers a new document and links its parties.
func DocumentCreate(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		var body documentCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignedTo, err := parseOptionalUUIDField(body.AssignedTo, "assigned_to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.Create(r.Context(), documents.CreateDocumentInput{
			Type:            enums.DocumentType(body.Type),
			CustomerName:    body.CustomerName,
			CustomerPhone:   body.CustomerPhone,
			CustomerEmail:   body.CustomerEmail,
			BuilderName:     body.BuilderName,
			PropertyDetails: body.PropertyDetails,
			AssignedTo:      assignedTo,
			Notes:           body.Notes,
			Tags:            body.Tags,
			CreatedBy:       actorRef(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, doc)
	}
}

func DocumentDetail(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		id, err := parseIDParam(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, doc)
	}
}

// DocumentLookupByNumber resolves a registration number like AGR/2026/001.
func DocumentLookupByNumber(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		number := strings.TrimSpace(r.URL.Query().Get("number"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "number query parameter is required"))
			return
		}

		doc, err := svc.GetByNumber(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, doc)
	}
}

// DocumentList pages through documents with optional filters.
func DocumentList(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := documents.ListFilter{Search: strings.TrimSpace(r.URL.Query().Get("search"))}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.DocumentStatus(raw)
			filter.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			docType := enums.DocumentType(raw)
			filter.Type = &docType
		}
		for key, target := range map[string]**uuid.UUID{
			"assigned_to": &filter.AssignedTo,
			"customer_id": &filter.CustomerID,
			"builder_id":  &filter.BuilderID,
		} {
			value, err := validators.ParseQueryUUID(r, key)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			*target = value
		}

		page, err := svc.List(r.Context(), filter, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func DocumentUpdate(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		id, err := parseIDParam(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body documentUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignedTo, err := parseOptionalUUIDField(body.AssignedTo, "assigned_to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.Update(r.Context(), id, documents.UpdateDocumentInput{
			PropertyDetails: body.PropertyDetails,
			AssignedTo:      assignedTo,
			ClearAssignee:   body.ClearAssignee,
			Notes:           body.Notes,
			Tags:            body.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, doc)
	}
}

// DocumentUpdateStatus advances a document through its pipeline.
func DocumentUpdateStatus(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		id, err := parseIDParam(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithDocumentID(ctx, id.String())
		}

		var body documentStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		doc, err := svc.UpdateStatus(ctx, id, enums.DocumentStatus(body.Status), actorRef(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, doc)
	}
}

func DocumentDelete(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		id, err := parseIDParam(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithDocumentID(ctx, id.String())
		}

		if err := svc.Delete(ctx, id, actorRef(r)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// DocumentAddFile records attachment metadata against a document.
func DocumentAddFile(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		id, err := parseIDParam(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body documentFileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, err := svc.AddFile(r.Context(), id, documents.AddFileInput{
			FileName:    body.FileName,
			SizeBytes:   body.SizeBytes,
			ContentType: body.ContentType,
			StorageKey:  body.StorageKey,
			UploadedBy:  actorRef(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, file)
	}
}

func DocumentFiles(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		id, err := parseIDParam(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		files, err := svc.ListFiles(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, files)
	}
}

func DocumentDeleteFile(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		documentID, err := parseIDParam(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fileID, err := parseIDParam(r, "fileId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteFile(r.Context(), documentID, fileID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
