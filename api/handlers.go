/*
handlers.go - HTTP API handlers for the agreement pricing service

PURPOSE:
  Exposes the agreement engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Agreements:
    GET    /api/agreements                 List agreements (optional ?company_id=)
    POST   /api/agreements                 Create an agreement draft
    GET    /api/agreements/{id}            Get one agreement
    PUT    /api/agreements/{id}/draft      Replace the editable draft
    POST   /api/agreements/{id}/status     Move the agreement's status
    POST   /api/agreements/preview         Derive figures without saving

  Offices:
    GET    /api/offices                    List office inventory
    POST   /api/offices                    Create an office
    GET    /api/offices/{id}               Get one office

  Termination notices:
    GET    /api/notices?company_id=        List a client's notices
    POST   /api/notices                    Serve a notice
    GET    /api/notices/{id}               Get one notice
    PUT    /api/notices/{id}/override      Set or clear the manual end date
    POST   /api/notices/{id}/activate      Freeze the notice as effective
    POST   /api/notices/{id}/cancel        Withdraw the notice

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Lifecycle conflicts (frozen records, bad transitions)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/warp/agreement-engine/agreement"
	"github.com/warp/agreement-engine/engine"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *agreement.Service
	Store   agreement.Store

	log      zerolog.Logger
	validate *validator.Validate
}

// NewHandler creates a new handler over the domain service.
func NewHandler(svc *agreement.Service, store agreement.Store, log zerolog.Logger) *Handler {
	return &Handler{
		Service:  svc,
		Store:    store,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// =============================================================================
// AGREEMENT HANDLERS
// =============================================================================

// ListAgreements returns all agreements, optionally filtered by client.
func (h *Handler) ListAgreements(w http.ResponseWriter, r *http.Request) {
	var (
		list []agreement.Agreement
		err  error
	)
	if companyID := r.URL.Query().Get("company_id"); companyID != "" {
		list, err = h.Store.ListAgreementsByCompany(r.Context(), companyID)
	} else {
		list, err = h.Store.ListAgreements(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list agreements", err)
		return
	}

	dtos := make([]AgreementDTO, len(list))
	for i, a := range list {
		dtos[i] = agreementToDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAgreement creates a new draft agreement.
func (h *Handler) CreateAgreement(w http.ResponseWriter, r *http.Request) {
	var req CreateAgreementRequest
	if !h.decode(w, r, &req) {
		return
	}

	draft, err := draftFromDTO(req.Draft)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date in draft", err)
		return
	}

	a, err := h.Service.CreateAgreement(r.Context(), req.CompanyID, draft)
	if err != nil {
		h.writeDomainError(w, "Failed to create agreement", err)
		return
	}

	// Party fields are host plumbing outside the calculation slice.
	a.LicenseeName = req.LicenseeName
	a.CommercialName = req.CommercialName
	a.Building = req.Building
	a.Notes = req.Notes
	if err := h.Store.SaveAgreement(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save agreement", err)
		return
	}

	h.log.Info().Str("agreement_id", a.ID).Str("doc_id", a.DocID).
		Str("company_id", a.CompanyID).Msg("agreement created")
	writeJSON(w, http.StatusCreated, agreementToDTO(a))
}

// GetAgreement returns a single agreement.
func (h *Handler) GetAgreement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.Store.GetAgreement(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get agreement", err)
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "Agreement not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, agreementToDTO(*a))
}

// UpdateDraft replaces an agreement's editable draft and rederives.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateDraftRequest
	if !h.decode(w, r, &req) {
		return
	}

	draft, err := draftFromDTO(req.Draft)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date in draft", err)
		return
	}

	a, err := h.Service.UpdateDraft(r.Context(), id, draft)
	if err != nil {
		h.writeDomainError(w, "Failed to update agreement", err)
		return
	}
	writeJSON(w, http.StatusOK, agreementToDTO(a))
}

// TransitionAgreement moves an agreement through its lifecycle.
func (h *Handler) TransitionAgreement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req TransitionRequest
	if !h.decode(w, r, &req) {
		return
	}

	a, err := h.Service.Transition(r.Context(), id, agreement.Status(req.Status))
	if err != nil {
		h.writeDomainError(w, "Failed to change status", err)
		return
	}

	h.log.Info().Str("agreement_id", a.ID).Str("status", string(a.Status)).
		Msg("agreement status changed")
	writeJSON(w, http.StatusOK, agreementToDTO(a))
}

// PreviewDraft derives a draft's figures without persisting anything.
func (h *Handler) PreviewDraft(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if !h.decode(w, r, &req) {
		return
	}

	draft, err := draftFromDTO(req.Draft)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date in draft", err)
		return
	}

	derived, missing, err := h.Service.Preview(r.Context(), draft)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to derive draft", err)
		return
	}
	if len(missing) > 0 {
		h.log.Warn().Strs("office_ids", missing).Msg("draft references unknown offices")
	}
	writeJSON(w, http.StatusOK, PreviewResponse{
		Derived:        derivedToDTO(derived),
		MissingOffices: missing,
	})
}

// =============================================================================
// OFFICE HANDLERS
// =============================================================================

// ListOffices returns the office inventory.
func (h *Handler) ListOffices(w http.ResponseWriter, r *http.Request) {
	offices, err := h.Store.ListOffices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list offices", err)
		return
	}
	dtos := make([]OfficeDTO, len(offices))
	for i, o := range offices {
		dtos[i] = officeToDTO(o)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateOffice creates a new office record.
func (h *Handler) CreateOffice(w http.ResponseWriter, r *http.Request) {
	var req CreateOfficeRequest
	if !h.decode(w, r, &req) {
		return
	}

	o := h.Service.Factory().NewOffice(req.Name, req.Building, engine.Money(req.ListPrice))
	o.MRCredits = req.MRCredits
	o.PrintQuotaBW = req.PrintQuotaBW
	o.PrintQuotaColor = req.PrintQuotaColor
	if err := h.Store.SaveOffice(r.Context(), o); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save office", err)
		return
	}
	writeJSON(w, http.StatusCreated, officeToDTO(o))
}

// GetOffice returns a single office.
func (h *Handler) GetOffice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := h.Store.GetOffice(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get office", err)
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "Office not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, officeToDTO(*o))
}

// UpdateOffice rewrites an office's profile fields.
func (h *Handler) UpdateOffice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateOfficeRequest
	if !h.decode(w, r, &req) {
		return
	}

	o, err := h.Service.UpdateOffice(r.Context(), id, agreement.Office{
		Name:            req.Name,
		Building:        req.Building,
		ListPrice:       engine.Money(req.ListPrice),
		MRCredits:       req.MRCredits,
		PrintQuotaBW:    req.PrintQuotaBW,
		PrintQuotaColor: req.PrintQuotaColor,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to update office", err)
		return
	}
	writeJSON(w, http.StatusOK, officeToDTO(o))
}

// DeleteOffice soft-deletes an office. It drops out of the lookup
// directory but stays on record for existing agreements.
func (h *Handler) DeleteOffice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteOffice(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete office", err)
		return
	}
	h.log.Info().Str("office_id", id).Msg("office deleted")
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TERMINATION NOTICE HANDLERS
// =============================================================================

// ListNotices returns a client's termination notices.
func (h *Handler) ListNotices(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "company_id query parameter is required", nil)
		return
	}
	notices, err := h.Store.ListNoticesByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list notices", err)
		return
	}
	dtos := make([]NoticeDTO, len(notices))
	for i, n := range notices {
		dtos[i] = noticeToDTO(n)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateNotice serves a termination notice for a client.
func (h *Handler) CreateNotice(w http.ResponseWriter, r *http.Request) {
	var req CreateNoticeRequest
	if !h.decode(w, r, &req) {
		return
	}

	noticeDate, err := engine.ParseDate(req.NoticeDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notice date", err)
		return
	}

	n, err := h.Service.CreateNotice(r.Context(), req.CompanyID, noticeDate)
	if err != nil {
		h.writeDomainError(w, "Failed to create notice", err)
		return
	}

	h.log.Info().Str("notice_id", n.ID).Str("company_id", n.CompanyID).
		Msg("termination notice created")
	writeJSON(w, http.StatusCreated, noticeToDTO(n))
}

// PreviewNotice resolves the end date a notice would carry, without
// serving one.
func (h *Handler) PreviewNotice(w http.ResponseWriter, r *http.Request) {
	var req NoticePreviewRequest
	if !h.decode(w, r, &req) {
		return
	}

	noticeDate, err := engine.ParseDate(req.NoticeDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notice date", err)
		return
	}

	expected, err := h.Service.PreviewNotice(r.Context(), req.CompanyID, noticeDate)
	if err != nil {
		h.writeDomainError(w, "Failed to preview notice", err)
		return
	}
	writeJSON(w, http.StatusOK, NoticePreviewResponse{ExpectedEndDate: datePtrToString(expected)})
}

// GetNotice returns a single termination notice.
func (h *Handler) GetNotice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := h.Store.GetNotice(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get notice", err)
		return
	}
	if n == nil {
		writeError(w, http.StatusNotFound, "Notice not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, noticeToDTO(*n))
}

// SetNoticeOverride sets or clears a notice's manual end date.
func (h *Handler) SetNoticeOverride(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req NoticeOverrideRequest
	if !h.decode(w, r, &req) {
		return
	}

	var override *engine.Date
	if req.OverrideEndDate != nil && *req.OverrideEndDate != "" {
		d, err := engine.ParseDate(*req.OverrideEndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid override date", err)
			return
		}
		override = &d
	}

	n, err := h.Service.SetNoticeOverride(r.Context(), id, override)
	if err != nil {
		h.writeDomainError(w, "Failed to set override", err)
		return
	}
	writeJSON(w, http.StatusOK, noticeToDTO(n))
}

// ActivateNotice freezes a draft notice as the effective termination.
func (h *Handler) ActivateNotice(w http.ResponseWriter, r *http.Request) {
	h.moveNotice(w, r, h.Service.ActivateNotice)
}

// CancelNotice withdraws a draft notice.
func (h *Handler) CancelNotice(w http.ResponseWriter, r *http.Request) {
	h.moveNotice(w, r, h.Service.CancelNotice)
}

func (h *Handler) moveNotice(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) (agreement.TerminationNotice, error)) {
	id := chi.URLParam(r, "id")
	n, err := fn(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to change notice status", err)
		return
	}
	writeJSON(w, http.StatusOK, noticeToDTO(n))
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case engine.IsValidation(err), errors.Is(err, engine.ErrOverrideBeforeNotice):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, agreement.ErrNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, agreement.ErrNotEditable),
		errors.Is(err, agreement.ErrBadTransition),
		errors.Is(err, agreement.ErrNoticeFrozen):
		writeError(w, http.StatusConflict, message, err)
	default:
		h.log.Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
