package handler

import (
	"coop-collections/internal/api/handler/dto"
	"coop-collections/internal/domain/obligation"
	"log/slog"
	"net/http"
)

type ObligationHandler struct {
	service obligation.ObligationService
	logger  *slog.Logger
}

func NewObligationHandler(s obligation.ObligationService, l *slog.Logger) *ObligationHandler {
	return &ObligationHandler{
		service: s,
		logger:  l.With("component", "ObligationHandler"),
	}
}

// ListObligations returns the collections view for every member.
//
// @Summary List open obligations
// @Description Approved loans and unpaid deferred purchases ordered by next due date. Rows without a due date come last.
// @Tags Obligations
// @Produce json
// @Success 200 {object} dto.ObligationListResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /obligations [get]
// @Security BearerAuth
func (h *ObligationHandler) ListObligations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListObligations(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewObligationListResponse(rows))
}

// ListMemberObligations returns the collections view for one member.
//
// @Summary List a member's obligations
// @Tags Members
// @Produce json
// @Param memberID path int true "Member ID"
// @Success 200 {object} dto.ObligationListResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid member ID"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{memberID}/obligations [get]
// @Security BearerAuth
func (h *ObligationHandler) ListMemberObligations(w http.ResponseWriter, r *http.Request) {
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		respondError(w, err)
		return
	}

	rows, err := h.service.ListMemberObligations(r.Context(), memberID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewObligationListResponse(rows))
}
