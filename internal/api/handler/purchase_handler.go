package handler

import (
	"coop-collections/internal/api/handler/dto"
	"coop-collections/internal/domain/purchase"
	"coop-collections/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
)

type PurchaseHandler struct {
	service purchase.PurchaseService
	logger  *slog.Logger
}

func NewPurchaseHandler(s purchase.PurchaseService, l *slog.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		service: s,
		logger:  l.With("component", "PurchaseHandler"),
	}
}

// CreatePurchase records a store purchase for a member.
//
// @Summary Record a purchase
// @Description Deferred payment methods add a 1% surcharge and fall due 30 days after the purchase unless a due date is given.
// @Tags Purchases
// @Accept json
// @Produce json
// @Param request body dto.CreatePurchaseRequest true "Purchase"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /purchases [post]
// @Security BearerAuth
func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	rec, err := h.service.CreatePurchase(r.Context(), req.ToNewPurchase())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewPurchaseResponse(rec))
}

// GetPurchase returns one purchase.
//
// @Summary Retrieve a purchase
// @Tags Purchases
// @Produce json
// @Param purchaseID path int true "Purchase ID"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid purchase ID"
// @Failure 404 {object} dto.ErrorResponse "Purchase not found"
// @Router /purchases/{purchaseID} [get]
// @Security BearerAuth
func (h *PurchaseHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	purchaseID, err := getIDFromURL(r, "purchaseID")
	if err != nil {
		respondError(w, err)
		return
	}

	rec, err := h.service.GetPurchase(r.Context(), purchaseID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPurchaseResponse(rec))
}

// PayPurchase settles a deferred purchase.
//
// @Summary Settle a purchase
// @Description Marks a "not paid" purchase as paid. Paying twice is a conflict.
// @Tags Purchases
// @Produce json
// @Param purchaseID path int true "Purchase ID"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid purchase ID"
// @Failure 404 {object} dto.ErrorResponse "Purchase not found"
// @Failure 409 {object} dto.ErrorResponse "Purchase already paid"
// @Router /purchases/{purchaseID}/pay [post]
// @Security BearerAuth
func (h *PurchaseHandler) PayPurchase(w http.ResponseWriter, r *http.Request) {
	purchaseID, err := getIDFromURL(r, "purchaseID")
	if err != nil {
		respondError(w, err)
		return
	}

	rec, err := h.service.PayPurchase(r.Context(), purchaseID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPurchaseResponse(rec))
}

// ListMemberPurchases returns every purchase of a member, newest first.
//
// @Summary List a member's purchases
// @Tags Members
// @Produce json
// @Param memberID path int true "Member ID"
// @Success 200 {array} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid member ID"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{memberID}/purchases [get]
// @Security BearerAuth
func (h *PurchaseHandler) ListMemberPurchases(w http.ResponseWriter, r *http.Request) {
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		respondError(w, err)
		return
	}

	records, err := h.service.ListMemberPurchases(r.Context(), memberID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPurchaseResponses(records))
}
