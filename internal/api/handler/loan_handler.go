package handler

import (
	"coop-collections/internal/api/handler/dto"
	"coop-collections/internal/domain/loan"
	"coop-collections/internal/pkg/apperrors"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

// GetSchedule returns a loan's amortization schedule reconciled against its payments.
//
// @Summary Retrieve a loan schedule
// @Description Rebuilds the schedule from the loan terms and marks installments covered by the payments recorded so far.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} dto.LoanScheduleResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID or unusable loan terms"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/schedule [get]
// @Security BearerAuth
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, err := getIDFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	stmt, err := h.service.GetStatement(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanScheduleResponse(stmt))
}

// ListPayments returns a loan's payment ledger.
//
// @Summary List loan payments
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/payments [get]
// @Security BearerAuth
func (h *LoanHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	loanID, err := getIDFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.service.GetLoan(r.Context(), loanID); err != nil {
		respondError(w, err)
		return
	}
	payments, err := h.service.ListPayments(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPaymentResponses(payments))
}

// RecordPayment appends a payment to a loan's ledger.
//
// @Summary Record a loan payment
// @Description The amount must be a positive number. The loan must be approved and not yet fully paid.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param request body dto.RecordPaymentRequest true "Payment"
// @Success 201 {object} dto.RecordPaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID, payload or amount"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan not approved or already fully paid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/payments [post]
// @Security BearerAuth
func (h *LoanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := getIDFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.RecordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	payment, stmt, err := h.service.RecordPayment(r.Context(), loanID, req.Amount, req.Date(time.Time{}))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.RecordPaymentResponse{
		Payment:  dto.NewPaymentResponse(*payment),
		Schedule: dto.NewLoanScheduleResponse(stmt),
	})
}

// PreviewSchedule computes a schedule for terms that are not stored yet.
//
// @Summary Preview an amortization schedule
// @Description Builds the schedule for the given terms and, when totalPaid is supplied, reconciles it.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param request body dto.PreviewScheduleRequest true "Loan terms"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid terms"
// @Router /schedules/preview [post]
// @Security BearerAuth
func (h *LoanHandler) PreviewSchedule(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidTerms, err))
		return
	}

	rec, err := h.service.PreviewSchedule(req.Terms(), req.Paid())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewReconciliationResponse(rec))
}

// ApplyLoan records a member's loan application as Pending.
//
// @Summary Apply for a loan
// @Description Durations run from 1 to 360 months. The interest rate defaults to 2% a month.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.ApplyLoanRequest true "Loan application"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid payload or terms"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [post]
// @Security BearerAuth
func (h *LoanHandler) ApplyLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	l, err := h.service.ApplyLoan(r.Context(), req.Application())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(l))
}

// ListPendingLoans returns applications waiting for a decision, oldest first.
//
// @Summary List pending loan applications
// @Tags Loans
// @Produce json
// @Success 200 {array} dto.LoanResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/pending [get]
// @Security BearerAuth
func (h *LoanHandler) ListPendingLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListPendingLoans(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponses(loans))
}

// CountLoans returns the number of loans per status.
//
// @Summary Count loans by status
// @Tags Loans
// @Produce json
// @Success 200 {object} dto.LoanCountsResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/counts [get]
// @Security BearerAuth
func (h *LoanHandler) CountLoans(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.CountLoans(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanCountsResponse(counts))
}

// ApproveLoan approves a pending loan. Its schedule is counted from the approval date.
//
// @Summary Approve a loan
// @Description The body is optional; without an approvalDate the loan is approved as of today.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param request body dto.ApproveLoanRequest false "Approval"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID, payload or stored terms"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan is not pending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/approve [post]
// @Security BearerAuth
func (h *LoanHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getIDFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.ApproveLoanRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	l, err := h.service.ApproveLoan(r.Context(), loanID, req.Date())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}

// RejectLoan rejects a pending loan.
//
// @Summary Reject a loan
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan is not pending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/reject [post]
// @Security BearerAuth
func (h *LoanHandler) RejectLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getIDFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	l, err := h.service.RejectLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}
