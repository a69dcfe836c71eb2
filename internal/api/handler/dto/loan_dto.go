package dto

import (
	"coop-collections/internal/domain/loan"
	"coop-collections/internal/pkg/calendar"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type PreviewScheduleRequest struct {
	Principal           decimal.Decimal  `json:"principal"`
	DurationMonths      int              `json:"durationMonths"`
	MonthlyInterestRate *decimal.Decimal `json:"monthlyInterestRate,omitempty"`
	OriginationDate     string           `json:"originationDate"`
	TotalPaid           *decimal.Decimal `json:"totalPaid,omitempty"`
}

func (r *PreviewScheduleRequest) Validate() error {
	if r.Principal.IsNegative() {
		return fmt.Errorf("principal must not be negative")
	}
	if r.DurationMonths < 0 {
		return fmt.Errorf("durationMonths must not be negative")
	}
	if r.MonthlyInterestRate != nil && r.MonthlyInterestRate.IsNegative() {
		return fmt.Errorf("monthlyInterestRate must not be negative")
	}
	if _, err := calendar.Parse(r.OriginationDate); err != nil {
		return fmt.Errorf("invalid originationDate format (use YYYY-MM-DD): %w", err)
	}
	if r.TotalPaid != nil && r.TotalPaid.IsNegative() {
		return fmt.Errorf("totalPaid must not be negative")
	}
	return nil
}

// Terms converts the request. Call Validate first.
func (r *PreviewScheduleRequest) Terms() loan.Terms {
	origination, _ := calendar.Parse(r.OriginationDate)
	terms := loan.Terms{
		Principal:       r.Principal,
		DurationMonths:  r.DurationMonths,
		OriginationDate: origination,
	}
	if r.MonthlyInterestRate != nil {
		terms.MonthlyInterestRate = *r.MonthlyInterestRate
	}
	return terms
}

func (r *PreviewScheduleRequest) Paid() decimal.Decimal {
	if r.TotalPaid == nil {
		return decimal.Zero
	}
	return *r.TotalPaid
}

type RecordPaymentRequest struct {
	Amount      string `json:"amount"`
	PaymentDate string `json:"paymentDate,omitempty"`
}

func (r *RecordPaymentRequest) Validate() error {
	if r.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if _, err := parseOptionalDate(r.PaymentDate); err != nil {
		return fmt.Errorf("invalid paymentDate format (use YYYY-MM-DD): %w", err)
	}
	return nil
}

// Date returns the requested payment date, or now when none was given.
func (r *RecordPaymentRequest) Date(now time.Time) time.Time {
	d, _ := parseOptionalDate(r.PaymentDate)
	if d == nil {
		return now
	}
	return *d
}

type InstallmentResponse struct {
	Index                 int    `json:"index"`
	DueDate               string `json:"dueDate"`
	Interest              string `json:"interest"`
	Principal             string `json:"principal"`
	TotalDue              string `json:"totalDue"`
	RemainingBalanceAfter string `json:"remainingBalanceAfter"`
	Status                string `json:"status"`
}

type ReconciliationResponse struct {
	TotalScheduled string                `json:"totalScheduled"`
	TotalPaid      string                `json:"totalPaid"`
	Outstanding    string                `json:"outstanding"`
	PaidCount      int                   `json:"paidCount"`
	Progress       string                `json:"progress"`
	NextDue        *InstallmentResponse  `json:"nextDue"`
	Schedule       []InstallmentResponse `json:"schedule"`
}

type LoanScheduleResponse struct {
	LoanID          string `json:"loanId"`
	MemberID        string `json:"memberId"`
	MemberName      string `json:"memberName"`
	Status          string `json:"status"`
	Principal       string `json:"principal"`
	DurationMonths  int    `json:"durationMonths"`
	OriginationDate string `json:"originationDate"`
	SkippedPayments int    `json:"skippedPayments,omitempty"`
	ReconciliationResponse
}

type PaymentResponse struct {
	ID          string    `json:"id"`
	LoanID      string    `json:"loanId"`
	MemberID    string    `json:"memberId"`
	Amount      string    `json:"amount"`
	PaymentDate string    `json:"paymentDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

type RecordPaymentResponse struct {
	Payment  PaymentResponse      `json:"payment"`
	Schedule LoanScheduleResponse `json:"schedule"`
}

func NewInstallmentResponse(inst loan.Installment) InstallmentResponse {
	return InstallmentResponse{
		Index:                 inst.Index,
		DueDate:               formatDate(inst.DueDate),
		Interest:              formatMoney(inst.Interest),
		Principal:             formatMoney(inst.Principal),
		TotalDue:              formatMoney(inst.TotalDue),
		RemainingBalanceAfter: formatMoney(inst.RemainingBalanceAfter),
		Status:                string(inst.Status),
	}
}

func NewReconciliationResponse(rec loan.Reconciliation) ReconciliationResponse {
	resp := ReconciliationResponse{
		TotalScheduled: formatMoney(rec.TotalScheduled),
		TotalPaid:      formatMoney(rec.TotalPaid),
		Outstanding:    formatMoney(rec.Outstanding()),
		PaidCount:      rec.PaidCount,
		Progress:       string(rec.Progress),
		Schedule:       make([]InstallmentResponse, 0, len(rec.Schedule)),
	}
	for _, inst := range rec.Schedule {
		resp.Schedule = append(resp.Schedule, NewInstallmentResponse(inst))
	}
	if rec.NextDue != nil {
		next := NewInstallmentResponse(*rec.NextDue)
		resp.NextDue = &next
	}
	return resp
}

func NewLoanScheduleResponse(stmt *loan.Statement) LoanScheduleResponse {
	l := stmt.Loan
	return LoanScheduleResponse{
		LoanID:                 strconv.FormatInt(l.ID, 10),
		MemberID:               strconv.FormatInt(l.MemberID, 10),
		MemberName:             l.MemberName,
		Status:                 string(l.Status),
		Principal:              formatMoney(l.Terms.Principal),
		DurationMonths:         l.Terms.DurationMonths,
		OriginationDate:        formatDate(l.Terms.OriginationDate),
		SkippedPayments:        stmt.SkippedPayments,
		ReconciliationResponse: NewReconciliationResponse(stmt.Reconciliation),
	}
}

func NewPaymentResponse(p loan.PaymentRecord) PaymentResponse {
	amount := p.RawAmount
	if d, ok := p.Amount(); ok {
		amount = formatMoney(d)
	}
	return PaymentResponse{
		ID:          strconv.FormatInt(p.ID, 10),
		LoanID:      strconv.FormatInt(p.LoanID, 10),
		MemberID:    strconv.FormatInt(p.MemberID, 10),
		Amount:      amount,
		PaymentDate: formatDate(p.PaymentDate),
		CreatedAt:   p.CreatedAt,
	}
}

func NewPaymentResponses(payments []loan.PaymentRecord) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, NewPaymentResponse(p))
	}
	return out
}

type ApplyLoanRequest struct {
	MemberID            int64            `json:"memberId"`
	Principal           decimal.Decimal  `json:"principal"`
	DurationMonths      int              `json:"durationMonths"`
	MonthlyInterestRate *decimal.Decimal `json:"monthlyInterestRate,omitempty"`
}

// Application converts the request. The loan service validates the result.
func (r *ApplyLoanRequest) Application() loan.Application {
	app := loan.Application{
		MemberID:       r.MemberID,
		Principal:      r.Principal,
		DurationMonths: r.DurationMonths,
	}
	if r.MonthlyInterestRate != nil {
		app.MonthlyInterestRate = *r.MonthlyInterestRate
	}
	return app
}

type ApproveLoanRequest struct {
	ApprovalDate string `json:"approvalDate,omitempty"`
}

func (r *ApproveLoanRequest) Validate() error {
	if _, err := parseOptionalDate(r.ApprovalDate); err != nil {
		return fmt.Errorf("invalid approvalDate format (use YYYY-MM-DD): %w", err)
	}
	return nil
}

// Date returns the requested approval date, or the zero time when none was given.
func (r *ApproveLoanRequest) Date() time.Time {
	d, _ := parseOptionalDate(r.ApprovalDate)
	if d == nil {
		return time.Time{}
	}
	return *d
}

type LoanResponse struct {
	ID                  string    `json:"id"`
	MemberID            string    `json:"memberId"`
	MemberName          string    `json:"memberName"`
	Status              string    `json:"status"`
	Principal           string    `json:"principal"`
	DurationMonths      int       `json:"durationMonths"`
	MonthlyInterestRate string    `json:"monthlyInterestRate"`
	ApprovalDate        *string   `json:"approvalDate"`
	CreatedAt           time.Time `json:"createdAt"`
}

type LoanCountsResponse struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Paid     int `json:"paid"`
	Total    int `json:"total"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	rate := l.Terms.MonthlyInterestRate
	if rate.IsZero() {
		rate = loan.MonthlyInterestRate
	}
	return LoanResponse{
		ID:                  strconv.FormatInt(l.ID, 10),
		MemberID:            strconv.FormatInt(l.MemberID, 10),
		MemberName:          l.MemberName,
		Status:              string(l.Status),
		Principal:           formatMoney(l.Terms.Principal),
		DurationMonths:      l.Terms.DurationMonths,
		MonthlyInterestRate: rate.String(),
		ApprovalDate:        formatOptionalDate(l.ApprovedAt),
		CreatedAt:           l.CreatedAt,
	}
}

func NewLoanResponses(loans []*loan.Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, NewLoanResponse(l))
	}
	return out
}

func NewLoanCountsResponse(c loan.StatusCounts) LoanCountsResponse {
	return LoanCountsResponse{
		Pending:  c.Pending,
		Approved: c.Approved,
		Rejected: c.Rejected,
		Paid:     c.Paid,
		Total:    c.Total(),
	}
}
