package dto

import (
	"coop-collections/internal/domain/purchase"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseItemRequest struct {
	Name      string          `json:"name"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type CreatePurchaseRequest struct {
	MemberID      int64                 `json:"memberId"`
	Items         []PurchaseItemRequest `json:"items"`
	Subtotal      *decimal.Decimal      `json:"subtotal,omitempty"`
	PaymentMethod string                `json:"paymentMethod,omitempty"`
	Method        string                `json:"method,omitempty"`
	DueDate       string                `json:"dueDate,omitempty"`
	Notes         string                `json:"notes,omitempty"`
}

func (r *CreatePurchaseRequest) Validate() error {
	if r.MemberID <= 0 {
		return fmt.Errorf("memberId must be positive")
	}
	if r.PaymentMethod == "" && r.Method == "" {
		return fmt.Errorf("paymentMethod or method is required")
	}
	if _, err := parseOptionalDate(r.DueDate); err != nil {
		return fmt.Errorf("invalid dueDate format (use YYYY-MM-DD): %w", err)
	}
	return nil
}

// ToNewPurchase converts the request. Call Validate first.
func (r *CreatePurchaseRequest) ToNewPurchase() purchase.NewPurchase {
	due, _ := parseOptionalDate(r.DueDate)
	items := make([]purchase.Item, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, purchase.Item{Name: it.Name, Qty: it.Qty, UnitPrice: it.UnitPrice})
	}
	return purchase.NewPurchase{
		MemberID:      r.MemberID,
		Items:         items,
		Subtotal:      r.Subtotal,
		PaymentMethod: r.PaymentMethod,
		Method:        r.Method,
		DueDate:       due,
		Notes:         r.Notes,
	}
}

type PurchaseItemResponse struct {
	Name      string `json:"name"`
	Qty       string `json:"qty"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

type PurchaseResponse struct {
	ID            string                 `json:"id"`
	MemberID      string                 `json:"memberId"`
	MemberName    string                 `json:"memberName"`
	Items         []PurchaseItemResponse `json:"items"`
	Subtotal      string                 `json:"subtotal"`
	Surcharge     string                 `json:"surcharge"`
	TotalDue      string                 `json:"totalDue"`
	PaymentMethod string                 `json:"paymentMethod"`
	Method        string                 `json:"method"`
	DueDate       *string                `json:"dueDate"`
	Status        string                 `json:"status"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	PaidAt        *time.Time             `json:"paidAt,omitempty"`
}

func NewPurchaseResponse(rec *purchase.Record) PurchaseResponse {
	ob := rec.Obligation
	resp := PurchaseResponse{
		ID:            strconv.FormatInt(rec.ID, 10),
		MemberID:      strconv.FormatInt(rec.MemberID, 10),
		MemberName:    rec.MemberName,
		Items:         make([]PurchaseItemResponse, 0, len(rec.Items)),
		Subtotal:      formatMoney(ob.Subtotal),
		Surcharge:     formatMoney(ob.Surcharge),
		TotalDue:      formatMoney(ob.TotalDue),
		PaymentMethod: ob.PaymentMethod,
		Method:        string(rec.Purchase().ResolvedMethod()),
		DueDate:       formatOptionalDate(ob.DueDate),
		Status:        string(ob.Status),
		Notes:         rec.Notes,
		CreatedAt:     rec.CreatedAt,
		PaidAt:        rec.PaidAt,
	}
	for _, it := range rec.Items {
		resp.Items = append(resp.Items, PurchaseItemResponse{
			Name:      it.Name,
			Qty:       it.Qty.String(),
			UnitPrice: formatMoney(it.UnitPrice),
			LineTotal: formatMoney(it.LineTotal),
		})
	}
	return resp
}

func NewPurchaseResponses(records []*purchase.Record) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, NewPurchaseResponse(rec))
	}
	return out
}
