package purchase

import (
	"coop-collections/internal/pkg/apperrors"
	"coop-collections/internal/pkg/calendar"
	"coop-collections/internal/pkg/money"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SurchargeRate is added to purchases that are paid later.
var SurchargeRate = decimal.RequireFromString("0.01")

// DeferredTermDays is how long a deferred purchase has before it falls due.
const DeferredTermDays = 30

type PaymentMethod string

const (
	MethodUnknown        PaymentMethod = ""
	MethodImmediate      PaymentMethod = "immediate"
	MethodOneMonth       PaymentMethod = "one_month"
	MethodShareDeduction PaymentMethod = "share_deduction"
)

func (m PaymentMethod) Deferred() bool {
	return m == MethodOneMonth || m == MethodShareDeduction
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodImmediate, MethodOneMonth, MethodShareDeduction:
		return true
	}
	return false
}

// ParseMethodCode accepts only the enumerated codes.
func ParseMethodCode(code string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(code)))
	if !m.Valid() {
		return MethodUnknown, apperrors.NewValidationError("method", fmt.Sprintf("unknown payment method %q", code))
	}
	return m, nil
}

var deferredMarkers = []struct {
	marker string
	method PaymentMethod
}{
	{"share-deduction", MethodShareDeduction},
	{"share", MethodShareDeduction},
	{"1month", MethodOneMonth},
	{"1 month", MethodOneMonth},
	{"month to pay", MethodOneMonth},
}

// ParsePaymentMethod maps a free-text payment method from older records onto
// the enumeration. Anything that does not mention a deferred term is immediate.
func ParsePaymentMethod(freeText string) PaymentMethod {
	lower := strings.ToLower(freeText)
	for _, dm := range deferredMarkers {
		if strings.Contains(lower, dm.marker) {
			return dm.method
		}
	}
	return MethodImmediate
}

type Status string

const (
	StatusNotPaid Status = "not paid"
	StatusPaid    Status = "paid"
)

// Purchase is the input to classification.
type Purchase struct {
	Subtotal        decimal.Decimal
	PaymentMethod   string
	Method          PaymentMethod
	CreatedAt       time.Time
	ExplicitDueDate *time.Time
}

// ResolvedMethod prefers the enumerated method and falls back to the free text.
func (p Purchase) ResolvedMethod() PaymentMethod {
	if p.Method.Valid() {
		return p.Method
	}
	return ParsePaymentMethod(p.PaymentMethod)
}

type Obligation struct {
	Subtotal      decimal.Decimal
	Surcharge     decimal.Decimal
	TotalDue      decimal.Decimal
	PaymentMethod string
	Method        PaymentMethod
	DueDate       *time.Time
	Status        Status
}

// Classify decides whether p is settled at the counter or owed later.
// Deferred purchases carry a one percent surcharge and fall due thirty days
// after the purchase unless an explicit due date was agreed.
func Classify(p Purchase) Obligation {
	method := p.ResolvedMethod()
	ob := Obligation{
		Subtotal:      p.Subtotal,
		Surcharge:     decimal.Zero,
		TotalDue:      p.Subtotal,
		PaymentMethod: p.PaymentMethod,
		Method:        method,
		Status:        StatusPaid,
	}
	if p.ExplicitDueDate != nil {
		due := calendar.DateOf(*p.ExplicitDueDate)
		ob.DueDate = &due
	}

	if !method.Deferred() {
		return ob
	}

	ob.Surcharge = money.Round(p.Subtotal.Mul(SurchargeRate))
	ob.TotalDue = p.Subtotal.Add(ob.Surcharge)
	ob.Status = StatusNotPaid
	if ob.DueDate == nil {
		due := calendar.AddDays(p.CreatedAt, DeferredTermDays)
		ob.DueDate = &due
	}
	return ob
}

// Pay settles a deferred obligation. Paying twice is an error.
func (o Obligation) Pay() (Obligation, error) {
	if o.Status == StatusPaid {
		return o, fmt.Errorf("%w: purchase already settled", apperrors.ErrAlreadyPaid)
	}
	o.Status = StatusPaid
	return o, nil
}

func (o Obligation) Outstanding() bool {
	return o.Status == StatusNotPaid
}

// Item is one line of a purchase.
type Item struct {
	Name      string          `json:"name"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

func (i Item) Validate(index int) error {
	field := fmt.Sprintf("items[%d]", index)
	if strings.TrimSpace(i.Name) == "" {
		return apperrors.NewValidationError(field+".name", "item name is required")
	}
	if !i.Qty.IsPositive() {
		return apperrors.NewValidationError(field+".qty", "quantity must be greater than zero")
	}
	if i.UnitPrice.IsNegative() {
		return apperrors.NewValidationError(field+".unitPrice", "unit price must not be negative")
	}
	return nil
}

// Priced returns the item with its line total computed from quantity and unit price.
func (i Item) Priced() Item {
	i.Name = strings.TrimSpace(i.Name)
	i.LineTotal = money.Round(i.Qty.Mul(i.UnitPrice))
	return i
}

func SubtotalOf(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}
	return total
}

// Record is a stored purchase.
type Record struct {
	ID         int64
	MemberID   int64
	MemberName string
	Items      []Item
	Notes      string
	Obligation Obligation
	CreatedAt  time.Time
	UpdatedAt  time.Time
	PaidAt     *time.Time
}

// Purchase rebuilds the classification input the record was created from.
func (r Record) Purchase() Purchase {
	p := Purchase{
		Subtotal:      r.Obligation.Subtotal,
		PaymentMethod: r.Obligation.PaymentMethod,
		Method:        r.Obligation.Method,
		CreatedAt:     r.CreatedAt,
	}
	if r.Obligation.DueDate != nil {
		due := *r.Obligation.DueDate
		p.ExplicitDueDate = &due
	}
	return p
}
