package event

import (
	"context"
	"time"
)

const (
	RoutingKeyPaymentRecorded   = "loan.payment.recorded"
	RoutingKeyPurchasePaid      = "purchase.paid"
	RoutingKeyObligationOverdue = "obligation.overdue"
)

// Publisher announces collection events to other services. Amounts travel as
// fixed two-place strings and dates as YYYY-MM-DD.
type Publisher interface {
	PublishPaymentRecorded(ctx context.Context, event PaymentRecordedEvent) error
	PublishPurchasePaid(ctx context.Context, event PurchasePaidEvent) error
	PublishObligationOverdue(ctx context.Context, event ObligationOverdueEvent) error
}

type PaymentRecordedEvent struct {
	LoanID      int64     `json:"loanId"`
	MemberID    int64     `json:"memberId"`
	PaymentID   int64     `json:"paymentId"`
	Amount      string    `json:"amount"`
	PaymentDate string    `json:"paymentDate"`
	TotalPaid   string    `json:"totalPaid"`
	Outstanding string    `json:"outstanding"`
	Progress    string    `json:"progress"`
	NextDueDate *string   `json:"nextDueDate,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type PurchasePaidEvent struct {
	PurchaseID int64     `json:"purchaseId"`
	MemberID   int64     `json:"memberId"`
	TotalDue   string    `json:"totalDue"`
	Surcharge  string    `json:"surcharge"`
	PaidAt     time.Time `json:"paidAt"`
}

type ObligationOverdueEvent struct {
	MemberID    int64     `json:"memberId"`
	MemberName  string    `json:"memberName"`
	Type        string    `json:"type"`
	ReferenceID int64     `json:"referenceId"`
	PayAmount   string    `json:"payAmount"`
	DueDate     string    `json:"dueDate"`
	DaysOverdue int       `json:"daysOverdue"`
	Timestamp   time.Time `json:"timestamp"`
}
