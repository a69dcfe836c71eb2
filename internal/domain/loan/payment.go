package loan

import (
	"coop-collections/internal/pkg/apperrors"
	"coop-collections/internal/pkg/money"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord is one entry of a loan's append-only payment ledger. The
// amount is kept as stored so that bad historical rows can be recognised.
type PaymentRecord struct {
	ID          int64
	LoanID      int64
	MemberID    int64
	RawAmount   string
	PaymentDate time.Time
	CreatedAt   time.Time
}

// Amount reports the numeric value of the record. Unparseable or negative
// amounts report ok=false.
func (p PaymentRecord) Amount() (decimal.Decimal, bool) {
	amount, ok := money.ParseLenient(p.RawAmount)
	if !ok || amount.IsNegative() {
		return decimal.Zero, false
	}
	return amount, true
}

// SumPayments totals a ledger. Records with malformed amounts contribute
// nothing and are counted in skipped.
func SumPayments(records []PaymentRecord) (total decimal.Decimal, skipped int) {
	total = decimal.Zero
	for _, rec := range records {
		amount, ok := rec.Amount()
		if !ok {
			skipped++
			continue
		}
		total = total.Add(amount)
	}
	return total, skipped
}

// NewPayment validates an amount entered by staff. Unlike the ledger reader it
// refuses anything that is not a positive number.
func NewPayment(loanID, memberID int64, rawAmount string, paymentDate time.Time) (PaymentRecord, error) {
	amount, ok := money.ParseLenient(rawAmount)
	if !ok {
		return PaymentRecord{}, fmt.Errorf("%w: %q is not a number", apperrors.ErrInvalidPaymentAmount, rawAmount)
	}
	if !amount.IsPositive() {
		return PaymentRecord{}, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrInvalidPaymentAmount)
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	return PaymentRecord{
		LoanID:      loanID,
		MemberID:    memberID,
		RawAmount:   money.Format(money.Round(amount)),
		PaymentDate: paymentDate,
	}, nil
}
