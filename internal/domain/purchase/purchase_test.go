package purchase

import (
	"coop-collections/internal/pkg/apperrors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		text string
		want PaymentMethod
	}{
		{"Share-Deduction", MethodShareDeduction},
		{"share capital", MethodShareDeduction},
		{"1month", MethodOneMonth},
		{"1 Month", MethodOneMonth},
		{"Month to Pay", MethodOneMonth},
		{"cash", MethodImmediate},
		{"GCash", MethodImmediate},
		{"", MethodImmediate},
		{"2 months", MethodImmediate},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePaymentMethod(tt.text))
		})
	}
}

func TestParseMethodCode(t *testing.T) {
	m, err := ParseMethodCode(" ONE_MONTH ")
	require.NoError(t, err)
	assert.Equal(t, MethodOneMonth, m)

	_, err = ParseMethodCode("layaway")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestClassify_Deferred(t *testing.T) {
	ob := Classify(Purchase{
		Subtotal:      d("2000"),
		PaymentMethod: "Share-Deduction",
		CreatedAt:     day(2025, time.January, 1),
	})

	assert.Equal(t, "20.00", ob.Surcharge.StringFixed(2))
	assert.Equal(t, "2020.00", ob.TotalDue.StringFixed(2))
	require.NotNil(t, ob.DueDate)
	assert.Equal(t, day(2025, time.January, 31), *ob.DueDate)
	assert.Equal(t, StatusNotPaid, ob.Status)
	assert.Equal(t, MethodShareDeduction, ob.Method)
	assert.True(t, ob.Outstanding())
}

func TestClassify_Immediate(t *testing.T) {
	ob := Classify(Purchase{
		Subtotal:      d("2000"),
		PaymentMethod: "cash",
		CreatedAt:     day(2025, time.January, 1),
	})

	assert.Equal(t, "0.00", ob.Surcharge.StringFixed(2))
	assert.Equal(t, "2000.00", ob.TotalDue.StringFixed(2))
	assert.Equal(t, StatusPaid, ob.Status)
	assert.Nil(t, ob.DueDate)
	assert.False(t, ob.Outstanding())
}

func TestClassify_ExplicitDueDateWins(t *testing.T) {
	explicit := time.Date(2025, time.March, 5, 15, 0, 0, 0, time.UTC)
	ob := Classify(Purchase{
		Subtotal:        d("999.50"),
		Method:          MethodOneMonth,
		PaymentMethod:   "cash",
		CreatedAt:       day(2025, time.January, 1),
		ExplicitDueDate: &explicit,
	})

	assert.Equal(t, MethodOneMonth, ob.Method)
	assert.Equal(t, "10.00", ob.Surcharge.StringFixed(2))
	assert.Equal(t, "1009.50", ob.TotalDue.StringFixed(2))
	require.NotNil(t, ob.DueDate)
	assert.Equal(t, day(2025, time.March, 5), *ob.DueDate)
}

func TestClassify_SurchargeRounding(t *testing.T) {
	ob := Classify(Purchase{Subtotal: d("1234.50"), Method: MethodOneMonth, CreatedAt: day(2025, time.May, 20)})
	assert.Equal(t, "12.35", ob.Surcharge.StringFixed(2))
	assert.Equal(t, "1246.85", ob.TotalDue.StringFixed(2))
	assert.Equal(t, day(2025, time.June, 19), *ob.DueDate)
}

func TestObligationPay(t *testing.T) {
	ob := Classify(Purchase{Subtotal: d("100"), Method: MethodOneMonth, CreatedAt: day(2025, time.January, 1)})

	paid, err := ob.Pay()
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	assert.Equal(t, StatusNotPaid, ob.Status)
	assert.Equal(t, ob.TotalDue, paid.TotalDue)

	_, err = paid.Pay()
	assert.ErrorIs(t, err, apperrors.ErrAlreadyPaid)
}

func TestItems(t *testing.T) {
	items := []Item{
		{Name: " Rice 25kg ", Qty: d("2"), UnitPrice: d("1250.00")},
		{Name: "Sugar", Qty: d("3"), UnitPrice: d("66.665")},
	}
	for i := range items {
		require.NoError(t, items[i].Validate(i))
		items[i] = items[i].Priced()
	}

	assert.Equal(t, "Rice 25kg", items[0].Name)
	assert.Equal(t, "2500.00", items[0].LineTotal.StringFixed(2))
	assert.Equal(t, "200.00", items[1].LineTotal.StringFixed(2))
	assert.Equal(t, "2700.00", SubtotalOf(items).StringFixed(2))
}

func TestItemValidate(t *testing.T) {
	assert.ErrorIs(t, Item{Name: "", Qty: d("1")}.Validate(0), apperrors.ErrValidation)
	assert.ErrorIs(t, Item{Name: "Soap", Qty: d("0")}.Validate(0), apperrors.ErrValidation)
	assert.ErrorIs(t, Item{Name: "Soap", Qty: d("1"), UnitPrice: d("-1")}.Validate(0), apperrors.ErrValidation)
}

func TestRecordPurchaseKeepsDueDate(t *testing.T) {
	created := day(2025, time.January, 1)
	ob := Classify(Purchase{Subtotal: d("500"), PaymentMethod: "1 month", CreatedAt: created})
	rec := Record{ID: 1, Obligation: ob, CreatedAt: created.AddDate(0, 0, 3)}

	again := Classify(rec.Purchase())
	assert.Equal(t, *ob.DueDate, *again.DueDate)
	assert.True(t, ob.TotalDue.Equal(again.TotalDue))
}
