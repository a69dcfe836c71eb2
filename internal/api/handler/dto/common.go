package dto

import (
	"coop-collections/internal/pkg/calendar"
	"coop-collections/internal/pkg/money"
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func formatMoney(d decimal.Decimal) string {
	return money.Format(d)
}

func formatDate(t time.Time) string {
	return calendar.Format(t)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// parseOptionalDate accepts YYYY-MM-DD. An empty string yields nil.
func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := calendar.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
