package purchase

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, record *Record) (*Record, error)

	GetByID(ctx context.Context, purchaseID int64) (*Record, error)

	ListByMember(ctx context.Context, memberID int64) ([]*Record, error)

	// ListOutstanding returns purchases whose status is still "not paid".
	ListOutstanding(ctx context.Context) ([]*Record, error)

	// MarkPaid flips a "not paid" purchase to "paid". It returns
	// apperrors.ErrAlreadyPaid when the row was already settled.
	MarkPaid(ctx context.Context, purchaseID int64, paidAt time.Time) error
}
