package postgres

import (
	"context"
	"coop-collections/internal/domain/obligation"
	"coop-collections/internal/domain/purchase"
	"coop-collections/internal/pkg/apperrors"
	"coop-collections/internal/pkg/money"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

type PurchaseRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ purchase.Repository = (*PurchaseRepository)(nil)
var _ obligation.PurchaseSource = (*PurchaseRepository)(nil)

func NewPurchaseRepository(db DBPool, logger *slog.Logger) *PurchaseRepository {
	if db == nil {
		panic("DBPool cannot be nil for PurchaseRepository")
	}
	return &PurchaseRepository{db: db, logger: logger.With("component", "PurchaseRepository")}
}

const purchaseColumns = `
        SELECT id, member_id, member_name, items::text, subtotal::text, surcharge::text, total::text,
               payment_method, method, due_date, status, notes, created_at, updated_at, paid_at
        FROM purchases`

func scanPurchase(row scanner) (*purchase.Record, error) {
	var (
		rec                        purchase.Record
		itemsRaw                   string
		subtotal, surcharge, total string
		method, status             string
		notes                      *string
	)
	err := row.Scan(
		&rec.ID, &rec.MemberID, &rec.MemberName, &itemsRaw, &subtotal, &surcharge, &total,
		&rec.Obligation.PaymentMethod, &method, &rec.Obligation.DueDate, &status, &notes,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.PaidAt,
	)
	if err != nil {
		return nil, err
	}

	if itemsRaw != "" {
		if err := json.Unmarshal([]byte(itemsRaw), &rec.Items); err != nil {
			return nil, fmt.Errorf("%w: purchase %d items: %w", apperrors.ErrDatabase, rec.ID, err)
		}
	}
	if rec.Obligation.Subtotal, err = parseNumeric("subtotal", subtotal); err != nil {
		return nil, err
	}
	if rec.Obligation.Surcharge, err = parseNumeric("surcharge", surcharge); err != nil {
		return nil, err
	}
	if rec.Obligation.TotalDue, err = parseNumeric("total", total); err != nil {
		return nil, err
	}
	rec.Obligation.Method = purchase.PaymentMethod(method)
	rec.Obligation.Status = purchase.Status(status)
	if notes != nil {
		rec.Notes = *notes
	}
	return &rec, nil
}

func (r *PurchaseRepository) Create(ctx context.Context, rec *purchase.Record) (*purchase.Record, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: purchase cannot be nil", apperrors.ErrInvalidArgument)
	}
	items := rec.Items
	if items == nil {
		items = []purchase.Item{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode items: %w", apperrors.ErrInvalidArgument, err)
	}

	query := `
        INSERT INTO purchases (member_id, member_name, items, subtotal, surcharge, total,
                               payment_method, method, due_date, status, notes, created_at, updated_at, paid_at)
        VALUES ($1, $2, $3::jsonb, $4::numeric, $5::numeric, $6::numeric, $7, $8, $9, $10, $11, $12, $12, $13)
        RETURNING id, created_at, updated_at`

	ob := rec.Obligation
	created := *rec
	start := time.Now()
	err = r.db.QueryRow(ctx, query,
		rec.MemberID, rec.MemberName, string(itemsJSON),
		money.Format(ob.Subtotal), money.Format(ob.Surcharge), money.Format(ob.TotalDue),
		ob.PaymentMethod, string(ob.Method), ob.DueDate, string(ob.Status), rec.Notes,
		rec.CreatedAt, rec.PaidAt,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	timed("CreatePurchase", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert purchase", slog.Int64("memberID", rec.MemberID), slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Purchase inserted", slog.Int64("purchaseID", created.ID))
	return &created, nil
}

func (r *PurchaseRepository) GetByID(ctx context.Context, purchaseID int64) (*purchase.Record, error) {
	query := purchaseColumns + `
        WHERE id = $1`

	start := time.Now()
	rec, err := scanPurchase(r.db.QueryRow(ctx, query, purchaseID))
	timed("GetPurchase", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Purchase not found", slog.Int64("purchaseID", purchaseID))
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get purchase", slog.Int64("purchaseID", purchaseID), slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	return rec, nil
}

func (r *PurchaseRepository) ListByMember(ctx context.Context, memberID int64) ([]*purchase.Record, error) {
	query := purchaseColumns + `
        WHERE member_id = $1
        ORDER BY created_at DESC, id DESC`
	return r.listPurchases(ctx, "ListPurchasesByMember", query, memberID)
}

func (r *PurchaseRepository) ListOutstanding(ctx context.Context) ([]*purchase.Record, error) {
	query := purchaseColumns + `
        WHERE status = $1
        ORDER BY due_date ASC NULLS LAST, id ASC`
	return r.listPurchases(ctx, "ListOutstandingPurchases", query, string(purchase.StatusNotPaid))
}

func (r *PurchaseRepository) listPurchases(ctx context.Context, operation, query string, args ...any) (records []*purchase.Record, err error) {
	logCtx := r.logger.With(slog.String("operation", operation))
	start := time.Now()
	defer func() { timed(operation, start, err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query purchases", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query purchases: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	records = make([]*purchase.Record, 0)
	for rows.Next() {
		rec, err := scanPurchase(rows)
		if err != nil {
			logCtx.ErrorContext(ctx, "Failed to scan purchase row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning purchase: %w", apperrors.ErrDatabase, err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Error iterating purchase rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating purchases: %w", apperrors.ErrDatabase, err)
	}
	return records, nil
}

func (r *PurchaseRepository) MarkPaid(ctx context.Context, purchaseID int64, paidAt time.Time) error {
	query := `
        UPDATE purchases
        SET status = $1, paid_at = $2, updated_at = NOW()
        WHERE id = $3 AND status = $4`

	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, query, string(purchase.StatusPaid), paidAt, purchaseID, string(purchase.StatusNotPaid))
	timed("MarkPurchasePaid", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to mark purchase paid", slog.Int64("purchaseID", purchaseID), slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Mark paid affected zero rows, purchase already settled", slog.Int64("purchaseID", purchaseID))
		return fmt.Errorf("%w: purchase %d", apperrors.ErrAlreadyPaid, purchaseID)
	}

	r.logger.InfoContext(ctx, "Purchase marked paid", slog.Int64("purchaseID", purchaseID))
	return nil
}
