package notice

import (
	"context"
	"coop-collections/internal/pkg/apperrors"
	"coop-collections/internal/pkg/calendar"
	"fmt"
	"strings"
	"time"
)

// Notice is a message shown to a member, one per overdue obligation and due date.
type Notice struct {
	ID            int64
	MemberID      int64
	Title         string
	Message       string
	ReferenceType string
	ReferenceID   int64
	DueDate       time.Time
	DaysOverdue   int
	CreatedAt     time.Time
}

// Overdue describes an obligation that is past its due date.
type Overdue struct {
	MemberID    int64
	MemberName  string
	Type        string
	ReferenceID int64
	PayAmount   string
	DueDate     string
	DaysOverdue int
}

type Repository interface {
	// Record stores n unless a notice for the same obligation and due date
	// already exists. It reports whether a new row was written.
	Record(ctx context.Context, n *Notice) (bool, error)
}

func (o Overdue) Validate() error {
	if o.MemberID <= 0 {
		return apperrors.NewValidationError("memberId", "member ID must be positive")
	}
	if o.ReferenceID <= 0 {
		return apperrors.NewValidationError("referenceId", "reference ID must be positive")
	}
	switch o.Type {
	case "Loan", "Purchase":
	default:
		return apperrors.NewValidationError("type", fmt.Sprintf("unknown obligation type %q", o.Type))
	}
	if _, err := calendar.Parse(o.DueDate); err != nil {
		return apperrors.NewValidationError("dueDate", "due date must be YYYY-MM-DD")
	}
	if o.DaysOverdue <= 0 {
		return apperrors.NewValidationError("daysOverdue", "days overdue must be positive")
	}
	return nil
}

func NewOverdueNotice(o Overdue) (*Notice, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	due, _ := calendar.Parse(o.DueDate)

	kind := strings.ToLower(o.Type)
	name := strings.TrimSpace(o.MemberName)
	if name == "" {
		name = "Member"
	}
	dayWord := "days"
	if o.DaysOverdue == 1 {
		dayWord = "day"
	}

	return &Notice{
		MemberID:      o.MemberID,
		Title:         fmt.Sprintf("Overdue %s payment", kind),
		Message:       fmt.Sprintf("%s, the payment of %s for %s #%d was due on %s and is %d %s overdue.", name, o.PayAmount, kind, o.ReferenceID, o.DueDate, o.DaysOverdue, dayWord),
		ReferenceType: o.Type,
		ReferenceID:   o.ReferenceID,
		DueDate:       due,
		DaysOverdue:   o.DaysOverdue,
	}, nil
}
