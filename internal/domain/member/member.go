package member

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("member not found")

// ErrInactive is returned when a member can no longer take on new obligations.
var ErrInactive = errors.New("member is not active")

type Member struct {
	MemberID   int64     `json:"memberId"`
	Name       string    `json:"name"`
	Active     bool      `json:"active"`
	CreateDate time.Time `json:"createDate"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type MemberRepository interface {
	FindByID(ctx context.Context, memberID int64) (*Member, error)
}
