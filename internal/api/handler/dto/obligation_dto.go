package dto

import (
	"coop-collections/internal/domain/obligation"
	"strconv"
)

type ObligationResponse struct {
	MemberID      string  `json:"memberId"`
	MemberName    string  `json:"memberName"`
	Type          string  `json:"type"`
	ReferenceID   string  `json:"referenceId"`
	PayAmount     string  `json:"payAmount"`
	NextDueDate   *string `json:"nextDueDate"`
	DaysRemaining *int    `json:"daysRemaining"`
	Status        string  `json:"status"`
	Overdue       bool    `json:"overdue"`
	Degraded      bool    `json:"degraded,omitempty"`
}

type ObligationListResponse struct {
	Count       int                  `json:"count"`
	Obligations []ObligationResponse `json:"obligations"`
}

func NewObligationResponse(o obligation.Obligation) ObligationResponse {
	return ObligationResponse{
		MemberID:      strconv.FormatInt(o.MemberID, 10),
		MemberName:    o.MemberName,
		Type:          string(o.Type),
		ReferenceID:   strconv.FormatInt(o.ReferenceID, 10),
		PayAmount:     formatMoney(o.PayAmount),
		NextDueDate:   formatOptionalDate(o.NextDueDate),
		DaysRemaining: o.DaysRemaining,
		Status:        string(o.Status),
		Overdue:       o.Overdue(),
		Degraded:      o.Degraded,
	}
}

func NewObligationListResponse(rows []obligation.Obligation) ObligationListResponse {
	resp := ObligationListResponse{
		Count:       len(rows),
		Obligations: make([]ObligationResponse, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Obligations = append(resp.Obligations, NewObligationResponse(row))
	}
	return resp
}
