package leaverequest

import (
	"time"

	"leavedesk/internal/ledger"
)

type SubmitLeaveRequest struct {
	LeaveType   string `json:"leave_type" binding:"required"`
	Duration    string `json:"duration" binding:"required"`
	HalfDaySlot string `json:"half_day_slot"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

// ResubmitLeaveRequest overwrites the rejected record's live fields.
type ResubmitLeaveRequest struct {
	LeaveType   string `json:"leave_type" binding:"required"`
	Duration    string `json:"duration" binding:"required"`
	HalfDaySlot string `json:"half_day_slot"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

type ApproveLeaveRequest struct {
	AdminRemarks string `json:"admin_remarks"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
	AdminRemarks    string `json:"admin_remarks"`
}

type LeaveRequestResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`

	LeaveType   string  `json:"leave_type"`
	Duration    string  `json:"duration"`
	HalfDaySlot *string `json:"half_day_slot,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Reason      string  `json:"reason"`

	Status          string `json:"status"`
	SubmissionCount int    `json:"submission_count"`
	AttemptsLeft    int    `json:"attempts_left"`

	IsPaid          bool   `json:"is_paid"`
	DeductedFrom    string `json:"deducted_from"`
	BalanceDeducted string `json:"balance_deducted"`

	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	AdminRemarks    *string `json:"admin_remarks,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	CreatedAt string `json:"created_at"`
}

// ApprovalResponse is what an admin approval returns: the updated record,
// the post-deduction balance, and whether the notification went out.
type ApprovalResponse struct {
	Request   LeaveRequestResponse   `json:"request"`
	Balance   ledger.BalanceSnapshot `json:"balance"`
	EmailSent bool                   `json:"email_sent"`
}

type RejectionResponse struct {
	Request   LeaveRequestResponse `json:"request"`
	EmailSent bool                 `json:"email_sent"`
}

type RejectionHistoryResponse struct {
	Attempt         int     `json:"attempt"`
	ReviewedBy      string  `json:"reviewed_by"`
	RejectionReason string  `json:"rejection_reason"`
	AdminRemarks    string  `json:"admin_remarks,omitempty"`
	LeaveType       string  `json:"leave_type"`
	Duration        string  `json:"duration"`
	HalfDaySlot     *string `json:"half_day_slot,omitempty"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Reason          string  `json:"reason"`
	RejectedAt      string  `json:"rejected_at"`
}

type StatsResponse struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// OnLeaveResponse is the compact row for today's and upcoming leave views.
type OnLeaveResponse struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	Duration   string `json:"duration"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// AdminEditLeaveRequest moves an already filed leave on the admin
// calendar. Type and duration stay fixed so an applied deduction keeps
// matching the record.
type AdminEditLeaveRequest struct {
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	AdminRemarks string `json:"admin_remarks"`
}

type CalendarEntryResponse struct {
	RequestID    string `json:"request_id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department,omitempty"`
	LeaveType    string `json:"leave_type"`
	LeaveCode    string `json:"leave_code"`
	Duration     string `json:"duration"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

type EmployeeLeaveSummaryResponse struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Department string `json:"department,omitempty"`
	Pending    int64  `json:"pending"`
	Approved   int64  `json:"approved"`
	Rejected   int64  `json:"rejected"`
	PaidDays   string `json:"paid_days"`
	UnpaidDays string `json:"unpaid_days"`
}

type ReportEmployee struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role"`
}

// EmployeeReportResponse is the per-employee drill-down: who they are,
// where their balance stands, and every request they ever filed.
type EmployeeReportResponse struct {
	Employee ReportEmployee         `json:"employee"`
	Balance  ledger.BalanceSnapshot `json:"balance"`
	Requests []LeaveRequestResponse `json:"requests"`
}

// shortLeaveCode is the calendar cell label for a leave type.
func shortLeaveCode(leaveType string) string {
	switch leaveType {
	case ledger.TypeSick:
		return "SL"
	case ledger.TypeCasual:
		return "CL"
	case ledger.TypeEmergency:
		return "EL"
	default:
		return "L"
	}
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	attemptsLeft := MaxSubmissions - l.SubmissionCount
	if attemptsLeft < 0 {
		attemptsLeft = 0
	}

	resp := LeaveRequestResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		LeaveType:       l.LeaveType,
		Duration:        l.Duration,
		HalfDaySlot:     l.HalfDaySlot,
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		Reason:          l.Reason,
		Status:          l.Status,
		SubmissionCount: l.SubmissionCount,
		AttemptsLeft:    attemptsLeft,
		IsPaid:          l.IsPaid,
		DeductedFrom:    l.DeductedFrom,
		BalanceDeducted: l.BalanceDeducted.String(),
		AdminRemarks:    l.AdminRemarks,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}

func mapToRejectionHistoryResponse(entries []RejectionHistoryEntry) []RejectionHistoryResponse {
	resp := make([]RejectionHistoryResponse, len(entries))
	for i, e := range entries {
		resp[i] = RejectionHistoryResponse{
			Attempt:         e.Attempt,
			ReviewedBy:      e.ReviewedBy.String(),
			RejectionReason: e.RejectionReason,
			AdminRemarks:    e.AdminRemarks,
			LeaveType:       e.LeaveType,
			Duration:        e.Duration,
			HalfDaySlot:     e.HalfDaySlot,
			StartDate:       e.StartDate.Format("2006-01-02"),
			EndDate:         e.EndDate.Format("2006-01-02"),
			Reason:          e.Reason,
			RejectedAt:      e.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp
}

func mapToOnLeaveResponse(requests []LeaveRequest) []OnLeaveResponse {
	resp := make([]OnLeaveResponse, len(requests))
	for i, l := range requests {
		resp[i] = OnLeaveResponse{
			EmployeeID: l.EmployeeID.String(),
			LeaveType:  l.LeaveType,
			Duration:   l.Duration,
			StartDate:  l.StartDate.Format("2006-01-02"),
			EndDate:    l.EndDate.Format("2006-01-02"),
		}
	}
	return resp
}
