package events

import "time"

const LeaveDecidedTopic = "leavedesk.leave.decided.v1"

// LeaveDecidedEvent is published whenever an admin decision lands, for
// downstream reporting and calendar integrations.
type LeaveDecidedEvent struct {
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id"`
	EmployeeID      string    `json:"employee_id"`
	Status          string    `json:"status"`
	LeaveType       string    `json:"leave_type"`
	IsPaid          bool      `json:"is_paid"`
	DeductedFrom    string    `json:"deducted_from"`
	BalanceDeducted string    `json:"balance_deducted"`
	OccurredAt      time.Time `json:"occurred_at"`
}
