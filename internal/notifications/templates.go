package notifications

import "fmt"

// DecisionContext carries the leave details rendered into decision mails.
type DecisionContext struct {
	EmployeeName string
	LeaveType    string
	Duration     string
	StartDate    string
	EndDate      string
	Reason       string
	AdminName    string
}

func buildApprovalMessage(c DecisionContext) (subject, body string) {
	subject = "Request Approved"
	body = fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your leave request has been approved.\n\n"+
			"Type: %s (%s)\n"+
			"From: %s\n"+
			"To: %s\n\n"+
			"Regards,\n%s",
		c.EmployeeName, c.LeaveType, c.Duration, c.StartDate, c.EndDate, c.AdminName,
	)
	return subject, body
}

func buildRejectionMessage(c DecisionContext, rejectionReason string) (subject, body string) {
	subject = "Request Rejected"
	body = fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your leave request has been rejected.\n\n"+
			"Type: %s (%s)\n"+
			"From: %s\n"+
			"To: %s\n"+
			"Reason: %s\n\n"+
			"Regards,\n%s",
		c.EmployeeName, c.LeaveType, c.Duration, c.StartDate, c.EndDate,
		rejectionReason, c.AdminName,
	)
	return subject, body
}
