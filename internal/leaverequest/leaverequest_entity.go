package leaverequest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

const (
	DurationFullDay = "Full Day"
	DurationHalfDay = "Half Day"

	SlotFirstHalf  = "First Half"
	SlotSecondHalf = "Second Half"
)

// MaxSubmissions is the hard cap on total submissions of one record
// (initial submission plus resubmissions).
const MaxSubmissions = 3

// CancelledRemark is the fixed system remark stamped on employee cancellation.
const CancelledRemark = "Cancelled by employee"

// LeaveRequest is the mutable request record. Resubmission mutates this
// same row; past rejections live in RejectionHistoryEntry rows.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`

	LeaveType   string    `gorm:"type:varchar(30);not null"`
	Duration    string    `gorm:"type:varchar(10);not null;default:'Full Day'"`
	HalfDaySlot *string   `gorm:"type:varchar(15)"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	Reason      string    `gorm:"type:text;not null"`

	Status            string     `gorm:"type:varchar(15);not null;default:'Pending';index:idx_leave_requests_status"`
	SubmissionCount   int        `gorm:"type:int;not null;default:1"`
	OriginalRequestID *uuid.UUID `gorm:"type:uuid"`

	IsPaid          bool            `gorm:"not null;default:false"`
	DeductedFrom    string          `gorm:"type:varchar(10);not null;default:'NONE'"`
	BalanceDeducted decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`

	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt      *time.Time
	AdminRemarks    *string `gorm:"type:text"`
	RejectionReason *string `gorm:"type:text"`

	// Version guards Pending -> Approved/Rejected against concurrent
	// reviews via compare-and-swap updates.
	Version int `gorm:"type:int;not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RejectionHistoryEntry is an immutable snapshot taken at each rejection.
// The parent record's live fields change on resubmission; these rows do not.
type RejectionHistoryEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index:idx_rejection_history_request"`

	Attempt         int       `gorm:"type:int;not null"`
	ReviewedBy      uuid.UUID `gorm:"type:uuid;not null"`
	RejectionReason string    `gorm:"type:text;not null"`
	AdminRemarks    string    `gorm:"type:text"`

	LeaveType   string    `gorm:"type:varchar(30);not null"`
	Duration    string    `gorm:"type:varchar(10);not null"`
	HalfDaySlot *string   `gorm:"type:varchar(15)"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	Reason      string    `gorm:"type:text;not null"`

	CreatedAt time.Time
}
