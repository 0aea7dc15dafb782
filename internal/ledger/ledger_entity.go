package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Leave types a request can carry. Sick Leave draws from the SL pool,
// Casual and Emergency Leave draw from the CL pool.
const (
	TypeSick      = "Sick Leave"
	TypeCasual    = "Casual Leave"
	TypeEmergency = "Emergency Leave"
)

// Deduction pools.
const (
	PoolCL   = "CL"
	PoolSL   = "SL"
	PoolNone = "NONE"
)

// Quota slots: one unit of paid-leave eligibility.
const (
	SlotCurrentMonthFull = "current_month_full"
	SlotCurrentMonthHalf = "current_month_half"
	SlotCarryForwardFull = "carry_forward_full"
	SlotCarryForwardHalf = "carry_forward_half"
	SlotNone             = "none"
)

// EmployeeBalance is the per-employee mutable balance state. Only this
// package mutates its counters; callers go through Deduct.
type EmployeeBalance struct {
	EmployeeID uuid.UUID `gorm:"type:uuid;primaryKey"`

	CLBalance decimal.Decimal `gorm:"type:numeric(6,1);not null;default:10"`
	SLBalance decimal.Decimal `gorm:"type:numeric(6,1);not null;default:10"`

	// CurrentMonth is the YYYY-MM key of the last month the quota was
	// reset for. It never moves backward.
	CurrentMonth         string `gorm:"type:varchar(7);not null"`
	CurrentMonthPaidFull int    `gorm:"type:int;not null;default:0"`
	CurrentMonthPaidHalf int    `gorm:"type:int;not null;default:0"`

	PreviousMonthBalanceFull int `gorm:"type:int;not null;default:0"`
	PreviousMonthBalanceHalf int `gorm:"type:int;not null;default:0"`

	CurrentMonthUnpaidLeaves decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`
	TotalUnpaidLeaves        decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BalanceHistoryEntry is one append-only row per deduction outcome.
// Rows are never updated or deleted.
type BalanceHistoryEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_balance_history_employee" json:"employee_id"`
	RequestID  uuid.UUID `gorm:"type:uuid;not null" json:"request_id"`

	Month        string          `gorm:"type:varchar(7);not null" json:"month"`
	Days         decimal.Decimal `gorm:"type:numeric(6,1);not null" json:"days"`
	LeaveType    string          `gorm:"type:varchar(30);not null" json:"leave_type"`
	Paid         bool            `gorm:"not null" json:"paid"`
	DeductedFrom string          `gorm:"type:varchar(10);not null;default:'NONE'" json:"deducted_from"`
	QuotaSlot    string          `gorm:"type:varchar(30);not null;default:'none'" json:"quota_slot"`

	CreatedAt time.Time `json:"created_at"`
}
