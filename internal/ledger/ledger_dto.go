package ledger

import "github.com/shopspring/decimal"

// BalanceSnapshot is the read model handed to callers; it never exposes
// the mutable entity itself.
type BalanceSnapshot struct {
	EmployeeID string `json:"employee_id"`

	CLBalance decimal.Decimal `json:"cl_balance"`
	SLBalance decimal.Decimal `json:"sl_balance"`

	CurrentMonth         string `json:"current_month"`
	CurrentMonthPaidFull int    `json:"current_month_paid_full"`
	CurrentMonthPaidHalf int    `json:"current_month_paid_half"`

	CarryForwardFull int `json:"carry_forward_full"`
	CarryForwardHalf int `json:"carry_forward_half"`

	CurrentMonthUnpaidLeaves decimal.Decimal `json:"current_month_unpaid_leaves"`
	TotalUnpaidLeaves        decimal.Decimal `json:"total_unpaid_leaves"`
}

// DeductionResult reports where an approved leave was booked.
type DeductionResult struct {
	IsPaid          bool            `json:"is_paid"`
	DeductedFrom    string          `json:"deducted_from"`
	BalanceDeducted decimal.Decimal `json:"balance_deducted"`
	QuotaSlot       string          `json:"quota_slot"`
}

func snapshotOf(b *EmployeeBalance) BalanceSnapshot {
	return BalanceSnapshot{
		EmployeeID:               b.EmployeeID.String(),
		CLBalance:                b.CLBalance,
		SLBalance:                b.SLBalance,
		CurrentMonth:             b.CurrentMonth,
		CurrentMonthPaidFull:     b.CurrentMonthPaidFull,
		CurrentMonthPaidHalf:     b.CurrentMonthPaidHalf,
		CarryForwardFull:         b.PreviousMonthBalanceFull,
		CarryForwardHalf:         b.PreviousMonthBalanceHalf,
		CurrentMonthUnpaidLeaves: b.CurrentMonthUnpaidLeaves,
		TotalUnpaidLeaves:        b.TotalUnpaidLeaves,
	}
}
