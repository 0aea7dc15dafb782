package ledger_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"leavedesk/internal/ledger"
	ledgererrors "leavedesk/internal/ledger/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLedgerRepository struct {
	createFn         func(ctx context.Context, b *ledger.EmployeeBalance) error
	findByEmployeeFn func(ctx context.Context, employeeID string) (*ledger.EmployeeBalance, error)
	updateFn         func(ctx context.Context, b *ledger.EmployeeBalance) error
	appendHistoryFn  func(ctx context.Context, e *ledger.BalanceHistoryEntry) error
	listHistoryFn    func(ctx context.Context, employeeID string, limit int) ([]ledger.BalanceHistoryEntry, error)
}

func (f *fakeLedgerRepository) WithTx(tx *gorm.DB) ledger.Repository {
	return f
}

func (f *fakeLedgerRepository) Create(ctx context.Context, b *ledger.EmployeeBalance) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeLedgerRepository) FindByEmployee(ctx context.Context, employeeID string) (*ledger.EmployeeBalance, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLedgerRepository) Update(ctx context.Context, b *ledger.EmployeeBalance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, b)
	}
	return nil
}

func (f *fakeLedgerRepository) AppendHistory(ctx context.Context, e *ledger.BalanceHistoryEntry) error {
	if f.appendHistoryFn != nil {
		return f.appendHistoryFn(ctx, e)
	}
	return nil
}

func (f *fakeLedgerRepository) ListHistory(ctx context.Context, employeeID string, limit int) ([]ledger.BalanceHistoryEntry, error) {
	if f.listHistoryFn != nil {
		return f.listHistoryFn(ctx, employeeID, limit)
	}
	return nil, nil
}

func freshBalance(employeeID uuid.UUID, month string, cl, sl float64) *ledger.EmployeeBalance {
	return &ledger.EmployeeBalance{
		EmployeeID:               employeeID,
		CLBalance:                decimal.NewFromFloat(cl),
		SLBalance:                decimal.NewFromFloat(sl),
		CurrentMonth:             month,
		CurrentMonthUnpaidLeaves: decimal.Zero,
		TotalUnpaidLeaves:        decimal.Zero,
	}
}

func mustDate(t *testing.T, v string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", v)
	assert.NoError(t, err)
	return ts
}

func TestLedgerService_Deduct(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	requestID := uuid.New()

	t.Run("casual full day uses current-month slot and CL pool", func(t *testing.T) {
		b := freshBalance(employeeID, "2024-01", 10, 10)
		var saved *ledger.EmployeeBalance
		var history *ledger.BalanceHistoryEntry

		repo := &fakeLedgerRepository{
			findByEmployeeFn: func(ctx context.Context, id string) (*ledger.EmployeeBalance, error) {
				assert.Equal(t, employeeID.String(), id)
				return b, nil
			},
			updateFn: func(ctx context.Context, b *ledger.EmployeeBalance) error {
				saved = b
				return nil
			},
			appendHistoryFn: func(ctx context.Context, e *ledger.BalanceHistoryEntry) error {
				history = e
				return nil
			},
		}
		svc := ledger.NewService(repo, nil)

		res, err := svc.Deduct(ctx, nil, ledger.DeductionInput{
			EmployeeID: employeeID,
			RequestID:  requestID,
			LeaveType:  ledger.TypeCasual,
			Days:       decimal.NewFromInt(1),
			Now:        mustDate(t, "2024-01-15"),
		})

		assert.NoError(t, err)
		assert.True(t, res.IsPaid)
		assert.Equal(t, ledger.PoolCL, res.DeductedFrom)
		assert.Equal(t, ledger.SlotCurrentMonthFull, res.QuotaSlot)
		assert.True(t, res.BalanceDeducted.Equal(decimal.NewFromInt(1)))

		assert.NotNil(t, saved)
		assert.True(t, saved.CLBalance.Equal(decimal.NewFromInt(9)))
		assert.True(t, saved.SLBalance.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, 1, saved.CurrentMonthPaidFull)
		assert.Equal(t, 0, saved.CurrentMonthPaidHalf)

		assert.NotNil(t, history)
		assert.Equal(t, requestID, history.RequestID)
		assert.Equal(t, "2024-01", history.Month)
		assert.True(t, history.Paid)
		assert.Equal(t, ledger.PoolCL, history.DeductedFrom)
	})

	t.Run("sick leave with empty SL pool and no quota is unpaid, pools untouched", func(t *testing.T) {
		b := freshBalance(employeeID, "2024-01", 10, 0)
		b.CurrentMonthPaidFull = 1
		b.CurrentMonthPaidHalf = 1

		repo := &fakeLedgerRepository{
			findByEmployeeFn: func(ctx context.Context, id string) (*ledger.EmployeeBalance, error) {
				return b, nil
			},
		}
		svc := ledger.NewService(repo, nil)

		res, err := svc.Deduct(ctx, nil, ledger.DeductionInput{
			EmployeeID: employeeID,
			RequestID:  requestID,
			LeaveType:  ledger.TypeSick,
			Days:       decimal.NewFromInt(1),
			Now:        mustDate(t, "2024-01-20"),
		})

		assert.NoError(t, err)
		assert.False(t, res.IsPaid)
		assert.Equal(t, ledger.PoolNone, res.DeductedFrom)
		assert.Equal(t, ledger.SlotNone, res.QuotaSlot)
		assert.True(t, res.BalanceDeducted.IsZero())

		assert.True(t, b.CLBalance.Equal(decimal.NewFromInt(10)))
		assert.True(t, b.SLBalance.IsZero())
		assert.True(t, b.CurrentMonthUnpaidLeaves.Equal(decimal.NewFromInt(1)))
		assert.True(t, b.TotalUnpaidLeaves.Equal(decimal.NewFromInt(1)))
	})

	t.Run("consumed quota slot is not rolled back when pool is short", func(t *testing.T) {
		b := freshBalance(employeeID, "2024-01", 10, 0.5)

		repo := &fakeLedgerRepository{
			findByEmployeeFn: func(ctx context.Context, id string) (*ledger.EmployeeBalance, error) {
				return b, nil
			},
		}
		svc := ledger.NewService(repo, nil)

		res, err := svc.Deduct(ctx, nil, ledger.DeductionInput{
			EmployeeID: employeeID,
			RequestID:  requestID,
			LeaveType:  ledger.TypeSick,
			Days:       decimal.NewFromInt(1),
			Now:        mustDate(t, "2024-01-10"),
		})

		assert.NoError(t, err)
		assert.False(t, res.IsPaid)
		assert.True(t, res.BalanceDeducted.IsZero())
		// The full-day slot stays burned even though the request ended up unpaid.
		assert.Equal(t, 1, b.CurrentMonthPaidFull)
		assert.Equal(t, ledger.SlotCurrentMonthFull, res.QuotaSlot)
		assert.True(t, b.SLBalance.Equal(decimal.NewFromFloat(0.5)))
		assert.True(t, b.TotalUnpaidLeaves.Equal(decimal.NewFromInt(1)))
	})

	t.Run("month rollover carries unused half slot and keeps it untouched", func(t *testing.T) {
		b := freshBalance(employeeID, "2024-01", 20, 5)

		repo := &fakeLedgerRepository{
			findByEmployeeFn: func(ctx context.Context, id string) (*ledger.EmployeeBalance, error) {
				return b, nil
			},
		}
		svc := ledger.NewService(repo, nil)

		res, err := svc.Deduct(ctx, nil, ledger.DeductionInput{
			EmployeeID: employeeID,
			RequestID:  requestID,
			LeaveType:  ledger.TypeCasual,
			Days:       decimal.NewFromFloat(0.5),
			Now:        mustDate(t, "2024-02-01"),
		})

		assert.NoError(t, err)
		assert.True(t, res.IsPaid)
		assert.Equal(t, ledger.SlotCurrentMonthHalf, res.QuotaSlot)

		assert.Equal(t, "2024-02", b.CurrentMonth)
		// Carry-forward computed at rollover, then the current-month slot is
		// preferred, so the carried half slot stays available.
		assert.Equal(t, 1, b.PreviousMonthBalanceHalf)
		assert.Equal(t, 1, b.PreviousMonthBalanceFull)
		assert.Equal(t, 1, b.CurrentMonthPaidHalf)
		assert.True(t, b.CLBalance.Equal(decimal.NewFromFloat(19.5)))
	})

	t.Run("second full day in a month falls through to carry then unpaid", func(t *testing.T) {
		b := freshBalance(employeeID, "2024-03", 10, 10)

		repo := &fakeLedgerRepository{
			findByEmployeeFn: func(ctx context.Context, id string) (*ledger.EmployeeBalance, error) {
				return b, nil
			},
		}
		svc := ledger.NewService(repo, nil)
		now := mustDate(t, "2024-03-05")

		first, err := svc.Deduct(ctx, nil, ledger.DeductionInput{
			EmployeeID: employeeID, RequestID: uuid.New(),
			LeaveType: ledger.TypeEmergency, Days: decimal.NewFromInt(1), Now: now,
		})
		assert.NoError(t, err)
		assert.True(t, first.IsPaid)

		second, err := svc.Deduct(ctx, nil, ledger.DeductionInput{
			EmployeeID: employeeID, RequestID: uuid.New(),
			LeaveType: ledger.TypeEmergency, Days: decimal.NewFromInt(1), Now: now,
		})
		assert.NoError(t, err)
		assert.False(t, second.IsPaid)

		// Paid counter is capped at one regardless of how many approvals land.
		assert.Equal(t, 1, b.CurrentMonthPaidFull)
		assert.True(t, b.CLBalance.Equal(decimal.NewFromInt(9)))
		assert.True(t, b.CurrentMonthUnpaidLeaves.Equal(decimal.NewFromInt(1)))
	})

	t.Run("current month never moves backward", func(t *testing.T) {
		b := freshBalance(employeeID, "2024-03", 10, 10)

		repo := &fakeLedgerRepository{
			findByEmployeeFn: func(ctx context.Context, id string) (*ledger.EmployeeBalance, error) {
				return b, nil
			},
		}
		svc := ledger.NewService(repo, nil)

		_, err := svc.Deduct(ctx, nil, ledger.DeductionInput{
			EmployeeID: employeeID,
			RequestID:  requestID,
			LeaveType:  ledger.TypeCasual,
			Days:       decimal.NewFromInt(1),
			Now:        mustDate(t, "2024-02-15"),
		})

		assert.NoError(t, err)
		assert.Equal(t, "2024-03", b.CurrentMonth)
	})

	t.Run("missing balance row yields not found", func(t *testing.T) {
		repo := &fakeLedgerRepository{}
		svc := ledger.NewService(repo, nil)

		_, err := svc.Deduct(ctx, nil, ledger.DeductionInput{
			EmployeeID: employeeID,
			RequestID:  requestID,
			LeaveType:  ledger.TypeCasual,
			Days:       decimal.NewFromInt(1),
			Now:        time.Now(),
		})

		assert.ErrorIs(t, err, ledgererrors.ErrBalanceNotFound)
	})

	t.Run("rejects day amounts other than half and full", func(t *testing.T) {
		repo := &fakeLedgerRepository{}
		svc := ledger.NewService(repo, nil)

		_, err := svc.Deduct(ctx, nil, ledger.DeductionInput{
			EmployeeID: employeeID,
			RequestID:  requestID,
			LeaveType:  ledger.TypeCasual,
			Days:       decimal.NewFromInt(2),
			Now:        time.Now(),
		})

		assert.ErrorIs(t, err, ledgererrors.ErrInvalidDeductionDays)
	})
}

func TestLedgerService_Snapshot(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("reads through and caches", func(t *testing.T) {
		b := freshBalance(employeeID, "2024-04", 7.5, 3)
		b.PreviousMonthBalanceFull = 1

		repo := &fakeLedgerRepository{
			findByEmployeeFn: func(ctx context.Context, id string) (*ledger.EmployeeBalance, error) {
				return b, nil
			},
		}

		rdb, mock := redismock.NewClientMock()
		key := "ledger:snapshot:" + employeeID.String()

		expected := ledger.BalanceSnapshot{
			EmployeeID:               employeeID.String(),
			CLBalance:                b.CLBalance,
			SLBalance:                b.SLBalance,
			CurrentMonth:             "2024-04",
			CarryForwardFull:         1,
			CurrentMonthUnpaidLeaves: decimal.Zero,
			TotalUnpaidLeaves:        decimal.Zero,
		}
		payload, err := json.Marshal(expected)
		assert.NoError(t, err)

		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, payload, 5*time.Minute).SetVal("OK")

		svc := ledger.NewService(repo, rdb)
		snap, err := svc.Snapshot(ctx, employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, "2024-04", snap.CurrentMonth)
		assert.True(t, snap.CLBalance.Equal(decimal.NewFromFloat(7.5)))
		assert.Equal(t, 1, snap.CarryForwardFull)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown employee yields not found", func(t *testing.T) {
		svc := ledger.NewService(&fakeLedgerRepository{}, nil)

		_, err := svc.Snapshot(ctx, uuid.New().String())

		assert.ErrorIs(t, err, ledgererrors.ErrBalanceNotFound)
	})

	t.Run("malformed employee id is rejected", func(t *testing.T) {
		svc := ledger.NewService(&fakeLedgerRepository{}, nil)

		_, err := svc.Snapshot(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, ledgererrors.ErrInvalidEmployeeID)
	})
}
