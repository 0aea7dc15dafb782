package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	ledgererrors "leavedesk/internal/ledger/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	snapshotKeyPrefix = "ledger:snapshot:"
	snapshotTTL       = 5 * time.Minute

	// Monthly paid quota: one full-day and one half-day slot each month.
	monthlyQuotaFull = 1
	monthlyQuotaHalf = 1
)

func snapshotKey(employeeID string) string {
	return snapshotKeyPrefix + employeeID
}

// MonthKey returns the YYYY-MM key the ledger partitions quota by.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// DeductionInput describes one approved leave to book against the ledger.
// Days must be 0.5 (half day) or 1 (full day).
type DeductionInput struct {
	EmployeeID uuid.UUID
	RequestID  uuid.UUID
	LeaveType  string
	Days       decimal.Decimal
	Now        time.Time
}

//go:generate mockgen -source=ledger_service.go -destination=mock/ledger_service_mock.go -package=mock
type Service interface {
	// Provision creates the initial balance row for a new employee.
	Provision(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, now time.Time) error

	// Deduct runs the monthly reset plus the deduction algorithm inside
	// the caller's transaction. The caller must invoke it at most once
	// per approval; the ledger holds no idempotency key.
	Deduct(ctx context.Context, tx *gorm.DB, in DeductionInput) (DeductionResult, error)

	Snapshot(ctx context.Context, employeeID string) (BalanceSnapshot, error)
	InvalidateSnapshot(ctx context.Context, employeeID string)
	History(ctx context.Context, employeeID string, limit int) ([]BalanceHistoryEntry, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Provision(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, now time.Time) error {
	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	ten := decimal.NewFromInt(10)
	b := &EmployeeBalance{
		EmployeeID:               employeeID,
		CLBalance:                ten,
		SLBalance:                ten,
		CurrentMonth:             MonthKey(now),
		CurrentMonthUnpaidLeaves: decimal.Zero,
		TotalUnpaidLeaves:        decimal.Zero,
	}

	if err := repo.Create(ctx, b); err != nil {
		if mapped := mapRepositoryError(err); mapped != err {
			return mapped
		}
		s.logger.Error("provision balance failed",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err),
		)
		return err
	}

	s.InvalidateSnapshot(ctx, employeeID.String())
	s.logger.Info("balance provisioned",
		zap.String("employee_id", employeeID.String()),
		zap.String("month", b.CurrentMonth),
	)
	return nil
}

func (s *service) Deduct(ctx context.Context, tx *gorm.DB, in DeductionInput) (DeductionResult, error) {
	halfDay := decimal.NewFromFloat(0.5)
	fullDay := decimal.NewFromInt(1)
	if !in.Days.Equal(halfDay) && !in.Days.Equal(fullDay) {
		return DeductionResult{}, ledgererrors.ErrInvalidDeductionDays
	}

	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	b, err := repo.FindByEmployee(ctx, in.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeductionResult{}, ledgererrors.ErrBalanceNotFound
		}
		return DeductionResult{}, err
	}

	monthKey := MonthKey(in.Now)
	applyMonthlyReset(b, monthKey)

	res := DeductionResult{
		DeductedFrom:    PoolNone,
		BalanceDeducted: decimal.Zero,
		QuotaSlot:       SlotNone,
	}

	// Quota slot lookup: current-month slot first, then carry-forward.
	if in.Days.Equal(halfDay) {
		switch {
		case b.CurrentMonthPaidHalf < monthlyQuotaHalf:
			b.CurrentMonthPaidHalf++
			res.IsPaid = true
			res.QuotaSlot = SlotCurrentMonthHalf
		case b.PreviousMonthBalanceHalf > 0:
			b.PreviousMonthBalanceHalf--
			res.IsPaid = true
			res.QuotaSlot = SlotCarryForwardHalf
		}
	} else {
		switch {
		case b.CurrentMonthPaidFull < monthlyQuotaFull:
			b.CurrentMonthPaidFull++
			res.IsPaid = true
			res.QuotaSlot = SlotCurrentMonthFull
		case b.PreviousMonthBalanceFull > 0:
			b.PreviousMonthBalanceFull--
			res.IsPaid = true
			res.QuotaSlot = SlotCarryForwardFull
		}
	}

	// Strict type-based final deduction: Sick Leave only from SL,
	// Casual/Emergency only from CL. A consumed quota slot is not given
	// back when the pool is short; the request just becomes unpaid.
	if res.IsPaid {
		pool := &b.CLBalance
		from := PoolCL
		if in.LeaveType == TypeSick {
			pool = &b.SLBalance
			from = PoolSL
		}

		if pool.LessThan(in.Days) {
			s.logger.Warn("quota slot consumed but pool insufficient, booking unpaid",
				zap.String("employee_id", in.EmployeeID.String()),
				zap.String("leave_type", in.LeaveType),
				zap.String("pool", from),
				zap.String("pool_balance", pool.String()),
			)
			res.IsPaid = false
		} else {
			*pool = pool.Sub(in.Days)
			res.DeductedFrom = from
			res.BalanceDeducted = in.Days
		}
	}

	if !res.IsPaid {
		b.CurrentMonthUnpaidLeaves = b.CurrentMonthUnpaidLeaves.Add(in.Days)
		b.TotalUnpaidLeaves = b.TotalUnpaidLeaves.Add(in.Days)
	}

	entry := &BalanceHistoryEntry{
		ID:           uuid.New(),
		EmployeeID:   in.EmployeeID,
		RequestID:    in.RequestID,
		Month:        b.CurrentMonth,
		Days:         in.Days,
		LeaveType:    in.LeaveType,
		Paid:         res.IsPaid,
		DeductedFrom: res.DeductedFrom,
		QuotaSlot:    res.QuotaSlot,
	}

	if err := repo.Update(ctx, b); err != nil {
		s.logger.Error("persist balance failed",
			zap.String("employee_id", in.EmployeeID.String()),
			zap.Error(err),
		)
		return DeductionResult{}, err
	}
	if err := repo.AppendHistory(ctx, entry); err != nil {
		s.logger.Error("append balance history failed",
			zap.String("employee_id", in.EmployeeID.String()),
			zap.Error(err),
		)
		return DeductionResult{}, err
	}

	s.logger.Info("deduction applied",
		zap.String("employee_id", in.EmployeeID.String()),
		zap.String("request_id", in.RequestID.String()),
		zap.String("leave_type", in.LeaveType),
		zap.String("days", in.Days.String()),
		zap.Bool("is_paid", res.IsPaid),
		zap.String("deducted_from", res.DeductedFrom),
		zap.String("quota_slot", res.QuotaSlot),
	)
	return res, nil
}

// applyMonthlyReset rolls the balance into monthKey when it differs from
// the stored month. Carry-forward overwrites the previous value; skipped
// months do not accumulate. An earlier monthKey is a no-op so the stored
// month never moves backward.
func applyMonthlyReset(b *EmployeeBalance, monthKey string) {
	if b.CurrentMonth == monthKey {
		return
	}
	if b.CurrentMonth > monthKey {
		return
	}

	carryFull := monthlyQuotaFull - b.CurrentMonthPaidFull
	if carryFull < 0 {
		carryFull = 0
	}
	carryHalf := monthlyQuotaHalf - b.CurrentMonthPaidHalf
	if carryHalf < 0 {
		carryHalf = 0
	}

	b.PreviousMonthBalanceFull = carryFull
	b.PreviousMonthBalanceHalf = carryHalf
	b.CurrentMonthPaidFull = 0
	b.CurrentMonthPaidHalf = 0
	b.CurrentMonthUnpaidLeaves = decimal.Zero
	b.CurrentMonth = monthKey
}

func (s *service) Snapshot(ctx context.Context, employeeID string) (BalanceSnapshot, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceSnapshot{}, ledgererrors.ErrInvalidEmployeeID
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, snapshotKey(employeeID)).Result(); err == nil {
			var snap BalanceSnapshot
			if err := json.Unmarshal([]byte(cached), &snap); err == nil {
				return snap, nil
			}
		}
	}

	v, err, _ := s.sf.Do(employeeID, func() (any, error) {
		b, err := s.repo.FindByEmployee(ctx, employeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ledgererrors.ErrBalanceNotFound
			}
			return nil, err
		}

		snap := snapshotOf(b)
		if s.rdb != nil {
			if payload, err := json.Marshal(snap); err == nil {
				if err := s.rdb.Set(ctx, snapshotKey(employeeID), payload, snapshotTTL).Err(); err != nil {
					s.logger.Warn("cache balance snapshot failed",
						zap.String("employee_id", employeeID),
						zap.Error(err),
					)
				}
			}
		}
		return snap, nil
	})
	if err != nil {
		return BalanceSnapshot{}, err
	}
	return v.(BalanceSnapshot), nil
}

func (s *service) InvalidateSnapshot(ctx context.Context, employeeID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, snapshotKey(employeeID)).Err(); err != nil {
		s.logger.Warn("invalidate balance snapshot failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}

func (s *service) History(ctx context.Context, employeeID string, limit int) ([]BalanceHistoryEntry, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, ledgererrors.ErrInvalidEmployeeID
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListHistory(ctx, employeeID, limit)
}
