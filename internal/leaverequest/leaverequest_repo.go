package leaverequest

import (
	"context"
	"time"

	leaverequesterrors "leavedesk/internal/leaverequest/errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EmployeeLeaveCounters aggregates one employee's full request history.
// Unpaid days are derived from duration because nothing was deducted
// from a pool for them.
type EmployeeLeaveCounters struct {
	EmployeeID string
	Pending    int64
	Approved   int64
	Rejected   int64
	PaidDays   decimal.Decimal
	UnpaidDays decimal.Decimal
}

//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindAllByStatus(ctx context.Context, status string) ([]LeaveRequest, error)

	// UpdateCAS persists the record only when its stored version still
	// matches l.Version, then bumps the version. A lost race returns
	// ErrConcurrentUpdate.
	UpdateCAS(ctx context.Context, l *LeaveRequest) error

	AppendRejection(ctx context.Context, e *RejectionHistoryEntry) error
	ListRejections(ctx context.Context, requestID string) ([]RejectionHistoryEntry, error)

	// Delete removes the request row; its rejection history goes through
	// DeleteRejections so both happen inside one transaction.
	Delete(ctx context.Context, id string) (int64, error)
	DeleteRejections(ctx context.Context, requestID string) error

	CountByStatus(ctx context.Context, status string) (int64, error)
	FindApprovedCovering(ctx context.Context, day time.Time) ([]LeaveRequest, error)
	FindApprovedStartingBetween(ctx context.Context, from, to time.Time, limit int) ([]LeaveRequest, error)
	FindApprovedOverlapping(ctx context.Context, from, to time.Time) ([]LeaveRequest, error)
	SummaryByEmployee(ctx context.Context) ([]EmployeeLeaveCounters, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAllByStatus(ctx context.Context, status string) ([]LeaveRequest, error) {
	db := r.db.WithContext(ctx)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var requests []LeaveRequest
	err := db.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) UpdateCAS(ctx context.Context, l *LeaveRequest) error {
	currentVersion := l.Version
	l.Version = currentVersion + 1

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND version = ?", l.ID, currentVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(l)
	if res.Error != nil {
		l.Version = currentVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		l.Version = currentVersion
		return leaverequesterrors.ErrConcurrentUpdate
	}
	return nil
}

func (r *repository) AppendRejection(ctx context.Context, e *RejectionHistoryEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) ListRejections(ctx context.Context, requestID string) ([]RejectionHistoryEntry, error) {
	var entries []RejectionHistoryEntry
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("attempt ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repository) FindApprovedCovering(ctx context.Context, day time.Time) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindApprovedStartingBetween(ctx context.Context, from, to time.Time, limit int) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusApproved).
		Where("start_date >= ? AND start_date <= ?", from, to).
		Order("start_date ASC").
		Limit(limit).
		Find(&requests).Error
	return requests, err
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&LeaveRequest{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteRejections(ctx context.Context, requestID string) error {
	return r.db.WithContext(ctx).
		Delete(&RejectionHistoryEntry{}, "request_id = ?", requestID).Error
}

func (r *repository) FindApprovedOverlapping(ctx context.Context, from, to time.Time) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) SummaryByEmployee(ctx context.Context) ([]EmployeeLeaveCounters, error) {
	query := `
SELECT
	employee_id::text AS employee_id,
	COUNT(*) FILTER (WHERE status = ?) AS pending,
	COUNT(*) FILTER (WHERE status = ?) AS approved,
	COUNT(*) FILTER (WHERE status = ?) AS rejected,
	COALESCE(SUM(balance_deducted) FILTER (WHERE status = ? AND is_paid), 0) AS paid_days,
	COALESCE(SUM(CASE WHEN duration = ? THEN 0.5 ELSE 1 END)
		FILTER (WHERE status = ? AND NOT is_paid), 0) AS unpaid_days
FROM leave_requests
GROUP BY employee_id
ORDER BY employee_id
`

	var counters []EmployeeLeaveCounters
	err := r.db.WithContext(ctx).
		Raw(query,
			StatusPending, StatusApproved, StatusRejected,
			StatusApproved, DurationHalfDay, StatusApproved,
		).
		Scan(&counters).Error
	return counters, err
}
