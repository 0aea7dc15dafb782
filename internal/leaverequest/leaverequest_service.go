package leaverequest

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"leavedesk/internal/employee"
	employeeerrors "leavedesk/internal/employee/errors"
	"leavedesk/internal/events"
	leaverequesterrors "leavedesk/internal/leaverequest/errors"
	"leavedesk/internal/ledger"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/notifications"
	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Resubmit(ctx context.Context, employeeID, requestID string, req ResubmitLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, employeeID, requestID string) (LeaveRequestResponse, error)

	ListMine(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)
	ListAll(ctx context.Context, status string) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, actorID, role, requestID string) (LeaveRequestResponse, error)
	RejectionHistory(ctx context.Context, actorID, role, requestID string) ([]RejectionHistoryResponse, error)

	Approve(ctx context.Context, adminID, requestID string, req ApproveLeaveRequest) (ApprovalResponse, error)
	Reject(ctx context.Context, adminID, requestID string, req RejectLeaveRequest) (RejectionResponse, error)

	Balance(ctx context.Context, employeeID string) (ledger.BalanceSnapshot, error)
	Stats(ctx context.Context) (StatsResponse, error)
	OnLeaveToday(ctx context.Context) ([]OnLeaveResponse, error)
	Upcoming(ctx context.Context, days int) ([]OnLeaveResponse, error)

	CalendarMonth(ctx context.Context, year, month int) ([]CalendarEntryResponse, error)
	AdminUpdate(ctx context.Context, adminID, requestID string, req AdminEditLeaveRequest) (LeaveRequestResponse, error)
	AdminDelete(ctx context.Context, adminID, requestID string) error
	LeaveSummary(ctx context.Context) ([]EmployeeLeaveSummaryResponse, error)
	DetailedReport(ctx context.Context, employeeID string) (EmployeeReportResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	ledger    ledger.Service
	employees employee.Repository
	outbox    kafka.OutboxRepository
	notifier  notifications.Notifier
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	db *gorm.DB,
	repo Repository,
	ledgerService ledger.Service,
	employees employee.Repository,
	outbox kafka.OutboxRepository,
	notifier notifications.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		ledger:    ledgerService,
		employees: employees,
		outbox:    outbox,
		notifier:  notifier,
		logger:    l,
		now:       time.Now,
	}
}

// requestFields is the validated form of a submit or resubmit payload.
type requestFields struct {
	LeaveType   string
	Duration    string
	HalfDaySlot *string
	StartDate   time.Time
	EndDate     time.Time
	Reason      string
}

func validateFields(leaveType, duration, halfDaySlot, startDate, endDate, reason string) (requestFields, error) {
	var f requestFields

	switch leaveType {
	case ledger.TypeSick, ledger.TypeCasual, ledger.TypeEmergency:
		f.LeaveType = leaveType
	default:
		return f, leaverequesterrors.ErrInvalidLeaveType
	}

	switch duration {
	case DurationFullDay, DurationHalfDay:
		f.Duration = duration
	default:
		return f, leaverequesterrors.ErrInvalidDuration
	}

	if duration == DurationHalfDay {
		switch halfDaySlot {
		case SlotFirstHalf, SlotSecondHalf:
			slot := halfDaySlot
			f.HalfDaySlot = &slot
		default:
			return f, leaverequesterrors.ErrHalfDaySlotRequired
		}
	} else if halfDaySlot != "" {
		return f, leaverequesterrors.ErrHalfDaySlotNotAllowed
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return f, leaverequesterrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return f, leaverequesterrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return f, leaverequesterrors.ErrInvalidDateRange
	}
	f.StartDate = start
	f.EndDate = end

	if reason == "" {
		return f, leaverequesterrors.ErrReasonRequired
	}
	f.Reason = reason

	return f, nil
}

func deductionDays(duration string) decimal.Decimal {
	if duration == DurationHalfDay {
		return decimal.NewFromFloat(0.5)
	}
	return decimal.NewFromInt(1)
}

func (s *service) Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveRequestResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}

	fields, err := validateFields(req.LeaveType, req.Duration, req.HalfDaySlot, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	l := &LeaveRequest{
		ID:              uuid.New(),
		EmployeeID:      empID,
		LeaveType:       fields.LeaveType,
		Duration:        fields.Duration,
		HalfDaySlot:     fields.HalfDaySlot,
		StartDate:       fields.StartDate,
		EndDate:         fields.EndDate,
		Reason:          fields.Reason,
		Status:          StatusPending,
		SubmissionCount: 1,
		DeductedFrom:    ledger.PoolNone,
		BalanceDeducted: decimal.Zero,
		Version:         1,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("create leave request failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request submitted",
		zap.String("request_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", l.LeaveType),
		zap.String("duration", l.Duration),
	)
	return mapToResponse(*l), nil
}

func (s *service) Resubmit(ctx context.Context, employeeID, requestID string, req ResubmitLeaveRequest) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}

	fields, err := validateFields(req.LeaveType, req.Duration, req.HalfDaySlot, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	var updated *LeaveRequest
	err = s.db.Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, requestID)
		if err != nil {
			return mapFindError(err)
		}
		if l.EmployeeID.String() != employeeID {
			return leaverequesterrors.ErrNotRequestOwner
		}
		if l.Status != StatusRejected {
			return leaverequesterrors.ErrOnlyRejectedResubmittable
		}
		if l.SubmissionCount >= MaxSubmissions {
			return leaverequesterrors.ErrSubmissionLimitReached
		}

		// Overwrite the live fields in place. Rejection history rows keep
		// the prior attempts.
		l.LeaveType = fields.LeaveType
		l.Duration = fields.Duration
		l.HalfDaySlot = fields.HalfDaySlot
		l.StartDate = fields.StartDate
		l.EndDate = fields.EndDate
		l.Reason = fields.Reason
		l.Status = StatusPending
		l.SubmissionCount++
		l.IsPaid = false
		l.DeductedFrom = ledger.PoolNone
		l.BalanceDeducted = decimal.Zero
		l.ReviewedBy = nil
		l.ReviewedAt = nil
		l.AdminRemarks = nil
		l.RejectionReason = nil

		if err := qtx.UpdateCAS(ctx, l); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request resubmitted",
		zap.String("request_id", requestID),
		zap.String("employee_id", employeeID),
		zap.Int("submission_count", updated.SubmissionCount),
	)
	return mapToResponse(*updated), nil
}

func (s *service) Cancel(ctx context.Context, employeeID, requestID string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}

	var updated *LeaveRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, requestID)
		if err != nil {
			return mapFindError(err)
		}
		if l.EmployeeID.String() != employeeID {
			return leaverequesterrors.ErrNotRequestOwner
		}
		if l.Status != StatusPending {
			return leaverequesterrors.ErrOnlyPendingCancellable
		}

		// A cancellation closes the record without touching the balance
		// and without a reviewer.
		remark := CancelledRemark
		now := s.now().UTC()
		l.Status = StatusRejected
		l.AdminRemarks = &remark
		l.ReviewedAt = &now

		if err := qtx.UpdateCAS(ctx, l); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request cancelled",
		zap.String("request_id", requestID),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*updated), nil
}

func (s *service) ListMine(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaverequesterrors.ErrInvalidEmployeeID
	}
	requests, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) ListAll(ctx context.Context, status string) ([]LeaveRequestResponse, error) {
	switch status {
	case "", StatusPending, StatusApproved, StatusRejected:
	default:
		return nil, apperror.InvalidField("status")
	}
	requests, err := s.repo.FindAllByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, actorID, role, requestID string) (LeaveRequestResponse, error) {
	l, err := s.loadAuthorized(ctx, actorID, role, requestID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) RejectionHistory(ctx context.Context, actorID, role, requestID string) ([]RejectionHistoryResponse, error) {
	if _, err := s.loadAuthorized(ctx, actorID, role, requestID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListRejections(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return mapToRejectionHistoryResponse(entries), nil
}

func (s *service) loadAuthorized(ctx context.Context, actorID, role, requestID string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, leaverequesterrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(requestID); err != nil {
		return nil, leaverequesterrors.ErrInvalidRequestID
	}

	l, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, mapFindError(err)
	}
	if role != employee.RoleAdmin && l.EmployeeID.String() != actorID {
		return nil, leaverequesterrors.ErrNotRequestOwner
	}
	return l, nil
}

func (s *service) Approve(ctx context.Context, adminID, requestID string, req ApproveLeaveRequest) (ApprovalResponse, error) {
	reviewerID, err := uuid.Parse(adminID)
	if err != nil {
		return ApprovalResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(requestID); err != nil {
		return ApprovalResponse{}, leaverequesterrors.ErrInvalidRequestID
	}

	var updated *LeaveRequest
	err = s.db.Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, requestID)
		if err != nil {
			return mapFindError(err)
		}
		if l.EmployeeID == reviewerID {
			return leaverequesterrors.ErrSelfReviewForbidden
		}
		if l.Status != StatusPending {
			return leaverequesterrors.ErrOnlyPendingReviewable
		}

		now := s.now().UTC()
		result, err := s.ledger.Deduct(ctx, tx, ledger.DeductionInput{
			EmployeeID: l.EmployeeID,
			RequestID:  l.ID,
			LeaveType:  l.LeaveType,
			Days:       deductionDays(l.Duration),
			Now:        now,
		})
		if err != nil {
			return err
		}

		l.Status = StatusApproved
		l.ReviewedBy = &reviewerID
		l.ReviewedAt = &now
		l.RejectionReason = nil
		if req.AdminRemarks != "" {
			remarks := req.AdminRemarks
			l.AdminRemarks = &remarks
		} else {
			l.AdminRemarks = nil
		}
		l.IsPaid = result.IsPaid
		l.DeductedFrom = result.DeductedFrom
		l.BalanceDeducted = result.BalanceDeducted

		if err := qtx.UpdateCAS(ctx, l); err != nil {
			return err
		}
		if err := s.enqueueDecisionEvent(ctx, tx, l, "leave.approved", now); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		return ApprovalResponse{}, err
	}

	s.ledger.InvalidateSnapshot(ctx, updated.EmployeeID.String())

	emailSent := s.notifyDecision(ctx, updated, adminID, "")

	balance, err := s.ledger.Snapshot(ctx, updated.EmployeeID.String())
	if err != nil {
		s.logger.Warn("load balance snapshot after approval failed",
			zap.String("employee_id", updated.EmployeeID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("leave request approved",
		zap.String("request_id", requestID),
		zap.String("reviewed_by", adminID),
		zap.Bool("is_paid", updated.IsPaid),
		zap.String("deducted_from", updated.DeductedFrom),
		zap.Bool("email_sent", emailSent),
	)
	return ApprovalResponse{
		Request:   mapToResponse(*updated),
		Balance:   balance,
		EmailSent: emailSent,
	}, nil
}

func (s *service) Reject(ctx context.Context, adminID, requestID string, req RejectLeaveRequest) (RejectionResponse, error) {
	reviewerID, err := uuid.Parse(adminID)
	if err != nil {
		return RejectionResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(requestID); err != nil {
		return RejectionResponse{}, leaverequesterrors.ErrInvalidRequestID
	}
	if req.RejectionReason == "" {
		return RejectionResponse{}, leaverequesterrors.ErrRejectionReasonRequired
	}

	var updated *LeaveRequest
	err = s.db.Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, requestID)
		if err != nil {
			return mapFindError(err)
		}
		if l.EmployeeID == reviewerID {
			return leaverequesterrors.ErrSelfReviewForbidden
		}
		if l.Status != StatusPending {
			return leaverequesterrors.ErrOnlyPendingReviewable
		}

		// Snapshot the attempt before the live fields change. The trail
		// must survive later resubmissions intact.
		entry := &RejectionHistoryEntry{
			ID:              uuid.New(),
			RequestID:       l.ID,
			Attempt:         l.SubmissionCount,
			ReviewedBy:      reviewerID,
			RejectionReason: req.RejectionReason,
			AdminRemarks:    req.AdminRemarks,
			LeaveType:       l.LeaveType,
			Duration:        l.Duration,
			HalfDaySlot:     l.HalfDaySlot,
			StartDate:       l.StartDate,
			EndDate:         l.EndDate,
			Reason:          l.Reason,
		}
		if err := qtx.AppendRejection(ctx, entry); err != nil {
			return err
		}

		now := s.now().UTC()
		reason := req.RejectionReason
		l.Status = StatusRejected
		l.ReviewedBy = &reviewerID
		l.ReviewedAt = &now
		l.RejectionReason = &reason
		if req.AdminRemarks != "" {
			remarks := req.AdminRemarks
			l.AdminRemarks = &remarks
		} else {
			l.AdminRemarks = nil
		}

		if err := qtx.UpdateCAS(ctx, l); err != nil {
			return err
		}
		if err := s.enqueueDecisionEvent(ctx, tx, l, "leave.rejected", now); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		return RejectionResponse{}, err
	}

	emailSent := s.notifyDecision(ctx, updated, adminID, req.RejectionReason)

	s.logger.Info("leave request rejected",
		zap.String("request_id", requestID),
		zap.String("reviewed_by", adminID),
		zap.Int("attempt", updated.SubmissionCount),
		zap.Bool("email_sent", emailSent),
	)
	return RejectionResponse{
		Request:   mapToResponse(*updated),
		EmailSent: emailSent,
	}, nil
}

func (s *service) enqueueDecisionEvent(ctx context.Context, tx *gorm.DB, l *LeaveRequest, eventType string, now time.Time) error {
	event := events.LeaveDecidedEvent{
		EventType:       eventType,
		RequestID:       l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		Status:          l.Status,
		LeaveType:       l.LeaveType,
		IsPaid:          l.IsPaid,
		DeductedFrom:    l.DeductedFrom,
		BalanceDeducted: l.BalanceDeducted.String(),
		OccurredAt:      now,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// notifyDecision sends the decision mail after commit. Delivery failure is
// reported through the returned flag, never as a request error.
func (s *service) notifyDecision(ctx context.Context, l *LeaveRequest, adminID, rejectionReason string) bool {
	emp, err := s.employees.FindByID(ctx, l.EmployeeID.String())
	if err != nil {
		s.logger.Warn("load employee for decision mail failed",
			zap.String("employee_id", l.EmployeeID.String()),
			zap.Error(err),
		)
		return false
	}

	adminName := "HR Team"
	if admin, err := s.employees.FindByID(ctx, adminID); err == nil {
		adminName = admin.FullName
	}

	data := notifications.DecisionContext{
		EmployeeName: emp.FullName,
		LeaveType:    l.LeaveType,
		Duration:     l.Duration,
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		Reason:       l.Reason,
		AdminName:    adminName,
	}

	if l.Status == StatusApproved {
		err = s.notifier.LeaveApproved(ctx, emp.Email, data)
	} else {
		err = s.notifier.LeaveRejected(ctx, emp.Email, data, rejectionReason)
	}
	return err == nil
}

func (s *service) Balance(ctx context.Context, employeeID string) (ledger.BalanceSnapshot, error) {
	return s.ledger.Snapshot(ctx, employeeID)
}

func (s *service) Stats(ctx context.Context) (StatsResponse, error) {
	var stats StatsResponse
	var err error

	if stats.Pending, err = s.repo.CountByStatus(ctx, StatusPending); err != nil {
		return StatsResponse{}, err
	}
	if stats.Approved, err = s.repo.CountByStatus(ctx, StatusApproved); err != nil {
		return StatsResponse{}, err
	}
	if stats.Rejected, err = s.repo.CountByStatus(ctx, StatusRejected); err != nil {
		return StatsResponse{}, err
	}
	return stats, nil
}

func (s *service) OnLeaveToday(ctx context.Context) ([]OnLeaveResponse, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	requests, err := s.repo.FindApprovedCovering(ctx, today)
	if err != nil {
		return nil, err
	}
	return mapToOnLeaveResponse(requests), nil
}

func (s *service) Upcoming(ctx context.Context, days int) ([]OnLeaveResponse, error) {
	if days <= 0 || days > 90 {
		days = 30
	}
	from := s.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, days-1)

	requests, err := s.repo.FindApprovedStartingBetween(ctx, from, to, 100)
	if err != nil {
		return nil, err
	}
	return mapToOnLeaveResponse(requests), nil
}

func (s *service) CalendarMonth(ctx context.Context, year, month int) ([]CalendarEntryResponse, error) {
	if year < 2000 || year > 2200 {
		return nil, apperror.InvalidField("year")
	}
	if month < 1 || month > 12 {
		return nil, apperror.InvalidField("month")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	requests, err := s.repo.FindApprovedOverlapping(ctx, from, to)
	if err != nil {
		return nil, err
	}

	names, err := s.employeeIndex(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]CalendarEntryResponse, len(requests))
	for i, l := range requests {
		entry := CalendarEntryResponse{
			RequestID:  l.ID.String(),
			EmployeeID: l.EmployeeID.String(),
			LeaveType:  l.LeaveType,
			LeaveCode:  shortLeaveCode(l.LeaveType),
			Duration:   l.Duration,
			StartDate:  l.StartDate.Format("2006-01-02"),
			EndDate:    l.EndDate.Format("2006-01-02"),
		}
		if emp, ok := names[l.EmployeeID.String()]; ok {
			entry.EmployeeName = emp.FullName
			entry.Department = emp.Department
		}
		entries[i] = entry
	}
	return entries, nil
}

func (s *service) AdminUpdate(ctx context.Context, adminID, requestID string, req AdminEditLeaveRequest) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(adminID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDateRange
	}

	var updated *LeaveRequest
	err = s.db.Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, requestID)
		if err != nil {
			return mapFindError(err)
		}
		if l.Duration == DurationHalfDay && !start.Equal(end) {
			return leaverequesterrors.ErrInvalidDateRange
		}

		// Only the span moves. Type and duration stay fixed so the
		// deduction already recorded against the request stays honest.
		l.StartDate = start
		l.EndDate = end
		if req.AdminRemarks != "" {
			remarks := req.AdminRemarks
			l.AdminRemarks = &remarks
		}

		if err := qtx.UpdateCAS(ctx, l); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request edited by admin",
		zap.String("request_id", requestID),
		zap.String("admin_id", adminID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)
	return mapToResponse(*updated), nil
}

// AdminDelete removes the record and its rejection trail. Any balance
// already deducted stays deducted, matching the calendar's hard delete.
func (s *service) AdminDelete(ctx context.Context, adminID, requestID string) error {
	if _, err := uuid.Parse(adminID); err != nil {
		return leaverequesterrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(requestID); err != nil {
		return leaverequesterrors.ErrInvalidRequestID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if err := qtx.DeleteRejections(ctx, requestID); err != nil {
			return err
		}
		deleted, err := qtx.Delete(ctx, requestID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return leaverequesterrors.ErrRequestNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("leave request deleted by admin",
		zap.String("request_id", requestID),
		zap.String("admin_id", adminID),
	)
	return nil
}

func (s *service) LeaveSummary(ctx context.Context) ([]EmployeeLeaveSummaryResponse, error) {
	counters, err := s.repo.SummaryByEmployee(ctx)
	if err != nil {
		return nil, err
	}
	byEmployee := make(map[string]EmployeeLeaveCounters, len(counters))
	for _, c := range counters {
		byEmployee[c.EmployeeID] = c
	}

	employees, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// Every employee gets a row. No requests filed reads as all zeros.
	summary := make([]EmployeeLeaveSummaryResponse, len(employees))
	for i, emp := range employees {
		c := byEmployee[emp.ID.String()]
		summary[i] = EmployeeLeaveSummaryResponse{
			EmployeeID: emp.ID.String(),
			FullName:   emp.FullName,
			Department: emp.Department,
			Pending:    c.Pending,
			Approved:   c.Approved,
			Rejected:   c.Rejected,
			PaidDays:   c.PaidDays.String(),
			UnpaidDays: c.UnpaidDays.String(),
		}
	}
	return summary, nil
}

func (s *service) DetailedReport(ctx context.Context, employeeID string) (EmployeeReportResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return EmployeeReportResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeReportResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeReportResponse{}, err
	}

	balance, err := s.ledger.Snapshot(ctx, employeeID)
	if err != nil {
		return EmployeeReportResponse{}, err
	}

	requests, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return EmployeeReportResponse{}, err
	}

	return EmployeeReportResponse{
		Employee: ReportEmployee{
			ID:         emp.ID.String(),
			FullName:   emp.FullName,
			Email:      emp.Email,
			Department: emp.Department,
			Role:       emp.Role,
		},
		Balance:  balance,
		Requests: mapToListResponse(requests),
	}, nil
}

func (s *service) employeeIndex(ctx context.Context) (map[string]employee.Employee, error) {
	employees, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		index[emp.ID.String()] = emp
	}
	return index, nil
}

func mapFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaverequesterrors.ErrRequestNotFound
	}
	return err
}
