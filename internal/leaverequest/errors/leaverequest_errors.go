package leaverequesterrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be one of: Sick Leave, Casual Leave, Emergency Leave",
		http.StatusBadRequest,
	)
	ErrInvalidDuration = apperror.New(
		apperror.CodeInvalidInput,
		"duration must be Full Day or Half Day",
		http.StatusBadRequest,
	)
	ErrHalfDaySlotRequired = apperror.New(
		apperror.CodeInvalidInput,
		"half_day_slot is required for Half Day requests",
		http.StatusBadRequest,
	)
	ErrHalfDaySlotNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"half_day_slot is only valid for Half Day requests",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting a request",
		http.StatusBadRequest,
	)

	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"leave request belongs to another employee",
		http.StatusForbidden,
	)
	ErrSelfReviewForbidden = apperror.New(
		apperror.CodeForbidden,
		"you cannot review your own leave request",
		http.StatusForbidden,
	)

	ErrOnlyPendingCancellable = apperror.New(
		apperror.CodeInvalidState,
		"only pending requests can be cancelled",
		http.StatusBadRequest,
	)
	ErrOnlyPendingReviewable = apperror.New(
		apperror.CodeInvalidState,
		"only pending requests can be approved or rejected",
		http.StatusBadRequest,
	)
	ErrOnlyRejectedResubmittable = apperror.New(
		apperror.CodeInvalidState,
		"only rejected requests can be resubmitted",
		http.StatusBadRequest,
	)

	ErrSubmissionLimitReached = apperror.New(
		apperror.CodeLimitExceeded,
		"Maximum submission limit (3) reached. Please contact HR.",
		http.StatusBadRequest,
	)

	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"leave request was modified concurrently, please retry",
		http.StatusConflict,
	)
)
