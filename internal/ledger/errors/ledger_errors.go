package ledgererrors

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
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee balance not found",
		http.StatusNotFound,
	)
	ErrBalanceAlreadyProvisioned = apperror.New(
		apperror.CodeConflict,
		"employee balance already provisioned",
		http.StatusConflict,
	)
	ErrInvalidDeductionDays = apperror.New(
		apperror.CodeInvalidInput,
		"deduction must be half a day or one full day",
		http.StatusBadRequest,
	)
)
