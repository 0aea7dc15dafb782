package leaverequest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leavedesk/internal/leaverequest"
	leaverequesterrors "leavedesk/internal/leaverequest/errors"
	"leavedesk/internal/ledger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveRequestService struct {
	submitFn           func(ctx context.Context, employeeID string, req leaverequest.SubmitLeaveRequest) (leaverequest.LeaveRequestResponse, error)
	resubmitFn         func(ctx context.Context, employeeID, requestID string, req leaverequest.ResubmitLeaveRequest) (leaverequest.LeaveRequestResponse, error)
	cancelFn           func(ctx context.Context, employeeID, requestID string) (leaverequest.LeaveRequestResponse, error)
	listMineFn         func(ctx context.Context, employeeID string) ([]leaverequest.LeaveRequestResponse, error)
	listAllFn          func(ctx context.Context, status string) ([]leaverequest.LeaveRequestResponse, error)
	getByIDFn          func(ctx context.Context, actorID, role, requestID string) (leaverequest.LeaveRequestResponse, error)
	rejectionHistoryFn func(ctx context.Context, actorID, role, requestID string) ([]leaverequest.RejectionHistoryResponse, error)
	approveFn          func(ctx context.Context, adminID, requestID string, req leaverequest.ApproveLeaveRequest) (leaverequest.ApprovalResponse, error)
	rejectFn           func(ctx context.Context, adminID, requestID string, req leaverequest.RejectLeaveRequest) (leaverequest.RejectionResponse, error)
	balanceFn          func(ctx context.Context, employeeID string) (ledger.BalanceSnapshot, error)
	statsFn            func(ctx context.Context) (leaverequest.StatsResponse, error)
	onLeaveTodayFn     func(ctx context.Context) ([]leaverequest.OnLeaveResponse, error)
	upcomingFn         func(ctx context.Context, days int) ([]leaverequest.OnLeaveResponse, error)
	calendarMonthFn    func(ctx context.Context, year, month int) ([]leaverequest.CalendarEntryResponse, error)
	adminUpdateFn      func(ctx context.Context, adminID, requestID string, req leaverequest.AdminEditLeaveRequest) (leaverequest.LeaveRequestResponse, error)
	adminDeleteFn      func(ctx context.Context, adminID, requestID string) error
	leaveSummaryFn     func(ctx context.Context) ([]leaverequest.EmployeeLeaveSummaryResponse, error)
	detailedReportFn   func(ctx context.Context, employeeID string) (leaverequest.EmployeeReportResponse, error)
}

func (f *fakeLeaveRequestService) Submit(ctx context.Context, employeeID string, req leaverequest.SubmitLeaveRequest) (leaverequest.LeaveRequestResponse, error) {
	return f.submitFn(ctx, employeeID, req)
}
func (f *fakeLeaveRequestService) Resubmit(ctx context.Context, employeeID, requestID string, req leaverequest.ResubmitLeaveRequest) (leaverequest.LeaveRequestResponse, error) {
	return f.resubmitFn(ctx, employeeID, requestID, req)
}
func (f *fakeLeaveRequestService) Cancel(ctx context.Context, employeeID, requestID string) (leaverequest.LeaveRequestResponse, error) {
	return f.cancelFn(ctx, employeeID, requestID)
}
func (f *fakeLeaveRequestService) ListMine(ctx context.Context, employeeID string) ([]leaverequest.LeaveRequestResponse, error) {
	return f.listMineFn(ctx, employeeID)
}
func (f *fakeLeaveRequestService) ListAll(ctx context.Context, status string) ([]leaverequest.LeaveRequestResponse, error) {
	return f.listAllFn(ctx, status)
}
func (f *fakeLeaveRequestService) GetByID(ctx context.Context, actorID, role, requestID string) (leaverequest.LeaveRequestResponse, error) {
	return f.getByIDFn(ctx, actorID, role, requestID)
}
func (f *fakeLeaveRequestService) RejectionHistory(ctx context.Context, actorID, role, requestID string) ([]leaverequest.RejectionHistoryResponse, error) {
	return f.rejectionHistoryFn(ctx, actorID, role, requestID)
}
func (f *fakeLeaveRequestService) Approve(ctx context.Context, adminID, requestID string, req leaverequest.ApproveLeaveRequest) (leaverequest.ApprovalResponse, error) {
	return f.approveFn(ctx, adminID, requestID, req)
}
func (f *fakeLeaveRequestService) Reject(ctx context.Context, adminID, requestID string, req leaverequest.RejectLeaveRequest) (leaverequest.RejectionResponse, error) {
	return f.rejectFn(ctx, adminID, requestID, req)
}
func (f *fakeLeaveRequestService) Balance(ctx context.Context, employeeID string) (ledger.BalanceSnapshot, error) {
	return f.balanceFn(ctx, employeeID)
}
func (f *fakeLeaveRequestService) Stats(ctx context.Context) (leaverequest.StatsResponse, error) {
	return f.statsFn(ctx)
}
func (f *fakeLeaveRequestService) OnLeaveToday(ctx context.Context) ([]leaverequest.OnLeaveResponse, error) {
	return f.onLeaveTodayFn(ctx)
}
func (f *fakeLeaveRequestService) Upcoming(ctx context.Context, days int) ([]leaverequest.OnLeaveResponse, error) {
	return f.upcomingFn(ctx, days)
}
func (f *fakeLeaveRequestService) CalendarMonth(ctx context.Context, year, month int) ([]leaverequest.CalendarEntryResponse, error) {
	return f.calendarMonthFn(ctx, year, month)
}
func (f *fakeLeaveRequestService) AdminUpdate(ctx context.Context, adminID, requestID string, req leaverequest.AdminEditLeaveRequest) (leaverequest.LeaveRequestResponse, error) {
	return f.adminUpdateFn(ctx, adminID, requestID, req)
}
func (f *fakeLeaveRequestService) AdminDelete(ctx context.Context, adminID, requestID string) error {
	return f.adminDeleteFn(ctx, adminID, requestID)
}
func (f *fakeLeaveRequestService) LeaveSummary(ctx context.Context) ([]leaverequest.EmployeeLeaveSummaryResponse, error) {
	return f.leaveSummaryFn(ctx)
}
func (f *fakeLeaveRequestService) DetailedReport(ctx context.Context, employeeID string) (leaverequest.EmployeeReportResponse, error) {
	return f.detailedReportFn(ctx, employeeID)
}

func TestLeaveRequestHandler_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()
		svc := &fakeLeaveRequestService{
			submitFn: func(ctx context.Context, employeeID string, req leaverequest.SubmitLeaveRequest) (leaverequest.LeaveRequestResponse, error) {
				assert.Equal(t, actorID, employeeID)
				assert.Equal(t, ledger.TypeSick, req.LeaveType)
				return leaverequest.LeaveRequestResponse{
					ID:           uuid.New().String(),
					EmployeeID:   employeeID,
					LeaveType:    req.LeaveType,
					Status:       leaverequest.StatusPending,
					AttemptsLeft: 2,
				}, nil
			},
		}

		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"Sick Leave","duration":"Full Day","start_date":"2026-03-02","end_date":"2026-03-03","reason":"Fever"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", actorID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leaverequest.LeaveRequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, leaverequest.StatusPending, got.Status)
		assert.Equal(t, 2, got.AttemptsLeft)
	})

	t.Run("negative missing fields", func(t *testing.T) {
		h := leaverequest.NewHandler(&fakeLeaveRequestService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("negative unknown service error collapses to internal", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			submitFn: func(ctx context.Context, employeeID string, req leaverequest.SubmitLeaveRequest) (leaverequest.LeaveRequestResponse, error) {
				return leaverequest.LeaveRequestResponse{}, errors.New("db down")
			},
		}
		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"Sick Leave","duration":"Full Day","start_date":"2026-03-02","end_date":"2026-03-03","reason":"Fever"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", uuid.New().String())

		h.Submit(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestLeaveRequestHandler_Resubmit(t *testing.T) {
	t.Run("limit reached surfaces typed code", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			resubmitFn: func(ctx context.Context, employeeID, requestID string, req leaverequest.ResubmitLeaveRequest) (leaverequest.LeaveRequestResponse, error) {
				return leaverequest.LeaveRequestResponse{}, leaverequesterrors.ErrSubmissionLimitReached
			},
		}
		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"Casual Leave","duration":"Full Day","start_date":"2026-03-02","end_date":"2026-03-02","reason":"Retry"}`
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/abc/resubmit", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}
		c.Set("employee_id", uuid.New().String())

		h.Resubmit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "LIMIT_EXCEEDED", env.Error.Code)
		assert.Equal(t, "Maximum submission limit (3) reached. Please contact HR.", env.Error.Message)
	})
}

func TestLeaveRequestHandler_Approve(t *testing.T) {
	t.Run("success with empty body", func(t *testing.T) {
		adminID := uuid.New().String()
		requestID := uuid.New().String()
		svc := &fakeLeaveRequestService{
			approveFn: func(ctx context.Context, aid, rid string, req leaverequest.ApproveLeaveRequest) (leaverequest.ApprovalResponse, error) {
				assert.Equal(t, adminID, aid)
				assert.Equal(t, requestID, rid)
				return leaverequest.ApprovalResponse{
					Request:   leaverequest.LeaveRequestResponse{ID: rid, Status: leaverequest.StatusApproved},
					EmailSent: true,
				}, nil
			},
		}
		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/admin/leaves/"+requestID+"/approve", nil)
		c.Params = []gin.Param{{Key: "id", Value: requestID}}
		c.Set("employee_id", adminID)

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leaverequest.ApprovalResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, leaverequest.StatusApproved, got.Request.Status)
		assert.True(t, got.EmailSent)
	})

	t.Run("negative concurrent update returns conflict", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			approveFn: func(ctx context.Context, aid, rid string, req leaverequest.ApproveLeaveRequest) (leaverequest.ApprovalResponse, error) {
				return leaverequest.ApprovalResponse{}, leaverequesterrors.ErrConcurrentUpdate
			},
		}
		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/admin/leaves/x/approve", nil)
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}
		c.Set("employee_id", uuid.New().String())

		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

func TestLeaveRequestHandler_Reject(t *testing.T) {
	t.Run("negative missing reason", func(t *testing.T) {
		h := leaverequest.NewHandler(&fakeLeaveRequestService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/admin/leaves/x/reject", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}
		c.Set("employee_id", uuid.New().String())

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		reason := "Team capacity"
		svc := &fakeLeaveRequestService{
			rejectFn: func(ctx context.Context, aid, rid string, req leaverequest.RejectLeaveRequest) (leaverequest.RejectionResponse, error) {
				assert.Equal(t, reason, req.RejectionReason)
				return leaverequest.RejectionResponse{
					Request:   leaverequest.LeaveRequestResponse{ID: rid, Status: leaverequest.StatusRejected},
					EmailSent: true,
				}, nil
			},
		}
		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"rejection_reason":"` + reason + `"}`
		c.Request = httptest.NewRequest(http.MethodPut, "/admin/leaves/x/reject", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}
		c.Set("employee_id", uuid.New().String())

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})
}

func TestLeaveRequestHandler_GetAll(t *testing.T) {
	t.Run("paginates results", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			listAllFn: func(ctx context.Context, status string) ([]leaverequest.LeaveRequestResponse, error) {
				assert.Equal(t, leaverequest.StatusPending, status)
				out := make([]leaverequest.LeaveRequestResponse, 15)
				for i := range out {
					out[i] = leaverequest.LeaveRequestResponse{ID: uuid.New().String(), Status: leaverequest.StatusPending}
				}
				return out, nil
			},
		}
		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/admin/leaves?status=Pending&page=2&page_size=10", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []leaverequest.LeaveRequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 5)
	})
}

func TestLeaveRequestHandler_GetCalendar(t *testing.T) {
	t.Run("success passes year and month through", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			calendarMonthFn: func(ctx context.Context, year, month int) ([]leaverequest.CalendarEntryResponse, error) {
				assert.Equal(t, 2026, year)
				assert.Equal(t, 3, month)
				return []leaverequest.CalendarEntryResponse{
					{EmployeeName: "Dewi Lestari", LeaveCode: "CL"},
				}, nil
			},
		}
		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/admin/leaves/calendar?year=2026&month=3", nil)

		h.GetCalendar(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []leaverequest.CalendarEntryResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 1)
		assert.Equal(t, "CL", got[0].LeaveCode)
	})
}

func TestLeaveRequestHandler_AdminEditDelete(t *testing.T) {
	t.Run("edit success", func(t *testing.T) {
		requestID := uuid.New().String()
		svc := &fakeLeaveRequestService{
			adminUpdateFn: func(ctx context.Context, aid, rid string, req leaverequest.AdminEditLeaveRequest) (leaverequest.LeaveRequestResponse, error) {
				assert.Equal(t, requestID, rid)
				assert.Equal(t, "2026-04-06", req.StartDate)
				return leaverequest.LeaveRequestResponse{ID: rid, StartDate: req.StartDate, EndDate: req.EndDate}, nil
			},
		}
		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"start_date":"2026-04-06","end_date":"2026-04-07"}`
		c.Request = httptest.NewRequest(http.MethodPut, "/admin/leaves/"+requestID, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: requestID}}
		c.Set("employee_id", uuid.New().String())

		h.AdminUpdate(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("edit negative missing dates", func(t *testing.T) {
		h := leaverequest.NewHandler(&fakeLeaveRequestService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/admin/leaves/x", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}
		c.Set("employee_id", uuid.New().String())

		h.AdminUpdate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("delete negative unknown request", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			adminDeleteFn: func(ctx context.Context, aid, rid string) error {
				return leaverequesterrors.ErrRequestNotFound
			},
		}
		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/admin/leaves/x", nil)
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}
		c.Set("employee_id", uuid.New().String())

		h.AdminDelete(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestLeaveRequestHandler_GetBalance(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()
		svc := &fakeLeaveRequestService{
			balanceFn: func(ctx context.Context, employeeID string) (ledger.BalanceSnapshot, error) {
				assert.Equal(t, actorID, employeeID)
				return ledger.BalanceSnapshot{CurrentMonth: "2026-03"}, nil
			},
		}
		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/balance", nil)
		c.Set("employee_id", actorID)

		h.GetBalance(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})
}
