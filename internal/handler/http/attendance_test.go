package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nimbushr/attendance-gate/internal/domain/attendance"
	"github.com/nimbushr/attendance-gate/internal/handler/http/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendanceService struct {
	checkInErr  error
	checkOutErr error
}

func (s *stubAttendanceService) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if s.checkInErr != nil {
		return attendance.CheckInResponse{}, s.checkInErr
	}
	return attendance.CheckInResponse{
		Record: attendance.RecordResponse{
			ID:     "rec-1",
			UserID: "user-1",
			Date:   "2025-03-10",
			Status: string(attendance.StatusPresent),
		},
	}, nil
}

func (s *stubAttendanceService) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if s.checkOutErr != nil {
		return attendance.CheckOutResponse{}, s.checkOutErr
	}
	return attendance.CheckOutResponse{Message: "Checked out successfully"}, nil
}

func (s *stubAttendanceService) GetMyAttendance(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	return attendance.ListRecordsResponse{}, nil
}

func (s *stubAttendanceService) ListAttendance(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	return attendance.ListRecordsResponse{}, nil
}

func TestCheckInHandlerReturnsOK(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/attendance/check-in",
		strings.NewReader(`{"latitude":-6.2,"longitude":106.8,"accuracy":50}`))
	h.CheckIn(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Check-in successful", body.Message)
}

func TestCheckInHandlerDuplicate(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{checkInErr: attendance.ErrAlreadyCheckedIn})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/attendance/check-in",
		strings.NewReader(`{"latitude":-6.2,"longitude":106.8,"accuracy":50}`))
	h.CheckIn(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "CONFLICT", body.Error.Code)
}
