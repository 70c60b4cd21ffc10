package attendance

import (
	"testing"
	"time"

	"github.com/nimbushr/attendance-gate/internal/config"
	"github.com/nimbushr/attendance-gate/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(t *testing.T) TimePolicy {
	t.Helper()
	policy, err := NewTimePolicy(config.PolicyConfig{
		CheckInDeadline:   "15:00",
		CheckOutDeadline:  "18:00",
		LateAfter:         "09:00",
		DefaultEndTime:    "17:00",
		ExemptRoles:       []string{"admin", "manager"},
		ExemptDepartments: []string{"Operational", "Security"},
	})
	require.NoError(t, err)
	return policy
}

// Monday
func monday(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

// Saturday
func saturday(hour, minute int) time.Time {
	return time.Date(2025, 3, 8, hour, minute, 0, 0, time.UTC)
}

func TestNewTimePolicyRejectsBadClock(t *testing.T) {
	_, err := NewTimePolicy(config.PolicyConfig{
		CheckInDeadline:  "25:99",
		CheckOutDeadline: "18:00",
		LateAfter:        "09:00",
		DefaultEndTime:   "17:00",
	})
	assert.Error(t, err)
}

func TestEvaluateCheckIn(t *testing.T) {
	policy := testPolicy(t)
	reason := "traffic jam"

	tests := []struct {
		name       string
		now        time.Time
		role       string
		department string
		reason     *string
		wantLate   bool
		wantErr    error
	}{
		{
			name: "on time",
			now:  monday(8, 30),
		},
		{
			name: "exactly at the lateness boundary is on time",
			now:  monday(9, 0),
		},
		{
			name:    "late without reason",
			now:     monday(9, 15),
			wantErr: attendance.ErrLatenessReasonRequired,
		},
		{
			name:     "late with reason",
			now:      monday(9, 15),
			reason:   &reason,
			wantLate: true,
		},
		{
			name:    "at the deadline",
			now:     monday(15, 0),
			wantErr: attendance.ErrCheckInClosed,
		},
		{
			name:    "after the deadline",
			now:     monday(16, 30),
			wantErr: attendance.ErrCheckInClosed,
		},
		{
			name:       "exempt department after the deadline",
			now:        monday(16, 30),
			department: "Security",
		},
		{
			name:       "exempt department late without reason",
			now:        monday(11, 0),
			department: "Operational",
		},
		{
			name: "manager role after the deadline",
			now:  monday(16, 30),
			role: "manager",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := policy.EvaluateCheckIn(tt.now, tt.role, tt.department, tt.reason)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLate, verdict.Late)
		})
	}
}

func TestEvaluateCheckOut(t *testing.T) {
	policy := testPolicy(t)
	reason := "doctor appointment"
	shortDay := "16:00"

	tests := []struct {
		name           string
		now            time.Time
		role           string
		department     string
		deadlineExempt bool
		endTime        *string
		reason         *string
		wantEarly      bool
		wantErr        error
	}{
		{
			name: "normal end of day",
			now:  monday(17, 10),
		},
		{
			name:    "early without reason",
			now:     monday(16, 0),
			wantErr: attendance.ErrEarlyCheckoutReasonRequired,
		},
		{
			name:      "early with reason",
			now:       monday(16, 0),
			reason:    &reason,
			wantEarly: true,
		},
		{
			name:      "weekend early needs no reason",
			now:       saturday(14, 0),
			wantEarly: true,
		},
		{
			name:    "at the closing deadline",
			now:     monday(18, 0),
			wantErr: attendance.ErrCheckOutClosed,
		},
		{
			name:           "after the deadline with exemption",
			now:            monday(19, 30),
			deadlineExempt: true,
		},
		{
			name:    "location end time shortens the day",
			now:     monday(16, 30),
			endTime: &shortDay,
		},
		{
			name:       "exempt department after the deadline",
			now:        monday(20, 0),
			department: "Security",
		},
		{
			name: "admin role early without reason",
			now:  monday(15, 0),
			role: "admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := policy.EvaluateCheckOut(tt.now, tt.role, tt.department, tt.deadlineExempt, tt.endTime, tt.reason)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEarly, verdict.Early)
		})
	}
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 8.75, roundHours(8*time.Hour+45*time.Minute))
	assert.Equal(t, 0.0, roundHours(-2*time.Hour))
	assert.Equal(t, 8.01, roundHours(8*time.Hour+30*time.Second))
}
