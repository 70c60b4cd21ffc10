package attendance

import (
	"strings"

	"github.com/nimbushr/attendance-gate/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// DeviceInfo is the client-supplied device descriptor. The fingerprint is an
// opaque identifier used only by the trust heuristic, never for authorization.
type DeviceInfo struct {
	Fingerprint string `json:"fingerprint"`
	DeviceType  string `json:"device_type"` // desktop, mobile, tablet
	UserAgent   string `json:"user_agent,omitempty"`
}

type CheckInRequest struct {
	Latitude          float64     `json:"latitude"`
	Longitude         float64     `json:"longitude"`
	Accuracy          float64     `json:"accuracy"`
	LocationTimestamp *int64      `json:"location_timestamp"` // unix ms of the GPS fix
	LocationID        *string     `json:"location_id"`
	DeviceInfo        *DeviceInfo `json:"device_info"`
	QRCodeUsed        bool        `json:"qr_code_used"`
	QRTimestamp       *int64      `json:"qr_timestamp"` // unix ms the QR code was scanned
	LatenessReason    *string     `json:"lateness_reason"`

	// Filled by the handler from the connection, not the body
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.Accuracy < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy",
			Message: "accuracy must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	Latitude            float64     `json:"latitude"`
	Longitude           float64     `json:"longitude"`
	Accuracy            float64     `json:"accuracy"`
	LocationTimestamp   *int64      `json:"location_timestamp"`
	LocationID          *string     `json:"location_id"`
	DeviceInfo          *DeviceInfo `json:"device_info"`
	QRCodeUsed          bool        `json:"qr_code_used"`
	QRTimestamp         *int64      `json:"qr_timestamp"`
	EarlyCheckoutReason *string     `json:"early_checkout_reason"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.Accuracy < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy",
			Message: "accuracy must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordResponse struct {
	ID                  string   `json:"id"`
	UserID              string   `json:"user_id"`
	UserName            string   `json:"user_name,omitempty"`
	Date                string   `json:"date"`
	CheckInTime         string   `json:"check_in_time"`
	CheckOutTime        *string  `json:"check_out_time,omitempty"`
	CheckInLatitude     *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude    *float64 `json:"check_in_longitude,omitempty"`
	CheckOutLatitude    *float64 `json:"check_out_latitude,omitempty"`
	CheckOutLongitude   *float64 `json:"check_out_longitude,omitempty"`
	CheckInMethod       string   `json:"check_in_method"`
	WorkHours           *float64 `json:"work_hours,omitempty"`
	Status              string   `json:"status"`
	IsRemote            bool     `json:"is_remote"`
	OffPremisesApproved bool     `json:"off_premises_approved"`
	LatenessReason      *string  `json:"lateness_reason,omitempty"`
	EarlyCheckoutReason *string  `json:"early_checkout_reason,omitempty"`
}

type CheckInResponse struct {
	Record               RecordResponse `json:"record"`
	DeviceSharingWarning *string        `json:"deviceSharingWarning,omitempty"`
}

type CheckOutResponse struct {
	Record               RecordResponse `json:"record"`
	Message              string         `json:"message"`
	EarlyCheckoutWarning *string        `json:"earlyCheckoutWarning,omitempty"`
	DeviceSharingWarning *string        `json:"deviceSharingWarning,omitempty"`
}

type RecordFilter struct {
	// Search & Filter
	UserID    *string `json:"user_id,omitempty"`
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	// Status validation
	if f.Status != nil {
		validStatuses := []string{StatusPresent, StatusLate}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: present, late",
			})
		}
	}

	// Date validation
	for _, d := range []struct {
		field string
		value *string
	}{
		{"date", f.Date},
		{"start_date", f.StartDate},
		{"end_date", f.EndDate},
	} {
		if d.value != nil && *d.value != "" {
			if _, valid := validator.IsValidDate(*d.value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   d.field,
					Message: d.field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	// Sort validation
	if f.SortBy != "" {
		validSortFields := []string{"date", "check_in_time", "check_out_time", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, check_in_time, check_out_time, status",
			})
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}
