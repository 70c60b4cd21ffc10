package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nimbushr/attendance-gate/internal/domain/audit"
	"github.com/nimbushr/attendance-gate/internal/handler/http/response"
)

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.LogService
}

func NewAuditHandler(auditService audit.LogService) AuditHandler {
	return &auditHandlerImpl{
		auditService: auditService,
	}
}

type auditEntryResponse struct {
	ID        string                 `json:"id"`
	Action    string                 `json:"action"`
	ActorID   *string                `json:"actor_id,omitempty"`
	RecordID  *string                `json:"record_id,omitempty"`
	OldValues map[string]interface{} `json:"old_values,omitempty"`
	NewValues map[string]interface{} `json:"new_values,omitempty"`
	IPAddress *string                `json:"ip_address,omitempty"`
	UserAgent *string                `json:"user_agent,omitempty"`
	CreatedAt string                 `json:"created_at"`
}

// List implements AuditHandler.
func (h *auditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := audit.LogFilter{}
	if v := q.Get("action"); v != "" {
		filter.Action = &v
	}
	if v := q.Get("actor_id"); v != "" {
		filter.ActorID = &v
	}
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			filter.Page = page
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}

	entries, total, err := h.auditService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, auditEntryResponse{
			ID:        e.ID,
			Action:    string(e.Action),
			ActorID:   e.ActorID,
			RecordID:  e.RecordID,
			OldValues: e.OldValues,
			NewValues: e.NewValues,
			IPAddress: e.IPAddress,
			UserAgent: e.UserAgent,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}

	response.SuccessWithMeta(w, responses, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
	})
}
