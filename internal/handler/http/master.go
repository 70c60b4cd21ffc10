package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nimbushr/attendance-gate/internal/domain/geofence"
	"github.com/nimbushr/attendance-gate/internal/domain/leave"
	"github.com/nimbushr/attendance-gate/internal/domain/settings"
	"github.com/nimbushr/attendance-gate/internal/handler/http/response"
	"github.com/nimbushr/attendance-gate/internal/service/master"
)

type MasterHandler interface {
	ListLocations(w http.ResponseWriter, r *http.Request)
	CreateLocation(w http.ResponseWriter, r *http.Request)
	UpdateLocation(w http.ResponseWriter, r *http.Request)
	DeleteLocation(w http.ResponseWriter, r *http.Request)

	ListDeviceRadius(w http.ResponseWriter, r *http.Request)
	UpsertDeviceRadius(w http.ResponseWriter, r *http.Request)

	SetLeaveStatus(w http.ResponseWriter, r *http.Request)
	ListLeaveStatus(w http.ResponseWriter, r *http.Request)

	GetGeoSettings(w http.ResponseWriter, r *http.Request)
	UpdateGeoSettings(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService master.MasterService
}

func NewMasterHandler(masterService master.MasterService) MasterHandler {
	return &masterHandlerImpl{
		masterService: masterService,
	}
}

// ListLocations implements MasterHandler.
func (h *masterHandlerImpl) ListLocations(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// CreateLocation implements MasterHandler.
func (h *masterHandlerImpl) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req geofence.UpsertLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.masterService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Location created", result)
}

// UpdateLocation implements MasterHandler.
func (h *masterHandlerImpl) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req geofence.UpsertLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.masterService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Location updated", result)
}

// DeleteLocation implements MasterHandler.
func (h *masterHandlerImpl) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	if err := h.masterService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Location deleted", nil)
}

// ListDeviceRadius implements MasterHandler.
func (h *masterHandlerImpl) ListDeviceRadius(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListDeviceRadius(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpsertDeviceRadius implements MasterHandler.
func (h *masterHandlerImpl) UpsertDeviceRadius(w http.ResponseWriter, r *http.Request) {
	var req geofence.UpsertDeviceRadiusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.masterService.UpsertDeviceRadius(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Device radius updated", nil)
}

// SetLeaveStatus implements MasterHandler.
func (h *masterHandlerImpl) SetLeaveStatus(w http.ResponseWriter, r *http.Request) {
	var req leave.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.masterService.SetStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave status updated", result)
}

// ListLeaveStatus implements MasterHandler.
func (h *masterHandlerImpl) ListLeaveStatus(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	result, err := h.masterService.ListByDate(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetGeoSettings implements MasterHandler.
func (h *masterHandlerImpl) GetGeoSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.GetGeoSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateGeoSettings implements MasterHandler.
func (h *masterHandlerImpl) UpdateGeoSettings(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateGeoSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.masterService.UpdateGeoSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Geo settings updated", result)
}
