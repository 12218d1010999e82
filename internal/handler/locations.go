package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
)

func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required,max=100"`
		Timezone string `json:"timezone" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		h.errorResponse(w, r, "unknown timezone")
		return
	}

	location := &domain.Location{
		Name:     req.Name,
		Timezone: req.Timezone,
	}
	if err := h.store.CreateLocation(r.Context(), location); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "location created", location)
}

func (h *Handler) GetAllLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.store.GetAllLocations(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", locations)
}

func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	location := r.Context().Value(LocationCtx).(*domain.Location)
	h.successResponse(w, r, "", location)
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	location := r.Context().Value(LocationCtx).(*domain.Location)

	var req struct {
		Name     *string `json:"name" validate:"omitempty,max=100"`
		Timezone *string `json:"timezone"`
		IsActive *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		location.Name = *req.Name
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			h.errorResponse(w, r, "unknown timezone")
			return
		}
		location.Timezone = *req.Timezone
	}
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}

	if err := h.store.UpdateLocation(r.Context(), location); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "location updated", location)
}

func (h *Handler) GetLocationPattern(w http.ResponseWriter, r *http.Request) {
	location := r.Context().Value(LocationCtx).(*domain.Location)

	days, err := h.store.AllPatternDays(r.Context(), location.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", days)
}

func (h *Handler) ReplaceLocationPattern(w http.ResponseWriter, r *http.Request) {
	location := r.Context().Value(LocationCtx).(*domain.Location)

	var req struct {
		Days []struct {
			Weekday   int32  `json:"weekday" validate:"min=0,max=6"`
			StartTime string `json:"startTime" validate:"required"`
			EndTime   string `json:"endTime" validate:"required"`
		} `json:"days" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	days := make([]domain.PatternDay, 0, len(req.Days))
	for _, d := range req.Days {
		start, err := time.Parse("15:04:05", d.StartTime)
		if err != nil {
			h.errorResponse(w, r, "invalid start time, expected HH:MM:SS")
			return
		}
		end, err := time.Parse("15:04:05", d.EndTime)
		if err != nil {
			h.errorResponse(w, r, "invalid end time, expected HH:MM:SS")
			return
		}
		if !start.Before(end) {
			h.errorResponse(w, r, "start time must be before end time")
			return
		}
		days = append(days, domain.PatternDay{
			Weekday:   d.Weekday,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
		})
	}

	if err := h.store.ReplacePatternDays(r.Context(), location.ID, days); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "pattern replaced", days)
}

func (h *Handler) GetStaffingRequirements(w http.ResponseWriter, r *http.Request) {
	location := r.Context().Value(LocationCtx).(*domain.Location)

	requirements, err := h.store.AllStaffingRequirements(r.Context(), location.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", requirements)
}

func (h *Handler) ReplaceStaffingRequirements(w http.ResponseWriter, r *http.Request) {
	location := r.Context().Value(LocationCtx).(*domain.Location)

	var req struct {
		Requirements []struct {
			ServiceID     int64  `json:"serviceID" validate:"required"`
			Weekday       int32  `json:"weekday" validate:"min=0,max=6"`
			StartTime     string `json:"startTime" validate:"required"`
			EndTime       string `json:"endTime" validate:"required"`
			RequiredCount int32  `json:"requiredCount" validate:"min=1"`
			Priority      int32  `json:"priority" validate:"min=0"`
			IsActive      bool   `json:"isActive"`
		} `json:"requirements" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	requirements := make([]domain.StaffingRequirement, 0, len(req.Requirements))
	for _, sr := range req.Requirements {
		requirements = append(requirements, domain.StaffingRequirement{
			ServiceID:     sr.ServiceID,
			Weekday:       sr.Weekday,
			StartTime:     sr.StartTime,
			EndTime:       sr.EndTime,
			RequiredCount: sr.RequiredCount,
			Priority:      sr.Priority,
			IsActive:      sr.IsActive,
		})
	}

	if err := h.store.ReplaceStaffingRequirements(r.Context(), location.ID, requirements); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "staffing requirements replaced", requirements)
}

func (h *Handler) GetAvailableStaff(w http.ResponseWriter, r *http.Request) {
	location := r.Context().Value(LocationCtx).(*domain.Location)

	serviceID, err := strconv.ParseInt(r.URL.Query().Get("serviceID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid service ID")
		return
	}
	day, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		h.errorResponse(w, r, "invalid date, expected YYYY-MM-DD")
		return
	}

	entries, err := h.engine.AvailableStaff(r.Context(), location.ID, serviceID, day)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", entries)
}

func (h *Handler) GetLocationCommitments(w http.ResponseWriter, r *http.Request) {
	location := r.Context().Value(LocationCtx).(*domain.Location)

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		h.errorResponse(w, r, "invalid from, expected RFC 3339")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		h.errorResponse(w, r, "invalid to, expected RFC 3339")
		return
	}
	if !from.Before(to) {
		h.errorResponse(w, r, "from must be before to")
		return
	}

	commitments, err := h.store.GetCommitmentsByLocationAndRange(r.Context(), location.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", commitments)
}
