package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
)

func (h *Handler) CreateStaffMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName   string   `json:"fullName" validate:"required,max=100"`
		Email      string   `json:"email" validate:"required,email"`
		Rating     *float64 `json:"rating" validate:"omitempty,min=0,max=5"`
		ServiceIDs []int64  `json:"serviceIDs"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := &domain.StaffMember{
		FullName:   req.FullName,
		Email:      req.Email,
		Rating:     req.Rating,
		ServiceIDs: req.ServiceIDs,
	}
	if err := h.store.CreateStaffMember(r.Context(), staff); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "staff member created", staff)
}

func (h *Handler) GetAllStaffMembers(w http.ResponseWriter, r *http.Request) {
	staffMembers, err := h.store.GetAllStaffMembers(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", staffMembers)
}

func (h *Handler) GetStaffMember(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)
	h.successResponse(w, r, "", staff)
}

func (h *Handler) UpdateStaffMember(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)

	var req struct {
		FullName   *string  `json:"fullName" validate:"omitempty,max=100"`
		Email      *string  `json:"email" validate:"omitempty,email"`
		Rating     *float64 `json:"rating" validate:"omitempty,min=0,max=5"`
		IsActive   *bool    `json:"isActive"`
		ServiceIDs []int64  `json:"serviceIDs"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.FullName != nil {
		staff.FullName = *req.FullName
	}
	if req.Email != nil {
		staff.Email = *req.Email
	}
	if req.Rating != nil {
		staff.Rating = req.Rating
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}
	if req.ServiceIDs != nil {
		staff.ServiceIDs = req.ServiceIDs
	}

	if err := h.store.UpdateStaffMember(r.Context(), staff); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "staff member updated", staff)
}

func (h *Handler) DeactivateStaffMember(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)

	if err := h.store.DeactivateStaffMember(r.Context(), staff.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "staff member deactivated", nil)
}

func (h *Handler) GetStaffWorkload(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)

	day, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		h.errorResponse(w, r, "invalid date, expected YYYY-MM-DD")
		return
	}

	minutes, err := h.engine.WorkloadMinutes(r.Context(), staff.ID, day)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", map[string]any{
		"staffID":         staff.ID,
		"date":            day.Format("2006-01-02"),
		"workloadMinutes": minutes,
	})
}

func (h *Handler) CreateEmployment(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)

	var req struct {
		LocationID int64   `json:"locationID" validate:"required"`
		StartDate  string  `json:"startDate" validate:"required"`
		EndDate    *string `json:"endDate"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "invalid start date, expected YYYY-MM-DD")
		return
	}

	employment := &domain.Employment{
		StaffID:    staff.ID,
		LocationID: req.LocationID,
		StartDate:  startDate,
	}
	if req.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			h.errorResponse(w, r, "invalid end date, expected YYYY-MM-DD")
			return
		}
		if endDate.Before(startDate) {
			h.errorResponse(w, r, "end date must not precede start date")
			return
		}
		employment.EndDate = &endDate
	}

	if err := h.store.CreateEmployment(r.Context(), employment); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "employment created", employment)
}

func (h *Handler) GetEmployments(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)

	employments, err := h.store.GetEmploymentsByStaff(r.Context(), staff.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", employments)
}

func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)

	var req struct {
		Type      string  `json:"type" validate:"required,oneof=vacation sick_leave day_off"`
		StartDate string  `json:"startDate" validate:"required"`
		EndDate   string  `json:"endDate" validate:"required"`
		StartTime *string `json:"startTime"`
		EndTime   *string `json:"endTime"`
		Reason    string  `json:"reason" validate:"max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "invalid start date, expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.errorResponse(w, r, "invalid end date, expected YYYY-MM-DD")
		return
	}
	if endDate.Before(startDate) {
		h.errorResponse(w, r, "end date must not precede start date")
		return
	}
	if (req.StartTime == nil) != (req.EndTime == nil) {
		h.errorResponse(w, r, "start time and end time must be set together")
		return
	}
	if req.StartTime != nil {
		if _, err := time.Parse("15:04:05", *req.StartTime); err != nil {
			h.errorResponse(w, r, "invalid start time, expected HH:MM:SS")
			return
		}
		if _, err := time.Parse("15:04:05", *req.EndTime); err != nil {
			h.errorResponse(w, r, "invalid end time, expected HH:MM:SS")
			return
		}
	}

	absence := &domain.Absence{
		StaffID:   staff.ID,
		Type:      domain.AbsenceType(req.Type),
		StartDate: startDate,
		EndDate:   endDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	if err := h.store.CreateAbsence(r.Context(), absence); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "absence recorded", absence)
}

func (h *Handler) GetAbsences(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)

	absences, err := h.store.GetAbsencesByStaff(r.Context(), staff.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", absences)
}

func (h *Handler) ApproveAbsence(w http.ResponseWriter, r *http.Request) {
	absenceID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid absence ID")
		return
	}

	if err := h.store.ApproveAbsence(r.Context(), absenceID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "absence not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "absence approved", nil)
}

func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	absenceID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid absence ID")
		return
	}

	if err := h.store.DeleteAbsence(r.Context(), absenceID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "absence deleted", nil)
}
