package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/allocator"
	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
	"github.com/petscare-dev/staff-allocator/backend/internal/interval"
)

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LocationID int64     `json:"locationID" validate:"required"`
		ServiceID  int64     `json:"serviceID" validate:"required"`
		StartTime  time.Time `json:"startTime" validate:"required"`
		EndTime    time.Time `json:"endTime" validate:"required"`
		CustomerID *int64    `json:"customerID"`
		Notes      string    `json:"notes" validate:"max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	span, err := interval.New(req.StartTime, req.EndTime)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	assignment, err := h.engine.Assign(r.Context(), allocator.Request{
		LocationID: req.LocationID,
		ServiceID:  req.ServiceID,
		Span:       span,
		CustomerID: req.CustomerID,
		Notes:      req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, allocator.ErrNoAvailableStaff):
			h.errorResponse(w, r, "no staff member is available for the requested slot")
		case errors.Is(err, allocator.ErrAssignmentRaceExhausted):
			h.errorResponse(w, r, "the slot was taken while booking, please retry")
		case errors.Is(err, allocator.ErrConfigurationMissing):
			h.errorResponse(w, r, "the location has no schedule pattern for that day")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "booking created", assignment)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	commitment := r.Context().Value(BookingCtx).(*domain.Commitment)
	h.successResponse(w, r, "", commitment)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	commitment := r.Context().Value(BookingCtx).(*domain.Commitment)

	if commitment.Status.Terminal() {
		h.errorResponse(w, r, "booking is already closed")
		return
	}

	if err := h.store.UpdateCommitmentStatus(r.Context(), commitment, domain.CommitmentCancelled); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "booking cancelled", commitment)
}
