package handler

import (
	"net/http"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
)

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required,max=100"`
		Description string `json:"description" validate:"max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	service := &domain.Service{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.store.CreateService(r.Context(), service); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "service created", service)
}

func (h *Handler) GetAllServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.store.GetAllServices(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", services)
}

func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	service := r.Context().Value(ServiceCtx).(*domain.Service)
	h.successResponse(w, r, "", service)
}

func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	service := r.Context().Value(ServiceCtx).(*domain.Service)

	var req struct {
		Name        *string `json:"name" validate:"omitempty,max=100"`
		Description *string `json:"description" validate:"omitempty,max=500"`
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
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}

	if err := h.store.UpdateService(r.Context(), service); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "service updated", service)
}

func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	service := r.Context().Value(ServiceCtx).(*domain.Service)

	if err := h.store.DeleteService(r.Context(), service.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "service deleted", nil)
}
