package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EnqueuePlanningRun queues a batch of assignment requests for the planner
// worker. The response only acknowledges the enqueue; results land in the
// commitments table once the worker has run.
func (h *Handler) EnqueuePlanningRun(w http.ResponseWriter, r *http.Request) {
	location := r.Context().Value(LocationCtx).(*domain.Location)

	var req struct {
		Requests []struct {
			ServiceID  int64     `json:"serviceID" validate:"required"`
			StartTime  time.Time `json:"startTime" validate:"required"`
			EndTime    time.Time `json:"endTime" validate:"required"`
			CustomerID *int64    `json:"customerID"`
			Notes      string    `json:"notes" validate:"max=500"`
		} `json:"requests" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	job := domain.PlanningJob{
		LocationID: location.ID,
	}
	for _, pr := range req.Requests {
		if !pr.StartTime.Before(pr.EndTime) {
			h.errorResponse(w, r, "start time must be before end time")
			return
		}
		job.Requests = append(job.Requests, domain.PlanningJobRequest{
			ServiceID:  pr.ServiceID,
			StartTime:  pr.StartTime,
			EndTime:    pr.EndTime,
			CustomerID: pr.CustomerID,
			Notes:      pr.Notes,
		})
	}

	jobData, err := json.Marshal(job)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.planningChannel.PublishWithContext(
		ctx,
		"",
		domain.PlanningJobQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        jobData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "planning run queued", map[string]any{
		"locationID": location.ID,
		"requests":   len(job.Requests),
	})
}
