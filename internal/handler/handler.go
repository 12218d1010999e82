package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/petscare-dev/staff-allocator/backend/internal/allocator"
	"github.com/petscare-dev/staff-allocator/backend/internal/cache"
	"github.com/petscare-dev/staff-allocator/backend/internal/config"
	"github.com/petscare-dev/staff-allocator/backend/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Handler struct {
	validate        *validator.Validate
	config          *config.Config
	store           *cache.Store
	engine          *allocator.Engine
	translator      ut.Translator
	planningChannel *amqp.Channel

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, store *cache.Store, engine *allocator.Engine, planningCh *amqp.Channel) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:        validate,
		config:          cfg,
		store:           store,
		engine:          engine,
		translator:      trans,
		planningChannel: planningCh,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	h.Mux.Route("/bookings", func(r chi.Router) {
		r.Post("/", h.CreateBooking)
		r.Route("/{reference}", func(r chi.Router) {
			r.Use(h.booking)
			r.Get("/", h.GetBooking)
			r.Post("/cancel", h.CancelBooking)
		})
	})

	h.Mux.Route("/locations", func(r chi.Router) {
		r.Post("/", h.CreateLocation)
		r.Get("/", h.GetAllLocations)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.location)
			r.Get("/", h.GetLocation)
			r.Patch("/", h.UpdateLocation)
			r.Route("/pattern", func(r chi.Router) {
				r.Get("/", h.GetLocationPattern)
				r.Put("/", h.ReplaceLocationPattern)
			})
			r.Route("/staffing-requirements", func(r chi.Router) {
				r.Get("/", h.GetStaffingRequirements)
				r.Put("/", h.ReplaceStaffingRequirements)
			})
			r.Get("/available-staff", h.GetAvailableStaff)
			r.Get("/commitments", h.GetLocationCommitments)
			r.Post("/planning-runs", h.EnqueuePlanningRun)
		})
	})

	h.Mux.Route("/services", func(r chi.Router) {
		r.Post("/", h.CreateService)
		r.Get("/", h.GetAllServices)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.service)
			r.Get("/", h.GetService)
			r.Patch("/", h.UpdateService)
			r.Delete("/", h.DeleteService)
		})
	})

	h.Mux.Route("/staff", func(r chi.Router) {
		r.Post("/", h.CreateStaffMember)
		r.Get("/", h.GetAllStaffMembers)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.staffMember)
			r.Get("/", h.GetStaffMember)
			r.Patch("/", h.UpdateStaffMember)
			r.Delete("/", h.DeactivateStaffMember)
			r.Get("/workload", h.GetStaffWorkload)
			r.Route("/employments", func(r chi.Router) {
				r.Post("/", h.CreateEmployment)
				r.Get("/", h.GetEmployments)
			})
			r.Route("/absences", func(r chi.Router) {
				r.Post("/", h.CreateAbsence)
				r.Get("/", h.GetAbsences)
			})
		})
	})

	h.Mux.Route("/absences", func(r chi.Router) {
		r.Post("/{id}/approve", h.ApproveAbsence)
		r.Delete("/{id}", h.DeleteAbsence)
	})
}
