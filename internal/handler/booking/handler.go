package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/salon-booking/internal/availability"
	"github.com/jwalitptl/salon-booking/internal/model"
	"github.com/jwalitptl/salon-booking/internal/service/booking"
	"github.com/jwalitptl/salon-booking/pkg/httputil"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/services", h.ListServices)
	r.GET("/services/:id", h.GetService)
	r.GET("/business-hours", h.GetBusinessHours)

	avail := r.Group("/availability")
	{
		avail.GET("/:date", h.GetDateAvailability)
		avail.GET("/:date/slots", h.GetSlots)
	}

	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
	}
}

func (h *Handler) ListServices(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.service.ListServices())
}

func (h *Handler) GetService(c *gin.Context) {
	svc, err := h.service.GetService(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, svc)
}

func (h *Handler) GetBusinessHours(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.service.BusinessHours())
}

type dateAvailabilityResponse struct {
	Date      model.Date `json:"date"`
	Available bool       `json:"available"`
}

func (h *Handler) GetDateAvailability(c *gin.Context) {
	date, ok := parseDate(c)
	if !ok {
		return
	}
	httputil.RespondWithSuccess(c, dateAvailabilityResponse{
		Date:      date,
		Available: h.service.IsDateAvailable(date),
	})
}

type slotsResponse struct {
	Date      model.Date     `json:"date"`
	ServiceID string         `json:"service_id"`
	State     model.DayState `json:"state"`
	Slots     []model.Slot   `json:"slots"`
}

func (h *Handler) GetSlots(c *gin.Context) {
	date, ok := parseDate(c)
	if !ok {
		return
	}
	serviceID := c.Query("service_id")
	if serviceID == "" {
		httputil.RespondWithBadRequest(c, "service_id is required")
		return
	}

	slots, err := h.service.GetAvailableSlots(c.Request.Context(), date, serviceID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, slotsResponse{
		Date:      date,
		ServiceID: serviceID,
		State:     availability.DayState(slots),
		Slots:     slots,
	})
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, "invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithStatus(c, http.StatusCreated, b)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid booking ID")
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, b)
}

func parseDate(c *gin.Context) (model.Date, bool) {
	date, err := model.ParseDate(c.Param("date"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "date must be formatted YYYY-MM-DD")
		return model.Date{}, false
	}
	return date, true
}
