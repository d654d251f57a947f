package api

import (
	"net/http"
	"time"

	"github.com/eventmate/booking-service/internal/domain"
	"github.com/eventmate/booking-service/internal/service/venue"
	"github.com/gin-gonic/gin"
)

type VenueHandler struct {
	service venue.VenueUseCase
}

type reserveVenueRequest struct {
	EventID  int64     `json:"event_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type reservationResponse struct {
	ID       int64  `json:"id"`
	VenueID  int64  `json:"venue_id"`
	EventID  int64  `json:"event_id"`
	BookedBy int64  `json:"booked_by"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
	Status   string `json:"status"`
}

func toReservationResponse(r *domain.VenueReservation) reservationResponse {
	return reservationResponse{
		ID:       r.ID,
		VenueID:  r.VenueID,
		EventID:  r.EventID,
		BookedBy: r.BookedBy,
		StartsAt: r.StartsAt.Format(time.RFC3339),
		EndsAt:   r.EndsAt.Format(time.RFC3339),
		Status:   string(r.Status),
	}
}

func NewVenueHandler(service venue.VenueUseCase) *VenueHandler {
	return &VenueHandler{service: service}
}

func (h *VenueHandler) Register(router *gin.RouterGroup) {
	router.GET("/venues/:id", h.get)
	router.GET("/venues/:id/reservations", h.history)
	router.POST("/venues/:id/reservations", h.reserve)
	router.DELETE("/venue-reservations/:id", h.release)
}

func (h *VenueHandler) reserve(c *gin.Context) {
	venueID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	var req reserveVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.service.Reserve(c.Request.Context(), venue.ReserveInput{
		VenueID:     venueID,
		EventID:     req.EventID,
		RequesterID: userID,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toReservationResponse(reservation))
}

func (h *VenueHandler) release(c *gin.Context) {
	reservationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	if err := h.service.Release(c.Request.Context(), reservationID, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VenueHandler) get(c *gin.Context) {
	venueID, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.service.GetVenue(c.Request.Context(), venueID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VenueHandler) history(c *gin.Context) {
	venueID, ok := pathID(c, "id")
	if !ok {
		return
	}
	reservations, err := h.service.History(c.Request.Context(), venueID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]reservationResponse, 0, len(reservations))
	for i := range reservations {
		out = append(out, toReservationResponse(&reservations[i]))
	}
	c.JSON(http.StatusOK, out)
}
