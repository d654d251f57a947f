package api

import (
	"net/http"
	"time"

	"github.com/eventmate/booking-service/internal/domain"
	"github.com/eventmate/booking-service/internal/service/enrollment"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service enrollment.EnrollmentUseCase
}

type enrollRequest struct {
	SeatNumber    *int     `json:"seat_number,omitempty"`
	GroupCode     string   `json:"group_code,omitempty"`
	Kind          string   `json:"booking_kind"`
	InvitedEmails []string `json:"invited_emails,omitempty"`
}

type bookingResponse struct {
	ID         int64  `json:"id"`
	EventID    int64  `json:"event_id"`
	AttendeeID int64  `json:"attendee_id"`
	SeatNumber *int   `json:"seat_number,omitempty"`
	Status     string `json:"status"`
	Kind       string `json:"booking_kind"`
	GroupCode  string `json:"group_code,omitempty"`
	TicketCode string `json:"ticket_code"`
	CreatedAt  string `json:"created_at"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		EventID:    b.EventID,
		AttendeeID: b.AttendeeID,
		SeatNumber: b.SeatNumber,
		Status:     string(b.Status),
		Kind:       string(b.Kind),
		GroupCode:  b.GroupCode,
		TicketCode: b.TicketCode,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}

func NewBookingHandler(service enrollment.EnrollmentUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/events/:id/bookings", h.enroll)
	router.GET("/events/:id/bookings", h.listForEvent)
	router.GET("/events/:id/bookings/seats", h.bookedSeats)
	router.GET("/events/:id/enrollment", h.isEnrolled)
	router.GET("/my/bookings", h.listMine)
	router.DELETE("/bookings/:id", h.cancel)
}

func (h *BookingHandler) enroll(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}
	attendeeID, ok := requesterID(c)
	if !ok {
		return
	}

	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.Enroll(c.Request.Context(), enrollment.EnrollInput{
		EventID:       eventID,
		AttendeeID:    attendeeID,
		SeatNumber:    req.SeatNumber,
		GroupCode:     req.GroupCode,
		Kind:          req.Kind,
		InvitedEmails: req.InvitedEmails,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	if _, err := h.service.Cancel(c.Request.Context(), bookingID, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) isEnrolled(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	enrolled, err := h.service.IsEnrolled(c.Request.Context(), eventID, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrolled": enrolled})
}

func (h *BookingHandler) bookedSeats(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	seats, err := h.service.BookedSeats(c.Request.Context(), eventID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seats": seats})
}

func (h *BookingHandler) listForEvent(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	bookings, err := h.service.EventBookings(c.Request.Context(), eventID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) listMine(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	bookings, err := h.service.AttendeeBookings(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}
