package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/luxestay/service-reservations/internal/application"
	"github.com/luxestay/service-reservations/internal/domain/reservation"
	"github.com/luxestay/service-reservations/internal/platform/auth"
	"github.com/luxestay/service-reservations/internal/platform/middleware"
	"github.com/luxestay/service-reservations/internal/platform/response"
)

const dateLayout = "2006-01-02"

// BookingHandler handles HTTP requests for search, availability and bookings.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers search, availability and booking routes.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	// Advisory reads: no auth required, mirrors the public search page.
	r.GET("/api/v1/search", h.Search)
	r.GET("/api/v1/rooms/:id/availability", h.CheckAvailability)
	r.GET("/api/v1/rooms/:id/quote", h.Quote)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.ModifyBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}
}

// Search handles GET /api/v1/search.
func (h *BookingHandler) Search(c *gin.Context) {
	checkIn, checkOut, ok := parseStayQuery(c)
	if !ok {
		return
	}

	guests, _ := strconv.Atoi(c.DefaultQuery("guests", "1"))
	roomType := c.Query("type")

	rooms, err := h.service.Search(c.Request.Context(), roomType, guests, checkIn, checkOut)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rooms)
}

// CheckAvailability handles GET /api/v1/rooms/:id/availability.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	checkIn, checkOut, ok := parseStayQuery(c)
	if !ok {
		return
	}

	available, err := h.service.IsAvailable(c.Request.Context(), roomID, checkIn, checkOut, nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"room_id": roomID, "available": available})
}

// Quote handles GET /api/v1/rooms/:id/quote.
func (h *BookingHandler) Quote(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	checkIn, checkOut, ok := parseStayQuery(c)
	if !ok {
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), roomID, checkIn, checkOut)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, quote)
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		RoomID       string `json:"room_id" binding:"required"`
		CheckIn      string `json:"check_in" binding:"required"`
		CheckOut     string `json:"check_out" binding:"required"`
		Guests       int    `json:"guests" binding:"required"`
		ContactEmail string `json:"contact_email"`
		ContactPhone string `json:"contact_phone"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	roomID, err := uuid.Parse(body.RoomID)
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}
	checkIn, err := time.Parse(dateLayout, body.CheckIn)
	if err != nil {
		response.BadRequest(c, "check_in must be formatted as YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse(dateLayout, body.CheckOut)
	if err != nil {
		response.BadRequest(c, "check_out must be formatted as YYYY-MM-DD")
		return
	}

	contact := reservation.UserContact{Email: body.ContactEmail, Phone: body.ContactPhone}
	if contact.Email == "" {
		if email, ok := middleware.GetUserEmail(c); ok {
			contact.Email = email
		}
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, application.CreateBookingRequest{
		RoomID:   roomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   body.Guests,
		Contact:  contact,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings (the caller's own bookings).
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetUserBookings(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), actor, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ModifyBooking handles PATCH /api/v1/bookings/:id.
func (h *BookingHandler) ModifyBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		CheckIn  string `json:"check_in" binding:"required"`
		CheckOut string `json:"check_out" binding:"required"`
		Guests   int    `json:"guests" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	checkIn, err := time.Parse(dateLayout, body.CheckIn)
	if err != nil {
		response.BadRequest(c, "check_in must be formatted as YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse(dateLayout, body.CheckOut)
	if err != nil {
		response.BadRequest(c, "check_out must be formatted as YYYY-MM-DD")
		return
	}

	result, err := h.service.ModifyBooking(c.Request.Context(), actor, bookingID, application.ModifyBookingRequest{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   body.Guests,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := h.service.CancelBooking(c.Request.Context(), actor, bookingID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// --- Helpers ---

// parseStayQuery reads check_in/check_out query parameters. Writes the error
// response itself when parsing fails.
func parseStayQuery(c *gin.Context) (time.Time, time.Time, bool) {
	checkIn, err := time.Parse(dateLayout, c.Query("check_in"))
	if err != nil {
		response.BadRequest(c, "check_in must be formatted as YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	checkOut, err := time.Parse(dateLayout, c.Query("check_out"))
	if err != nil {
		response.BadRequest(c, "check_out must be formatted as YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return checkIn, checkOut, true
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
