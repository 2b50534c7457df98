package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/luxestay/service-reservations/internal/application"
	"github.com/luxestay/service-reservations/internal/domain"
	"github.com/luxestay/service-reservations/internal/platform/auth"
	"github.com/luxestay/service-reservations/internal/platform/middleware"
	"github.com/luxestay/service-reservations/internal/platform/response"
)

// RoomHandler handles HTTP requests for the room catalog.
type RoomHandler struct {
	service *application.RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(service *application.RoomService) *RoomHandler {
	return &RoomHandler{service: service}
}

// RegisterRoutes registers public catalog reads and admin catalog writes.
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	r.GET("/api/v1/rooms", h.ListRooms)
	r.GET("/api/v1/rooms/:id", h.GetRoom)

	admin := r.Group("/api/v1/admin/rooms")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(domain.RoleAdmin))
	{
		admin.POST("", h.CreateRoom)
		admin.PUT("/:id", h.UpdateRoom)
		admin.DELETE("/:id", h.DeleteRoom)
	}
}

// ListRooms handles GET /api/v1/rooms.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	minCapacity, _ := strconv.Atoi(c.DefaultQuery("min_capacity", "0"))
	rooms, err := h.service.ListRooms(c.Request.Context(), c.Query("type"), minCapacity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rooms)
}

// GetRoom handles GET /api/v1/rooms/:id.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	result, err := h.service.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateRoom handles POST /api/v1/admin/rooms.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req application.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateRoom handles PUT /api/v1/admin/rooms/:id.
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	var req application.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateRoom(c.Request.Context(), roomID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteRoom handles DELETE /api/v1/admin/rooms/:id.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	if err := h.service.DeleteRoom(c.Request.Context(), roomID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": roomID})
}
