package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxestay/service-reservations/internal/domain"
	"github.com/luxestay/service-reservations/internal/domain/room"
)

// RoomRequest holds the data needed to create or edit a room.
type RoomRequest struct {
	Number           string `json:"number" binding:"required"`
	Type             string `json:"type" binding:"required"`
	Capacity         int    `json:"capacity" binding:"required"`
	NightlyRateCents int64  `json:"nightly_rate_cents" binding:"required"`
	Description      string `json:"description"`
	Amenities        string `json:"amenities"`
	ImageURL         string `json:"image_url"`
}

// RoomDTO is the response representation of a room.
type RoomDTO struct {
	ID               uuid.UUID `json:"id"`
	Number           string    `json:"number"`
	Type             string    `json:"type"`
	Capacity         int       `json:"capacity"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	Description      string    `json:"description,omitempty"`
	Amenities        string    `json:"amenities,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RoomService is the application service for the room catalog.
type RoomService struct {
	repo   room.RoomRepository
	logger *zap.Logger
}

// NewRoomService creates a new RoomService.
func NewRoomService(repo room.RoomRepository, logger *zap.Logger) *RoomService {
	return &RoomService{repo: repo, logger: logger}
}

// GetRoom retrieves a single room by ID.
func (s *RoomService) GetRoom(ctx context.Context, roomID uuid.UUID) (*RoomDTO, error) {
	rm, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	result := toRoomDTO(rm)
	return &result, nil
}

// ListRooms retrieves rooms matching an optional type and minimum capacity.
func (s *RoomService) ListRooms(ctx context.Context, roomType string, minCapacity int) ([]RoomDTO, error) {
	filter := room.Filter{MinCapacity: minCapacity}
	if roomType != "" {
		t, err := room.ParseRoomType(roomType)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		filter.Type = &t
	}

	rooms, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toRoomDTOs(rooms), nil
}

// CreateRoom adds a new room to the catalog (admin).
func (s *RoomService) CreateRoom(ctx context.Context, req RoomRequest) (*RoomDTO, error) {
	roomType, err := room.ParseRoomType(req.Type)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	rm, err := room.NewRoom(req.Number, roomType, req.Capacity, req.NightlyRateCents,
		req.Description, req.Amenities, req.ImageURL)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, rm); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		zap.String("room_id", rm.ID().String()),
		zap.String("number", rm.Number()),
	)
	result := toRoomDTO(rm)
	return &result, nil
}

// UpdateRoom applies an explicit edit to a room (admin).
func (s *RoomService) UpdateRoom(ctx context.Context, roomID uuid.UUID, req RoomRequest) (*RoomDTO, error) {
	roomType, err := room.ParseRoomType(req.Type)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	rm, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := rm.Update(req.Number, roomType, req.Capacity, req.NightlyRateCents,
		req.Description, req.Amenities, req.ImageURL); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}

	s.logger.Info("room updated", zap.String("room_id", rm.ID().String()))
	result := toRoomDTO(rm)
	return &result, nil
}

// DeleteRoom removes a room (admin). Refused while bookings reference it.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	if err := s.repo.Delete(ctx, roomID); err != nil {
		return err
	}
	s.logger.Info("room deleted", zap.String("room_id", roomID.String()))
	return nil
}

// --- Helpers ---

func toRoomDTO(rm *room.Room) RoomDTO {
	return RoomDTO{
		ID:               rm.ID(),
		Number:           rm.Number(),
		Type:             string(rm.Type()),
		Capacity:         rm.Capacity(),
		NightlyRateCents: rm.NightlyRateCents(),
		Description:      rm.Description(),
		Amenities:        rm.Amenities(),
		ImageURL:         rm.ImageURL(),
		CreatedAt:        rm.CreatedAt(),
		UpdatedAt:        rm.UpdatedAt(),
	}
}

func toRoomDTOs(rooms []*room.Room) []RoomDTO {
	dtos := make([]RoomDTO, len(rooms))
	for i, rm := range rooms {
		dtos[i] = toRoomDTO(rm)
	}
	return dtos
}
