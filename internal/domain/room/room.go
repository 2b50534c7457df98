package room

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/luxestay/service-reservations/internal/domain"
)

// RoomType classifies a bookable unit.
type RoomType string

const (
	TypeStandard RoomType = "standard"
	TypeDeluxe   RoomType = "deluxe"
	TypeSuite    RoomType = "suite"
)

// IsValid returns true if the room type is recognized.
func (t RoomType) IsValid() bool {
	switch t {
	case TypeStandard, TypeDeluxe, TypeSuite:
		return true
	}
	return false
}

// String returns the string representation of the room type.
func (t RoomType) String() string { return string(t) }

// ParseRoomType converts a string to a RoomType, returning an error if invalid.
func ParseRoomType(s string) (RoomType, error) {
	t := RoomType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid room type: %s", s)
	}
	return t, nil
}

// Room is the aggregate root for a bookable hotel room.
type Room struct {
	id               uuid.UUID
	number           string
	roomType         RoomType
	capacity         int
	nightlyRateCents int64
	description      string
	amenities        string
	imageURL         string
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

// NewRoom creates a new Room with validated fields.
func NewRoom(
	number string,
	roomType RoomType,
	capacity int,
	nightlyRateCents int64,
	description, amenities, imageURL string,
) (*Room, error) {
	if number == "" {
		return nil, domain.NewValidationError("room number is required")
	}
	if !roomType.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid room type: %s", roomType))
	}
	if capacity <= 0 {
		return nil, domain.NewValidationError("room capacity must be positive")
	}
	if nightlyRateCents <= 0 {
		return nil, domain.NewValidationError("nightly rate must be positive")
	}

	now := time.Now().UTC()
	return &Room{
		id:               uuid.New(),
		number:           number,
		roomType:         roomType,
		capacity:         capacity,
		nightlyRateCents: nightlyRateCents,
		description:      description,
		amenities:        amenities,
		imageURL:         imageURL,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// Reconstruct rebuilds a Room from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	number string,
	roomType RoomType,
	capacity int,
	nightlyRateCents int64,
	description, amenities, imageURL string,
	version int64,
	createdAt, updatedAt time.Time,
) *Room {
	return &Room{
		id:               id,
		number:           number,
		roomType:         roomType,
		capacity:         capacity,
		nightlyRateCents: nightlyRateCents,
		description:      description,
		amenities:        amenities,
		imageURL:         imageURL,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// --- Getters ---

func (r *Room) ID() uuid.UUID           { return r.id }
func (r *Room) Number() string          { return r.number }
func (r *Room) Type() RoomType          { return r.roomType }
func (r *Room) Capacity() int           { return r.capacity }
func (r *Room) NightlyRateCents() int64 { return r.nightlyRateCents }
func (r *Room) Description() string     { return r.description }
func (r *Room) Amenities() string       { return r.amenities }
func (r *Room) ImageURL() string        { return r.imageURL }
func (r *Room) Version() int64          { return r.version }
func (r *Room) CreatedAt() time.Time    { return r.createdAt }
func (r *Room) UpdatedAt() time.Time    { return r.updatedAt }

// --- Behavior ---

// Fits reports whether the room sleeps the requested number of guests.
func (r *Room) Fits(guests int) bool {
	return guests > 0 && guests <= r.capacity
}

// Update applies an explicit edit to the room's attributes.
func (r *Room) Update(
	number string,
	roomType RoomType,
	capacity int,
	nightlyRateCents int64,
	description, amenities, imageURL string,
) error {
	if number == "" {
		return domain.NewValidationError("room number is required")
	}
	if !roomType.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid room type: %s", roomType))
	}
	if capacity <= 0 {
		return domain.NewValidationError("room capacity must be positive")
	}
	if nightlyRateCents <= 0 {
		return domain.NewValidationError("nightly rate must be positive")
	}

	r.number = number
	r.roomType = roomType
	r.capacity = capacity
	r.nightlyRateCents = nightlyRateCents
	r.description = description
	r.amenities = amenities
	r.imageURL = imageURL
	r.version++
	r.updatedAt = time.Now().UTC()
	return nil
}
