package room

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows room listings by type and minimum capacity.
type Filter struct {
	Type        *RoomType
	MinCapacity int
}

// RoomRepository defines the persistence contract for room aggregates.
type RoomRepository interface {
	// FindByID retrieves a room by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// FindByNumber retrieves a room by its unique room number.
	FindByNumber(ctx context.Context, number string) (*Room, error)

	// List retrieves rooms matching the filter, ordered by room number.
	List(ctx context.Context, filter Filter) ([]*Room, error)

	// Save persists a new room.
	Save(ctx context.Context, room *Room) error

	// Update persists changes to an existing room with optimistic locking.
	Update(ctx context.Context, room *Room) error

	// Delete removes a room. Implementations must refuse the delete while
	// any booking, whatever its status, references the room.
	Delete(ctx context.Context, id uuid.UUID) error
}
