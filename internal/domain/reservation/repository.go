package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
//
// CreateIfAvailable and UpdateIfAvailable carry the double-booking guarantee:
// implementations must run the overlap check and the write as one atomic unit
// serialized per room, so two concurrent writers can never both commit
// overlapping active bookings.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByUserID retrieves bookings belonging to a user with pagination.
	FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// CountOverlapping counts active (non-canceled) bookings for the room
	// whose ranges overlap the stay, excluding excludeID when non-nil.
	// Advisory read: no locks, may race with concurrent writers.
	CountOverlapping(ctx context.Context, roomID uuid.UUID, stay StayPeriod, excludeID *uuid.UUID) (int64, error)

	// CreateIfAvailable atomically re-checks availability and inserts the
	// booking. Returns a room-unavailable error on overlap and a
	// concurrent-conflict error on a commit race.
	CreateIfAvailable(ctx context.Context, booking *Booking) error

	// UpdateIfAvailable atomically re-checks availability (excluding the
	// booking itself) and persists the rescheduled booking with optimistic
	// locking.
	UpdateIfAvailable(ctx context.Context, booking *Booking) error

	// Update persists changes that do not touch the stay (cancellation,
	// payment settlement) with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// CountOccupiedRooms counts distinct rooms with an active booking
	// covering the given day (admin occupancy).
	CountOccupiedRooms(ctx context.Context, day time.Time) (int64, error)

	// RevenueSince sums total prices of non-canceled bookings created on or
	// after the given time (admin dashboard).
	RevenueSince(ctx context.Context, since time.Time) (int64, error)

	// CountCreatedSince counts bookings created on or after the given time.
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
