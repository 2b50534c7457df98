package reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/luxestay/service-reservations/internal/domain"
)

// UserContact is the delivery address for booking notifications. The
// notification dispatcher owns the channel choice (email vs SMS).
type UserContact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Booking is the aggregate root for a room reservation. The stay covers the
// half-open range [check-in, check-out); bookings are never deleted, only
// canceled.
type Booking struct {
	id              uuid.UUID
	userID          uuid.UUID
	roomID          uuid.UUID
	stay            StayPeriod
	guests          int
	totalPriceCents int64
	status          BookingStatus
	paymentStatus   PaymentStatus
	contact         UserContact
	cancelReason    string
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

// NewBooking creates a new Booking in the given initial status.
func NewBooking(
	userID, roomID uuid.UUID,
	stay StayPeriod,
	guests int,
	totalPriceCents int64,
	status BookingStatus,
	paymentStatus PaymentStatus,
	contact UserContact,
) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if roomID == uuid.Nil {
		return nil, domain.NewValidationError("room ID is required")
	}
	if guests <= 0 {
		return nil, domain.NewValidationError("guest count must be positive")
	}
	if totalPriceCents <= 0 {
		return nil, domain.NewValidationError("total price must be positive")
	}
	if !status.IsActive() {
		return nil, domain.NewValidationError("a new booking must be pending or confirmed")
	}
	if !paymentStatus.IsValid() {
		return nil, domain.NewValidationError("invalid payment status")
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		userID:          userID,
		roomID:          roomID,
		stay:            stay,
		guests:          guests,
		totalPriceCents: totalPriceCents,
		status:          status,
		paymentStatus:   paymentStatus,
		contact:         contact,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, userID, roomID uuid.UUID,
	stay StayPeriod,
	guests int,
	totalPriceCents int64,
	status BookingStatus,
	paymentStatus PaymentStatus,
	contact UserContact,
	cancelReason string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		userID:          userID,
		roomID:          roomID,
		stay:            stay,
		guests:          guests,
		totalPriceCents: totalPriceCents,
		status:          status,
		paymentStatus:   paymentStatus,
		contact:         contact,
		cancelReason:    cancelReason,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) UserID() uuid.UUID           { return b.userID }
func (b *Booking) RoomID() uuid.UUID           { return b.roomID }
func (b *Booking) Stay() StayPeriod            { return b.stay }
func (b *Booking) Guests() int                 { return b.guests }
func (b *Booking) TotalPriceCents() int64      { return b.totalPriceCents }
func (b *Booking) Status() BookingStatus       { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) Contact() UserContact        { return b.contact }
func (b *Booking) CancelReason() string        { return b.cancelReason }
func (b *Booking) Version() int64              { return b.version }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the booking belongs to the given user.
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

// HasStarted reports whether the stay's check-in is today or in the past,
// at which point the booking can no longer be modified or canceled.
func (b *Booking) HasStarted(today time.Time) bool {
	return b.stay.StartsOnOrBefore(today)
}

// Confirm transitions the booking from pending to confirmed.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// MarkPaid records that payment for the booking has settled.
func (b *Booking) MarkPaid() {
	b.paymentStatus = PaymentPaid
	b.updatedAt = time.Now().UTC()
}

// Reschedule replaces the stay, guest count and derived price in one step.
// Callers must re-validate availability before persisting.
func (b *Booking) Reschedule(stay StayPeriod, guests int, totalPriceCents int64) error {
	if !b.status.IsActive() {
		return domain.NewNotModifiableError("canceled bookings cannot be modified")
	}
	if guests <= 0 {
		return domain.NewValidationError("guest count must be positive")
	}
	if totalPriceCents <= 0 {
		return domain.NewValidationError("total price must be positive")
	}
	b.stay = stay
	b.guests = guests
	b.totalPriceCents = totalPriceCents
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to canceled. Canceled is terminal.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanTransitionTo(StatusCanceled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCanceled))
	}
	b.status = StatusCanceled
	b.cancelReason = reason
	if b.paymentStatus == PaymentPaid {
		b.paymentStatus = PaymentRefunded
	}
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
