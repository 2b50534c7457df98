package reservation

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics this service produces to and consumes from.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event kinds published on booking.events and consumed from payment.events.
const (
	EventBookingCreated   = "booking.created"
	EventBookingModified  = "booking.modified"
	EventBookingCanceled  = "booking.canceled"
	EventPaymentConfirmed = "payment.confirmed"
)

// StayDiff captures what a modification changed, for notification copy.
type StayDiff struct {
	OldCheckIn    time.Time `json:"old_check_in"`
	OldCheckOut   time.Time `json:"old_check_out"`
	NewCheckIn    time.Time `json:"new_check_in"`
	NewCheckOut   time.Time `json:"new_check_out"`
	OldGuests     int       `json:"old_guests"`
	NewGuests     int       `json:"new_guests"`
	OldPriceCents int64     `json:"old_price_cents"`
	NewPriceCents int64     `json:"new_price_cents"`
}

// BookingCreatedEvent is published after a booking commits.
type BookingCreatedEvent struct {
	BookingID       uuid.UUID   `json:"booking_id"`
	UserID          uuid.UUID   `json:"user_id"`
	RoomID          uuid.UUID   `json:"room_id"`
	RoomNumber      string      `json:"room_number"`
	CheckIn         time.Time   `json:"check_in"`
	CheckOut        time.Time   `json:"check_out"`
	Guests          int         `json:"guests"`
	TotalPriceCents int64       `json:"total_price_cents"`
	Status          string      `json:"status"`
	Contact         UserContact `json:"contact"`
	OccurredAt      time.Time   `json:"occurred_at"`
}

// BookingModifiedEvent is published after a modification commits.
type BookingModifiedEvent struct {
	BookingID  uuid.UUID   `json:"booking_id"`
	UserID     uuid.UUID   `json:"user_id"`
	RoomID     uuid.UUID   `json:"room_id"`
	RoomNumber string      `json:"room_number"`
	Diff       StayDiff    `json:"diff"`
	Contact    UserContact `json:"contact"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// BookingCanceledEvent is published after a cancellation commits.
type BookingCanceledEvent struct {
	BookingID  uuid.UUID   `json:"booking_id"`
	UserID     uuid.UUID   `json:"user_id"`
	RoomID     uuid.UUID   `json:"room_id"`
	CheckIn    time.Time   `json:"check_in"`
	CheckOut   time.Time   `json:"check_out"`
	Reason     string      `json:"reason,omitempty"`
	Contact    UserContact `json:"contact"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// PaymentConfirmedEvent arrives on payment.events when a payment settles.
type PaymentConfirmedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	OccurredAt  time.Time `json:"occurred_at"`
}
