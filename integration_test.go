//go:build integration

package main_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxestay/service-reservations/internal/application"
	"github.com/luxestay/service-reservations/internal/domain"
	"github.com/luxestay/service-reservations/internal/domain/reservation"
)

// TestPaymentConfirmed_SettlesBooking verifies that when a PaymentConfirmedEvent
// is published to payment.events, the reservations service picks it up and
// transitions the pending booking to "confirmed" with payment settled.
func TestPaymentConfirmed_SettlesBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupReservationStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	// Seed a pending, unpaid booking.
	bookingID := uuid.New()
	userID := uuid.New()
	roomID := seedRoom(t, infra.DB, "101", 2, 10000)
	checkIn := time.Now().UTC().AddDate(0, 0, 10).Truncate(24 * time.Hour)
	seedPendingBooking(t, infra.DB, bookingID, userID, roomID, checkIn, checkIn.AddDate(0, 0, 2))

	// Start the consumer.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	// Publish PaymentConfirmedEvent.
	evt := reservation.PaymentConfirmedEvent{
		PaymentID:   uuid.New(),
		BookingID:   bookingID,
		AmountCents: 20000,
		OccurredAt:  time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, reservation.TopicPaymentEvents,
		"service-payments", reservation.EventPaymentConfirmed, evt)

	// Assert: booking transitions to "confirmed" and settles.
	model := waitForBookingStatus(t, infra.DB, bookingID, "confirmed", 15*time.Second)
	assert.Equal(t, "paid", model.PaymentStatus)
	assert.Greater(t, model.Version, int64(1), "settlement bumps the version")
}

// TestCreateBooking_PublishesCreatedEvent verifies the full write path: the
// booking commits to Postgres and a booking.created CloudEvent lands on
// booking.events with the guest's contact details for the notifier.
func TestCreateBooking_PublishesCreatedEvent(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupReservationStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	roomID := seedRoom(t, infra.DB, "205", 2, 12500)
	userID := uuid.New()
	checkIn := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)

	dto, err := stack.Service.CreateBooking(context.Background(), userID, application.CreateBookingRequest{
		RoomID:   roomID,
		CheckIn:  checkIn,
		CheckOut: checkIn.AddDate(0, 0, 3),
		Guests:   2,
		Contact:  reservation.UserContact{Email: "guest@example.com", Phone: "+60123456789"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(37500), dto.TotalPriceCents, "3 nights at 12500")

	ce := consumeOneEvent(t, infra.KafkaBrokers, reservation.TopicBookingEvents,
		reservation.EventBookingCreated, 15*time.Second)

	var created reservation.BookingCreatedEvent
	require.NoError(t, ce.ParseData(&created))
	assert.Equal(t, dto.ID, created.BookingID)
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, "205", created.RoomNumber)
	assert.Equal(t, int64(37500), created.TotalPriceCents)
	assert.Equal(t, "guest@example.com", created.Contact.Email)
}

// TestConcurrentCreates_ExactlyOneCommits drives racing writers at the same
// room and date range through the real row-lock path and asserts exactly one
// booking commits.
func TestConcurrentCreates_ExactlyOneCommits(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupReservationStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	roomID := seedRoom(t, infra.DB, "309", 2, 10000)
	checkIn := time.Now().UTC().AddDate(0, 0, 14).Truncate(24 * time.Hour)

	const writers = 6
	results := make(chan error, writers)
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < writers; i++ {
		go func() {
			start.Wait()
			_, err := stack.Service.CreateBooking(context.Background(), uuid.New(), application.CreateBookingRequest{
				RoomID:   roomID,
				CheckIn:  checkIn,
				CheckOut: checkIn.AddDate(0, 0, 2),
				Guests:   1,
			})
			results <- err
		}()
	}
	start.Done()

	var succeeded int
	for i := 0; i < writers; i++ {
		err := <-results
		if err == nil {
			succeeded++
			continue
		}
		require.Truef(t,
			domain.IsCode(err, domain.CodeRoomUnavailable) || domain.IsCode(err, domain.CodeConcurrentConflict),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	// The back-to-back range right after is still free.
	_, err := stack.Service.CreateBooking(context.Background(), uuid.New(), application.CreateBookingRequest{
		RoomID:   roomID,
		CheckIn:  checkIn.AddDate(0, 0, 2),
		CheckOut: checkIn.AddDate(0, 0, 4),
		Guests:   1,
	})
	require.NoError(t, err)
}
