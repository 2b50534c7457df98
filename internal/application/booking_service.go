package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxestay/service-reservations/internal/domain"
	"github.com/luxestay/service-reservations/internal/domain/reservation"
	"github.com/luxestay/service-reservations/internal/domain/room"
	"github.com/luxestay/service-reservations/internal/platform/kafka"
)

// EventPublisher is the slice of the Kafka producer the service needs.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	RoomID   uuid.UUID
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	Contact  reservation.UserContact
}

// ModifyBookingRequest holds the replacement stay for an existing booking.
type ModifyBookingRequest struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	RoomID          uuid.UUID `json:"room_id"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	Nights          int       `json:"nights"`
	Guests          int       `json:"guests"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	CancelReason    string    `json:"cancel_reason,omitempty"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CancelResult reports the outcome of a cancellation. AlreadyCanceled is set
// when the booking was canceled before this call; the call is idempotent.
type CancelResult struct {
	Booking         BookingDTO `json:"booking"`
	AlreadyCanceled bool       `json:"already_canceled"`
}

// QuoteDTO is the price preview for a prospective stay.
type QuoteDTO struct {
	RoomID          uuid.UUID `json:"room_id"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	Nights          int       `json:"nights"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Available       bool      `json:"available"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings     int64            `json:"total_bookings"`
	ByStatus          map[string]int64 `json:"by_status"`
	BookingsLast30d   int64            `json:"bookings_last_30d"`
	RevenueCentsLast30d int64          `json:"revenue_cents_last_30d"`
	OccupiedRooms     int64            `json:"occupied_rooms"`
	TotalRooms        int64            `json:"total_rooms"`
	OccupancyRate     float64          `json:"occupancy_rate"`
}

// BookingService orchestrates availability checking, pricing and the booking
// lifecycle. All operations take the acting user explicitly; there is no
// ambient request state.
type BookingService struct {
	bookings reservation.BookingRepository
	rooms    room.RoomRepository
	pricing  reservation.PricingStrategy
	producer EventPublisher
	logger   *zap.Logger

	// now is injectable so past-date rules are testable deterministically.
	now func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings reservation.BookingRepository,
	rooms room.RoomRepository,
	pricing reservation.PricingStrategy,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		rooms:    rooms,
		pricing:  pricing,
		producer: producer,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// IsAvailable reports whether the room is free for the stay. Side-effect
// free and advisory: the committed guarantee is enforced at write time.
func (s *BookingService) IsAvailable(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeBookingID *uuid.UUID) (bool, error) {
	stay, err := s.validatedStay(checkIn, checkOut)
	if err != nil {
		return false, err
	}

	overlaps, err := s.bookings.CountOverlapping(ctx, roomID, stay, excludeBookingID)
	if err != nil {
		return false, err
	}
	return overlaps == 0, nil
}

// Quote computes the price preview for a stay and whether it is available.
func (s *BookingService) Quote(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (*QuoteDTO, error) {
	stay, err := s.validatedStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	rm, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	price, err := s.pricing.Calculate(reservation.PricingParams{
		NightlyRateCents: rm.NightlyRateCents(),
		Stay:             stay,
	})
	if err != nil {
		return nil, err
	}

	overlaps, err := s.bookings.CountOverlapping(ctx, roomID, stay, nil)
	if err != nil {
		return nil, err
	}

	return &QuoteDTO{
		RoomID:          roomID,
		CheckIn:         stay.CheckIn(),
		CheckOut:        stay.CheckOut(),
		Nights:          stay.Nights(),
		TotalPriceCents: price,
		Available:       overlaps == 0,
	}, nil
}

// Search returns rooms matching type/capacity that are free for the stay.
func (s *BookingService) Search(ctx context.Context, roomType string, minGuests int, checkIn, checkOut time.Time) ([]RoomDTO, error) {
	stay, err := s.validatedStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	filter := room.Filter{MinCapacity: minGuests}
	if roomType != "" {
		t, err := room.ParseRoomType(roomType)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		filter.Type = &t
	}

	candidates, err := s.rooms.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	available := make([]RoomDTO, 0, len(candidates))
	for _, rm := range candidates {
		overlaps, err := s.bookings.CountOverlapping(ctx, rm.ID(), stay, nil)
		if err != nil {
			return nil, err
		}
		if overlaps == 0 {
			available = append(available, toRoomDTO(rm))
		}
	}
	return available, nil
}

// CreateBooking validates, prices and persists a new booking, then emits a
// notification event. Bookings are persisted as confirmed: payment settles
// synchronously at booking time; the pending status exists for the
// asynchronous payment path driven by the payment events consumer.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	stay, err := s.validatedStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	rm, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !rm.Fits(req.Guests) {
		return nil, domain.NewCapacityExceededError(req.Guests, rm.Capacity())
	}

	price, err := s.pricing.Calculate(reservation.PricingParams{
		NightlyRateCents: rm.NightlyRateCents(),
		Stay:             stay,
	})
	if err != nil {
		return nil, err
	}

	bk, err := reservation.NewBooking(
		userID,
		rm.ID(),
		stay,
		req.Guests,
		price,
		reservation.StatusConfirmed,
		reservation.PaymentPaid,
		req.Contact,
	)
	if err != nil {
		return nil, err
	}

	// One automatic re-check-and-retry on a commit race before surfacing it.
	if err := s.bookings.CreateIfAvailable(ctx, bk); err != nil {
		if !domain.IsRetryable(err) {
			return nil, err
		}
		s.logger.Warn("booking insert hit a commit race, retrying once",
			zap.String("room_id", rm.ID().String()),
		)
		if err := s.bookings.CreateIfAvailable(ctx, bk); err != nil {
			return nil, err
		}
	}

	s.publishCreated(ctx, bk, rm.Number())

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("room", rm.Number()),
		zap.String("stay", stay.String()),
	)
	result := toBookingDTO(bk)
	return &result, nil
}

// ModifyBooking reschedules a booking after re-validating availability
// (excluding the booking itself) and recomputes the price. All-or-nothing:
// the booking is never left half-updated.
func (s *BookingService) ModifyBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, req ModifyBookingRequest) (*BookingDTO, error) {
	dto, err := s.modifyOnce(ctx, actor, bookingID, req)
	if err != nil && domain.IsRetryable(err) {
		s.logger.Warn("booking modify hit a commit race, retrying once",
			zap.String("booking_id", bookingID.String()),
		)
		dto, err = s.modifyOnce(ctx, actor, bookingID, req)
	}
	return dto, err
}

func (s *BookingService) modifyOnce(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, req ModifyBookingRequest) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOn(bk.UserID()) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	if bk.Status() == reservation.StatusCanceled {
		return nil, domain.NewNotModifiableError("canceled bookings cannot be modified")
	}
	if bk.HasStarted(s.now()) {
		return nil, domain.NewNotModifiableError("bookings with a past or current check-in cannot be modified")
	}

	stay, err := s.validatedStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	rm, err := s.rooms.FindByID(ctx, bk.RoomID())
	if err != nil {
		return nil, err
	}
	if !rm.Fits(req.Guests) {
		return nil, domain.NewCapacityExceededError(req.Guests, rm.Capacity())
	}

	price, err := s.pricing.Calculate(reservation.PricingParams{
		NightlyRateCents: rm.NightlyRateCents(),
		Stay:             stay,
	})
	if err != nil {
		return nil, err
	}

	diff := reservation.StayDiff{
		OldCheckIn:    bk.Stay().CheckIn(),
		OldCheckOut:   bk.Stay().CheckOut(),
		NewCheckIn:    stay.CheckIn(),
		NewCheckOut:   stay.CheckOut(),
		OldGuests:     bk.Guests(),
		NewGuests:     req.Guests,
		OldPriceCents: bk.TotalPriceCents(),
		NewPriceCents: price,
	}

	if err := bk.Reschedule(stay, req.Guests, price); err != nil {
		return nil, err
	}
	bk.IncrementVersion()

	if err := s.bookings.UpdateIfAvailable(ctx, bk); err != nil {
		return nil, err
	}

	s.publishModified(ctx, bk, rm.Number(), diff)

	s.logger.Info("booking modified",
		zap.String("booking_id", bk.ID().String()),
		zap.String("stay", stay.String()),
	)
	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a booking. Canceling an already-canceled booking is
// a no-op reported via AlreadyCanceled, so retries are safe.
func (s *BookingService) CancelBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, reason string) (*CancelResult, error) {
	res, err := s.cancelOnce(ctx, actor, bookingID, reason)
	if err != nil && domain.IsRetryable(err) {
		s.logger.Warn("booking cancel hit a commit race, retrying once",
			zap.String("booking_id", bookingID.String()),
		)
		res, err = s.cancelOnce(ctx, actor, bookingID, reason)
	}
	return res, err
}

func (s *BookingService) cancelOnce(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, reason string) (*CancelResult, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOn(bk.UserID()) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	if bk.Status() == reservation.StatusCanceled {
		return &CancelResult{Booking: toBookingDTO(bk), AlreadyCanceled: true}, nil
	}
	if bk.HasStarted(s.now()) {
		return nil, domain.NewNotCancelableError("bookings with a past or current check-in cannot be canceled")
	}

	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}
	bk.IncrementVersion()

	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishCanceled(ctx, bk)

	s.logger.Info("booking canceled",
		zap.String("booking_id", bk.ID().String()),
	)
	return &CancelResult{Booking: toBookingDTO(bk)}, nil
}

// ConfirmPayment settles a pending booking after the payment service reports
// success. Driven by the payment events consumer.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if bk.Status() == reservation.StatusPending {
		if err := bk.Confirm(); err != nil {
			return nil, err
		}
	}
	bk.MarkPaid()
	bk.IncrementVersion()

	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking, enforcing ownership for non-admins.
func (s *BookingService) GetBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOn(bk.UserID()) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetUserBookings retrieves paginated bookings for a specific user.
func (s *BookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate statistics for the admin dashboard.
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, c := range counts {
		total += c
	}

	now := s.now()
	thirtyDaysAgo := now.AddDate(0, 0, -30)

	recent, err := s.bookings.CountCreatedSince(ctx, thirtyDaysAgo)
	if err != nil {
		return nil, err
	}
	revenue, err := s.bookings.RevenueSince(ctx, thirtyDaysAgo)
	if err != nil {
		return nil, err
	}
	occupied, err := s.bookings.CountOccupiedRooms(ctx, now)
	if err != nil {
		return nil, err
	}

	rooms, err := s.rooms.List(ctx, room.Filter{})
	if err != nil {
		return nil, err
	}
	totalRooms := int64(len(rooms))

	var occupancy float64
	if totalRooms > 0 {
		occupancy = float64(occupied) / float64(totalRooms) * 100
	}

	return &BookingStatsDTO{
		TotalBookings:       total,
		ByStatus:            counts,
		BookingsLast30d:     recent,
		RevenueCentsLast30d: revenue,
		OccupiedRooms:       occupied,
		TotalRooms:          totalRooms,
		OccupancyRate:       occupancy,
	}, nil
}

// --- Helpers ---

// validatedStay builds a StayPeriod and applies the range and past-date rules.
func (s *BookingService) validatedStay(checkIn, checkOut time.Time) (reservation.StayPeriod, error) {
	stay, err := reservation.NewStayPeriod(checkIn, checkOut)
	if err != nil {
		return reservation.StayPeriod{}, err
	}
	if err := stay.ValidateNotPast(s.now()); err != nil {
		return reservation.StayPeriod{}, err
	}
	return stay, nil
}

func toBookingDTO(bk *reservation.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		UserID:          bk.UserID(),
		RoomID:          bk.RoomID(),
		CheckIn:         bk.Stay().CheckIn(),
		CheckOut:        bk.Stay().CheckOut(),
		Nights:          bk.Stay().Nights(),
		Guests:          bk.Guests(),
		TotalPriceCents: bk.TotalPriceCents(),
		Status:          string(bk.Status()),
		PaymentStatus:   string(bk.PaymentStatus()),
		CancelReason:    bk.CancelReason(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*reservation.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

// Notification emission is fire-and-forget: a publish failure is logged and
// never fails or rolls back the booking change.

func (s *BookingService) publishCreated(ctx context.Context, bk *reservation.Booking, roomNumber string) {
	evt := reservation.BookingCreatedEvent{
		BookingID:       bk.ID(),
		UserID:          bk.UserID(),
		RoomID:          bk.RoomID(),
		RoomNumber:      roomNumber,
		CheckIn:         bk.Stay().CheckIn(),
		CheckOut:        bk.Stay().CheckOut(),
		Guests:          bk.Guests(),
		TotalPriceCents: bk.TotalPriceCents(),
		Status:          string(bk.Status()),
		Contact:         bk.Contact(),
		OccurredAt:      time.Now().UTC(),
	}
	s.publishEvent(ctx, reservation.TopicBookingEvents, reservation.EventBookingCreated, evt)
}

func (s *BookingService) publishModified(ctx context.Context, bk *reservation.Booking, roomNumber string, diff reservation.StayDiff) {
	evt := reservation.BookingModifiedEvent{
		BookingID:  bk.ID(),
		UserID:     bk.UserID(),
		RoomID:     bk.RoomID(),
		RoomNumber: roomNumber,
		Diff:       diff,
		Contact:    bk.Contact(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, reservation.TopicBookingEvents, reservation.EventBookingModified, evt)
}

func (s *BookingService) publishCanceled(ctx context.Context, bk *reservation.Booking) {
	evt := reservation.BookingCanceledEvent{
		BookingID:  bk.ID(),
		UserID:     bk.UserID(),
		RoomID:     bk.RoomID(),
		CheckIn:    bk.Stay().CheckIn(),
		CheckOut:   bk.Stay().CheckOut(),
		Reason:     bk.CancelReason(),
		Contact:    bk.Contact(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, reservation.TopicBookingEvents, reservation.EventBookingCanceled, evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-reservations", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
