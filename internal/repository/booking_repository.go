package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luxestay/service-reservations/internal/domain"
	"github.com/luxestay/service-reservations/internal/domain/reservation"
)

// BookingModel is the GORM model for the bookings table.
//
// The migrations add a PostgreSQL EXCLUDE constraint over
// (room_id, daterange(check_in, check_out)) for non-canceled rows, so even a
// write that slips past the row lock cannot commit an overlap.
type BookingModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null"`
	RoomID          uuid.UUID `gorm:"type:uuid;index;not null"`
	CheckIn         time.Time `gorm:"type:date;not null"`
	CheckOut        time.Time `gorm:"type:date;not null"`
	Guests          int       `gorm:"not null"`
	TotalPriceCents int64     `gorm:"not null"`
	Status          string    `gorm:"not null;size:20;index"`
	PaymentStatus   string    `gorm:"not null;size:20;default:'unpaid'"`
	ContactEmail    string    `gorm:"size:120"`
	ContactPhone    string    `gorm:"size:32"`
	CancelReason    string    `gorm:"size:500"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByUserID retrieves bookings for a user with pagination.
func (r *GormBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]*reservation.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count user bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find user bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*reservation.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// CountOverlapping counts active bookings overlapping the stay. Advisory
// read; the committed guarantee lives in CreateIfAvailable/UpdateIfAvailable.
func (r *GormBookingRepository) CountOverlapping(ctx context.Context, roomID uuid.UUID, stay reservation.StayPeriod, excludeID *uuid.UUID) (int64, error) {
	return countOverlapping(r.db.WithContext(ctx), roomID, stay, excludeID)
}

// CreateIfAvailable atomically re-checks availability and inserts the booking.
// The room row lock serializes concurrent writers for the same room, closing
// the check-then-act race between the overlap count and the insert.
func (r *GormBookingRepository) CreateIfAvailable(ctx context.Context, bk *reservation.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, bk.RoomID()); err != nil {
			return err
		}

		overlaps, err := countOverlapping(tx, bk.RoomID(), bk.Stay(), nil)
		if err != nil {
			return err
		}
		if overlaps > 0 {
			return domain.NewRoomUnavailableError(
				fmt.Sprintf("room is already booked for %s", bk.Stay()))
		}

		if err := tx.Create(toBookingModel(bk)).Error; err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}
		return nil
	})
	return translateWriteError(err)
}

// UpdateIfAvailable atomically re-checks availability excluding the booking
// itself, then persists the rescheduled booking with optimistic locking.
func (r *GormBookingRepository) UpdateIfAvailable(ctx context.Context, bk *reservation.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, bk.RoomID()); err != nil {
			return err
		}

		excludeID := bk.ID()
		overlaps, err := countOverlapping(tx, bk.RoomID(), bk.Stay(), &excludeID)
		if err != nil {
			return err
		}
		if overlaps > 0 {
			return domain.NewRoomUnavailableError(
				fmt.Sprintf("room is already booked for %s", bk.Stay()))
		}

		return applyBookingUpdate(tx, bk)
	})
	return translateWriteError(err)
}

// Update persists non-stay changes (cancel, payment) with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *reservation.Booking) error {
	err := applyBookingUpdate(r.db.WithContext(ctx), bk)
	return translateWriteError(err)
}

// CountOccupiedRooms counts distinct rooms with an active booking covering the day.
func (r *GormBookingRepository) CountOccupiedRooms(ctx context.Context, day time.Time) (int64, error) {
	date := reservation.DateOf(day)
	var count int64
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("status <> ? AND check_in <= ? AND check_out > ?", string(reservation.StatusCanceled), date, date).
		Distinct("room_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count occupied rooms: %w", err)
	}
	return count, nil
}

// RevenueSince sums non-canceled booking prices created on or after since.
func (r *GormBookingRepository) RevenueSince(ctx context.Context, since time.Time) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("sum(total_price_cents)").
		Where("status <> ? AND created_at >= ?", string(reservation.StatusCanceled), since).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// CountCreatedSince counts bookings created on or after since.
func (r *GormBookingRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count recent bookings: %w", err)
	}
	return count, nil
}

// --- Internals ---

// lockRoom takes a FOR UPDATE lock on the room row, serializing all booking
// writers for that room until the surrounding transaction commits.
func lockRoom(tx *gorm.DB, roomID uuid.UUID) error {
	var locked RoomModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", roomID).
		First(&locked).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewNotFoundError("Room", roomID.String())
		}
		return fmt.Errorf("failed to lock room: %w", err)
	}
	return nil
}

// countOverlapping applies the half-open overlap rule: [a,b) and [c,d)
// conflict iff a < d && c < b. Touching boundaries do not overlap, so
// back-to-back stays are allowed.
func countOverlapping(tx *gorm.DB, roomID uuid.UUID, stay reservation.StayPeriod, excludeID *uuid.UUID) (int64, error) {
	query := tx.Model(&BookingModel{}).
		Where("room_id = ? AND status <> ?", roomID, string(reservation.StatusCanceled)).
		Where("check_in < ? AND ? < check_out", stay.CheckOut(), stay.CheckIn())
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

// applyBookingUpdate writes the full mutable state of a booking, guarded by
// the optimistic version check (caller bumped the version beforehand).
func applyBookingUpdate(tx *gorm.DB, bk *reservation.Booking) error {
	model := toBookingModel(bk)
	expectedVersion := bk.Version() - 1
	result := tx.Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"check_in":          model.CheckIn,
			"check_out":         model.CheckOut,
			"guests":            model.Guests,
			"total_price_cents": model.TotalPriceCents,
			"status":            model.Status,
			"payment_status":    model.PaymentStatus,
			"cancel_reason":     model.CancelReason,
			"version":           model.Version,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewConcurrentConflictError("booking was modified by another transaction")
	}
	return nil
}

// translateWriteError maps storage-level commit failures onto domain errors.
// An exclusion-constraint violation means another writer committed an
// overlapping range first; a serialization failure is a plain commit race.
// Both are retryable.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01": // exclusion_violation
			return domain.NewConcurrentConflictError("overlapping booking committed concurrently")
		case "40001": // serialization_failure
			return domain.NewConcurrentConflictError("transaction serialization conflict")
		case "23505": // unique_violation
			return domain.NewConflictError("booking already exists")
		}
	}
	return err
}

// --- Conversion Helpers ---

func toBookingModel(bk *reservation.Booking) *BookingModel {
	return &BookingModel{
		ID:              bk.ID(),
		UserID:          bk.UserID(),
		RoomID:          bk.RoomID(),
		CheckIn:         bk.Stay().CheckIn(),
		CheckOut:        bk.Stay().CheckOut(),
		Guests:          bk.Guests(),
		TotalPriceCents: bk.TotalPriceCents(),
		Status:          string(bk.Status()),
		PaymentStatus:   string(bk.PaymentStatus()),
		ContactEmail:    bk.Contact().Email,
		ContactPhone:    bk.Contact().Phone,
		CancelReason:    bk.CancelReason(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*reservation.Booking, error) {
	status, err := reservation.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	stay, err := reservation.NewStayPeriod(m.CheckIn, m.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("corrupt stay range for booking %s: %w", m.ID, err)
	}

	return reservation.Reconstruct(
		m.ID,
		m.UserID,
		m.RoomID,
		stay,
		m.Guests,
		m.TotalPriceCents,
		status,
		reservation.PaymentStatus(m.PaymentStatus),
		reservation.UserContact{Email: m.ContactEmail, Phone: m.ContactPhone},
		m.CancelReason,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel, total int64) ([]*reservation.Booking, int64, error) {
	bookings := make([]*reservation.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}
