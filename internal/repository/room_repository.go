package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/luxestay/service-reservations/internal/domain"
	"github.com/luxestay/service-reservations/internal/domain/room"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number           string    `gorm:"uniqueIndex;not null;size:10"`
	RoomType         string    `gorm:"not null;size:20;index"`
	Capacity         int       `gorm:"not null"`
	NightlyRateCents int64     `gorm:"not null"`
	Description      string    `gorm:"size:1000"`
	Amenities        string    `gorm:"size:500"`
	ImageURL         string    `gorm:"size:255"`
	Version          int64     `gorm:"not null;default:1"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RoomModel) TableName() string {
	return "rooms"
}

// GormRoomRepository is the GORM-based implementation of RoomRepository.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID retrieves a room by its unique identifier.
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", id.String())
		}
		return nil, fmt.Errorf("failed to find room by ID: %w", err)
	}
	return toDomainRoom(&model)
}

// FindByNumber retrieves a room by its unique room number.
func (r *GormRoomRepository) FindByNumber(ctx context.Context, number string) (*room.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", number)
		}
		return nil, fmt.Errorf("failed to find room by number: %w", err)
	}
	return toDomainRoom(&model)
}

// List retrieves rooms matching the filter, ordered by room number.
func (r *GormRoomRepository) List(ctx context.Context, filter room.Filter) ([]*room.Room, error) {
	query := r.db.WithContext(ctx).Model(&RoomModel{})
	if filter.Type != nil {
		query = query.Where("room_type = ?", string(*filter.Type))
	}
	if filter.MinCapacity > 0 {
		query = query.Where("capacity >= ?", filter.MinCapacity)
	}

	var models []RoomModel
	if err := query.Order("number ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	rooms := make([]*room.Room, len(models))
	for i, m := range models {
		rm, err := toDomainRoom(&m)
		if err != nil {
			return nil, err
		}
		rooms[i] = rm
	}
	return rooms, nil
}

// Save persists a new room.
func (r *GormRoomRepository) Save(ctx context.Context, rm *room.Room) error {
	model := toRoomModel(rm)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(fmt.Sprintf("room number %s already exists", rm.Number()))
		}
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// Update persists changes to an existing room with optimistic locking.
func (r *GormRoomRepository) Update(ctx context.Context, rm *room.Room) error {
	model := toRoomModel(rm)
	expectedVersion := rm.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&RoomModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"number":             model.Number,
			"room_type":          model.RoomType,
			"capacity":           model.Capacity,
			"nightly_rate_cents": model.NightlyRateCents,
			"description":        model.Description,
			"amenities":          model.Amenities,
			"image_url":          model.ImageURL,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.NewConflictError(fmt.Sprintf("room number %s already exists", rm.Number()))
		}
		return fmt.Errorf("failed to update room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConcurrentConflictError("room was modified by another transaction")
	}
	return nil
}

// Delete removes a room, refusing while any booking references it.
func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&BookingModel{}).Where("room_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count room bookings: %w", err)
		}
		if count > 0 {
			return domain.NewConflictError("cannot delete a room with existing bookings")
		}

		result := tx.Where("id = ?", id).Delete(&RoomModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete room: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Room", id.String())
		}
		return nil
	})
}

// --- Conversion Helpers ---

func toRoomModel(rm *room.Room) *RoomModel {
	return &RoomModel{
		ID:               rm.ID(),
		Number:           rm.Number(),
		RoomType:         string(rm.Type()),
		Capacity:         rm.Capacity(),
		NightlyRateCents: rm.NightlyRateCents(),
		Description:      rm.Description(),
		Amenities:        rm.Amenities(),
		ImageURL:         rm.ImageURL(),
		Version:          rm.Version(),
		CreatedAt:        rm.CreatedAt(),
		UpdatedAt:        rm.UpdatedAt(),
	}
}

func toDomainRoom(m *RoomModel) (*room.Room, error) {
	roomType, err := room.ParseRoomType(m.RoomType)
	if err != nil {
		return nil, err
	}
	return room.Reconstruct(
		m.ID,
		m.Number,
		roomType,
		m.Capacity,
		m.NightlyRateCents,
		m.Description,
		m.Amenities,
		m.ImageURL,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

// isUniqueViolation reports a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
