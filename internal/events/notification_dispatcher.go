package events

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/luxestay/service-reservations/internal/domain/reservation"
	"github.com/luxestay/service-reservations/internal/platform/kafka"
)

// NotificationSink delivers a rendered notification to the guest. Transport
// mechanics (SMTP, SMS gateway) live behind this interface; delivery is
// best-effort and failures are logged, never propagated to bookings.
type NotificationSink interface {
	Send(ctx context.Context, contact reservation.UserContact, subject, body string) error
}

// LogNotificationSink writes notifications to the log. Stand-in transport
// for environments without a mail or SMS provider configured.
type LogNotificationSink struct {
	logger *zap.Logger
}

// NewLogNotificationSink creates a LogNotificationSink.
func NewLogNotificationSink(logger *zap.Logger) *LogNotificationSink {
	return &LogNotificationSink{logger: logger}
}

// Send logs the notification instead of delivering it.
func (s *LogNotificationSink) Send(_ context.Context, contact reservation.UserContact, subject, body string) error {
	s.logger.Info("notification",
		zap.String("email", contact.Email),
		zap.String("phone", contact.Phone),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// NotificationDispatcher consumes booking events and delivers guest
// notifications through the configured sink. It runs outside the booking
// transaction: its latency or failure never affects a booking outcome.
type NotificationDispatcher struct {
	consumer *kafka.Consumer
	sink     NotificationSink
	logger   *zap.Logger
}

// NewNotificationDispatcher creates a NotificationDispatcher.
func NewNotificationDispatcher(
	brokers []string,
	groupID string,
	sink NotificationSink,
	logger *zap.Logger,
) *NotificationDispatcher {
	consumer := kafka.NewConsumer(brokers, groupID, reservation.TopicBookingEvents, logger)
	return &NotificationDispatcher{
		consumer: consumer,
		sink:     sink,
		logger:   logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (d *NotificationDispatcher) Start(ctx context.Context) error {
	return d.consumer.Consume(ctx, d.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (d *NotificationDispatcher) Close() error {
	return d.consumer.Close()
}

func (d *NotificationDispatcher) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		d.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	var (
		contact reservation.UserContact
		subject string
		body    string
	)

	switch cloudEvent.Type {
	case reservation.EventBookingCreated:
		var evt reservation.BookingCreatedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			d.logger.Error("failed to parse BookingCreatedEvent data", zap.Error(err))
			return nil
		}
		contact = evt.Contact
		subject = "Booking Confirmation"
		body = fmt.Sprintf(
			"Your booking is confirmed!\nRoom %s\nCheck-in: %s\nCheck-out: %s\nGuests: %d\nTotal: $%.2f",
			evt.RoomNumber,
			evt.CheckIn.Format("January 2, 2006"),
			evt.CheckOut.Format("January 2, 2006"),
			evt.Guests,
			float64(evt.TotalPriceCents)/100,
		)

	case reservation.EventBookingModified:
		var evt reservation.BookingModifiedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			d.logger.Error("failed to parse BookingModifiedEvent data", zap.Error(err))
			return nil
		}
		contact = evt.Contact
		subject = "Booking Modified"
		body = fmt.Sprintf(
			"Your booking for room %s has been modified.\nNew dates: %s to %s\nNew total: $%.2f",
			evt.RoomNumber,
			evt.Diff.NewCheckIn.Format("January 2, 2006"),
			evt.Diff.NewCheckOut.Format("January 2, 2006"),
			float64(evt.Diff.NewPriceCents)/100,
		)

	case reservation.EventBookingCanceled:
		var evt reservation.BookingCanceledEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			d.logger.Error("failed to parse BookingCanceledEvent data", zap.Error(err))
			return nil
		}
		contact = evt.Contact
		subject = "Booking Canceled"
		body = fmt.Sprintf(
			"Your booking has been canceled.\nDates: %s to %s",
			evt.CheckIn.Format("January 2, 2006"),
			evt.CheckOut.Format("January 2, 2006"),
		)

	default:
		d.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	if contact.Email == "" && contact.Phone == "" {
		d.logger.Info("no contact details on booking event, skipping notification",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	if err := d.sink.Send(ctx, contact, subject, body); err != nil {
		// Best-effort: log for operators, commit the offset anyway.
		d.logger.Error("notification delivery failed",
			zap.String("type", cloudEvent.Type),
			zap.Error(err),
		)
	}
	return nil
}
