package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// TicketEvent is the payload published for every booking state change.
// The notification worker consumes it to render email.
type TicketEvent struct {
	Type       string    `json:"type"`
	TicketCode string    `json:"ticket_code"`
	EventID    int64     `json:"event_id"`
	EventTitle string    `json:"event_title"`
	EventStart time.Time `json:"event_start"`
	Venue      string    `json:"venue"`
	AttendeeID int64     `json:"attendee_id"`
	Email      string    `json:"email"`
	SeatNumber *int      `json:"seat_number,omitempty"`
	GroupCode  string    `json:"group_code,omitempty"`
	Inviter    string    `json:"inviter,omitempty"`
	Status     string    `json:"status"`
}

const (
	EventTypeTicketIssued     = "ticket_issued"
	EventTypeGroupInvite      = "group_invite"
	EventTypeBookingCancelled = "booking_cancelled"
)

type Producer struct {
	brokers []string
	writer  *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
