package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadCreatedEvent is the fan-out payload observers receive for each new
// lead. Delivery is best-effort: publish failures never reach the submitter.
type LeadCreatedEvent struct {
	EventID       string `json:"event_id"`
	LeadID        int64  `json:"lead_id"`
	CompanyName   string `json:"company_name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	InquiryType   string `json:"inquiry_type"`
	Score         int    `json:"score"`
}

type Broadcaster interface {
	PublishLeadCreated(ctx context.Context, event LeadCreatedEvent) error
}

type RabbitMQPublisher struct {
	Ch *amqp.Channel
}

func NewPublisher(ch *amqp.Channel) *RabbitMQPublisher {
	return &RabbitMQPublisher{Ch: ch}
}

func (p *RabbitMQPublisher) PublishLeadCreated(ctx context.Context, event LeadCreatedEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize lead event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.EventID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish lead event: %w", err)
	}
	return nil
}

var _ Broadcaster = (*RabbitMQPublisher)(nil)
