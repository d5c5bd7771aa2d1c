package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
)

// Consumer turns lead.created events into notification rows for the admin
// dashboard. It is the delivery side of the best-effort fan-out.
type Consumer struct {
	Channel       *amqp.Channel
	Notifications entity.NotificationRepository
}

func NewConsumer(ch *amqp.Channel, notifications entity.NotificationRepository) *Consumer {
	return &Consumer{Channel: ch, Notifications: notifications}
}

func (c *Consumer) Start(queueName string) {
	msgs, err := c.Channel.Consume(
		queueName,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("❌ Failed to register lead event consumer: %s", err)
	}

	log.Printf("👂 Lead event consumer waiting on '%s'", queueName)

	for d := range msgs {
		var event LeadCreatedEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			log.Printf("❌ Malformed lead event: %s", err)
			// Malformed payload will never parse; reject without requeue.
			d.Nack(false, false)
			continue
		}

		if err := c.handle(context.Background(), event); err != nil {
			log.Printf("❌ Failed to store notification for lead %d: %s", event.LeadID, err)
			d.Nack(false, false)
			continue
		}

		d.Ack(false)
	}
}

func (c *Consumer) handle(ctx context.Context, event LeadCreatedEvent) error {
	message := fmt.Sprintf("%s (%s) submitted a %s inquiry, score %d/100",
		event.ContactPerson, event.Email, event.InquiryType, event.Score)

	return c.Notifications.Create(ctx, &entity.Notification{
		LeadID:  &event.LeadID,
		Type:    "new_lead",
		Title:   fmt.Sprintf("New lead: %s", event.CompanyName),
		Message: &message,
	})
}
