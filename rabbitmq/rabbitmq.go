package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange is the topic exchange all calendar notifications go through.
const Exchange = "calendar"

// Routing keys published by the service.
const (
	EventCreated  = "event.created"
	EventUpdated  = "event.updated"
	EventDeleted  = "event.deleted"
	EventUpcoming = "event.upcoming"
)

type Producer struct {
	// Rabbitmq DSN
	connStr string

	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewProducer(connStr string) *Producer {
	return &Producer{
		connStr: connStr,
	}
}

func (p *Producer) Open() (err error) {
	// ensure a DSN is set before attempting to connect.
	if p.connStr == "" {
		return fmt.Errorf("connection string required")
	}

	if p.conn, err = amqp.Dial(p.connStr); err != nil {
		return err
	}

	if p.channel, err = p.conn.Channel(); err != nil {
		return err
	}

	return p.channel.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil)
}

func (p *Producer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// Publish sends data as a JSON message to the calendar exchange under the
// given routing key.
func (p *Producer) Publish(routingKey string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return p.channel.Publish(
		Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        jsonData,
		})
}
