package notify

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mixenapp/mixen-backend/internal/config"
)

// Routing keys on the notification exchange. A mailer consumer binds
// these and turns events into outbound email.
const (
	RoutingKeyPending  = "mail.profile.pending"
	RoutingKeyApproved = "mail.profile.approved"
	RoutingKeyRejected = "mail.profile.rejected"
)

// EmailEvent is the JSON payload published per notification.
type EmailEvent struct {
	EventID string    `json:"event_id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// Notifier emits account-lifecycle notifications. Callers on the user
// path treat failures as fire-and-forget; the admin bulk path lets them
// abort the batch.
type Notifier interface {
	ProfilePending(email string) error
	ProfileApproved(email string) error
	ProfileRejected(email string, reasons []string) error
}

// AMQPNotifier publishes EmailEvents to a RabbitMQ topic exchange.
type AMQPNotifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	from     string
}

// NewAMQPNotifier dials RabbitMQ and declares the notification exchange.
func NewAMQPNotifier(cfg *config.Config) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		cfg.AMQP.Exchange, // exchange name
		"topic",           // type
		true,              // durable
		false,             // autoDelete
		false,             // internal
		false,             // noWait
		nil,               // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPNotifier{
		conn:     conn,
		channel:  ch,
		exchange: cfg.AMQP.Exchange,
		from:     cfg.Mail.From,
	}, nil
}

func (n *AMQPNotifier) Close() error {
	if err := n.channel.Close(); err != nil {
		return err
	}
	return n.conn.Close()
}

func (n *AMQPNotifier) ProfilePending(email string) error {
	return n.publish(RoutingKeyPending, EmailEvent{
		To:      email,
		Subject: "Your account is under review",
		Body:    "Thank you for submitting your profile. Your account is now pending admin approval.",
	})
}

func (n *AMQPNotifier) ProfileApproved(email string) error {
	return n.publish(RoutingKeyApproved, EmailEvent{
		To:      email,
		Subject: "Your account is approved",
		Body:    "Congratulations! Your account has been approved. You can now access the app.",
	})
}

func (n *AMQPNotifier) ProfileRejected(email string, reasons []string) error {
	return n.publish(RoutingKeyRejected, EmailEvent{
		To:      email,
		Subject: "Your account has been rejected",
		Body: fmt.Sprintf(
			"Sorry, your account has been rejected for the following reason(s):\n\n%s",
			strings.Join(reasons, ", "),
		),
	})
}

func (n *AMQPNotifier) publish(routingKey string, ev EmailEvent) error {
	ev.EventID = uuid.NewString()
	ev.From = n.from
	ev.SentAt = time.Now().UTC()

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return n.channel.Publish(
		n.exchange, // exchange name
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
