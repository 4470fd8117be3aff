package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeUserRegistered = "user_registered"
	TypeUserLoggedIn   = "user_logged_in"
	TypeAccountLocked  = "account_locked"
)

type Event struct {
	Type     string    `json:"type"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *KafkaProducer) Publish(ctx context.Context, eventType, username string) error {
	data, err := json.Marshal(Event{Type: eventType, Username: username, At: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("events: marshal failed: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(username),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("events: write failed: %w", err)
	}
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
