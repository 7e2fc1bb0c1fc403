package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type Topics struct {
	Payment    string
	Generation string
}

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
	topics Topics
}

func NewDefaultKafkaPublisher(brokers []string, topics Topics) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
		topics: topics,
	}
}

func (k *DefaultKafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
			Topic: topic,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return k.writer.WriteMessages(ctx, km...)
}

// PublishPayment keys by order number so one order's events stay ordered.
func (k *DefaultKafkaPublisher) PublishPayment(event domain.PaymentEvent) error {
	msg, err := EncodeEvent(event.OutTradeNo, event)
	if err != nil {
		return err
	}
	return k.Publish(k.topics.Payment, msg)
}

func (k *DefaultKafkaPublisher) PublishGeneration(event domain.GenerationEvent) error {
	msg, err := EncodeEvent(event.HistoryID, event)
	if err != nil {
		return err
	}
	return k.Publish(k.topics.Generation, msg)
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

func EncodeEvent(key string, event interface{}) (domain.Message, error) {
	v, err := json.Marshal(event)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{Key: []byte(key), Value: v}, nil
}
