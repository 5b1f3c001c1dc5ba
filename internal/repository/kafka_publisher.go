package repository

import (
	"context"
	"time"

	"TrendCast/internal/domain/models"
	"TrendCast/internal/domain/repository"
	pkgkafka "TrendCast/pkg/kafka"
)

// KafkaForecastPublisher implements ForecastPublisher on top of a Kafka
// producer. One message per forecast point, keyed by symbol so a topic
// partition keeps the horizon in order.
type KafkaForecastPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaForecastPublisher creates a Kafka-backed forecast publisher.
func NewKafkaForecastPublisher(producer *pkgkafka.Producer, topic string) repository.ForecastPublisher {
	return &KafkaForecastPublisher{producer: producer, topic: topic}
}

func (p *KafkaForecastPublisher) PublishForecast(ctx context.Context, symbol string, points []models.ForecastPoint) error {
	if len(points) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(points))
	for i, pt := range points {
		msgs[i] = pkgkafka.Message{
			Key: []byte(symbol),
			Value: map[string]interface{}{
				"symbol":         symbol,
				"day":            pt.Date.Format(time.DateOnly),
				"tree_price":     pt.TreePrice,
				"logistic_price": pt.LogisticPrice,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaForecastPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
