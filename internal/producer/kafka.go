package producer

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/rusthp/voxelpromo-sub005/internal/model"
)

// OfferProducer publishes freshly collected offers to the bus consumed by
// the downstream publishing pipeline.
type OfferProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewOfferProducer(brokers []string, topic string) (*OfferProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	p, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start producer: %w", err)
	}

	return &OfferProducer{producer: p, topic: topic}, nil
}

func (p *OfferProducer) Publish(offer model.Offer) error {
	data, err := json.Marshal(offer)
	if err != nil {
		return fmt.Errorf("failed to marshal offer: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(offer.Source),
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to write offer to kafka: %w", err)
	}
	return nil
}

func (p *OfferProducer) Close() error {
	return p.producer.Close()
}
