package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/gestaobanca/bankroll-tracker-poc/pkg/contracts/events"
)

// KafkaPublisher emite os eventos de auditoria do livro, um writer por tópico.
type KafkaPublisher struct {
	Recorded *kafka.Writer
	Settled  *kafka.Writer
}

func NewKafkaPublisher(recorded, settled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Recorded: recorded, Settled: settled}
}

func (p *KafkaPublisher) PublishBetRecorded(ctx context.Context, e events.BetRecorded) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.Recorded.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}

func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.Settled.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}
