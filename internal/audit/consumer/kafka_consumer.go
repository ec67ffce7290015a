package consumer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/gestaobanca/bankroll-tracker-poc/internal/audit/repository"
	"github.com/gestaobanca/bankroll-tracker-poc/pkg/contracts/events"
)

// Consumer consome os eventos do livro (registro e liquidação) e grava a
// trilha de auditoria no Postgres. Callbacks de métricas podem ser usadas
// para monitoramento de cada etapa.
type Consumer struct {
	Log      *zap.Logger
	Recorded *kafka.Reader
	Settled  *kafka.Reader
	Repo     *repository.PostgresRepo

	OnConsumed func(topic string) // métricas (counter++)
	OnError    func(stage string) // métricas por fase
}

// Run consome os dois tópicos em paralelo até o contexto ser cancelado.
func (c *Consumer) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.loop(ctx, c.Recorded, c.handleRecorded)
	}()
	go func() {
		defer wg.Done()
		c.loop(ctx, c.Settled, c.handleSettled)
	}()
	wg.Wait()
	return ctx.Err()
}

// loop é o ciclo de consumo de um tópico: lê, decodifica via handler, repete.
// Falha de leitura espera meio segundo antes de tentar de novo.
func (c *Consumer) loop(ctx context.Context, r *kafka.Reader, handle func(ctx context.Context, m kafka.Message) error) {
	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.Log.Warn("kafka read failed", zap.Error(err))
			if c.OnError != nil {
				c.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if c.OnConsumed != nil {
			c.OnConsumed(m.Topic)
		}

		if err := handle(ctx, m); err != nil {
			c.Log.Warn("audit insert failed", zap.Error(err), zap.String("topic", m.Topic))
			if c.OnError != nil {
				c.OnError("db_insert")
			}
		}
	}
}

func (c *Consumer) handleRecorded(ctx context.Context, m kafka.Message) error {
	var ev events.BetRecorded
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		c.Log.Warn("invalid bet_recorded message", zap.Error(err))
		if c.OnError != nil {
			c.OnError("decode")
		}
		return nil // mensagem inválida não é reprocessável; segue adiante
	}
	return c.Repo.InsertRecorded(ctx, ev)
}

func (c *Consumer) handleSettled(ctx context.Context, m kafka.Message) error {
	var ev events.BetSettled
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		c.Log.Warn("invalid bet_settled message", zap.Error(err))
		if c.OnError != nil {
			c.OnError("decode")
		}
		return nil
	}
	return c.Repo.InsertSettled(ctx, ev)
}
