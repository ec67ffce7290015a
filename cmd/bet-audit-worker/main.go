package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gestaobanca/bankroll-tracker-poc/internal/audit/consumer"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/audit/repository"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/shared/config"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/shared/db"
	skafka "github.com/gestaobanca/bankroll-tracker-poc/internal/shared/kafka"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/shared/logger"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("bet-audit-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	repo := repository.NewPostgresRepo(pg)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal("ensure audit schema", zap.Error(err))
		}
	}

	// Um reader por tópico, mesmo consumer group
	recorded := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetRecorded, "bet-audit")
	defer recorded.Close()
	settled := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetSettled, "bet-audit")
	defer settled.Close()

	// Métricas Prometheus do worker
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "audit_messages_consumed_total", Help: "mensagens consumidas por tópico"}, []string{"topic"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "audit_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, errorsBy)

	c := &consumer.Consumer{
		Log:      log,
		Recorded: recorded,
		Settled:  settled,
		Repo:     repo,

		OnConsumed: func(topic string) { consumed.WithLabelValues(topic).Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// metrics/health em porta separada
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health listening", zap.String("addr", ":"+cfg.MetricsPort))

	// Shutdown gracioso via SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("bet-audit-worker started",
		zap.String("topic_recorded", cfg.TopicBetRecorded),
		zap.String("topic_settled", cfg.TopicBetSettled),
	)
	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("consumer stopped with error", zap.Error(err))
	}
	log.Info("bet-audit-worker stopped")
}
