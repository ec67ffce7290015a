package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gestaobanca/bankroll-tracker-poc/internal/chat"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/chat/analysis"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/ledger"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/shared/cache"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/shared/config"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/shared/db"
	skafka "github.com/gestaobanca/bankroll-tracker-poc/internal/shared/kafka"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/shared/logger"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/shared/metrics"
	thttp "github.com/gestaobanca/bankroll-tracker-poc/internal/tracker/http"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/tracker/producer"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/tracker/repo"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/tracker/ws"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("tracker-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	// Postgres: persistência estado-inteiro do livro
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	repository := repo.NewPostgres(pg)
	ctx := context.Background()
	if err := repository.EnsureSchema(ctx); err != nil {
		log.Fatal("schema", zap.Error(err))
	}

	// Estado salvo; ausência ou blob corrompido cai nos defaults do produto
	state, err := repository.LoadState(ctx)
	if err != nil {
		log.Warn("no saved state; using defaults", zap.Error(err))
		state = ledger.DefaultState()
	}

	// Kafka writers (tópicos bet_recorded / bet_settled); publicação é
	// fire-and-forget, falha não bloqueia o livro
	recordedWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetRecorded)
	defer recordedWriter.Close()
	settledWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledWriter.Close()
	publ := producer.NewKafkaPublisher(recordedWriter, settledWriter)

	engine := ledger.New(log, repository, publ, state)

	// Analisador externo, com cache Redis quando disponível
	client := analysis.New(cfg.AnalysisURL)
	var analyzer chat.Analyzer = client
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Warn("redis unavailable; analysis cache disabled", zap.Error(err))
	} else {
		analyzer = &analysis.Cached{
			Log:     log,
			Backend: client,
			Cache:   analysis.NewCache(rdb),
			TTL:     5 * time.Minute,
		}
	}

	chatManager := chat.NewManager(log, analyzer)

	// Catálogo de campeonatos, buscado uma vez na subida só para informação
	{
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if leagues, err := client.Leagues(cctx); err != nil {
			log.Warn("league catalog unavailable", zap.Error(err))
		} else {
			log.Info("league catalog loaded", zap.Strings("leagues", leagues))
		}
		cancel()
	}

	hub := ws.NewHub(log)
	api := thttp.NewServer(log, engine, chatManager, client, hub, cfg.RiskDailyLimit, cfg.RiskStreakLimit)

	// metrics/health em porta separada
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		if rdb != nil {
			return rdb.Ping(ctx).Err()
		}
		return nil
	})
	log.Info("metrics/health listening", zap.String("addr", ":"+cfg.MetricsPort))

	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}
	log.Info("tracker-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
