package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"truida/internal/admin"
	"truida/internal/audit"
	"truida/internal/biometric"
	checkpointhandler "truida/internal/checkpoint/handler"
	checkpointmetrics "truida/internal/checkpoint/metrics"
	checkpointservice "truida/internal/checkpoint/service"
	enrollmenthandler "truida/internal/enrollment/handler"
	enrollmentmetrics "truida/internal/enrollment/metrics"
	enrollmentservice "truida/internal/enrollment/service"
	"truida/internal/lifecycle"
	"truida/internal/passenger/store/accesslog"
	"truida/internal/passenger/store/record"
	"truida/internal/platform/config"
	"truida/internal/platform/httpserver"
	"truida/internal/platform/kafka"
	"truida/internal/platform/lock"
	"truida/internal/platform/logger"
	"truida/internal/platform/metrics"
	"truida/internal/platform/postgres"
	platformredis "truida/internal/platform/redis"
	"truida/internal/staffauth"
	"truida/internal/stats"
	httptransport "truida/internal/transport/http"
)

// stores groups the backends selected by configuration.
type stores struct {
	records   recordStore
	accessLog accessLogStore
	tx        enrollmentservice.TxRunner
	db        *sql.DB
}

type recordStore interface {
	checkpointservice.RecordStore
	enrollmentservice.RecordStore
	lifecycle.ExpiringStore
	stats.RecordLister
}

type accessLogStore interface {
	checkpointservice.AccessLogStore
	enrollmentservice.AccessLogClearer
	stats.AccessLogReader
}

type locker interface {
	enrollmentservice.Locker
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "truida: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	healthChecks := map[string]httptransport.HealthCheck{}

	st, err := openStores(ctx, cfg.Postgres, log)
	if err != nil {
		return err
	}
	if st.db != nil {
		defer st.db.Close()
		healthChecks["postgres"] = st.db.PingContext
	}

	lk, redisClient, err := buildLocker(ctx, cfg, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		healthChecks["redis"] = redisClient.Health
	}

	publisher, kafkaClient, err := buildPublisher(ctx, cfg.Kafka, reg, log)
	if err != nil {
		return err
	}
	if kafkaClient != nil {
		defer kafkaClient.Close()
		healthChecks["kafka"] = kafkaClient.Ping
	}

	hasher, err := biometric.NewHasher(biometric.Algorithm(cfg.Biometric.Digest))
	if err != nil {
		return err
	}
	extractor := biometric.NewFeatureExtractor(hasher)

	sweeper := lifecycle.NewSweeper(st.records, lk,
		lifecycle.WithLogger(log),
		lifecycle.WithMetrics(lifecycle.NewMetrics(reg)),
	)

	checkpointOpts := []checkpointservice.Option{
		checkpointservice.WithLogger(log),
		checkpointservice.WithMetrics(checkpointmetrics.New(reg)),
	}
	statsOpts := []stats.Option{stats.WithLogger(log)}
	if cfg.Sweep.Opportunistic {
		statsOpts = append(statsOpts, stats.WithSweeper(sweeper))
	}
	if cfg.Sweep.OnVerify {
		checkpointOpts = append(checkpointOpts, checkpointservice.WithSweeper(sweeper))
	}
	if st.tx != nil {
		checkpointOpts = append(checkpointOpts, checkpointservice.WithTxRunner(st.tx))
	}
	if publisher != nil {
		checkpointOpts = append(checkpointOpts, checkpointservice.WithPublisher(publisher))
	}
	checkpointSvc, err := checkpointservice.New(st.records, st.accessLog, lk, checkpointOpts...)
	if err != nil {
		return err
	}

	enrollmentOpts := []enrollmentservice.Option{
		enrollmentservice.WithLogger(log),
		enrollmentservice.WithMetrics(enrollmentmetrics.New(reg)),
		enrollmentservice.WithExtractor(extractor),
	}
	if st.tx != nil {
		enrollmentOpts = append(enrollmentOpts, enrollmentservice.WithTxRunner(st.tx))
	}
	enrollmentSvc, err := enrollmentservice.New(st.records, st.accessLog, lk, enrollmentOpts...)
	if err != nil {
		return err
	}

	statsSvc := stats.New(st.records, st.accessLog, statsOpts...)
	jwtSvc := staffauth.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		StaffValidator: jwtSvc,
		AdminToken:     cfg.Auth.AdminToken,
		Staff: []httptransport.RouteRegistrar{
			enrollmenthandler.New(enrollmentSvc, log),
			checkpointhandler.New(checkpointSvc, extractor, log),
			stats.NewHandler(statsSvc, log),
		},
		Admin: []httptransport.RouteRegistrar{
			admin.New(sweeper, enrollmentSvc, log),
		},
		HealthChecks: healthChecks,
	})
	srv := httpserver.New(cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting truida",
			"addr", cfg.Server.Addr,
			"env", cfg.Server.Environment,
			"postgres", st.db != nil,
			"redis", redisClient != nil,
			"kafka", kafkaClient != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := sweeper.Run(gctx, cfg.Sweep.Interval); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		if publisher != nil {
			if err := publisher.Close(shutdownCtx); err != nil {
				log.Warn("access event flush incomplete", "error", err)
			}
		}
		return nil
	})
	return g.Wait()
}

func openStores(ctx context.Context, cfg config.PostgresConfig, log *slog.Logger) (*stores, error) {
	if cfg.URL == "" {
		log.Info("using in-memory passenger stores")
		return &stores{records: record.New(), accessLog: accesslog.New()}, nil
	}
	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &stores{
		records:   record.NewPostgres(db),
		accessLog: accesslog.NewPostgres(db),
		tx:        postgres.NewTxRunner(db),
		db:        db,
	}, nil
}

func buildLocker(ctx context.Context, cfg config.Config, log *slog.Logger) (locker, *platformredis.Client, error) {
	client, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("using in-process record locks")
		return lock.NewInMemory(cfg.Lock.WaitTimeout), nil, nil
	}
	return lock.NewRedis(client.Client, cfg.Lock.TTL, cfg.Lock.WaitTimeout, log), client, nil
}

func buildPublisher(ctx context.Context, cfg config.KafkaConfig, reg prometheus.Registerer, log *slog.Logger) (*audit.Publisher, *kgo.Client, error) {
	client, err := kafka.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("access event stream disabled")
		return nil, nil, nil
	}
	if cfg.EnsureTopic {
		ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := kafka.EnsureTopic(ensureCtx, client, cfg); err != nil {
			client.Close()
			return nil, nil, err
		}
	}
	publisher := audit.NewPublisher(client, cfg.Topic,
		audit.WithLogger(log),
		audit.WithMetrics(audit.NewMetrics(reg)),
	)
	return publisher, client, nil
}
