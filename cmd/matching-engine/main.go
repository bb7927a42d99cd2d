package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	app "github.com/decent-stuff/decent-cloud-sub001/internal/app/engine"
	matchpublisher "github.com/decent-stuff/decent-cloud-sub001/internal/usecase/match-publisher"
	orderreader "github.com/decent-stuff/decent-cloud-sub001/internal/usecase/order-reader"
	"github.com/decent-stuff/decent-cloud-sub001/internal/usecase/orderbook"
	"github.com/decent-stuff/decent-cloud-sub001/internal/usecase/snapshot"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/config"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/logger"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/redis"
)

// writerLockTTL bounds how long a crashed instance can hold the market lock.
const writerLockTTL = 2 * time.Minute

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg = &config.Config{}
	err = config.Load(cfg)
	if err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = logger
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = strings.Split(cfg.RedisConfig.Addrs, ",")
	redisConfig.Password = cfg.RedisConfig.Password
	redisConfig.Username = cfg.RedisConfig.Username
	redisConfig.DB = cfg.RedisConfig.DB

	rclient := redis.NewClient(log, redisConfig)

	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	// One writer per market: the book must see a single linear order stream,
	// so a second instance for the same market refuses to start.
	lockKey := "writer-lock:" + cfg.Market
	acquired, err := rclient.SetNX(ctx, lockKey, os.Getpid(), writerLockTTL)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "acquire_writer_lock",
		})
		return
	}
	if !acquired {
		log.Warn("Another engine instance owns this market, exiting", logger.Field{
			Key:   "market",
			Value: cfg.Market,
		})
		return
	}
	defer rclient.Del(context.Background(), lockKey)

	// Initialize components
	ob := orderbook.NewOrderbook()
	oReader := orderreader.NewReader(cfg.KafkaConfig, *log)
	snapshotStore := snapshot.NewSnapshotStore(rclient, cfg.Market, log)
	matchPublisher := matchpublisher.NewPublisher(cfg.MatchPublisherConfig, *log)
	engine := app.NewEngine(
		ob,
		oReader,
		snapshotStore,
		matchPublisher,
		log,
		cfg,
	)

	// Start the engine
	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("Matching engine started successfully", logger.Field{
		Key:   "market",
		Value: cfg.Market,
	})

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := matchPublisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_match_publisher",
		})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	log.Info("Matching engine shutdown complete")
}
