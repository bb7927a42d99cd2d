package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	matchpublisherv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/match-publisher/v1"
	orderreaderv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order-reader/v1"
	orderv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order/v1"
	orderbookv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/orderbook/v1"
	snapshotv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/snapshot/v1"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/config"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/logger"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/util"
	"go.uber.org/zap/zapcore"
)

// Engine is the matching engine for one market: it applies the intake stream
// of sell submissions, buy requests, and cancellations to the order book in
// arrival order. A single goroutine owns the book, which is what makes
// replaying the same stream produce the same sequence of outcomes.
type Engine struct {
	// Core components
	orderbook      orderbookv1.Orderbook
	orderReader    orderreaderv1.OrderReader
	snapshotStore  snapshotv1.Store
	matchPublisher matchpublisherv1.MatchPublisher
	logger         *logger.Logger
	config         *config.Config

	now func() int64

	mu                 sync.RWMutex
	orderOffset        int64
	lastSnapshotOffset int64

	// Shutdown coordination
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	snapshotInterval    time.Duration
	snapshotOffsetDelta int64

	// Outcome statistics
	statsMutex      sync.RWMutex
	totalMatches    int64
	totalRejections int64
}

// NewEngine creates a new instance of Engine with the provided dependencies.
func NewEngine(
	orderbook orderbookv1.Orderbook,
	orderReader orderreaderv1.OrderReader,
	snapshotStore snapshotv1.Store,
	matchPublisher matchpublisherv1.MatchPublisher,
	logger *logger.Logger,
	config *config.Config,
) *Engine {
	return NewEngineWithOptions(orderbook, orderReader, snapshotStore, matchPublisher, logger, config, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options
func NewEngineWithOptions(
	orderbook orderbookv1.Orderbook,
	orderReader orderreaderv1.OrderReader,
	snapshotStore snapshotv1.Store,
	matchPublisher matchpublisherv1.MatchPublisher,
	logger *logger.Logger,
	config *config.Config,
	options *Options,
) *Engine {
	e := &Engine{
		orderbook:      orderbook,
		orderReader:    orderReader,
		snapshotStore:  snapshotStore,
		matchPublisher: matchPublisher,
		logger:         logger,
		config:         config,

		snapshotInterval:    options.SnapshotInterval,
		snapshotOffsetDelta: options.SnapshotOffsetDelta,
		orderOffset:         -1,
	}

	e.now = options.Now
	if e.now == nil {
		unit := config.Unit
		e.now = func() int64 {
			return util.NowTicks(unit)
		}
	}

	// Load snapshot during initialization
	if err := e.loadSnapshot(context.Background()); err != nil {
		e.logger.GetZap().Fatal("Failed to load snapshot", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}

	return e
}

// Start initializes the engine and starts processing routines.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.runOrderProcessor()
	go e.runSnapshotManager()

	e.logger.Info("Matching engine started", logger.Field{
		Key:   "market",
		Value: e.config.Market,
	}, logger.Field{
		Key:   "unit",
		Value: e.config.Unit.String(),
	})

	return nil
}

// Stop gracefully shuts down the engine
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	// Wait for goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Matching engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderProcessor combines envelope reading and processing in a single
// goroutine, the engine's single-writer loop.
func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()

	e.logger.Info("Starting order processor", logger.Field{
		Key:   "market",
		Value: e.config.Market,
	})

	// Resume one past the snapshot offset; -1 means no snapshot was loaded
	currentOffset := e.getOrderOffset()
	if currentOffset >= 0 {
		currentOffset++
	}

	if err := e.orderReader.SetOffset(currentOffset); err != nil {
		e.logger.GetZap().Fatal("Failed to set offset for order reader", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Order processor shutting down")
			e.orderReader.Close()
			return
		default:
			msg, envelope, err := e.orderReader.ReadMessage(e.ctx)
			if err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_order_message",
				})
				// Simple backoff
				time.Sleep(100 * time.Millisecond)
				continue
			}

			if err := e.orderReader.CommitMessages(e.ctx, msg); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "commit_order_message",
				})
			}

			if err := e.processEnvelope(envelope); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "process_envelope",
				})
			}

			// Update offset even when processing failed: a rejected
			// submission is terminal, never retried
			e.setOrderOffset(msg.Offset)
		}
	}
}

// runSnapshotManager handles periodic snapshots
func (e *Engine) runSnapshotManager() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.snapshotInterval)
	defer ticker.Stop()

	e.logger.Info("Starting snapshot manager")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Snapshot manager shutting down")
			return
		case <-ticker.C:
			if e.shouldCreateSnapshot() {
				e.createAndStoreSnapshot()
			}
		}
	}
}

// processEnvelope applies a single intake envelope to the book.
func (e *Engine) processEnvelope(envelope *orderreaderv1.OrderEnvelope) error {
	e.logger.Debug("Processing envelope",
		logger.Field{Key: "type", Value: envelope.Type},
		logger.Field{Key: "offset", Value: envelope.Offset},
	)

	switch envelope.Type {
	case orderreaderv1.EnvelopeSell:
		if envelope.Sell == nil {
			return fmt.Errorf("%w: %s", orderreaderv1.ErrMissingPayload, envelope.Type)
		}
		sell := envelope.Sell.ToSellOrder()
		if err := e.orderbook.Insert(sell); err != nil {
			return err
		}
		e.logger.Info("Offering booked",
			logger.Field{Key: "sellOrderID", Value: sell.ID},
			logger.Field{Key: "providerID", Value: sell.ProviderID},
			logger.Field{Key: "tiers", Value: len(sell.Schedule)},
		)
	case orderreaderv1.EnvelopeBuy:
		if envelope.Buy == nil {
			return fmt.Errorf("%w: %s", orderreaderv1.ErrMissingPayload, envelope.Type)
		}
		buy := envelope.Buy.ToBuyOrder()
		outcome := e.orderbook.Match(e.now(), buy)
		e.publishOutcome(outcome)
	case orderreaderv1.EnvelopeCancel:
		if envelope.Cancel == nil {
			return fmt.Errorf("%w: %s", orderreaderv1.ErrMissingPayload, envelope.Type)
		}
		if err := e.orderbook.Cancel(envelope.Cancel.OrderID); err != nil {
			return err
		}
		e.logger.Info("Offering withdrawn",
			logger.Field{Key: "sellOrderID", Value: envelope.Cancel.OrderID},
		)
	default:
		return fmt.Errorf("%w: %q", orderreaderv1.ErrUnknownEnvelopeType, envelope.Type)
	}
	return nil
}

// publishOutcome publishes a match outcome and updates statistics.
func (e *Engine) publishOutcome(outcome *orderv1.MatchOutcome) {
	e.statsMutex.Lock()
	if outcome.IsMatched() {
		e.totalMatches++
	} else {
		e.totalRejections++
	}
	matches, rejections := e.totalMatches, e.totalRejections
	e.statsMutex.Unlock()

	if outcome.IsMatched() {
		e.logger.Info("Reservation matched",
			logger.Field{Key: "buyOrderID", Value: outcome.BuyOrderID},
			logger.Field{Key: "sellOrderID", Value: outcome.SellOrderID},
			logger.Field{Key: "ticksGranted", Value: outcome.TicksGranted},
			logger.Field{Key: "amount", Value: outcome.Amount},
			logger.Field{Key: "totalMatches", Value: matches},
		)
	} else {
		e.logger.Info("Reservation rejected",
			logger.Field{Key: "buyOrderID", Value: outcome.BuyOrderID},
			logger.Field{Key: "reason", Value: outcome.Reason},
			logger.Field{Key: "totalRejections", Value: rejections},
		)
	}

	event := matchpublisherv1.NewOutcomeEvent(e.config.Market, outcome)
	if err := e.matchPublisher.PublishOutcome(e.ctx, event); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "publish_outcome",
		})
	}
}

// shouldCreateSnapshot checks if a snapshot should be created
func (e *Engine) shouldCreateSnapshot() bool {
	e.mu.RLock()
	currentOffset := e.orderOffset
	lastSnapshotOffset := e.lastSnapshotOffset
	e.mu.RUnlock()

	if currentOffset <= 0 {
		return false
	}

	delta := currentOffset - lastSnapshotOffset
	return delta >= e.snapshotOffsetDelta
}

// createAndStoreSnapshot creates and stores a snapshot
func (e *Engine) createAndStoreSnapshot() {
	currentOffset := e.getOrderOffset()

	e.logger.Info("Creating snapshot", logger.Field{
		Key:   "currentOffset",
		Value: currentOffset,
	})

	snapshot := e.orderbook.CreateSnapshot()
	snapshot.OrderOffset = currentOffset

	if err := e.snapshotStore.Store(e.ctx, snapshot); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "store_snapshot",
		})
	} else {
		e.setLastSnapshotOffset(currentOffset)
		e.logger.Info("Snapshot stored successfully", logger.Field{
			Key:   "market",
			Value: e.config.Market,
		}, logger.Field{
			Key:   "offset",
			Value: currentOffset,
		})
	}
}

// Thread-safe getters and setters
func (e *Engine) getOrderOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderOffset
}

func (e *Engine) setOrderOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderOffset = offset
}

func (e *Engine) getLastSnapshotOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSnapshotOffset
}

func (e *Engine) setLastSnapshotOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSnapshotOffset = offset
}

// loadSnapshot loads and restores the orderbook from snapshot
func (e *Engine) loadSnapshot(ctx context.Context) error {
	snapshot, err := e.snapshotStore.LoadStore(ctx)
	if err != nil {
		return err
	}

	if snapshot != nil {
		if err := e.orderbook.RestoreOrderbook(snapshot); err != nil {
			return err
		}
		e.mu.Lock()
		e.orderOffset = snapshot.OrderOffset
		e.lastSnapshotOffset = snapshot.OrderOffset
		e.mu.Unlock()

		e.logger.Info("Orderbook restored from snapshot", logger.Field{
			Key:   "orderOffset",
			Value: snapshot.OrderOffset,
		}, logger.Field{
			Key:   "offers",
			Value: e.orderbook.Len(),
		})
	}

	return nil
}

// GetOrderOffset returns the current order offset
func (e *Engine) GetOrderOffset() int64 {
	return e.getOrderOffset()
}

// GetLastSnapshotOffset returns the last snapshot offset
func (e *Engine) GetLastSnapshotOffset() int64 {
	return e.getLastSnapshotOffset()
}

// GetTotalMatches returns the total number of matched reservations
func (e *Engine) GetTotalMatches() int64 {
	e.statsMutex.RLock()
	defer e.statsMutex.RUnlock()
	return e.totalMatches
}

// GetTotalRejections returns the total number of rejected buy orders
func (e *Engine) GetTotalRejections() int64 {
	e.statsMutex.RLock()
	defer e.statsMutex.RUnlock()
	return e.totalRejections
}
