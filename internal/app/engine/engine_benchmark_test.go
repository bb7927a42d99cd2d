package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	matchpublishermock "github.com/decent-stuff/decent-cloud-sub001/internal/domain/match-publisher/v1/mock"
	orderreadermock "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order-reader/v1/mock"
	snapshotmock "github.com/decent-stuff/decent-cloud-sub001/internal/domain/snapshot/v1/mock"
	"github.com/decent-stuff/decent-cloud-sub001/internal/usecase/orderbook"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/config"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/logger"
)

func setupBenchmarkEngine(b *testing.B) *Engine {
	ctrl := gomock.NewController(b)

	mockOrderReader := orderreadermock.NewMockOrderReader(ctrl)
	mockSnapshotStore := snapshotmock.NewMockStore(ctrl)
	mockMatchPublisher := matchpublishermock.NewMockMatchPublisher(ctrl)

	ob := orderbook.NewOrderbook()
	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ErrorLevel))
	if err != nil {
		b.Fatal(err)
	}

	cfg := &config.Config{
		Market: "compute/eu",
		Unit:   time.Hour,
	}

	mockSnapshotStore.EXPECT().
		LoadStore(gomock.Any()).
		Return(nil, nil).
		Times(1)

	mockSnapshotStore.EXPECT().
		Store(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	mockMatchPublisher.EXPECT().
		PublishOutcome(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	options := DefaultEngineOptions()
	options.Now = func() int64 { return 0 }

	engine := NewEngineWithOptions(ob, mockOrderReader, mockSnapshotStore, mockMatchPublisher, log, cfg, options)

	// Initialize context to avoid nil pointer dereference
	engine.ctx = context.Background()

	return engine
}

// seedOfferings books n sell orders with varied schedules and windows.
func seedOfferings(b *testing.B, e *Engine, n int) {
	for i := 0; i < n; i++ {
		envelope := sellEnvelope(
			fmt.Sprintf("sell%d", i),
			int64(i%5),
			int64(100+i%50),
			testSchedule(),
		)
		if err := e.processEnvelope(envelope); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngine_ProcessSellEnvelope(b *testing.B) {
	engine := setupBenchmarkEngine(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		envelope := sellEnvelope(
			fmt.Sprintf("sell%d", i),
			0,
			int64(100+i%50),
			testSchedule(),
		)
		_ = engine.processEnvelope(envelope)
	}
}

func BenchmarkEngine_ProcessBuyEnvelope(b *testing.B) {
	benchCases := []struct {
		name      string
		bookSize  int
		duration  int64
		unitPrice int64
	}{
		{"small_book_exact_duration", 10, 6, 10},
		{"small_book_rounded_duration", 10, 5, 10},
		{"large_book_exact_duration", 1000, 6, 10},
		{"large_book_rejected_over_budget", 1000, 6, 1},
	}

	for _, bc := range benchCases {
		b.Run(bc.name, func(b *testing.B) {
			engine := setupBenchmarkEngine(b)
			seedOfferings(b, engine, bc.bookSize)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				envelope := buyEnvelope(
					fmt.Sprintf("buy%d", i),
					5,
					bc.duration,
					bc.unitPrice,
				)
				_ = engine.processEnvelope(envelope)
			}
		})
	}
}

func BenchmarkEngine_SnapshotCreation(b *testing.B) {
	benchCases := []struct {
		name     string
		bookSize int
	}{
		{"snapshot_small_book", 100},
		{"snapshot_large_book", 1000},
	}

	for _, bc := range benchCases {
		b.Run(bc.name, func(b *testing.B) {
			engine := setupBenchmarkEngine(b)
			seedOfferings(b, engine, bc.bookSize)
			engine.setOrderOffset(int64(bc.bookSize))

			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				engine.createAndStoreSnapshot()
			}
		})
	}
}

func BenchmarkEngine_MixedIntake(b *testing.B) {
	engine := setupBenchmarkEngine(b)
	seedOfferings(b, engine, 50)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		switch i % 10 {
		case 0: // occasional fresh offering
			_ = engine.processEnvelope(sellEnvelope(
				fmt.Sprintf("mixed-sell%d", i),
				0,
				200,
				testSchedule(),
			))
		default: // mostly buy traffic
			_ = engine.processEnvelope(buyEnvelope(
				fmt.Sprintf("mixed-buy%d", i),
				int64(i%5),
				int64(1+i%12),
				10,
			))
		}

		// Occasionally check stats (simulates monitoring)
		if i%100 == 0 {
			_ = engine.GetOrderOffset()
			_ = engine.GetTotalMatches()
			_ = engine.GetTotalRejections()
		}
	}
}
