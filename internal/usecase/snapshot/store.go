package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	snapshotv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/snapshot/v1"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/errors"
	logger "github.com/decent-stuff/decent-cloud-sub001/pkg/logger"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/redis"
)

// Store persists order book snapshots in Redis, keyed by market.
type Store struct {
	market      string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewSnapshotStore creates a new snapshot store with the given Redis client and market.
func NewSnapshotStore(redisclient redis.Client, market string, logger *logger.Logger) *Store {
	return &Store{
		market:      market,
		redisclient: redisclient,
		logger:      logger,
	}
}

func (s *Store) key() string {
	return "snapshot:" + s.market
}

// Store stores the snapshot in Redis.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "market",
			Value: s.market,
		})
		return errors.NewTracer("snapshot_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.key(), buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "market",
			Value: s.market,
		})

		return errors.NewTracer("snapshot_store_error").Wrap(err)
	}

	s.logger.InfoContext(ctx, fmt.Sprintf("Snapshot stored for market %s", s.market), logger.Field{
		Key:   "market",
		Value: s.market,
	}, logger.Field{
		Key:   "offers",
		Value: len(snapshot.Book.Offers),
	})
	return nil
}

// LoadStore loads the snapshot from Redis. It returns nil without error when
// no snapshot exists yet.
func (s *Store) LoadStore(ctx context.Context) (*snapshotv1.Snapshot, error) {
	data, err := s.redisclient.Get(ctx, s.key())
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "market",
			Value: s.market,
		}, logger.Field{
			Key:   "action",
			Value: "load snapshot",
		})
		return nil, errors.NewTracer("snapshot_load_error").Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, fmt.Sprintf("No snapshot found for market %s", s.market), logger.Field{
			Key:   "market",
			Value: s.market,
		})
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "market",
			Value: s.market,
		}, logger.Field{
			Key:   "action",
			Value: "unmarshal snapshot",
		})
		return nil, errors.NewTracer("snapshot_unmarshal_error").Wrap(err)
	}

	return &snapshot, nil
}
