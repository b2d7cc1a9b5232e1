package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/twmb/franz-go/pkg/kgo"

	identitystore "village/internal/identity/store"
	"village/internal/onboarding/adapters"
	"village/internal/onboarding/draftstore"
	"village/internal/onboarding/service"
	"village/internal/onboarding/store/legacy"
	"village/internal/onboarding/store/profile"
	"village/internal/platform/config"
	"village/internal/platform/mongo"
	"village/internal/platform/postgres"
	"village/internal/platform/redis"
	"village/pkg/platform/audit"
	"village/pkg/platform/audit/publisher"
	auditkafka "village/pkg/platform/audit/store/kafka"
	auditmemory "village/pkg/platform/audit/store/memory"
)

const auditBufferSize = 256

// infra holds the backing stores selected from configuration. Every
// backend falls back to an in-process implementation when unconfigured.
type infra struct {
	drafts     *draftstore.Store
	profiles   service.ProfileStore
	legacy     service.LegacyStore
	identities adapters.IdentityStore
	audit      *publisher.Publisher
	checks     []healthCheck
	closers    []func()
}

func buildInfra(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer) (*infra, error) {
	in := &infra{}
	if err := in.wireDrafts(ctx, cfg, log); err != nil {
		in.Close()
		return nil, err
	}
	if err := in.wirePostgres(ctx, cfg, log); err != nil {
		in.Close()
		return nil, err
	}
	if err := in.wireMongo(ctx, cfg, log); err != nil {
		in.Close()
		return nil, err
	}
	if err := in.wireAudit(ctx, cfg, log, reg); err != nil {
		in.Close()
		return nil, err
	}
	return in, nil
}

func (in *infra) wireDrafts(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if client == nil {
		log.Warn("REDIS_URL not set, drafts are kept in memory")
		in.drafts = draftstore.New(draftstore.NewMemoryKV())
		return nil
	}
	in.drafts = draftstore.New(draftstore.NewRedisKV(client.Client, cfg.Onboarding.DraftTTL))
	in.checks = append(in.checks, healthCheck{"redis", client.Health})
	in.closers = append(in.closers, func() { _ = client.Close() })
	log.Info("draft slot backed by redis", "ttl", cfg.Onboarding.DraftTTL.String())
	return nil
}

func (in *infra) wirePostgres(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db == nil {
		log.Warn("DATABASE_URL not set, profiles and identities are kept in memory")
		in.profiles = profile.NewInMemory()
		in.identities = identitystore.NewInMemory()
		return nil
	}
	in.closers = append(in.closers, func() { _ = db.Close() })
	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(db); err != nil {
			return err
		}
	}
	in.profiles = profile.NewPostgres(db)
	in.identities = identitystore.NewPostgres(db)
	in.checks = append(in.checks, healthCheck{"postgres", db.PingContext})
	return nil
}

func (in *infra) wireMongo(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	client, err := mongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	if client == nil {
		log.Warn("MONGO_URI not set, legacy pre-registration prefill is empty")
		in.legacy = legacy.NewInMemory()
		return nil
	}
	in.closers = append(in.closers, func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	})
	store := legacy.NewMongo(client.Database.Collection(cfg.Mongo.Collection))
	ensureIndexes(ctx, "legacy", store, log)
	in.legacy = store
	in.checks = append(in.checks, healthCheck{"mongo", client.Health})
	return nil
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// ensureIndexes never fails startup: stores stay correct without their
// indexes, only slower.
func ensureIndexes(ctx context.Context, name string, store indexer, log *slog.Logger) {
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Warn("indexes not ensured, lookups fall back to collection scans", "store", name, "error", err)
	}
}

func (in *infra) wireAudit(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer) error {
	var store audit.Store
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn("KAFKA_BROKERS not set, onboarding events are kept in memory")
		store = auditmemory.NewInMemoryStore()
	} else {
		client, err := auditkafka.NewClient(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("create kafka client: %w", err)
		}
		in.closers = append(in.closers, client.Close)
		if cfg.Kafka.CreateTopics {
			if err := auditkafka.EnsureTopic(ctx, client, cfg.Kafka.Topic, 3, 1); err != nil {
				return err
			}
		}
		store = auditkafka.New(client, cfg.Kafka.Topic)
		in.checks = append(in.checks, healthCheck{"kafka", func(ctx context.Context) error { return kafkaPing(ctx, client) }})
	}

	in.audit = publisher.NewPublisher(store,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics(reg)),
		publisher.WithBreaker(publisher.NewBreaker(5, time.Minute)),
	)
	// The publisher drains before the transport closes.
	in.closers = append(in.closers, func() { _ = in.audit.Close() })
	return nil
}

func kafkaPing(ctx context.Context, client *kgo.Client) error {
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (in *infra) Close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		in.closers[i]()
	}
}
