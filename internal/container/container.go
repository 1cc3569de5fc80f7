package container

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/tinyurl-history/internal/analytics"
	analyticsstore "github.com/serroba/tinyurl-history/internal/analytics/store"
	"github.com/serroba/tinyurl-history/internal/handlers"
	"github.com/serroba/tinyurl-history/internal/health"
	"github.com/serroba/tinyurl-history/internal/history"
	"github.com/serroba/tinyurl-history/internal/messaging"
	"github.com/serroba/tinyurl-history/internal/middleware"
	"github.com/serroba/tinyurl-history/internal/shortener"
	"github.com/serroba/tinyurl-history/internal/store"
	"github.com/serroba/tinyurl-history/internal/tinyurl"
	"go.uber.org/zap"
)

const (
	requestIDLength = 21
	consumerGroup   = "history-analytics"
)

// Backend is a history backend that can also be health checked.
type Backend interface {
	history.Backend
	health.Checker
}

// RedisConn owns the shared Redis client.
type RedisConn struct {
	*redis.Client
}

// Shutdown closes the client when the injector shuts down.
func (c *RedisConn) Shutdown() error {
	return c.Close()
}

// PostgresConn owns the shared connection pool.
type PostgresConn struct {
	*pgxpool.Pool
}

// Shutdown closes the pool when the injector shuts down.
func (c *PostgresConn) Shutdown() error {
	c.Close()

	return nil
}

// RedisPackage provides the Redis client. It is only dialed when a component needs it.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisConn, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisConn{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// PostgresPackage provides the Postgres pool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*PostgresConn, error) {
		opts := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		return &PostgresConn{Pool: pool}, nil
	})
}

// HistoryPackage provides the configured Backend and the *history.Store loaded from it.
func HistoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (Backend, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Backend {
		case BackendMemory:
			return store.NewMemoryStore(), nil
		case BackendFile:
			fs, err := store.NewFileStore(opts.DataDir)
			if err != nil {
				return nil, err
			}

			return fs, nil
		case BackendRedis:
			conn, err := do.Invoke[*RedisConn](i)
			if err != nil {
				return nil, err
			}

			return store.NewRedisStore(conn.Client), nil
		case BackendPostgres:
			conn, err := do.Invoke[*PostgresConn](i)
			if err != nil {
				return nil, err
			}

			pg := store.NewPostgresStore(conn.Pool)
			if err := pg.EnsureSchema(context.Background()); err != nil {
				return nil, fmt.Errorf("ensuring schema: %w", err)
			}

			return pg, nil
		default:
			return nil, fmt.Errorf("unknown history backend %q", opts.Backend)
		}
	})

	do.Provide(injector, func(i *do.Injector) (*history.Store, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		backend, err := do.Invoke[Backend](i)
		if err != nil {
			return nil, err
		}

		return history.NewStore(context.Background(), backend, opts.CollectionKey, logger), nil
	})
}

// EventsPackage provides the watermill publisher and subscriber for the configured transport.
// The memory transport shares one in-process channel between both sides.
func EventsPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*gochannel.GoChannel, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		return gochannel.NewGoChannel(gochannel.Config{}, messaging.NewZapLogger(logger)), nil
	})

	do.Provide(injector, func(i *do.Injector) (message.Publisher, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		switch opts.Events {
		case EventsMemory:
			return do.MustInvoke[*gochannel.GoChannel](i), nil
		case EventsRedis:
			conn, err := do.Invoke[*RedisConn](i)
			if err != nil {
				return nil, err
			}

			return redisstream.NewPublisher(redisstream.PublisherConfig{
				Client: conn.Client,
			}, messaging.NewZapLogger(logger))
		default:
			return nil, fmt.Errorf("unknown event transport %q", opts.Events)
		}
	})

	do.Provide(injector, func(i *do.Injector) (message.Subscriber, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		switch opts.Events {
		case EventsMemory:
			return do.MustInvoke[*gochannel.GoChannel](i), nil
		case EventsRedis:
			conn, err := do.Invoke[*RedisConn](i)
			if err != nil {
				return nil, err
			}

			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        conn.Client,
				ConsumerGroup: consumerGroup,
			}, messaging.NewZapLogger(logger))
		default:
			return nil, fmt.Errorf("unknown event transport %q", opts.Events)
		}
	})
}

// PublisherGroupPackage provides the publisher group and a typed publish function per topic.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := do.Invoke[message.Publisher](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLShortenedEvent], error) {
		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[analytics.URLShortenedEvent](
			group.Publisher(), analytics.TopicURLShortened,
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.HistoryClearedEvent], error) {
		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[analytics.HistoryClearedEvent](
			group.Publisher(), analytics.TopicHistoryCleared,
		), nil
	})
}

// ConsumerGroupPackage provides a consumer group feeding both history topics into the analytics sink.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		return analyticsstore.NewNoop(do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		sink := do.MustInvoke[analytics.Store](i)

		subscriber, err := do.Invoke[message.Subscriber](i)
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer[analytics.URLShortenedEvent](
			subscriber, analytics.TopicURLShortened, sink.SaveURLShortened, logger,
		))
		group.Add(messaging.NewConsumer[analytics.HistoryClearedEvent](
			subscriber, analytics.TopicHistoryCleared, sink.SaveHistoryCleared, logger,
		))

		return group, nil
	})
}

// ShortenerPackage provides the TinyURL client and the shortening service.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*tinyurl.Client, error) {
		opts := do.MustInvoke[*Options](i)

		return tinyurl.NewClient(opts.Endpoint, &http.Client{}), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		client := do.MustInvoke[*tinyurl.Client](i)

		historyStore, err := do.Invoke[*history.Store](i)
		if err != nil {
			return nil, err
		}

		publishShortened, err := do.Invoke[messaging.Publish[analytics.URLShortenedEvent]](i)
		if err != nil {
			return nil, err
		}

		publishCleared, err := do.Invoke[messaging.Publish[analytics.HistoryClearedEvent]](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(client, historyStore, publishShortened, publishCleared, logger), nil
	})
}

// HTTPPackage provides the router and the huma API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		service, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		historyStore, err := do.Invoke[*history.Store](i)
		if err != nil {
			return nil, err
		}

		backend, err := do.Invoke[Backend](i)
		if err != nil {
			return nil, err
		}

		newID, err := nanoid.Standard(requestIDLength)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("TinyURL History", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api, newID))

		handlers.RegisterRoutes(api, handlers.NewHistoryHandler(service, historyStore, logger))
		health.RegisterRoutes(api, health.NewHandler(opts.Backend, backend))

		return api, nil
	})
}

// New registers every package the server needs on a fresh injector.
func New(options *Options) *do.Injector {
	injector := do.New()

	do.ProvideValue(injector, options)
	LoggerPackage(injector)
	RedisPackage(injector)
	PostgresPackage(injector)
	HistoryPackage(injector)
	EventsPackage(injector)
	PublisherGroupPackage(injector)
	ConsumerGroupPackage(injector)
	ShortenerPackage(injector)
	HTTPPackage(injector)

	return injector
}
