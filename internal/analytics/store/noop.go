package store

import (
	"context"

	"github.com/serroba/tinyurl-history/internal/analytics"
	"go.uber.org/zap"
)

// Noop is a no-op implementation of analytics.Store that logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveURLShortened(_ context.Context, event *analytics.URLShortenedEvent) error {
	n.logger.Info("url shortened event received",
		zap.String("collectionKey", event.CollectionKey),
		zap.String("longUrl", event.LongURL),
		zap.String("shortUrl", event.ShortURL),
		zap.Time("createdAt", event.CreatedAt),
		zap.String("requestId", event.RequestID),
	)

	return nil
}

func (n *Noop) SaveHistoryCleared(_ context.Context, event *analytics.HistoryClearedEvent) error {
	n.logger.Info("history cleared event received",
		zap.String("collectionKey", event.CollectionKey),
		zap.Int("removed", event.Removed),
		zap.Time("clearedAt", event.ClearedAt),
		zap.String("requestId", event.RequestID),
	)

	return nil
}

var _ analytics.Store = (*Noop)(nil)
