package shortener

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/serroba/tinyurl-history/internal/analytics"
	"github.com/serroba/tinyurl-history/internal/history"
	"github.com/serroba/tinyurl-history/internal/messaging"
	"github.com/serroba/tinyurl-history/internal/tinyurl"
	"go.uber.org/zap"
)

// Client requests short URLs from the shortening service.
type Client interface {
	ShortenAsync(ctx context.Context, longURL string) <-chan tinyurl.Result
}

// History is the part of history.Store the service mutates.
type History interface {
	Key() string
	Count() int
	Add(ctx context.Context, rec history.Record) error
	Clear(ctx context.Context) error
}

// Service shortens URLs and records every successful conversion in a history.
type Service struct {
	client           Client
	history          History
	publishShortened messaging.Publish[analytics.URLShortenedEvent]
	publishCleared   messaging.Publish[analytics.HistoryClearedEvent]
	logger           *zap.Logger
	now              func() time.Time
}

// NewService creates a new shortening service.
func NewService(
	client Client,
	store History,
	publishShortened messaging.Publish[analytics.URLShortenedEvent],
	publishCleared messaging.Publish[analytics.HistoryClearedEvent],
	logger *zap.Logger,
) *Service {
	return &Service{
		client:           client,
		history:          store,
		publishShortened: publishShortened,
		publishCleared:   publishCleared,
		logger:           logger,
		now:              time.Now,
	}
}

// Shorten converts longURL and adds the result to the history. The network
// call runs in the background; the history is only touched on the calling
// goroutine once its result has arrived. Client failures are returned as
// *tinyurl.Error. A returned record with a non-nil error means the conversion
// succeeded but the history could not be persisted. Surrounding whitespace is
// dropped from longURL before it is sent and recorded.
func (s *Service) Shorten(ctx context.Context, longURL string) (history.Record, error) {
	longURL = strings.TrimSpace(longURL)

	res := <-s.client.ShortenAsync(ctx, longURL)
	if res.Err != nil {
		s.logger.Warn("shorten failed",
			zap.String("longUrl", longURL),
			zap.Stringer("kind", tinyurl.KindOf(res.Err)),
			zap.Error(res.Err),
		)

		return history.Record{}, res.Err
	}

	rec := history.Record{
		LongURL:   longURL,
		ShortURL:  res.ShortURL,
		CreatedAt: s.now(),
	}

	if err := s.history.Add(ctx, rec); err != nil {
		return rec, fmt.Errorf("record %s: %w", rec.ShortURL, err)
	}

	meta := analytics.RequestMetaFromContext(ctx)
	event := &analytics.URLShortenedEvent{
		CollectionKey: s.history.Key(),
		LongURL:       rec.LongURL,
		ShortURL:      rec.ShortURL,
		CreatedAt:     rec.CreatedAt,
		RequestID:     meta.RequestID,
		ClientIP:      meta.ClientIP,
		UserAgent:     meta.UserAgent,
	}

	if err := s.publishShortened(ctx, event); err != nil {
		s.logger.Error("failed to publish url shortened event",
			zap.String("shortUrl", rec.ShortURL),
			zap.Error(err),
		)
	}

	return rec, nil
}

// Clear erases the whole history and returns how many records were removed.
func (s *Service) Clear(ctx context.Context) (int, error) {
	removed := s.history.Count()

	if err := s.history.Clear(ctx); err != nil {
		return removed, fmt.Errorf("clear history: %w", err)
	}

	event := &analytics.HistoryClearedEvent{
		CollectionKey: s.history.Key(),
		Removed:       removed,
		ClearedAt:     s.now(),
		RequestID:     analytics.RequestMetaFromContext(ctx).RequestID,
	}

	if err := s.publishCleared(ctx, event); err != nil {
		s.logger.Error("failed to publish history cleared event",
			zap.String("collectionKey", event.CollectionKey),
			zap.Error(err),
		)
	}

	s.logger.Info("history cleared",
		zap.String("collectionKey", event.CollectionKey),
		zap.Int("removed", removed),
	)

	return removed, nil
}
