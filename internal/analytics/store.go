package analytics

import "context"

// Store defines the interface for persisting history events.
type Store interface {
	SaveURLShortened(ctx context.Context, event *URLShortenedEvent) error
	SaveHistoryCleared(ctx context.Context, event *HistoryClearedEvent) error
}
