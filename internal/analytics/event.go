package analytics

import "time"

const (
	TopicURLShortened   = "history.url_shortened"
	TopicHistoryCleared = "history.cleared"
)

// URLShortenedEvent is emitted after a conversion is added to a history.
type URLShortenedEvent struct {
	CollectionKey string    `json:"collectionKey"`
	LongURL       string    `json:"longUrl"`
	ShortURL      string    `json:"shortUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	RequestID     string    `json:"requestId,omitempty"`
	ClientIP      string    `json:"clientIp,omitempty"`
	UserAgent     string    `json:"userAgent,omitempty"`
}

// HistoryClearedEvent is emitted after a history is erased.
type HistoryClearedEvent struct {
	CollectionKey string    `json:"collectionKey"`
	Removed       int       `json:"removed"`
	ClearedAt     time.Time `json:"clearedAt"`
	RequestID     string    `json:"requestId,omitempty"`
}
