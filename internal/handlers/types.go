package handlers

import "time"

// RecordBody is one history entry as returned by the API.
type RecordBody struct {
	LongURL   string    `doc:"The original URL"             example:"https://example.com/very/long/path" json:"longUrl"`
	ShortURL  string    `doc:"The short URL"                example:"https://tinyurl.com/abc123"          json:"shortUrl"`
	CreatedAt time.Time `doc:"When the URL was shortened"                                                 json:"createdAt"`
}

// ShortenRequest is the request body for shortening a URL.
type ShortenRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url"`
	}
}

// ShortenResponse is the response for a successfully shortened URL.
type ShortenResponse struct {
	Headers struct {
		Location string `doc:"The short URL" header:"Location"`
	}
	Body RecordBody
}

// ListHistoryResponse is the full history, newest first.
type ListHistoryResponse struct {
	Body struct {
		CollectionKey string       `doc:"The history collection" json:"collectionKey"`
		Count         int          `doc:"Number of records"      json:"count"`
		Items         []RecordBody `doc:"Records, newest first"  json:"items"`
	}
}

// GetRecordRequest addresses one history entry by position.
type GetRecordRequest struct {
	Index int `doc:"Position in the history, 0 is the newest" example:"0" path:"index"`
}

// GetRecordResponse is a single history entry.
type GetRecordResponse struct {
	Body RecordBody
}

// ClearHistoryRequest must carry an explicit confirmation.
type ClearHistoryRequest struct {
	Confirm bool `doc:"Must be true; erasing the history is irreversible" query:"confirm"`
}

// ClearHistoryResponse reports how many records were erased.
type ClearHistoryResponse struct {
	Headers struct {
		Removed string `doc:"Number of erased records" header:"X-Removed-Count"`
	}
}
