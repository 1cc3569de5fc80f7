package history

import (
	"fmt"
	"time"
)

// DisplayLayout is the timestamp layout used when rendering a record.
const DisplayLayout = "2006-01-02 15:04:05"

// Record is one long -> short URL conversion.
type Record struct {
	LongURL   string    `json:"longUrl"`
	ShortURL  string    `json:"shortUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r Record) String() string {
	return fmt.Sprintf("(%s) %s  %s", r.CreatedAt.Format(DisplayLayout), r.ShortURL, r.LongURL)
}
