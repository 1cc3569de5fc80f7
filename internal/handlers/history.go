package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tinyurl-history/internal/history"
	"github.com/serroba/tinyurl-history/internal/tinyurl"
	"go.uber.org/zap"
)

// Shortener shortens URLs and maintains the history they are recorded in.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (history.Record, error)
	Clear(ctx context.Context) (int, error)
}

// HistoryReader is the read side of the history.
type HistoryReader interface {
	Key() string
	Get(index int) (history.Record, bool)
	List() []history.Record
}

// HistoryHandler serves the shortening and history endpoints.
type HistoryHandler struct {
	shortener Shortener
	history   HistoryReader
	logger    *zap.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(shortener Shortener, history HistoryReader, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		shortener: shortener,
		history:   history,
		logger:    logger,
	}
}

func (h *HistoryHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	rec, err := h.shortener.Shorten(ctx, req.Body.URL)
	if err != nil {
		if errors.Is(err, history.ErrPersist) {
			h.logger.Error("short url not saved to history",
				zap.String("shortUrl", rec.ShortURL),
				zap.Error(err),
			)

			return nil, huma.Error500InternalServerError("failed to save history")
		}

		switch tinyurl.KindOf(err) {
		case tinyurl.KindInvalidURL:
			return nil, huma.Error400BadRequest(err.Error())
		case tinyurl.KindNoURLAvailable:
			return nil, huma.Error502BadGateway("no short url available")
		default:
			return nil, huma.Error502BadGateway("shortening service failed")
		}
	}

	resp := &ShortenResponse{}
	resp.Headers.Location = rec.ShortURL
	resp.Body = toRecordBody(rec)

	return resp, nil
}

func (h *HistoryHandler) ListHistory(_ context.Context, _ *struct{}) (*ListHistoryResponse, error) {
	records := h.history.List()

	resp := &ListHistoryResponse{}
	resp.Body.CollectionKey = h.history.Key()
	resp.Body.Count = len(records)
	resp.Body.Items = make([]RecordBody, 0, len(records))

	for _, rec := range records {
		resp.Body.Items = append(resp.Body.Items, toRecordBody(rec))
	}

	return resp, nil
}

func (h *HistoryHandler) GetRecord(_ context.Context, req *GetRecordRequest) (*GetRecordResponse, error) {
	rec, ok := h.history.Get(req.Index)
	if !ok {
		return nil, huma.Error404NotFound("no history record at this index")
	}

	return &GetRecordResponse{Body: toRecordBody(rec)}, nil
}

func (h *HistoryHandler) ClearHistory(ctx context.Context, req *ClearHistoryRequest) (*ClearHistoryResponse, error) {
	if !req.Confirm {
		return nil, huma.Error400BadRequest("erasing the history is irreversible, repeat with confirm=true")
	}

	removed, err := h.shortener.Clear(ctx)
	if err != nil {
		h.logger.Error("failed to clear history", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to clear history")
	}

	resp := &ClearHistoryResponse{}
	resp.Headers.Removed = strconv.Itoa(removed)

	return resp, nil
}

func toRecordBody(rec history.Record) RecordBody {
	return RecordBody{
		LongURL:   rec.LongURL,
		ShortURL:  rec.ShortURL,
		CreatedAt: rec.CreatedAt,
	}
}
