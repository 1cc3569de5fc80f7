package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the shortening and history routes.
func RegisterRoutes(api huma.API, h *HistoryHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "shorten-url",
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Shorten a URL",
		Description:   "Shortens a URL with the public shortening service and records it at the top of the history.",
		Tags:          []string{"History"},
		DefaultStatus: http.StatusCreated,
	}, h.Shorten)

	huma.Register(api, huma.Operation{
		OperationID: "list-history",
		Method:      http.MethodGet,
		Path:        "/history",
		Summary:     "List history",
		Description: "Returns every shortened URL, newest first.",
		Tags:        []string{"History"},
	}, h.ListHistory)

	huma.Register(api, huma.Operation{
		OperationID: "get-history-record",
		Method:      http.MethodGet,
		Path:        "/history/{index}",
		Summary:     "Get history record",
		Description: "Returns the record at a position in the history.",
		Tags:        []string{"History"},
	}, h.GetRecord)

	huma.Register(api, huma.Operation{
		OperationID:   "clear-history",
		Method:        http.MethodDelete,
		Path:          "/history",
		Summary:       "Erase history",
		Description:   "Erases every record. Irreversible, requires confirm=true.",
		Tags:          []string{"History"},
		DefaultStatus: http.StatusNoContent,
	}, h.ClearHistory)
}
