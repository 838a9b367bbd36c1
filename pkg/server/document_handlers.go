package server

import (
	"net/http"

	"github.com/recallio/recall/pkg/models"
)

// CreateDocumentsRequest carries raw document bodies for ingestion. Upload
// parsing happens client-side; the API accepts text only.
type CreateDocumentsRequest struct {
	Documents []models.Document `json:"documents"`
}

type CreateDocumentsResponse struct {
	Ingested int `json:"ingested"`
}

// SearchDocumentsRequest queries the caller's document store. TopK <= 0
// uses the configured default.
type SearchDocumentsRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

type SearchResult struct {
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	SourceID   string  `json:"source_id,omitempty"`
	ChunkIndex int     `json:"chunk_index"`
}

type SearchDocumentsResponse struct {
	Results []SearchResult `json:"results"`
}

// CreateDocumentsHandler chunks, embeds, and stores document bodies in the
// caller's document store.
func CreateDocumentsHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		var req CreateDocumentsRequest
		if err := decodeJSON(r, &req); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		count, err := appState.Assistant.Ingest(r.Context(), userID, req.Documents)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		if err := encodeJSON(w, CreateDocumentsResponse{Ingested: count}); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// SearchDocumentsHandler ranks the caller's document store against a query.
func SearchDocumentsHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		var req SearchDocumentsRequest
		if err := decodeJSON(r, &req); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		ranked, err := appState.Assistant.Query(r.Context(), userID, req.Query, req.TopK)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		resp := SearchDocumentsResponse{Results: make([]SearchResult, len(ranked))}
		for i, result := range ranked {
			resp.Results[i] = SearchResult{
				Text:       result.Record.Text,
				Score:      result.Score,
				SourceID:   result.Record.Meta.SourceID,
				ChunkIndex: result.Record.Meta.ChunkIndex,
			}
		}

		if err := encodeJSON(w, resp); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}
