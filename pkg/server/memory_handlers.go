package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/recallio/recall/pkg/models"
)

const OKResponse = "OK"

type PostMemoryRequest struct {
	Text string `json:"text"`
}

type MemoryListResponse struct {
	Memories []string `json:"memories"`
	// Total counts every record in the store, not just the returned page.
	Total int `json:"total"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// PostMemoryHandler appends one fact to the caller's memory store.
func PostMemoryHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		var req PostMemoryRequest
		if err := decodeJSON(r, &req); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		if err := appState.Assistant.Remember(r.Context(), userID, req.Text); err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		if err := encodeJSON(w, StatusResponse{Status: OKResponse}); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetMemoryHandler lists the caller's memories in insertion order, with
// optional offset/limit pagination.
func GetMemoryHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		offset, err := extractQueryStringValueToInt(r, "offset", 0)
		if err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}
		limit, err := extractQueryStringValueToInt(r, "limit", -1)
		if err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		memories, total, err := appState.Assistant.ListMemory(r.Context(), userID, offset, limit)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}
		if memories == nil {
			memories = []string{}
		}

		if err := encodeJSON(w, MemoryListResponse{Memories: memories, Total: total}); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// DeleteMemoryHandler removes the memory at an insertion-order index.
func DeleteMemoryHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			renderError(w, models.NewBadRequestError("invalid memory index"), http.StatusBadRequest)
			return
		}

		if err := appState.Assistant.DeleteMemory(r.Context(), userID, index); err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		if err := encodeJSON(w, StatusResponse{Status: OKResponse}); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// ClearMemoryHandler empties the caller's memory store.
func ClearMemoryHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		if err := appState.Assistant.ClearMemory(r.Context(), userID); err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		if err := encodeJSON(w, StatusResponse{Status: OKResponse}); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}
