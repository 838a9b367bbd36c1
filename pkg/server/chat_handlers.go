package server

import (
	"net/http"

	"github.com/recallio/recall/pkg/models"
)

// PostChatHandler runs one chat turn: the message is persisted, context is
// retrieved and blended, the provider answers, and the reply is persisted
// with its provider/model attribution.
func PostChatHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		var req models.ChatTurnRequest
		if err := decodeJSON(r, &req); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		resp, err := appState.Assistant.ChatTurn(r.Context(), userID, &req)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		if err := encodeJSON(w, resp); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetChatHistoryHandler returns the persisted conversation for a session.
// The session_id query parameter defaults to the default session.
func GetChatHistoryHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			sessionID = models.DefaultSessionID
		}

		history, err := appState.Assistant.History(r.Context(), userID, sessionID)
		if err != nil {
			renderError(w, err, errorStatus(err))
			return
		}

		if err := encodeJSON(w, history); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}
