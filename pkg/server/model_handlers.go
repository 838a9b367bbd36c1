package server

import (
	"net/http"

	"github.com/jinzhu/copier"

	"github.com/recallio/recall/pkg/models"
)

// ModelResponse is the catalog entry shape returned to clients.
type ModelResponse struct {
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	DisplayName string `json:"display_name"`
}

// ModelListResponse lists the available models and the deployment default.
type ModelListResponse struct {
	Models  []ModelResponse `json:"models"`
	Default *ModelResponse  `json:"default,omitempty"`
}

// GetModelsHandler returns the provider/model pairs available to this
// deployment. Providers without a configured credential are absent.
func GetModelsHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specs := appState.Catalog.ListAvailable()

		resp := ModelListResponse{Models: make([]ModelResponse, 0, len(specs))}
		if err := copier.Copy(&resp.Models, &specs); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
		if spec, ok := appState.Catalog.ResolveDefault(); ok {
			var d ModelResponse
			if err := copier.Copy(&d, &spec); err != nil {
				renderError(w, err, http.StatusInternalServerError)
				return
			}
			resp.Default = &d
		}

		if err := encodeJSON(w, resp); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}
