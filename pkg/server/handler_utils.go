package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/jwtauth/v5"

	"github.com/recallio/recall/pkg/auth"
	"github.com/recallio/recall/pkg/models"
)

// APIError represents an error response body.
type APIError struct {
	Message string `json:"message"`
}

// UserIDHeader is the development fallback for deployments running without
// JWT auth. A token claim always wins over the header.
const UserIDHeader = "X-User-ID"

// userIDFromRequest resolves the authenticated user id from the JWT user_id
// claim, falling back to the X-User-ID header when no token is present.
func userIDFromRequest(r *http.Request) (int64, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err == nil && claims != nil {
		if raw, ok := claims[auth.UserIDClaim]; ok {
			switch v := raw.(type) {
			case float64:
				return int64(v), nil
			case json.Number:
				return v.Int64()
			case string:
				return strconv.ParseInt(v, 10, 64)
			}
			return 0, models.NewBadRequestError("token user_id claim has an unexpected type")
		}
	}

	header := r.Header.Get(UserIDHeader)
	if header == "" {
		return 0, models.NewBadRequestError("no user identity on request")
	}
	userID, parseErr := strconv.ParseInt(header, 10, 64)
	if parseErr != nil {
		return 0, models.NewBadRequestError("invalid " + UserIDHeader + " header")
	}
	return userID, nil
}

// extractQueryStringValueToInt extracts a query string value and converts it
// to an int if it is not empty. If the value is empty, it returns the
// provided default.
func extractQueryStringValueToInt(r *http.Request, param string, defaultValue int) (int, error) {
	p := r.URL.Query().Get(param)
	if p == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(p)
	if err != nil {
		return 0, models.NewBadRequestError("invalid " + param + " query parameter")
	}
	return value, nil
}

// encodeJSON encodes data into JSON and writes it to the response writer.
func encodeJSON(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(data)
}

// decodeJSON decodes a JSON request body into the provided data struct.
func decodeJSON(r *http.Request, data interface{}) error {
	return json.NewDecoder(r.Body).Decode(&data)
}

// errorStatus maps the error kinds produced by the core onto HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// renderError renders an error response.
func renderError(w http.ResponseWriter, err error, status int) {
	if status != http.StatusNotFound {
		// Don't log not found errors
		log.Error(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIError{Message: err.Error()})
}
