package handlers

import (
	"errors"
	"net/http"
	"strings"

	applog "backbar/internal/log"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type accountResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Venue string `json:"venue,omitempty"`
	Role  string `json:"role"`
}

// Login accepts JSON or form credentials and starts a session.
func Login(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "handling login request", "method", r.Method)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if !ActiveSession(r) {
			writeJSONError(w, http.StatusUnauthorized, "not signed in")
			return
		}
		account := currentAccount(r)
		writeJSON(w, http.StatusOK, accountResponse{ID: account.ID, Email: account.Email, Name: account.Name, Role: account.Role})
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			applog.Debug(r.Context(), "authentication dependencies unavailable", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
			http.Error(w, "authentication not available", http.StatusServiceUnavailable)
			return
		}

		var payload loginRequest
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			if err := decodeJSON(w, r, &payload); err != nil {
				applog.Debug(r.Context(), "invalid login payload", "error", err)
				writeJSONError(w, http.StatusBadRequest, "email and password are required")
				return
			}
		} else {
			if err := r.ParseForm(); err != nil {
				applog.Debug(r.Context(), "failed to parse login form", "error", err)
				writeJSONError(w, http.StatusBadRequest, "invalid form submission")
				return
			}
			payload.Email = strings.TrimSpace(r.PostFormValue("email"))
			payload.Password = r.PostFormValue("password")
			if err := validate.Struct(payload); err != nil {
				writeJSONError(w, http.StatusBadRequest, "email and password are required")
				return
			}
		}

		account, err := authenticate(r, payload.Email, payload.Password)
		if err != nil {
			if errors.Is(err, errInvalidCredentials) {
				applog.Debug(r.Context(), "authentication failed", "email", strings.ToLower(payload.Email))
				writeJSONError(w, http.StatusUnauthorized, "Invalid email or password. Please try again.")
				return
			}
			applog.Error(r.Context(), "failed to sign in", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "We were unable to sign you in. Please try again.")
			return
		}

		applog.Info(r.Context(), "account signed in", "account_id", account.ID)
		writeJSON(w, http.StatusOK, accountResponse{
			ID:    account.ID,
			Email: account.Email,
			Name:  account.Name,
			Venue: account.Venue,
			Role:  account.Role,
		})
	default:
		applog.Debug(r.Context(), "method not allowed for login", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
