package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"backbar/internal/ai"
	"backbar/internal/catalog"
	applog "backbar/internal/log"
)

const maxJSONBodySize = 1 << 20

// Assistant is the AI surface used by the import and profile endpoints.
type Assistant interface {
	ParseRecipe(ctx context.Context, input ai.RecipeImportInput) (ai.ParsedRecipe, error)
	FetchIngredientProfile(ctx context.Context, ingredient string) (ai.IngredientProfile, error)
}

var (
	service   *catalog.Service
	assistant Assistant
	validate  = validator.New(validator.WithRequiredStructEnabled())
)

// ConfigureAI installs the assistant used by AI-backed endpoints. A nil
// assistant disables them.
func ConfigureAI(a Assistant) {
	assistant = a
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads and validates a request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodySize))
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// payloadMessage turns a decode or validation failure into a client message.
func payloadMessage(err error) string {
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) && len(invalid) > 0 {
		field := invalid[0]
		return strings.ToLower(field.Field()) + " failed " + field.Tag() + " validation"
	}
	return "invalid request payload"
}

// writeCatalogError maps catalog and store errors to HTTP responses.
func writeCatalogError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		writeJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, catalog.ErrInvalidName):
		writeJSONError(w, http.StatusBadRequest, "name is required")
	case errors.Is(err, catalog.ErrDuplicateIngredient):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		applog.Error(r.Context(), message, "error", err)
		writeJSONError(w, http.StatusInternalServerError, message)
	}
}

// resourcePath splits the path under prefix into an optional id and the
// remaining segments.
func resourcePath(path, prefix string) []string {
	path = strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func parseID(value string) (uint, bool) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func requireService(w http.ResponseWriter, r *http.Request) bool {
	if service == nil {
		applog.Debug(r.Context(), "catalog request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return false
	}
	return true
}
