package handlers

import (
	"net/http"

	"backbar/internal/matching"
)

type matchRequest struct {
	Query     string   `json:"query" validate:"required"`
	Threshold *float64 `json:"threshold" validate:"omitempty,gte=0,lte=100"`
}

type matchResponse struct {
	Query      string               `json:"query"`
	Threshold  float64              `json:"threshold"`
	Candidates []matching.Candidate `json:"candidates"`
}

// Match ranks catalog ingredients against a free-text query. The threshold
// defaults to the auto-suggest level.
func Match(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireService(w, r) {
		return
	}

	var payload matchRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, payloadMessage(err))
		return
	}

	threshold := service.Matcher().Tuning().SuggestThreshold
	if payload.Threshold != nil {
		threshold = *payload.Threshold
	}
	candidates, err := service.Match(r.Context(), payload.Query, threshold)
	if err != nil {
		writeCatalogError(w, r, err, "unable to match ingredients")
		return
	}
	if candidates == nil {
		candidates = []matching.Candidate{}
	}
	writeJSON(w, http.StatusOK, matchResponse{Query: payload.Query, Threshold: threshold, Candidates: candidates})
}
