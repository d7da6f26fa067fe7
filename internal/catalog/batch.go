package catalog

import (
	"backbar/internal/metrics"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// ItemResult is the outcome of one write in a batch.
type ItemResult struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name,omitempty"`
	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`
}

// BatchResult lists per-item outcomes so callers can retry failures
// individually.
type BatchResult struct {
	Items []ItemResult `json:"items"`
}

func (b *BatchResult) record(operation string, id uint, name string, err error) {
	item := ItemResult{ID: id, Name: name, Outcome: OutcomeSuccess}
	if err != nil {
		item.Outcome = OutcomeFailure
		item.Error = err.Error()
	}
	metrics.ObserveBatchItem(operation, string(item.Outcome))
	b.Items = append(b.Items, item)
}

// Failed returns the items that did not succeed.
func (b BatchResult) Failed() []ItemResult {
	var failed []ItemResult
	for _, item := range b.Items {
		if item.Outcome == OutcomeFailure {
			failed = append(failed, item)
		}
	}
	return failed
}

// OK reports whether every item succeeded.
func (b BatchResult) OK() bool {
	return len(b.Failed()) == 0
}
