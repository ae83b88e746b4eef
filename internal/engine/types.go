package engine

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/rshade/mazerion/internal/measure"
)

// Request limits enforced before any calculator runs.
const (
	// MaxIDLength is the longest accepted calculator id.
	MaxIDLength = 100

	// MaxParams is the most parameters one request may carry.
	MaxParams = 50

	// MaxKeyLength is the longest accepted parameter key.
	MaxKeyLength = 100

	// MaxValueLength is the longest accepted parameter value.
	MaxValueLength = 1000

	// MaxBatchRequests is the most requests one RunBatch call accepts.
	MaxBatchRequests = 100
)

// Engine errors.
var (
	// ErrNotReady is returned when the engine has no calculators registered.
	ErrNotReady = errors.New("engine not ready: no calculators registered")
	// ErrCalculatorNotFound is returned when a request names an unknown calculator.
	ErrCalculatorNotFound = errors.New("calculator not found")
	// ErrInvalidInput is returned when a request breaks one of the request limits.
	ErrInvalidInput = errors.New("invalid input")
)

// Request is a flat calculation request as it arrives from a caller.
type Request struct {
	CalculatorID string            `json:"calculator_id"`
	Params       map[string]string `json:"params"`
}

// Response is the flattened outcome of a successful calculation.
type Response struct {
	CalculatorID string          `json:"calculator_id"`
	Value        decimal.Decimal `json:"value"`
	Unit         measure.Unit    `json:"unit"`
	// Display is the value rendered with the unit's display precision and symbol.
	Display  string            `json:"display"`
	Warnings []string          `json:"warnings"`
	Metadata map[string]string `json:"metadata"`
	// LogID is the logbook entry id, set only when the run was recorded.
	LogID string `json:"log_id,omitempty"`
}

// BatchItem is the outcome of one request of a batch. Exactly one of
// Response and Error is set.
type BatchItem struct {
	Index        int       `json:"index"`
	CalculatorID string    `json:"calculator_id"`
	Response     *Response `json:"response,omitempty"`
	Error        string    `json:"error,omitempty"`
	// Kind is the measure error kind or engine error class of Error.
	Kind string `json:"kind,omitempty"`
}

// OK reports whether the request succeeded.
func (b BatchItem) OK() bool {
	return b.Response != nil
}

// Info describes a registered calculator.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// BatchRun is the outcome of RunChunked.
type BatchRun struct {
	// ID is a ULID identifying the run in logs.
	ID        string      `json:"id"`
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}
