package calc

import (
	"encoding/json"
	"slices"

	"github.com/rshade/mazerion/internal/measure"
)

// Meta is one auxiliary key/value pair attached to a result, e.g. the formula used.
type Meta struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Result is the outcome of a calculation: one primary measurement, ordered
// advisory warnings, and ordered metadata. Duplicate metadata keys are kept.
type Result struct {
	output   measure.Measurement
	warnings []string
	metadata []Meta
}

// NewResult starts a result with no warnings or metadata.
func NewResult(output measure.Measurement) Result {
	return Result{output: output}
}

// WithWarning returns a copy of r with msg appended to the warnings.
func (r Result) WithWarning(msg string) Result {
	next := r.clone()
	next.warnings = append(next.warnings, msg)
	return next
}

// WithMeta returns a copy of r with (key, value) appended to the metadata.
func (r Result) WithMeta(key, value string) Result {
	next := r.clone()
	next.metadata = append(next.metadata, Meta{Key: key, Value: value})
	return next
}

// WithWarningIf appends msg only when cond holds.
func (r Result) WithWarningIf(cond bool, msg string) Result {
	if !cond {
		return r
	}
	return r.WithWarning(msg)
}

func (r Result) clone() Result {
	return Result{
		output:   r.output,
		warnings: slices.Clone(r.warnings),
		metadata: slices.Clone(r.metadata),
	}
}

// Output returns the primary measurement.
func (r Result) Output() measure.Measurement {
	return r.output
}

// Warnings returns a copy of the warnings in order.
func (r Result) Warnings() []string {
	return slices.Clone(r.warnings)
}

// Metadata returns a copy of the metadata pairs in order.
func (r Result) Metadata() []Meta {
	return slices.Clone(r.metadata)
}

// Meta returns the value of the first metadata entry named key.
func (r Result) Meta(key string) (string, bool) {
	for _, m := range r.metadata {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

// MetaMap flattens the metadata into a map. The first occurrence of a key wins.
func (r Result) MetaMap() map[string]string {
	out := make(map[string]string, len(r.metadata))
	for _, m := range r.metadata {
		if _, seen := out[m.Key]; !seen {
			out[m.Key] = m.Value
		}
	}
	return out
}

// Equal reports whether two results hold the same output, warnings, and metadata
// in the same order.
func (r Result) Equal(other Result) bool {
	return r.output.Equal(other.output) &&
		slices.Equal(r.warnings, other.warnings) &&
		slices.Equal(r.metadata, other.metadata)
}

type resultJSON struct {
	Output   measure.Measurement `json:"output"`
	Warnings []string            `json:"warnings"`
	Metadata []Meta              `json:"metadata"`
}

// MarshalJSON encodes the result with warnings and metadata in order.
func (r Result) MarshalJSON() ([]byte, error) {
	aux := resultJSON{Output: r.output, Warnings: r.warnings, Metadata: r.metadata}
	if aux.Warnings == nil {
		aux.Warnings = []string{}
	}
	if aux.Metadata == nil {
		aux.Metadata = []Meta{}
	}
	return json.Marshal(aux)
}

// UnmarshalJSON decodes a result produced by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var aux resultJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.output = aux.Output
	r.warnings = aux.Warnings
	r.metadata = aux.Metadata
	return nil
}
