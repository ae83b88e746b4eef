// Package calc defines the contract shared by every calculator: the input
// carrier, the result carrier, the Calculator interface, and the category set.
package calc

import (
	"encoding/json"
	"slices"

	"github.com/rshade/mazerion/internal/measure"
)

// Param is a free-form key/value input.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Input carries the parameters and measurements of a single calculation.
// Builder methods return a new Input; the receiver is never modified, so an
// Input can be shared freely once built.
type Input struct {
	params       []Param
	measurements []measure.Measurement
}

// NewInput returns an empty Input.
func NewInput() Input {
	return Input{}
}

// AddParam returns a copy of in with (key, value) appended.
// Keys may repeat; lookups return the first match.
func (in Input) AddParam(key, value string) Input {
	next := in.clone()
	next.params = append(next.params, Param{Key: key, Value: value})
	return next
}

// AddMeasurement returns a copy of in with m appended.
func (in Input) AddMeasurement(m measure.Measurement) Input {
	next := in.clone()
	next.measurements = append(next.measurements, m)
	return next
}

func (in Input) clone() Input {
	return Input{
		params:       slices.Clone(in.params),
		measurements: slices.Clone(in.measurements),
	}
}

// Param returns the value of the first parameter named key.
func (in Input) Param(key string) (string, bool) {
	for _, p := range in.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Measurement returns the first measurement with the given unit.
func (in Input) Measurement(unit measure.Unit) (measure.Measurement, error) {
	for _, m := range in.measurements {
		if m.Unit == unit {
			return m, nil
		}
	}
	return measure.Measurement{}, measure.MissingInputf("no measurement with unit %s", unit.Symbol())
}

// Params returns a copy of the parameters in insertion order.
func (in Input) Params() []Param {
	return slices.Clone(in.params)
}

// Measurements returns a copy of the measurements in insertion order.
func (in Input) Measurements() []measure.Measurement {
	return slices.Clone(in.measurements)
}

// IsEmpty reports whether neither parameters nor measurements were supplied.
func (in Input) IsEmpty() bool {
	return len(in.params) == 0 && len(in.measurements) == 0
}

// Equal reports whether two inputs hold the same entries in the same order.
func (in Input) Equal(other Input) bool {
	return slices.Equal(in.params, other.params) &&
		slices.EqualFunc(in.measurements, other.measurements, measure.Measurement.Equal)
}

type inputJSON struct {
	Params       []Param               `json:"params"`
	Measurements []measure.Measurement `json:"measurements"`
}

// MarshalJSON encodes the input with its order preserved.
func (in Input) MarshalJSON() ([]byte, error) {
	aux := inputJSON{Params: in.params, Measurements: in.measurements}
	if aux.Params == nil {
		aux.Params = []Param{}
	}
	if aux.Measurements == nil {
		aux.Measurements = []measure.Measurement{}
	}
	return json.Marshal(aux)
}

// UnmarshalJSON decodes an input produced by MarshalJSON.
func (in *Input) UnmarshalJSON(data []byte) error {
	var aux inputJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	in.params = aux.Params
	in.measurements = aux.Measurements
	return nil
}
