package incident

import "encoding/json"

// CoercionState tags the outcome of converting one raw cell.
type CoercionState uint8

const (
	// StateNull marks an empty cell.
	StateNull CoercionState = iota
	// StateSuccess marks a cell converted to its canonical type.
	StateSuccess
	// StateFallback marks a cell that kept its original text.
	StateFallback
)

func (s CoercionState) String() string {
	switch s {
	case StateSuccess:
		return "success"
	case StateFallback:
		return "fallback"
	default:
		return "null"
	}
}

// Coercion is Success(value) | Fallback(original) | Null for a single cell.
type Coercion[T any] struct {
	value T
	raw   string
	state CoercionState
}

// Success wraps a converted value together with the text it came from.
func Success[T any](v T, raw string) Coercion[T] {
	return Coercion[T]{value: v, raw: raw, state: StateSuccess}
}

// Fallback keeps the original text of a cell that could not be converted.
func Fallback[T any](raw string) Coercion[T] {
	return Coercion[T]{raw: raw, state: StateFallback}
}

// Null is the empty-cell result.
func Null[T any]() Coercion[T] { return Coercion[T]{} }

// Get returns the converted value and whether conversion succeeded.
func (c Coercion[T]) Get() (T, bool) { return c.value, c.state == StateSuccess }

// Raw returns the original cell text.
func (c Coercion[T]) Raw() string { return c.raw }

// State returns the coercion outcome tag.
func (c Coercion[T]) State() CoercionState { return c.state }

// IsFallback reports whether the cell kept its original text.
func (c Coercion[T]) IsFallback() bool { return c.state == StateFallback }

// Degrade turns a successful coercion into a fallback on its original text.
func (c Coercion[T]) Degrade() Coercion[T] {
	if c.state != StateSuccess {
		return c
	}
	return Fallback[T](c.raw)
}

// MarshalJSON emits the value on success, the raw text on fallback, null otherwise.
func (c Coercion[T]) MarshalJSON() ([]byte, error) {
	switch c.state {
	case StateSuccess:
		return json.Marshal(c.value)
	case StateFallback:
		return json.Marshal(c.raw)
	default:
		return []byte("null"), nil
	}
}
