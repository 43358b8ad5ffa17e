package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var errUnsupportedJSONBSource = errors.New("unsupported jsonb source type")

// JSONB stores a typed value in a Postgres jsonb column.
type JSONB[T any] struct {
	Data T
}

func NewJSONB[T any](data T) JSONB[T] {
	return JSONB[T]{Data: data}
}

func (j JSONB[T]) Value() (driver.Value, error) {
	raw, err := json.Marshal(j.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb value: %w", err)
	}

	return raw, nil
}

func (j *JSONB[T]) Scan(src any) error {
	var raw []byte

	switch value := src.(type) {
	case nil:
		var zero T
		j.Data = zero

		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return fmt.Errorf("%w: %T", errUnsupportedJSONBSource, src)
	}

	if err := json.Unmarshal(raw, &j.Data); err != nil {
		return fmt.Errorf("failed to unmarshal jsonb value: %w", err)
	}

	return nil
}

func (j JSONB[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data) //nolint:wrapcheck
}

func (j *JSONB[T]) UnmarshalJSON(raw []byte) error {
	return json.Unmarshal(raw, &j.Data) //nolint:wrapcheck
}
