package model

import (
	"fmt"
	"slices"
)

// OneOf reports an error unless value is one of allowed.
func OneOf[T ~string](value T, allowed ...T) error {
	if slices.Contains(allowed, value) {
		return nil
	}

	return fmt.Errorf("unsupported value %q", string(value))
}
