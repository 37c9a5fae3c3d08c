package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidValue wraps every validation failure.
var ErrInvalidValue = errors.New("invalid value")

// Validator parses and checks the persisted form of a value.
type Validator[T any] interface {
	Validate(raw []byte) (T, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc[T any] func(raw []byte) (T, error)

// Validate calls f(raw).
func (f ValidatorFunc[T]) Validate(raw []byte) (T, error) { return f(raw) }

var (
	structValidator = validator.New(validator.WithRequiredStructEnabled())
	jsonNull        = []byte("null")
)

// JSON decodes raw into T and applies check, if non-nil. A bare null is
// rejected.
func JSON[T any](check func(T) error) Validator[T] {
	return ValidatorFunc[T](func(raw []byte) (T, error) {
		var v T
		if err := decode(raw, &v); err != nil {
			return v, err
		}
		if check != nil {
			if err := check(v); err != nil {
				return v, fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
		}
		return v, nil
	})
}

// Struct decodes raw into T and checks its `validate` struct tags.
func Struct[T any]() Validator[T] {
	return ValidatorFunc[T](func(raw []byte) (T, error) {
		var v T
		if err := decode(raw, &v); err != nil {
			return v, err
		}
		if err := structValidator.Struct(v); err != nil {
			return v, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return v, nil
	})
}

// OneOf decodes raw into T and accepts only the listed values.
func OneOf[T comparable](allowed ...T) Validator[T] {
	return JSON(func(v T) error {
		if !slices.Contains(allowed, v) {
			return fmt.Errorf("%v is not one of %v", v, allowed)
		}
		return nil
	})
}

func decode(raw []byte, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return fmt.Errorf("%w: empty or null", ErrInvalidValue)
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return fmt.Errorf("%w: trailing data", ErrInvalidValue)
	}
	return nil
}
