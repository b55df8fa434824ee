package services

import "encoding/json"

// Optional tells an omitted JSON key apart from an explicit null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}
