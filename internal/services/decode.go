package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// decodeStrict reads one JSON object into dst. Keys without a matching
// field are reported as a ValidationError naming the key.
func decodeStrict(r io.Reader, dst interface{}) error {
	body, err := io.ReadAll(r)
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return NewValidationError("body", "No update data provided")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if field, ok := unknownField(err); ok {
			return NewValidationError(field, "Invalid fields provided: "+field)
		}
		return NewValidationError("body", fmt.Sprintf("Invalid JSON body: %v", err))
	}
	return nil
}

// encoding/json reports unknown keys only through the error text.
func unknownField(err error) (string, bool) {
	const prefix = "json: unknown field "
	msg := err.Error()
	if !strings.HasPrefix(msg, prefix) {
		return "", false
	}
	return strings.Trim(strings.TrimPrefix(msg, prefix), `"`), true
}

func DecodePostUpdate(r io.Reader) (PostUpdate, error) {
	var upd PostUpdate
	err := decodeStrict(r, &upd)
	return upd, err
}

func DecodeCommentUpdate(r io.Reader) (CommentUpdate, error) {
	var upd CommentUpdate
	err := decodeStrict(r, &upd)
	return upd, err
}
