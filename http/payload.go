// server/http/payload.go
package http

import (
	"bytes"
	"encoding/json"

	"github.com/ViniZap4/lumi-notes/domain"
)

type notePayload struct {
	Title   string
	Content string
}

var jsonNull = []byte("null")

// decodeNotePayload accepts only a JSON object. title and content must be
// strings when present; absent, null or empty counts as missing.
// Whitespace-only values are kept as they are.
func decodeNotePayload(body []byte) (notePayload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return notePayload{}, domain.ErrMalformedRequest
	}

	title, err := stringField(fields, "title")
	if err != nil {
		return notePayload{}, err
	}
	content, err := stringField(fields, "content")
	if err != nil {
		return notePayload{}, err
	}
	if title == "" || content == "" {
		return notePayload{}, domain.ErrValidation
	}
	return notePayload{Title: title, Content: content}, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", domain.ErrMalformedRequest
	}
	return s, nil
}
