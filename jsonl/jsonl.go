// Package jsonl renders records as JSON-lines text.
//
// Output spacing follows the downstream readers of these files: a space
// after every colon and comma, map keys sorted.
package jsonl

import (
	"fmt"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

var encodeOpts = []json.Options{
	jsontext.SpaceAfterColon(true),
	jsontext.SpaceAfterComma(true),
	json.Deterministic(true),
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v, encodeOpts...)
	if err != nil {
		return "", fmt.Errorf("jsonl: marshal: %w", err)
	}
	return string(b), nil
}

// Marshal encodes a single record on one line. Literal newline characters
// are removed from the encoded text.
func Marshal(record any) (string, error) {
	s, err := encode(record)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(s, "\n", ""), nil
}

// MarshalList encodes each record on its own line. Every record, the first
// included, is preceded by a newline.
func MarshalList[T any](records []T) (string, error) {
	var b strings.Builder
	for i, r := range records {
		s, err := encode(r)
		if err != nil {
			return "", fmt.Errorf("jsonl: record %d: %w", i, err)
		}
		b.WriteByte('\n')
		b.WriteString(s)
	}
	return b.String(), nil
}
