package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

var (
	// ErrNoRecords means the delivered event carried no messages.
	ErrNoRecords = errors.New("queue: event has no records")
	// ErrAttributeMissing means the first message lacks the requested string attribute.
	ErrAttributeMissing = errors.New("queue: message attribute missing")
)

// ParseEvent decodes a delivered SQS payload. Field names match
// case-insensitively, so both "Records" and "records" are accepted.
func ParseEvent(raw []byte) (events.SQSEvent, error) {
	var ev events.SQSEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return events.SQSEvent{}, fmt.Errorf("queue: decode event: %w", err)
	}
	return ev, nil
}

// ReadAttribute returns the string value of attribute key on the first
// record of ev. An empty key reads AttributeCoinID.
func ReadAttribute(ev events.SQSEvent, key string) (string, error) {
	if key == "" {
		key = AttributeCoinID
	}
	if len(ev.Records) == 0 {
		return "", ErrNoRecords
	}
	attr, ok := ev.Records[0].MessageAttributes[key]
	if !ok || attr.StringValue == nil {
		return "", fmt.Errorf("%w: %q", ErrAttributeMissing, key)
	}
	return *attr.StringValue, nil
}

// ReadAttributeJSON is ParseEvent followed by ReadAttribute.
func ReadAttributeJSON(raw []byte, key string) (string, error) {
	ev, err := ParseEvent(raw)
	if err != nil {
		return "", err
	}
	return ReadAttribute(ev, key)
}
