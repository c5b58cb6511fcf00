package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// RowEvent is the transport representation of one decoded line.
type RowEvent struct {
	ID          string           `json:"id"`
	Family      string           `json:"family"`
	RecordType  string           `json:"record_type"`
	Line        int              `json:"line"`
	Fields      map[string]Value `json:"fields"`
	ProcessedAt time.Time        `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// SerializeRowEvent marshals a RowEvent into an OutputEvent keyed by its ID.
func SerializeRowEvent(event RowEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize row event: %w", err)
	}
	return OutputEvent{
		Key:   []byte(event.ID),
		Value: data,
		Headers: map[string]string{
			"family":       event.Family,
			"record_type":  event.RecordType,
			"processed_at": event.ProcessedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}
