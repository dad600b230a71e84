package events

import (
	"encoding/json"
	"time"
)

// Event types pushed to feed consumers over SSE.
const (
	TypeListingsAdded       = "listings_added"
	TypeAggregationFinished = "aggregation_finished"
	TypeListingUpdated      = "listing_updated"
	TypeListingDeleted      = "listing_deleted"
	TypePing                = "ping"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Make renders an event envelope to the wire string subscribers receive.
func Make(reqID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   1,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
