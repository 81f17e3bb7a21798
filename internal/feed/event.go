// Package feed delivers document change events from PostgreSQL to in-process
// subscribers. A trigger announces every insert, update, and delete on the
// documents table via pg_notify; the Listener holds a dedicated connection,
// decodes the payloads, and the Hub fans them out to scoped subscriptions.
//
// Payloads carry identity only (operation, document id, owner id, change
// time), never document content. Consumers re-read the row through the
// repository, which also re-applies visibility scoping.
package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Op is the kind of change a feed event describes.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event is one document change announced on the notification channel.
type Event struct {
	Op        Op        `json:"op"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DecodeEvent parses a notification payload. The channel is a trust boundary:
// anything that can run NOTIFY can write to it, so payloads that do not match
// the expected shape exactly are rejected rather than partially applied.
func DecodeEvent(payload []byte) (Event, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()

	var ev Event
	if err := dec.Decode(&ev); err != nil {
		return Event{}, fmt.Errorf("decode feed payload: %w", err)
	}
	if dec.More() {
		return Event{}, errors.New("decode feed payload: trailing data")
	}

	switch ev.Op {
	case OpInsert, OpUpdate, OpDelete:
	default:
		return Event{}, fmt.Errorf("unknown feed op %q", ev.Op)
	}
	if ev.ID == "" {
		return Event{}, errors.New("feed event missing id")
	}
	if ev.OwnerID == "" {
		return Event{}, errors.New("feed event missing owner_id")
	}
	if ev.UpdatedAt.IsZero() {
		return Event{}, errors.New("feed event missing updated_at")
	}

	return ev, nil
}
