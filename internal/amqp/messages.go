package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action names the kind of change a TransactionEvent reports.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionImported Action = "imported"
)

func (a Action) valid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted, ActionImported:
		return true
	}
	return false
}

// TransactionEvent is a lightweight change notification. It carries the id
// of the affected transaction, or the number of records for an import;
// consumers fetch the data they need from the API.
type TransactionEvent struct {
	Action    Action    `json:"action"`
	ID        string    `json:"id,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEvent creates an event for a single transaction.
func NewTransactionEvent(action Action, id string, at time.Time) TransactionEvent {
	return TransactionEvent{Action: action, ID: id, Timestamp: at.UTC()}
}

// NewImportEvent creates an event for a bulk import of count records.
func NewImportEvent(count int, at time.Time) TransactionEvent {
	return TransactionEvent{Action: ActionImported, Count: count, Timestamp: at.UTC()}
}

// ToJSON converts the event to JSON bytes
func (e TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes and checks an event body.
func TransactionEventFromJSON(data []byte) (TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return TransactionEvent{}, err
	}
	if !ev.Action.valid() {
		return TransactionEvent{}, fmt.Errorf("unknown event action %q", ev.Action)
	}
	return ev, nil
}
