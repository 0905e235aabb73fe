package amqp

import (
	"encoding/json"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

var ErrMalformedMessage = errors.New("malformed ledger change message")

// EncodeChange serialises a ledger change for the wire.
func EncodeChange(change core.LedgerChange) ([]byte, error) {
	return json.Marshal(change)
}

// DecodeChange parses a delivery body. Messages without an entity, action
// or id are rejected so the consumer can drop them instead of requeueing.
func DecodeChange(data []byte) (core.LedgerChange, error) {
	var change core.LedgerChange
	if err := json.Unmarshal(data, &change); err != nil {
		return core.LedgerChange{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	switch change.Entity {
	case core.EntityTransaction, core.EntityBudget:
	default:
		return core.LedgerChange{}, fmt.Errorf("%w: unknown entity %q", ErrMalformedMessage, change.Entity)
	}
	switch change.Action {
	case core.ActionCreated, core.ActionUpdated, core.ActionDeleted:
	default:
		return core.LedgerChange{}, fmt.Errorf("%w: unknown action %q", ErrMalformedMessage, change.Action)
	}
	if change.ID == "" {
		return core.LedgerChange{}, fmt.Errorf("%w: missing id", ErrMalformedMessage)
	}
	return change, nil
}
