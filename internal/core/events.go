package core

import "time"

const (
	EntityTransaction Entity = "transaction"
	EntityBudget      Entity = "budget"
)

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

type (
	Entity string
	Action string

	// LedgerChange describes one successful write to the ledger. It carries
	// identifiers only; consumers reload whatever they need.
	LedgerChange struct {
		Entity Entity    `json:"entity"`
		Action Action    `json:"action"`
		ID     string    `json:"id"`
		Month  string    `json:"month,omitempty"`
		At     time.Time `json:"at"`
	}
)

func NewLedgerChange(entity Entity, action Action, id, month string) LedgerChange {
	return LedgerChange{
		Entity: entity,
		Action: action,
		ID:     id,
		Month:  month,
		At:     time.Now().UTC(),
	}
}
