// Package audit records an append-only trail of lifecycle events that are not
// themselves ledger entries: account opened, suspended, closed, user created
// or deleted. Ledger entries carry their own immutability guarantees; this
// trail covers everything around them.
package audit

import (
	"time"

	"eaglebank/pkg/domain"
)

// EventKind names an auditable occurrence.
type EventKind string

const (
	EventAccountOpened        EventKind = "account.opened"
	EventAccountRenamed       EventKind = "account.renamed"
	EventAccountSuspended     EventKind = "account.suspended"
	EventAccountActivated     EventKind = "account.activated"
	EventAccountClosed        EventKind = "account.closed"
	EventTransactionProcessed EventKind = "transaction.processed"
	EventUserCreated          EventKind = "user.created"
	EventUserDeleted          EventKind = "user.deleted"
)

// Event is one audit record. Detail is free-form key-value context, already
// reduced to strings so sinks need no knowledge of domain types.
type Event struct {
	Kind          EventKind
	ActorID       domain.UserID
	AccountNumber domain.AccountNumber
	Detail        map[string]string
	Timestamp     time.Time
}
