package model

import "time"

// LedgerKind enum constants
const (
	LedgerKindSend          = "send"           // direct grant/withdrawal by a manager
	LedgerKindAdjust        = "adjust"         // absolute quantity correction
	LedgerKindReceive       = "receive"        // credit side of an approved request
	LedgerKindTransferOut   = "transfer-out"   // debit side of a transfer
	LedgerKindDeleteCleanup = "delete-cleanup" // record removed together with its holder/gift
)

// InventoryRecord holds the current balance of one gift for one holder.
// At most one record exists per (HolderID, GiftID) pair and the quantity is
// always the sum of that pair's ledger entries.
type InventoryRecord struct {
	HolderID    int64     `json:"holder_id"`
	GiftID      int64     `json:"gift_id"`
	Quantity    int       `json:"quantity"`
	LastUpdated time.Time `json:"last_updated"`
}

// LedgerEntry records one balance change. Entries are append-only: removing a
// holder or gift appends delete-cleanup entries instead of rewriting history.
type LedgerEntry struct {
	ID                   int64     `json:"id"`
	HolderID             int64     `json:"holder_id"`
	GiftID               int64     `json:"gift_id"`
	Kind                 string    `json:"kind"`
	SignedQuantity       int       `json:"signed_quantity"` // positive = credit, negative = debit
	CounterpartyHolderID *int64    `json:"counterparty_holder_id,omitempty"`
	Reason               string    `json:"reason"`
	ActorID              int64     `json:"actor_id"`
	CreatedAt            time.Time `json:"created_at"`
}
