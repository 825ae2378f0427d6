package service

import (
	"fmt"
	"time"

	"giftstock-backend/internal/model"
)

// Dataset-level ledger primitives. Every balance mutation pairs with exactly
// one appended ledger entry, so a record's quantity is always the sum of its
// entries. Services call these inside store.Update; a returned error aborts
// the whole operation before anything is persisted.

func applyCredit(ds *model.Dataset, holderID, giftID int64, amount int, kind, reason string, actorID int64, counterparty *int64, now time.Time) (*model.InventoryRecord, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if ds.FindUser(holderID) == nil {
		return nil, fmt.Errorf("%w: holder %d", ErrNotFound, holderID)
	}
	if ds.FindGift(giftID) == nil {
		return nil, fmt.Errorf("%w: gift %d", ErrNotFound, giftID)
	}

	rec := ds.FindRecord(holderID, giftID)
	if rec == nil {
		// Created lazily on first credit.
		ds.Inventory = append(ds.Inventory, model.InventoryRecord{
			HolderID: holderID,
			GiftID:   giftID,
		})
		rec = &ds.Inventory[len(ds.Inventory)-1]
	}
	rec.Quantity += amount
	rec.LastUpdated = now

	appendEntry(ds, holderID, giftID, kind, amount, reason, actorID, counterparty, now)
	return rec, nil
}

func applyDebit(ds *model.Dataset, holderID, giftID int64, amount int, kind, reason string, actorID int64, counterparty *int64, now time.Time) (*model.InventoryRecord, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if ds.FindUser(holderID) == nil {
		return nil, fmt.Errorf("%w: holder %d", ErrNotFound, holderID)
	}
	if ds.FindGift(giftID) == nil {
		return nil, fmt.Errorf("%w: gift %d", ErrNotFound, giftID)
	}

	rec := ds.FindRecord(holderID, giftID)
	if rec == nil || rec.Quantity < amount {
		have := 0
		if rec != nil {
			have = rec.Quantity
		}
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, have, amount)
	}
	rec.Quantity -= amount
	rec.LastUpdated = now

	appendEntry(ds, holderID, giftID, kind, -amount, reason, actorID, counterparty, now)
	return rec, nil
}

// applyTransfer debits the source and credits the target as one unit. The
// debit runs first, so an insufficient source balance aborts before the
// credit exists; both sides change or neither does.
func applyTransfer(ds *model.Dataset, fromID, toID, giftID int64, amount int, reason string, actorID int64, now time.Time) (*model.InventoryRecord, *model.InventoryRecord, error) {
	target := ds.FindUser(toID)
	if toID == fromID || target == nil || !target.Active {
		return nil, nil, fmt.Errorf("%w: holder %d", ErrUnknownTarget, toID)
	}

	from, err := applyDebit(ds, fromID, giftID, amount, model.LedgerKindTransferOut, reason, actorID, &toID, now)
	if err != nil {
		return nil, nil, err
	}
	to, err := applyCredit(ds, toID, giftID, amount, model.LedgerKindReceive, reason, actorID, &fromID, now)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// applyAdjust sets the absolute quantity and records the signed delta as a
// single adjust entry. A zero delta still writes an entry: the confirmation
// that a count was taken is part of the audit trail.
func applyAdjust(ds *model.Dataset, holderID, giftID int64, newQuantity int, reason string, actorID int64, now time.Time) (*model.InventoryRecord, error) {
	if newQuantity < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, newQuantity)
	}
	if ds.FindUser(holderID) == nil {
		return nil, fmt.Errorf("%w: holder %d", ErrNotFound, holderID)
	}
	if ds.FindGift(giftID) == nil {
		return nil, fmt.Errorf("%w: gift %d", ErrNotFound, giftID)
	}

	rec := ds.FindRecord(holderID, giftID)
	if rec == nil {
		ds.Inventory = append(ds.Inventory, model.InventoryRecord{
			HolderID: holderID,
			GiftID:   giftID,
		})
		rec = &ds.Inventory[len(ds.Inventory)-1]
	}
	delta := newQuantity - rec.Quantity
	rec.Quantity = newQuantity
	rec.LastUpdated = now

	appendEntry(ds, holderID, giftID, model.LedgerKindAdjust, delta, reason, actorID, nil, now)
	return rec, nil
}

// applyRemoveRecord deletes the (holderID, giftID) record and appends a
// delete-cleanup entry of the negated prior quantity, regardless of balance.
// It returns a snapshot of the record as it was before removal.
func applyRemoveRecord(ds *model.Dataset, holderID, giftID int64, reason string, actorID int64, now time.Time) (model.InventoryRecord, error) {
	for i := range ds.Inventory {
		if ds.Inventory[i].HolderID == holderID && ds.Inventory[i].GiftID == giftID {
			snapshot := ds.Inventory[i]
			ds.Inventory = append(ds.Inventory[:i], ds.Inventory[i+1:]...)
			appendEntry(ds, holderID, giftID, model.LedgerKindDeleteCleanup, -snapshot.Quantity, reason, actorID, nil, now)
			return snapshot, nil
		}
	}
	return model.InventoryRecord{}, fmt.Errorf("%w: inventory record (%d, %d)", ErrNotFound, holderID, giftID)
}

func appendEntry(ds *model.Dataset, holderID, giftID int64, kind string, signed int, reason string, actorID int64, counterparty *int64, now time.Time) {
	ds.Ledger = append(ds.Ledger, model.LedgerEntry{
		ID:                   ds.Counters.TakeLedgerID(),
		HolderID:             holderID,
		GiftID:               giftID,
		Kind:                 kind,
		SignedQuantity:       signed,
		CounterpartyHolderID: counterparty,
		Reason:               reason,
		ActorID:              actorID,
		CreatedAt:            now,
	})
}
