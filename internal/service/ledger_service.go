package service

import (
	"context"
	"time"

	"giftstock-backend/internal/model"
	"giftstock-backend/internal/store"
	ws "giftstock-backend/internal/websocket"
)

// LedgerService mediates direct inventory mutations. Each call is one atomic
// unit: validate and mutate against a consistent snapshot, persist, then
// report. Managers use these for grants, withdrawals, stock counts and
// record removal; approved requests go through RequestService instead.
type LedgerService interface {
	Credit(ctx context.Context, holderID, giftID int64, amount int, kind, reason string, actorID int64, counterparty *int64) (model.InventoryRecord, error)
	Debit(ctx context.Context, holderID, giftID int64, amount int, kind, reason string, actorID int64, counterparty *int64) (model.InventoryRecord, error)
	Transfer(ctx context.Context, fromID, toID, giftID int64, amount int, reason string, actorID int64) (model.InventoryRecord, model.InventoryRecord, error)
	ManualAdjust(ctx context.Context, holderID, giftID int64, newQuantity int, reason string, actorID int64) (model.InventoryRecord, error)
	RemoveRecord(ctx context.Context, holderID, giftID int64, actorID int64) (model.InventoryRecord, error)
}

type ledgerService struct {
	store *store.Store
	hub   *ws.Hub
}

func NewLedgerService(st *store.Store, hub *ws.Hub) LedgerService {
	return &ledgerService{store: st, hub: hub}
}

func (s *ledgerService) Credit(ctx context.Context, holderID, giftID int64, amount int, kind, reason string, actorID int64, counterparty *int64) (model.InventoryRecord, error) {
	var out model.InventoryRecord
	err := s.store.Update(func(ds *model.Dataset) error {
		rec, err := applyCredit(ds, holderID, giftID, amount, kind, reason, actorID, counterparty, time.Now())
		if err != nil {
			return err
		}
		out = *rec
		return nil
	})
	if err != nil {
		return model.InventoryRecord{}, err
	}
	s.notifyInventory(out)
	return out, nil
}

func (s *ledgerService) Debit(ctx context.Context, holderID, giftID int64, amount int, kind, reason string, actorID int64, counterparty *int64) (model.InventoryRecord, error) {
	var out model.InventoryRecord
	err := s.store.Update(func(ds *model.Dataset) error {
		rec, err := applyDebit(ds, holderID, giftID, amount, kind, reason, actorID, counterparty, time.Now())
		if err != nil {
			return err
		}
		out = *rec
		return nil
	})
	if err != nil {
		return model.InventoryRecord{}, err
	}
	s.notifyInventory(out)
	return out, nil
}

func (s *ledgerService) Transfer(ctx context.Context, fromID, toID, giftID int64, amount int, reason string, actorID int64) (model.InventoryRecord, model.InventoryRecord, error) {
	var src, dst model.InventoryRecord
	err := s.store.Update(func(ds *model.Dataset) error {
		from, to, err := applyTransfer(ds, fromID, toID, giftID, amount, reason, actorID, time.Now())
		if err != nil {
			return err
		}
		src, dst = *from, *to
		return nil
	})
	if err != nil {
		return model.InventoryRecord{}, model.InventoryRecord{}, err
	}
	s.notifyInventory(src)
	s.notifyInventory(dst)
	return src, dst, nil
}

func (s *ledgerService) ManualAdjust(ctx context.Context, holderID, giftID int64, newQuantity int, reason string, actorID int64) (model.InventoryRecord, error) {
	var out model.InventoryRecord
	err := s.store.Update(func(ds *model.Dataset) error {
		rec, err := applyAdjust(ds, holderID, giftID, newQuantity, reason, actorID, time.Now())
		if err != nil {
			return err
		}
		out = *rec
		return nil
	})
	if err != nil {
		return model.InventoryRecord{}, err
	}
	s.notifyInventory(out)
	return out, nil
}

func (s *ledgerService) RemoveRecord(ctx context.Context, holderID, giftID int64, actorID int64) (model.InventoryRecord, error) {
	var snapshot model.InventoryRecord
	err := s.store.Update(func(ds *model.Dataset) error {
		snap, err := applyRemoveRecord(ds, holderID, giftID, "record removed", actorID, time.Now())
		if err != nil {
			return err
		}
		snapshot = snap
		return nil
	})
	if err != nil {
		return model.InventoryRecord{}, err
	}
	s.hub.Publish(ws.EventInventoryUpdated, map[string]interface{}{
		"holder_id": holderID,
		"gift_id":   giftID,
		"removed":   true,
	})
	return snapshot, nil
}

func (s *ledgerService) notifyInventory(rec model.InventoryRecord) {
	s.hub.Publish(ws.EventInventoryUpdated, map[string]interface{}{
		"holder_id": rec.HolderID,
		"gift_id":   rec.GiftID,
		"quantity":  rec.Quantity,
	})
}
