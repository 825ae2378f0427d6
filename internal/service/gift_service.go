package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"giftstock-backend/internal/model"
	"giftstock-backend/internal/store"
)

// --- DTOs ---

type CreateGiftRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
}

type UpdateGiftRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Active   *bool  `json:"active"`
}

// DeleteGiftResult reports what the gift cascade removed
type DeleteGiftResult struct {
	RemovedRecords  int `json:"removed_inventory_records"`
	RemovedRequests int `json:"removed_requests"`
}

// GiftService manages the gift catalog. Deactivating a gift only hides it
// from selection lists; deleting one is the single cascade entry point for
// inventory records and requests that reference it.
type GiftService interface {
	CreateGift(ctx context.Context, req CreateGiftRequest) (model.Gift, error)
	UpdateGift(ctx context.Context, id int64, req UpdateGiftRequest) (model.Gift, error)
	ListGifts(ctx context.Context, activeOnly bool, search string) ([]model.Gift, error)
	DeleteGift(ctx context.Context, id int64, actorID int64) (DeleteGiftResult, error)
}

type giftService struct {
	store *store.Store
}

func NewGiftService(st *store.Store) GiftService {
	return &giftService{store: st}
}

func (s *giftService) CreateGift(ctx context.Context, req CreateGiftRequest) (model.Gift, error) {
	var out model.Gift
	err := s.store.Update(func(ds *model.Dataset) error {
		if ds.FindGiftByCode(req.Code) != nil {
			return fmt.Errorf("gift code %q already exists", req.Code)
		}
		now := time.Now()
		g := model.Gift{
			ID:        ds.Counters.TakeGiftID(),
			Code:      req.Code,
			Name:      req.Name,
			Category:  req.Category,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		ds.Gifts = append(ds.Gifts, g)
		out = g
		return nil
	})
	if err != nil {
		return model.Gift{}, err
	}
	return out, nil
}

func (s *giftService) UpdateGift(ctx context.Context, id int64, req UpdateGiftRequest) (model.Gift, error) {
	var out model.Gift
	err := s.store.Update(func(ds *model.Dataset) error {
		g := ds.FindGift(id)
		if g == nil {
			return fmt.Errorf("%w: gift %d", ErrNotFound, id)
		}
		if req.Name != "" {
			g.Name = req.Name
		}
		if req.Category != "" {
			g.Category = req.Category
		}
		if req.Active != nil {
			g.Active = *req.Active
		}
		g.UpdatedAt = time.Now()
		out = *g
		return nil
	})
	if err != nil {
		return model.Gift{}, err
	}
	return out, nil
}

func (s *giftService) ListGifts(ctx context.Context, activeOnly bool, search string) ([]model.Gift, error) {
	var gifts []model.Gift
	err := s.store.View(func(ds *model.Dataset) error {
		q := strings.ToLower(search)
		for _, g := range ds.Gifts {
			if activeOnly && !selectableGift(g) {
				continue
			}
			if q != "" &&
				!strings.Contains(strings.ToLower(g.Name), q) &&
				!strings.Contains(strings.ToLower(g.Code), q) {
				continue
			}
			gifts = append(gifts, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gifts, nil
}

// DeleteGift removes a gift and cascades: every inventory record for it goes
// (one delete-cleanup ledger entry each) along with every request that
// references it. The result reports the removed counts. Past ledger entries
// stay untouched.
func (s *giftService) DeleteGift(ctx context.Context, id int64, actorID int64) (DeleteGiftResult, error) {
	var result DeleteGiftResult
	err := s.store.Update(func(ds *model.Dataset) error {
		g := ds.FindGift(id)
		if g == nil {
			return fmt.Errorf("%w: gift %d", ErrNotFound, id)
		}

		now := time.Now()
		var keptRecords []model.InventoryRecord
		for _, rec := range ds.Inventory {
			if rec.GiftID != id {
				keptRecords = append(keptRecords, rec)
				continue
			}
			appendEntry(ds, rec.HolderID, rec.GiftID, model.LedgerKindDeleteCleanup, -rec.Quantity, "gift removed", actorID, nil, now)
			result.RemovedRecords++
		}
		ds.Inventory = keptRecords

		var keptRequests []model.Request
		for _, r := range ds.Requests {
			if r.GiftID == id {
				result.RemovedRequests++
				continue
			}
			keptRequests = append(keptRequests, r)
		}
		ds.Requests = keptRequests

		for i := range ds.Gifts {
			if ds.Gifts[i].ID == id {
				ds.Gifts = append(ds.Gifts[:i], ds.Gifts[i+1:]...)
				break
			}
		}
		return nil
	})
	if err != nil {
		return DeleteGiftResult{}, err
	}
	return result, nil
}
