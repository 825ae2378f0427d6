package service

import (
	"context"
	"errors"
	"testing"

	"giftstock-backend/internal/model"
)

func TestCreateGiftRejectsDuplicateCode(t *testing.T) {
	svc := NewGiftService(newTestStore(t))
	ctx := context.Background()

	if _, err := svc.CreateGift(ctx, CreateGiftRequest{Code: "GFT-001", Name: "Duplicate Mug"}); err == nil {
		t.Error("expected duplicate code error")
	}

	gift, err := svc.CreateGift(ctx, CreateGiftRequest{Code: "GFT-100", Name: "Sticker Pack", Category: "stationery"})
	if err != nil {
		t.Fatalf("CreateGift: %v", err)
	}
	if !gift.Active || gift.ID == 0 {
		t.Errorf("unexpected gift %+v", gift)
	}
}

func TestListGiftsActiveOnlyHidesDeactivated(t *testing.T) {
	st := newTestStore(t)
	svc := NewGiftService(st)
	ctx := context.Background()

	inactive := false
	if _, err := svc.UpdateGift(ctx, mugID, UpdateGiftRequest{Active: &inactive}); err != nil {
		t.Fatalf("UpdateGift: %v", err)
	}

	all, _ := svc.ListGifts(ctx, false, "")
	selectable, _ := svc.ListGifts(ctx, true, "")
	if len(all) != 3 || len(selectable) != 2 {
		t.Errorf("expected 3 total / 2 selectable, got %d / %d", len(all), len(selectable))
	}
}

func TestDeleteGiftCascadesAndReportsCounts(t *testing.T) {
	// Gift with 3 inventory records and 1 pending request: the cascade
	// removes all of them and reports the counts.
	st := newTestStore(t)
	ledger := NewLedgerService(st, nil)
	requests := NewRequestService(st, nil)
	svc := NewGiftService(st)
	ctx := context.Background()

	// Seed already gives the manager a record for gift 1.
	ledger.Credit(ctx, aliceID, mugID, 4, model.LedgerKindSend, "", managerID, nil)
	ledger.Credit(ctx, bobID, mugID, 2, model.LedgerKindSend, "", managerID, nil)
	if _, err := requests.Submit(ctx, aliceID, SubmitRequestDTO{
		GiftID: mugID, Type: model.RequestTypeIncrease, RequestedQuantity: 1,
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result, err := svc.DeleteGift(ctx, mugID, managerID)
	if err != nil {
		t.Fatalf("DeleteGift: %v", err)
	}
	if result.RemovedRecords != 3 || result.RemovedRequests != 1 {
		t.Errorf("expected 3 records / 1 request removed, got %d / %d",
			result.RemovedRecords, result.RemovedRequests)
	}

	_ = st.View(func(ds *model.Dataset) error {
		if ds.FindGift(mugID) != nil {
			t.Error("gift still present after delete")
		}
		for _, rec := range ds.Inventory {
			if rec.GiftID == mugID {
				t.Error("inventory record for deleted gift still present")
			}
		}
		for _, r := range ds.Requests {
			if r.GiftID == mugID {
				t.Error("request for deleted gift still present")
			}
		}
		// History preserved, cleanup entries appended.
		cleanups := 0
		for _, e := range ds.Ledger {
			if e.GiftID == mugID && e.Kind == model.LedgerKindDeleteCleanup {
				cleanups++
			}
		}
		if cleanups != 3 {
			t.Errorf("expected 3 delete-cleanup entries, got %d", cleanups)
		}
		return nil
	})
}

func TestDeleteGiftNotFound(t *testing.T) {
	svc := NewGiftService(newTestStore(t))
	if _, err := svc.DeleteGift(context.Background(), 9999, managerID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
