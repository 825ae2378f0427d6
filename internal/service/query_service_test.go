package service

import (
	"context"
	"testing"

	"giftstock-backend/internal/model"
)

func TestHolderInventoryOnlyOwnRecords(t *testing.T) {
	st := newTestStore(t)
	ledger := NewLedgerService(st, nil)
	qs := NewQueryService(st)
	ctx := context.Background()

	ledger.Credit(ctx, aliceID, mugID, 3, model.LedgerKindSend, "", managerID, nil)

	views, err := qs.HolderInventory(ctx, aliceID)
	if err != nil {
		t.Fatalf("HolderInventory: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 record, got %d", len(views))
	}
	if views[0].GiftCode != "GFT-001" || views[0].Quantity != 3 {
		t.Errorf("unexpected view %+v", views[0])
	}
	if views[0].HolderName == "" || views[0].StoreName == "" {
		t.Error("expected holder and store names joined in")
	}
}

func TestAllInventorySearchMatchesHolderAndGiftFields(t *testing.T) {
	st := newTestStore(t)
	ledger := NewLedgerService(st, nil)
	qs := NewQueryService(st)
	ctx := context.Background()

	ledger.Credit(ctx, aliceID, mugID, 2, model.LedgerKindSend, "", managerID, nil)

	cases := []struct {
		search string
		want   int
	}{
		{"alice", 1},       // holder name
		{"EMP-0002", 1},    // employee code
		{"GFT-001", 2},     // gift code: manager seed + alice
		{"t-shirt", 1},     // gift name, case-insensitive
		{"no-such-x", 0},
	}
	for _, tc := range cases {
		views, total, err := qs.AllInventory(ctx, tc.search, 1, 100)
		if err != nil {
			t.Fatalf("AllInventory(%q): %v", tc.search, err)
		}
		if total != tc.want || len(views) != tc.want {
			t.Errorf("search %q: got %d records, want %d", tc.search, total, tc.want)
		}
	}
}

func TestLedgerHistoryNewestFirst(t *testing.T) {
	st := newTestStore(t)
	ledger := NewLedgerService(st, nil)
	qs := NewQueryService(st)
	ctx := context.Background()

	ledger.Credit(ctx, aliceID, mugID, 1, model.LedgerKindSend, "first", managerID, nil)
	ledger.Credit(ctx, aliceID, mugID, 2, model.LedgerKindSend, "second", managerID, nil)

	views, total, err := qs.LedgerHistory(ctx, aliceID, 1, 10)
	if err != nil {
		t.Fatalf("LedgerHistory: %v", err)
	}
	if total != 2 || len(views) != 2 {
		t.Fatalf("expected 2 entries, got %d", total)
	}
	if views[0].Reason != "second" || views[1].Reason != "first" {
		t.Errorf("expected newest first, got %q then %q", views[0].Reason, views[1].Reason)
	}
	if views[0].GiftName == "" || views[0].ActorName == "" {
		t.Error("expected gift and actor names joined in")
	}
}

func TestLedgerHistoryPagination(t *testing.T) {
	st := newTestStore(t)
	ledger := NewLedgerService(st, nil)
	qs := NewQueryService(st)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ledger.Credit(ctx, aliceID, mugID, 1, model.LedgerKindSend, "", managerID, nil)
	}

	page1, total, _ := qs.LedgerHistory(ctx, aliceID, 1, 2)
	page3, _, _ := qs.LedgerHistory(ctx, aliceID, 3, 2)
	if total != 5 || len(page1) != 2 || len(page3) != 1 {
		t.Errorf("pagination: total=%d page1=%d page3=%d", total, len(page1), len(page3))
	}
}

func TestSummaryCounts(t *testing.T) {
	st := newTestStore(t)
	rs := NewRequestService(st, nil)
	qs := NewQueryService(st)
	ctx := context.Background()

	rs.Submit(ctx, aliceID, SubmitRequestDTO{
		GiftID: mugID, Type: model.RequestTypeIncrease, RequestedQuantity: 1,
	})

	sum, err := qs.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.ActiveHolders != 3 || sum.ActiveGifts != 3 {
		t.Errorf("expected 3 holders / 3 gifts from seed, got %d / %d", sum.ActiveHolders, sum.ActiveGifts)
	}
	if sum.TotalQuantity != 100 {
		t.Errorf("expected seed total quantity 100, got %d", sum.TotalQuantity)
	}
	if sum.PendingRequests != 1 {
		t.Errorf("expected 1 pending request, got %d", sum.PendingRequests)
	}
}
