package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"giftstock-backend/internal/model"
	"giftstock-backend/internal/store"
)

// Seed fixture ids: holder 1 is the manager (50x gift 1, 30x gift 2,
// 20x gift 3), holders 2 and 3 are employees with no stock.
const (
	managerID = int64(1)
	aliceID   = int64(2)
	bobID     = int64(3)
	mugID     = int64(1)
	shirtID   = int64(2)
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "dataset.json"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	return st
}

func balance(t *testing.T, st *store.Store, holderID, giftID int64) int {
	t.Helper()
	qty := 0
	_ = st.View(func(ds *model.Dataset) error {
		if rec := ds.FindRecord(holderID, giftID); rec != nil {
			qty = rec.Quantity
		}
		return nil
	})
	return qty
}

func ledgerSum(t *testing.T, st *store.Store, holderID, giftID int64) int {
	t.Helper()
	sum := 0
	_ = st.View(func(ds *model.Dataset) error {
		for _, e := range ds.Ledger {
			if e.HolderID == holderID && e.GiftID == giftID {
				sum += e.SignedQuantity
			}
		}
		return nil
	})
	return sum
}

func ledgerLen(t *testing.T, st *store.Store) int {
	t.Helper()
	n := 0
	_ = st.View(func(ds *model.Dataset) error {
		n = len(ds.Ledger)
		return nil
	})
	return n
}

func TestCreditCreatesRecordLazily(t *testing.T) {
	st := newTestStore(t)
	svc := NewLedgerService(st, nil)
	ctx := context.Background()

	rec, err := svc.Credit(ctx, aliceID, mugID, 5, model.LedgerKindSend, "welcome pack", managerID, nil)
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if rec.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", rec.Quantity)
	}
	if got := ledgerSum(t, st, aliceID, mugID); got != 5 {
		t.Errorf("ledger sum = %d, want 5", got)
	}
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	st := newTestStore(t)
	svc := NewLedgerService(st, nil)
	ctx := context.Background()

	for _, amount := range []int{0, -3} {
		if _, err := svc.Credit(ctx, aliceID, mugID, amount, model.LedgerKindSend, "", managerID, nil); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Credit(%d): expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if got := balance(t, st, aliceID, mugID); got != 0 {
		t.Errorf("balance changed on rejected credit: %d", got)
	}
}

func TestDebitInsufficientBalance(t *testing.T) {
	st := newTestStore(t)
	svc := NewLedgerService(st, nil)
	ctx := context.Background()

	entriesBefore := ledgerLen(t, st)
	if _, err := svc.Debit(ctx, managerID, mugID, 51, model.LedgerKindSend, "", managerID, nil); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := balance(t, st, managerID, mugID); got != 50 {
		t.Errorf("balance changed on failed debit: %d", got)
	}
	if got := ledgerLen(t, st); got != entriesBefore {
		t.Errorf("ledger grew on failed debit: %d entries, want %d", got, entriesBefore)
	}
}

func TestBalanceEqualsLedgerSumAfterMixedOperations(t *testing.T) {
	st := newTestStore(t)
	svc := NewLedgerService(st, nil)
	ctx := context.Background()

	svc.Credit(ctx, aliceID, mugID, 10, model.LedgerKindSend, "", managerID, nil)
	svc.Debit(ctx, aliceID, mugID, 4, model.LedgerKindSend, "", managerID, nil)
	svc.Credit(ctx, aliceID, mugID, 7, model.LedgerKindSend, "", managerID, nil)
	svc.Transfer(ctx, aliceID, bobID, mugID, 6, "", managerID)

	for _, holderID := range []int64{aliceID, bobID} {
		got := balance(t, st, holderID, mugID)
		want := ledgerSum(t, st, holderID, mugID)
		if got != want {
			t.Errorf("holder %d: balance %d != ledger sum %d", holderID, got, want)
		}
		if got < 0 {
			t.Errorf("holder %d: negative balance %d", holderID, got)
		}
	}
}

func TestTransferMovesBothSides(t *testing.T) {
	st := newTestStore(t)
	svc := NewLedgerService(st, nil)
	ctx := context.Background()

	src, dst, err := svc.Transfer(ctx, managerID, aliceID, mugID, 8, "quarterly allocation", managerID)
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if src.Quantity != 42 || dst.Quantity != 8 {
		t.Errorf("expected 42/8 after transfer, got %d/%d", src.Quantity, dst.Quantity)
	}

	// Exactly two entries referencing each other as counterparties.
	_ = st.View(func(ds *model.Dataset) error {
		var out, in *model.LedgerEntry
		for i := range ds.Ledger {
			e := &ds.Ledger[i]
			if e.Kind == model.LedgerKindTransferOut && e.HolderID == managerID && e.GiftID == mugID {
				out = e
			}
			if e.Kind == model.LedgerKindReceive && e.HolderID == aliceID && e.GiftID == mugID {
				in = e
			}
		}
		if out == nil || in == nil {
			t.Fatal("missing transfer-out or receive ledger entry")
		}
		if out.SignedQuantity != -8 || in.SignedQuantity != 8 {
			t.Errorf("signed quantities %d/%d, want -8/8", out.SignedQuantity, in.SignedQuantity)
		}
		if out.CounterpartyHolderID == nil || *out.CounterpartyHolderID != aliceID {
			t.Error("transfer-out entry does not reference the target")
		}
		if in.CounterpartyHolderID == nil || *in.CounterpartyHolderID != managerID {
			t.Error("receive entry does not reference the source")
		}
		return nil
	})
}

func TestTransferAtomicOnFailedDebit(t *testing.T) {
	st := newTestStore(t)
	svc := NewLedgerService(st, nil)
	ctx := context.Background()

	entriesBefore := ledgerLen(t, st)
	_, _, err := svc.Transfer(ctx, aliceID, bobID, mugID, 3, "", managerID)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	if got := balance(t, st, bobID, mugID); got != 0 {
		t.Errorf("orphaned credit on failed transfer: target balance %d", got)
	}
	if got := ledgerLen(t, st); got != entriesBefore {
		t.Errorf("ledger grew on failed transfer: %d entries, want %d", got, entriesBefore)
	}
}

func TestTransferRejectsSelfAndUnknownTarget(t *testing.T) {
	st := newTestStore(t)
	svc := NewLedgerService(st, nil)
	ctx := context.Background()

	if _, _, err := svc.Transfer(ctx, managerID, managerID, mugID, 1, "", managerID); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("self transfer: expected ErrUnknownTarget, got %v", err)
	}
	if _, _, err := svc.Transfer(ctx, managerID, 999, mugID, 1, "", managerID); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("missing target: expected ErrUnknownTarget, got %v", err)
	}
}

func TestManualAdjustRecordsSignedDelta(t *testing.T) {
	st := newTestStore(t)
	svc := NewLedgerService(st, nil)
	ctx := context.Background()

	rec, err := svc.ManualAdjust(ctx, managerID, mugID, 45, "stock count", managerID)
	if err != nil {
		t.Fatalf("ManualAdjust: %v", err)
	}
	if rec.Quantity != 45 {
		t.Errorf("expected quantity 45, got %d", rec.Quantity)
	}

	_ = st.View(func(ds *model.Dataset) error {
		last := ds.Ledger[len(ds.Ledger)-1]
		if last.Kind != model.LedgerKindAdjust || last.SignedQuantity != -5 {
			t.Errorf("expected adjust entry of -5, got %s %d", last.Kind, last.SignedQuantity)
		}
		return nil
	})
}

func TestManualAdjustZeroDeltaStillRecordsEntry(t *testing.T) {
	st := newTestStore(t)
	svc := NewLedgerService(st, nil)
	ctx := context.Background()

	entriesBefore := ledgerLen(t, st)
	if _, err := svc.ManualAdjust(ctx, managerID, mugID, 50, "recount, no change", managerID); err != nil {
		t.Fatalf("ManualAdjust: %v", err)
	}
	if got := ledgerLen(t, st); got != entriesBefore+1 {
		t.Errorf("expected zero-delta adjustment to append an entry, ledger went %d -> %d", entriesBefore, got)
	}
}

func TestRemoveRecordAppendsCleanupEntry(t *testing.T) {
	st := newTestStore(t)
	svc := NewLedgerService(st, nil)
	ctx := context.Background()

	snapshot, err := svc.RemoveRecord(ctx, managerID, shirtID, managerID)
	if err != nil {
		t.Fatalf("RemoveRecord: %v", err)
	}
	if snapshot.Quantity != 30 {
		t.Errorf("expected snapshot quantity 30, got %d", snapshot.Quantity)
	}

	_ = st.View(func(ds *model.Dataset) error {
		if ds.FindRecord(managerID, shirtID) != nil {
			t.Error("record still present after removal")
		}
		last := ds.Ledger[len(ds.Ledger)-1]
		if last.Kind != model.LedgerKindDeleteCleanup || last.SignedQuantity != -30 {
			t.Errorf("expected delete-cleanup entry of -30, got %s %d", last.Kind, last.SignedQuantity)
		}
		return nil
	})

	if _, err := svc.RemoveRecord(ctx, managerID, shirtID, managerID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second removal: expected ErrNotFound, got %v", err)
	}
}
