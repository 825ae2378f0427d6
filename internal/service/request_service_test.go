package service

import (
	"context"
	"errors"
	"testing"

	"giftstock-backend/internal/model"
)

func submitTransfer(t *testing.T, svc RequestService, requesterID, targetID, giftID int64, qty int) RequestResponse {
	t.Helper()
	req, err := svc.Submit(context.Background(), requesterID, SubmitRequestDTO{
		GiftID:            giftID,
		Type:              model.RequestTypeTransfer,
		RequestedQuantity: qty,
		TargetHolderID:    &targetID,
		Purpose:           "team event",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return req
}

func TestSubmitIncreaseCreatesPendingRequest(t *testing.T) {
	st := newTestStore(t)
	svc := NewRequestService(st, nil)

	req, err := svc.Submit(context.Background(), aliceID, SubmitRequestDTO{
		GiftID:            mugID,
		Type:              model.RequestTypeIncrease,
		RequestedQuantity: 5,
		Purpose:           "customer giveaways",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.Status != model.RequestPending {
		t.Errorf("expected pending, got %s", req.Status)
	}
	if req.TargetHolderID != nil {
		t.Error("increase request should have no target")
	}

	// No inventory effect before approval.
	if got := balance(t, st, aliceID, mugID); got != 0 {
		t.Errorf("balance changed at submission: %d", got)
	}
}

func TestSubmitRejectsInvalidQuantityAndTarget(t *testing.T) {
	st := newTestStore(t)
	svc := NewRequestService(st, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, aliceID, SubmitRequestDTO{
		GiftID: mugID, Type: model.RequestTypeIncrease, RequestedQuantity: 0,
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero quantity: expected ErrInvalidAmount, got %v", err)
	}

	self := aliceID
	_, err = svc.Submit(ctx, aliceID, SubmitRequestDTO{
		GiftID: mugID, Type: model.RequestTypeTransfer, RequestedQuantity: 1, TargetHolderID: &self,
	})
	if !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("self target: expected ErrUnknownTarget, got %v", err)
	}

	_, err = svc.Submit(ctx, aliceID, SubmitRequestDTO{
		GiftID: mugID, Type: model.RequestTypeTransfer, RequestedQuantity: 1,
	})
	if !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("missing target: expected ErrUnknownTarget, got %v", err)
	}
}

func TestSubmitTransferPreflightBalanceCheck(t *testing.T) {
	svc := NewRequestService(newTestStore(t), nil)

	target := bobID
	_, err := svc.Submit(context.Background(), aliceID, SubmitRequestDTO{
		GiftID:            mugID,
		Type:              model.RequestTypeTransfer,
		RequestedQuantity: 3,
		TargetHolderID:    &target,
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestApproveTransferScenario(t *testing.T) {
	// Holder has 5 units, transfers 3 to another: balances end at 2 and 3,
	// two ledger entries, request approved.
	st := newTestStore(t)
	ledger := NewLedgerService(st, nil)
	svc := NewRequestService(st, nil)
	ctx := context.Background()

	if _, err := ledger.Credit(ctx, aliceID, mugID, 5, model.LedgerKindSend, "starting stock", managerID, nil); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	req := submitTransfer(t, svc, aliceID, bobID, mugID, 3)
	entriesBefore := ledgerLen(t, st)

	decided, err := svc.Approve(ctx, req.ID, managerID, 3)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if decided.Status != model.RequestApproved {
		t.Errorf("expected approved, got %s", decided.Status)
	}
	if decided.ApprovedQuantity != 3 {
		t.Errorf("expected approved quantity 3, got %d", decided.ApprovedQuantity)
	}
	if got := balance(t, st, aliceID, mugID); got != 2 {
		t.Errorf("source balance = %d, want 2", got)
	}
	if got := balance(t, st, bobID, mugID); got != 3 {
		t.Errorf("target balance = %d, want 3", got)
	}
	if got := ledgerLen(t, st); got != entriesBefore+2 {
		t.Errorf("expected exactly 2 new ledger entries, got %d", got-entriesBefore)
	}
}

func TestApproveIncreaseScenario(t *testing.T) {
	// Holder has 2 units, an approved increase of 5 brings them to 7 with
	// one receive entry of +5.
	st := newTestStore(t)
	ledger := NewLedgerService(st, nil)
	svc := NewRequestService(st, nil)
	ctx := context.Background()

	if _, err := ledger.Credit(ctx, aliceID, mugID, 2, model.LedgerKindSend, "starting stock", managerID, nil); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	req, err := svc.Submit(ctx, aliceID, SubmitRequestDTO{
		GiftID: mugID, Type: model.RequestTypeIncrease, RequestedQuantity: 5,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := svc.Approve(ctx, req.ID, managerID, 0); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got := balance(t, st, aliceID, mugID); got != 7 {
		t.Errorf("balance = %d, want 7", got)
	}

	_ = st.View(func(ds *model.Dataset) error {
		last := ds.Ledger[len(ds.Ledger)-1]
		if last.Kind != model.LedgerKindReceive || last.SignedQuantity != 5 {
			t.Errorf("expected receive entry of +5, got %s %d", last.Kind, last.SignedQuantity)
		}
		return nil
	})
}

func TestApproveDefaultsToRequestedQuantity(t *testing.T) {
	st := newTestStore(t)
	svc := NewRequestService(st, nil)
	ctx := context.Background()

	req, _ := svc.Submit(ctx, aliceID, SubmitRequestDTO{
		GiftID: mugID, Type: model.RequestTypeIncrease, RequestedQuantity: 4,
	})
	decided, err := svc.Approve(ctx, req.ID, managerID, -1)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if decided.ApprovedQuantity != 4 {
		t.Errorf("expected default to requested quantity 4, got %d", decided.ApprovedQuantity)
	}
}

func TestApproveDecidedRequestFails(t *testing.T) {
	st := newTestStore(t)
	svc := NewRequestService(st, nil)
	ctx := context.Background()

	req, _ := svc.Submit(ctx, aliceID, SubmitRequestDTO{
		GiftID: mugID, Type: model.RequestTypeIncrease, RequestedQuantity: 2,
	})
	if _, err := svc.Approve(ctx, req.ID, managerID, 0); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	entriesBefore := ledgerLen(t, st)
	balanceBefore := balance(t, st, aliceID, mugID)

	if _, err := svc.Approve(ctx, req.ID, managerID, 0); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("second approve: expected ErrAlreadyDecided, got %v", err)
	}
	if _, err := svc.Reject(ctx, req.ID, managerID, "late"); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("reject after approve: expected ErrAlreadyDecided, got %v", err)
	}

	if got := ledgerLen(t, st); got != entriesBefore {
		t.Errorf("ledger grew on re-decision: %d entries, want %d", got, entriesBefore)
	}
	if got := balance(t, st, aliceID, mugID); got != balanceBefore {
		t.Errorf("balance changed on re-decision: %d, want %d", got, balanceBefore)
	}
}

func TestApproveTransferRechecksBalance(t *testing.T) {
	// The submission-time check is advisory: if the balance fell in the
	// meantime, approval fails atomically and the request stays pending.
	st := newTestStore(t)
	ledger := NewLedgerService(st, nil)
	svc := NewRequestService(st, nil)
	ctx := context.Background()

	ledger.Credit(ctx, aliceID, mugID, 5, model.LedgerKindSend, "", managerID, nil)
	req := submitTransfer(t, svc, aliceID, bobID, mugID, 5)

	// Balance drops below the requested quantity while the request waits.
	if _, err := ledger.Debit(ctx, aliceID, mugID, 3, model.LedgerKindSend, "damaged stock", managerID, nil); err != nil {
		t.Fatalf("Debit: %v", err)
	}

	_, err := svc.Approve(ctx, req.ID, managerID, 0)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	_ = st.View(func(ds *model.Dataset) error {
		r := ds.FindRequest(req.ID)
		if r == nil || r.Status != model.RequestPending {
			t.Errorf("request should remain pending after failed approval, got %+v", r)
		}
		return nil
	})
	if got := balance(t, st, bobID, mugID); got != 0 {
		t.Errorf("target credited despite failed approval: %d", got)
	}
}

func TestRejectSetsReasonAndTimestamp(t *testing.T) {
	st := newTestStore(t)
	svc := NewRequestService(st, nil)
	ctx := context.Background()

	req, _ := svc.Submit(ctx, aliceID, SubmitRequestDTO{
		GiftID: mugID, Type: model.RequestTypeIncrease, RequestedQuantity: 2,
	})

	entriesBefore := ledgerLen(t, st)
	decided, err := svc.Reject(ctx, req.ID, managerID, "budget freeze")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if decided.Status != model.RequestRejected {
		t.Errorf("expected rejected, got %s", decided.Status)
	}
	if decided.RejectionReason != "budget freeze" {
		t.Errorf("unexpected rejection reason %q", decided.RejectionReason)
	}
	if decided.DecidedAt == nil {
		t.Error("decidedAt not set")
	}
	if got := ledgerLen(t, st); got != entriesBefore {
		t.Error("rejection must have no inventory effect")
	}
}

func TestApproveUnknownRequest(t *testing.T) {
	svc := NewRequestService(newTestStore(t), nil)

	if _, err := svc.Approve(context.Background(), 9999, managerID, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListFiltersByStatusNewestFirst(t *testing.T) {
	st := newTestStore(t)
	svc := NewRequestService(st, nil)
	ctx := context.Background()

	first, _ := svc.Submit(ctx, aliceID, SubmitRequestDTO{
		GiftID: mugID, Type: model.RequestTypeIncrease, RequestedQuantity: 1,
	})
	second, _ := svc.Submit(ctx, bobID, SubmitRequestDTO{
		GiftID: mugID, Type: model.RequestTypeIncrease, RequestedQuantity: 2,
	})
	svc.Approve(ctx, first.ID, managerID, 0)

	pending, total, err := svc.List(ctx, RequestFilter{Status: model.RequestPending})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(pending) != 1 || pending[0].ID != second.ID {
		t.Errorf("expected only the second request pending, got total=%d %+v", total, pending)
	}
	if pending[0].RequesterName == "" || pending[0].GiftName == "" {
		t.Error("expected enriched requester and gift names")
	}

	all, total, err := svc.List(ctx, RequestFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || all[0].ID != second.ID {
		t.Errorf("expected newest first, got %+v", all)
	}
}
