package service

import (
	"context"
	"fmt"
	"time"

	"giftstock-backend/internal/model"
	"giftstock-backend/internal/store"
	ws "giftstock-backend/internal/websocket"
)

// --- DTOs ---

type SubmitRequestDTO struct {
	GiftID            int64  `json:"gift_id" binding:"required"`
	Type              string `json:"type" binding:"required,oneof=increase transfer"`
	RequestedQuantity int    `json:"requested_quantity" binding:"required,gt=0"`
	TargetHolderID    *int64 `json:"target_holder_id"`
	Purpose           string `json:"purpose"`
}

type RequestFilter struct {
	Status string // pending, approved, rejected or empty for all
	Page   int
	Limit  int
}

// RequestResponse is the request record enriched with requester/target/gift
// reference data for presentation.
type RequestResponse struct {
	ID                int64   `json:"id"`
	RequesterID       int64   `json:"requester_id"`
	RequesterName     string  `json:"requester_name"`
	GiftID            int64   `json:"gift_id"`
	GiftCode          string  `json:"gift_code"`
	GiftName          string  `json:"gift_name"`
	Type              string  `json:"type"`
	RequestedQuantity int     `json:"requested_quantity"`
	TargetHolderID    *int64  `json:"target_holder_id,omitempty"`
	TargetHolderName  string  `json:"target_holder_name,omitempty"`
	Purpose           string  `json:"purpose"`
	Status            string  `json:"status"`
	ApproverID        *int64  `json:"approver_id,omitempty"`
	ApproverName      string  `json:"approver_name,omitempty"`
	ApprovedQuantity  int     `json:"approved_quantity,omitempty"`
	RejectionReason   string  `json:"rejection_reason,omitempty"`
	CreatedAt         string  `json:"created_at"`
	DecidedAt         *string `json:"decided_at,omitempty"`
}

// RequestService drives the request lifecycle: pending -> approved|rejected,
// exactly once. Approving is the authoritative balance check for transfers;
// the check in Submit is advisory only, since the balance can change while a
// request waits in the queue.
type RequestService interface {
	Submit(ctx context.Context, requesterID int64, req SubmitRequestDTO) (RequestResponse, error)
	Approve(ctx context.Context, requestID, approverID int64, approvedQuantity int) (RequestResponse, error)
	Reject(ctx context.Context, requestID, approverID int64, reason string) (RequestResponse, error)
	List(ctx context.Context, filter RequestFilter) ([]RequestResponse, int, error)
}

type requestService struct {
	store *store.Store
	hub   *ws.Hub
}

func NewRequestService(st *store.Store, hub *ws.Hub) RequestService {
	return &requestService{store: st, hub: hub}
}

func (s *requestService) Submit(ctx context.Context, requesterID int64, req SubmitRequestDTO) (RequestResponse, error) {
	var out RequestResponse
	err := s.store.Update(func(ds *model.Dataset) error {
		if req.RequestedQuantity <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidAmount, req.RequestedQuantity)
		}
		requester := ds.FindUser(requesterID)
		if requester == nil || !requester.Active {
			return fmt.Errorf("%w: holder %d", ErrNotFound, requesterID)
		}
		gift := ds.FindGift(req.GiftID)
		if gift == nil || !gift.Active {
			return fmt.Errorf("%w: gift %d", ErrNotFound, req.GiftID)
		}

		switch req.Type {
		case model.RequestTypeIncrease:
			// No target, no balance requirement.
		case model.RequestTypeTransfer:
			if req.TargetHolderID == nil {
				return fmt.Errorf("%w: target required for transfer", ErrUnknownTarget)
			}
			target := ds.FindUser(*req.TargetHolderID)
			if *req.TargetHolderID == requesterID || target == nil || !target.Active {
				return fmt.Errorf("%w: holder %v", ErrUnknownTarget, *req.TargetHolderID)
			}
			// Advisory pre-flight check: approval re-checks authoritatively.
			rec := ds.FindRecord(requesterID, req.GiftID)
			if rec == nil || rec.Quantity < req.RequestedQuantity {
				have := 0
				if rec != nil {
					have = rec.Quantity
				}
				return fmt.Errorf("%w: have %d, requested %d", ErrInsufficientBalance, have, req.RequestedQuantity)
			}
		default:
			return fmt.Errorf("invalid request type %q", req.Type)
		}

		target := req.TargetHolderID
		if req.Type == model.RequestTypeIncrease {
			target = nil
		}
		r := model.Request{
			ID:                ds.Counters.TakeRequestID(),
			RequesterID:       requesterID,
			GiftID:            req.GiftID,
			Type:              req.Type,
			RequestedQuantity: req.RequestedQuantity,
			TargetHolderID:    target,
			Purpose:           req.Purpose,
			Status:            model.RequestPending,
			CreatedAt:         time.Now(),
		}
		ds.Requests = append(ds.Requests, r)
		out = toRequestResponse(ds, r)
		return nil
	})
	if err != nil {
		return RequestResponse{}, err
	}

	s.hub.Publish(ws.EventRequestSubmitted, out)
	return out, nil
}

func (s *requestService) Approve(ctx context.Context, requestID, approverID int64, approvedQuantity int) (RequestResponse, error) {
	var out RequestResponse
	err := s.store.Update(func(ds *model.Dataset) error {
		r := ds.FindRequest(requestID)
		if r == nil {
			return fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		if r.Status != model.RequestPending {
			return fmt.Errorf("%w: request %d is %s", ErrAlreadyDecided, requestID, r.Status)
		}

		qty := approvedQuantity
		if qty <= 0 {
			qty = r.RequestedQuantity
		}

		now := time.Now()
		switch r.Type {
		case model.RequestTypeIncrease:
			if _, err := applyCredit(ds, r.RequesterID, r.GiftID, qty, model.LedgerKindReceive, r.Purpose, approverID, nil, now); err != nil {
				return err
			}
		case model.RequestTypeTransfer:
			// Authoritative check: if the requester's balance fell below the
			// approved quantity since submission, the whole approval fails
			// and the request stays pending.
			if r.TargetHolderID == nil {
				return fmt.Errorf("%w: transfer request %d has no target", ErrUnknownTarget, requestID)
			}
			if _, _, err := applyTransfer(ds, r.RequesterID, *r.TargetHolderID, r.GiftID, qty, r.Purpose, approverID, now); err != nil {
				return err
			}
		default:
			return fmt.Errorf("invalid request type %q", r.Type)
		}

		r.Status = model.RequestApproved
		r.ApproverID = &approverID
		r.ApprovedQuantity = qty
		r.DecidedAt = &now
		out = toRequestResponse(ds, *r)
		return nil
	})
	if err != nil {
		return RequestResponse{}, err
	}

	s.hub.Publish(ws.EventRequestDecided, out)
	return out, nil
}

func (s *requestService) Reject(ctx context.Context, requestID, approverID int64, reason string) (RequestResponse, error) {
	var out RequestResponse
	err := s.store.Update(func(ds *model.Dataset) error {
		r := ds.FindRequest(requestID)
		if r == nil {
			return fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		if r.Status != model.RequestPending {
			return fmt.Errorf("%w: request %d is %s", ErrAlreadyDecided, requestID, r.Status)
		}

		now := time.Now()
		r.Status = model.RequestRejected
		r.ApproverID = &approverID
		r.RejectionReason = reason
		r.DecidedAt = &now
		out = toRequestResponse(ds, *r)
		return nil
	})
	if err != nil {
		return RequestResponse{}, err
	}

	s.hub.Publish(ws.EventRequestDecided, out)
	return out, nil
}

func (s *requestService) List(ctx context.Context, filter RequestFilter) ([]RequestResponse, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	var result []RequestResponse
	var total int
	err := s.store.View(func(ds *model.Dataset) error {
		var matched []model.Request
		for _, r := range ds.Requests {
			if filter.Status != "" && r.Status != filter.Status {
				continue
			}
			matched = append(matched, r)
		}
		total = len(matched)

		// Newest first.
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}

		start := (filter.Page - 1) * filter.Limit
		if start > len(matched) {
			start = len(matched)
		}
		end := start + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}

		result = make([]RequestResponse, 0, end-start)
		for _, r := range matched[start:end] {
			result = append(result, toRequestResponse(ds, r))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// --- Helpers ---

func toRequestResponse(ds *model.Dataset, r model.Request) RequestResponse {
	resp := RequestResponse{
		ID:                r.ID,
		RequesterID:       r.RequesterID,
		GiftID:            r.GiftID,
		Type:              r.Type,
		RequestedQuantity: r.RequestedQuantity,
		TargetHolderID:    r.TargetHolderID,
		Purpose:           r.Purpose,
		Status:            r.Status,
		ApproverID:        r.ApproverID,
		ApprovedQuantity:  r.ApprovedQuantity,
		RejectionReason:   r.RejectionReason,
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
	}
	if u := ds.FindUser(r.RequesterID); u != nil {
		resp.RequesterName = u.DisplayName
	}
	if g := ds.FindGift(r.GiftID); g != nil {
		resp.GiftCode = g.Code
		resp.GiftName = g.Name
	}
	if r.TargetHolderID != nil {
		if u := ds.FindUser(*r.TargetHolderID); u != nil {
			resp.TargetHolderName = u.DisplayName
		}
	}
	if r.ApproverID != nil {
		if u := ds.FindUser(*r.ApproverID); u != nil {
			resp.ApproverName = u.DisplayName
		}
	}
	if r.DecidedAt != nil {
		s := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &s
	}
	return resp
}
